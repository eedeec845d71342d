package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qpair/go-qpair/models"
)

type ApplyService struct {
	provisioner   models.QueueProvisioner
	stateDb       models.StateRepository
	metricService models.MetricService
	notifier      models.Notifier
	logger        models.Logger
}

func NewApplyService(
	provisioner models.QueueProvisioner,
	stateDb models.StateRepository,
	metricService models.MetricService,
	notifier models.Notifier,
	logger models.Logger,
) *ApplyService {
	return &ApplyService{provisioner, stateDb, metricService, notifier, logger}
}

// Apply creates the plan's resources in dependency order: the two queues
// first (in parallel, since neither depends on the other), then the redrive
// policy. Outputs are populated for each resource as it is created; a
// resource that was never created leaves its output fields empty.
func (s ApplyService) Apply(ctx context.Context, plan *models.Plan) (*models.ModuleOutputs, error) {
	if plan == nil || plan.Redrive == nil {
		return nil, fmt.Errorf("apply: nil plan")
	}
	if plan.Queue == nil || plan.Dlq == nil {
		// The redrive policy cannot attach without both of its dependencies
		return nil, &models.DependencyOrderingError{Resource: plan.Redrive.Key}
	}

	s.metricService.Count(ctx, models.MetricName_ApplyStarted, 1)
	runId := uuid.New().String()
	stack := plan.Queue.Name

	var dlqCreated, queueCreated *models.CreatedQueue
	var dlqErr, queueErr error
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		dlqCreated, dlqErr = s.createQueue(ctx, plan.Dlq, stack, runId)
	}()
	go func() {
		defer wg.Done()
		queueCreated, queueErr = s.createQueue(ctx, plan.Queue, stack, runId)
	}()
	wg.Wait()

	outputs := new(models.ModuleOutputs)
	if dlqCreated != nil {
		outputs.DlqName = dlqCreated.Name
		outputs.DlqUrl = dlqCreated.Url
		outputs.DlqArn = dlqCreated.Arn
	}
	if queueCreated != nil {
		outputs.QueueName = queueCreated.Name
		outputs.QueueUrl = queueCreated.Url
		outputs.QueueArn = queueCreated.Arn
	}
	if dlqErr != nil {
		return outputs, s.failApply(ctx, stack, dlqErr)
	}
	if queueErr != nil {
		return outputs, s.failApply(ctx, stack, queueErr)
	}

	// Both queues exist, the redrive policy can now attach
	if err := s.provisioner.AttachRedrive(ctx, queueCreated.Url, dlqCreated.Arn, plan.Redrive.MaxReceiveCount); err != nil {
		return outputs, s.failApply(ctx, stack, &models.ProviderError{
			Resource: plan.Redrive.Key,
			Op:       "attach",
			Err:      err,
		})
	}
	s.metricService.Count(ctx, models.MetricName_RedriveAttached, 1)
	if err := s.stateDb.StoreResource(ctx, &models.AppliedResource{
		Stack:     stack,
		Key:       string(plan.Redrive.Key),
		Name:      plan.Queue.Name,
		RunId:     runId,
		AppliedAt: time.Now(),
	}); err != nil {
		return outputs, s.failApply(ctx, stack, err)
	}
	s.logger.Infof("apply: stack %s applied (run %s)", stack, runId)
	return outputs, nil
}

func (s ApplyService) createQueue(ctx context.Context, decl *models.QueueDeclaration, stack string, runId string) (*models.CreatedQueue, error) {
	created, err := s.provisioner.CreateQueue(ctx, decl)
	if err != nil {
		return nil, &models.ProviderError{Resource: decl.Key, Op: "create", Err: err}
	}
	s.metricService.Count(ctx, models.MetricName_QueueCreated, 1)
	if err = s.stateDb.StoreResource(ctx, &models.AppliedResource{
		Stack:     stack,
		Key:       string(decl.Key),
		Name:      created.Name,
		Url:       created.Url,
		Arn:       created.Arn,
		RunId:     runId,
		AppliedAt: time.Now(),
	}); err != nil {
		return created, err
	}
	s.logger.Infof("apply: created %s queue %s", decl.Key, created.Name)
	return created, nil
}

func (s ApplyService) failApply(ctx context.Context, stack string, err error) error {
	s.metricService.Count(ctx, models.MetricName_ApplyFailed, 1)
	s.logger.Errorf("apply: stack %s failed: %v", stack, err)
	if notifErr := s.notifier.SendAlert(
		models.AlertTitle,
		models.AlertDesc_ApplyFailed,
		fmt.Sprintf(models.AlertFmt_ApplyFailed, stack, err),
	); notifErr != nil {
		s.logger.Errorf("apply: error sending alert: %v", notifErr)
	}
	return err
}
