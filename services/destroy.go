package services

import (
	"context"
	"fmt"

	"github.com/qpair/go-qpair/models"
)

type DestroyService struct {
	provisioner   models.QueueProvisioner
	stateDb       models.StateRepository
	metricService models.MetricService
	notifier      models.Notifier
	logger        models.Logger
}

func NewDestroyService(
	provisioner models.QueueProvisioner,
	stateDb models.StateRepository,
	metricService models.MetricService,
	notifier models.Notifier,
	logger models.Logger,
) *DestroyService {
	return &DestroyService{provisioner, stateDb, metricService, notifier, logger}
}

// Destroy tears down a stack's applied resources in reverse creation order:
// the redrive binding goes away with the primary queue, then the dead-letter
// queue is deleted last. State records are removed as each delete succeeds.
func (s DestroyService) Destroy(ctx context.Context, stack string) error {
	resources, err := s.stateDb.GetResources(ctx, stack)
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		s.logger.Infof("destroy: no applied state for stack %s", stack)
		return nil
	}
	byKey := make(map[models.ResourceKey]*models.AppliedResource, len(resources))
	for _, resource := range resources {
		byKey[models.ResourceKey(resource.Key)] = resource
	}
	for _, key := range []models.ResourceKey{models.ResourceKey_Redrive, models.ResourceKey_Queue, models.ResourceKey_Dlq} {
		resource, found := byKey[key]
		if !found {
			continue
		}
		// The redrive policy has no standalone provider resource, deleting
		// the primary queue removes it; only its state record is cleared.
		if key != models.ResourceKey_Redrive {
			if err = s.provisioner.DeleteQueue(ctx, resource.Url); err != nil {
				return s.failDestroy(ctx, stack, &models.ProviderError{Resource: key, Op: "delete", Err: err})
			}
			s.metricService.Count(ctx, models.MetricName_QueueDeleted, 1)
			s.logger.Infof("destroy: deleted %s queue %s", key, resource.Name)
		}
		if err = s.stateDb.DeleteResource(ctx, stack, key); err != nil {
			return s.failDestroy(ctx, stack, err)
		}
	}
	return nil
}

func (s DestroyService) failDestroy(ctx context.Context, stack string, err error) error {
	s.metricService.Count(ctx, models.MetricName_DestroyFailed, 1)
	s.logger.Errorf("destroy: stack %s failed: %v", stack, err)
	if notifErr := s.notifier.SendAlert(
		models.AlertTitle,
		models.AlertDesc_DestroyFailed,
		fmt.Sprintf(models.AlertFmt_DestroyFailed, stack, err),
	); notifErr != nil {
		s.logger.Errorf("destroy: error sending alert: %v", notifErr)
	}
	return err
}
