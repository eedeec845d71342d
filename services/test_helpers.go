package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/qpair/go-qpair/models"
)

type redriveAttachment struct {
	queueUrl        string
	dlqArn          string
	maxReceiveCount int
}

type FakeProvisioner struct {
	lock             sync.Mutex
	created          []models.ResourceKey
	attachments      []redriveAttachment
	deleted          []string
	errorOnCreate    map[models.ResourceKey]error
	errorOnAttach    error
	errorOnDelete    map[string]error
	attachedAfterAll bool
}

func NewFakeProvisioner() *FakeProvisioner {
	return &FakeProvisioner{
		errorOnCreate: make(map[models.ResourceKey]error),
		errorOnDelete: make(map[string]error),
	}
}

func (f *FakeProvisioner) CreateQueue(_ context.Context, decl *models.QueueDeclaration) (*models.CreatedQueue, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.errorOnCreate[decl.Key]; err != nil {
		return nil, err
	}
	f.created = append(f.created, decl.Key)
	return &models.CreatedQueue{
		Name: decl.Name,
		Url:  FakeQueueUrl(decl.Name),
		Arn:  FakeQueueArn(decl.Name),
	}, nil
}

func (f *FakeProvisioner) AttachRedrive(_ context.Context, queueUrl string, dlqArn string, maxReceiveCount int) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.errorOnAttach != nil {
		return f.errorOnAttach
	}
	// Record whether both queues existed when the redrive policy attached
	f.attachedAfterAll = f.hasCreated(models.ResourceKey_Queue) && f.hasCreated(models.ResourceKey_Dlq)
	f.attachments = append(f.attachments, redriveAttachment{queueUrl, dlqArn, maxReceiveCount})
	return nil
}

func (f *FakeProvisioner) DeleteQueue(_ context.Context, queueUrl string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.errorOnDelete[queueUrl]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, queueUrl)
	return nil
}

func (f *FakeProvisioner) hasCreated(key models.ResourceKey) bool {
	for _, created := range f.created {
		if created == key {
			return true
		}
	}
	return false
}

func FakeQueueUrl(name string) string {
	return "https://sqs.us-east-1.amazonaws.com/123456789012/" + name
}

func FakeQueueArn(name string) string {
	return "arn:aws:sqs:us-east-1:123456789012:" + name
}

type FakeStateRepository struct {
	lock      sync.Mutex
	resources map[string]*models.AppliedResource
	errorOn   models.ResourceKey
}

func NewFakeStateRepository() *FakeStateRepository {
	return &FakeStateRepository{resources: make(map[string]*models.AppliedResource)}
}

func (f *FakeStateRepository) StoreResource(_ context.Context, resource *models.AppliedResource) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if len(f.errorOn) > 0 && resource.Key == string(f.errorOn) {
		return fmt.Errorf("TestError: store %s", resource.Key)
	}
	f.resources[resource.Stack+"/"+resource.Key] = resource
	return nil
}

func (f *FakeStateRepository) GetResources(_ context.Context, stack string) ([]*models.AppliedResource, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	resources := make([]*models.AppliedResource, 0, len(f.resources))
	for _, resource := range f.resources {
		if resource.Stack == stack {
			resources = append(resources, resource)
		}
	}
	return resources, nil
}

func (f *FakeStateRepository) DeleteResource(_ context.Context, stack string, key models.ResourceKey) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	delete(f.resources, stack+"/"+string(key))
	return nil
}

func (f *FakeStateRepository) get(stack string, key models.ResourceKey) *models.AppliedResource {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.resources[stack+"/"+string(key)]
}

type FakeMetricService struct {
	lock   sync.Mutex
	counts map[models.MetricName]int
	gauges []string
}

func NewFakeMetricService() *FakeMetricService {
	return &FakeMetricService{counts: make(map[models.MetricName]int)}
}

func (f *FakeMetricService) Count(_ context.Context, name models.MetricName, val int) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.counts[name] += val
	return nil
}

func (f *FakeMetricService) QueueGauge(_ context.Context, queueName string, _ models.QueueMonitor) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.gauges = append(f.gauges, queueName)
	return nil
}

func (f *FakeMetricService) Shutdown(context.Context) {}

func (f *FakeMetricService) count(name models.MetricName) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.counts[name]
}

type FakeNotifier struct {
	lock   sync.Mutex
	alerts []string
}

func (f *FakeNotifier) SendAlert(title, desc, content string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.alerts = append(f.alerts, fmt.Sprintf("%s: %s: %s", title, desc, content))
	return nil
}

type FakeMonitor struct {
	visible  int
	inFlight int
	err      error
}

func (f *FakeMonitor) GetUtilization(context.Context) (int, int, error) {
	return f.visible, f.inFlight, f.err
}
