package services

import (
	"context"
	"errors"
	"testing"

	"github.com/qpair/go-qpair/common/loggers"
	"github.com/qpair/go-qpair/models"
)

func appliedStack(t *testing.T, stateRepo *FakeStateRepository, provisioner *FakeProvisioner) {
	applyService := NewApplyService(provisioner, stateRepo, NewFakeMetricService(), &FakeNotifier{}, loggers.NewTestLogger())
	if _, err := applyService.Apply(context.Background(), testPlan(t)); err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}
}

func TestDestroy(t *testing.T) {
	provisioner := NewFakeProvisioner()
	stateRepo := NewFakeStateRepository()
	appliedStack(t, stateRepo, provisioner)

	metricService := NewFakeMetricService()
	notifier := &FakeNotifier{}
	destroyService := NewDestroyService(provisioner, stateRepo, metricService, notifier, loggers.NewTestLogger())
	if err := destroyService.Destroy(context.Background(), "orders"); err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}

	// Reverse creation order: primary queue deleted before the dlq
	expectedDeletes := []string{FakeQueueUrl("orders"), FakeQueueUrl("orders-dlq")}
	if len(provisioner.deleted) != len(expectedDeletes) {
		t.Fatalf("expected %d deletes, got %v", len(expectedDeletes), provisioner.deleted)
	}
	for i, url := range expectedDeletes {
		if provisioner.deleted[i] != url {
			t.Errorf("expected delete %d to be %s, got %s", i, url, provisioner.deleted[i])
		}
	}

	// All state records cleared
	for _, key := range []models.ResourceKey{models.ResourceKey_Redrive, models.ResourceKey_Queue, models.ResourceKey_Dlq} {
		if stateRepo.get("orders", key) != nil {
			t.Errorf("state record for %s should be cleared", key)
		}
	}
	if metricService.count(models.MetricName_QueueDeleted) != 2 {
		t.Errorf("expected 2 queue_deleted counts, got %d", metricService.count(models.MetricName_QueueDeleted))
	}
}

func TestDestroyProviderFailure(t *testing.T) {
	provisioner := NewFakeProvisioner()
	stateRepo := NewFakeStateRepository()
	appliedStack(t, stateRepo, provisioner)
	provisioner.errorOnDelete[FakeQueueUrl("orders")] = errors.New("TestError")

	metricService := NewFakeMetricService()
	notifier := &FakeNotifier{}
	destroyService := NewDestroyService(provisioner, stateRepo, metricService, notifier, loggers.NewTestLogger())

	err := destroyService.Destroy(context.Background(), "orders")
	var providerErr *models.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if providerErr.Resource != models.ResourceKey_Queue || providerErr.Op != "delete" {
		t.Errorf("expected delete failure on queue, got %+v", providerErr)
	}
	// The dlq is untouched and its state survives for a retry
	if stateRepo.get("orders", models.ResourceKey_Dlq) == nil {
		t.Errorf("dlq state should survive a failed destroy")
	}
	if len(notifier.alerts) != 1 {
		t.Errorf("expected 1 alert, got %v", notifier.alerts)
	}
}

func TestDestroyEmptyStack(t *testing.T) {
	provisioner := NewFakeProvisioner()
	destroyService := NewDestroyService(provisioner, NewFakeStateRepository(), NewFakeMetricService(), &FakeNotifier{}, loggers.NewTestLogger())
	if err := destroyService.Destroy(context.Background(), "missing"); err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}
	if len(provisioner.deleted) != 0 {
		t.Errorf("nothing should be deleted for an unknown stack, got %v", provisioner.deleted)
	}
}
