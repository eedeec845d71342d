package models

import (
	"context"
)

// QueueProvisioner issues the provider API calls for one declared resource at
// a time. Implementations do not reorder work; callers are responsible for
// respecting the plan's dependency edges.
type QueueProvisioner interface {
	CreateQueue(ctx context.Context, decl *QueueDeclaration) (*CreatedQueue, error)
	AttachRedrive(ctx context.Context, queueUrl string, dlqArn string, maxReceiveCount int) error
	DeleteQueue(ctx context.Context, queueUrl string) error
}

// StateRepository persists the applied-state records the engine owns.
type StateRepository interface {
	StoreResource(ctx context.Context, resource *AppliedResource) error
	GetResources(ctx context.Context, stack string) ([]*AppliedResource, error)
	DeleteResource(ctx context.Context, stack string, key ResourceKey) error
}

type QueueMonitor interface {
	GetUtilization(ctx context.Context) (int, int, error)
}

type ResourceMonitor interface {
	GetValue(ctx context.Context) (int, error)
}

type Notifier interface {
	SendAlert(title, desc, content string) error
}

type MetricService interface {
	Count(ctx context.Context, name MetricName, val int) error
	QueueGauge(ctx context.Context, queueName string, monitor QueueMonitor) error
	Shutdown(ctx context.Context)
}

type Logger interface {
	Debugf(template string, args ...interface{})
	Debugw(msg string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Infoln(args ...interface{})
	Warnf(template string, args ...interface{})
	Sync() error
}
