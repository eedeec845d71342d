package models

type MetricName string

// Counts
const (
	MetricName_ApplyStarted    MetricName = "apply_started"
	MetricName_ApplyFailed     MetricName = "apply_failed"
	MetricName_QueueCreated    MetricName = "queue_created"
	MetricName_RedriveAttached MetricName = "redrive_attached"
	MetricName_QueueDeleted    MetricName = "queue_deleted"
	MetricName_DestroyFailed   MetricName = "destroy_failed"
)

const MetricsCallerName = "go-qpair"
