package models

// ModuleOutputs is the read-only projection surfaced after the engine has
// created the resources. Fields for a resource that was never created stay
// empty; callers must not rely on them.
type ModuleOutputs struct {
	QueueUrl  string `json:"queue_url,omitempty"`
	QueueArn  string `json:"queue_arn,omitempty"`
	QueueName string `json:"queue_name,omitempty"`
	DlqUrl    string `json:"dlq_url,omitempty"`
	DlqArn    string `json:"dlq_arn,omitempty"`
	DlqName   string `json:"dlq_name,omitempty"`
}
