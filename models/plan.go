package models

type ResourceKey string

const (
	ResourceKey_Queue   ResourceKey = "queue"
	ResourceKey_Dlq     ResourceKey = "dlq"
	ResourceKey_Redrive ResourceKey = "redrive"
)

// Fixed primary-queue attributes.
const (
	QueueDelaySeconds        = 0
	QueueMaxMessageSizeBytes = 262144
)

// QueueDeclaration describes one queue to be created. Optional attributes are
// pointers: a nil attribute is left unset so the provider default applies. The
// dead-letter declaration never sets a visibility timeout.
type QueueDeclaration struct {
	Key                      ResourceKey       `json:"key"`
	Name                     string            `json:"name"`
	RetentionSeconds         int               `json:"retentionSeconds"`
	VisibilityTimeoutSeconds *int              `json:"visibilityTimeout,omitempty"`
	DelaySeconds             *int              `json:"delaySeconds,omitempty"`
	MaxMessageSizeBytes      *int              `json:"maxMessageSize,omitempty"`
	Tags                     map[string]string `json:"tags"`
	DependsOn                []ResourceKey     `json:"dependsOn,omitempty"`
}

// RedriveDeclaration binds the primary queue to its dead-letter queue. The
// target ARN is only resolvable once the dead-letter queue exists, so the
// declaration carries resource keys and depends on both queues.
type RedriveDeclaration struct {
	Key             ResourceKey   `json:"key"`
	Source          ResourceKey   `json:"source"`
	Target          ResourceKey   `json:"target"`
	MaxReceiveCount int           `json:"maxReceiveCount"`
	DependsOn       []ResourceKey `json:"dependsOn"`
}

// RedrivePolicy is the wire form SQS expects in the RedrivePolicy queue
// attribute.
type RedrivePolicy struct {
	DeadLetterTargetArn string `json:"deadLetterTargetArn"`
	MaxReceiveCount     int    `json:"maxReceiveCount"`
}

// Plan holds the three declarations produced by one evaluation. The two queue
// declarations have no edge between each other and may be applied in
// parallel; the redrive declaration must be applied last.
type Plan struct {
	Dlq     *QueueDeclaration   `json:"dlq"`
	Queue   *QueueDeclaration   `json:"queue"`
	Redrive *RedriveDeclaration `json:"redrive"`
}

// CreationOrder lists resource keys in a valid creation order.
func (p *Plan) CreationOrder() []ResourceKey {
	return []ResourceKey{ResourceKey_Dlq, ResourceKey_Queue, ResourceKey_Redrive}
}

// CreatedQueue is the provider's view of a queue after creation.
type CreatedQueue struct {
	Name string
	Url  string
	Arn  string
}
