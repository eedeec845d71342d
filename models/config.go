package models

// SQS-documented limits used as the validation ceiling. Retention is bounded
// at 1,209,600 seconds (14 days), so whole days land in [1, 14].
const (
	MinVisibilityTimeoutSeconds = 0
	MaxVisibilityTimeoutSeconds = 43200
	MinReceiveCount             = 1
	MaxReceiveCount             = 1000
	MinRetentionDays            = 1
	MaxRetentionDays            = 14
)

const (
	DefaultVisibilityTimeoutSeconds = 600
	DefaultMaxReceiveCount          = 3
	DefaultRetentionDays            = 14
)

const SecondsPerDay = 86400

// ModuleConfig is the input record for one queue-pair evaluation. Zero-valued
// optional fields are filled in by ApplyDefaults before validation.
type ModuleConfig struct {
	QueueName                string            `yaml:"queue_name" validate:"required"`
	DlqName                  string            `yaml:"dlq_name" validate:"required"`
	VisibilityTimeoutSeconds *int              `yaml:"visibility_timeout" validate:"omitempty,min=0,max=43200"`
	MaxReceiveCount          *int              `yaml:"max_receive_count" validate:"omitempty,min=1,max=1000"`
	MessageRetentionDays     *int              `yaml:"message_retention_days" validate:"omitempty,min=1,max=14"`
	Tags                     map[string]string `yaml:"tags"`
}

func (c *ModuleConfig) ApplyDefaults() {
	if c.VisibilityTimeoutSeconds == nil {
		c.VisibilityTimeoutSeconds = IntPtr(DefaultVisibilityTimeoutSeconds)
	}
	if c.MaxReceiveCount == nil {
		c.MaxReceiveCount = IntPtr(DefaultMaxReceiveCount)
	}
	if c.MessageRetentionDays == nil {
		c.MessageRetentionDays = IntPtr(DefaultRetentionDays)
	}
	if c.Tags == nil {
		c.Tags = map[string]string{}
	}
}

func IntPtr(i int) *int {
	return &i
}
