package services

import (
	"fmt"

	"github.com/go-playground/validator"

	"github.com/qpair/go-qpair/models"
)

// configFieldNames maps struct field names to the input names callers use, so
// validation errors reference the field as it appears in the config file.
var configFieldNames = map[string]string{
	"QueueName":                "queue_name",
	"DlqName":                  "dlq_name",
	"VisibilityTimeoutSeconds": "visibility_timeout",
	"MaxReceiveCount":          "max_receive_count",
	"MessageRetentionDays":     "message_retention_days",
	"Tags":                     "tags",
}

type PlanService struct {
	validator *validator.Validate
}

func NewPlanService() *PlanService {
	return &PlanService{validator: validator.New()}
}

// Evaluate turns a config record into a plan of three declarations: the
// dead-letter queue, the primary queue, and the redrive policy binding them.
// It is a pure function: defaults are applied to a copy of the config, no I/O
// happens, and on any invariant violation a ValidationError is returned with
// no partial plan.
func (s *PlanService) Evaluate(config models.ModuleConfig) (*models.Plan, error) {
	config.ApplyDefaults()
	if err := s.validator.Struct(config); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fieldErr := fieldErrs[0]
			return nil, &models.ValidationError{
				Field:  configFieldName(fieldErr.Field()),
				Reason: fmt.Sprintf("failed '%s' constraint", fieldErr.Tag()),
			}
		}
		return nil, err
	}
	if config.QueueName == config.DlqName {
		return nil, &models.ValidationError{
			Field:  "dlq_name",
			Reason: "queue_name and dlq_name must differ",
		}
	}

	// Exact integer arithmetic, whole days to seconds
	retentionSeconds := *config.MessageRetentionDays * models.SecondsPerDay

	dlq := &models.QueueDeclaration{
		Key:              models.ResourceKey_Dlq,
		Name:             config.DlqName,
		RetentionSeconds: retentionSeconds,
		Tags:             config.Tags,
	}
	queue := &models.QueueDeclaration{
		Key:                      models.ResourceKey_Queue,
		Name:                     config.QueueName,
		RetentionSeconds:         retentionSeconds,
		VisibilityTimeoutSeconds: config.VisibilityTimeoutSeconds,
		DelaySeconds:             models.IntPtr(models.QueueDelaySeconds),
		MaxMessageSizeBytes:      models.IntPtr(models.QueueMaxMessageSizeBytes),
		Tags:                     config.Tags,
	}
	redrive := &models.RedriveDeclaration{
		Key:             models.ResourceKey_Redrive,
		Source:          models.ResourceKey_Queue,
		Target:          models.ResourceKey_Dlq,
		MaxReceiveCount: *config.MaxReceiveCount,
		DependsOn:       []models.ResourceKey{models.ResourceKey_Queue, models.ResourceKey_Dlq},
	}
	return &models.Plan{Dlq: dlq, Queue: queue, Redrive: redrive}, nil
}

func configFieldName(structField string) string {
	if name, found := configFieldNames[structField]; found {
		return name
	}
	return structField
}
