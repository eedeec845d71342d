package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/qpair/go-qpair/models"
)

func TestEvaluateDefaults(t *testing.T) {
	planService := NewPlanService()
	plan, err := planService.Evaluate(models.ModuleConfig{
		QueueName: "orders",
		DlqName:   "orders-dlq",
	})
	if err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}
	if *plan.Queue.VisibilityTimeoutSeconds != models.DefaultVisibilityTimeoutSeconds {
		t.Errorf("expected default visibility timeout %d, got %d", models.DefaultVisibilityTimeoutSeconds, *plan.Queue.VisibilityTimeoutSeconds)
	}
	if plan.Redrive.MaxReceiveCount != models.DefaultMaxReceiveCount {
		t.Errorf("expected default max receive count %d, got %d", models.DefaultMaxReceiveCount, plan.Redrive.MaxReceiveCount)
	}
	expectedRetention := models.DefaultRetentionDays * models.SecondsPerDay
	if plan.Queue.RetentionSeconds != expectedRetention {
		t.Errorf("expected default retention %d, got %d", expectedRetention, plan.Queue.RetentionSeconds)
	}
	if plan.Queue.Tags == nil || len(plan.Queue.Tags) != 0 {
		t.Errorf("expected empty tags, got %v", plan.Queue.Tags)
	}
}

func TestEvaluateDeclarations(t *testing.T) {
	planService := NewPlanService()
	plan, err := planService.Evaluate(models.ModuleConfig{
		QueueName:                "orders",
		DlqName:                  "orders-dlq",
		VisibilityTimeoutSeconds: models.IntPtr(300),
		MaxReceiveCount:          models.IntPtr(5),
		MessageRetentionDays:     models.IntPtr(7),
		Tags:                     map[string]string{"env": "prod"},
	})
	if err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}

	if plan.Queue.Name != "orders" {
		t.Errorf("expected primary queue name orders, got %s", plan.Queue.Name)
	}
	if plan.Queue.RetentionSeconds != 604800 {
		t.Errorf("expected retention 604800, got %d", plan.Queue.RetentionSeconds)
	}
	if *plan.Queue.VisibilityTimeoutSeconds != 300 {
		t.Errorf("expected visibility timeout 300, got %d", *plan.Queue.VisibilityTimeoutSeconds)
	}
	if *plan.Queue.DelaySeconds != 0 {
		t.Errorf("expected delay 0, got %d", *plan.Queue.DelaySeconds)
	}
	if *plan.Queue.MaxMessageSizeBytes != 262144 {
		t.Errorf("expected max message size 262144, got %d", *plan.Queue.MaxMessageSizeBytes)
	}
	if !reflect.DeepEqual(plan.Queue.Tags, map[string]string{"env": "prod"}) {
		t.Errorf("incorrect primary queue tags: %v", plan.Queue.Tags)
	}

	if plan.Dlq.Name != "orders-dlq" {
		t.Errorf("expected dlq name orders-dlq, got %s", plan.Dlq.Name)
	}
	if plan.Dlq.RetentionSeconds != 604800 {
		t.Errorf("expected dlq retention 604800, got %d", plan.Dlq.RetentionSeconds)
	}
	// The dead-letter queue never sets these attributes, the provider
	// defaults apply
	if plan.Dlq.VisibilityTimeoutSeconds != nil {
		t.Errorf("dlq declaration should not carry a visibility timeout, got %d", *plan.Dlq.VisibilityTimeoutSeconds)
	}
	if plan.Dlq.DelaySeconds != nil || plan.Dlq.MaxMessageSizeBytes != nil {
		t.Errorf("dlq declaration should not carry delay or max message size")
	}
	if !reflect.DeepEqual(plan.Dlq.Tags, map[string]string{"env": "prod"}) {
		t.Errorf("incorrect dlq tags: %v", plan.Dlq.Tags)
	}

	if plan.Redrive.MaxReceiveCount != 5 {
		t.Errorf("expected max receive count 5, got %d", plan.Redrive.MaxReceiveCount)
	}
	if plan.Redrive.Source != models.ResourceKey_Queue || plan.Redrive.Target != models.ResourceKey_Dlq {
		t.Errorf("incorrect redrive binding: %s -> %s", plan.Redrive.Source, plan.Redrive.Target)
	}
	expectedDeps := []models.ResourceKey{models.ResourceKey_Queue, models.ResourceKey_Dlq}
	if !reflect.DeepEqual(plan.Redrive.DependsOn, expectedDeps) {
		t.Errorf("expected redrive dependencies %v, got %v", expectedDeps, plan.Redrive.DependsOn)
	}

	expectedOrder := []models.ResourceKey{models.ResourceKey_Dlq, models.ResourceKey_Queue, models.ResourceKey_Redrive}
	if !reflect.DeepEqual(plan.CreationOrder(), expectedOrder) {
		t.Errorf("expected creation order %v, got %v", expectedOrder, plan.CreationOrder())
	}
}

func TestEvaluateRetentionConversion(t *testing.T) {
	planService := NewPlanService()
	for days := models.MinRetentionDays; days <= models.MaxRetentionDays; days++ {
		plan, err := planService.Evaluate(models.ModuleConfig{
			QueueName:            "orders",
			DlqName:              "orders-dlq",
			MessageRetentionDays: models.IntPtr(days),
		})
		if err != nil {
			t.Fatalf("Unexpected error received %v", err)
		}
		if plan.Queue.RetentionSeconds != days*86400 {
			t.Errorf("expected retention %d for %d days, got %d", days*86400, days, plan.Queue.RetentionSeconds)
		}
		if plan.Dlq.RetentionSeconds != plan.Queue.RetentionSeconds {
			t.Errorf("dlq retention %d differs from primary %d", plan.Dlq.RetentionSeconds, plan.Queue.RetentionSeconds)
		}
	}
}

func TestEvaluateValidation(t *testing.T) {
	tests := map[string]struct {
		config        models.ModuleConfig
		expectedField string
	}{
		"Will reject a missing queue name": {
			config:        models.ModuleConfig{DlqName: "x-dlq"},
			expectedField: "queue_name",
		},
		"Will reject a missing dlq name": {
			config:        models.ModuleConfig{QueueName: "x"},
			expectedField: "dlq_name",
		},
		"Will reject duplicate queue names": {
			config:        models.ModuleConfig{QueueName: "x", DlqName: "x"},
			expectedField: "dlq_name",
		},
		"Will reject a negative visibility timeout": {
			config: models.ModuleConfig{
				QueueName:                "x",
				DlqName:                  "x-dlq",
				VisibilityTimeoutSeconds: models.IntPtr(-1),
			},
			expectedField: "visibility_timeout",
		},
		"Will reject a visibility timeout above the provider maximum": {
			config: models.ModuleConfig{
				QueueName:                "x",
				DlqName:                  "x-dlq",
				VisibilityTimeoutSeconds: models.IntPtr(43201),
			},
			expectedField: "visibility_timeout",
		},
		"Will reject a zero max receive count": {
			config: models.ModuleConfig{
				QueueName:       "x",
				DlqName:         "x-dlq",
				MaxReceiveCount: models.IntPtr(0),
			},
			expectedField: "max_receive_count",
		},
		"Will reject retention below the provider minimum": {
			config: models.ModuleConfig{
				QueueName:            "x",
				DlqName:              "x-dlq",
				MessageRetentionDays: models.IntPtr(0),
			},
			expectedField: "message_retention_days",
		},
		"Will reject retention above the provider maximum": {
			config: models.ModuleConfig{
				QueueName:            "x",
				DlqName:              "x-dlq",
				MessageRetentionDays: models.IntPtr(15),
			},
			expectedField: "message_retention_days",
		},
	}

	planService := NewPlanService()
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			plan, err := planService.Evaluate(test.config)
			if plan != nil {
				t.Errorf("no declarations should be produced on validation failure, got %v", plan)
			}
			var validationErr *models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != test.expectedField {
				t.Errorf("expected error on field %s, got %s", test.expectedField, validationErr.Field)
			}
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	config := models.ModuleConfig{QueueName: "orders", DlqName: "orders-dlq"}
	planService := NewPlanService()
	if _, err := planService.Evaluate(config); err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}
	// The caller's record is untouched, defaults land on a copy
	if config.VisibilityTimeoutSeconds != nil || config.MaxReceiveCount != nil || config.MessageRetentionDays != nil {
		t.Errorf("evaluation should not mutate the caller's config: %+v", config)
	}
}
