package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qpair.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
queue_name: orders
dlq_name: orders-dlq
visibility_timeout: 300
max_receive_count: 5
message_retention_days: 7
tags:
  env: prod
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}
	if cfg.QueueName != "orders" || cfg.DlqName != "orders-dlq" {
		t.Errorf("incorrect queue names: %s, %s", cfg.QueueName, cfg.DlqName)
	}
	if *cfg.VisibilityTimeoutSeconds != 300 {
		t.Errorf("expected visibility timeout 300, got %d", *cfg.VisibilityTimeoutSeconds)
	}
	if *cfg.MaxReceiveCount != 5 {
		t.Errorf("expected max receive count 5, got %d", *cfg.MaxReceiveCount)
	}
	if *cfg.MessageRetentionDays != 7 {
		t.Errorf("expected retention 7 days, got %d", *cfg.MessageRetentionDays)
	}
	if cfg.Tags["env"] != "prod" {
		t.Errorf("incorrect tags: %v", cfg.Tags)
	}
}

func TestLoadOmittedFieldsStayUnset(t *testing.T) {
	path := writeConfig(t, `
queue_name: orders
dlq_name: orders-dlq
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}
	// Defaults are applied at evaluation time, not load time
	if cfg.VisibilityTimeoutSeconds != nil || cfg.MaxReceiveCount != nil || cfg.MessageRetentionDays != nil {
		t.Errorf("omitted fields should stay unset: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
queue_name: orders
dlq_name: orders-dlq
`)
	t.Setenv(Env_QueueName, "payments")
	t.Setenv(Env_DlqName, "payments-dlq")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error received %v", err)
	}
	if cfg.QueueName != "payments" || cfg.DlqName != "payments-dlq" {
		t.Errorf("environment overrides not applied: %s, %s", cfg.QueueName, cfg.DlqName)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
