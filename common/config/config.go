// Package config loads the module configuration record from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qpair/go-qpair/models"
)

const (
	Env_QueueName = "QPAIR_QUEUE_NAME"
	Env_DlqName   = "QPAIR_DLQ_NAME"
)

// Load reads the YAML module config at path, then applies environment
// variable overrides. Defaulting of omitted optional fields happens later,
// at evaluation time.
func Load(path string) (*models.ModuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: error reading %s: %w", path, err)
	}
	cfg := new(models.ModuleConfig)
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: error parsing %s: %w", path, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *models.ModuleConfig) {
	if v := os.Getenv(Env_QueueName); v != "" {
		cfg.QueueName = v
	}
	if v := os.Getenv(Env_DlqName); v != "" {
		cfg.DlqName = v
	}
}
