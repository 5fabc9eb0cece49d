package core

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/planforge/dayplan/pkg/models"
)

// ConfigurationManager loads and validates the planner configuration from
// the .planconfig file at the base path.
type ConfigurationManager interface {
	LoadConfig() (*models.PlannerConfig, error)
	ValidateConfig(cfg *models.PlannerConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultPlannerConfig returns a PlannerConfig populated with sensible
// defaults.
func defaultPlannerConfig() *models.PlannerConfig {
	return &models.PlannerConfig{
		Window: models.WorkWindow{Start: "09:00", End: "17:00"},
		Acceptance: models.AcceptanceConfig{
			MaxAttempts:    5,
			TimeoutSeconds: 30,
		},
		Enrichment: models.EnrichmentConfig{
			Offline:        true,
			TimeoutSeconds: 30,
		},
		FrogPolicy: models.FrogPolicyWarn,
	}
}

// LoadConfig reads the .planconfig file from the base path using Viper.
// Missing files and missing keys fall back to defaults.
func (cm *viperConfigManager) LoadConfig() (*models.PlannerConfig, error) {
	cfg := defaultPlannerConfig()

	v := viper.New()
	v.SetConfigName(".planconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("work_day.start", cfg.Window.Start)
	v.SetDefault("work_day.end", cfg.Window.End)
	v.SetDefault("acceptance.endpoint", cfg.Acceptance.Endpoint)
	v.SetDefault("acceptance.max_attempts", cfg.Acceptance.MaxAttempts)
	v.SetDefault("acceptance.timeout_seconds", cfg.Acceptance.TimeoutSeconds)
	v.SetDefault("enrichment.endpoint", cfg.Enrichment.Endpoint)
	v.SetDefault("enrichment.offline", cfg.Enrichment.Offline)
	v.SetDefault("enrichment.timeout_seconds", cfg.Enrichment.TimeoutSeconds)
	v.SetDefault("frog_policy", string(cfg.FrogPolicy))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .planconfig: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing .planconfig: %w", err)
	}

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig checks the loaded configuration for values the engine
// cannot work with.
func (cm *viperConfigManager) ValidateConfig(cfg *models.PlannerConfig) error {
	if cfg.FrogPolicy != models.FrogPolicyWarn && cfg.FrogPolicy != models.FrogPolicyFail {
		return fmt.Errorf("validating config: unknown frog_policy %q", cfg.FrogPolicy)
	}
	if cfg.Acceptance.MaxAttempts < 1 {
		return fmt.Errorf("validating config: acceptance.max_attempts must be at least 1")
	}
	if _, err := parseClock(cfg.Window.Start); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if _, err := parseClock(cfg.Window.End); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}
