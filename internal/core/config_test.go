package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/planforge/dayplan/pkg/models"
)

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)

	cfg, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Window.Start != "09:00" || cfg.Window.End != "17:00" {
		t.Errorf("default window = %+v, want 09:00-17:00", cfg.Window)
	}
	if cfg.Acceptance.MaxAttempts != 5 {
		t.Errorf("default max attempts = %d, want 5", cfg.Acceptance.MaxAttempts)
	}
	if !cfg.Enrichment.Offline {
		t.Error("enrichment must default to offline")
	}
	if cfg.FrogPolicy != models.FrogPolicyWarn {
		t.Errorf("default frog policy = %s, want warn", cfg.FrogPolicy)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `work_day:
  start: "08:30"
  end: "16:30"
acceptance:
  endpoint: "https://plan.example.com/accept"
  max_attempts: 3
enrichment:
  offline: false
  endpoint: "https://plan.example.com/enrich"
frog_policy: "fail"
`
	if err := os.WriteFile(filepath.Join(dir, ".planconfig"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cm := NewConfigurationManager(dir)
	cfg, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Window.Start != "08:30" || cfg.Window.End != "16:30" {
		t.Errorf("window = %+v, want 08:30-16:30", cfg.Window)
	}
	if cfg.Acceptance.Endpoint != "https://plan.example.com/accept" {
		t.Errorf("acceptance endpoint = %q", cfg.Acceptance.Endpoint)
	}
	if cfg.Acceptance.MaxAttempts != 3 {
		t.Errorf("max attempts = %d, want 3", cfg.Acceptance.MaxAttempts)
	}
	if cfg.Acceptance.TimeoutSeconds != 30 {
		t.Errorf("unset timeout must keep the default, got %d", cfg.Acceptance.TimeoutSeconds)
	}
	if cfg.Enrichment.Offline {
		t.Error("enrichment offline must be false")
	}
	if cfg.FrogPolicy != models.FrogPolicyFail {
		t.Errorf("frog policy = %s, want fail", cfg.FrogPolicy)
	}
}

func TestValidateConfig(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	tests := []struct {
		name    string
		mutate  func(*models.PlannerConfig)
		wantErr bool
	}{
		{"defaults are valid", func(*models.PlannerConfig) {}, false},
		{"unknown frog policy", func(c *models.PlannerConfig) { c.FrogPolicy = "panic" }, true},
		{"zero attempts", func(c *models.PlannerConfig) { c.Acceptance.MaxAttempts = 0 }, true},
		{"bad window start", func(c *models.PlannerConfig) { c.Window.Start = "morning" }, true},
		{"bad window end", func(c *models.PlannerConfig) { c.Window.End = "24:99" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultPlannerConfig()
			tt.mutate(cfg)
			err := cm.ValidateConfig(cfg)
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
