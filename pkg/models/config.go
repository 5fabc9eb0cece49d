package models

// FrogPolicy controls how a frog task scheduled outside the first-third
// target is handled.
type FrogPolicy string

const (
	// FrogPolicyWarn records a warning event and continues. Default.
	FrogPolicyWarn FrogPolicy = "warn"
	// FrogPolicyFail aborts allocation when a frog misses the target.
	FrogPolicyFail FrogPolicy = "fail"
)

// WorkWindow is a user-defined daily availability window. Times are "HH:MM";
// an End at or before Start means the window wraps past midnight.
type WorkWindow struct {
	Start string `yaml:"start" mapstructure:"start"`
	End   string `yaml:"end" mapstructure:"end"`
}

// AcceptanceConfig configures the remote schedule acceptance endpoint and
// the retry budget used by the repair loop.
type AcceptanceConfig struct {
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	MaxAttempts    int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// EnrichmentConfig configures the AI enrichment collaborator. When Offline
// is true, tasks are normalized locally and the endpoint is never called.
type EnrichmentConfig struct {
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	Offline        bool   `yaml:"offline" mapstructure:"offline"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// PlannerConfig is the merged configuration for a planning run, loaded from
// the .planconfig file with defaults applied for missing keys.
type PlannerConfig struct {
	Window     WorkWindow       `yaml:"work_day" mapstructure:"work_day"`
	Acceptance AcceptanceConfig `yaml:"acceptance" mapstructure:"acceptance"`
	Enrichment EnrichmentConfig `yaml:"enrichment" mapstructure:"enrichment"`
	FrogPolicy FrogPolicy       `yaml:"frog_policy" mapstructure:"frog_policy"`
}
