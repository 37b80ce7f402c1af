// Package config defines the application configuration and the viper
// wiring that loads it from file, environment, and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the smartpost service.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Target    TargetConfig    `mapstructure:"target"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Slack     SlackConfig     `mapstructure:"slack"`
}

// LoggerConfig controls structured logging output and rotation.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	AddSource   bool   `mapstructure:"add_source"`
	ServiceName string `mapstructure:"service_name"`
	LogFile     string `mapstructure:"log_file"`
	MaxSizeMB   int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
}

// TargetConfig identifies the portal being driven and the account used
// to sign in. The password is environment-only and never written to disk.
type TargetConfig struct {
	URL          string `mapstructure:"url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password" yaml:"-"`
	PostingCycle string `mapstructure:"posting_cycle"`
}

// BrowserConfig tunes the Chrome session and the wait policy.
//
// ElementWait bounds how long a single locator strategy is given before
// the next strategy is tried. LongWait applies after route changes,
// where the portal renders whole sections asynchronously. SettleDelay
// is the fixed pause inserted after actions that trigger re-renders the
// page exposes no readiness signal for.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"`
	Args              []string      `mapstructure:"args"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	ElementWait       time.Duration `mapstructure:"element_wait"`
	LongWait          time.Duration `mapstructure:"long_wait"`
	SettleDelay       time.Duration `mapstructure:"settle_delay"`
}

// WorkflowConfig carries poster-level choices that are fixed per
// deployment rather than per job.
type WorkflowConfig struct {
	ProfileSource       string   `mapstructure:"profile_source"`
	PositionType        string   `mapstructure:"position_type"`
	EligibilityCategory string   `mapstructure:"eligibility_category"`
	HiringStages        []string `mapstructure:"hiring_stages"`
}

// ArtifactsConfig names where failure screenshots land.
type ArtifactsConfig struct {
	Dir string `mapstructure:"dir"`
}

// ExtractorConfig configures the Gemini-backed description extractor.
type ExtractorConfig struct {
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key" yaml:"-"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// SheetsConfig configures the Google Sheets posting log.
type SheetsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Range           string `mapstructure:"range"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// SlackConfig configures posting-outcome notifications.
type SlackConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token" yaml:"-"`
	Channel string `mapstructure:"channel"`
}

// SetDefaults registers the default value for every key so a bare
// environment still yields a runnable configuration.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "smartpost")
	v.SetDefault("logger.log_file", "smartpost.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	v.SetDefault("target.url", "")
	v.SetDefault("target.username", "")
	v.SetDefault("target.posting_cycle", "Placements 2025")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.args", []string{"--disable-gpu"})
	v.SetDefault("browser.navigation_timeout", 90*time.Second)
	v.SetDefault("browser.element_wait", 15*time.Second)
	v.SetDefault("browser.long_wait", 30*time.Second)
	v.SetDefault("browser.settle_delay", 5*time.Second)

	v.SetDefault("workflow.profile_source", "Campus Placement")
	v.SetDefault("workflow.position_type", "Full Time")
	v.SetDefault("workflow.eligibility_category", "Level 1 - Open to all students")
	v.SetDefault("workflow.hiring_stages", []string{
		"Resume shortlisting",
		"Technical interview",
		"HR interview",
	})

	v.SetDefault("artifacts.dir", "artifacts")

	v.SetDefault("extractor.model", "gemini-2.5-flash")
	v.SetDefault("extractor.timeout", 60*time.Second)
	v.SetDefault("extractor.requests_per_minute", 10)

	v.SetDefault("sheets.enabled", false)
	v.SetDefault("sheets.range", "Postings!A:K")

	v.SetDefault("slack.enabled", false)
	v.SetDefault("slack.channel", "#placements")
}

// BindEnv wires environment overrides. Every key is reachable as
// SMARTPOST_<SECTION>_<KEY>; secrets additionally get short aliases.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SMARTPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets are env-only; bind them explicitly so they resolve even
	// when the key never appears in a config file.
	_ = v.BindEnv("target.password", "SMARTPOST_TARGET_PASSWORD")
	_ = v.BindEnv("extractor.api_key", "SMARTPOST_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("slack.token", "SMARTPOST_SLACK_TOKEN")
}

// NewConfigFromViper unmarshals and validates the loaded configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewDefaultConfig returns a configuration built purely from defaults.
// Useful in tests that need a valid baseline.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return cfg
}

// Validate checks internal consistency of the configuration. Target
// credentials are validated separately by ValidateTarget, since the
// extract command runs without them.
func (c *Config) Validate() error {
	if c.Browser.ElementWait <= 0 {
		return fmt.Errorf("browser.element_wait must be positive, got %s", c.Browser.ElementWait)
	}
	if c.Browser.LongWait < c.Browser.ElementWait {
		return fmt.Errorf("browser.long_wait (%s) must not be shorter than browser.element_wait (%s)",
			c.Browser.LongWait, c.Browser.ElementWait)
	}
	if c.Browser.SettleDelay < 0 {
		return fmt.Errorf("browser.settle_delay must not be negative, got %s", c.Browser.SettleDelay)
	}
	if len(c.Workflow.HiringStages) == 0 {
		return fmt.Errorf("workflow.hiring_stages must not be empty")
	}
	if c.Sheets.Enabled && c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("sheets.spreadsheet_id is required when sheets.enabled is true")
	}
	if c.Slack.Enabled && c.Slack.Token == "" {
		return fmt.Errorf("slack token is required when slack.enabled is true (set SMARTPOST_SLACK_TOKEN)")
	}
	return nil
}

// ValidateTarget checks that the fields needed to drive the portal are
// present. Called by commands that actually open a session.
func (c *Config) ValidateTarget() error {
	if c.Target.URL == "" {
		return fmt.Errorf("target.url is required")
	}
	if c.Target.Username == "" {
		return fmt.Errorf("target.username is required")
	}
	if c.Target.Password == "" {
		return fmt.Errorf("target password is required (set SMARTPOST_TARGET_PASSWORD)")
	}
	return nil
}
