package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teemow/assistant/internal/instrumentation"
)

const (
	// AppName names the config directory and the telemetry service.
	AppName = "assistant"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "ASSISTANT"

	// DefaultCalendarName is the calendar created by setup.
	DefaultCalendarName = "Assistant"

	DefaultSearchDaysBack  = 90
	DefaultSearchDaysAhead = 90
)

// Config holds all configuration for the assistant.
type Config struct {
	CalendarID   string          `mapstructure:"calendar_id" yaml:"calendar_id,omitempty"`
	CalendarName string          `mapstructure:"calendar_name" yaml:"calendar_name,omitempty"`
	TimeZone     string          `mapstructure:"timezone" yaml:"timezone,omitempty"`
	SetupAt      string          `mapstructure:"setup_at" yaml:"setup_at,omitempty"`
	SessionID    string          `mapstructure:"session_id" yaml:"-"`
	Profile      ProfileConfig   `mapstructure:"profile" yaml:"profile"`
	Paths        PathsConfig     `mapstructure:"paths" yaml:"paths,omitempty"`
	Logging      LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry    TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Search       SearchConfig    `mapstructure:"search" yaml:"search"`

	path string
}

// ProfileConfig is the persisted form of profile.WorkProfile.
type ProfileConfig struct {
	Name             string          `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	PreferredName    string          `mapstructure:"preferred_name" yaml:"preferred_name,omitempty" json:"preferred_name,omitempty"`
	WorkingStyle     string          `mapstructure:"working_style" yaml:"working_style,omitempty" json:"working_style,omitempty"`
	WorkHours        WorkHoursConfig `mapstructure:"work_hours" yaml:"work_hours" json:"work_hours"`
	WorkDays         []int           `mapstructure:"work_days" yaml:"work_days,flow" json:"work_days"`
	NoScheduleBefore string          `mapstructure:"no_schedule_before" yaml:"no_schedule_before,omitempty" json:"no_schedule_before,omitempty"`
	NoScheduleAfter  string          `mapstructure:"no_schedule_after" yaml:"no_schedule_after,omitempty" json:"no_schedule_after,omitempty"`
}

// WorkHoursConfig holds HH:MM bounds.
type WorkHoursConfig struct {
	Start string `mapstructure:"start" yaml:"start" json:"start"`
	End   string `mapstructure:"end" yaml:"end" json:"end"`
}

// PathsConfig overrides data file locations. Empty values use the config
// directory; an empty Credentials path enables discovery.
type PathsConfig struct {
	Preferences string `mapstructure:"preferences" yaml:"preferences,omitempty"`
	Tasks       string `mapstructure:"tasks" yaml:"tasks,omitempty"`
	Token       string `mapstructure:"token" yaml:"token,omitempty"`
	Credentials string `mapstructure:"credentials" yaml:"credentials,omitempty"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TelemetryConfig mirrors instrumentation.Config.
type TelemetryConfig struct {
	Enabled         bool    `mapstructure:"enabled" yaml:"enabled"`
	MetricsExporter string  `mapstructure:"metrics_exporter" yaml:"metrics_exporter"`
	TracingExporter string  `mapstructure:"tracing_exporter" yaml:"tracing_exporter"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint,omitempty"`
	OTLPInsecure    bool    `mapstructure:"otlp_insecure" yaml:"otlp_insecure,omitempty"`
	SamplingRate    float64 `mapstructure:"sampling_rate" yaml:"sampling_rate"`
}

// SearchConfig holds the default search window in days.
type SearchConfig struct {
	DaysBack  int `mapstructure:"days_back" yaml:"days_back"`
	DaysAhead int `mapstructure:"days_ahead" yaml:"days_ahead"`
}

// DefaultDir returns $XDG_CONFIG_HOME/assistant or ~/.config/assistant.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	return filepath.Join(homeDir(), ".config", AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar_id", "")
	v.SetDefault("calendar_name", DefaultCalendarName)
	v.SetDefault("timezone", "")
	v.SetDefault("setup_at", "")
	v.SetDefault("session_id", "")

	v.SetDefault("profile.name", "")
	v.SetDefault("profile.preferred_name", "")
	v.SetDefault("profile.working_style", "")
	v.SetDefault("profile.work_hours.start", "09:00")
	v.SetDefault("profile.work_hours.end", "18:00")
	v.SetDefault("profile.work_days", []int{0, 1, 2, 3, 4})
	v.SetDefault("profile.no_schedule_before", "")
	v.SetDefault("profile.no_schedule_after", "")

	v.SetDefault("paths.preferences", "")
	v.SetDefault("paths.tasks", "")
	v.SetDefault("paths.token", "")
	v.SetDefault("paths.credentials", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	defaults := instrumentation.DefaultConfig()
	v.SetDefault("telemetry.enabled", defaults.Enabled)
	v.SetDefault("telemetry.metrics_exporter", defaults.MetricsExporter)
	v.SetDefault("telemetry.tracing_exporter", defaults.TracingExporter)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", false)
	v.SetDefault("telemetry.sampling_rate", defaults.TraceSamplingRate)

	v.SetDefault("search.days_back", DefaultSearchDaysBack)
	v.SetDefault("search.days_ahead", DefaultSearchDaysAhead)
}

// Load reads configuration from path (DefaultPath when empty) and the
// environment. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks fields that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("timezone %q is not a valid IANA zone: %w", c.TimeZone, err)
		}
	}
	if _, err := c.WorkProfile(); err != nil {
		return err
	}
	if c.Search.DaysBack < 0 || c.Search.DaysAhead < 0 {
		return fmt.Errorf("search.days_back and search.days_ahead must be >= 0")
	}
	return nil
}

// Path returns the file the config was loaded from and is saved to.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config file.
func (c *Config) Dir() string {
	if c.path == "" {
		return DefaultDir()
	}
	return filepath.Dir(c.path)
}

// Configured reports whether setup has chosen a calendar.
func (c *Config) Configured() bool {
	return c.CalendarID != ""
}

// PreferencesPath returns the preferences file location.
func (c *Config) PreferencesPath() string {
	return c.inDir(c.Paths.Preferences, "preferences.yaml")
}

// TasksPath returns the task list location.
func (c *Config) TasksPath() string {
	return c.inDir(c.Paths.Tasks, "tasks.json")
}

// TokenPath returns the OAuth token location.
func (c *Config) TokenPath() string {
	return c.inDir(c.Paths.Token, "token.json")
}

func (c *Config) inDir(override, name string) string {
	if override != "" {
		return expandHome(override)
	}
	return filepath.Join(c.Dir(), name)
}

// Instrumentation converts the telemetry section.
func (c *Config) Instrumentation(version string) instrumentation.Config {
	return instrumentation.Config{
		ServiceName:       AppName,
		ServiceVersion:    version,
		Enabled:           c.Telemetry.Enabled,
		MetricsExporter:   c.Telemetry.MetricsExporter,
		TracingExporter:   c.Telemetry.TracingExporter,
		OTLPEndpoint:      c.Telemetry.OTLPEndpoint,
		OTLPInsecure:      c.Telemetry.OTLPInsecure,
		TraceSamplingRate: c.Telemetry.SamplingRate,
		SessionID:         c.SessionID,
	}
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
