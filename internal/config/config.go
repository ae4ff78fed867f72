// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/ats-resume-generator/internal/cost"
)

// Config represents the CLI configuration that can be loaded from a YAML, JSON or TOML file.
// All fields are optional; missing values use defaults or are provided via CLI flags.
type Config struct {
	// Batch
	Count           int      `mapstructure:"count" validate:"gte=0"`       // Resumes to generate
	Concurrency     int      `mapstructure:"concurrency" validate:"gte=0"` // Max in-flight jobs
	Output          string   `mapstructure:"output"`                       // Output directory
	SaveCosts       bool     `mapstructure:"save_costs"`                   // Write cost_log.json
	ContinueOnError bool     `mapstructure:"continue_on_error"`            // Isolate job failures
	Seed            uint64   `mapstructure:"seed"`                         // Deterministic random source when non-zero
	RoleMapping     string   `mapstructure:"role_mapping"`                 // Role mapping JSON; empty uses the built-in default
	Renderer        string   `mapstructure:"renderer" validate:"omitempty,oneof=pdf chrome"`
	Templates       []string `mapstructure:"templates" validate:"dive,oneof=minimal modern classic corporate"`

	// Content-generation API
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=openai gemini"`
	Model    string        `mapstructure:"model"`
	RPS      float64       `mapstructure:"rps" validate:"gte=0"`     // Fixed request rate, 0 = unlimited
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"` // Per-call deadline, 0 = none
	Pricing  *cost.Pricing `mapstructure:"pricing"`                  // Overrides the model's price table entry

	// Integrations
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"` // PostgreSQL connection URL
	NatsURL     string `mapstructure:"nats_url" validate:"omitempty,url"`     // NATS server for progress events

	// Logging
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	LogFile  string `mapstructure:"log_file"`
	Verbose  bool   `mapstructure:"verbose"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Count:       800,
		Concurrency: 15,
		Output:      "output",
		Renderer:    "pdf",
		Provider:    "openai",
		LogLevel:    "info",
	}
}

// setDefaults registers Defaults() with viper so unset keys resolve
func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("count", d.Count)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("output", d.Output)
	v.SetDefault("renderer", d.Renderer)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("log_level", d.LogLevel)
}

// bindEnv maps the conventional unprefixed environment variables
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("nats_url", "NATS_URL")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
}

// LoadConfig loads configuration from defaults, the environment and, when path is
// non-empty, a config file whose format is taken from its extension.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their config key rather than the Go name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Zero counts and concurrency are allowed here since MergeWithDefaults fills them.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Param() != "" {
				return fmt.Errorf("config error: '%s' failed '%s=%s' (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
			}
			return fmt.Errorf("config error: '%s' failed '%s' (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Pricing != nil && (c.Pricing.InputPer1M < 0 || c.Pricing.OutputPer1M < 0) {
		return fmt.Errorf("config error: 'pricing' values must be non-negative")
	}
	if c.Model != "" && c.Pricing == nil && !cost.Known(c.Model) {
		return fmt.Errorf("config error: no price table entry for model %q; set 'pricing'", c.Model)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Renderer == "" {
		result.Renderer = defaults.Renderer
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.NatsURL == "" {
		result.NatsURL = defaults.NatsURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if len(result.Templates) == 0 {
		result.Templates = defaults.Templates
	}

	// Numeric fields: use default if zero
	if result.Count == 0 {
		result.Count = defaults.Count
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.RPS == 0 {
		result.RPS = defaults.RPS
	}
	if result.Seed == 0 {
		result.Seed = defaults.Seed
	}
	if result.Pricing == nil {
		result.Pricing = defaults.Pricing
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
