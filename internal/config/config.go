// Package config loads and validates application configuration from YAML
// files and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/homepresso/formgraph/internal/heuristics"
)

// Config is the root application configuration.
type Config struct {
	Models        ModelsConfig          `yaml:"models"`
	Output        OutputConfig          `yaml:"output"`
	Runtime       RuntimeConfig         `yaml:"runtime"`
	Heuristics    heuristics.Vocabulary `yaml:"heuristics"`
	Observability ObservabilityConfig   `yaml:"observability"`
}

// ModelsConfig describes where to find form-model input files.
type ModelsConfig struct {
	Directories []string `yaml:"directories"`
}

// OutputConfig describes where generated artifacts are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	// Pretty indents emitted JSON artifacts.
	Pretty bool `yaml:"pretty"`
}

// RuntimeConfig describes the target forms runtime that generated views are
// deployed to.
type RuntimeConfig struct {
	// Mode selects the deployer: "dry-run" assigns synthetic identifiers
	// locally, "http" pushes views to the runtime API.
	Mode     string               `yaml:"mode"`
	BaseURL  string               `yaml:"base_url"`
	SpecFile string               `yaml:"spec_file"`
	Timeout  time.Duration        `yaml:"timeout"`
	Auth     RuntimeAuthConfig    `yaml:"auth"`
	Breaker  CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// RuntimeAuthConfig describes JWT authentication for runtime calls.
type RuntimeAuthConfig struct {
	SecretEnv string        `yaml:"secret_env"`
	Issuer    string        `yaml:"issuer"`
	Audience  string        `yaml:"audience"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// CircuitBreakerConfig describes circuit breaker settings for runtime calls.
type CircuitBreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	SuccessThreshold int           `yaml:"success_threshold"`
	Timeout          time.Duration `yaml:"timeout"`
}

// ObservabilityConfig describes logging and tracing settings.
type ObservabilityConfig struct {
	LogLevel string        `yaml:"log_level"`
	Tracing  TracingConfig `yaml:"tracing"`
}

// TracingConfig describes distributed tracing settings.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Models: ModelsConfig{
			Directories: []string{"models"},
		},
		Output: OutputConfig{
			Directory: "gen",
			Pretty:    true,
		},
		Runtime: RuntimeConfig{
			Mode:    "dry-run",
			Timeout: 30 * time.Second,
			Auth: RuntimeAuthConfig{
				SecretEnv: "FORMGRAPH_RUNTIME_SECRET",
				TokenTTL:  5 * time.Minute,
			},
			Breaker: CircuitBreakerConfig{
				FailureThreshold: 5,
				SuccessThreshold: 2,
				Timeout:          30 * time.Second,
			},
		},
		Heuristics: heuristics.DefaultVocabulary(),
		Observability: ObservabilityConfig{
			LogLevel: "info",
			Tracing: TracingConfig{
				Exporter:     "otlp",
				SamplingRate: 0.1,
			},
		},
	}
}

// Load reads a YAML config file, applies environment variable overrides,
// and validates required fields.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	var errs []string

	if len(c.Models.Directories) == 0 {
		errs = append(errs, "models.directories must not be empty")
	}
	if c.Output.Directory == "" {
		errs = append(errs, "output.directory is required")
	}
	switch c.Runtime.Mode {
	case "dry-run", "http":
	default:
		errs = append(errs, fmt.Sprintf("runtime.mode %q must be dry-run or http", c.Runtime.Mode))
	}
	if c.Runtime.Mode == "http" {
		if c.Runtime.BaseURL == "" {
			errs = append(errs, "runtime.base_url is required in http mode")
		}
		if c.Runtime.SpecFile == "" {
			errs = append(errs, "runtime.spec_file is required in http mode")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// applyEnvOverrides reads FORMGRAPH_* environment variables and overrides
// config values. Only the most commonly overridden fields are supported.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORMGRAPH_OUTPUT_DIR"); v != "" {
		cfg.Output.Directory = v
	}
	if v := os.Getenv("FORMGRAPH_RUNTIME_MODE"); v != "" {
		cfg.Runtime.Mode = v
	}
	if v := os.Getenv("FORMGRAPH_RUNTIME_BASE_URL"); v != "" {
		cfg.Runtime.BaseURL = v
	}
	if v := os.Getenv("FORMGRAPH_OBSERVABILITY_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
}
