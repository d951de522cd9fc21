package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Loader parses and validates YAML configuration files.
type Loader struct {
	validator *validator.Validate
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		validator: validator.New(),
	}
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "supreme",
			Version:     "dev",
			Environment: "development",
		},
		Orchestrator: OrchestratorConfig{
			QueueSize:      128,
			DefaultTimeout: 5 * time.Minute,
		},
		Control: ControlConfig{
			HistoryLimit:   100,
			CommandTimeout: 5 * time.Minute,
		},
		Registry: RegistryConfig{
			CoordinationHistoryLimit: 256,
		},
		Decision: DecisionConfig{
			HistoryLimit: 100,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "supreme.db",
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
				Output: "stdout",
			},
			Tracing: TracingConfig{
				Enabled:      false,
				Exporter:     "stdout",
				SamplingRate: 1.0,
				Insecure:     true,
			},
			Metrics: MetricsConfig{
				Enabled:       false,
				ListenAddress: ":9090",
				Path:          "/metrics",
			},
			Events: EventsConfig{
				Enabled:    true,
				BufferSize: 1000,
			},
		},
	}
}

// Load reads, parses, and validates a YAML configuration file. Values
// absent from the file keep their defaults.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return l.LoadBytes(data)
}

// LoadBytes parses and validates YAML configuration content.
func (l *Loader) LoadBytes(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration against the struct validation tags.
func (l *Loader) Validate(cfg *Config) error {
	if err := l.validator.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("invalid configuration: %s", formatValidationErrors(errs))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyDefaults fills zero values an explicit file may have cleared.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Orchestrator.QueueSize <= 0 {
		cfg.Orchestrator.QueueSize = def.Orchestrator.QueueSize
	}
	if cfg.Orchestrator.DefaultTimeout <= 0 {
		cfg.Orchestrator.DefaultTimeout = def.Orchestrator.DefaultTimeout
	}
	if cfg.Control.HistoryLimit <= 0 {
		cfg.Control.HistoryLimit = def.Control.HistoryLimit
	}
	if cfg.Control.CommandTimeout <= 0 {
		cfg.Control.CommandTimeout = def.Control.CommandTimeout
	}
	if cfg.Registry.CoordinationHistoryLimit <= 0 {
		cfg.Registry.CoordinationHistoryLimit = def.Registry.CoordinationHistoryLimit
	}
	if cfg.Decision.HistoryLimit <= 0 {
		cfg.Decision.HistoryLimit = def.Decision.HistoryLimit
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = def.Telemetry.Logging.Level
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = def.Telemetry.Logging.Format
	}
	if cfg.Telemetry.Logging.Output == "" {
		cfg.Telemetry.Logging.Output = def.Telemetry.Logging.Output
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = def.Telemetry.Tracing.Exporter
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = def.Telemetry.Metrics.ListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = def.Telemetry.Metrics.Path
	}
	if cfg.Telemetry.Events.BufferSize <= 0 {
		cfg.Telemetry.Events.BufferSize = def.Telemetry.Events.BufferSize
	}
}

// formatValidationErrors renders validator errors as a compact list.
func formatValidationErrors(errs validator.ValidationErrors) string {
	msg := ""
	for i, fieldErr := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("%s failed on %q", fieldErr.Namespace(), fieldErr.Tag())
	}
	return msg
}
