package config

import (
	"time"
)

// Config is the top-level configuration for the Supreme coordination core.
type Config struct {
	// Service identifies the running service.
	Service ServiceConfig `yaml:"service" validate:"required"`

	// Orchestrator configures the request queue and dispatcher.
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`

	// Control configures the command surface.
	Control ControlConfig `yaml:"control"`

	// Registry configures the engine registry.
	Registry RegistryConfig `yaml:"registry"`

	// Decision configures the decision maker.
	Decision DecisionConfig `yaml:"decision"`

	// Engines lists the engines to register at startup.
	Engines []EngineConfig `yaml:"engines" validate:"dive"`

	// Store configures the durable coordination archive.
	Store StoreConfig `yaml:"store"`

	// Telemetry configures logging, tracing, metrics, and events.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServiceConfig identifies the service.
type ServiceConfig struct {
	// Name is the service name.
	Name string `yaml:"name" validate:"required"`

	// Version is the service version.
	Version string `yaml:"version"`

	// Environment is the deployment environment (development, staging,
	// production).
	Environment string `yaml:"environment" validate:"omitempty,oneof=development staging production"`
}

// OrchestratorConfig configures the orchestrator.
type OrchestratorConfig struct {
	// QueueSize bounds the request queue.
	QueueSize int `yaml:"queue_size" validate:"omitempty,min=1"`

	// DefaultTimeout bounds result waits when a request carries none.
	DefaultTimeout time.Duration `yaml:"default_timeout"`
}

// ControlConfig configures the control interface.
type ControlConfig struct {
	// HistoryLimit bounds the command and result history.
	HistoryLimit int `yaml:"history_limit" validate:"omitempty,min=1"`

	// CommandTimeout bounds command waits when a command carries none.
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// RegistryConfig configures the engine registry.
type RegistryConfig struct {
	// CoordinationHistoryLimit bounds the coordination log.
	CoordinationHistoryLimit int `yaml:"coordination_history_limit" validate:"omitempty,min=1"`
}

// DecisionConfig configures the decision maker and executor.
type DecisionConfig struct {
	// HistoryLimit bounds the decision and execution histories.
	HistoryLimit int `yaml:"history_limit" validate:"omitempty,min=1"`
}

// EngineConfig declares one engine to register at startup.
type EngineConfig struct {
	// Kind is the engine kind (reasoning, system_control, learning,
	// integration, analytics, communication, knowledge, proactive,
	// security, scalability).
	Kind string `yaml:"kind" validate:"required,oneof=reasoning system_control learning integration analytics communication knowledge proactive security scalability"`

	// Enabled controls whether the engine is registered.
	Enabled bool `yaml:"enabled"`

	// Priority orders the engine for sequential dispatch.
	Priority int `yaml:"priority"`

	// Capabilities are the engine's declared capability tags.
	Capabilities []string `yaml:"capabilities"`

	// Settings are engine-specific settings passed to the provider.
	Settings map[string]interface{} `yaml:"settings"`
}

// StoreConfig configures the SQLite coordination archive.
type StoreConfig struct {
	// Enabled controls whether completed runs and decisions are archived.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	Path string `yaml:"path" validate:"required_if=Enabled true"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Tracing configures distributed tracing.
	Tracing TracingConfig `yaml:"tracing"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`

	// Events configures event publishing.
	Events EventsConfig `yaml:"events"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`

	// Format is the log format (console, json).
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`

	// Output is where logs are written (stdout, stderr, file path).
	Output string `yaml:"output"`
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	Enabled bool `yaml:"enabled"`

	// Exporter is the trace exporter (otlp, stdout, none).
	Exporter string `yaml:"exporter" validate:"omitempty,oneof=otlp stdout none"`

	// Endpoint is the OTLP exporter endpoint.
	Endpoint string `yaml:"endpoint"`

	// SamplingRate is the trace sampling rate in [0,1].
	SamplingRate float64 `yaml:"sampling_rate" validate:"min=0,max=1"`

	// Insecure disables TLS for the exporter connection.
	Insecure bool `yaml:"insecure"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for metrics.
	Path string `yaml:"path"`
}

// EventsConfig configures event publishing.
type EventsConfig struct {
	// Enabled controls whether event publishing is active.
	Enabled bool `yaml:"enabled"`

	// BufferSize is the size of the event buffer.
	BufferSize int `yaml:"buffer_size" validate:"omitempty,min=1"`
}
