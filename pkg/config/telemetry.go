package config

import (
	"github.com/syncsphere/supreme/pkg/telemetry"
)

// TelemetryConfig converts the configuration into the telemetry package's
// native config, carrying the service identity across.
func (c *Config) TelemetryConfig() *telemetry.Config {
	cfg := telemetry.DefaultConfig()

	cfg.ServiceName = c.Service.Name
	if c.Service.Version != "" {
		cfg.ServiceVersion = c.Service.Version
	}
	if c.Service.Environment != "" {
		cfg.Environment = c.Service.Environment
	}

	cfg.Logging.Level = c.Telemetry.Logging.Level
	cfg.Logging.Format = c.Telemetry.Logging.Format
	cfg.Logging.Output = c.Telemetry.Logging.Output

	cfg.Tracing.Enabled = c.Telemetry.Tracing.Enabled
	cfg.Tracing.Exporter = c.Telemetry.Tracing.Exporter
	cfg.Tracing.Endpoint = c.Telemetry.Tracing.Endpoint
	cfg.Tracing.SamplingRate = c.Telemetry.Tracing.SamplingRate
	cfg.Tracing.Insecure = c.Telemetry.Tracing.Insecure

	cfg.Metrics.Enabled = c.Telemetry.Metrics.Enabled
	cfg.Metrics.ListenAddress = c.Telemetry.Metrics.ListenAddress
	cfg.Metrics.Path = c.Telemetry.Metrics.Path

	cfg.Events.Enabled = c.Telemetry.Events.Enabled
	cfg.Events.BufferSize = c.Telemetry.Events.BufferSize

	return cfg
}
