// Package config provides YAML configuration loading and validation for the
// Supreme coordination core.
//
// # Overview
//
// The config package loads the service configuration from a YAML file,
// applies built-in defaults for anything the file leaves out, and validates
// the result against struct-level constraints.
//
// # Features
//
//   - YAML configuration parsing with layered defaults
//   - Struct tag validation (required fields, enums, ranges)
//   - Declarative engine registration (kinds, priorities, capabilities)
//   - Telemetry configuration bridged to the telemetry package
//   - Live reload via filesystem watching
//
// # Usage Example
//
//	loader := config.NewLoader()
//
//	cfg, err := loader.Load("supreme.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tel, err := telemetry.NewTelemetry(cfg.TelemetryConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Structure
//
// A typical configuration file:
//
//	service:
//	  name: supreme
//	  version: "1.0.0"
//	  environment: production
//
//	orchestrator:
//	  queue_size: 128
//	  default_timeout: 5m
//
//	engines:
//	  - kind: analytics
//	    enabled: true
//	    priority: 8
//	    capabilities: [analyze_data, generate_insights]
//	  - kind: system_control
//	    enabled: true
//	    priority: 9
//
//	store:
//	  enabled: true
//	  path: /var/lib/supreme/supreme.db
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    listen_address: ":9090"
//
// # Live Reload
//
// A Watcher reloads the file on change and hands the new configuration to a
// callback. Changes that fail to parse or validate are dropped and the
// previous configuration stays in effect:
//
//	w, err := config.NewWatcher(loader, "supreme.yaml", func(cfg *config.Config) {
//	    // apply the new configuration
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//	go w.Run(ctx)
//
// # Thread Safety
//
// Loader and Watcher are safe for concurrent use; a loaded Config is
// read-only after Load returns.
package config
