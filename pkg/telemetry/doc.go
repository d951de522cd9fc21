// Package telemetry provides observability instrumentation for the Supreme
// coordination core.
//
// The telemetry package integrates structured logging (zerolog), distributed
// tracing (OpenTelemetry), metrics (Prometheus), and event publishing into a
// unified system for monitoring and debugging coordination activity.
//
// # Architecture
//
// The telemetry system is built on four pillars:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Distributed Tracing - OpenTelemetry traces with multiple exporters
//  3. Metrics Collection - Prometheus metrics for operational insights
//  4. Event Publishing - Async event system for audit and notifications
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "supreme"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	// Start metrics server
//	if err := tel.StartMetricsServer(); err != nil {
//	    log.Fatal(err)
//	}
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific logging with automatic context propagation:
//
//	logger := tel.Logger.NewComponentLogger("orchestrator")
//	logger = logger.WithRequestID("req-123").WithEngine("analytics")
//	logger.Info("dispatching request")
//	logger.WithError(err).Error("dispatch failed")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Tracing provides visibility into request flow and per-engine latency:
//
//	ctx, span := tel.Tracer.StartRequestSpan(ctx, requestID, strategy)
//	defer span.End()
//
//	if err != nil {
//	    telemetry.RecordError(span, err)
//	}
//
// Domain span helpers cover the full coordination pipeline: StartRequestSpan,
// StartEngineSpan, StartCommandSpan, StartDecisionSpan, StartExecutionSpan.
//
// Supported exporters: OTLP (production), Stdout (development)
//
// # Metrics
//
// Prometheus metrics track coordination behavior and performance:
//
//	tel.Metrics.ObserveOrchestration("parallel", "completed", duration)
//	tel.Metrics.ObserveEngineCall("analytics", true, duration)
//	tel.Metrics.ObserveCommand("analyze", "completed", duration)
//	tel.Metrics.RecordError("dispatch", "PROVIDER_PANIC")
//
// Key metrics exposed:
//
//   - supreme_orchestrations_total{strategy,status}
//   - supreme_orchestration_duration_seconds{strategy}
//   - supreme_engine_calls_total{engine,status}
//   - supreme_engine_call_duration_seconds{engine}
//   - supreme_adaptive_fallbacks_total
//   - supreme_commands_total{type,status}
//   - supreme_decisions_total{archetype}
//   - supreme_executions_total{status}
//   - supreme_errors_by_class_total{class}
//   - supreme_queue_depth
//
// Metrics are exposed via HTTP at /metrics (default: :9090/metrics)
//
// # Event Publishing
//
// The event system provides async publishing with buffering and filtering:
//
//	tel.Events.PublishRequestQueued(requestID, strategy)
//	tel.Events.PublishEngineCallFailed(requestID, engine, reason)
//
//	tel.Events.Subscribe(func(event telemetry.Event) {
//	    fmt.Printf("Event: %s - %s\n", event.Type, event.Message)
//	}, telemetry.FilterByLevel("warning"))
//
// Event filters: FilterByLevel, FilterByType, FilterByRequestID, FilterByEngine
//
// # Configuration
//
// The package provides pre-configured setups for different environments:
//
//	// Development (verbose logging, stdout traces, full sampling)
//	cfg := telemetry.DevelopmentConfig()
//
//	// Production (JSON logs, OTLP traces, 10% sampling)
//	cfg := telemetry.ProductionConfig()
//
// # Graceful Shutdown
//
// Always shut down telemetry gracefully to flush pending data:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	if err := tel.Shutdown(ctx); err != nil {
//	    log.Printf("Telemetry shutdown error: %v", err)
//	}
//
// This ensures all buffered events are published and all pending traces are
// exported.
package telemetry
