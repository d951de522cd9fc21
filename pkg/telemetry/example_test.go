package telemetry_test

import (
	"context"
	"fmt"
	"time"

	"github.com/syncsphere/supreme/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Example_basicSetup demonstrates basic telemetry setup.
func Example_basicSetup() {
	// Create configuration
	cfg := telemetry.DefaultConfig()
	cfg.ServiceName = "supreme"
	cfg.ServiceVersion = "1.0.0"

	// Initialize telemetry
	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		panic(err)
	}
	defer tel.Shutdown(context.Background())

	// Start metrics server (non-blocking)
	if err := tel.StartMetricsServer(); err != nil {
		panic(err)
	}

	// Add telemetry to context
	ctx := tel.WithContext(context.Background())

	// Use telemetry
	logger := telemetry.FromContext(ctx)
	logger.Info("Application started")

	// Output can vary, so we don't specify output for this example
}

// Example_structuredLogging demonstrates structured logging features.
func Example_structuredLogging() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Logging.Output = "stdout"

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Component-specific logger
	logger := tel.Logger.NewComponentLogger("orchestrator")

	// Add context fields
	logger = logger.WithFields(map[string]interface{}{
		"request_id": "req-123",
		"engine":     "analytics",
	})

	// Log at different levels
	logger.Debug("Dispatching orchestration request")
	logger.Info("Engine call completed")
	logger.Warn("Engine mailbox near capacity")

	// Log with error
	err := fmt.Errorf("engine timeout")
	logger.WithError(err).Error("Failed to reach analytics engine")

	// Output varies, no output specified
}

// Example_distributedTracing demonstrates distributed tracing usage.
func Example_distributedTracing() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Tracing.Exporter = "stdout"

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start a request span
	ctx, span := tel.Tracer.StartRequestSpan(ctx, "req-789", "parallel")
	defer span.End()

	// Add attributes
	span.SetAttributes(
		attribute.Int("request.engines", 2),
	)

	// Add event
	span.AddEvent("validation.complete")

	// Nested engine span
	ctx, childSpan := tel.Tracer.StartEngineSpan(ctx, "analytics", "analyze_data")
	defer childSpan.End()

	// Simulate work
	time.Sleep(10 * time.Millisecond)

	// Record success
	telemetry.RecordSuccess(childSpan)

	// Output varies, no output specified
}

// Example_metricsCollection demonstrates metrics collection.
func Example_metricsCollection() {
	cfg := telemetry.DefaultConfig()
	cfg.Metrics.Enabled = true

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Record orchestration metrics
	start := time.Now()
	time.Sleep(50 * time.Millisecond)
	duration := time.Since(start)

	tel.Metrics.ObserveOrchestration("parallel", "completed", duration)

	// Record engine call metrics
	tel.Metrics.ObserveEngineCall("analytics", true, 25*time.Millisecond)
	tel.Metrics.ObserveEngineCall("reasoning", false, 5*time.Millisecond)

	// Record command metrics
	tel.Metrics.ObserveCommand("analyze", "completed", 30*time.Millisecond)

	// Record error metrics
	tel.Metrics.RecordError("timeout", "TIMEOUT")

	// Set gauges
	tel.Metrics.SetQueueDepth(3)
	tel.Metrics.SetRegisteredEngines(10)

	fmt.Println("Metrics recorded successfully")
	// Output: Metrics recorded successfully
}

// Example_eventPublishing demonstrates event publishing and subscription.
func Example_eventPublishing() {
	cfg := telemetry.DefaultConfig()
	cfg.Events.Enabled = true
	cfg.Events.EnableAsync = false // Synchronous for example

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Subscribe to events
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Event: %s - %s\n", event.Type, event.Message)
	}, nil) // No filter, receive all events

	// Publish events
	tel.Events.PublishRequestQueued("req-123", "sequential")
	tel.Events.PublishRequestCompleted("req-123", "completed", 25*time.Millisecond)

	// Output varies due to async nature, no output specified
}

// Example_requestInstrumentation demonstrates instrumenting a full request.
func Example_requestInstrumentation() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start request context
	requestID := "req-123"
	ctx = telemetry.WithRequestContext(ctx, requestID, "parallel")

	// Execute the request (simulated)
	dispatchRequest(ctx)

	// End request context
	telemetry.EndRequestContext(ctx, requestID, "parallel", "completed", nil)

	fmt.Println("Request instrumentation complete")
	// Output: Request instrumentation complete
}

func dispatchRequest(ctx context.Context) {
	// Get logger from context
	logger := telemetry.FromContext(ctx)
	logger.Info("Dispatching to engines")

	// Simulate engine fan-out
	time.Sleep(10 * time.Millisecond)
}

// Example_engineInstrumentation demonstrates instrumenting engine calls.
func Example_engineInstrumentation() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Add engine context
	ctx = telemetry.WithEngineContext(ctx, "analytics")

	// Record engine operation
	err := telemetry.RecordEngineOperation(ctx, "analytics", "analyze_data", func() error {
		// Simulate engine work
		time.Sleep(15 * time.Millisecond)
		return nil
	})

	if err == nil {
		fmt.Println("Engine operation completed successfully")
	}

	// Output: Engine operation completed successfully
}

// Example_instrumentedOperation demonstrates using the InstrumentedContext helper.
func Example_instrumentedOperation() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start instrumented operation
	ic := telemetry.StartOperation(ctx, "validate_config",
		attribute.String("config.path", "/etc/supreme/config.yaml"),
	)
	defer ic.End(nil)

	// Use the instrumented context
	ic.Logger.Info("Validating configuration")

	// Simulate validation
	time.Sleep(5 * time.Millisecond)

	ic.Logger.Debug("Configuration validation complete")

	fmt.Println("Operation instrumentation complete")
	// Output: Operation instrumentation complete
}

// Example_eventFiltering demonstrates event filtering.
func Example_eventFiltering() {
	cfg := telemetry.DefaultConfig()
	cfg.Events.Enabled = true
	cfg.Events.EnableAsync = false

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Subscribe with level filter (only warnings and errors)
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Important event: %s\n", event.Type)
	}, telemetry.FilterByLevel(telemetry.EventLevelWarning))

	// Subscribe with type filter (only engine failures)
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Engine failure: %s\n", event.Message)
	}, telemetry.FilterByType(telemetry.EventEngineCallFailed))

	// Publish various events
	tel.Events.PublishRequestQueued("req-123", "parallel")                     // Info - filtered by level filter
	tel.Events.PublishEngineCallFailed("req-123", "analytics", "timeout")      // Warning - passes level filter
	tel.Events.PublishRequestFailed("req-123", "all required engines errored") // Error - passes level filter

	// Output varies, no output specified
}

// Example_productionConfiguration demonstrates production-ready configuration.
func Example_productionConfiguration() {
	cfg := telemetry.ProductionConfig()

	// Customize for your environment
	cfg.ServiceName = "supreme"
	cfg.ServiceVersion = "1.2.3"
	cfg.Environment = "production"

	// Configure OTLP exporter
	cfg.Tracing.Exporter = "otlp"
	cfg.Tracing.Endpoint = "otel-collector.monitoring.svc.cluster.local:4317"
	cfg.Tracing.SamplingRate = 0.1 // 10% sampling
	cfg.Tracing.Insecure = false   // Use TLS in production

	// Configure metrics
	cfg.Metrics.ListenAddress = ":9090"
	cfg.Metrics.Namespace = "supreme"

	// Configure events
	cfg.Events.BufferSize = 10000

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	fmt.Println("Production configuration validated")
	// Output: Production configuration validated
}

// Example_errorRecording demonstrates error recording with proper classification.
func Example_errorRecording() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start a span
	ctx, span := tel.Tracer.Start(ctx, "risky_operation")
	defer span.End()

	// Simulate an error
	err := fmt.Errorf("connection timeout")

	if err != nil {
		// Record error on span
		telemetry.RecordError(span, err)

		// Record error metric with classification
		tel.Metrics.RecordError("timeout", "TIMEOUT")

		// Log error
		logger := telemetry.FromContext(ctx)
		logger.WithError(err).Error("Operation failed")
	}

	fmt.Println("Error recording complete")
	// Output: Error recording complete
}

// Example_multipleComponents demonstrates telemetry in a multi-component system.
func Example_multipleComponents() {
	cfg := telemetry.DevelopmentConfig()
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Component-specific loggers
	registryLogger := tel.Logger.NewComponentLogger("registry")
	orchestratorLogger := tel.Logger.NewComponentLogger("orchestrator")
	controlLogger := tel.Logger.NewComponentLogger("control")

	registryLogger.Info("Registry initialized")
	orchestratorLogger.Info("Dispatcher started")
	controlLogger.Info("Command surface ready")

	fmt.Println("Multi-component logging complete")
	// Output: Multi-component logging complete
}
