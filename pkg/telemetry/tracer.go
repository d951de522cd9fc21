package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Span is the span type handed to callers. Aliased so packages using the
// tracer do not import OpenTelemetry directly.
type Span = trace.Span

// Tracer wraps the OpenTelemetry tracer with Supreme-specific functionality.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	config   TracingConfig
}

// NewTracer creates a new tracer with the given configuration.
func NewTracer(cfg TracingConfig, serviceName, serviceVersion, environment string) (*Tracer, error) {
	if !cfg.Enabled {
		// Return a tracer with no-op provider
		return &Tracer{
			provider: sdktrace.NewTracerProvider(),
			tracer:   otel.Tracer(serviceName),
			config:   cfg,
		}, nil
	}

	// Create resource with service information
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			attribute.String("environment", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	// Create exporter based on configuration
	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case "otlp":
		exporter, err = createOTLPExporter(cfg)
	case "stdout":
		exporter, err = createStdoutExporter(cfg)
	case "none":
		// No exporter - traces are generated but not exported
		exporter = nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Configure sampler
	sampler := sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(cfg.SamplingRate),
	)

	// Create trace provider
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}

	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(
			exporter,
			sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatchSize),
			sdktrace.WithExportTimeout(cfg.ExportTimeout),
		))
	}

	provider := sdktrace.NewTracerProvider(opts...)

	// Set global trace provider
	otel.SetTracerProvider(provider)

	// Set global propagator for context propagation
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		config:   cfg,
	}, nil
}

// NopTracer returns a tracer whose spans are never exported. Used as the
// default when a component is built without explicit tracing.
func NopTracer() *Tracer {
	provider := sdktrace.NewTracerProvider()
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer("nop"),
	}
}

// createOTLPExporter creates an OTLP gRPC exporter.
func createOTLPExporter(cfg TracingConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	// Add custom headers if provided
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}

	// Add dial options for connection timeout
	opts = append(opts, otlptracegrpc.WithDialOption(
		grpc.WithBlock(),
	))

	return otlptracegrpc.New(context.Background(), opts...)
}

// createStdoutExporter creates a stdout exporter for debugging.
func createStdoutExporter(cfg TracingConfig) (sdktrace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
	)
}

// Start begins a new span with the given name.
func (t *Tracer) Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, spanName, opts...)
}

// StartSpan is a convenience method that starts a span with common attributes.
func (t *Tracer) StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
}

// StartRequestSpan starts a span for an orchestration request dispatch.
func (t *Tracer) StartRequestSpan(ctx context.Context, requestID, strategy string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "request.dispatch",
		attribute.String("request.id", requestID),
		attribute.String("request.strategy", strategy),
		attribute.String("span.kind", "request"),
	)
}

// StartEngineSpan starts a span for one engine provider call.
func (t *Tracer) StartEngineSpan(ctx context.Context, engine, operation string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, fmt.Sprintf("engine.%s", engine),
		attribute.String("engine.kind", engine),
		attribute.String("engine.operation", operation),
		attribute.String("span.kind", "engine"),
	)
}

// StartCommandSpan starts a span for a command execution.
func (t *Tracer) StartCommandSpan(ctx context.Context, commandID, commandType string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, fmt.Sprintf("command.%s", commandType),
		attribute.String("command.id", commandID),
		attribute.String("command.type", commandType),
		attribute.String("span.kind", "command"),
	)
}

// StartDecisionSpan starts a span for a decision.
func (t *Tracer) StartDecisionSpan(ctx context.Context, decisionID string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "decision.decide",
		attribute.String("decision.id", decisionID),
		attribute.String("span.kind", "decision"),
	)
}

// StartExecutionSpan starts a span for a decision execution.
func (t *Tracer) StartExecutionSpan(ctx context.Context, executionID, decisionID string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "execution.run",
		attribute.String("execution.id", executionID),
		attribute.String("decision.id", decisionID),
		attribute.String("span.kind", "execution"),
	)
}

// RecordError records an error on the current span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess marks the span as successful.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// SetAttributes sets multiple attributes on a span.
func SetAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// AddEvent adds an event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AddRequestEvent adds a request-related event to the span.
func AddRequestEvent(span trace.Span, eventType, message string) {
	span.AddEvent(eventType, trace.WithAttributes(
		attribute.String("event.message", message),
		attribute.String("event.category", "request"),
	))
}

// AddEngineEvent adds an engine-related event to the span.
func AddEngineEvent(span trace.Span, engine, eventType, message string) {
	span.AddEvent(eventType, trace.WithAttributes(
		attribute.String("engine.kind", engine),
		attribute.String("event.message", message),
		attribute.String("event.category", "engine"),
	))
}

// Shutdown gracefully shuts down the tracer, flushing any pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// ForceFlush forces all pending spans to be exported immediately.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.ForceFlush(ctx)
}

// SpanFromContext returns the current span from the context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// TraceID returns the trace ID of the current span in the context.
func TraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// SpanID returns the span ID of the current span in the context.
func SpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}

// Common attribute keys for Supreme tracing.
var (
	// Request attributes
	AttrRequestID       = attribute.Key("request.id")
	AttrRequestStrategy = attribute.Key("request.strategy")
	AttrRequestStatus   = attribute.Key("request.status")

	// Engine attributes
	AttrEngineKind      = attribute.Key("engine.kind")
	AttrEngineOperation = attribute.Key("engine.operation")
	AttrEngineStatus    = attribute.Key("engine.status")

	// Command attributes
	AttrCommandID   = attribute.Key("command.id")
	AttrCommandType = attribute.Key("command.type")

	// Decision attributes
	AttrDecisionID        = attribute.Key("decision.id")
	AttrDecisionArchetype = attribute.Key("decision.archetype")
	AttrExecutionID       = attribute.Key("execution.id")

	// Error attributes
	AttrErrorClass   = attribute.Key("error.class")
	AttrErrorCode    = attribute.Key("error.code")
	AttrErrorMessage = attribute.Key("error.message")
)
