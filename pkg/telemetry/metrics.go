package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for Supreme.
type Metrics struct {
	config MetricsConfig

	// Orchestration metrics
	orchestrations        *prometheus.CounterVec
	orchestrationDuration *prometheus.HistogramVec

	// Engine call metrics
	engineCalls        *prometheus.CounterVec
	engineCallDuration *prometheus.HistogramVec

	// Strategy metrics
	adaptiveFallbacks prometheus.Counter

	// Command metrics
	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	// Decision and execution metrics
	decisions         *prometheus.CounterVec
	executions        *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	// System metrics
	queueDepth        prometheus.Gauge
	registeredEngines prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		// Orchestration metrics
		orchestrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orchestrations_total",
				Help:      "Total number of orchestration requests dispatched",
			},
			[]string{"strategy", "status"},
		),
		orchestrationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "orchestration_duration_seconds",
				Help:      "Duration of orchestration dispatch in seconds",
				Buckets:   buckets,
			},
			[]string{"strategy"},
		),

		// Engine call metrics
		engineCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_calls_total",
				Help:      "Total number of engine provider calls",
			},
			[]string{"engine", "status"},
		),
		engineCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "engine_call_duration_seconds",
				Help:      "Duration of engine provider calls in seconds",
				Buckets:   buckets,
			},
			[]string{"engine"},
		),

		// Strategy metrics
		adaptiveFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adaptive_fallbacks_total",
				Help:      "Total number of adaptive parallel-to-sequential fallbacks",
			},
		),

		// Command metrics
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of commands executed",
			},
			[]string{"type", "status"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Duration of command execution in seconds",
				Buckets:   buckets,
			},
			[]string{"type"},
		),

		// Decision and execution metrics
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Total number of decisions made",
			},
			[]string{"archetype"},
		),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Total number of decision executions",
			},
			[]string{"status"},
		),
		executionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Duration of decision executions in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),

		// Error metrics
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		// System metrics
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_depth",
				Help:      "Current number of queued orchestration requests",
			},
		),
		registeredEngines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registered_engines",
				Help:      "Current number of registered engines",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.orchestrations,
		m.orchestrationDuration,
		m.engineCalls,
		m.engineCallDuration,
		m.adaptiveFallbacks,
		m.commands,
		m.commandDuration,
		m.decisions,
		m.executions,
		m.executionDuration,
		m.errorsByClass,
		m.errorsByCode,
		m.queueDepth,
		m.registeredEngines,
	)

	return m, nil
}

// NopMetrics returns a disabled metrics instance where every recording
// method is a no-op. Used as the default when a component is built without
// explicit metrics.
func NopMetrics() *Metrics {
	return &Metrics{config: MetricsConfig{Enabled: false}}
}

// Orchestration Metrics

// ObserveOrchestration records a dispatched orchestration with its strategy,
// final status, and duration.
func (m *Metrics) ObserveOrchestration(strategy, status string, duration time.Duration) {
	if m.orchestrations == nil {
		return
	}
	m.orchestrations.WithLabelValues(strategy, status).Inc()
	m.orchestrationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// Engine Call Metrics

// ObserveEngineCall records one engine provider call.
func (m *Metrics) ObserveEngineCall(engine string, ok bool, duration time.Duration) {
	if m.engineCalls == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	m.engineCalls.WithLabelValues(engine, status).Inc()
	m.engineCallDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// Strategy Metrics

// CountAdaptiveFallback increments the adaptive fallback counter.
func (m *Metrics) CountAdaptiveFallback() {
	if m.adaptiveFallbacks == nil {
		return
	}
	m.adaptiveFallbacks.Inc()
}

// Command Metrics

// ObserveCommand records one executed command.
func (m *Metrics) ObserveCommand(commandType, status string, duration time.Duration) {
	if m.commands == nil {
		return
	}
	m.commands.WithLabelValues(commandType, status).Inc()
	m.commandDuration.WithLabelValues(commandType).Observe(duration.Seconds())
}

// Decision Metrics

// CountDecision increments the decision counter for an archetype.
func (m *Metrics) CountDecision(archetype string) {
	if m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(archetype).Inc()
}

// ObserveExecution records one decision execution.
func (m *Metrics) ObserveExecution(status string, duration time.Duration) {
	if m.executions == nil {
		return
	}
	m.executions.WithLabelValues(status).Inc()
	m.executionDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// Error Metrics

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// System Metrics

// SetQueueDepth sets the current orchestration queue depth.
func (m *Metrics) SetQueueDepth(depth int) {
	if m.queueDepth == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

// SetRegisteredEngines sets the current number of registered engines.
func (m *Metrics) SetRegisteredEngines(count int) {
	if m.registeredEngines == nil {
		return
	}
	m.registeredEngines.Set(float64(count))
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
