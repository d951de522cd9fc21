package supreme

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syncsphere/supreme/pkg/telemetry"
)

// defaultQueueSize bounds the orchestration request queue.
const defaultQueueSize = 128

// strategyFunc executes one fan-out policy for a request. A non-nil error
// is a dispatch-level failure; per-engine failures live inside the outcome
// map.
type strategyFunc func(ctx context.Context, req *OrchestrationRequest) (map[EngineKind]EngineOutcome, error)

// OrchestratorOptions configures an Orchestrator. All fields are optional;
// zero values select defaults and no-op telemetry.
type OrchestratorOptions struct {
	// QueueSize bounds the request queue. Defaults to 128.
	QueueSize int

	// Logger is the structured logger. Defaults to a no-op logger.
	Logger *telemetry.Logger

	// Metrics collects orchestration metrics. Defaults to no-op.
	Metrics *telemetry.Metrics

	// Events publishes orchestration lifecycle events. Defaults to no-op.
	Events *telemetry.EventPublisher

	// Tracer creates dispatch and engine-call spans. Defaults to no-op.
	Tracer *telemetry.Tracer

	// Recorder, when set, archives completed runs.
	Recorder RunRecorder
}

// Orchestrator owns the request queue and the dispatcher loop. One
// dispatcher goroutine pulls requests in FIFO order; within a request the
// parallel and adaptive strategies fan out to concurrent engine calls.
type Orchestrator struct {
	registry *Registry
	logger   *telemetry.Logger
	metrics  *telemetry.Metrics
	events   *telemetry.EventPublisher
	tracer   *telemetry.Tracer
	recorder RunRecorder

	queue      chan *OrchestrationRequest
	strategies map[Strategy]strategyFunc

	mu        sync.RWMutex
	active    map[string]*OrchestrationRequest
	completed map[string]*OrchestrationResult
	waiters   map[string]chan struct{}
	running   bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates an orchestrator bound to the given registry.
func NewOrchestrator(registry *Registry, opts OrchestratorOptions) *Orchestrator {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = telemetry.NopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.NopMetrics()
	}
	if opts.Events == nil {
		opts.Events = telemetry.NopEventPublisher()
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.NopTracer()
	}

	o := &Orchestrator{
		registry:  registry,
		logger:    opts.Logger.NewComponentLogger("orchestrator"),
		metrics:   opts.Metrics,
		events:    opts.Events,
		tracer:    opts.Tracer,
		recorder:  opts.Recorder,
		queue:     make(chan *OrchestrationRequest, opts.QueueSize),
		active:    make(map[string]*OrchestrationRequest),
		completed: make(map[string]*OrchestrationResult),
		waiters:   make(map[string]chan struct{}),
	}

	// Enum-keyed dispatch table: every strategy in the closed set has an
	// entry, so an unknown strategy is a validation failure in Submit, not
	// a silent fallback.
	o.strategies = map[Strategy]strategyFunc{
		StrategySequential:  o.executeSequential,
		StrategyParallel:    o.executeParallel,
		StrategyConditional: o.executeConditional,
		StrategyPriority:    o.executePriority,
		StrategyAdaptive:    o.executeAdaptive,
	}
	return o
}

// Start launches the dispatcher loop. It is an error to start an already
// running orchestrator.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return NewPermanentError("orchestrator already running", nil).WithCode(ErrCodeValidation)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.running = true

	o.wg.Add(1)
	go o.dispatchLoop(loopCtx)

	o.logger.Info("orchestrator started")
	return nil
}

// Stop terminates the dispatcher loop and waits for it to drain the
// request it is currently executing.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	cancel := o.cancel
	o.mu.Unlock()

	cancel()
	o.wg.Wait()
	o.logger.Info("orchestrator stopped")
}

// Submit enqueues a request and returns its ID immediately. A request with
// an empty ID is assigned one. Returns an error when the orchestrator is
// not running, the request is invalid, or the queue is full.
func (o *Orchestrator) Submit(req *OrchestrationRequest) (string, error) {
	if req == nil {
		return "", NewPermanentError("request is nil", nil).WithCode(ErrCodeValidation)
	}
	if err := req.Strategy.Validate(); err != nil {
		return "", NewPermanentError("invalid strategy", err).WithCode(ErrCodeValidation)
	}
	for _, kind := range req.RequiredEngines {
		if err := kind.Validate(); err != nil {
			return "", NewPermanentError("invalid required engine", err).WithCode(ErrCodeValidation)
		}
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return "", NewPermanentError("orchestrator not running", nil).WithCode(ErrCodeNotRunning)
	}
	o.active[req.ID] = req
	o.waiters[req.ID] = make(chan struct{})
	o.mu.Unlock()

	select {
	case o.queue <- req:
	default:
		o.mu.Lock()
		delete(o.active, req.ID)
		delete(o.waiters, req.ID)
		o.mu.Unlock()
		return "", NewDispatchError("orchestration queue full", nil).WithCode(ErrCodeQueueFull)
	}

	o.metrics.SetQueueDepth(len(o.queue))
	o.events.Publish(telemetry.Event{
		Type:      telemetry.EventRequestQueued,
		Source:    "orchestrator",
		RequestID: req.ID,
		Message:   fmt.Sprintf("request queued with strategy %s", req.Strategy),
		Level:     telemetry.EventLevelInfo,
	})
	o.logger.WithRequestID(req.ID).
		WithField("strategy", string(req.Strategy)).
		WithField("engines", len(req.RequiredEngines)).
		Debug("request submitted")
	return req.ID, nil
}

// AwaitResult waits up to timeout for the result of a submitted request.
// Returns nil on timeout or for unknown request IDs; the caller may retry,
// since in-flight work is never cancelled and its result stays cached.
func (o *Orchestrator) AwaitResult(id string, timeout time.Duration) *OrchestrationResult {
	o.mu.RLock()
	if res, ok := o.completed[id]; ok {
		o.mu.RUnlock()
		return res
	}
	waiter, ok := o.waiters[id]
	o.mu.RUnlock()
	if !ok {
		return nil
	}

	select {
	case <-waiter:
		o.mu.RLock()
		res := o.completed[id]
		o.mu.RUnlock()
		return res
	case <-time.After(timeout):
		return nil
	}
}

// Result returns the cached result for a completed request, if present.
func (o *Orchestrator) Result(id string) (*OrchestrationResult, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	res, ok := o.completed[id]
	return res, ok
}

// OrchestratorStatus is a point-in-time snapshot for introspection.
type OrchestratorStatus struct {
	Running           bool `json:"running"`
	QueueDepth        int  `json:"queue_depth"`
	ActiveRequests    int  `json:"active_requests"`
	CompletedRequests int  `json:"completed_requests"`
	RegisteredEngines int  `json:"registered_engines"`
	AvailableEngines  int  `json:"available_engines"`
}

// Status reports the orchestrator's current state.
func (o *Orchestrator) Status() OrchestratorStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return OrchestratorStatus{
		Running:           o.running,
		QueueDepth:        len(o.queue),
		ActiveRequests:    len(o.active),
		CompletedRequests: len(o.completed),
		RegisteredEngines: o.registry.Registered(),
		AvailableEngines:  len(o.registry.Available()),
	}
}

// dispatchLoop pulls one request at a time from the FIFO queue. A slow
// request delays later requests but never blocks Submit.
func (o *Orchestrator) dispatchLoop(ctx context.Context) {
	defer o.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-o.queue:
			result := o.executeRequest(ctx, req)

			o.mu.Lock()
			o.completed[req.ID] = result
			delete(o.active, req.ID)
			waiter := o.waiters[req.ID]
			delete(o.waiters, req.ID)
			o.mu.Unlock()
			if waiter != nil {
				close(waiter)
			}

			o.metrics.SetQueueDepth(len(o.queue))
			if o.recorder != nil {
				if err := o.recorder.RecordRun(ctx, req, result); err != nil {
					o.logger.WithRequestID(req.ID).WithError(err).Warn("failed to archive run")
				}
			}
		}
	}
}

// executeRequest runs one request through its strategy and aggregates the
// per-engine outcomes.
func (o *Orchestrator) executeRequest(ctx context.Context, req *OrchestrationRequest) *OrchestrationResult {
	start := time.Now()

	spanCtx, span := o.tracer.StartRequestSpan(ctx, req.ID, string(req.Strategy))
	defer span.End()

	fn, ok := o.strategies[req.Strategy]
	if !ok {
		fn = o.executeSequential
	}

	outcomes, dispatchErr := fn(spanCtx, req)
	elapsed := time.Since(start)

	if dispatchErr != nil {
		telemetry.RecordError(span, dispatchErr)
		o.logger.WithRequestID(req.ID).WithError(dispatchErr).Error("dispatch failed")
		o.metrics.ObserveOrchestration(string(req.Strategy), string(StatusFailed), elapsed)
		o.events.Publish(telemetry.Event{
			Type:      telemetry.EventRequestFailed,
			Source:    "orchestrator",
			RequestID: req.ID,
			Message:   dispatchErr.Error(),
			Level:     telemetry.EventLevelError,
		})
		return &OrchestrationResult{
			RequestID:     req.ID,
			OverallStatus: StatusFailed,
			EngineResults: outcomes,
			ExecutionTime: elapsed,
			Errors:        []string{dispatchErr.Error()},
			CompletedAt:   time.Now(),
		}
	}

	result := o.aggregate(req, outcomes, elapsed)

	telemetry.RecordSuccess(span)
	o.metrics.ObserveOrchestration(string(req.Strategy), string(result.OverallStatus), elapsed)
	o.events.Publish(telemetry.Event{
		Type:      telemetry.EventRequestCompleted,
		Source:    "orchestrator",
		RequestID: req.ID,
		Message:   fmt.Sprintf("request finished with status %s", result.OverallStatus),
		Level:     telemetry.EventLevelInfo,
	})
	o.logger.WithRequestID(req.ID).
		WithField("status", string(result.OverallStatus)).
		WithField("duration", elapsed.String()).
		Info("request completed")
	return result
}

// aggregate derives the overall status from per-engine outcomes: completed
// when no engine errored, failed when every required engine errored (or
// nothing ran at all), partial_failure for any mix.
func (o *Orchestrator) aggregate(req *OrchestrationRequest, outcomes map[EngineKind]EngineOutcome, elapsed time.Duration) *OrchestrationResult {
	result := &OrchestrationResult{
		RequestID:     req.ID,
		EngineResults: outcomes,
		ExecutionTime: elapsed,
		CompletedAt:   time.Now(),
	}

	failures := 0
	for _, kind := range req.RequiredEngines {
		outcome, ok := outcomes[kind]
		if !ok {
			continue
		}
		if outcome.Failed() {
			failures++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", kind, outcome.Error))
		}
	}

	switch {
	case len(outcomes) == 0 || failures == len(outcomes):
		result.OverallStatus = StatusFailed
		if len(outcomes) == 0 {
			result.Errors = append(result.Errors, "no required engines produced a result")
		}
	case failures > 0:
		result.OverallStatus = StatusPartialFailure
	default:
		result.OverallStatus = StatusCompleted
	}
	return result
}

// invoke calls one engine provider. A provider error is returned inside the
// outcome; a provider panic is recovered and returned as panicErr so the
// caller can classify it as a dispatch-level failure.
func (o *Orchestrator) invoke(ctx context.Context, req *OrchestrationRequest, kind EngineKind, provider Provider) (outcome EngineOutcome, panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr = NewDispatchError("provider panicked", fmt.Errorf("%v", r)).
				WithEngine(kind).WithCode(ErrCodeProviderPanic).WithOperation(req.Operation)
		}
	}()

	callCtx, span := o.tracer.StartEngineSpan(ctx, string(kind), req.Operation)
	defer span.End()

	start := time.Now()
	resp, err := provider.ExecuteRequest(callCtx, Request{
		ID:         fmt.Sprintf("%s_%s", req.ID, kind),
		Operation:  req.Operation,
		Parameters: req.Parameters,
	})
	o.registry.touch(kind)
	o.metrics.ObserveEngineCall(string(kind), err == nil, time.Since(start))

	if err != nil {
		telemetry.RecordError(span, err)
		o.events.Publish(telemetry.Event{
			Type:      telemetry.EventEngineCallFailed,
			Source:    "orchestrator",
			RequestID: req.ID,
			Engine:    string(kind),
			Message:   err.Error(),
			Level:     telemetry.EventLevelWarning,
		})
		return EngineOutcome{Error: err.Error()}, nil
	}
	if resp == nil {
		return EngineOutcome{Error: "no result"}, nil
	}
	telemetry.RecordSuccess(span)
	return EngineOutcome{Payload: resp.Result, Confidence: resp.Confidence}, nil
}

// missingOutcome builds the per-engine error entry for an engine that is
// absent or not active at dispatch time.
func missingOutcome(status EngineStatus, registered bool) EngineOutcome {
	if !registered {
		return EngineOutcome{Error: "engine not registered"}
	}
	return EngineOutcome{Error: fmt.Sprintf("engine not active: %s", status)}
}

// executeSequential invokes required engines one at a time in descending
// registered-priority order. A missing or inactive engine yields an error
// entry for that engine only and dispatch continues with the next.
func (o *Orchestrator) executeSequential(ctx context.Context, req *OrchestrationRequest) (map[EngineKind]EngineOutcome, error) {
	outcomes := make(map[EngineKind]EngineOutcome, len(req.RequiredEngines))

	for _, kind := range o.registry.OrderByPriority(req.RequiredEngines) {
		provider, status, registered := o.registry.provider(kind)
		if !registered || status != EngineStatusActive {
			outcomes[kind] = missingOutcome(status, registered)
			continue
		}
		outcome, panicErr := o.invoke(ctx, req, kind, provider)
		if panicErr != nil {
			return outcomes, panicErr
		}
		outcomes[kind] = outcome
	}
	return outcomes, nil
}

// executeParallel invokes all available required engines concurrently and
// waits for every call to finish or error before returning. A failing call
// produces an error entry for that engine only; a panicking provider fails
// the dispatch.
func (o *Orchestrator) executeParallel(ctx context.Context, req *OrchestrationRequest) (map[EngineKind]EngineOutcome, error) {
	outcomes := make(map[EngineKind]EngineOutcome, len(req.RequiredEngines))

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		dispatchErr error
	)
	for _, kind := range req.RequiredEngines {
		provider, status, registered := o.registry.provider(kind)
		if !registered || status != EngineStatusActive {
			outcomes[kind] = missingOutcome(status, registered)
			continue
		}

		wg.Add(1)
		go func(kind EngineKind, provider Provider) {
			defer wg.Done()
			outcome, panicErr := o.invoke(ctx, req, kind, provider)

			mu.Lock()
			defer mu.Unlock()
			if panicErr != nil {
				if dispatchErr == nil {
					dispatchErr = panicErr
				}
				return
			}
			outcomes[kind] = outcome
		}(kind, provider)
	}
	wg.Wait()

	if dispatchErr != nil {
		return outcomes, dispatchErr
	}
	return outcomes, nil
}

// executeConditional is behaviorally identical to sequential. Condition
// evaluation beyond priority ordering is an extension point; callers must
// not rely on any short-circuiting here.
func (o *Orchestrator) executeConditional(ctx context.Context, req *OrchestrationRequest) (map[EngineKind]EngineOutcome, error) {
	return o.executeSequential(ctx, req)
}

// executePriority uses sequential mechanics; the descending-priority
// ordering is the priority mechanism.
func (o *Orchestrator) executePriority(ctx context.Context, req *OrchestrationRequest) (map[EngineKind]EngineOutcome, error) {
	return o.executeSequential(ctx, req)
}

// executeAdaptive attempts parallel execution first and falls back to
// sequential for the same request when the parallel attempt fails at the
// dispatch level. The fallback is mandatory: a dispatch-level failure is
// only reported after the sequential attempt has also been made.
func (o *Orchestrator) executeAdaptive(ctx context.Context, req *OrchestrationRequest) (map[EngineKind]EngineOutcome, error) {
	outcomes, err := o.executeParallel(ctx, req)
	if err == nil {
		return outcomes, nil
	}

	o.logger.WithRequestID(req.ID).WithError(err).Warn("parallel dispatch failed, falling back to sequential")
	o.metrics.CountAdaptiveFallback()
	return o.executeSequential(ctx, req)
}
