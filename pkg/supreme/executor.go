package supreme

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syncsphere/supreme/pkg/telemetry"
)

// maxStepFailures is the hard abort cap: an execution never survives a
// third failed step, regardless of its running success rate.
const maxStepFailures = 3

// Final status thresholds on the completed/attempted success rate.
const (
	completedRateThreshold = 0.8
	partialRateThreshold   = 0.5
)

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	// Router maps plan steps to commands. Defaults to KeywordRouter.
	Router StepRouter

	// HistoryLimit bounds the in-memory execution history. Defaults to 100.
	HistoryLimit int

	// Logger is the structured logger. Defaults to a no-op logger.
	Logger *telemetry.Logger

	// Metrics collects execution metrics. Defaults to no-op.
	Metrics *telemetry.Metrics

	// Events publishes execution events. Defaults to no-op.
	Events *telemetry.EventPublisher

	// Tracer creates execution spans. Defaults to no-op.
	Tracer *telemetry.Tracer
}

// Executor walks a decision's execution plan step by step, issuing one
// command per step and applying the continue/abort policy between steps.
type Executor struct {
	control *ControlInterface
	router  StepRouter
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	events  *telemetry.EventPublisher
	tracer  *telemetry.Tracer

	mu           sync.Mutex
	active       map[string]*ExecutionState
	history      []*ExecutionResult
	historyLimit int
}

// NewExecutor creates an executor over the given control interface.
func NewExecutor(control *ControlInterface, opts ExecutorOptions) *Executor {
	if opts.Router == nil {
		opts.Router = KeywordRouter{}
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
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
	return &Executor{
		control:      control,
		router:       opts.Router,
		logger:       opts.Logger.NewComponentLogger("executor"),
		metrics:      opts.Metrics,
		events:       opts.Events,
		tracer:       opts.Tracer,
		active:       make(map[string]*ExecutionState),
		historyLimit: opts.HistoryLimit,
	}
}

// Run executes the decision's execution plan sequentially, one command per
// step. Between steps it applies the continue/abort policy; three failed
// steps always abort. Returns the execution result; a nil decision or
// empty plan is an error.
func (e *Executor) Run(ctx context.Context, decision *SupremeDecision) (*ExecutionResult, error) {
	if decision == nil || len(decision.ExecutionPlan) == 0 {
		return nil, NewPermanentError("decision has no execution plan", nil).WithCode(ErrCodeEmptyPlan)
	}

	executionID := uuid.New().String()
	spanCtx, span := e.tracer.StartExecutionSpan(ctx, executionID, decision.ID)
	defer span.End()

	state := &ExecutionState{
		ID:         executionID,
		DecisionID: decision.ID,
		Status:     ExecutionInProgress,
		TotalSteps: len(decision.ExecutionPlan),
		StartedAt:  time.Now(),
	}
	e.mu.Lock()
	e.active[executionID] = state
	e.mu.Unlock()

	logger := e.logger.WithExecutionID(executionID).WithDecisionID(decision.ID)
	logger.WithField("steps", state.TotalSteps).Info("execution started")
	e.events.Publish(telemetry.Event{
		Type:        telemetry.EventExecutionStarted,
		Source:      "executor",
		ExecutionID: executionID,
		DecisionID:  decision.ID,
		Message:     fmt.Sprintf("executing %d-step plan", state.TotalSteps),
		Level:       telemetry.EventLevelInfo,
	})

	attempted := 0
	for i, step := range decision.ExecutionPlan {
		if err := ctx.Err(); err != nil {
			logger.WithError(err).Warn("execution canceled")
			break
		}

		e.mu.Lock()
		state.CurrentStep = i + 1
		e.mu.Unlock()
		attempted++

		if e.executeStep(spanCtx, executionID, step) {
			e.mu.Lock()
			state.CompletedSteps = append(state.CompletedSteps, step)
			e.mu.Unlock()
			logger.WithField("step", i+1).Debug("step completed")
		} else {
			e.mu.Lock()
			state.FailedSteps = append(state.FailedSteps, step)
			e.mu.Unlock()
			logger.WithField("step", i+1).Warn("step failed")
		}

		if i < len(decision.ExecutionPlan)-1 && !e.shouldContinue(state, decision) {
			logger.WithField("step", i+1).Warn("aborting execution")
			break
		}
	}

	result := e.finish(state, decision, attempted)
	status := string(result.Status)
	e.metrics.ObserveExecution(status, result.ExecutionTime)
	e.events.Publish(telemetry.Event{
		Type:        telemetry.EventExecutionFinished,
		Source:      "executor",
		ExecutionID: executionID,
		DecisionID:  decision.ID,
		Message:     fmt.Sprintf("execution %s: %d/%d steps completed", status, len(result.CompletedSteps), result.TotalSteps),
		Level:       executionEventLevel(result.Status),
	})
	logger.WithField("status", status).
		WithField("success_rate", result.SuccessRate).
		Info("execution finished")

	if result.Status == ExecutionFailed {
		telemetry.RecordError(span, fmt.Errorf("execution failed after %d steps", attempted))
	} else {
		telemetry.RecordSuccess(span)
	}
	return result, nil
}

// executeStep routes one plan step to a command and reports whether it
// succeeded.
func (e *Executor) executeStep(ctx context.Context, executionID, step string) bool {
	cmdType, engine := e.router.Route(step)
	result := e.control.ExecuteCommand(ctx, Command{
		Type:      cmdType,
		Operation: "execute_plan_step",
		Parameters: map[string]any{
			"step":          step,
			"execution_id":  executionID,
			"target_engine": string(engine),
		},
	})
	return result.Status.Succeeded()
}

// shouldContinue decides whether execution proceeds past a step. The hard
// failure cap is checked first and cannot be overridden by a good running
// rate or high decision confidence.
func (e *Executor) shouldContinue(state *ExecutionState, decision *SupremeDecision) bool {
	e.mu.Lock()
	completed := len(state.CompletedSteps)
	failed := len(state.FailedSteps)
	e.mu.Unlock()

	if failed >= maxStepFailures {
		return false
	}

	attempted := completed + failed
	if attempted > 0 && float64(completed)/float64(attempted) >= 0.5 {
		return true
	}
	if decision.Confidence > 0.8 {
		return true
	}
	if decision.Selected.RiskLevel > 0.7 && failed > 0 {
		return false
	}
	return true
}

// finish derives the final result from the execution state and retires the
// execution into history.
func (e *Executor) finish(state *ExecutionState, decision *SupremeDecision, attempted int) *ExecutionResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	completed := len(state.CompletedSteps)
	rate := 0.0
	if attempted > 0 {
		rate = float64(completed) / float64(attempted)
	}

	status := ExecutionFailed
	switch {
	case rate >= completedRateThreshold:
		status = ExecutionCompleted
	case rate >= partialRateThreshold:
		status = ExecutionPartialSuccess
	}
	state.Status = status

	now := time.Now()
	result := &ExecutionResult{
		ExecutionID:    state.ID,
		DecisionID:     decision.ID,
		Status:         status,
		ExecutionTime:  now.Sub(state.StartedAt),
		CompletedSteps: append([]string(nil), state.CompletedSteps...),
		FailedSteps:    append([]string(nil), state.FailedSteps...),
		SuccessRate:    rate,
		TotalSteps:     state.TotalSteps,
		AttemptedSteps: attempted,
		StartedAt:      state.StartedAt,
		EndedAt:        now,
	}

	delete(e.active, state.ID)
	e.history = append(e.history, result)
	if len(e.history) > e.historyLimit {
		e.history = e.history[len(e.history)-e.historyLimit:]
	}
	return result
}

// ExecutionStatus returns a copy of the live state for an in-progress
// execution.
func (e *Executor) ExecutionStatus(executionID string) (ExecutionState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.active[executionID]
	if !ok {
		return ExecutionState{}, false
	}
	out := *state
	out.CompletedSteps = append([]string(nil), state.CompletedSteps...)
	out.FailedSteps = append([]string(nil), state.FailedSteps...)
	return out, true
}

// ExecutionHistory returns up to limit of the most recent execution
// results, oldest first.
func (e *Executor) ExecutionHistory(limit int) []*ExecutionResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := e.history
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]*ExecutionResult(nil), history...)
}

func executionEventLevel(status ExecutionStatus) string {
	switch status {
	case ExecutionCompleted:
		return telemetry.EventLevelInfo
	case ExecutionPartialSuccess:
		return telemetry.EventLevelWarning
	default:
		return telemetry.EventLevelError
	}
}
