package supreme

import (
	"time"
)

// OrchestrationRequest is the unit of work submitted to the Orchestrator.
// Requests are immutable once created and consumed once by the dispatcher.
type OrchestrationRequest struct {
	// ID is the unique identifier for this request.
	ID string `json:"id"`

	// Operation is the free-text operation name passed to each engine.
	Operation string `json:"operation"`

	// Parameters are the operation parameters passed to each engine.
	Parameters map[string]any `json:"parameters,omitempty"`

	// RequiredEngines is the set of engine kinds this request fans out to.
	RequiredEngines []EngineKind `json:"required_engines"`

	// Strategy is the fan-out policy for this request.
	Strategy Strategy `json:"strategy"`

	// Priority is the request priority. Informational; the queue is FIFO.
	Priority int `json:"priority"`

	// Timeout bounds the caller's wait, not the dispatch itself.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Dependencies lists request IDs this request logically follows.
	Dependencies []string `json:"dependencies,omitempty"`

	// CreatedAt is when the request was created.
	CreatedAt time.Time `json:"created_at"`
}

// EngineOutcome is one engine's slot in an orchestration result: either a
// result payload or an error string, never both.
type EngineOutcome struct {
	// Payload is the engine's raw result.
	Payload map[string]any `json:"payload,omitempty"`

	// Confidence is the engine's self-reported confidence, if any.
	Confidence float64 `json:"confidence,omitempty"`

	// Error is the engine-call error, when the call failed or the engine
	// was missing or inactive at dispatch time.
	Error string `json:"error,omitempty"`
}

// Failed returns true if this outcome carries an error.
func (o EngineOutcome) Failed() bool {
	return o.Error != ""
}

// OrchestrationResult is the aggregated outcome of an orchestration request.
// It is created once by the dispatcher and never mutated after being placed
// in the completed-results table.
type OrchestrationResult struct {
	// RequestID identifies the owning request.
	RequestID string `json:"request_id"`

	// OverallStatus is completed, partial_failure, or failed.
	OverallStatus OrchestrationStatus `json:"overall_status"`

	// EngineResults maps engine kind to that engine's outcome. Its key set
	// is always a subset of the owning request's RequiredEngines.
	EngineResults map[EngineKind]EngineOutcome `json:"engine_results"`

	// ExecutionTime is the total dispatch duration.
	ExecutionTime time.Duration `json:"execution_time"`

	// Errors lists per-engine and dispatch-level error strings.
	Errors []string `json:"errors,omitempty"`

	// Warnings lists non-fatal dispatch warnings.
	Warnings []string `json:"warnings,omitempty"`

	// CompletedAt is when aggregation finished.
	CompletedAt time.Time `json:"completed_at"`
}

// CommandType identifies a high-level command. The set is closed and every
// member has a fixed required-engine list and default strategy.
type CommandType string

const (
	CommandAnalyze     CommandType = "analyze"
	CommandExecute     CommandType = "execute"
	CommandOptimize    CommandType = "optimize"
	CommandLearn       CommandType = "learn"
	CommandPredict     CommandType = "predict"
	CommandSecure      CommandType = "secure"
	CommandScale       CommandType = "scale"
	CommandCommunicate CommandType = "communicate"
	CommandIntegrate   CommandType = "integrate"
	CommandMonitor     CommandType = "monitor"
)

// Validate checks if the command type is part of the closed set.
func (t CommandType) Validate() error {
	switch t {
	case CommandAnalyze, CommandExecute, CommandOptimize, CommandLearn,
		CommandPredict, CommandSecure, CommandScale, CommandCommunicate,
		CommandIntegrate, CommandMonitor:
		return nil
	default:
		return NewPermanentError("invalid command type", nil).
			WithCode(ErrCodeValidation).WithOperation(string(t))
	}
}

// ResponseFormat selects how a command result is presented.
type ResponseFormat string

const (
	// FormatRaw returns the full orchestration result.
	FormatRaw ResponseFormat = "raw"

	// FormatText returns a human-readable text block.
	FormatText ResponseFormat = "text"

	// FormatSummary returns success rate, primary result, and timing.
	FormatSummary ResponseFormat = "summary"
)

// Command is the unit of the high-level command surface exposed by the
// ControlInterface.
type Command struct {
	// ID is the unique identifier for this command.
	ID string `json:"id"`

	// Type selects the required engines and strategy via fixed tables.
	Type CommandType `json:"type"`

	// Operation is the free-text operation name.
	Operation string `json:"operation"`

	// Parameters are string-keyed operation parameters.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Format selects the result presentation. Defaults to raw.
	Format ResponseFormat `json:"format,omitempty"`

	// Priority is carried onto the orchestration request.
	Priority int `json:"priority"`

	// Timeout bounds the wait for the result. Defaults to 5 minutes.
	Timeout time.Duration `json:"timeout,omitempty"`

	// CreatedAt is when the command was built.
	CreatedAt time.Time `json:"created_at"`
}

// CommandResult is the caller-visible outcome of a command. The
// ControlInterface always returns one, even on total failure; there is no
// silent failure path.
type CommandResult struct {
	// CommandID identifies the owning command.
	CommandID string `json:"command_id"`

	// Status is the explicit result status. Failed and timeout results
	// always carry a non-empty Errors list.
	Status CommandStatus `json:"status"`

	// Result is the formatted result per the command's ResponseFormat.
	Result any `json:"result,omitempty"`

	// ExecutionTime is the orchestration's dispatch duration, or the
	// elapsed wait for timeouts.
	ExecutionTime time.Duration `json:"execution_time"`

	// EnginesUsed lists the engines that contributed an outcome.
	EnginesUsed []EngineKind `json:"engines_used,omitempty"`

	// Errors lists error strings accumulated during orchestration.
	Errors []string `json:"errors,omitempty"`

	// Warnings lists non-fatal warnings.
	Warnings []string `json:"warnings,omitempty"`

	// Metadata carries the strategy and required engines for introspection.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ResultSummary is the payload produced by FormatSummary.
type ResultSummary struct {
	// Status is the aggregate orchestration status.
	Status OrchestrationStatus `json:"status"`

	// EnginesExecuted is the number of engines that produced an outcome.
	EnginesExecuted int `json:"engines_executed"`

	// SuccessRate is the fraction of engines that succeeded, in [0,100].
	SuccessRate float64 `json:"success_rate"`

	// PrimaryResult is the first non-error engine payload, if any.
	PrimaryResult map[string]any `json:"primary_result,omitempty"`

	// ExecutionTime is the dispatch duration.
	ExecutionTime time.Duration `json:"execution_time"`
}

// DecisionContext is the caller-supplied, read-only input to a decision.
type DecisionContext struct {
	// ID identifies the context.
	ID string `json:"id"`

	// Situation describes the situation requiring a decision.
	Situation string `json:"situation"`

	// Objectives are the goals the decision should achieve.
	Objectives []string `json:"objectives,omitempty"`

	// Constraints restrict the acceptable courses of action.
	Constraints []string `json:"constraints,omitempty"`

	// Resources describes the resources available for execution.
	Resources map[string]any `json:"resources,omitempty"`

	// TimeBudget bounds the acceptable execution duration. Zero means no
	// time constraint.
	TimeBudget time.Duration `json:"time_budget,omitempty"`

	// Stakeholders lists the parties affected by the decision.
	Stakeholders []string `json:"stakeholders,omitempty"`

	// RiskTolerance is the acceptable risk level in [0,1].
	RiskTolerance float64 `json:"risk_tolerance"`

	// SuccessCriteria are the caller's explicit success conditions.
	SuccessCriteria []string `json:"success_criteria,omitempty"`
}

// DecisionOption is a candidate course of action. Options are ephemeral:
// generated per decision request and never persisted beyond the decision's
// lifetime.
type DecisionOption struct {
	// ID identifies the option within one decision.
	ID string `json:"id"`

	// Archetype names the generation template (conservative, aggressive,
	// balanced).
	Archetype string `json:"archetype"`

	// Description is a human-readable summary.
	Description string `json:"description"`

	// RequiredActions is the ordered free-text action list.
	RequiredActions []string `json:"required_actions"`

	// RequiredEngines lists the engine kinds this option depends on.
	RequiredEngines []EngineKind `json:"required_engines"`

	// EstimatedCost is the projected cost of the option.
	EstimatedCost float64 `json:"estimated_cost"`

	// EstimatedDuration is the projected execution time.
	EstimatedDuration time.Duration `json:"estimated_duration"`

	// SuccessProbability is the projected success probability in [0,1].
	SuccessProbability float64 `json:"success_probability"`

	// RiskLevel is the projected risk in [0,1].
	RiskLevel float64 `json:"risk_level"`

	// ExpectedBenefits maps benefit name to projected magnitude.
	ExpectedBenefits map[string]float64 `json:"expected_benefits,omitempty"`

	// SideEffects lists known side effects.
	SideEffects []string `json:"side_effects,omitempty"`
}

// SupremeDecision aggregates one selected option plus the reasoning and
// plans. Decisions are appended to an in-memory history and are otherwise
// immutable.
type SupremeDecision struct {
	// ID identifies the decision.
	ID string `json:"id"`

	// Context is the input context the decision was made against.
	Context DecisionContext `json:"context"`

	// Selected is the chosen option.
	Selected DecisionOption `json:"selected"`

	// Score is the selected option's final score in [0,1].
	Score float64 `json:"score"`

	// Reasoning is the literal list of contributing factors used in
	// scoring, not generated prose.
	Reasoning []string `json:"reasoning"`

	// Confidence is the mean of the option's success probability, inverse
	// risk, and engine-reported confidences.
	Confidence float64 `json:"confidence"`

	// RiskAssessment maps risk dimension to level.
	RiskAssessment map[string]float64 `json:"risk_assessment"`

	// ExecutionPlan is the numbered step plan derived from the option's
	// required actions.
	ExecutionPlan []string `json:"execution_plan"`

	// MonitoringPlan is the monitoring checklist for execution.
	MonitoringPlan []string `json:"monitoring_plan"`

	// RollbackPlan reverses the required actions and resets engine state.
	RollbackPlan []string `json:"rollback_plan"`

	// SuccessMetrics are the measurable completion criteria.
	SuccessMetrics []string `json:"success_metrics"`

	// DecidedAt is when the decision was made.
	DecidedAt time.Time `json:"decided_at"`
}

// ExecutionState is the per-execution mutable record owned exclusively by
// the Executor for the duration of one decision's execution.
type ExecutionState struct {
	// ID identifies the execution.
	ID string `json:"id"`

	// DecisionID identifies the decision being executed.
	DecisionID string `json:"decision_id"`

	// Status is in_progress until the final step or an abort.
	Status ExecutionStatus `json:"status"`

	// CurrentStep is the 1-based index of the step being executed.
	CurrentStep int `json:"current_step"`

	// TotalSteps is the execution plan length.
	TotalSteps int `json:"total_steps"`

	// CompletedSteps lists steps that completed.
	CompletedSteps []string `json:"completed_steps,omitempty"`

	// FailedSteps lists steps that failed.
	FailedSteps []string `json:"failed_steps,omitempty"`

	// StartedAt is when execution began.
	StartedAt time.Time `json:"started_at"`
}

// ExecutionResult is the outcome of running a decision's execution plan.
type ExecutionResult struct {
	// ExecutionID identifies the execution.
	ExecutionID string `json:"execution_id"`

	// DecisionID identifies the executed decision.
	DecisionID string `json:"decision_id"`

	// Status is completed, partial_success, or failed.
	Status ExecutionStatus `json:"status"`

	// ExecutionTime is the total wall-clock duration.
	ExecutionTime time.Duration `json:"execution_time"`

	// CompletedSteps lists steps that completed.
	CompletedSteps []string `json:"completed_steps,omitempty"`

	// FailedSteps lists steps that failed.
	FailedSteps []string `json:"failed_steps,omitempty"`

	// SuccessRate is completed / attempted.
	SuccessRate float64 `json:"success_rate"`

	// TotalSteps is the plan length; AttemptedSteps is how far the
	// execution got before finishing or aborting.
	TotalSteps     int `json:"total_steps"`
	AttemptedSteps int `json:"attempted_steps"`

	// StartedAt and EndedAt bound the execution.
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}
