package supreme

import "fmt"

// EngineKind identifies a capability engine. The set is closed: the
// coordination layer only routes to these ten kinds.
type EngineKind string

const (
	// EngineReasoning provides planning and strategic reasoning.
	EngineReasoning EngineKind = "reasoning"

	// EngineSystemControl executes and deploys changes.
	EngineSystemControl EngineKind = "system_control"

	// EngineLearning adapts from historical patterns.
	EngineLearning EngineKind = "learning"

	// EngineIntegration connects and synchronizes external systems.
	EngineIntegration EngineKind = "integration"

	// EngineAnalytics measures and evaluates data.
	EngineAnalytics EngineKind = "analytics"

	// EngineCommunication notifies and reports to stakeholders.
	EngineCommunication EngineKind = "communication"

	// EngineKnowledge researches and verifies information.
	EngineKnowledge EngineKind = "knowledge"

	// EngineProactive predicts and anticipates future conditions.
	EngineProactive EngineKind = "proactive"

	// EngineSecurity protects and assesses risk.
	EngineSecurity EngineKind = "security"

	// EngineScalability optimizes and balances resources.
	EngineScalability EngineKind = "scalability"
)

// AllEngineKinds lists every engine kind in the closed set.
func AllEngineKinds() []EngineKind {
	return []EngineKind{
		EngineReasoning, EngineSystemControl, EngineLearning,
		EngineIntegration, EngineAnalytics, EngineCommunication,
		EngineKnowledge, EngineProactive, EngineSecurity, EngineScalability,
	}
}

// Validate checks if the engine kind is part of the closed set.
func (k EngineKind) Validate() error {
	switch k {
	case EngineReasoning, EngineSystemControl, EngineLearning,
		EngineIntegration, EngineAnalytics, EngineCommunication,
		EngineKnowledge, EngineProactive, EngineSecurity, EngineScalability:
		return nil
	default:
		return fmt.Errorf("invalid engine kind: %s", k)
	}
}

// EngineStatus represents the liveness status of a registered engine.
type EngineStatus string

const (
	// EngineStatusActive indicates the engine accepts requests.
	EngineStatusActive EngineStatus = "active"

	// EngineStatusInactive indicates the engine is registered but disabled.
	EngineStatusInactive EngineStatus = "inactive"

	// EngineStatusBusy indicates the engine is saturated with work.
	EngineStatusBusy EngineStatus = "busy"

	// EngineStatusError indicates the engine failed its last health check.
	EngineStatusError EngineStatus = "error"

	// EngineStatusMaintenance indicates the engine is deliberately offline.
	EngineStatusMaintenance EngineStatus = "maintenance"
)

// Validate checks if the engine status is valid.
func (s EngineStatus) Validate() error {
	switch s {
	case EngineStatusActive, EngineStatusInactive, EngineStatusBusy,
		EngineStatusError, EngineStatusMaintenance:
		return nil
	default:
		return fmt.Errorf("invalid engine status: %s", s)
	}
}

// Strategy is the fan-out policy governing how an orchestration request is
// split across its required engines.
type Strategy string

const (
	// StrategySequential invokes required engines one at a time in
	// descending registered-priority order.
	StrategySequential Strategy = "sequential"

	// StrategyParallel invokes all available required engines concurrently
	// and waits for every call to finish or error before aggregating.
	StrategyParallel Strategy = "parallel"

	// StrategyConditional is behaviorally identical to sequential. Condition
	// evaluation is a documented extension point, not a guaranteed behavior.
	StrategyConditional Strategy = "conditional"

	// StrategyPriority uses sequential mechanics; the priority ordering is
	// the priority mechanism.
	StrategyPriority Strategy = "priority_based"

	// StrategyAdaptive attempts parallel execution and falls back to
	// sequential when the parallel attempt fails at the dispatch level.
	StrategyAdaptive Strategy = "adaptive"
)

// Validate checks if the strategy is valid.
func (s Strategy) Validate() error {
	switch s {
	case StrategySequential, StrategyParallel, StrategyConditional,
		StrategyPriority, StrategyAdaptive:
		return nil
	default:
		return fmt.Errorf("invalid strategy: %s", s)
	}
}

// OrchestrationStatus is the aggregate status of an orchestration request.
type OrchestrationStatus string

const (
	// StatusCompleted indicates no required engine produced an error.
	StatusCompleted OrchestrationStatus = "completed"

	// StatusPartialFailure indicates some, but not all, required engines
	// produced errors.
	StatusPartialFailure OrchestrationStatus = "partial_failure"

	// StatusFailed indicates every required engine produced an error, or
	// the dispatch itself failed.
	StatusFailed OrchestrationStatus = "failed"
)

// IsTerminal returns true for all orchestration statuses; they are only
// assigned once, during aggregation.
func (s OrchestrationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusPartialFailure || s == StatusFailed
}

// CommandStatus is the caller-visible status of a command result.
type CommandStatus string

const (
	// CommandStatusCompleted mirrors an orchestration that fully succeeded.
	CommandStatusCompleted CommandStatus = "completed"

	// CommandStatusPartialFailure mirrors a partially failed orchestration.
	CommandStatusPartialFailure CommandStatus = "partial_failure"

	// CommandStatusFailed indicates a fully failed orchestration or a
	// command that could not be submitted.
	CommandStatusFailed CommandStatus = "failed"

	// CommandStatusTimeout indicates the caller's wait elapsed. The
	// underlying request may still complete and be cached.
	CommandStatusTimeout CommandStatus = "timeout"
)

// Succeeded returns true if the command produced at least partial results.
func (s CommandStatus) Succeeded() bool {
	return s == CommandStatusCompleted || s == CommandStatusPartialFailure
}

// ExecutionStatus tracks a decision execution.
type ExecutionStatus string

const (
	// ExecutionInProgress indicates steps are still being executed.
	ExecutionInProgress ExecutionStatus = "in_progress"

	// ExecutionCompleted indicates a step success rate of at least 0.8.
	ExecutionCompleted ExecutionStatus = "completed"

	// ExecutionPartialSuccess indicates a step success rate of at least 0.5.
	ExecutionPartialSuccess ExecutionStatus = "partial_success"

	// ExecutionFailed indicates a step success rate below 0.5.
	ExecutionFailed ExecutionStatus = "failed"
)

// IsTerminal returns true if the execution has finished.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionCompleted || s == ExecutionPartialSuccess || s == ExecutionFailed
}
