// Package supreme provides the core types and components of the Supreme
// coordination layer: an in-process library that coordinates a set of
// independently pluggable capability providers ("engines") to satisfy a
// single high-level command.
//
// # Overview
//
// The coordination layer is built from four components that data flows
// through in one direction for requests and one direction for decisions:
//
//  1. Registry - holds registered engines, their mailboxes, and the shared
//     blackboard (EngineRegistry)
//  2. Orchestrator - accepts an OrchestrationRequest naming required engines
//     and a strategy, executes it, and aggregates per-engine outcomes
//  3. ControlInterface - translates high-level commands into orchestration
//     requests via fixed command tables and formats the results
//  4. DecisionMaker / Executor - generates and scores decision options
//     against multi-engine evaluations, then carries out the selected
//     option's step plan with partial-failure handling and rollback
//
// # Core Domain Types
//
//   - EngineDescriptor: a registered engine with capabilities and priority
//   - OrchestrationRequest / OrchestrationResult: the unit of work submitted
//     to, and the aggregated outcome returned by, the Orchestrator
//   - Command / CommandResult: the high-level command surface
//   - DecisionContext / DecisionOption / SupremeDecision: decision inputs,
//     candidates, and the selected outcome with its plans
//   - ExecutionState / ExecutionResult: step-plan execution tracking
//
// # Provider Interface
//
// Engines implement capability logic through the Provider interface:
//
//	type Provider interface {
//	    ExecuteRequest(ctx context.Context, req Request) (*Response, error)
//	}
//
// Providers are opaque to the core. The core guarantees coordination,
// aggregation, and decision semantics around provider calls; it makes no
// claim about the correctness of any provider's domain logic.
//
// # Concurrency Model
//
// One dispatcher goroutine per Orchestrator pulls requests from a FIFO
// queue. Within a request the parallel and adaptive strategies fan out to
// concurrent engine calls and fan back in. The registry's mailboxes and
// blackboard are the only state shared across engine calls; blackboard
// writes are last-write-wins with no transactional guarantee.
package supreme
