package supreme

import (
	"context"
	"time"
)

// Provider is the interface that all capability engines must implement.
// Providers are external collaborators: the coordination layer treats them
// as opaque and only guarantees the semantics around their calls.
type Provider interface {
	// ExecuteRequest performs a single operation and returns a per-call
	// response. Implementations must not block indefinitely (the core
	// assumes but does not enforce a bounded runtime) and should return an
	// error rather than panic; a panic that crosses the boundary is treated
	// as a dispatch-level failure by the orchestrator.
	ExecuteRequest(ctx context.Context, req Request) (*Response, error)
}

// Request is the per-call request passed to a provider.
type Request struct {
	// ID is the unique identifier for this provider call. The orchestrator
	// derives it from the owning orchestration request ID and engine kind.
	ID string `json:"id"`

	// Operation is the free-text operation name.
	Operation string `json:"operation"`

	// Parameters are the operation parameters.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Response is the per-call result returned by a provider.
type Response struct {
	// Result is the provider's result payload.
	Result map[string]any `json:"result,omitempty"`

	// Confidence is the provider's self-reported confidence in the result,
	// in [0,1]. Zero means the provider did not report one.
	Confidence float64 `json:"confidence,omitempty"`

	// Metadata contains additional response metadata.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// EngineDescriptor describes a registered engine. Descriptors are owned
// exclusively by the Registry and mutated only through explicit
// status-update calls.
type EngineDescriptor struct {
	// Kind identifies the engine within the closed kind set.
	Kind EngineKind `json:"kind"`

	// Provider is the capability implementation behind this descriptor.
	Provider Provider `json:"-"`

	// Status is the engine's liveness status.
	Status EngineStatus `json:"status"`

	// Capabilities are the engine's declared capability tags.
	Capabilities []string `json:"capabilities,omitempty"`

	// Priority orders engines for sequential and priority-based dispatch.
	// Higher runs first.
	Priority int `json:"priority"`

	// LastActivity is when the descriptor was last registered or its status
	// last updated.
	LastActivity time.Time `json:"last_activity"`
}
