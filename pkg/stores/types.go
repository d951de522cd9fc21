package stores

import (
	"context"
	"time"

	"github.com/syncsphere/supreme/pkg/supreme"
)

// RunRecord is one archived orchestration outcome. The request and result
// payloads are stored as JSON blobs; the promoted columns exist for listing
// and filtering without deserializing.
type RunRecord struct {
	ID              string    `json:"id"` // request ID
	Operation       string    `json:"operation"`
	Strategy        string    `json:"strategy"`
	Status          string    `json:"status"`
	RequiredEngines string    `json:"required_engines"` // JSON array of engine kinds
	Parameters      string    `json:"parameters"`       // JSON blob
	EngineResults   string    `json:"engine_results"`   // JSON blob
	Errors          *string   `json:"errors,omitempty"` // JSON array
	Warnings        *string   `json:"warnings,omitempty"`
	ExecutionTimeMS int64     `json:"execution_time_ms"`
	CompletedAt     time.Time `json:"completed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// DecisionRecord is one archived supreme decision. Payload holds the full
// decision as JSON; the promoted columns cover the common list queries.
type DecisionRecord struct {
	ID         string    `json:"id"`
	Situation  string    `json:"situation"`
	Archetype  string    `json:"archetype"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Payload    string    `json:"payload"` // JSON blob
	DecidedAt  time.Time `json:"decided_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Archive defines the durable coordination archive. It records completed
// orchestration runs and decisions and serves historical queries; the
// in-memory tables inside the coordination core stay authoritative for
// live introspection.
type Archive interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Recording (satisfies supreme.RunRecorder)
	RecordRun(ctx context.Context, req *supreme.OrchestrationRequest, res *supreme.OrchestrationResult) error
	RecordDecision(ctx context.Context, decision *supreme.SupremeDecision) error

	// Run queries
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*RunRecord, error)

	// Decision queries
	GetDecision(ctx context.Context, id string) (*DecisionRecord, error)
	ListDecisions(ctx context.Context, limit, offset int) ([]*DecisionRecord, error)

	// Retention
	PruneRuns(ctx context.Context, before time.Time) (int64, error)
	PruneDecisions(ctx context.Context, before time.Time) (int64, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
