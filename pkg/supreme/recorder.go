package supreme

import "context"

// RunRecorder archives completed coordination outcomes to durable storage.
// The in-memory tables remain the source the introspection endpoints read;
// recording is strictly additive and best-effort, so implementations should
// return errors rather than block the dispatcher.
type RunRecorder interface {
	// RecordRun archives one completed orchestration request and result.
	RecordRun(ctx context.Context, req *OrchestrationRequest, res *OrchestrationResult) error

	// RecordDecision archives one supreme decision.
	RecordDecision(ctx context.Context, decision *SupremeDecision) error
}
