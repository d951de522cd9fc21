package supreme

import (
	"context"
	"testing"
)

func newTestExecutor(t *testing.T, providers map[EngineKind]Provider, opts ExecutorOptions) *Executor {
	t.Helper()
	return NewExecutor(newTestControl(t, providers), opts)
}

func planDecision(confidence, riskLevel float64, plan ...string) *SupremeDecision {
	return &SupremeDecision{
		ID:            "dec-test",
		Selected:      DecisionOption{ID: "balanced", Archetype: "balanced", RiskLevel: riskLevel},
		Confidence:    confidence,
		ExecutionPlan: plan,
	}
}

func TestRunRejectsEmptyPlan(t *testing.T) {
	e := newTestExecutor(t, nil, ExecutorOptions{})

	if _, err := e.Run(context.Background(), nil); !IsPermanent(err) {
		t.Errorf("nil decision: err = %v, want permanent", err)
	}
	if _, err := e.Run(context.Background(), planDecision(0.9, 0.4)); !IsPermanent(err) {
		t.Errorf("empty plan: err = %v, want permanent", err)
	}
}

func TestRunCompleted(t *testing.T) {
	e := newTestExecutor(t, map[EngineKind]Provider{
		EngineAnalytics: &stubProvider{payload: map[string]any{"score": 0.9}},
		EngineReasoning: &stubProvider{},
	}, ExecutorOptions{})

	// Every step routes to the analyze pipeline, which is fully registered.
	decision := planDecision(0.9, 0.4,
		"analyze current load",
		"assess failure modes",
		"evaluate mitigation options",
	)
	result, err := e.Run(context.Background(), decision)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != ExecutionCompleted {
		t.Errorf("status = %s, want %s", result.Status, ExecutionCompleted)
	}
	if result.SuccessRate != 1 {
		t.Errorf("success rate = %v, want 1", result.SuccessRate)
	}
	if result.AttemptedSteps != 3 || result.TotalSteps != 3 {
		t.Errorf("attempted/total = %d/%d, want 3/3", result.AttemptedSteps, result.TotalSteps)
	}
	if len(result.CompletedSteps) != 3 || len(result.FailedSteps) != 0 {
		t.Errorf("completed/failed = %d/%d, want 3/0", len(result.CompletedSteps), len(result.FailedSteps))
	}
	if result.DecisionID != decision.ID {
		t.Errorf("decision ID = %s, want %s", result.DecisionID, decision.ID)
	}
}

func TestRunAbortsAfterThreeFailures(t *testing.T) {
	// No engines are registered, so every step fails. High decision
	// confidence keeps execution going, but the failure cap is checked
	// first and aborts after the third failed step.
	e := newTestExecutor(t, nil, ExecutorOptions{})

	decision := planDecision(0.95, 0.4,
		"deploy service a",
		"deploy service b",
		"deploy service c",
		"deploy service d",
		"deploy service e",
		"deploy service f",
	)
	result, err := e.Run(context.Background(), decision)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != ExecutionFailed {
		t.Errorf("status = %s, want %s", result.Status, ExecutionFailed)
	}
	if result.AttemptedSteps != 3 {
		t.Errorf("attempted = %d, want abort after 3", result.AttemptedSteps)
	}
	if len(result.FailedSteps) != 3 {
		t.Errorf("failed steps = %d, want 3", len(result.FailedSteps))
	}
	if result.SuccessRate != 0 {
		t.Errorf("success rate = %v, want 0", result.SuccessRate)
	}
}

func TestRunPartialSuccess(t *testing.T) {
	// Analyze steps succeed, the deploy step has no engines behind it.
	e := newTestExecutor(t, map[EngineKind]Provider{
		EngineAnalytics: &stubProvider{},
		EngineReasoning: &stubProvider{},
	}, ExecutorOptions{})

	decision := planDecision(0.6, 0.4,
		"analyze baseline metrics",
		"assess capacity",
		"deploy the new configuration",
		"evaluate outcome",
	)
	result, err := e.Run(context.Background(), decision)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != ExecutionPartialSuccess {
		t.Errorf("status = %s, want %s", result.Status, ExecutionPartialSuccess)
	}
	if result.SuccessRate != 0.75 {
		t.Errorf("success rate = %v, want 0.75", result.SuccessRate)
	}
	if result.AttemptedSteps != 4 {
		t.Errorf("attempted = %d, want 4", result.AttemptedSteps)
	}
	if len(result.FailedSteps) != 1 || result.FailedSteps[0] != "deploy the new configuration" {
		t.Errorf("failed steps = %v, want the deploy step", result.FailedSteps)
	}
}

func TestRunHighRiskAbortsOnFirstFailure(t *testing.T) {
	// A high-risk option with low confidence aborts as soon as a step
	// fails and the running rate is below half.
	e := newTestExecutor(t, nil, ExecutorOptions{})

	decision := planDecision(0.5, 0.8,
		"deploy risky change",
		"deploy second change",
		"deploy third change",
	)
	result, err := e.Run(context.Background(), decision)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.AttemptedSteps != 1 {
		t.Errorf("attempted = %d, want abort after the first failure", result.AttemptedSteps)
	}
	if result.Status != ExecutionFailed {
		t.Errorf("status = %s, want %s", result.Status, ExecutionFailed)
	}
}

func TestRunConfidenceOverridesRiskAbort(t *testing.T) {
	// High decision confidence keeps a high-risk execution going after an
	// early failure. Only the hard failure cap stops it.
	e := newTestExecutor(t, nil, ExecutorOptions{})

	decision := planDecision(0.9, 0.8,
		"deploy first change",
		"deploy second change",
		"deploy third change",
	)
	result, err := e.Run(context.Background(), decision)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.AttemptedSteps != 3 {
		t.Errorf("attempted = %d, want all 3 despite risk 0.8", result.AttemptedSteps)
	}
	if result.Status != ExecutionFailed {
		t.Errorf("status = %s, want %s", result.Status, ExecutionFailed)
	}
}

func TestRunCanceledContext(t *testing.T) {
	e := newTestExecutor(t, nil, ExecutorOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.Run(ctx, planDecision(0.9, 0.4, "analyze nothing"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.AttemptedSteps != 0 {
		t.Errorf("attempted = %d, want 0 after cancellation", result.AttemptedSteps)
	}
	if result.Status != ExecutionFailed {
		t.Errorf("status = %s, want %s", result.Status, ExecutionFailed)
	}
}

func TestExecutionHistory(t *testing.T) {
	e := newTestExecutor(t, map[EngineKind]Provider{
		EngineAnalytics: &stubProvider{},
		EngineReasoning: &stubProvider{},
	}, ExecutorOptions{})
	ctx := context.Background()

	first, _ := e.Run(ctx, planDecision(0.9, 0.4, "analyze a"))
	second, _ := e.Run(ctx, planDecision(0.9, 0.4, "analyze b"))

	history := e.ExecutionHistory(0)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ExecutionID != first.ExecutionID || history[1].ExecutionID != second.ExecutionID {
		t.Error("history not in oldest-first order")
	}

	limited := e.ExecutionHistory(1)
	if len(limited) != 1 || limited[0].ExecutionID != second.ExecutionID {
		t.Error("limited history should keep the most recent execution")
	}
}

func TestExecutionStatusUnknown(t *testing.T) {
	e := newTestExecutor(t, nil, ExecutorOptions{})

	if _, ok := e.ExecutionStatus("no-such-execution"); ok {
		t.Error("expected unknown execution to report not found")
	}
}

func TestRunRetiresActiveState(t *testing.T) {
	e := newTestExecutor(t, map[EngineKind]Provider{
		EngineAnalytics: &stubProvider{},
		EngineReasoning: &stubProvider{},
	}, ExecutorOptions{})

	result, err := e.Run(context.Background(), planDecision(0.9, 0.4, "analyze once"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := e.ExecutionStatus(result.ExecutionID); ok {
		t.Error("finished execution still reported as active")
	}
}

func TestRunRoutesStepsThroughRouter(t *testing.T) {
	security := &stubProvider{payload: map[string]any{"security_score": 0.9}}
	systemControl := &stubProvider{}
	e := newTestExecutor(t, map[EngineKind]Provider{
		EngineSecurity:      security,
		EngineSystemControl: systemControl,
	}, ExecutorOptions{})

	result, err := e.Run(context.Background(), planDecision(0.9, 0.4, "encrypt customer exports"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Status != ExecutionCompleted {
		t.Errorf("status = %s, want %s", result.Status, ExecutionCompleted)
	}

	call, ok := security.lastCall()
	if !ok {
		t.Fatal("security provider was not called")
	}
	if call.Operation != "execute_plan_step" {
		t.Errorf("operation = %q, want execute_plan_step", call.Operation)
	}
	if call.Parameters["step"] != "encrypt customer exports" {
		t.Errorf("parameters = %v, want the step text", call.Parameters)
	}
	if call.Parameters["target_engine"] != string(EngineSecurity) {
		t.Errorf("target engine = %v, want security", call.Parameters["target_engine"])
	}
}
