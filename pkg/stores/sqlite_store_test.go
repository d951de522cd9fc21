package stores

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/syncsphere/supreme/pkg/supreme"
)

// setupTestStore creates an in-memory SQLite archive for testing
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(Config{
		Path: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}

	return store
}

func testRun(id string) (*supreme.OrchestrationRequest, *supreme.OrchestrationResult) {
	req := &supreme.OrchestrationRequest{
		ID:              id,
		Operation:       "assess_threats",
		Parameters:      map[string]any{"scope": "network"},
		RequiredEngines: []supreme.EngineKind{supreme.EngineSecurity, supreme.EngineAnalytics},
		Strategy:        supreme.StrategyParallel,
		CreatedAt:       time.Now().UTC(),
	}

	res := &supreme.OrchestrationResult{
		RequestID:     id,
		OverallStatus: supreme.StatusCompleted,
		EngineResults: map[supreme.EngineKind]supreme.EngineOutcome{
			supreme.EngineSecurity:  {Payload: map[string]any{"security_score": 0.9}, Confidence: 0.85},
			supreme.EngineAnalytics: {Payload: map[string]any{"score": 0.8}, Confidence: 0.8},
		},
		ExecutionTime: 120 * time.Millisecond,
		CompletedAt:   time.Now().UTC(),
	}

	return req, res
}

// TestStoreLifecycle tests database initialization and closure
func TestStoreLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(Config{
		Path: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	if err := store.HealthCheck(ctx); err != nil {
		t.Fatalf("health check failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

// TestStoreMigrations tests database migrations
func TestStoreMigrations(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Check that tables exist by querying them
	tables := []string{"runs", "decisions"}
	for _, table := range tables {
		query := "SELECT COUNT(*) FROM " + table
		var count int
		err := store.db.QueryRowContext(ctx, query).Scan(&count)
		if err != nil {
			t.Errorf("table %s does not exist or is not accessible: %v", table, err)
		}
	}
}

// TestRecordRun tests archiving and retrieving orchestration runs
func TestRecordRun(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	req, res := testRun("req-001")

	if err := store.RecordRun(ctx, req, res); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	rec, err := store.GetRun(ctx, "req-001")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if rec.ID != req.ID {
		t.Errorf("expected ID %s, got %s", req.ID, rec.ID)
	}
	if rec.Operation != "assess_threats" {
		t.Errorf("expected Operation assess_threats, got %s", rec.Operation)
	}
	if rec.Strategy != string(supreme.StrategyParallel) {
		t.Errorf("expected Strategy %s, got %s", supreme.StrategyParallel, rec.Strategy)
	}
	if rec.Status != string(supreme.StatusCompleted) {
		t.Errorf("expected Status %s, got %s", supreme.StatusCompleted, rec.Status)
	}
	if rec.ExecutionTimeMS != 120 {
		t.Errorf("expected ExecutionTimeMS 120, got %d", rec.ExecutionTimeMS)
	}
	if rec.Errors != nil {
		t.Errorf("expected no errors, got %v", *rec.Errors)
	}

	outcomes, err := DecodeEngineResults(rec)
	if err != nil {
		t.Fatalf("failed to decode engine results: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 engine outcomes, got %d", len(outcomes))
	}
	if outcomes[supreme.EngineSecurity].Confidence != 0.85 {
		t.Errorf("expected security confidence 0.85, got %f", outcomes[supreme.EngineSecurity].Confidence)
	}
}

// TestRecordRunWithErrors tests archiving a failed run
func TestRecordRunWithErrors(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	req, res := testRun("req-002")
	res.OverallStatus = supreme.StatusPartialFailure
	res.Errors = []string{"analytics: deadline exceeded"}
	res.EngineResults[supreme.EngineAnalytics] = supreme.EngineOutcome{Error: "deadline exceeded"}

	if err := store.RecordRun(ctx, req, res); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	rec, err := store.GetRun(ctx, "req-002")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if rec.Status != string(supreme.StatusPartialFailure) {
		t.Errorf("expected Status %s, got %s", supreme.StatusPartialFailure, rec.Status)
	}
	if rec.Errors == nil {
		t.Fatal("expected errors to be archived")
	}

	outcomes, err := DecodeEngineResults(rec)
	if err != nil {
		t.Fatalf("failed to decode engine results: %v", err)
	}
	if !outcomes[supreme.EngineAnalytics].Failed() {
		t.Error("expected analytics outcome to carry an error")
	}
}

// TestListRuns tests run listing with pagination
func TestListRuns(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"req-a", "req-b", "req-c"} {
		req, res := testRun(id)
		res.CompletedAt = base.Add(time.Duration(i) * time.Second)
		if err := store.RecordRun(ctx, req, res); err != nil {
			t.Fatalf("failed to record run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 10, 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "req-c" {
		t.Errorf("expected most recent run first, got %s", runs[0].ID)
	}

	// Pagination
	page, err := store.ListRuns(ctx, 2, 2)
	if err != nil {
		t.Fatalf("failed to list runs with offset: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("expected 1 run on second page, got %d", len(page))
	}
}

// TestRecordDecision tests archiving and retrieving decisions
func TestRecordDecision(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	decision := &supreme.SupremeDecision{
		ID: "dec-001",
		Context: supreme.DecisionContext{
			ID:            "ctx-001",
			Situation:     "capacity shortfall in primary region",
			RiskTolerance: 0.4,
		},
		Selected: supreme.DecisionOption{
			ID:                 "balanced",
			Archetype:          "balanced",
			SuccessProbability: 0.75,
			RiskLevel:          0.4,
		},
		Score:      0.72,
		Confidence: 0.78,
		Reasoning:  []string{"Success probability: 75.0%"},
		DecidedAt:  time.Now().UTC(),
	}

	if err := store.RecordDecision(ctx, decision); err != nil {
		t.Fatalf("failed to record decision: %v", err)
	}

	rec, err := store.GetDecision(ctx, "dec-001")
	if err != nil {
		t.Fatalf("failed to get decision: %v", err)
	}

	if rec.Archetype != "balanced" {
		t.Errorf("expected archetype balanced, got %s", rec.Archetype)
	}
	if rec.Situation != decision.Context.Situation {
		t.Errorf("expected situation %q, got %q", decision.Context.Situation, rec.Situation)
	}
	if rec.Score != 0.72 {
		t.Errorf("expected score 0.72, got %f", rec.Score)
	}

	decoded, err := DecodeDecision(rec)
	if err != nil {
		t.Fatalf("failed to decode decision: %v", err)
	}
	if decoded.Selected.SuccessProbability != 0.75 {
		t.Errorf("expected success probability 0.75, got %f", decoded.Selected.SuccessProbability)
	}
	if len(decoded.Reasoning) != 1 {
		t.Errorf("expected 1 reasoning entry, got %d", len(decoded.Reasoning))
	}

	decisions, err := store.ListDecisions(ctx, 10, 0)
	if err != nil {
		t.Fatalf("failed to list decisions: %v", err)
	}
	if len(decisions) != 1 {
		t.Errorf("expected 1 decision, got %d", len(decisions))
	}
}

// TestGetRunNotFound tests the missing-run error path
func TestGetRunNotFound(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	if _, err := store.GetRun(context.Background(), "missing"); err == nil {
		t.Error("expected error when getting missing run")
	}
	if _, err := store.GetDecision(context.Background(), "missing"); err == nil {
		t.Error("expected error when getting missing decision")
	}
}

// TestPrune tests retention pruning for runs and decisions
func TestPrune(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	oldReq, oldRes := testRun("req-old")
	oldRes.CompletedAt = now.Add(-48 * time.Hour)
	if err := store.RecordRun(ctx, oldReq, oldRes); err != nil {
		t.Fatalf("failed to record old run: %v", err)
	}

	newReq, newRes := testRun("req-new")
	newRes.CompletedAt = now
	if err := store.RecordRun(ctx, newReq, newRes); err != nil {
		t.Fatalf("failed to record new run: %v", err)
	}

	deleted, err := store.PruneRuns(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("failed to prune runs: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned run, got %d", deleted)
	}

	if _, err := store.GetRun(ctx, "req-old"); err == nil {
		t.Error("expected old run to be pruned")
	}
	if _, err := store.GetRun(ctx, "req-new"); err != nil {
		t.Errorf("expected new run to survive pruning: %v", err)
	}

	decision := &supreme.SupremeDecision{
		ID:        "dec-old",
		Context:   supreme.DecisionContext{Situation: "stale"},
		Selected:  supreme.DecisionOption{Archetype: "conservative"},
		DecidedAt: now.Add(-48 * time.Hour),
	}
	if err := store.RecordDecision(ctx, decision); err != nil {
		t.Fatalf("failed to record decision: %v", err)
	}

	deleted, err = store.PruneDecisions(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("failed to prune decisions: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned decision, got %d", deleted)
	}
}

// TestMain sets up and tears down test environment
func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()

	// Exit
	os.Exit(code)
}
