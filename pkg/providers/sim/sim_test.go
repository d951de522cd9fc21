package sim

import (
	"context"
	"testing"
	"time"

	"github.com/syncsphere/supreme/pkg/supreme"
)

func TestNewValidatesKind(t *testing.T) {
	if _, err := New(Config{Kind: "bogus"}); err == nil {
		t.Error("expected error for invalid kind")
	}

	eng, err := New(Config{Kind: supreme.EngineAnalytics})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng == nil {
		t.Fatal("expected engine")
	}
}

func TestExecuteRequestPayloadShape(t *testing.T) {
	tests := []struct {
		kind supreme.EngineKind
		key  string
	}{
		{supreme.EngineAnalytics, "score"},
		{supreme.EngineSecurity, "security_score"},
		{supreme.EngineScalability, "feasibility_score"},
		{supreme.EngineLearning, "pattern_match_score"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			eng, err := New(Config{Kind: tt.kind})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			resp, err := eng.ExecuteRequest(context.Background(), supreme.Request{
				ID:        "call-1",
				Operation: "evaluate",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, ok := resp.Result[tt.key]; !ok {
				t.Errorf("expected payload key %q, got %v", tt.key, resp.Result)
			}
			if resp.Confidence != 0.8 {
				t.Errorf("expected default confidence 0.8, got %f", resp.Confidence)
			}
		})
	}
}

func TestScoreOverride(t *testing.T) {
	eng, err := New(Config{
		Kind:   supreme.EngineSecurity,
		Scores: map[string]float64{"security_score": 0.42},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := eng.ExecuteRequest(context.Background(), supreme.Request{Operation: "assess"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := resp.Result["security_score"]; got != 0.42 {
		t.Errorf("expected security_score 0.42, got %v", got)
	}
}

func TestFailOn(t *testing.T) {
	eng, err := New(Config{
		Kind:   supreme.EngineAnalytics,
		FailOn: []string{"broken_op"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := eng.ExecuteRequest(context.Background(), supreme.Request{Operation: "broken_op"}); err == nil {
		t.Error("expected simulated failure")
	}

	if _, err := eng.ExecuteRequest(context.Background(), supreme.Request{Operation: "working_op"}); err != nil {
		t.Errorf("unexpected error for working operation: %v", err)
	}
}

func TestPanicOn(t *testing.T) {
	eng, err := New(Config{
		Kind:    supreme.EngineAnalytics,
		PanicOn: []string{"explode"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	_, _ = eng.ExecuteRequest(context.Background(), supreme.Request{Operation: "explode"})
}

func TestLatencyRespectsContext(t *testing.T) {
	eng, err := New(Config{
		Kind:    supreme.EngineAnalytics,
		Latency: time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = eng.ExecuteRequest(ctx, supreme.Request{Operation: "slow"})
	if err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Error("call did not return promptly on context cancellation")
	}
}

func TestCallTracking(t *testing.T) {
	eng, err := New(Config{Kind: supreme.EngineKnowledge})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := eng.ExecuteRequest(context.Background(), supreme.Request{Operation: "research"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if eng.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", eng.CallCount())
	}
	calls := eng.Calls()
	if len(calls) != 3 || calls[0].Operation != "research" {
		t.Errorf("unexpected call log: %v", calls)
	}
}

func TestFleet(t *testing.T) {
	fleet, err := Fleet(Config{Confidence: 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fleet) != len(supreme.AllEngineKinds()) {
		t.Fatalf("expected %d engines, got %d", len(supreme.AllEngineKinds()), len(fleet))
	}

	resp, err := fleet[supreme.EngineSecurity].ExecuteRequest(context.Background(), supreme.Request{Operation: "assess"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", resp.Confidence)
	}
}
