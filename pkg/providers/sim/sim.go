// Package sim provides a simulated capability engine for local development
// and testing. It implements the supreme.Provider interface with
// deterministic, kind-appropriate payloads and configurable failure modes.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/syncsphere/supreme/pkg/supreme"
)

// Config contains configuration for a simulated engine.
type Config struct {
	// Kind selects the payload shape the engine produces.
	Kind supreme.EngineKind

	// Latency is an artificial delay applied to every call.
	Latency time.Duration

	// Confidence is the self-reported confidence attached to responses.
	// Default is 0.8.
	Confidence float64

	// Scores overrides individual payload score keys.
	Scores map[string]float64

	// FailOn lists operations that return an error.
	FailOn []string

	// PanicOn lists operations that panic. Used to exercise the
	// orchestrator's panic recovery.
	PanicOn []string
}

// Engine is a simulated capability engine.
type Engine struct {
	cfg Config

	mu    sync.Mutex
	calls []supreme.Request
}

// New creates a new simulated engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Kind.Validate(); err != nil {
		return nil, err
	}

	if cfg.Confidence == 0 {
		cfg.Confidence = 0.8
	}

	return &Engine{cfg: cfg}, nil
}

// ExecuteRequest performs a simulated operation. The payload shape depends
// on the engine kind so downstream scoring sees the keys it expects.
func (e *Engine) ExecuteRequest(ctx context.Context, req supreme.Request) (*supreme.Response, error) {
	e.mu.Lock()
	e.calls = append(e.calls, req)
	e.mu.Unlock()

	for _, op := range e.cfg.PanicOn {
		if op == req.Operation {
			panic(fmt.Sprintf("simulated panic in %s", req.Operation))
		}
	}

	for _, op := range e.cfg.FailOn {
		if op == req.Operation {
			return nil, fmt.Errorf("simulated failure in %s", req.Operation)
		}
	}

	if e.cfg.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.cfg.Latency):
		}
	}

	return &supreme.Response{
		Result:     e.payload(req),
		Confidence: e.cfg.Confidence,
		Metadata: map[string]any{
			"engine":    string(e.cfg.Kind),
			"simulated": true,
		},
	}, nil
}

// Calls returns a copy of every request the engine has received.
func (e *Engine) Calls() []supreme.Request {
	e.mu.Lock()
	defer e.mu.Unlock()

	calls := make([]supreme.Request, len(e.calls))
	copy(calls, e.calls)
	return calls
}

// CallCount returns how many requests the engine has received.
func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// payload builds a kind-appropriate result payload.
func (e *Engine) payload(req supreme.Request) map[string]any {
	result := map[string]any{
		"operation": req.Operation,
		"status":    "ok",
	}

	switch e.cfg.Kind {
	case supreme.EngineAnalytics:
		result["score"] = e.score("score", 0.8)
		result["data_points"] = 42
	case supreme.EngineSecurity:
		result["security_score"] = e.score("security_score", 0.9)
		result["threats_detected"] = 0
	case supreme.EngineScalability:
		result["feasibility_score"] = e.score("feasibility_score", 0.85)
		result["headroom"] = 0.6
	case supreme.EngineLearning:
		result["pattern_match_score"] = e.score("pattern_match_score", 0.7)
		result["patterns_matched"] = 3
	case supreme.EngineReasoning:
		result["plan_quality"] = e.score("plan_quality", 0.8)
		result["alternatives_considered"] = 2
	case supreme.EngineProactive:
		result["forecast_confidence"] = e.score("forecast_confidence", 0.75)
	case supreme.EngineKnowledge:
		result["sources_checked"] = 5
		result["verified"] = true
	case supreme.EngineCommunication:
		result["notified"] = true
	case supreme.EngineIntegration:
		result["systems_synchronized"] = 1
	case supreme.EngineSystemControl:
		result["changes_applied"] = 1
	}

	return result
}

// score returns the override for a payload key, or the default.
func (e *Engine) score(key string, def float64) float64 {
	if v, ok := e.cfg.Scores[key]; ok {
		return v
	}
	return def
}

// Fleet builds one simulated engine per kind, all sharing the given base
// configuration. Useful for wiring a full coordination core without real
// engines.
func Fleet(base Config) (map[supreme.EngineKind]*Engine, error) {
	fleet := make(map[supreme.EngineKind]*Engine, len(supreme.AllEngineKinds()))
	for _, kind := range supreme.AllEngineKinds() {
		cfg := base
		cfg.Kind = kind
		eng, err := New(cfg)
		if err != nil {
			return nil, err
		}
		fleet[kind] = eng
	}
	return fleet, nil
}
