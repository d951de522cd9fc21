package supreme

import (
	"context"
	"fmt"
)

func ExampleKeywordRouter_Route() {
	router := KeywordRouter{}

	cmdType, engine := router.Route("analyze recent latency spikes")
	fmt.Printf("%s via %s\n", cmdType, engine)

	cmdType, engine = router.Route("notify the on-call rotation")
	fmt.Printf("%s via %s\n", cmdType, engine)

	// Output:
	// analyze via analytics
	// communicate via communication
}

func ExampleGenerateOptions() {
	options := GenerateOptions(DecisionContext{Situation: "capacity shortfall"})
	for _, option := range options {
		fmt.Printf("%s: risk %.1f, duration %s\n",
			option.Archetype, option.RiskLevel, option.EstimatedDuration)
	}

	// Output:
	// conservative: risk 0.2, duration 4h0m0s
	// aggressive: risk 0.7, duration 2h0m0s
	// balanced: risk 0.4, duration 3h0m0s
}

func ExampleControlInterface_ExecuteCommand() {
	registry := NewRegistry(nil)
	registry.Register(EngineAnalytics, &stubProvider{payload: map[string]any{"score": 0.9}}, nil, 5)
	registry.Register(EngineReasoning, &stubProvider{payload: map[string]any{"plan_quality": 0.8}}, nil, 3)

	orch := NewOrchestrator(registry, OrchestratorOptions{})
	if err := orch.Start(context.Background()); err != nil {
		fmt.Println("start failed:", err)
		return
	}
	defer orch.Stop()

	control := NewControlInterface(orch, ControlOptions{})
	result := control.ExecuteCommand(context.Background(), Command{
		Type:      CommandAnalyze,
		Operation: "assess_performance",
	})

	fmt.Printf("Status: %s\n", result.Status)
	fmt.Printf("Engines: %v\n", result.EnginesUsed)

	// Output:
	// Status: completed
	// Engines: [analytics reasoning]
}

func ExampleRegistry_ShareData() {
	registry := NewRegistry(nil)

	registry.ShareData("threat_level", 0.3, EngineSecurity)
	entry, _ := registry.SharedEntry("threat_level")
	fmt.Printf("%v from %s\n", entry.Value, entry.Source)

	// Output: 0.3 from security
}
