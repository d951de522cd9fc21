package supreme

import "testing"

func TestKeywordRouterRoutes(t *testing.T) {
	tests := []struct {
		step       string
		wantType   CommandType
		wantEngine EngineKind
	}{
		{"analyze system performance", CommandAnalyze, EngineAnalytics},
		{"assess current state and damage", CommandAnalyze, EngineAnalytics},
		{"deploy the new release", CommandExecute, EngineSystemControl},
		{"implement changes gradually", CommandExecute, EngineSystemControl},
		{"encrypt the nightly backups", CommandSecure, EngineSecurity},
		{"protect the admin endpoints", CommandSecure, EngineSecurity},
		{"optimize cache usage", CommandScale, EngineScalability},
		{"expand the worker pool", CommandScale, EngineScalability},
		{"connect the billing API", CommandIntegrate, EngineIntegration},
		{"synchronize the calendars", CommandIntegrate, EngineIntegration},
		{"notify all stakeholders", CommandCommunicate, EngineCommunication},
		{"report the weekly numbers", CommandCommunicate, EngineCommunication},
		{"train on recent incidents", CommandLearn, EngineLearning},
		{"adapt monitoring as results arrive", CommandLearn, EngineLearning},
		{"strategize the next quarter", CommandAnalyze, EngineReasoning},
		{"forecast demand for december", CommandPredict, EngineProactive},
		{"anticipate peak traffic", CommandPredict, EngineProactive},
		{"verify data integrity", CommandCommunicate, EngineKnowledge},
		{"research prior outages", CommandCommunicate, EngineKnowledge},
	}

	router := KeywordRouter{}
	for _, tt := range tests {
		gotType, gotEngine := router.Route(tt.step)
		if gotType != tt.wantType || gotEngine != tt.wantEngine {
			t.Errorf("Route(%q) = (%s, %s), want (%s, %s)",
				tt.step, gotType, gotEngine, tt.wantType, tt.wantEngine)
		}
	}
}

func TestKeywordRouterDefault(t *testing.T) {
	router := KeywordRouter{}

	cmdType, engine := router.Route("do something unusual")
	if cmdType != CommandExecute {
		t.Errorf("default command = %s, want %s", cmdType, CommandExecute)
	}
	if engine != EngineSystemControl {
		t.Errorf("default engine = %s, want %s", engine, EngineSystemControl)
	}
}

func TestKeywordRouterCaseInsensitive(t *testing.T) {
	router := KeywordRouter{}

	cmdType, engine := router.Route("ANALYZE the access LOGS")
	if cmdType != CommandAnalyze || engine != EngineAnalytics {
		t.Errorf("Route = (%s, %s), want (%s, %s)", cmdType, engine, CommandAnalyze, EngineAnalytics)
	}
}

func TestKeywordRouterFirstMatchWins(t *testing.T) {
	router := KeywordRouter{}

	// The analytics keyword group is scanned before system control, so a
	// step mentioning both routes to analytics.
	cmdType, engine := router.Route("analyze results then deploy the fix")
	if cmdType != CommandAnalyze || engine != EngineAnalytics {
		t.Errorf("Route = (%s, %s), want (%s, %s)", cmdType, engine, CommandAnalyze, EngineAnalytics)
	}
}
