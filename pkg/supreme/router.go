package supreme

import "strings"

// StepRouter maps a free-form execution plan step to the command that
// carries it out.
type StepRouter interface {
	// Route derives the command type and target engine for one plan step.
	Route(step string) (CommandType, EngineKind)
}

// KeywordRouter routes plan steps by scanning for domain keywords. The
// first matching keyword wins; steps with no match default to the system
// control engine.
type KeywordRouter struct{}

// stepKeywords maps trigger words to the engine best suited to handle
// them. Scan order is fixed so routing stays deterministic.
var stepKeywords = []struct {
	words  []string
	engine EngineKind
}{
	{[]string{"analyze", "assess", "evaluate", "measure"}, EngineAnalytics},
	{[]string{"execute", "implement", "deploy", "configure"}, EngineSystemControl},
	{[]string{"secure", "protect", "authenticate", "encrypt"}, EngineSecurity},
	{[]string{"scale", "optimize", "expand", "balance"}, EngineScalability},
	{[]string{"integrate", "connect", "synchronize", "coordinate"}, EngineIntegration},
	{[]string{"communicate", "notify", "report", "inform"}, EngineCommunication},
	{[]string{"learn", "adapt", "improve", "train"}, EngineLearning},
	{[]string{"reason", "decide", "plan", "strategize"}, EngineReasoning},
	{[]string{"predict", "anticipate", "prevent", "forecast"}, EngineProactive},
	{[]string{"research", "search", "verify", "validate"}, EngineKnowledge},
}

// engineCommands maps a routed engine to the command type whose pipeline
// involves it.
var engineCommands = map[EngineKind]CommandType{
	EngineAnalytics:     CommandAnalyze,
	EngineSystemControl: CommandExecute,
	EngineSecurity:      CommandSecure,
	EngineScalability:   CommandScale,
	EngineIntegration:   CommandIntegrate,
	EngineCommunication: CommandCommunicate,
	EngineLearning:      CommandLearn,
	EngineReasoning:     CommandAnalyze,
	EngineProactive:     CommandPredict,
	EngineKnowledge:     CommandCommunicate,
}

// Route scans the step text for the first keyword match and returns the
// matching engine's command. Unmatched steps route to system control as
// a plain execute.
func (KeywordRouter) Route(step string) (CommandType, EngineKind) {
	lowered := strings.ToLower(step)
	for _, entry := range stepKeywords {
		for _, word := range entry.words {
			if strings.Contains(lowered, word) {
				return engineCommands[entry.engine], entry.engine
			}
		}
	}
	return CommandExecute, EngineSystemControl
}
