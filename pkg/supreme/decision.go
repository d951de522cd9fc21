package supreme

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syncsphere/supreme/pkg/telemetry"
)

// Option scoring weights. Intrinsic option properties carry 40% of the
// final score, engine evaluations the remaining 60%.
const (
	intrinsicWeight = 0.4
	engineWeight    = 0.6

	timeFitBonus    = 0.1
	timeFitPenalty  = 0.2
	riskAlignWeight = 0.1
)

// Default engine scores applied when an evaluation call fails or returns
// no usable score.
const (
	defaultAnalyticsScore   = 0.7
	defaultScalabilityScore = 0.8
	defaultLearningScore    = 0.6
)

// DecisionMakerOptions configures a DecisionMaker.
type DecisionMakerOptions struct {
	// HistoryLimit bounds the in-memory decision history. Defaults to 100.
	HistoryLimit int

	// Logger is the structured logger. Defaults to a no-op logger.
	Logger *telemetry.Logger

	// Metrics collects decision metrics. Defaults to no-op.
	Metrics *telemetry.Metrics

	// Events publishes decision events. Defaults to no-op.
	Events *telemetry.EventPublisher

	// Tracer creates decision spans. Defaults to no-op.
	Tracer *telemetry.Tracer

	// Recorder, when set, archives decisions.
	Recorder RunRecorder
}

// DecisionMaker generates candidate options for a decision context, scores
// them against multi-engine evaluations, and selects the best one.
type DecisionMaker struct {
	control *ControlInterface
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	events  *telemetry.EventPublisher
	tracer  *telemetry.Tracer

	recorder RunRecorder

	mu           sync.Mutex
	history      []*SupremeDecision
	historyLimit int
}

// NewDecisionMaker creates a decision maker over the given control
// interface.
func NewDecisionMaker(control *ControlInterface, opts DecisionMakerOptions) *DecisionMaker {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.Logger == nil {
		opts.Logger = telemetry.NopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.NopMetrics()
	}
	if opts.Events == nil {
		opts.Events = telemetry.NopEventPublisher()
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.NopTracer()
	}
	return &DecisionMaker{
		control:      control,
		logger:       opts.Logger.NewComponentLogger("decision"),
		metrics:      opts.Metrics,
		events:       opts.Events,
		tracer:       opts.Tracer,
		recorder:     opts.Recorder,
		historyLimit: opts.HistoryLimit,
	}
}

// Decide generates candidate options for the context, evaluates each
// through the relevant engines, scores and selects the best option, and
// assembles the full decision with its reasoning and plans. Scoring is
// deterministic for fixed option and evaluation inputs; ties keep the
// first-generated option.
func (d *DecisionMaker) Decide(ctx context.Context, dctx DecisionContext) (*SupremeDecision, error) {
	decisionID := uuid.New().String()
	if dctx.ID == "" {
		dctx.ID = decisionID
	}

	spanCtx, span := d.tracer.StartDecisionSpan(ctx, decisionID)
	defer span.End()

	// Context analysis primes the engines; its outcome does not feed the
	// scoring, which only consumes the per-option evaluations below.
	d.control.ExecuteCommand(spanCtx, Command{
		Type:      CommandAnalyze,
		Operation: "analyze_decision_context",
		Parameters: map[string]any{
			"situation":    dctx.Situation,
			"objectives":   dctx.Objectives,
			"constraints":  dctx.Constraints,
			"stakeholders": dctx.Stakeholders,
		},
	})

	options := GenerateOptions(dctx)
	if len(options) == 0 {
		err := NewPermanentError("no decision options generated", nil).WithCode(ErrCodeNoOptions)
		telemetry.RecordError(span, err)
		return nil, err
	}

	evaluations := make(map[string]optionEvaluation, len(options))
	for _, option := range options {
		evaluations[option.ID] = d.evaluateOption(spanCtx, option, dctx)
	}

	best := options[0]
	bestScore := -1.0
	for _, option := range options {
		score := ScoreOption(option, evaluations[option.ID], dctx)
		if score > bestScore {
			bestScore = score
			best = option
		}
	}

	eval := evaluations[best.ID]
	decision := &SupremeDecision{
		ID:             decisionID,
		Context:        dctx,
		Selected:       best,
		Score:          bestScore,
		Reasoning:      buildReasoning(best, eval, dctx),
		Confidence:     calculateConfidence(best, eval),
		RiskAssessment: assessRisks(best, dctx),
		ExecutionPlan:  buildExecutionPlan(best),
		MonitoringPlan: buildMonitoringPlan(best, dctx),
		RollbackPlan:   buildRollbackPlan(best),
		SuccessMetrics: buildSuccessMetrics(best, dctx),
		DecidedAt:      time.Now(),
	}

	d.mu.Lock()
	d.history = append(d.history, decision)
	if len(d.history) > d.historyLimit {
		d.history = d.history[len(d.history)-d.historyLimit:]
	}
	d.mu.Unlock()

	if d.recorder != nil {
		if err := d.recorder.RecordDecision(ctx, decision); err != nil {
			d.logger.WithDecisionID(decisionID).WithError(err).Warn("failed to archive decision")
		}
	}

	d.metrics.CountDecision(best.Archetype)
	d.events.Publish(telemetry.Event{
		Type:       telemetry.EventDecisionMade,
		Source:     "decision",
		DecisionID: decisionID,
		Message:    fmt.Sprintf("selected %s option with score %.3f", best.Archetype, bestScore),
		Level:      telemetry.EventLevelInfo,
	})
	d.logger.WithDecisionID(decisionID).
		WithField("archetype", best.Archetype).
		WithField("score", bestScore).
		WithField("confidence", decision.Confidence).
		Info("decision made")

	telemetry.RecordSuccess(span)
	return decision, nil
}

// History returns up to limit of the most recent decisions, oldest first.
func (d *DecisionMaker) History(limit int) []*SupremeDecision {
	d.mu.Lock()
	defer d.mu.Unlock()

	history := d.history
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]*SupremeDecision(nil), history...)
}

// GenerateOptions produces the candidate options for a context from the
// fixed archetypes. Order matters: ties during selection keep the
// first-generated option.
func GenerateOptions(dctx DecisionContext) []DecisionOption {
	return []DecisionOption{
		{
			ID:          "conservative",
			Archetype:   "conservative",
			Description: "Conservative approach with minimal risk",
			RequiredActions: []string{
				"analyze current state thoroughly",
				"implement changes gradually",
				"monitor outcomes closely",
			},
			RequiredEngines:    []EngineKind{EngineAnalytics, EngineSystemControl},
			EstimatedCost:      100,
			EstimatedDuration:  4 * time.Hour,
			SuccessProbability: 0.8,
			RiskLevel:          0.2,
			ExpectedBenefits:   map[string]float64{"stability": 200, "reliability": 150},
			SideEffects:        []string{"slower progress", "missed opportunities"},
		},
		{
			ID:          "aggressive",
			Archetype:   "aggressive",
			Description: "Aggressive approach for maximum impact",
			RequiredActions: []string{
				"execute rapid implementation",
				"deploy full resources",
				"accelerate the timeline",
			},
			RequiredEngines:    []EngineKind{EngineSystemControl, EngineScalability, EngineIntegration},
			EstimatedCost:      500,
			EstimatedDuration:  2 * time.Hour,
			SuccessProbability: 0.6,
			RiskLevel:          0.7,
			ExpectedBenefits:   map[string]float64{"speed": 400, "impact": 600},
			SideEffects:        []string{"resource strain", "potential instability"},
		},
		{
			ID:          "balanced",
			Archetype:   "balanced",
			Description: "Balanced approach optimizing risk and reward",
			RequiredActions: []string{
				"analyze strategic position",
				"implement in phases",
				"adapt monitoring as results arrive",
			},
			RequiredEngines:    []EngineKind{EngineReasoning, EngineAnalytics, EngineSystemControl, EngineLearning},
			EstimatedCost:      250,
			EstimatedDuration:  3 * time.Hour,
			SuccessProbability: 0.75,
			RiskLevel:          0.4,
			ExpectedBenefits:   map[string]float64{"balance": 350, "adaptability": 250},
			SideEffects:        []string{"moderate complexity"},
		},
	}
}

// optionEvaluation collects per-dimension engine scores and any
// engine-reported confidences for one option.
type optionEvaluation struct {
	// Analytics, Security, Scalability, and Learning are the four engine
	// dimension scores, defaulted when the engine call yields nothing
	// usable.
	Analytics   float64
	Security    float64
	Scalability float64
	Learning    float64

	// Confidences are the engine-reported confidence values collected
	// across the evaluation calls.
	Confidences []float64
}

// engineScores returns the dimension scores in fixed order.
func (e optionEvaluation) engineScores() []float64 {
	return []float64{e.Analytics, e.Security, e.Scalability, e.Learning}
}

// evaluateOption issues one command per engine dimension and collects each
// engine's opinion. A failed call or missing score falls back to the
// dimension default.
func (d *DecisionMaker) evaluateOption(ctx context.Context, option DecisionOption, dctx DecisionContext) optionEvaluation {
	eval := optionEvaluation{
		Analytics:   defaultAnalyticsScore,
		Security:    1 - option.RiskLevel,
		Scalability: defaultScalabilityScore,
		Learning:    defaultLearningScore,
	}

	analytics := d.control.ExecuteCommand(ctx, Command{
		Type:      CommandAnalyze,
		Operation: "evaluate_option",
		Parameters: map[string]any{
			"option":  option.Description,
			"actions": option.RequiredActions,
			"context": dctx.Situation,
		},
	})
	if score, ok := extractScore(analytics, "score"); ok {
		eval.Analytics = score
	}
	eval.Confidences = append(eval.Confidences, extractConfidences(analytics)...)

	security := d.control.ExecuteCommand(ctx, Command{
		Type:      CommandSecure,
		Operation: "assess_security_risks",
		Parameters: map[string]any{
			"option":  option.Description,
			"actions": option.RequiredActions,
		},
	})
	if score, ok := extractScore(security, "security_score"); ok {
		eval.Security = score
	}
	eval.Confidences = append(eval.Confidences, extractConfidences(security)...)

	scalability := d.control.ExecuteCommand(ctx, Command{
		Type:      CommandScale,
		Operation: "assess_scalability",
		Parameters: map[string]any{
			"option":    option.Description,
			"resources": dctx.Resources,
		},
	})
	if score, ok := extractScore(scalability, "feasibility_score"); ok {
		eval.Scalability = score
	}
	eval.Confidences = append(eval.Confidences, extractConfidences(scalability)...)

	learning := d.control.ExecuteCommand(ctx, Command{
		Type:      CommandLearn,
		Operation: "match_historical_patterns",
		Parameters: map[string]any{
			"option":  option.Description,
			"context": dctx.Situation,
		},
	})
	if score, ok := extractScore(learning, "pattern_match_score"); ok {
		eval.Learning = score
	}
	eval.Confidences = append(eval.Confidences, extractConfidences(learning)...)

	return eval
}

// extractScore searches a command result's engine payloads for a numeric
// value under the given key.
func extractScore(res *CommandResult, key string) (float64, bool) {
	orchRes, ok := res.Result.(*OrchestrationResult)
	if !ok || !res.Status.Succeeded() {
		return 0, false
	}
	for _, kind := range sortedKinds(orchRes.EngineResults) {
		outcome := orchRes.EngineResults[kind]
		if outcome.Failed() {
			continue
		}
		if v, ok := numericValue(outcome.Payload[key]); ok {
			return v, true
		}
	}
	return 0, false
}

// extractConfidences collects engine-reported confidences from a command
// result, preferring an explicit payload value over the response-level one.
func extractConfidences(res *CommandResult) []float64 {
	orchRes, ok := res.Result.(*OrchestrationResult)
	if !ok || !res.Status.Succeeded() {
		return nil
	}
	var confidences []float64
	for _, kind := range sortedKinds(orchRes.EngineResults) {
		outcome := orchRes.EngineResults[kind]
		if outcome.Failed() {
			continue
		}
		if v, ok := numericValue(outcome.Payload["confidence"]); ok {
			confidences = append(confidences, v)
		} else if outcome.Confidence > 0 {
			confidences = append(confidences, outcome.Confidence)
		}
	}
	return confidences
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ScoreOption computes an option's final score: 40% intrinsic properties,
// 60% mean engine evaluation, adjusted for time-budget fit and risk
// tolerance alignment, clamped to [0,1].
func ScoreOption(option DecisionOption, eval optionEvaluation, dctx DecisionContext) float64 {
	intrinsic := option.SuccessProbability*0.5 +
		(1-option.RiskLevel)*0.3 +
		min1(totalBenefits(option)/maxf(1, option.EstimatedCost))*0.2
	score := intrinsic * intrinsicWeight

	engineScores := eval.engineScores()
	var sum float64
	for _, s := range engineScores {
		sum += s
	}
	score += sum / float64(len(engineScores)) * engineWeight

	if dctx.TimeBudget > 0 {
		if option.EstimatedDuration <= dctx.TimeBudget {
			score += timeFitBonus
		} else {
			score -= timeFitPenalty
		}
	}

	score += riskAlignWeight * (1 - absf(option.RiskLevel-dctx.RiskTolerance))

	return clamp01(score)
}

// calculateConfidence is the mean of the option's success probability, its
// inverse risk, and every engine-reported confidence.
func calculateConfidence(option DecisionOption, eval optionEvaluation) float64 {
	factors := []float64{option.SuccessProbability, 1 - option.RiskLevel}
	factors = append(factors, eval.Confidences...)

	var sum float64
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

// buildReasoning enumerates the literal data points used in scoring.
func buildReasoning(option DecisionOption, eval optionEvaluation, dctx DecisionContext) []string {
	reasoning := []string{
		fmt.Sprintf("Selected option: %s", option.Description),
		fmt.Sprintf("Success probability: %.0f%%", option.SuccessProbability*100),
		fmt.Sprintf("Risk level: %.0f%%", option.RiskLevel*100),
		fmt.Sprintf("Estimated cost: %.2f", option.EstimatedCost),
		fmt.Sprintf("Estimated duration: %s", option.EstimatedDuration),
		fmt.Sprintf("Analytics evaluation score: %.2f", eval.Analytics),
		fmt.Sprintf("Security evaluation score: %.2f", eval.Security),
		fmt.Sprintf("Scalability evaluation score: %.2f", eval.Scalability),
		fmt.Sprintf("Historical pattern score: %.2f", eval.Learning),
	}

	if dctx.TimeBudget > 0 && option.EstimatedDuration <= dctx.TimeBudget {
		reasoning = append(reasoning, "Option fits the time budget")
	}
	if option.RiskLevel <= dctx.RiskTolerance {
		reasoning = append(reasoning, "Risk level within tolerance")
	}
	if benefits := totalBenefits(option); benefits > option.EstimatedCost {
		reasoning = append(reasoning, fmt.Sprintf("Positive expected return: %.2f", benefits-option.EstimatedCost))
	}
	return reasoning
}

// assessRisks builds the per-dimension risk map for the selected option.
func assessRisks(option DecisionOption, dctx DecisionContext) map[string]float64 {
	timeRisk := 0.1
	if option.EstimatedDuration > 8*time.Hour {
		timeRisk = 0.3
	}
	costRisk := 0.1
	if option.EstimatedCost > 1000 {
		costRisk = 0.2
	}
	return map[string]float64{
		"execution_risk":   option.RiskLevel,
		"time_risk":        timeRisk,
		"cost_risk":        costRisk,
		"stakeholder_risk": float64(len(dctx.Stakeholders)) * 0.05,
		"technical_risk":   float64(len(option.RequiredEngines)) * 0.03,
		"overall_risk":     option.RiskLevel,
	}
}

// buildExecutionPlan derives the numbered step plan from the option's
// required actions.
func buildExecutionPlan(option DecisionOption) []string {
	plan := []string{
		"1. Initialize required engines and resources",
		"2. Validate prerequisites and dependencies",
		"3. Begin phased execution of required actions:",
	}
	step := 4
	for _, action := range option.RequiredActions {
		plan = append(plan, fmt.Sprintf("%d. Execute: %s", step, action))
		step++
	}
	plan = append(plan,
		fmt.Sprintf("%d. Monitor progress and adjust as needed", step),
		fmt.Sprintf("%d. Validate results against success criteria", step+1),
		fmt.Sprintf("%d. Document outcomes and lessons learned", step+2),
	)
	return plan
}

// buildMonitoringPlan assembles the fixed checklist plus conditional
// entries for high-risk, high-cost, multi-engine, and time-constrained
// options.
func buildMonitoringPlan(option DecisionOption, dctx DecisionContext) []string {
	plan := []string{
		"Track progress against timeline milestones",
		"Monitor resource utilization and costs",
		"Assess risk indicators and early warning signs",
		"Measure success metrics continuously",
		"Monitor stakeholder satisfaction and feedback",
	}
	if option.RiskLevel > 0.5 {
		plan = append(plan, "Enhanced risk monitoring due to high risk level")
	}
	if option.EstimatedCost > 500 {
		plan = append(plan, "Detailed cost tracking and budget monitoring")
	}
	if len(option.RequiredEngines) > 3 {
		plan = append(plan, "Multi-engine coordination monitoring")
	}
	if dctx.TimeBudget > 0 {
		plan = append(plan, "Time-critical milestone tracking")
	}
	if len(dctx.Stakeholders) > 2 {
		plan = append(plan, "Stakeholder communication tracking")
	}
	return plan
}

// buildRollbackPlan reverses the required actions and adds an engine-state
// reset entry per required engine.
func buildRollbackPlan(option DecisionOption) []string {
	plan := []string{
		"1. Immediately halt current execution",
		"2. Assess current state and damage",
		"3. Restore previous stable state",
		"4. Notify all stakeholders of rollback",
		"5. Analyze failure causes",
		"6. Prepare alternative approach",
	}
	for i := len(option.RequiredActions) - 1; i >= 0; i-- {
		plan = append(plan, fmt.Sprintf("Reverse action: %s", option.RequiredActions[i]))
	}
	for _, engine := range option.RequiredEngines {
		plan = append(plan, fmt.Sprintf("Reset %s engine state", engine))
	}
	return plan
}

// buildSuccessMetrics defines one metric per context objective, one per
// expected benefit, plus the fixed execution, cost, and probability
// thresholds.
func buildSuccessMetrics(option DecisionOption, dctx DecisionContext) []string {
	var metrics []string
	for _, objective := range dctx.Objectives {
		metrics = append(metrics, fmt.Sprintf("Achievement of objective: %s", objective))
	}

	benefits := make([]string, 0, len(option.ExpectedBenefits))
	for name := range option.ExpectedBenefits {
		benefits = append(benefits, name)
	}
	sort.Strings(benefits)
	for _, name := range benefits {
		metrics = append(metrics, fmt.Sprintf("%s improvement: target %.0f", name, option.ExpectedBenefits[name]))
	}

	metrics = append(metrics,
		fmt.Sprintf("Execution completed within %s", option.EstimatedDuration),
		fmt.Sprintf("Total cost under %.2f (10%% buffer)", option.EstimatedCost*1.1),
		fmt.Sprintf("Success probability achieved: %.0f%%", option.SuccessProbability*100),
		"No critical failures or rollbacks required",
	)
	for _, criterion := range dctx.SuccessCriteria {
		metrics = append(metrics, fmt.Sprintf("Success criterion met: %s", criterion))
	}
	return metrics
}

func totalBenefits(option DecisionOption) float64 {
	var sum float64
	for _, v := range option.ExpectedBenefits {
		sum += v
	}
	return sum
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
