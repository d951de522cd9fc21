package supreme

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syncsphere/supreme/pkg/telemetry"
)

// DefaultCommandTimeout bounds a command's wait for its orchestration
// result when the command does not carry its own timeout.
const DefaultCommandTimeout = 5 * time.Minute

// defaultHistoryLimit bounds the command and result histories.
const defaultHistoryLimit = 100

// commandEngines maps each command type to its ordered required-engine
// list. The table is immutable and covers the closed command set
// exhaustively; adding a command kind means extending this table.
var commandEngines = map[CommandType][]EngineKind{
	CommandAnalyze:     {EngineAnalytics, EngineReasoning},
	CommandExecute:     {EngineSystemControl, EngineIntegration},
	CommandOptimize:    {EngineScalability, EngineReasoning},
	CommandLearn:       {EngineLearning, EngineAnalytics},
	CommandPredict:     {EngineAnalytics, EngineReasoning},
	CommandSecure:      {EngineSecurity, EngineSystemControl},
	CommandScale:       {EngineScalability, EngineSystemControl},
	CommandCommunicate: {EngineCommunication, EngineKnowledge},
	CommandIntegrate:   {EngineIntegration, EngineSystemControl},
	CommandMonitor:     {EngineSystemControl, EngineAnalytics},
}

// commandStrategies maps each command type to its default strategy.
var commandStrategies = map[CommandType]Strategy{
	CommandAnalyze:     StrategyParallel,
	CommandExecute:     StrategySequential,
	CommandOptimize:    StrategyAdaptive,
	CommandLearn:       StrategySequential,
	CommandPredict:     StrategyParallel,
	CommandSecure:      StrategyPriority,
	CommandScale:       StrategyAdaptive,
	CommandCommunicate: StrategySequential,
	CommandIntegrate:   StrategyConditional,
	CommandMonitor:     StrategyParallel,
}

// RequiredEngines returns the fixed required-engine list for a command
// type.
func RequiredEngines(t CommandType) []EngineKind {
	return append([]EngineKind(nil), commandEngines[t]...)
}

// DefaultStrategy returns the fixed default strategy for a command type.
func DefaultStrategy(t CommandType) Strategy {
	if s, ok := commandStrategies[t]; ok {
		return s
	}
	return StrategySequential
}

// ControlOptions configures a ControlInterface.
type ControlOptions struct {
	// HistoryLimit bounds the in-memory command and result histories.
	// Defaults to 100.
	HistoryLimit int

	// Logger is the structured logger. Defaults to a no-op logger.
	Logger *telemetry.Logger

	// Metrics collects command metrics. Defaults to no-op.
	Metrics *telemetry.Metrics

	// Events publishes command lifecycle events. Defaults to no-op.
	Events *telemetry.EventPublisher

	// Tracer creates command spans. Defaults to no-op.
	Tracer *telemetry.Tracer
}

// ControlInterface translates high-level commands into orchestration
// requests via the fixed command tables and formats the results. It never
// returns an error across its own boundary: callers always receive a
// CommandResult, with an explicit status and a non-empty error list on
// failure.
type ControlInterface struct {
	orch    *Orchestrator
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	events  *telemetry.EventPublisher
	tracer  *telemetry.Tracer

	mu           sync.Mutex
	commands     []Command
	results      []*CommandResult
	historyLimit int
}

// NewControlInterface creates a control interface over the given
// orchestrator.
func NewControlInterface(orch *Orchestrator, opts ControlOptions) *ControlInterface {
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
	return &ControlInterface{
		orch:         orch,
		logger:       opts.Logger.NewComponentLogger("control"),
		metrics:      opts.Metrics,
		events:       opts.Events,
		tracer:       opts.Tracer,
		historyLimit: opts.HistoryLimit,
	}
}

// ExecuteCommand builds an orchestration request from the command tables,
// submits it, awaits the result up to the command's timeout, and formats
// the outcome. All failure paths produce a result object with an explicit
// status and errors; nothing fails silently.
func (c *ControlInterface) ExecuteCommand(ctx context.Context, cmd Command) *CommandResult {
	start := time.Now()

	if cmd.ID == "" {
		cmd.ID = uuid.New().String()
	}
	if cmd.Format == "" {
		cmd.Format = FormatRaw
	}
	if cmd.Timeout <= 0 {
		cmd.Timeout = DefaultCommandTimeout
	}
	if cmd.CreatedAt.IsZero() {
		cmd.CreatedAt = time.Now()
	}

	_, span := c.tracer.StartCommandSpan(ctx, cmd.ID, string(cmd.Type))
	defer span.End()

	c.recordCommand(cmd)

	if err := cmd.Type.Validate(); err != nil {
		return c.fail(cmd, start, span, err.Error())
	}

	req := &OrchestrationRequest{
		ID:              cmd.ID,
		Operation:       cmd.Operation,
		Parameters:      cmd.Parameters,
		RequiredEngines: RequiredEngines(cmd.Type),
		Strategy:        DefaultStrategy(cmd.Type),
		Priority:        cmd.Priority,
		Timeout:         cmd.Timeout,
		CreatedAt:       cmd.CreatedAt,
	}

	id, err := c.orch.Submit(req)
	if err != nil {
		return c.fail(cmd, start, span, fmt.Sprintf("failed to submit orchestration request: %v", err))
	}

	orchRes := c.orch.AwaitResult(id, cmd.Timeout)
	if orchRes == nil {
		result := &CommandResult{
			CommandID:     cmd.ID,
			Status:        CommandStatusTimeout,
			ExecutionTime: time.Since(start),
			Errors:        []string{"request timed out"},
		}
		c.finish(cmd, result, span)
		return result
	}

	result := &CommandResult{
		CommandID:     cmd.ID,
		Status:        CommandStatus(orchRes.OverallStatus),
		Result:        c.formatResult(orchRes, cmd.Format),
		ExecutionTime: orchRes.ExecutionTime,
		EnginesUsed:   sortedKinds(orchRes.EngineResults),
		Errors:        orchRes.Errors,
		Warnings:      orchRes.Warnings,
		Metadata: map[string]any{
			"strategy":         string(req.Strategy),
			"required_engines": req.RequiredEngines,
		},
	}
	c.finish(cmd, result, span)
	return result
}

// fail builds, records, and returns a failed command result.
func (c *ControlInterface) fail(cmd Command, start time.Time, span telemetry.Span, msg string) *CommandResult {
	result := &CommandResult{
		CommandID:     cmd.ID,
		Status:        CommandStatusFailed,
		ExecutionTime: time.Since(start),
		Errors:        []string{msg},
	}
	c.finish(cmd, result, span)
	return result
}

// finish records the result in history, metrics, and events.
func (c *ControlInterface) finish(cmd Command, result *CommandResult, span telemetry.Span) {
	c.mu.Lock()
	c.results = append(c.results, result)
	if len(c.results) > c.historyLimit {
		c.results = c.results[len(c.results)-c.historyLimit:]
	}
	c.mu.Unlock()

	c.metrics.ObserveCommand(string(cmd.Type), string(result.Status), result.ExecutionTime)
	level := telemetry.EventLevelInfo
	if !result.Status.Succeeded() {
		level = telemetry.EventLevelWarning
		telemetry.RecordError(span, fmt.Errorf("command %s: %s", cmd.ID, strings.Join(result.Errors, "; ")))
	} else {
		telemetry.RecordSuccess(span)
	}
	c.events.Publish(telemetry.Event{
		Type:      telemetry.EventCommandExecuted,
		Source:    "control",
		CommandID: cmd.ID,
		Message:   fmt.Sprintf("%s command finished with status %s", cmd.Type, result.Status),
		Level:     level,
	})
	c.logger.WithCommandID(cmd.ID).
		WithField("type", string(cmd.Type)).
		WithField("status", string(result.Status)).
		Debug("command finished")
}

func (c *ControlInterface) recordCommand(cmd Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = append(c.commands, cmd)
	if len(c.commands) > c.historyLimit {
		c.commands = c.commands[len(c.commands)-c.historyLimit:]
	}
}

// formatResult renders an orchestration result per the requested format.
func (c *ControlInterface) formatResult(res *OrchestrationResult, format ResponseFormat) any {
	switch format {
	case FormatText:
		var sb strings.Builder
		fmt.Fprintf(&sb, "Status: %s\n", res.OverallStatus)
		fmt.Fprintf(&sb, "Execution Time: %s\n", res.ExecutionTime)
		if len(res.EngineResults) > 0 {
			sb.WriteString("Results:\n")
			for _, kind := range sortedKinds(res.EngineResults) {
				outcome := res.EngineResults[kind]
				if outcome.Failed() {
					fmt.Fprintf(&sb, "  %s: error: %s\n", kind, outcome.Error)
				} else {
					fmt.Fprintf(&sb, "  %s: %v\n", kind, outcome.Payload)
				}
			}
		}
		if len(res.Errors) > 0 {
			sb.WriteString("Errors:\n")
			for _, e := range res.Errors {
				fmt.Fprintf(&sb, "  - %s\n", e)
			}
		}
		return sb.String()

	case FormatSummary:
		return ResultSummary{
			Status:          res.OverallStatus,
			EnginesExecuted: len(res.EngineResults),
			SuccessRate:     successRate(res),
			PrimaryResult:   primaryResult(res),
			ExecutionTime:   res.ExecutionTime,
		}

	default: // FormatRaw
		return res
	}
}

// successRate is the percentage of engines that produced a non-error
// outcome.
func successRate(res *OrchestrationResult) float64 {
	if len(res.EngineResults) == 0 {
		return 0
	}
	succeeded := 0
	for _, outcome := range res.EngineResults {
		if !outcome.Failed() {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(res.EngineResults)) * 100
}

// primaryResult is the first non-error engine payload in kind order.
func primaryResult(res *OrchestrationResult) map[string]any {
	for _, kind := range sortedKinds(res.EngineResults) {
		outcome := res.EngineResults[kind]
		if !outcome.Failed() {
			return outcome.Payload
		}
	}
	return nil
}

func sortedKinds(outcomes map[EngineKind]EngineOutcome) []EngineKind {
	kinds := make([]EngineKind, 0, len(outcomes))
	for kind := range outcomes {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Analyze executes an analyze command over the given data.
func (c *ControlInterface) Analyze(ctx context.Context, data any, analysisType string) *CommandResult {
	return c.ExecuteCommand(ctx, Command{
		Type:      CommandAnalyze,
		Operation: "analyze_data",
		Parameters: map[string]any{
			"data":          data,
			"analysis_type": analysisType,
		},
	})
}

// Optimize executes an optimize command against the given target.
func (c *ControlInterface) Optimize(ctx context.Context, target string, parameters map[string]any) *CommandResult {
	return c.ExecuteCommand(ctx, Command{
		Type:      CommandOptimize,
		Operation: "optimize_target",
		Parameters: map[string]any{
			"target":     target,
			"parameters": parameters,
		},
	})
}

// Predict executes a predict command over the given data.
func (c *ControlInterface) Predict(ctx context.Context, data any, predictionType string) *CommandResult {
	return c.ExecuteCommand(ctx, Command{
		Type:      CommandPredict,
		Operation: "make_prediction",
		Parameters: map[string]any{
			"data":            data,
			"prediction_type": predictionType,
		},
	})
}

// Secure executes a secure command against the given resource.
func (c *ControlInterface) Secure(ctx context.Context, resource, securityLevel string) *CommandResult {
	return c.ExecuteCommand(ctx, Command{
		Type:      CommandSecure,
		Operation: "secure_resource",
		Parameters: map[string]any{
			"resource":       resource,
			"security_level": securityLevel,
		},
	})
}

// Scale executes a scale command against the given target.
func (c *ControlInterface) Scale(ctx context.Context, target, direction string) *CommandResult {
	return c.ExecuteCommand(ctx, Command{
		Type:      CommandScale,
		Operation: "scale_target",
		Parameters: map[string]any{
			"target":          target,
			"scale_direction": direction,
		},
	})
}

// InterfaceStatus is a point-in-time introspection snapshot.
type InterfaceStatus struct {
	Orchestrator   OrchestratorStatus           `json:"orchestrator"`
	CommandCount   int                          `json:"command_count"`
	ResultCount    int                          `json:"result_count"`
	EngineStatuses map[EngineKind]EngineSummary `json:"engine_statuses"`
}

// Status reports the interface's current state, including orchestrator and
// per-engine summaries.
func (c *ControlInterface) Status() InterfaceStatus {
	c.mu.Lock()
	commandCount := len(c.commands)
	resultCount := len(c.results)
	c.mu.Unlock()

	return InterfaceStatus{
		Orchestrator:   c.orch.Status(),
		CommandCount:   commandCount,
		ResultCount:    resultCount,
		EngineStatuses: c.orch.registry.Summary(),
	}
}

// CommandHistoryEntry summarizes one submitted command.
type CommandHistoryEntry struct {
	ID        string      `json:"id"`
	Type      CommandType `json:"type"`
	Operation string      `json:"operation"`
	Priority  int         `json:"priority"`
	CreatedAt time.Time   `json:"created_at"`
}

// CommandHistory returns up to limit of the most recent commands, oldest
// first. A non-positive limit returns everything retained.
func (c *ControlInterface) CommandHistory(limit int) []CommandHistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	commands := c.commands
	if limit > 0 && len(commands) > limit {
		commands = commands[len(commands)-limit:]
	}
	entries := make([]CommandHistoryEntry, 0, len(commands))
	for _, cmd := range commands {
		entries = append(entries, CommandHistoryEntry{
			ID:        cmd.ID,
			Type:      cmd.Type,
			Operation: cmd.Operation,
			Priority:  cmd.Priority,
			CreatedAt: cmd.CreatedAt,
		})
	}
	return entries
}

// PerformanceMetrics aggregates the retained result history.
type PerformanceMetrics struct {
	TotalCommands        int           `json:"total_commands"`
	SuccessfulCommands   int           `json:"successful_commands"`
	SuccessRate          float64       `json:"success_rate"`
	AverageExecutionTime time.Duration `json:"average_execution_time"`
	MinExecutionTime     time.Duration `json:"min_execution_time"`
	MaxExecutionTime     time.Duration `json:"max_execution_time"`
}

// Performance computes aggregate metrics over the retained result history.
func (c *ControlInterface) Performance() PerformanceMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	metrics := PerformanceMetrics{TotalCommands: len(c.results)}
	if len(c.results) == 0 {
		return metrics
	}

	var total time.Duration
	metrics.MinExecutionTime = c.results[0].ExecutionTime
	for _, res := range c.results {
		if res.Status == CommandStatusCompleted {
			metrics.SuccessfulCommands++
		}
		total += res.ExecutionTime
		if res.ExecutionTime < metrics.MinExecutionTime {
			metrics.MinExecutionTime = res.ExecutionTime
		}
		if res.ExecutionTime > metrics.MaxExecutionTime {
			metrics.MaxExecutionTime = res.ExecutionTime
		}
	}
	metrics.SuccessRate = float64(metrics.SuccessfulCommands) / float64(len(c.results)) * 100
	metrics.AverageExecutionTime = total / time.Duration(len(c.results))
	return metrics
}
