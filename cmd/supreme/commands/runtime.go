package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/syncsphere/supreme/pkg/config"
	"github.com/syncsphere/supreme/pkg/providers/sim"
	"github.com/syncsphere/supreme/pkg/stores"
	"github.com/syncsphere/supreme/pkg/supreme"
	"github.com/syncsphere/supreme/pkg/telemetry"
)

// runtime bundles a fully wired coordination core for one CLI invocation.
type runtime struct {
	cfg       *config.Config
	tel       *telemetry.Telemetry
	archive   *stores.SQLiteStore
	registry  *supreme.Registry
	orch      *supreme.Orchestrator
	control   *supreme.ControlInterface
	decisions *supreme.DecisionMaker
	executor  *supreme.Executor
}

// loadConfig loads the configuration from the --config flag, falling back
// to built-in defaults when no file is given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.NewLoader().Load(configPath)
}

// newRuntime assembles the coordination core: telemetry, optional archive,
// registry with simulated engines, orchestrator, control interface,
// decision maker, and executor. The orchestrator dispatcher is started
// before returning.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	tel, err := telemetry.NewTelemetry(cfg.TelemetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	rt := &runtime{cfg: cfg, tel: tel}

	if cfg.Store.Enabled {
		archive, err := stores.NewSQLiteStore(stores.Config{Path: cfg.Store.Path})
		if err != nil {
			return nil, err
		}
		if err := archive.Init(ctx); err != nil {
			return nil, err
		}
		if err := archive.Migrate(ctx); err != nil {
			_ = archive.Close()
			return nil, err
		}
		rt.archive = archive
	}

	rt.registry = supreme.NewRegistry(tel.Logger)
	if err := rt.registerEngines(); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	var recorder supreme.RunRecorder
	if rt.archive != nil {
		recorder = rt.archive
	}

	rt.orch = supreme.NewOrchestrator(rt.registry, supreme.OrchestratorOptions{
		QueueSize: cfg.Orchestrator.QueueSize,
		Logger:    tel.Logger,
		Metrics:   tel.Metrics,
		Events:    tel.Events,
		Tracer:    tel.Tracer,
		Recorder:  recorder,
	})
	if err := rt.orch.Start(ctx); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	rt.control = supreme.NewControlInterface(rt.orch, supreme.ControlOptions{
		HistoryLimit: cfg.Control.HistoryLimit,
		Logger:       tel.Logger,
		Metrics:      tel.Metrics,
		Events:       tel.Events,
		Tracer:       tel.Tracer,
	})

	rt.decisions = supreme.NewDecisionMaker(rt.control, supreme.DecisionMakerOptions{
		HistoryLimit: cfg.Decision.HistoryLimit,
		Logger:       tel.Logger,
		Metrics:      tel.Metrics,
		Events:       tel.Events,
		Tracer:       tel.Tracer,
		Recorder:     recorder,
	})

	rt.executor = supreme.NewExecutor(rt.control, supreme.ExecutorOptions{
		HistoryLimit: cfg.Decision.HistoryLimit,
		Logger:       tel.Logger,
		Metrics:      tel.Metrics,
		Events:       tel.Events,
		Tracer:       tel.Tracer,
	})

	return rt, nil
}

// registerEngines registers one simulated engine per configured kind. With
// no engines configured, the full fleet is registered so every command type
// is routable out of the box.
func (rt *runtime) registerEngines() error {
	if len(rt.cfg.Engines) == 0 {
		fleet, err := sim.Fleet(sim.Config{})
		if err != nil {
			return err
		}
		for kind, eng := range fleet {
			rt.registry.Register(kind, eng, nil, 5)
		}
		return nil
	}

	for _, ec := range rt.cfg.Engines {
		if !ec.Enabled {
			continue
		}
		kind := supreme.EngineKind(ec.Kind)
		eng, err := sim.New(sim.Config{Kind: kind})
		if err != nil {
			return err
		}
		if !rt.registry.Register(kind, eng, ec.Capabilities, ec.Priority) {
			return fmt.Errorf("failed to register engine %s", ec.Kind)
		}
	}
	return nil
}

// Close stops the dispatcher and releases the archive and telemetry.
func (rt *runtime) Close(ctx context.Context) {
	if rt.orch != nil {
		rt.orch.Stop()
	}
	if rt.archive != nil {
		_ = rt.archive.Close()
	}
	if rt.tel != nil {
		_ = rt.tel.Shutdown(ctx)
	}
}

// openArchive opens the configured archive for read-only history queries
// without assembling the full core.
func openArchive(ctx context.Context) (*stores.SQLiteStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Store.Enabled {
		return nil, fmt.Errorf("store is not enabled in configuration")
	}

	archive, err := stores.NewSQLiteStore(stores.Config{Path: cfg.Store.Path})
	if err != nil {
		return nil, err
	}
	if err := archive.Init(ctx); err != nil {
		return nil, err
	}
	if err := archive.Migrate(ctx); err != nil {
		_ = archive.Close()
		return nil, err
	}
	return archive, nil
}

// parseParams converts key=value pairs into an operation parameter map.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
