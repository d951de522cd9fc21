package stores

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/syncsphere/supreme/pkg/supreme"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements the Archive interface using SQLite
type SQLiteStore struct {
	db   *sql.DB
	cfg  Config
	path string
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite archive instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Set defaults
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	return &SQLiteStore{
		cfg:  cfg,
		path: cfg.Path,
	}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	// Open database with SQLite-specific connection parameters
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	// Verify connection and set PRAGMAs
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Ensure foreign keys are enabled (connection-level setting)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// Create migration source from embedded FS
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	// Create database driver
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	// Create migration instance
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// RecordRun archives one completed orchestration request and result.
func (s *SQLiteStore) RecordRun(ctx context.Context, req *supreme.OrchestrationRequest, res *supreme.OrchestrationResult) error {
	if req == nil || res == nil {
		return fmt.Errorf("request and result are required")
	}

	engines, err := json.Marshal(req.RequiredEngines)
	if err != nil {
		return fmt.Errorf("failed to marshal required engines: %w", err)
	}

	params, err := json.Marshal(req.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	outcomes, err := json.Marshal(res.EngineResults)
	if err != nil {
		return fmt.Errorf("failed to marshal engine results: %w", err)
	}

	var errorsJSON *string
	if len(res.Errors) > 0 {
		b, err := json.Marshal(res.Errors)
		if err != nil {
			return fmt.Errorf("failed to marshal errors: %w", err)
		}
		v := string(b)
		errorsJSON = &v
	}

	var warningsJSON *string
	if len(res.Warnings) > 0 {
		b, err := json.Marshal(res.Warnings)
		if err != nil {
			return fmt.Errorf("failed to marshal warnings: %w", err)
		}
		v := string(b)
		warningsJSON = &v
	}

	query := `
		INSERT INTO runs (
			id, operation, strategy, status, required_engines, parameters,
			engine_results, errors, warnings, execution_time_ms, completed_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		req.ID,
		req.Operation,
		string(req.Strategy),
		string(res.OverallStatus),
		string(engines),
		string(params),
		string(outcomes),
		errorsJSON,
		warningsJSON,
		res.ExecutionTime.Milliseconds(),
		res.CompletedAt.UTC(),
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// RecordDecision archives one supreme decision.
func (s *SQLiteStore) RecordDecision(ctx context.Context, decision *supreme.SupremeDecision) error {
	if decision == nil {
		return fmt.Errorf("decision is required")
	}

	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	query := `
		INSERT INTO decisions (
			id, situation, archetype, score, confidence, payload, decided_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		decision.ID,
		decision.Context.Situation,
		decision.Selected.Archetype,
		decision.Score,
		decision.Confidence,
		string(payload),
		decision.DecidedAt.UTC(),
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	return nil
}

// GetRun retrieves an archived run by request ID
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	query := `
		SELECT id, operation, strategy, status, required_engines, parameters,
			   engine_results, errors, warnings, execution_time_ms, completed_at, created_at
		FROM runs
		WHERE id = ?
	`

	rec := &RunRecord{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Operation,
		&rec.Strategy,
		&rec.Status,
		&rec.RequiredEngines,
		&rec.Parameters,
		&rec.EngineResults,
		&rec.Errors,
		&rec.Warnings,
		&rec.ExecutionTimeMS,
		&rec.CompletedAt,
		&rec.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return rec, nil
}

// ListRuns lists archived runs with pagination, most recent first
func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*RunRecord, error) {
	query := `
		SELECT id, operation, strategy, status, required_engines, parameters,
			   engine_results, errors, warnings, execution_time_ms, completed_at, created_at
		FROM runs
		ORDER BY completed_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	records := []*RunRecord{}
	for rows.Next() {
		rec := &RunRecord{}
		err := rows.Scan(
			&rec.ID,
			&rec.Operation,
			&rec.Strategy,
			&rec.Status,
			&rec.RequiredEngines,
			&rec.Parameters,
			&rec.EngineResults,
			&rec.Errors,
			&rec.Warnings,
			&rec.ExecutionTimeMS,
			&rec.CompletedAt,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return records, nil
}

// GetDecision retrieves an archived decision by ID
func (s *SQLiteStore) GetDecision(ctx context.Context, id string) (*DecisionRecord, error) {
	query := `
		SELECT id, situation, archetype, score, confidence, payload, decided_at, created_at
		FROM decisions
		WHERE id = ?
	`

	rec := &DecisionRecord{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Situation,
		&rec.Archetype,
		&rec.Score,
		&rec.Confidence,
		&rec.Payload,
		&rec.DecidedAt,
		&rec.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("decision not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	return rec, nil
}

// ListDecisions lists archived decisions with pagination, most recent first
func (s *SQLiteStore) ListDecisions(ctx context.Context, limit, offset int) ([]*DecisionRecord, error) {
	query := `
		SELECT id, situation, archetype, score, confidence, payload, decided_at, created_at
		FROM decisions
		ORDER BY decided_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	records := []*DecisionRecord{}
	for rows.Next() {
		rec := &DecisionRecord{}
		err := rows.Scan(
			&rec.ID,
			&rec.Situation,
			&rec.Archetype,
			&rec.Score,
			&rec.Confidence,
			&rec.Payload,
			&rec.DecidedAt,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decisions: %w", err)
	}

	return records, nil
}

// PruneRuns deletes archived runs completed before the cutoff
func (s *SQLiteStore) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM runs WHERE completed_at < ?`

	result, err := s.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// PruneDecisions deletes archived decisions made before the cutoff
func (s *SQLiteStore) PruneDecisions(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM decisions WHERE decided_at < ?`

	result, err := s.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune decisions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// DecodeDecision unmarshals an archived decision payload back into its
// full form.
func DecodeDecision(rec *DecisionRecord) (*supreme.SupremeDecision, error) {
	decision := &supreme.SupremeDecision{}
	if err := json.Unmarshal([]byte(rec.Payload), decision); err != nil {
		return nil, fmt.Errorf("failed to decode decision %s: %w", rec.ID, err)
	}
	return decision, nil
}

// DecodeEngineResults unmarshals an archived run's engine results.
func DecodeEngineResults(rec *RunRecord) (map[supreme.EngineKind]supreme.EngineOutcome, error) {
	results := map[supreme.EngineKind]supreme.EngineOutcome{}
	if err := json.Unmarshal([]byte(rec.EngineResults), &results); err != nil {
		return nil, fmt.Errorf("failed to decode engine results for run %s: %w", rec.ID, err)
	}
	return results, nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}
