// Package stores provides the durable coordination archive for Supreme.
// It includes SQLite-based storage with WAL mode, connection pooling,
// and append-only records of completed orchestration runs and decisions.
package stores
