package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"conformance-hq/surveyor/pkg/assess"
)

// schemaVersion guards against reading databases written by incompatible
// versions.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_info (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	target       TEXT NOT NULL,
	spec_version TEXT NOT NULL,
	composite    INTEGER NOT NULL,
	level        TEXT NOT NULL,
	generated_at TIMESTAMP NOT NULL,
	payload      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_target_time
	ON reports (target, generated_at DESC);
`

// SQLiteConfig contains configuration for the SQLite history backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging for concurrent fleet writers.
	// Default: true
	WALMode bool

	// BusyTimeout is the wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) a SQLite history database.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "history.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_info (version) VALUES (?)", schemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow("SELECT MAX(version) FROM schema_info").Scan(&version); err != nil {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != schemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", schemaVersion, version))
	}
	return nil
}

// Save persists a report row plus its full JSON payload.
func (s *SQLiteStore) Save(ctx context.Context, report *assess.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return NewStorageError("sqlite", "marshal", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, target, spec_version, composite, level, generated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Target, report.SpecVersion,
		report.CompositeScore, report.Level.String(),
		report.GeneratedAt.UTC(), string(payload),
	)
	if err != nil {
		return NewStorageError("sqlite", "insert", err)
	}
	return nil
}

// Latest returns a target's reports, newest first.
func (s *SQLiteStore) Latest(ctx context.Context, target string, limit int) ([]*assess.Report, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM reports
		WHERE target = ?
		ORDER BY generated_at DESC, id DESC
		LIMIT ?`, target, limit)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var reports []*assess.Report
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		var report assess.Report
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, NewStorageError("sqlite", "unmarshal", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "iterate", err)
	}
	return reports, nil
}

// Targets returns all known targets in sorted order.
func (s *SQLiteStore) Targets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT target FROM reports ORDER BY target`)
	if err != nil {
		return nil, NewStorageError("sqlite", "query_targets", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		targets = append(targets, target)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "iterate", err)
	}
	return targets, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
