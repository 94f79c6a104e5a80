// Package runlog persists a per-step record of every edit job the pipeline
// completes, backed by SQLite, and exports the log as CSV for analysis.
package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the schema changes; old databases must be
// deleted rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// version of the tool.
var ErrSchemaMismatch = errors.New("run log schema version mismatch")

// Entry is one completed edit step.
type Entry struct {
	ID          int64
	RunID       string
	Profile     string
	Country     string
	Step        int
	Instruction string
	OutputPath  string
	CreatedAt   time.Time
}

// Store is the SQLite-backed run log.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the run log database under dir, creating it on first use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure run log directory: %w", err)
	}
	dbPath := filepath.Join(dir, "runlog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path reports the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Record appends one completed step.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO run_entries (run_id, profile, country, step, instruction, output_path, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Profile,
		entry.Country,
		entry.Step,
		entry.Instruction,
		entry.OutputPath,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns entries newest first, optionally filtered by run id. A limit
// of zero means no limit.
func (s *Store) List(ctx context.Context, runID string, limit int) ([]Entry, error) {
	query := "SELECT id, run_id, profile, country, step, instruction, output_path, created_at FROM run_entries"
	var args []any
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Profile, &e.Country, &e.Step, &e.Instruction, &e.OutputPath, &created); err != nil {
			return nil, fmt.Errorf("scan run entry: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run entries: %w", err)
	}
	return entries, nil
}

// ExportCSV writes all entries, oldest first, as CSV.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.List(ctx, "", 0)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"run_id", "profile", "country", "step", "instruction", "output_path", "created_at"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		record := []string{
			e.RunID,
			e.Profile,
			e.Country,
			strconv.Itoa(e.Step),
			e.Instruction,
			e.OutputPath,
			e.CreatedAt.Format(time.RFC3339Nano),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
