package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"viewlint/internal/diag"
	"viewlint/internal/symbols"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT,
			since TEXT,
			started_at INTEGER,
			duration_ms INTEGER,
			file_count INTEGER,
			type_count INTEGER,
			error_count INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			run_id TEXT REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER,
			code TEXT,
			severity TEXT,
			type_name TEXT,
			type_id TEXT,
			message TEXT,
			filepath TEXT,
			start_offset INTEGER,
			end_offset INTEGER,
			line INTEGER,
			col INTEGER,
			extent_start INTEGER,
			extent_end INTEGER,
			fixable INTEGER,
			PRIMARY KEY (run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_file ON diagnostics(filepath);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, diagnostics []diag.Diagnostic) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Save Run
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, since, started_at, duration_ms, file_count, type_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			root=excluded.root,
			since=excluded.since,
			started_at=excluded.started_at,
			duration_ms=excluded.duration_ms,
			file_count=excluded.file_count,
			type_count=excluded.type_count,
			error_count=excluded.error_count
	`, run.ID, run.Root, run.Since, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.FileCount, run.TypeCount, run.ErrorCount)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	// 2. Replace Diagnostics
	if _, err := tx.ExecContext(ctx, "DELETE FROM diagnostics WHERE run_id = ?", run.ID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (run_id, seq, code, severity, type_name, type_id, message, filepath,
			start_offset, end_offset, line, col, extent_start, extent_end, fixable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range diagnostics {
		loc := d.Location
		if _, err := stmt.ExecContext(ctx, run.ID, i, d.Code, d.Severity.String(), d.TypeName, d.TypeID, d.Message, loc.File,
			loc.Start, loc.End, loc.Line, loc.Column, d.Extent.Start, d.Extent.End, d.Fixable); err != nil {
			return fmt.Errorf("failed to save diagnostic: %w", err)
		}
	}

	return tx.Commit()
}

const runColumns = "id, root, since, started_at, duration_ms, file_count, type_count, error_count"

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var started, durationMS int64
	if err := row.Scan(&r.ID, &r.Root, &r.Since, &started, &durationMS, &r.FileCount, &r.TypeCount, &r.ErrorCount); err != nil {
		return Run{}, err
	}
	r.StartedAt = time.UnixMilli(started)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs WHERE substr(id, 1, length(?)) = ? ORDER BY id = ? DESC LIMIT 2", id, id, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(found) > 1 && found[0].ID != id:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
	return &found[0], nil
}

func (s *SQLiteStore) LoadDiagnostics(ctx context.Context, runID string) ([]diag.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, severity, type_name, type_id, message, filepath, start_offset, end_offset, line, col, extent_start, extent_end, fixable
		FROM diagnostics WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	var out []diag.Diagnostic
	for rows.Next() {
		var d diag.Diagnostic
		var sev string
		var loc symbols.Location
		if err := rows.Scan(&d.Code, &sev, &d.TypeName, &d.TypeID, &d.Message, &loc.File, &loc.Start, &loc.End,
			&loc.Line, &loc.Column, &d.Extent.Start, &d.Extent.End, &d.Fixable); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		d.Location = loc
		d.Severity = diag.ParseSeverity(sev)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		if _, err := s.GetRun(ctx, runID); errors.Is(err, ErrRunNotFound) {
			return nil, err
		}
	}
	return out, nil
}
