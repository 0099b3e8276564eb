package storage

import (
	"context"
	"errors"
	"time"

	"viewlint/internal/diag"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run summarizes one check invocation.
type Run struct {
	ID         string
	Root       string
	Since      string // base ref when only changed lines were checked
	StartedAt  time.Time
	Duration   time.Duration
	FileCount  int
	TypeCount  int
	ErrorCount int
}

// Store persists check history.
type Store interface {
	RunStore
	Close() error
}

// RunStore defines operations for recording and querying check runs.
type RunStore interface {
	// SaveRun stores run and its diagnostics. An empty run ID is assigned.
	SaveRun(ctx context.Context, run *Run, diagnostics []diag.Diagnostic) error

	// ListRuns returns the most recent runs first, at most limit (all when limit <= 0).
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// GetRun retrieves a run by ID or ID prefix.
	GetRun(ctx context.Context, id string) (*Run, error)

	// LoadDiagnostics returns the diagnostics recorded for a run.
	LoadDiagnostics(ctx context.Context, runID string) ([]diag.Diagnostic, error)
}
