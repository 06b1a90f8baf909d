// Package store persists run history for check and emit runs.
//
// Records feed the `docsite history` command and the watch mode status
// endpoint. The SQLite implementation supports ":memory:" for tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run kinds.
const (
	KindCheck = "check"
	KindEmit  = "emit"
)

// Run outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeWarnings = "warnings"
	OutcomeErrors   = "errors"
	OutcomeFailed   = "failed"
)

// ErrNotFound is returned when no run with the requested ID exists.
var ErrNotFound = errors.New("run not found")

// RunRecord is a single check or emit run in the history.
type RunRecord struct {
	ID           string        `json:"id"`
	Kind         string        `json:"kind"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Outcome      string        `json:"outcome"`
	Errors       int           `json:"errors"`
	Warnings     int           `json:"warnings"`
	Infos        int           `json:"infos"`
	Pages        int           `json:"pages"`
	ManifestHash string        `json:"manifest_hash,omitempty"`
}

// Store defines the interface for persisting and retrieving run records.
type Store interface {
	// Append adds a run record to the history.
	Append(ctx context.Context, rec RunRecord) error

	// Recent returns the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]RunRecord, error)

	// RecentByKind returns the most recent runs of one kind, newest first.
	RecentByKind(ctx context.Context, kind string, limit int) ([]RunRecord, error)

	// GetByID retrieves a single run by its ID.
	GetByID(ctx context.Context, id string) (RunRecord, error)

	// Close closes the store and releases resources.
	Close() error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// OutcomeFor maps issue counts of a completed run to an outcome label.
func OutcomeFor(errorCount, warningCount int) string {
	switch {
	case errorCount > 0:
		return OutcomeErrors
	case warningCount > 0:
		return OutcomeWarnings
	default:
		return OutcomeOK
	}
}
