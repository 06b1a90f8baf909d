package store

import (
	"errors"
	"testing"
	"time"
)

func TestRunStoreAppendAndRetrieve(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := t.Context()
	rec := RunRecord{
		ID:           "run-1",
		Kind:         KindCheck,
		StartedAt:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:     1500 * time.Millisecond,
		Outcome:      OutcomeWarnings,
		Errors:       0,
		Warnings:     2,
		Infos:        1,
		Pages:        14,
		ManifestHash: "abc123",
	}

	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("failed to append run: %v", err)
	}

	got, err := s.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if got.Kind != KindCheck {
		t.Errorf("expected kind %s, got %s", KindCheck, got.Kind)
	}
	if got.StartedAt.Unix() != rec.StartedAt.Unix() {
		t.Errorf("expected started_at %v, got %v", rec.StartedAt, got.StartedAt)
	}
	if got.Duration != rec.Duration {
		t.Errorf("expected duration %v, got %v", rec.Duration, got.Duration)
	}
	if got.Outcome != OutcomeWarnings {
		t.Errorf("expected outcome %s, got %s", OutcomeWarnings, got.Outcome)
	}
	if got.Warnings != 2 || got.Infos != 1 || got.Pages != 14 {
		t.Errorf("counts not preserved: %+v", got)
	}
	if got.ManifestHash != "abc123" {
		t.Errorf("expected manifest hash abc123, got %s", got.ManifestHash)
	}
}

func TestRunStoreRecent(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := t.Context()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		rec := RunRecord{
			ID:        id,
			Kind:      KindCheck,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Outcome:   OutcomeOK,
		}
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("failed to append run %s: %v", id, err)
		}
	}

	recs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("failed to get recent runs: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recs))
	}
	if recs[0].ID != "run-c" || recs[1].ID != "run-b" {
		t.Errorf("expected newest first, got %s, %s", recs[0].ID, recs[1].ID)
	}
}

func TestRunStoreRecentByKind(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := t.Context()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Append(ctx, RunRecord{ID: "c1", Kind: KindCheck, StartedAt: base, Outcome: OutcomeOK})
	_ = s.Append(ctx, RunRecord{ID: "e1", Kind: KindEmit, StartedAt: base.Add(time.Minute), Outcome: OutcomeOK})
	_ = s.Append(ctx, RunRecord{ID: "c2", Kind: KindCheck, StartedAt: base.Add(2 * time.Minute), Outcome: OutcomeErrors})

	checks, err := s.RecentByKind(ctx, KindCheck, 10)
	if err != nil {
		t.Fatalf("failed to get check runs: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("expected 2 check runs, got %d", len(checks))
	}
	if checks[0].ID != "c2" {
		t.Errorf("expected c2 first, got %s", checks[0].ID)
	}

	emits, err := s.RecentByKind(ctx, KindEmit, 10)
	if err != nil {
		t.Fatalf("failed to get emit runs: %v", err)
	}
	if len(emits) != 1 {
		t.Errorf("expected 1 emit run, got %d", len(emits))
	}
}

func TestRunStoreGetByIDNotFound(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	_, err = s.GetByID(t.Context(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunStoreRejectsEmptyID(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	err = s.Append(t.Context(), RunRecord{Kind: KindCheck, StartedAt: time.Now()})
	if err == nil {
		t.Error("expected error for empty run ID")
	}
}

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		errors   int
		warnings int
		want     string
	}{
		{0, 0, OutcomeOK},
		{0, 3, OutcomeWarnings},
		{1, 0, OutcomeErrors},
		{2, 5, OutcomeErrors},
	}

	for _, tt := range tests {
		if got := OutcomeFor(tt.errors, tt.warnings); got != tt.want {
			t.Errorf("OutcomeFor(%d, %d) = %s, want %s", tt.errors, tt.warnings, got, tt.want)
		}
	}
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a, b)
	}
}
