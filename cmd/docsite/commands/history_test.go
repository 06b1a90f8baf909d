package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inletra/docsite/internal/store"
)

func seedHistoryStore(t *testing.T) (store.Store, []store.RunRecord) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	runs := []store.RunRecord{
		{
			ID:        store.NewRunID(),
			Kind:      store.KindCheck,
			StartedAt: base,
			Duration:  120 * time.Millisecond,
			Outcome:   store.OutcomeWarnings,
			Warnings:  2,
			Pages:     3,
		},
		{
			ID:           store.NewRunID(),
			Kind:         store.KindEmit,
			StartedAt:    base.Add(time.Minute),
			Duration:     300 * time.Millisecond,
			Outcome:      store.OutcomeOK,
			Pages:        3,
			ManifestHash: "abc123",
		},
	}
	for _, run := range runs {
		require.NoError(t, st.Append(context.Background(), run))
	}
	return st, runs
}

func TestRunHistory_ListsNewestFirst(t *testing.T) {
	st, runs := seedHistoryStore(t)

	var buf bytes.Buffer
	require.NoError(t, RunHistory(&buf, st, "", 20))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "OUTCOME")
	require.Contains(t, lines[1], runs[1].ID)
	require.Contains(t, lines[1], "emit")
	require.Contains(t, lines[2], runs[0].ID)
	require.Contains(t, lines[2], "warnings")
}

func TestRunHistory_FiltersByKind(t *testing.T) {
	st, runs := seedHistoryStore(t)

	var buf bytes.Buffer
	require.NoError(t, RunHistory(&buf, st, store.KindCheck, 20))

	out := buf.String()
	require.Contains(t, out, runs[0].ID)
	require.NotContains(t, out, runs[1].ID)
}

func TestRunHistory_EmptyStore(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var buf bytes.Buffer
	require.NoError(t, RunHistory(&buf, st, "", 20))
	require.Contains(t, buf.String(), "No runs recorded yet")
}

func TestRunHistoryDetail(t *testing.T) {
	st, runs := seedHistoryStore(t)

	var buf bytes.Buffer
	require.NoError(t, RunHistoryDetail(&buf, st, runs[1].ID))

	out := buf.String()
	require.Contains(t, out, "Run "+runs[1].ID)
	require.Contains(t, out, "kind:     emit")
	require.Contains(t, out, "manifest: abc123")

	require.Error(t, RunHistoryDetail(&buf, st, "no-such-run"))
}
