package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/shelldesk/internal/history"
)

// NewTestStore opens an in-memory run history, closed on cleanup.
func NewTestStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// History accumulates runs and records them in order.
type History struct {
	t     *testing.T
	store *history.Store
	runs  []history.Run
}

// NewHistory creates a builder for store.
func NewHistory(t *testing.T, store *history.Store) *History {
	t.Helper()
	return &History{t: t, store: store}
}

// WithRun adds a run with optional configuration.
func (h *History) WithRun(id string, opts ...RunOption) *History {
	run := defaultRun(id)
	for _, opt := range opts {
		opt(&run)
	}
	h.runs = append(h.runs, run)
	return h
}

// Build records all accumulated runs.
func (h *History) Build() []history.Run {
	h.t.Helper()
	for _, run := range h.runs {
		require.NoError(h.t, h.store.Record(context.Background(), run))
	}
	return h.runs
}
