package task

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// mockTask runs ExecuteFn.
type mockTask struct {
	id        string
	owner     string
	ExecuteFn func(ctx context.Context) (any, error)
}

func (m *mockTask) ID() string    { return m.id }
func (m *mockTask) Owner() string { return m.owner }
func (m *mockTask) Type() string  { return "mock" }

func (m *mockTask) Execute(ctx context.Context) (any, error) {
	return m.ExecuteFn(ctx)
}

// waitTerminal polls until the owner's record is terminal.
func waitTerminal(t *testing.T, registry *Registry, id, owner string) Record {
	t.Helper()
	var record *Record
	require.Eventually(t, func() bool {
		var ok bool
		record, ok = registry.Get(id, owner)
		return ok && record.Terminal()
	}, 2*time.Second, 5*time.Millisecond)
	return *record
}
