package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/shelldesk/internal/pubsub"
	"github.com/zjrosen/shelldesk/internal/watcher"
)

func newWatcher(t *testing.T, dirs ...string) (*watcher.Watcher, <-chan pubsub.Event[watcher.Change]) {
	t.Helper()
	w, err := watcher.New(watcher.Config{
		Debounce: 50 * time.Millisecond,
		Ignore:   []string{"temp_script.shl"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ch := w.Broker().Subscribe(ctx)
	require.NoError(t, w.Sync(dirs))
	return w, ch
}

func TestWatcher_DebounceManyCreates(t *testing.T) {
	dir := t.TempDir()
	_, ch := newWatcher(t, dir)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%d.shl", i)), nil, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-ch:
		require.Equal(t, pubsub.ChangedEvent, ev.Type)
		require.Len(t, ev.Payload.Paths, 10)
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-ch:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresHiddenTempAndWrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "main.shl")
	require.NoError(t, os.WriteFile(existing, []byte("a"), 0o644))
	_, ch := newWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swap"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "temp_script.shl"), nil, 0o644))
	require.NoError(t, os.WriteFile(existing, []byte("b"), 0o644))

	select {
	case ev := <-ch:
		t.Fatalf("unexpected notification: %v", ev.Payload.Paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_RemoveIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.shl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, ch := newWatcher(t, dir)

	require.NoError(t, os.Remove(path))

	select {
	case ev := <-ch:
		require.Equal(t, []string{path}, ev.Payload.Paths)
	case <-time.After(time.Second):
		t.Fatal("expected notification for removal")
	}
}

func TestWatcher_Sync(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	w, _ := newWatcher(t, a)
	require.Equal(t, []string{a}, w.Watched())

	require.NoError(t, w.Sync([]string{b}))
	require.Equal(t, []string{b}, w.Watched())

	err := w.Sync([]string{b, filepath.Join(b, "missing")})
	require.Error(t, err)
	require.Equal(t, []string{b}, w.Watched())
}

func TestWatcher_StopClosesSubscriptions(t *testing.T) {
	w, ch := newWatcher(t, t.TempDir())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}
