package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func waitReload(t *testing.T, reloads <-chan error, done func(error) bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-reloads:
			if done(err) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for rules reload")
		}
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store := NewStore(nil)
	reloads := make(chan error, 16)
	w, err := NewWatcher(store, path, zaptest.NewLogger(t),
		WithDebounce(50*time.Millisecond),
		WithReloadHook(func(err error) { reloads <- err }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("exercise:\n  load_step: 5\n"), 0o644))
	waitReload(t, reloads, func(err error) bool {
		return err == nil && store.Engine().Tables().Exercise.LoadStep == 5
	})

	require.NoError(t, os.WriteFile(path, []byte("exercise:\n  load_step: 0\n"), 0o644))
	waitReload(t, reloads, func(err error) bool {
		return err != nil
	})
	assert.Equal(t, 5.0, store.Engine().Tables().Exercise.LoadStep)

	require.NoError(t, w.Close())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	store := NewStore(nil)
	before := store.Engine()

	reloads := make(chan error, 4)
	w, err := NewWatcher(store, path, nil,
		WithDebounce(10*time.Millisecond),
		WithReloadHook(func(err error) { reloads <- err }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case err := <-reloads:
		t.Fatalf("unexpected reload: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Same(t, before, store.Engine())

	require.NoError(t, w.Close())
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewWatcher(NewStore(nil), filepath.Join(t.TempDir(), "rules.yaml"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()
	require.NoError(t, w.Close())
}
