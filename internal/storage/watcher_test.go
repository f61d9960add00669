package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"powertimer/internal/core/commands"
	"powertimer/internal/ui/preferences"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PowerTimer", "settings.yaml")
	require.NoError(t, SaveSettings(path, preferences.DefaultSettings()))

	var mu sync.Mutex
	var received []preferences.Settings
	watcher := NewWatcher(path, func(settings preferences.Settings) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, settings)
	}, zerolog.Nop())
	watcher.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Close() }()

	updated := preferences.DefaultSettings()
	updated.KeepAwake = true
	updated.EndCommands = []string{commands.DisableBluetooth}
	require.NoError(t, SaveSettings(path, updated))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0 && received[len(received)-1].KeepAwake
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{commands.DisableBluetooth}, received[len(received)-1].EndCommands)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	calls := make(chan preferences.Settings, 4)
	watcher := NewWatcher(path, func(settings preferences.Settings) { calls <- settings }, zerolog.Nop())
	watcher.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Close() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	select {
	case <-calls:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherSkipsReloadAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, SaveSettings(path, preferences.DefaultSettings()))

	calls := 0
	watcher := NewWatcher(path, func(preferences.Settings) { calls++ }, zerolog.Nop())
	require.NoError(t, watcher.Close())

	watcher.reload()
	assert.Zero(t, calls)
}

func TestWatcherCloseWaitsForRunningReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, SaveSettings(path, preferences.DefaultSettings()))

	entered := make(chan struct{})
	release := make(chan struct{})
	watcher := NewWatcher(path, func(preferences.Settings) {
		close(entered)
		<-release
	}, zerolog.Nop())

	reloaded := make(chan struct{})
	go func() {
		watcher.reload()
		close(reloaded)
	}()
	<-entered

	closed := make(chan struct{})
	go func() {
		_ = watcher.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while onChange was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-reloaded
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after onChange finished")
	}
}
