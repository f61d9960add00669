package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"powertimer/internal/ui/preferences"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the settings file whenever it changes on disk.
type Watcher struct {
	path     string
	onChange func(preferences.Settings)
	logger   zerolog.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a watcher for the settings file at path.
func NewWatcher(path string, onChange func(preferences.Settings), logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
		debounce: defaultDebounce,
	}
}

// Start begins watching until ctx is cancelled or Close is called.
// The parent directory is watched because atomic saves replace the file.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	w.watcher = watcher

	w.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", w.path).
		Msg("watching settings file for changes")

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Close stops the watcher and waits for the loop to exit. No onChange call
// starts or is still running once Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Debug().
				Str("event", "config.file_changed").
				Str("op", event.Op.String()).
				Msg("settings file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("settings watcher error")
		}
	}
}

func (w *Watcher) reload() {
	settings, err := LoadSettings(w.path)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("keeping previous settings")
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.logger.Info().Str("event", "config.reloaded").Msg("settings reloaded")
	if w.onChange != nil {
		w.onChange(settings)
	}
}
