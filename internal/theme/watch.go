package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWatcherClosed is returned when operating on a closed watcher.
var ErrWatcherClosed = errors.New("preference watcher is closed")

// DefaultDebounce coalesces bursts of writes to the preference file.
const DefaultDebounce = 50 * time.Millisecond

// PreferenceWatcher follows a file holding "light" or "dark" and reports
// the scheme each time the file changes.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file by rename are still observed.
type PreferenceWatcher struct {
	path     string
	debounce time.Duration
	onChange func(Scheme)
	log      zerolog.Logger

	watcher *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// WatcherOption configures a PreferenceWatcher.
type WatcherOption func(*PreferenceWatcher)

// WithDebounce sets the coalescing window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *PreferenceWatcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for read and watch errors.
func WithLogger(l zerolog.Logger) WatcherOption {
	return func(w *PreferenceWatcher) {
		w.log = l
	}
}

// NewPreferenceWatcher creates a watcher for path. onChange runs on the
// watcher goroutine.
func NewPreferenceWatcher(path string, onChange func(Scheme), opts ...WatcherOption) (*PreferenceWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve preference path: %w", err)
	}
	w := &PreferenceWatcher{
		path:     abs,
		debounce: DefaultDebounce,
		onChange: onChange,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.watcher = fsw
	return w, nil
}

// ReadPreference reads and parses a preference file.
func ReadPreference(path string) (Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Light, err
	}
	return ParseScheme(string(data))
}

// Run processes file events until ctx is cancelled or Close is called.
// The current file content is reported once at start.
func (w *PreferenceWatcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	w.report()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Str("path", w.path).Msg("preference watch error")

		case <-fire:
			fire = nil
			w.report()
		}
	}
}

func (w *PreferenceWatcher) report() {
	s, err := ReadPreference(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.log.Warn().Err(err).Str("path", w.path).Msg("read color scheme preference")
		}
		return
	}
	if w.onChange != nil {
		w.onChange(s)
	}
}

// Close stops the watcher and waits for Run to return.
func (w *PreferenceWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
