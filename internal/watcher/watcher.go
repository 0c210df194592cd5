// Package watcher watches the workspace directories and announces, after a
// quiet period, that the file tree should be re-read.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/pubsub"
)

// Change lists the paths touched during one debounce window.
type Change struct {
	Paths []string
}

// Config holds watcher configuration options.
type Config struct {
	Debounce time.Duration
	// Ignore lists base names that never trigger a refresh, such as the
	// interpreter temp file.
	Ignore []string
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig() Config {
	return Config{Debounce: 200 * time.Millisecond}
}

// Watcher monitors workspace directories for entries being created,
// removed or renamed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	ignore    map[string]bool
	broker    *pubsub.Broker[Change]

	mu      sync.Mutex
	watched map[string]bool

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. Nothing is watched until Sync.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	ignore := make(map[string]bool, len(cfg.Ignore))
	for _, name := range cfg.Ignore {
		ignore[name] = true
	}
	w := &Watcher{
		fsWatcher: fsw,
		debounce:  cfg.Debounce,
		ignore:    ignore,
		broker:    pubsub.NewBroker[Change](),
		watched:   make(map[string]bool),
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Broker publishes one Change per debounce window.
func (w *Watcher) Broker() *pubsub.Broker[Change] {
	return w.broker
}

// Sync makes the watched set equal to dirs. Directories that cannot be
// watched are logged and skipped.
func (w *Watcher) Sync(dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[filepath.Clean(d)] = true
	}
	for d := range w.watched {
		if !want[d] {
			_ = w.fsWatcher.Remove(d)
			delete(w.watched, d)
		}
	}
	var firstErr error
	for d := range want {
		if w.watched[d] {
			continue
		}
		if err := w.fsWatcher.Add(d); err != nil {
			log.ErrorErr(log.CatWatcher, "watch failed", err, "dir", d)
			if firstErr == nil {
				firstErr = fmt.Errorf("watching directory %s: %w", d, err)
			}
			continue
		}
		w.watched[d] = true
	}
	return firstErr
}

// Watched returns the watched directories, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.watched))
	for d := range w.watched {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Stop terminates the watcher and closes the broker.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.broker.Close()
	})
	return err
}

// loop collects relevant events and publishes them once the debounce timer
// expires. Each new event restarts the timer.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			log.Debug(log.CatWatcher, "workspace changed", "paths", len(paths))
			w.broker.Publish(pubsub.ChangedEvent, Change{Paths: paths})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether event changes what the tree shows.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return !w.ignore[base]
}
