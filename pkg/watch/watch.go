// Package watch re-runs a callback when org files in a directory change.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher watches one directory, without descending into subdirectories.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	suffix    string
	debounce  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// New starts watching dir for changes to files ending in suffix.
func New(dir, suffix string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		dir:       dir,
		suffix:    suffix,
		debounce:  defaultDebounce,
		trigger:   make(chan struct{}, 1),
	}, nil
}

// SetDebounce changes how long a burst of events must be quiet before fn runs.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run calls fn after every debounced burst of relevant changes until ctx is
// done. fn runs on the calling goroutine, so runs never overlap. Errors from
// fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	defer w.Close()
	log.Info("watching for changes", "dir", w.dir, "suffix", w.suffix)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		case <-w.trigger:
			if err := fn(ctx); err != nil {
				log.Error("run after change failed", "err", err)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	// Editor lock and backup files share the suffix.
	if strings.HasPrefix(name, ".#") || strings.HasPrefix(name, "#") {
		return false
	}
	return strings.HasSuffix(name, w.suffix)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.relevant(event) {
		return
	}
	log.Debug("change detected", "op", event.Op, "file", event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}
