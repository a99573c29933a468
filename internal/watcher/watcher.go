// Package watcher monitors a vault directory for note file changes and
// delivers debounced batches of (changed, deleted) note ids to a batch
// handler. Filesystem events arrive on one goroutine and are buffered
// under a mutex; a second goroutine flushes the pending batch once the
// debounce window has elapsed since the last event, mirroring the
// teacher's own split between an event-receiving goroutine and a
// periodic tick goroutine sharing state under a lock.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/vault"
)

// DefaultDebounce is the default window of quiet time required before a
// batch of pending changes is flushed.
const DefaultDebounce = 150 * time.Millisecond

// BatchFunc receives one flushed batch: ids created or modified, and ids
// deleted, since the previous flush.
type BatchFunc func(changed, deleted []model.NoteID)

// Watcher watches a single vault directory.
type Watcher struct {
	vaultDir  string
	debounce  time.Duration
	onBatch   BatchFunc
	log       *slog.Logger

	fsw *fsnotify.Watcher

	mu            sync.Mutex
	added         map[model.NoteID]bool
	modified      map[model.NoteID]bool
	deleted       map[model.NoteID]bool
	lastEventTime time.Time
}

// New creates a Watcher over vaultDir. Call Run to start it.
func New(vaultDir string, debounce time.Duration, onBatch BatchFunc, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(vaultDir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		vaultDir: vaultDir,
		debounce: debounce,
		onBatch:  onBatch,
		log:      log,
		fsw:      fsw,
		added:    map[model.NoteID]bool{},
		modified: map[model.NoteID]bool{},
		deleted:  map[model.NoteID]bool{},
	}, nil
}

// Run blocks, processing filesystem events and periodic debounce checks
// until ctx is cancelled. Any pending batch is flushed before Run
// returns, so a caller handling SIGINT/SIGTERM by cancelling ctx does
// not lose the last partial batch.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			w.flush()
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				w.flush()
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				continue
			}
			w.log.Warn("watcher error", "error", err)

		case <-ticker.C:
			w.checkAndFlush()
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	id, ok := extractID(ev.Name)
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		w.deleted[id] = true
		delete(w.added, id)
		delete(w.modified, id)
	case ev.Op&fsnotify.Create != 0:
		w.added[id] = true
		delete(w.deleted, id)
	case ev.Op&fsnotify.Write != 0:
		w.modified[id] = true
		delete(w.deleted, id)
	default:
		return
	}
	w.lastEventTime = time.Now()
}

// extractID returns the note id for path, or ok=false for paths the
// watcher should ignore: hidden files, editor swap/backup files, and
// anything not using the vault's note extension.
func extractID(path string) (model.NoteID, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	if strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, ".#") {
		return "", false
	}
	if !strings.HasSuffix(name, vault.Extension) {
		return "", false
	}
	return strings.TrimSuffix(name, vault.Extension), true
}

// checkAndFlush flushes the pending batch once debounce has elapsed
// since the last event.
func (w *Watcher) checkAndFlush() {
	w.mu.Lock()
	empty := len(w.added) == 0 && len(w.modified) == 0 && len(w.deleted) == 0
	elapsed := time.Since(w.lastEventTime)
	w.mu.Unlock()

	if empty || elapsed < w.debounce {
		return
	}
	w.flush()
}

// flush delivers and clears the pending batch, merging added+modified
// into "changed" per the debounce contract (a create-then-write within
// one window is reported once, as changed).
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.added) == 0 && len(w.modified) == 0 && len(w.deleted) == 0 {
		w.mu.Unlock()
		return
	}
	changedSet := make(map[model.NoteID]bool, len(w.added)+len(w.modified))
	for id := range w.added {
		changedSet[id] = true
	}
	for id := range w.modified {
		changedSet[id] = true
	}
	deletedSet := w.deleted

	w.added = map[model.NoteID]bool{}
	w.modified = map[model.NoteID]bool{}
	w.deleted = map[model.NoteID]bool{}
	w.mu.Unlock()

	changed := make([]model.NoteID, 0, len(changedSet))
	for id := range changedSet {
		changed = append(changed, id)
	}
	deleted := make([]model.NoteID, 0, len(deletedSet))
	for id := range deletedSet {
		deleted = append(deleted, id)
	}

	if w.onBatch != nil {
		w.onBatch(changed, deleted)
	}
}
