package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/notemap/notemap/internal/logging"
)

// watchDebounce collapses the burst of events an editor save produces into
// a single content check.
const watchDebounce = 200 * time.Millisecond

// Watcher monitors one map file for external modification. Events are
// debounced, then the file's content hash is compared against the hash of
// our own last write; only a genuine divergence is reported. The watcher
// observes the file's directory rather than the file itself so the
// atomic-rename saves other processes (and we ourselves) perform still
// register.
type Watcher struct {
	path    string
	fw      *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}

	mu     sync.Mutex
	ownSum uint64

	log *slog.Logger
}

// WatchFile starts watching the map file at path. lastSum is the content
// hash of the bytes we most recently read or wrote, seeding the self-write
// gate.
func WatchFile(path string, lastSum uint64) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		path:    path,
		fw:      fw,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		ownSum:  lastSum,
		log:     logging.New("store"),
	}
	go w.run()
	return w, nil
}

// Changed delivers one signal per detected external modification. The
// channel closes when the watcher does, so a pending receive always
// unblocks.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// RecordOwnWrite registers the content hash of a write this process is
// about to perform, so the resulting filesystem events are not reported as
// external changes.
func (w *Watcher) RecordOwnWrite(sum uint64) {
	w.mu.Lock()
	w.ownSum = sum
	w.mu.Unlock()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) run() {
	// run is the only sender on changed, so it alone may close it.
	defer close(w.changed)

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(watchDebounce)
			fire = timer.C
		} else {
			timer.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			schedule()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch map file", "path", w.path, "error", err)
		case <-fire:
			if w.check() {
				select {
				case w.changed <- struct{}{}:
				default:
				}
			}
		}
	}
}

// check reports whether the file on disk now differs from our last own
// write. A file that vanished counts as changed.
func (w *Watcher) check() bool {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return true
		}
		w.log.Warn("read map file for change check", "path", w.path, "error", err)
		return false
	}
	return !w.isOwnWrite(Sum(data))
}

// isOwnWrite is the self-write gate: true when the observed content hash
// matches the last write this process made.
func (w *Watcher) isOwnWrite(sum uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return sum == w.ownSum
}
