// Package watch implements the ChangeWatcher external collaborator for live
// mode: it signals the CLI's cooperative redraw loop whenever the
// repository's on-disk state may have changed (spec §5, "Live mode
// introduces one cooperative scheduler loop outside the core").
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeWatcher is the external collaborator live mode polls between
// renders. Changed fires whenever the repository may have changed; the
// core itself has no async contract to satisfy (spec §9, "Coroutines").
type ChangeWatcher interface {
	Changed() <-chan struct{}
	Close() error
}

// FSWatcher watches a repository's refs, packed-refs, and HEAD for changes
// via fsnotify, falling back to a plain interval timer (so renames,
// atomic-replace ref updates, and filesystems without inotify support still
// trigger a redraw).
type FSWatcher struct {
	watcher *fsnotify.Watcher
	ticker  *time.Ticker
	changed chan struct{}
	done    chan struct{}
}

// NewFSWatcher watches gitDir for changes, polling at least every
// pollEvery as a fallback.
func NewFSWatcher(gitDir string, pollEvery time.Duration) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "logs", "refs", "heads"),
	} {
		_ = w.Add(dir) // best-effort: a missing dir (e.g. no branches yet) isn't fatal
	}

	fw := &FSWatcher{
		watcher: w,
		ticker:  time.NewTicker(pollEvery),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *FSWatcher) loop() {
	for {
		select {
		case <-fw.done:
			return
		case _, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.notify()
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.notify()
		case <-fw.ticker.C:
			fw.notify()
		}
	}
}

func (fw *FSWatcher) notify() {
	select {
	case fw.changed <- struct{}{}:
	default:
	}
}

// Changed fires whenever the repository may have changed.
func (fw *FSWatcher) Changed() <-chan struct{} { return fw.changed }

// Close stops the watcher.
func (fw *FSWatcher) Close() error {
	close(fw.done)
	fw.ticker.Stop()
	return fw.watcher.Close()
}
