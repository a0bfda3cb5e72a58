// Package monitor watches config and catalog files and reports changes in debounced batches.
package monitor

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 75 * time.Millisecond

// Handler receives the sorted, de-duplicated paths that changed in one batch.
type Handler func(changed []string)

// Watch blocks until ctx is done, calling onChange for every batch of
// changes to files accepted by match. Files are watched through their
// directory so that editors replacing a file by rename are still seen.
func Watch(ctx context.Context, paths []string, match func(path string) bool, debounce time.Duration, onChange Handler) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	dirs := make(map[string]bool)
	for _, p := range paths {
		dir := p
		if filepath.Ext(p) != "" {
			dir = filepath.Dir(p)
		}
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		dirs[dir] = true
		log.Debugf("Watching %s for changes", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 || !match(ev.Name) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("[watch] error: %v", err)
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			log.Debugf("[watch] %d file(s) changed", len(changed))
			onChange(changed)
		}
	}
}

// MatchFile accepts exactly the given file.
func MatchFile(path string) func(string) bool {
	want := filepath.Clean(path)
	return func(p string) bool {
		return filepath.Clean(p) == want
	}
}

// MatchAny accepts a path any of matchers accepts.
func MatchAny(matchers ...func(string) bool) func(string) bool {
	return func(p string) bool {
		for _, m := range matchers {
			if m(p) {
				return true
			}
		}
		return false
	}
}
