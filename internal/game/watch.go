package game

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func(string) // called with path that changed
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done. It always returns nil so it can sit in an
// errgroup next to the servers.
func (w *FileWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	// prime cache
	w.scanAll(true)
	for {
		select {
		case <-ticker.C:
			w.scanAll(false)
		case <-ctx.Done():
			return nil
		}
	}
}

// scanAll checks mtimes and invokes onChange for files that changed, or
// appeared, since last scan.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// if file missing, keep going; it counts as new once it shows up
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		if ok && !mt.After(last) {
			continue
		}
		w.lastMTime[p] = mt
		if prime || w.onChange == nil {
			continue
		}
		slog.Info("config file changed", "path", p)
		w.onChange(p)
	}
}
