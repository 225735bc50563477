package save

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Autosaver periodically pulls a snapshot from its source and writes it to a
// store. A final save runs when Run's context ends.
type Autosaver struct {
	store    Store
	key      string
	interval time.Duration
	source   func() Snapshot
}

func NewAutosaver(store Store, key string, interval time.Duration, source func() Snapshot) *Autosaver {
	return &Autosaver{store: store, key: key, interval: interval, source: source}
}

// SaveNow writes the current snapshot immediately.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	s := a.source()
	if err := a.store.Save(ctx, a.key, s); err != nil {
		return fmt.Errorf("autosave %s: %w", a.key, err)
	}
	slog.DebugContext(ctx, "game saved", "key", a.key, "id", s.ID)
	return nil
}

// Run saves every interval until ctx is done. Failed saves are logged and
// retried on the next tick.
func (a *Autosaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := a.SaveNow(ctx); err != nil {
				slog.WarnContext(ctx, "autosave failed", "err", err)
			}
		case <-ctx.Done():
			// the run context is gone; the final save gets its own deadline
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return a.SaveNow(final)
		}
	}
}
