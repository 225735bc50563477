// Package session owns one running game and serialises every mutation of it
// (frames, actions, reloads, saves) behind a single mutex.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/content"
	"github.com/xtding233/idle-backend/internal/game"
	"github.com/xtding233/idle-backend/internal/save"
)

var ErrUnknownAction = content.ErrUnknownAction

// Session is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	id     string
	params game.Params
	game   *content.Game
}

func New(p game.Params) *Session {
	return &Session{
		id:     uuid.NewString(),
		params: p,
		game:   content.New(p.Balance),
	}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Params() game.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Frame advances the game by a wall-clock frame: elapsed is clamped to the
// configured max delta, then scaled by dev speed.
func (s *Session) Frame(elapsed time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delta := decimal.NewFromFloat(elapsed.Seconds())
	if delta.GreaterThan(s.params.MaxDelta) {
		delta = s.params.MaxDelta
	}
	return s.game.Tick(delta.Mul(s.params.DevSpeed))
}

// Tick advances the game by exactly delta seconds.
func (s *Session) Tick(delta decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Tick(delta)
}

// Invoke runs a named action. Rejected actions return false; only unknown
// names return an error.
func (s *Session) Invoke(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.game.Invoke(name)
	if err != nil {
		return false, err
	}
	slog.DebugContext(ctx, "action invoked", "session", s.id, "action", name, "changed", ok)
	return ok, nil
}

func (s *Session) Actions() []content.ActionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Actions()
}

func (s *Session) View() content.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.View()
}

func (s *Session) Won() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Won()
}

// Snapshot captures the current state stamped with now.
func (s *Session) Snapshot(now time.Time) save.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save.Capture(s.game, s.id, s.params.Version, now)
}

// Reset throws the current game away and starts a fresh one under a new id.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.game = content.New(s.params.Balance)
	slog.InfoContext(ctx, "game reset", "session", s.id)
}

// Reload rebuilds the game with new params and carries the current state over.
func (s *Session) Reload(ctx context.Context, p game.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := save.Capture(s.game, s.id, p.Version, time.Now())
	g := content.New(p.Balance)
	if err := save.Apply(g, snap); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	s.game, s.params = g, p
	slog.InfoContext(ctx, "balance reloaded", "session", s.id, "version", p.Version)
	return nil
}

// Save writes the current state to store under the configured save key.
func (s *Session) Save(ctx context.Context, store save.Store, now time.Time) error {
	snap := s.Snapshot(now)
	if err := store.Save(ctx, s.Params().SaveKey, snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load restores the configured save slot and plays the time since it was
// written, capped at the offline limit, in max-delta steps. A missing save
// leaves the fresh game in place. It returns the offline seconds applied.
func (s *Session) Load(ctx context.Context, store save.Store, now time.Time) (decimal.Decimal, error) {
	key := s.Params().SaveKey
	snap, err := store.Load(ctx, key)
	if errors.Is(err, save.ErrNotFound) {
		slog.InfoContext(ctx, "no save found, starting fresh", "key", key)
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g := content.New(s.params.Balance)
	if err := save.Apply(g, snap); err != nil {
		return decimal.Zero, fmt.Errorf("load session: %w", err)
	}
	s.game = g
	if snap.ID != "" {
		s.id = snap.ID
	}

	offline := save.OfflineSeconds(snap.SavedAt, now, s.params.OfflineLimit)
	for left := offline; left.Sign() > 0; {
		step := left
		if s.params.MaxDelta.Sign() > 0 {
			step = decimal.Min(left, s.params.MaxDelta)
		}
		s.game.Tick(step)
		left = left.Sub(step)
	}
	slog.InfoContext(ctx, "save loaded", "key", key, "session", s.id, "offline", offline.StringFixed(1))
	return offline, nil
}
