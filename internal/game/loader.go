package game

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownGame is returned when a named game has no config file.
var ErrUnknownGame = errors.New("unknown game")

// Paths helper for default/game/mode files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "games", "default.yaml")
}
func (p Paths) GamePath(game string) string {
	return filepath.Join(p.BaseDir, "games", game+".yaml")
}
func (p Paths) ModePath(game, mode string) string {
	return filepath.Join(p.BaseDir, "games", game, "modes", mode+".yaml")
}

// Files lists the files that make up one game/mode, for the watcher.
func (p Paths) Files(game, mode string) []string {
	files := []string{p.DefaultPath()}
	if game != "" {
		files = append(files, p.GamePath(game))
	}
	if game != "" && mode != "" {
		files = append(files, p.ModePath(game, mode))
	}
	return files
}

// Loader reads YAML configs and merges default → game → mode.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: "game" or "game/mode"
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → game → mode (mode optional).
// It returns the merged RawConfig (without normalization). An empty game
// loads the defaults only.
func (l *Loader) LoadMerged(game, mode string) (RawConfig, error) {
	key := game
	if mode != "" {
		key = game + "/" + mode
	}
	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if game != "" {
		gameCfg, found, err := readYAML(l.paths.GamePath(game))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read game %s: %w", game, err)
		}
		if !found {
			return RawConfig{}, fmt.Errorf("%w: %s", ErrUnknownGame, game)
		}
		merged = mergeRaw(merged, gameCfg)
	}
	if game != "" && mode != "" {
		modeCfg, _, err := readYAML(l.paths.ModePath(game, mode)) // mode file optional
		if err != nil {
			return RawConfig{}, fmt.Errorf("read mode %s/%s: %w", game, mode, err)
		}
		merged = mergeRaw(merged, modeCfg)
	}

	l.mu.Lock()
	l.cache[key] = merged
	l.mu.Unlock()
	slog.Debug("config loaded", "game", game, "mode", mode, "version", merged.Version)
	return merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg and
// found == false, no error.
func readYAML(path string) (RawConfig, bool, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, true, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-zero/non-nil.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// clock
	out.Clock.FrameMS = pick(out.Clock.FrameMS, b.Clock.FrameMS)
	out.Clock.MaxDelta = pick(out.Clock.MaxDelta, b.Clock.MaxDelta)
	out.Clock.DevSpeed = pick(out.Clock.DevSpeed, b.Clock.DevSpeed)
	out.Clock.OfflineLimit = pick(out.Clock.OfflineLimit, b.Clock.OfflineLimit)

	// save
	switch {
	case out.Save == nil && b.Save != nil:
		c := *b.Save
		out.Save = &c
	case out.Save != nil && b.Save != nil:
		c := *out.Save
		if b.Save.Dir != "" {
			c.Dir = b.Save.Dir
		}
		if b.Save.Key != "" {
			c.Key = b.Save.Key
		}
		c.AutosaveSeconds = pick(c.AutosaveSeconds, b.Save.AutosaveSeconds)
		out.Save = &c
	}

	// balance
	out.Balance.StartingPoints = pick(out.Balance.StartingPoints, b.Balance.StartingPoints)
	out.Balance.Jacorb = mergeCurve(out.Balance.Jacorb, b.Balance.Jacorb)
	out.Balance.Prestige = mergeCurve(out.Balance.Prestige, b.Balance.Prestige)
	out.Balance.Booster = mergeCurve(out.Balance.Booster, b.Balance.Booster)
	out.Balance.Generator = mergeCurve(out.Balance.Generator, b.Balance.Generator)
	switch {
	case out.Balance.Upgrades == nil && b.Balance.Upgrades != nil:
		c := *b.Balance.Upgrades
		out.Balance.Upgrades = &c
	case out.Balance.Upgrades != nil && b.Balance.Upgrades != nil:
		c := *out.Balance.Upgrades
		c.Beginning = pick(c.Beginning, b.Balance.Upgrades.Beginning)
		c.Init = pick(c.Init, b.Balance.Upgrades.Init)
		c.Pro = pick(c.Pro, b.Balance.Upgrades.Pro)
		c.Release = pick(c.Release, b.Balance.Upgrades.Release)
		out.Balance.Upgrades = &c
	}

	// win
	switch {
	case out.Win == nil && b.Win != nil:
		c := *b.Win
		out.Win = &c
	case out.Win != nil && b.Win != nil:
		c := *out.Win
		c.Boosters = pick(c.Boosters, b.Win.Boosters)
		c.Generators = pick(c.Generators, b.Win.Generators)
		out.Win = &c
	}

	return out
}

func mergeCurve(a, b *CurveConfig) *CurveConfig {
	switch {
	case b == nil:
		return a
	case a == nil:
		c := *b
		return &c
	}
	c := *a
	c.Base = pick(c.Base, b.Base)
	c.Exponent = pick(c.Exponent, b.Exponent)
	return &c
}

// pick returns b when set, a otherwise.
func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}
