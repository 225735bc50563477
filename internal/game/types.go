// types.go
package game

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/content"
)

// Raw config loaded from YAML. Pointer fields tell "unset" apart from zero so
// later files only override what they mention.
type RawConfig struct {
	Version string        `yaml:"version"`
	Clock   ClockConfig   `yaml:"clock"`
	Save    *SaveConfig   `yaml:"save,omitempty"`
	Balance BalanceConfig `yaml:"balance"`
	Win     *WinConfig    `yaml:"win,omitempty"`
	Notes   string        `yaml:"notes,omitempty"`
}

type ClockConfig struct {
	FrameMS      *int     `yaml:"frame_ms"`
	MaxDelta     *float64 `yaml:"max_delta"`     // seconds
	DevSpeed     *float64 `yaml:"dev_speed"`     // 0 pauses
	OfflineLimit *float64 `yaml:"offline_limit"` // seconds
}

type SaveConfig struct {
	Dir             string   `yaml:"dir"`
	Key             string   `yaml:"key"`
	AutosaveSeconds *float64 `yaml:"autosave_seconds"`
}

type BalanceConfig struct {
	StartingPoints *float64      `yaml:"starting_points"`
	Jacorb         *CurveConfig  `yaml:"jacorb,omitempty"`
	Upgrades       *UpgradeCosts `yaml:"upgrades,omitempty"`
	Prestige       *CurveConfig  `yaml:"prestige,omitempty"`
	Booster        *CurveConfig  `yaml:"booster,omitempty"`
	Generator      *CurveConfig  `yaml:"generator,omitempty"`
}

type CurveConfig struct {
	Base     *float64 `yaml:"base"`
	Exponent *float64 `yaml:"exponent"`
}

type UpgradeCosts struct {
	Beginning *float64 `yaml:"beginning"`
	Init      *float64 `yaml:"init"`
	Pro       *float64 `yaml:"pro"`
	Release   *float64 `yaml:"release"`
}

type WinConfig struct {
	Boosters   *int `yaml:"boosters"`
	Generators *int `yaml:"generators"`
}

// Normalized params consumed by session, save and the frame loop.
type Params struct {
	Game          string
	Mode          string
	FrameInterval time.Duration
	MaxDelta      decimal.Decimal
	DevSpeed      decimal.Decimal
	OfflineLimit  decimal.Decimal
	SaveDir       string
	SaveKey       string
	Autosave      time.Duration
	Balance       content.Balance
	Version       string // effective config version for tracing
}
