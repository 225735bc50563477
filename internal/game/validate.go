package game

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// YAML accepts .nan and .inf; nothing downstream can hold them
	for name, v := range floatFields(cfg) {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			errs = append(errs, name+" must be a finite number")
		}
	}

	// clock
	if cfg.Clock.FrameMS != nil && *cfg.Clock.FrameMS <= 0 {
		errs = append(errs, "clock.frame_ms must be >= 1")
	}
	if cfg.Clock.MaxDelta != nil && *cfg.Clock.MaxDelta <= 0 {
		errs = append(errs, "clock.max_delta must be > 0")
	}
	if cfg.Clock.DevSpeed != nil && *cfg.Clock.DevSpeed < 0 {
		errs = append(errs, "clock.dev_speed must be >= 0 (0 pauses)")
	}
	if cfg.Clock.OfflineLimit != nil && *cfg.Clock.OfflineLimit < 0 {
		errs = append(errs, "clock.offline_limit must be >= 0")
	}

	// save
	if cfg.Save != nil {
		if cfg.Save.AutosaveSeconds != nil && *cfg.Save.AutosaveSeconds <= 0 {
			errs = append(errs, "save.autosave_seconds must be > 0")
		}
		if strings.ContainsAny(cfg.Save.Key, `/\`) {
			errs = append(errs, "save.key must not contain path separators")
		}
	}

	// balance
	b := cfg.Balance
	if b.StartingPoints != nil && *b.StartingPoints < 0 {
		errs = append(errs, "balance.starting_points must be >= 0")
	}
	for name, c := range map[string]*CurveConfig{
		"jacorb":    b.Jacorb,
		"prestige":  b.Prestige,
		"booster":   b.Booster,
		"generator": b.Generator,
	} {
		if c == nil {
			continue
		}
		if c.Base != nil && *c.Base <= 0 {
			errs = append(errs, fmt.Sprintf("balance.%s.base must be > 0", name))
		}
		if c.Exponent != nil && *c.Exponent <= 0 {
			errs = append(errs, fmt.Sprintf("balance.%s.exponent must be > 0", name))
		}
	}
	if u := b.Upgrades; u != nil {
		for name, v := range map[string]*float64{
			"beginning": u.Beginning,
			"init":      u.Init,
			"pro":       u.Pro,
			"release":   u.Release,
		} {
			if v != nil && *v < 0 {
				errs = append(errs, fmt.Sprintf("balance.upgrades.%s must be >= 0", name))
			}
		}
	}

	// win
	if cfg.Win != nil {
		if cfg.Win.Boosters != nil && *cfg.Win.Boosters < 0 {
			errs = append(errs, "win.boosters must be >= 0")
		}
		if cfg.Win.Generators != nil && *cfg.Win.Generators < 0 {
			errs = append(errs, "win.generators must be >= 0")
		}
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// floatFields names every float key of cfg that is present.
func floatFields(cfg RawConfig) map[string]*float64 {
	out := map[string]*float64{
		"clock.max_delta":         cfg.Clock.MaxDelta,
		"clock.dev_speed":         cfg.Clock.DevSpeed,
		"clock.offline_limit":     cfg.Clock.OfflineLimit,
		"balance.starting_points": cfg.Balance.StartingPoints,
	}
	if cfg.Save != nil {
		out["save.autosave_seconds"] = cfg.Save.AutosaveSeconds
	}
	for name, c := range map[string]*CurveConfig{
		"jacorb":    cfg.Balance.Jacorb,
		"prestige":  cfg.Balance.Prestige,
		"booster":   cfg.Balance.Booster,
		"generator": cfg.Balance.Generator,
	} {
		if c != nil {
			out["balance."+name+".base"] = c.Base
			out["balance."+name+".exponent"] = c.Exponent
		}
	}
	if u := cfg.Balance.Upgrades; u != nil {
		out["balance.upgrades.beginning"] = u.Beginning
		out["balance.upgrades.init"] = u.Init
		out["balance.upgrades.pro"] = u.Pro
		out["balance.upgrades.release"] = u.Release
	}
	return out
}
