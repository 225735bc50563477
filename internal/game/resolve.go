// resolve.go
package game

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/content"
)

// Fallbacks for keys no config file sets.
const (
	defaultFrameMS      = 50
	defaultMaxDelta     = 1.0
	defaultDevSpeed     = 1.0
	defaultOfflineLimit = 3600.0
	defaultAutosave     = 30.0
	defaultSaveKey      = "save"
	defaultSaveDir      = "saves"
)

// Overrides carries command-line or request overrides applied after the
// files are merged.
type Overrides struct {
	FrameMS        *int
	MaxDelta       *float64
	DevSpeed       *float64
	OfflineLimit   *float64
	SaveDir        *string
	SaveKey        *string
	StartingPoints *float64
}

// Resolve merges default → game → mode → overrides, validates the result and
// normalizes it into Params.
func (l *Loader) Resolve(game, mode string, o Overrides) (RawConfig, Params, error) {
	raw, err := l.LoadMerged(game, mode)
	if err != nil {
		return RawConfig{}, Params{}, err
	}
	raw = applyOverrides(raw, o)
	if err := ValidateRaw(raw); err != nil {
		return raw, Params{}, err
	}
	p := Normalize(raw)
	p.Game, p.Mode = game, mode
	return raw, p, nil
}

func applyOverrides(raw RawConfig, o Overrides) RawConfig {
	raw.Clock.FrameMS = pick(raw.Clock.FrameMS, o.FrameMS)
	raw.Clock.MaxDelta = pick(raw.Clock.MaxDelta, o.MaxDelta)
	raw.Clock.DevSpeed = pick(raw.Clock.DevSpeed, o.DevSpeed)
	raw.Clock.OfflineLimit = pick(raw.Clock.OfflineLimit, o.OfflineLimit)
	raw.Balance.StartingPoints = pick(raw.Balance.StartingPoints, o.StartingPoints)
	if o.SaveDir != nil || o.SaveKey != nil {
		var s SaveConfig
		if raw.Save != nil {
			s = *raw.Save
		}
		if o.SaveDir != nil {
			s.Dir = *o.SaveDir
		}
		if o.SaveKey != nil {
			s.Key = *o.SaveKey
		}
		raw.Save = &s
	}
	return raw
}

// Normalize fills every unset key with its fallback. It does not validate.
func Normalize(raw RawConfig) Params {
	p := Params{
		Version:       raw.Version,
		FrameInterval: time.Duration(orDefault(raw.Clock.FrameMS, defaultFrameMS)) * time.Millisecond,
		MaxDelta:      decimal.NewFromFloat(orDefault(raw.Clock.MaxDelta, defaultMaxDelta)),
		DevSpeed:      decimal.NewFromFloat(orDefault(raw.Clock.DevSpeed, defaultDevSpeed)),
		OfflineLimit:  decimal.NewFromFloat(orDefault(raw.Clock.OfflineLimit, defaultOfflineLimit)),
		SaveDir:       defaultSaveDir,
		SaveKey:       defaultSaveKey,
		Autosave:      seconds(defaultAutosave),
		Balance:       content.DefaultBalance(),
	}
	if s := raw.Save; s != nil {
		if s.Dir != "" {
			p.SaveDir = s.Dir
		}
		if s.Key != "" {
			p.SaveKey = s.Key
		}
		p.Autosave = seconds(orDefault(s.AutosaveSeconds, defaultAutosave))
	}

	b := &p.Balance
	if v := raw.Balance.StartingPoints; v != nil {
		b.StartingPoints = decimal.NewFromFloat(*v)
	}
	b.Jacorb = curve(b.Jacorb, raw.Balance.Jacorb)
	b.Prestige = curve(b.Prestige, raw.Balance.Prestige)
	b.Booster = curve(b.Booster, raw.Balance.Booster)
	b.Generator = curve(b.Generator, raw.Balance.Generator)
	if u := raw.Balance.Upgrades; u != nil {
		b.Costs.Beginning = dec(b.Costs.Beginning, u.Beginning)
		b.Costs.Init = dec(b.Costs.Init, u.Init)
		b.Costs.Pro = dec(b.Costs.Pro, u.Pro)
		b.Costs.Release = dec(b.Costs.Release, u.Release)
	}
	if w := raw.Win; w != nil {
		if w.Boosters != nil {
			b.Win.Boosters = decimal.NewFromInt(int64(*w.Boosters))
		}
		if w.Generators != nil {
			b.Win.Generators = decimal.NewFromInt(int64(*w.Generators))
		}
	}
	return p
}

func curve(def content.Curve, c *CurveConfig) content.Curve {
	if c == nil {
		return def
	}
	return content.Curve{Base: dec(def.Base, c.Base), Exponent: dec(def.Exponent, c.Exponent)}
}

func dec(def decimal.Decimal, v *float64) decimal.Decimal {
	if v == nil {
		return def
	}
	return decimal.NewFromFloat(*v)
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
