// Package sim plays the game headlessly with a greedy bot and summarises how
// long a win takes, for balancing.
package sim

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
	"github.com/xtding233/idle-backend/internal/content"
	"github.com/xtding233/idle-backend/internal/game"
)

// Config controls one simulation run.
type Config struct {
	Trials int
	// Seed makes runs replicable; 0 uses an unseeded source.
	Seed uint64
	// Frame is the nominal frame length; each frame is scaled by a uniform
	// factor in [1-Jitter, 1+Jitter].
	Frame  time.Duration
	Jitter float64
	// MaxSeconds ends a trial that has not won yet.
	MaxSeconds float64
	// JacorbRatio: the bot resets for Jacorb points once the pending gain
	// reaches this fraction of the Jacorb points it holds.
	JacorbRatio float64
}

// Stats summarizes the seconds-to-win of finished trials.
type Stats struct {
	Mean       float64
	Var        float64
	StdDev     float64
	P50        float64
	P90        float64
	P99        float64
	Finished   int
	Unfinished int
	// raw samples if caller needs histograms/exports
	Samples []float64 `json:"-"`
}

func (c Config) withDefaults() Config {
	if c.Frame <= 0 {
		c.Frame = time.Second
	}
	if !finite(c.Jitter) || c.Jitter < 0 {
		c.Jitter = 0
	}
	if c.Jitter > 1 {
		c.Jitter = 1
	}
	if !finite(c.MaxSeconds) || c.MaxSeconds <= 0 {
		c.MaxSeconds = 4 * 3600
	}
	if !finite(c.JacorbRatio) || c.JacorbRatio <= 0 {
		c.JacorbRatio = 1
	}
	return c
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

var ErrNoTrials = errors.New("sim: trials must be >= 1")

// Run repeats trials with the balance in p and returns summary stats.
func Run(p game.Params, cfg Config) (Stats, error) {
	if cfg.Trials <= 0 {
		return Stats{}, ErrNoTrials
	}
	cfg = cfg.withDefaults()
	rng := sourceFor(cfg.Seed)
	var samples []float64
	unfinished := 0
	for i := 0; i < cfg.Trials; i++ {
		secs, won := simulateOne(p.Balance, cfg, rng)
		if !won {
			unfinished++
			continue
		}
		samples = append(samples, secs)
	}
	st := calcStats(samples)
	st.Finished = len(samples)
	st.Unfinished = unfinished
	return st, nil
}

// simulateOne plays one game until it is won or MaxSeconds pass.
func simulateOne(b content.Balance, cfg Config, rng RandomSource) (float64, bool) {
	g := content.New(b)
	nominal := cfg.Frame.Seconds()
	elapsed := 0.0
	for !g.Won() {
		if elapsed >= cfg.MaxSeconds {
			return elapsed, false
		}
		dt := frameLength(rng, nominal, cfg.Jitter)
		g.Tick(decimal.NewFromFloat(dt))
		elapsed += dt
		play(g, cfg)
	}
	return elapsed, true
}

// play makes the bot's moves for one frame: every affordable upgrade, then
// the tree buyables, then a Jacorb reset when it pays off.
func play(g *content.Game, cfg Config) {
	for _, e := range g.Jacorb.Layer.Upgrades() {
		e.Upgrade.Purchase()
	}
	if g.Prestige.Unlocked() {
		playTree(g)
	}
	j := g.Jacorb
	pending := j.Conversion.ActualGain()
	want := decimal.Max(bignum.One, j.Points.Value().Mul(decimal.NewFromFloat(cfg.JacorbRatio)))
	if pending.GreaterThanOrEqual(want) {
		_, _ = g.Invoke("reset:j")
	}
}

func playTree(g *content.Game) {
	p := g.Prestige
	// keep boosters and generators level; ties go to boosters
	first, second := "buyable:booster", "buyable:generator"
	if p.Gens.Value().LessThan(p.Boost.Value()) {
		first, second = second, first
	}
	if ok, _ := g.Invoke(first); !ok {
		_, _ = g.Invoke(second)
	}

	gain := p.PrestigeScale.CurrentGain()
	if gain.LessThan(bignum.One) {
		return
	}
	target := decimal.Min(p.BoosterScale.NextAt(), p.GeneratorScale.NextAt())
	if p.Pres.Value().Add(gain).GreaterThanOrEqual(target) || gain.GreaterThanOrEqual(p.Pres.Value()) {
		_, _ = g.Invoke("buyable:prestige")
	}
}

// calcStats computes mean/variance/percentiles for samples.
func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}
