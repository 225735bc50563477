package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/content"
	"github.com/xtding233/idle-backend/internal/game"
)

// quickParams wins after a single booster bought with one prestige point.
func quickParams() game.Params {
	b := content.DefaultBalance()
	b.Booster = content.Curve{Base: decimal.NewFromInt(1), Exponent: decimal.NewFromFloat(0.75)}
	b.Win = content.WinCondition{Boosters: decimal.NewFromInt(1), Generators: decimal.Zero}
	return game.Params{Game: "quick", Balance: b}
}

func TestCalcStats(t *testing.T) {
	st := calcStats([]float64{4, 1, 3, 2})
	if st.Mean != 2.5 {
		t.Fatalf("mean = %v", st.Mean)
	}
	if st.Var != 1.25 {
		t.Fatalf("var = %v", st.Var)
	}
	if math.Abs(st.StdDev-math.Sqrt(1.25)) > 1e-12 {
		t.Fatalf("stddev = %v", st.StdDev)
	}
	if st.P50 != 2.5 {
		t.Fatalf("p50 = %v", st.P50)
	}
	if math.Abs(st.P90-3.7) > 1e-9 {
		t.Fatalf("p90 = %v", st.P90)
	}
	if empty := calcStats(nil); empty.Mean != 0 || empty.Samples != nil {
		t.Fatalf("empty samples should give zero stats")
	}
}

func TestRunRejectsNoTrials(t *testing.T) {
	if _, err := Run(quickParams(), Config{}); !errors.Is(err, ErrNoTrials) {
		t.Fatalf("want ErrNoTrials, got %v", err)
	}
}

func TestRunAlreadyWon(t *testing.T) {
	p := quickParams()
	p.Balance.Win = content.WinCondition{Boosters: decimal.Zero, Generators: decimal.Zero}
	st, err := Run(p, Config{Trials: 3, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if st.Finished != 3 || st.Mean != 0 {
		t.Fatalf("got %+v", st)
	}
}

func TestRunWinsAndIsReplicable(t *testing.T) {
	cfg := Config{Trials: 3, Seed: 42, Frame: time.Second, Jitter: 0.2, MaxSeconds: 36000}
	a, err := Run(quickParams(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Unfinished != 0 || a.Finished != 3 {
		t.Fatalf("bot did not finish: %+v", a)
	}
	if a.Mean <= 0 || a.P99 < a.P50 {
		t.Fatalf("implausible stats: %+v", a)
	}
	b, _ := Run(quickParams(), cfg)
	if a.Mean != b.Mean || a.P90 != b.P90 {
		t.Fatalf("same seed gave %v and %v", a.Mean, b.Mean)
	}
}

func TestRunGivesUp(t *testing.T) {
	st, err := Run(game.Params{Balance: content.DefaultBalance()}, Config{Trials: 2, Seed: 7, MaxSeconds: 5})
	if err != nil {
		t.Fatal(err)
	}
	if st.Unfinished != 2 || st.Finished != 0 {
		t.Fatalf("got %+v", st)
	}
}

func TestConfigDefaultsDropNonFinite(t *testing.T) {
	c := Config{Jitter: math.NaN(), MaxSeconds: math.Inf(1), JacorbRatio: math.NaN()}.withDefaults()
	if c.Jitter != 0 || c.MaxSeconds != 4*3600 || c.JacorbRatio != 1 || c.Frame != time.Second {
		t.Fatalf("got %+v", c)
	}
}

func TestFrameLengthStaysInJitterBand(t *testing.T) {
	src := NewSeededRNG(3)
	for i := 0; i < 1000; i++ {
		dt := frameLength(src, 2, 0.25)
		if dt < 1.5 || dt > 2.5 {
			t.Fatalf("frame %d = %v, outside [1.5, 2.5]", i, dt)
		}
	}
	if dt := frameLength(src, 2, 0); dt != 2 {
		t.Fatalf("no jitter gave %v", dt)
	}
}
