package engine

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
)

func TestTrackBestAndTotal(t *testing.T) {
	points := NewResource(dec(10), "points", 2)
	best := TrackBest(points)
	total := TrackTotal(points)

	points.Add(dec(5))
	points.Add(dec(-12))
	points.Add(dec(4))
	if !best.Value().Equal(dec(15)) {
		t.Fatalf("best = %s, want 15", best.Value())
	}
	if !total.Value().Equal(dec(19)) {
		t.Fatalf("total = %s, want 19 (10 + 5 + 4)", total.Value())
	}
}

func TestTrackResetTime(t *testing.T) {
	d := NewTickDriver()
	r := NewReset("j")
	elapsed := TrackResetTime(d, r)
	d.Tick(dec(1.5))
	d.Tick(dec(2))
	if !elapsed.Value().Equal(dec(3.5)) {
		t.Fatalf("elapsed = %s, want 3.5", elapsed.Value())
	}
	r.Notify()
	if !elapsed.Value().IsZero() {
		t.Fatalf("elapsed after reset = %s, want 0", elapsed.Value())
	}
}

func TestRateTracker(t *testing.T) {
	d := NewTickDriver()
	points := NewResource(dec(10), "points", 2)
	rate := TrackOOMPS(d, points, Const(dec(2)))
	d.Tick(dec(1))
	if got := rate.String(); got != "2.00 points/sec" {
		t.Fatalf("small rate = %q", got)
	}
	points.Set(bignum.Must("1e200"))
	d.Tick(dec(1))
	points.Set(bignum.Must("1e203"))
	d.Tick(dec(1))
	if got := rate.String(); !strings.HasPrefix(got, "3.00 OOMs") {
		t.Fatalf("large rate = %q, want 3 OOMs/sec", got)
	}
}

func TestResourceFormat(t *testing.T) {
	r := NewResource(decimal.NewFromFloat(1.5), "points", 2)
	if r.Format() != "1.50" {
		t.Fatalf("format = %q", r.Format())
	}
	r.Set(decimal.NewFromInt(3))
	r.Reset()
	if !r.Value().Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("reset value = %s", r.Value())
	}
}
