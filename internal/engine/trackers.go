package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
)

// TrackBest returns a resource holding the highest value res has reached.
func TrackBest(res *Resource) *Resource {
	best := NewResource(res.Initial(), "best "+res.Name, res.Precision)
	res.Watch(func(_, next decimal.Decimal) {
		if next.GreaterThan(best.Value()) {
			best.Set(next)
		}
	})
	return best
}

// TrackTotal returns a resource accumulating every increase of res.
func TrackTotal(res *Resource) *Resource {
	total := NewResource(res.Initial(), "total "+res.Name, res.Precision)
	res.Watch(func(prev, next decimal.Decimal) {
		if next.GreaterThan(prev) {
			total.Add(next.Sub(prev))
		}
	})
	return total
}

// TrackResetTime returns a resource counting seconds since reset last fired.
func TrackResetTime(driver *TickDriver, reset *Reset) *Resource {
	elapsed := NewResource(decimal.Zero, "time since "+reset.ID, 1)
	driver.Register(func(delta decimal.Decimal) {
		elapsed.Add(delta)
	})
	reset.OnReset(func() {
		elapsed.Set(decimal.Zero)
	})
	return elapsed
}

// oompsFrom is the value above which rates are shown in orders of magnitude.
var oompsFrom = bignum.Must("1e100")

// RateTracker reports how fast a resource grows, per second below 1e100 and
// in orders of magnitude per second above it.
type RateTracker struct {
	res  *Resource
	rate Computable

	last  decimal.Decimal
	oomps decimal.Decimal
	mag   bool
}

// TrackOOMPS registers a RateTracker for res on driver. rate is the nominal
// per-second gain shown while the resource is small.
func TrackOOMPS(driver *TickDriver, res *Resource, rate Computable) *RateTracker {
	t := &RateTracker{res: res, rate: rate, last: res.Value()}
	driver.Register(t.update)
	return t
}

func (t *RateTracker) update(delta decimal.Decimal) {
	curr := t.res.Value()
	prev := t.last
	t.last = curr
	t.mag = false
	if curr.LessThanOrEqual(oompsFrom) || delta.Sign() <= 0 {
		return
	}
	t.mag = true
	if curr.GreaterThan(prev) && prev.Sign() > 0 {
		t.oomps = bignum.Log10(curr).Sub(bignum.Log10(prev)).Div(delta)
	} else {
		t.oomps = decimal.Zero
	}
}

func (t *RateTracker) String() string {
	if t.mag {
		return fmt.Sprintf("%s OOMs/sec", bignum.Format(t.oomps, 2))
	}
	return fmt.Sprintf("%s %s/sec", bignum.Format(t.rate.value(), 2), t.res.Name)
}
