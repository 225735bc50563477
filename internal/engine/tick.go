package engine

import "github.com/shopspring/decimal"

// Accumulator receives the elapsed seconds of one tick.
type Accumulator func(delta decimal.Decimal)

type registration struct {
	id uint64
	fn Accumulator
}

// TickDriver fans one elapsed-time delta per frame out to its accumulators,
// synchronously and in registration order.
type TickDriver struct {
	accs   []registration
	nextID uint64
	ticks  uint64
}

func NewTickDriver() *TickDriver {
	return &TickDriver{}
}

// Register adds fn and returns a function that removes it again.
func (d *TickDriver) Register(fn Accumulator) (unregister func()) {
	d.nextID++
	id := d.nextID
	d.accs = append(d.accs, registration{id: id, fn: fn})
	return func() {
		for i, r := range d.accs {
			if r.id == id {
				d.accs = append(d.accs[:i:i], d.accs[i+1:]...)
				return
			}
		}
	}
}

// Tick runs every accumulator with delta. Negative deltas are rejected and
// leave state untouched; clamping large deltas is the host's job.
func (d *TickDriver) Tick(delta decimal.Decimal) bool {
	if delta.Sign() < 0 {
		return false
	}
	d.ticks++
	for _, r := range append([]registration(nil), d.accs...) {
		r.fn(delta)
	}
	return true
}

// Ticks is the number of accepted ticks.
func (d *TickDriver) Ticks() uint64 { return d.ticks }

func (d *TickDriver) Len() int { return len(d.accs) }
