package engine

import "github.com/shopspring/decimal"

// ConversionKind selects how gained units relate to the gain resource.
type ConversionKind int8

const (
	// Cumulative conversions buy fresh units from the base pool every time;
	// the gain resource is not part of the cost curve.
	Cumulative ConversionKind = iota
	// Independent conversions price the gain resource's running total: the
	// next unit costs the threshold for owning one more.
	Independent
)

// maxGallop caps the doubling search upward from the gain estimate, for
// curves whose cost stops growing once it leaves the representable range.
const maxGallop = 1100

// ConversionConfig describes a conversion between two resources.
type ConversionConfig struct {
	Kind         ConversionKind
	Scaling      Scaling
	BaseResource *Resource
	GainResource *Resource
	// RoundUpCost ceils thresholds to the base resource's display precision.
	RoundUpCost bool
	// BuyMax allows converting more than one unit at a time.
	BuyMax bool
	// SpendAll zeroes the base resource on convert instead of debiting the
	// exact cost.
	SpendAll     bool
	GainModifier *Chain
	OnConvert    func(gained decimal.Decimal)
}

// Conversion couples a base and a gain resource through a Scaling. It holds no
// state of its own; every derived value is recomputed from the resources.
type Conversion struct {
	cfg ConversionConfig
}

func NewConversion(cfg ConversionConfig) *Conversion {
	return &Conversion{cfg: cfg}
}

func (c *Conversion) Kind() ConversionKind    { return c.cfg.Kind }
func (c *Conversion) BaseResource() *Resource { return c.cfg.BaseResource }
func (c *Conversion) GainResource() *Resource { return c.cfg.GainResource }
func (c *Conversion) GainModifier() *Chain    { return c.cfg.GainModifier }

// Owned is the unit count the cost curve starts from: zero for cumulative
// conversions, the gain resource for independent ones.
func (c *Conversion) Owned() decimal.Decimal {
	if c.cfg.Kind == Independent {
		return c.cfg.GainResource.Value()
	}
	return decimal.Zero
}

// NextAtFor is the base amount needed to hold owned+1 units.
func (c *Conversion) NextAtFor(owned decimal.Decimal) decimal.Decimal {
	units := c.cfg.GainModifier.Revert(owned.Add(one))
	next := c.cfg.Scaling.CostOf(units)
	if c.cfg.RoundUpCost {
		next = next.RoundCeil(int32(c.cfg.BaseResource.Precision))
	}
	return next
}

// NextAt is the threshold for the next unit beyond what converting now gives.
func (c *Conversion) NextAt() decimal.Decimal {
	return c.NextAtFor(c.Owned().Add(c.ActualGain()))
}

// AffordableGain is how many units available base would buy on top of Owned,
// after the gain modifier. It is never negative and at most one unless BuyMax.
func (c *Conversion) AffordableGain(available decimal.Decimal) decimal.Decimal {
	owned := c.Owned()
	budget := available
	if c.cfg.RoundUpCost {
		// rounded thresholds sit on the precision grid, so only the grid part
		// of available can pay for them
		budget = available.RoundFloor(int32(c.cfg.BaseResource.Precision))
	}
	estimate := c.cfg.GainModifier.Apply(c.cfg.Scaling.CurrentGain(budget)).Floor()
	gain := c.settle(owned, estimate, available).Sub(owned)
	if gain.Sign() <= 0 {
		return decimal.Zero
	}
	if !c.cfg.BuyMax && gain.GreaterThan(one) {
		gain = one
	}
	return gain
}

// affords reports whether available pays for holding total units.
func (c *Conversion) affords(owned, total, available decimal.Decimal) bool {
	return total.LessThanOrEqual(owned) || c.NextAtFor(total.Sub(one)).LessThanOrEqual(available)
}

// settle turns the float estimate into the largest total the thresholds
// actually allow: it gallops away from the estimate until the thresholds
// bracket available, then bisects.
func (c *Conversion) settle(owned, estimate, available decimal.Decimal) decimal.Decimal {
	if estimate.LessThan(owned) {
		estimate = owned
	}
	var lo, hi decimal.Decimal
	step := one
	if c.affords(owned, estimate, available) {
		lo = estimate
		for i := 0; ; i++ {
			if i == maxGallop {
				return lo
			}
			next := lo.Add(step)
			if !c.affords(owned, next, available) {
				hi = next
				break
			}
			lo = next
			step = step.Add(step)
		}
	} else {
		hi = estimate
		for {
			next := hi.Sub(step)
			if next.LessThanOrEqual(owned) {
				lo = owned
				break
			}
			if c.affords(owned, next, available) {
				lo = next
				break
			}
			hi = next
			step = step.Add(step)
		}
	}
	for hi.Sub(lo).GreaterThan(one) {
		mid := lo.Add(hi.Sub(lo).Div(two).Floor())
		if c.affords(owned, mid, available) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// ActualGain is the number of units Convert would grant right now.
func (c *Conversion) ActualGain() decimal.Decimal {
	return c.AffordableGain(c.cfg.BaseResource.Value())
}

// CurrentGain is the pending gain for cumulative conversions and the
// resulting total for independent ones.
func (c *Conversion) CurrentGain() decimal.Decimal {
	return c.Owned().Add(c.ActualGain())
}

// CostFor is the base amount debited for gaining units on top of Owned.
func (c *Conversion) CostFor(units decimal.Decimal) decimal.Decimal {
	if units.Sign() <= 0 {
		return decimal.Zero
	}
	return c.NextAtFor(c.Owned().Add(units).Sub(one))
}

// Convert spends base resource for the currently affordable gain and returns
// the units granted. With nothing affordable it changes nothing.
func (c *Conversion) Convert() decimal.Decimal {
	gain := c.ActualGain()
	if gain.LessThan(one) {
		return decimal.Zero
	}
	cost := c.CostFor(gain)
	if cost.GreaterThan(c.cfg.BaseResource.Value()) {
		return decimal.Zero
	}
	if c.cfg.SpendAll {
		c.cfg.BaseResource.Set(decimal.Zero)
	} else {
		c.cfg.BaseResource.Add(cost.Neg())
	}
	c.cfg.GainResource.Add(gain)
	if c.cfg.OnConvert != nil {
		c.cfg.OnConvert(gain)
	}
	return gain
}
