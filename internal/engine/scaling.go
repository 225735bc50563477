package engine

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
)

// Scaling maps an amount of base resource to a continuous count of gain
// units, and back.
type Scaling interface {
	// CurrentGain is the (unfloored) number of units available base buys.
	CurrentGain(available decimal.Decimal) decimal.Decimal
	// CostOf is the base amount at which CurrentGain reaches units.
	CostOf(units decimal.Decimal) decimal.Decimal
}

// PolynomialScaling is gain = (available/Base)^Exponent, so the n-th unit
// costs Base * n^(1/Exponent).
type PolynomialScaling struct {
	Base     decimal.Decimal
	Exponent decimal.Decimal
}

func NewPolynomialScaling(base, exponent decimal.Decimal) PolynomialScaling {
	return PolynomialScaling{Base: base, Exponent: exponent}
}

func (s PolynomialScaling) CurrentGain(available decimal.Decimal) decimal.Decimal {
	if available.Sign() <= 0 || s.Base.Sign() <= 0 {
		return decimal.Zero
	}
	return bignum.Pow(available.Div(s.Base), s.Exponent)
}

func (s PolynomialScaling) CostOf(units decimal.Decimal) decimal.Decimal {
	if units.Sign() <= 0 {
		return decimal.Zero
	}
	return s.Base.Mul(bignum.Root(units, s.Exponent))
}

// NextAt is the base amount needed for the (owned+1)-th unit.
func (s PolynomialScaling) NextAt(owned decimal.Decimal) decimal.Decimal {
	return s.CostOf(owned.Add(one))
}
