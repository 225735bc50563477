// Package bignum holds the arbitrary-magnitude helpers the engine needs on
// top of shopspring/decimal: fractional powers, roots and base-10 logarithms.
//
// Integer powers stay exact. Fractional powers and logarithms are evaluated in
// log space with a float64 mantissa, which keeps the exponent unbounded and the
// result accurate to ~15 significant digits.
package bignum

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	One = decimal.NewFromInt(1)
	Two = decimal.NewFromInt(2)
	Ten = decimal.NewFromInt(10)
)

// divPrecision is the number of fractional digits kept for reciprocals.
const divPrecision = 32

// MaxExponent is the largest decimal exponent Pow10 produces. Larger results
// saturate at Huge; multiplying a few of those stays inside decimal's int32
// exponent.
const MaxExponent = 1 << 20

// Huge is 10^MaxExponent, the ceiling values saturate at.
var Huge = decimal.New(1, MaxExponent)

// exactPowLimit bounds integer exponents evaluated by repeated multiplication.
const exactPowLimit = 64

// New returns v as a Decimal.
func New(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// Must parses s or panics; used for compile-time constants only.
func Must(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Pow returns x^y. Non-positive bases with fractional exponents have no real
// value and yield zero.
func Pow(x, y decimal.Decimal) decimal.Decimal {
	if y.IsZero() {
		return One
	}
	if y.IsInteger() && y.Abs().LessThanOrEqual(decimal.NewFromInt(exactPowLimit)) {
		if x.IsZero() && y.Sign() < 0 {
			return decimal.Zero
		}
		return x.Pow(decimal.NewFromInt(y.IntPart()))
	}
	if x.Sign() <= 0 {
		return decimal.Zero
	}
	return Pow10(y.InexactFloat64() * log10(x))
}

// Root returns the n-th root of x.
func Root(x, n decimal.Decimal) decimal.Decimal {
	if n.IsZero() {
		return decimal.Zero
	}
	return Pow(x, Reciprocal(n))
}

// Reciprocal returns 1/x, or zero for x == 0.
func Reciprocal(x decimal.Decimal) decimal.Decimal {
	if x.IsZero() {
		return decimal.Zero
	}
	return One.DivRound(x, divPrecision)
}

// Log10 returns the base-10 logarithm of x. Non-positive inputs return zero.
func Log10(x decimal.Decimal) decimal.Decimal {
	if x.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(log10(x))
}

// Log returns the logarithm of x in the given base, zero when either is
// non-positive or base is 1.
func Log(x, base decimal.Decimal) decimal.Decimal {
	if x.Sign() <= 0 || base.Sign() <= 0 || base.Equal(One) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(log10(x) / log10(base))
}

// Pow10 returns 10^z without overflowing float64. Exponents beyond
// MaxExponent saturate at Huge, below -MaxExponent they underflow to zero.
// NaN yields zero.
func Pow10(z float64) decimal.Decimal {
	if math.IsNaN(z) {
		return decimal.Zero
	}
	ip := math.Floor(z)
	if ip >= MaxExponent {
		return Huge
	}
	if ip < -MaxExponent {
		return decimal.Zero
	}
	mant := math.Pow(10, z-ip)
	return decimal.NewFromFloat(mant).Shift(int32(ip))
}

// Magnitude returns the decimal exponent e such that 1 <= |x|/10^e < 10.
func Magnitude(x decimal.Decimal) int64 {
	if x.IsZero() {
		return 0
	}
	c := x.Coefficient()
	digits := len(c.Abs(c).String())
	return int64(digits) + int64(x.Exponent()) - 1
}

func log10(x decimal.Decimal) float64 {
	e := Magnitude(x)
	mant := x.Shift(int32(-e)).InexactFloat64()
	return float64(e) + math.Log10(mant)
}
