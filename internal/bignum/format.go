package bignum

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// scientificAt is the magnitude from which Format switches to mantissa/exponent.
const scientificAt = 9

// Format renders x for display: fixed notation with the given precision below
// 1e9, "m.mme+N" above.
func Format(x decimal.Decimal, precision int) string {
	if precision < 0 {
		precision = 0
	}
	e := Magnitude(x)
	if e < scientificAt {
		return x.StringFixed(int32(precision))
	}
	sign := ""
	if x.Sign() < 0 {
		sign = "-"
		x = x.Abs()
	}
	m := x.Shift(int32(-e)).Round(2)
	if m.GreaterThanOrEqual(Ten) {
		m = m.Shift(-1).Round(2)
		e++
	}
	return fmt.Sprintf("%s%se%d", sign, m.StringFixed(2), e)
}

// FormatSeconds renders a duration in seconds as h/m/s.
func FormatSeconds(s decimal.Decimal) string {
	total := s.Floor().IntPart()
	if total < 60 {
		return fmt.Sprintf("%ss", s.StringFixed(1))
	}
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, sec)
	}
	return fmt.Sprintf("%dm %ds", m, sec)
}
