// Package engine is the pull-based resource/conversion/reset core of an idle
// game: resources, scaling curves, conversions, modifier chains, upgrades,
// buyables, reset nodes, the reset tree and the tick driver.
//
// Derived values are plain functions recomputed on every call; nothing is
// cached between frames. All mutation is expected to happen from one
// goroutine (see package session for a multi-goroutine host).
package engine

import "github.com/shopspring/decimal"

// Computable is a derived numeric value, re-evaluated on every call.
type Computable func() decimal.Decimal

// Condition is a derived boolean, re-evaluated on every call.
type Condition func() bool

// Const returns a Computable that always yields v.
func Const(v decimal.Decimal) Computable {
	return func() decimal.Decimal { return v }
}

// Always is a Condition that always holds.
func Always() bool { return true }

func (c Condition) holds() bool {
	if c == nil {
		return true
	}
	return c()
}

func (c Computable) value() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return c()
}

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)
