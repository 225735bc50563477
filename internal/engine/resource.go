package engine

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
)

// Resource is a named, persistent numeric quantity.
//
// The engine does not clamp values: conversions and purchases only debit what
// their own precondition checks allow, so a resource stays non-negative as long
// as callers only mutate it through those paths or with non-negative Set calls.
type Resource struct {
	Name      string
	Precision int

	initial  decimal.Decimal
	value    decimal.Decimal
	watchers []func(prev, next decimal.Decimal)
}

// NewResource creates a resource holding initial.
func NewResource(initial decimal.Decimal, name string, precision int) *Resource {
	return &Resource{
		Name:      name,
		Precision: precision,
		initial:   initial,
		value:     initial,
	}
}

func (r *Resource) Value() decimal.Decimal   { return r.value }
func (r *Resource) Initial() decimal.Decimal { return r.initial }

// Set replaces the value and notifies watchers in registration order.
func (r *Resource) Set(v decimal.Decimal) {
	prev := r.value
	r.value = v
	for _, w := range r.watchers {
		w(prev, v)
	}
}

// Add adds d (which may be negative) to the value.
func (r *Resource) Add(d decimal.Decimal) {
	r.Set(r.value.Add(d))
}

// Reset restores the initial value.
func (r *Resource) Reset() {
	r.Set(r.initial)
}

// Watch registers fn to run after every Set.
func (r *Resource) Watch(fn func(prev, next decimal.Decimal)) {
	r.watchers = append(r.watchers, fn)
}

// Format renders the value with the resource's display precision.
func (r *Resource) Format() string {
	return bignum.Format(r.value, r.Precision)
}
