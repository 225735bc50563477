package engine

import "github.com/shopspring/decimal"

// Operation is how a modifier combines with the running value.
type Operation int8

const (
	OpAdd      Operation = iota // value + operand
	OpMultiply                  // value * operand
)

func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpMultiply:
		return "multiply"
	}
	return "unknown"
}

// Modifier is one named step of a Chain.
type Modifier struct {
	Description string
	Op          Operation
	Operand     Computable
	Enabled     Condition // nil means always enabled
}

// Additive builds an OpAdd modifier.
func Additive(operand Computable, description string, enabled Condition) Modifier {
	return Modifier{Description: description, Op: OpAdd, Operand: operand, Enabled: enabled}
}

// Multiplicative builds an OpMultiply modifier.
func Multiplicative(operand Computable, description string, enabled Condition) Modifier {
	return Modifier{Description: description, Op: OpMultiply, Operand: operand, Enabled: enabled}
}

// Contribution is one evaluated step, for breakdown displays.
type Contribution struct {
	Description string
	Op          Operation
	Operand     decimal.Decimal
	Enabled     bool
}

// Chain applies modifiers left to right. A nil *Chain is the identity.
type Chain struct {
	mods []Modifier
}

func NewChain(mods ...Modifier) *Chain {
	return &Chain{mods: append([]Modifier(nil), mods...)}
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.mods)
}

// Apply folds v through every enabled modifier in declared order.
func (c *Chain) Apply(v decimal.Decimal) decimal.Decimal {
	if c == nil {
		return v
	}
	for _, m := range c.mods {
		if !m.Enabled.holds() {
			continue
		}
		switch m.Op {
		case OpAdd:
			v = v.Add(m.Operand.value())
		case OpMultiply:
			v = v.Mul(m.Operand.value())
		}
	}
	return v
}

// Revert is the inverse of Apply. Zero multipliers cannot be inverted and are
// skipped.
func (c *Chain) Revert(v decimal.Decimal) decimal.Decimal {
	if c == nil {
		return v
	}
	for i := len(c.mods) - 1; i >= 0; i-- {
		m := c.mods[i]
		if !m.Enabled.holds() {
			continue
		}
		operand := m.Operand.value()
		switch m.Op {
		case OpAdd:
			v = v.Sub(operand)
		case OpMultiply:
			if operand.IsZero() {
				continue
			}
			v = v.Div(operand)
		}
	}
	return v
}

// Breakdown evaluates every modifier, enabled or not, in declared order.
func (c *Chain) Breakdown() []Contribution {
	if c == nil {
		return nil
	}
	out := make([]Contribution, 0, len(c.mods))
	for _, m := range c.mods {
		out = append(out, Contribution{
			Description: m.Description,
			Op:          m.Op,
			Operand:     m.Operand.value(),
			Enabled:     m.Enabled.holds(),
		})
	}
	return out
}
