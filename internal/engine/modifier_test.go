package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func TestChainApplyHonoursToggles(t *testing.T) {
	addOn, mulOn := true, false
	c := NewChain(
		Additive(Const(dec(1)), "base gain", func() bool { return addOn }),
		Multiplicative(Const(dec(3)), "triple", func() bool { return mulOn }),
	)
	if got := c.Apply(decimal.Zero); !got.Equal(dec(1)) {
		t.Fatalf("apply = %s, want 1", got)
	}
	mulOn = true
	if got := c.Apply(decimal.Zero); !got.Equal(dec(3)) {
		t.Fatalf("apply = %s, want 3", got)
	}
	addOn = false
	if got := c.Apply(decimal.Zero); !got.IsZero() {
		t.Fatalf("apply = %s, want 0", got)
	}
}

func TestChainBreakdownKeepsOrder(t *testing.T) {
	c := NewChain(
		Multiplicative(Const(dec(2)), "first", nil),
		Additive(Const(dec(5)), "second", func() bool { return false }),
		Multiplicative(Const(dec(7)), "third", Always),
	)
	bd := c.Breakdown()
	if len(bd) != 3 {
		t.Fatalf("breakdown has %d entries, want 3", len(bd))
	}
	want := []struct {
		desc    string
		op      Operation
		enabled bool
	}{{"first", OpMultiply, true}, {"second", OpAdd, false}, {"third", OpMultiply, true}}
	for i, w := range want {
		if bd[i].Description != w.desc || bd[i].Op != w.op || bd[i].Enabled != w.enabled {
			t.Fatalf("entry %d = %+v, want %+v", i, bd[i], w)
		}
	}
}

func TestChainRevertInvertsApply(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(t, "n")
		mods := make([]Modifier, 0, n)
		for i := 0; i < n; i++ {
			v := dec(rapid.Float64Range(0.5, 10).Draw(t, "operand"))
			on := rapid.Bool().Draw(t, "enabled")
			if rapid.Bool().Draw(t, "add") {
				mods = append(mods, Additive(Const(v), "add", func() bool { return on }))
			} else {
				mods = append(mods, Multiplicative(Const(v), "mul", func() bool { return on }))
			}
		}
		c := NewChain(mods...)
		x := dec(rapid.Float64Range(0, 1e6).Draw(t, "x"))
		back := c.Revert(c.Apply(x))
		if back.Sub(x).Abs().GreaterThan(dec(1e-6)) {
			t.Fatalf("revert(apply(%s)) = %s", x, back)
		}
	})
}

func TestNilChainIsIdentity(t *testing.T) {
	var c *Chain
	x := dec(42)
	if !c.Apply(x).Equal(x) || !c.Revert(x).Equal(x) || c.Len() != 0 || c.Breakdown() != nil {
		t.Fatalf("nil chain should be the identity")
	}
}

func TestOperationString(t *testing.T) {
	if OpAdd.String() != "add" || OpMultiply.String() != "multiply" {
		t.Fatalf("unexpected operation names %q %q", OpAdd, OpMultiply)
	}
}
