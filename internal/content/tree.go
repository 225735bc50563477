package content

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
	"github.com/xtding233/idle-backend/internal/engine"
)

const (
	treeColor      = "#79B5ED"
	boosterColor   = "#6e64c4"
	generatorColor = "#a3d9a5"
)

var (
	prestigePower = decimal.NewFromFloat(0.95)
	generatorLog  = decimal.NewFromInt(10)
)

// TreeLayer is the second row of the prestige tree: prestige points bought
// from Jacorb points, and boosters and generators bought with prestige.
type TreeLayer struct {
	Layer *engine.Layer
	Pres  *engine.Resource
	Boost *engine.Resource
	Gens  *engine.Resource
	Node  *engine.TreeNode

	PrestigeScale  *engine.Conversion
	BoosterScale   *engine.Conversion
	GeneratorScale *engine.Conversion

	Prestige  *engine.Buyable
	Booster   *engine.Buyable
	Generator *engine.Buyable

	jacorb     *JacorbLayer
	mainPoints *engine.Resource
	jacorbTime *engine.Resource
}

func newTreeLayer(b Balance, jacorb *JacorbLayer, mainPoints, jacorbTime *engine.Resource) *TreeLayer {
	t := &TreeLayer{
		Layer:      engine.NewLayer("p", "Tree", treeColor),
		jacorb:     jacorb,
		mainPoints: mainPoints,
		jacorbTime: jacorbTime,
	}
	t.Pres = t.Layer.AddResource("pres", engine.NewResource(decimal.Zero, "Prestige", 0))
	t.Boost = t.Layer.AddResource("boost", engine.NewResource(decimal.Zero, "Boosters", 0))
	t.Gens = t.Layer.AddResource("gens", engine.NewResource(decimal.Zero, "Generators", 0))

	t.PrestigeScale = engine.NewConversion(engine.ConversionConfig{
		Kind:         engine.Cumulative,
		Scaling:      engine.NewPolynomialScaling(b.Prestige.Base, b.Prestige.Exponent),
		BaseResource: jacorb.Points,
		GainResource: t.Pres,
		RoundUpCost:  true,
		BuyMax:       true,
	})
	t.BoosterScale = engine.NewConversion(engine.ConversionConfig{
		Kind:         engine.Independent,
		Scaling:      engine.NewPolynomialScaling(b.Booster.Base, b.Booster.Exponent),
		BaseResource: t.Pres,
		GainResource: t.Boost,
		RoundUpCost:  true,
	})
	t.GeneratorScale = engine.NewConversion(engine.ConversionConfig{
		Kind:         engine.Independent,
		Scaling:      engine.NewPolynomialScaling(b.Generator.Base, b.Generator.Exponent),
		BaseResource: t.Pres,
		GainResource: t.Gens,
		RoundUpCost:  true,
	})

	t.Prestige = engine.NewBuyable(engine.BuyableConfig{
		Title:      "Prestige",
		Conversion: t.PrestigeScale,
		CanPurchase: func() bool {
			return t.PrestigeScale.CurrentGain().GreaterThanOrEqual(bignum.One)
		},
		OnPurchase: t.restartJacorb,
	})
	t.Booster = engine.NewBuyable(engine.BuyableConfig{
		Title:      "Boosters",
		Conversion: t.BoosterScale,
		OnPurchase: t.restartRow,
	})
	t.Generator = engine.NewBuyable(engine.BuyableConfig{
		Title:      "Generators",
		Conversion: t.GeneratorScale,
		OnPurchase: t.restartRow,
	})

	t.Node = &engine.TreeNode{
		ID:         "p",
		Color:      treeColor,
		Visibility: jacorb.Release.Bought,
		Glow:       t.glow,
	}
	return t
}

// PrestigeEffect is pres^0.95 + 1.
func (t *TreeLayer) PrestigeEffect() decimal.Decimal {
	return bignum.Pow(t.Pres.Value(), prestigePower).Add(bignum.One)
}

// BoosterEffect doubles point gain per booster.
func (t *TreeLayer) BoosterEffect() decimal.Decimal {
	return bignum.Pow(bignum.Two, t.Boost.Value())
}

// GeneratorEffect is 2^gens / 2 scaled by log10 of the seconds spent in the
// current Jacorb reset, never below 1.
func (t *TreeLayer) GeneratorEffect() decimal.Decimal {
	base := bignum.Pow(bignum.Two, t.Gens.Value()).Div(bignum.Two)
	multiplier := bignum.One
	if t.Gens.Value().GreaterThanOrEqual(bignum.One) {
		multiplier = bignum.Log10(t.jacorbTime.Value().Add(generatorLog))
	}
	return decimal.Max(base.Mul(multiplier), bignum.One)
}

// Unlocked reports whether the tree layer and its actions are available.
func (t *TreeLayer) Unlocked() bool { return t.jacorb.Release.Bought() }

func (t *TreeLayer) restartJacorb() {
	t.jacorb.Reset.Notify()
	t.jacorb.Points.Set(decimal.Zero)
	t.mainPoints.Set(decimal.Zero)
}

func (t *TreeLayer) restartRow() {
	t.restartJacorb()
	t.Pres.Set(decimal.Zero)
}

func (t *TreeLayer) glow() string {
	switch {
	case t.Booster.CanPurchase():
		return boosterColor
	case t.Generator.CanPurchase():
		return generatorColor
	case t.Prestige.CanPurchase():
		return treeColor
	}
	return ""
}
