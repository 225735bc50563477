package content

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
	"github.com/xtding233/idle-backend/internal/engine"
)

const (
	jacorbColor = "#8932DA"
	jacorbGlow  = "red"
	pendingGlow = "#afafaf"
)

// JacorbLayer is the first prestige layer: points convert into Jacorb points,
// which buy the four upgrades that unlock point gain and the tree layer.
type JacorbLayer struct {
	Layer      *engine.Layer
	Points     *engine.Resource
	Conversion *engine.Conversion
	Reset      *engine.Reset
	Node       *engine.TreeNode

	Beginning *engine.Upgrade
	Init      *engine.Upgrade
	Pro       *engine.Upgrade
	Release   *engine.Upgrade
}

func newJacorbLayer(b Balance, mainPoints *engine.Resource) *JacorbLayer {
	j := &JacorbLayer{Layer: engine.NewLayer("j", "Jacorb", jacorbColor)}
	j.Points = j.Layer.AddResource("points", engine.NewResource(decimal.Zero, "Jacorb points", 0))

	j.Beginning = j.Layer.AddUpgrade("beginning", engine.NewUpgrade(engine.UpgradeConfig{
		Title:       "Beginning.",
		Description: "Gain 1 point per second.",
		Cost:        b.Costs.Beginning,
		Resource:    j.Points,
	}))
	j.Init = j.Layer.AddUpgrade("init", engine.NewUpgrade(engine.UpgradeConfig{
		Title:       "Init.",
		Description: "Jacorb points boost point gain.",
		Cost:        b.Costs.Init,
		Resource:    j.Points,
		Visibility:  j.Beginning.Bought,
	}))
	j.Pro = j.Layer.AddUpgrade("pro", engine.NewUpgrade(engine.UpgradeConfig{
		Title:       "Programming.",
		Description: "Points boost point gain.",
		Cost:        b.Costs.Pro,
		Resource:    j.Points,
		Visibility:  j.Init.Bought,
	}))
	j.Release = j.Layer.AddUpgrade("release", engine.NewUpgrade(engine.UpgradeConfig{
		Title:       "Release.",
		Description: "Unlock something new.",
		Cost:        b.Costs.Release,
		Resource:    j.Points,
		Visibility:  j.Pro.Bought,
	}))

	j.Conversion = engine.NewConversion(engine.ConversionConfig{
		Kind:         engine.Cumulative,
		Scaling:      engine.NewPolynomialScaling(b.Jacorb.Base, b.Jacorb.Exponent),
		BaseResource: mainPoints,
		GainResource: j.Points,
		RoundUpCost:  true,
		BuyMax:       true,
	})
	j.Reset = engine.NewReset("j", j.Layer)
	j.Node = &engine.TreeNode{ID: "j", Color: jacorbColor, Reset: j.Reset, Glow: j.glow}
	return j
}

// InitEffect is log2(Jacorb points + 2) + 1.
func (j *JacorbLayer) InitEffect() decimal.Decimal {
	return bignum.Log(j.Points.Value().Add(bignum.Two), bignum.Two).Add(bignum.One)
}

// CanReset reports whether a Jacorb reset would grant at least one point.
func (j *JacorbLayer) CanReset() bool {
	return j.Conversion.ActualGain().GreaterThanOrEqual(bignum.One)
}

func (j *JacorbLayer) glow() string {
	for _, u := range []*engine.Upgrade{j.Beginning, j.Init, j.Pro, j.Release} {
		if u.CanPurchase() {
			return jacorbGlow
		}
	}
	if j.Conversion.CurrentGain().GreaterThan(j.Points.Value()) {
		return pendingGlow
	}
	return ""
}
