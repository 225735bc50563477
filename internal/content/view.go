package content

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
	"github.com/xtding233/idle-backend/internal/engine"
)

// View is a read-only snapshot of everything the presentation layer renders.
// Numbers are pre-formatted strings so clients never parse big decimals.
type View struct {
	Points    string         `json:"points"`
	Best      string         `json:"best"`
	Total     string         `json:"total"`
	PointGain string         `json:"pointGain"`
	Rate      string         `json:"rate"`
	Breakdown []ModifierView `json:"breakdown"`
	Won       bool           `json:"won"`
	Layers    []LayerView    `json:"layers"`
	Actions   []ActionInfo   `json:"actions"`
}

type ModifierView struct {
	Description string `json:"description"`
	Op          string `json:"op"`
	Value       string `json:"value"`
	Enabled     bool   `json:"enabled"`
}

type LayerView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Visible   bool            `json:"visible"`
	Glow      string          `json:"glow,omitempty"`
	Resources []ResourceView  `json:"resources"`
	Upgrades  []UpgradeView   `json:"upgrades,omitempty"`
	Buyables  []BuyableView   `json:"buyables,omitempty"`
	Reset     *ConversionView `json:"reset,omitempty"`
}

type ResourceView struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type UpgradeView struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	State       string `json:"state"`
	Effect      string `json:"effect,omitempty"`
}

type ConversionView struct {
	NextAt string `json:"nextAt"`
	Gain   string `json:"gain"`
}

type BuyableView struct {
	Title       string         `json:"title"`
	Amount      string         `json:"amount"`
	Effect      string         `json:"effect"`
	CanPurchase bool           `json:"canPurchase"`
	Conversion  ConversionView `json:"conversion"`
}

// View evaluates every derived value once.
func (g *Game) View() View {
	m, j, p := g.Main, g.Jacorb, g.Prestige
	v := View{
		Points:    m.Points.Format(),
		Best:      m.Best.Format(),
		Total:     m.Total.Format(),
		PointGain: bignum.Format(g.PointGain(), 2),
		Rate:      m.Rate.String(),
		Won:       g.Won(),
		Actions:   g.Actions(),
	}
	for _, c := range m.Gain.Breakdown() {
		v.Breakdown = append(v.Breakdown, ModifierView{
			Description: c.Description,
			Op:          c.Op.String(),
			Value:       bignum.Format(c.Operand, 2),
			Enabled:     c.Enabled,
		})
	}

	jv := layerView(j.Layer, j.Node)
	effects := map[string]decimal.Decimal{"init": j.InitEffect(), "pro": g.ProEffect()}
	for _, e := range j.Layer.Upgrades() {
		uv := UpgradeView{
			Key:         e.Key,
			Title:       e.Upgrade.Title(),
			Description: e.Upgrade.Description(),
			Cost:        bignum.Format(e.Upgrade.Cost(), 0),
			State:       e.Upgrade.State().String(),
		}
		if eff, ok := effects[e.Key]; ok {
			uv.Effect = "x" + bignum.Format(eff, 2)
		}
		jv.Upgrades = append(jv.Upgrades, uv)
	}
	jv.Reset = &ConversionView{
		NextAt: bignum.Format(j.Conversion.NextAt(), m.Points.Precision),
		Gain:   bignum.Format(j.Conversion.ActualGain(), 0),
	}

	pv := layerView(p.Layer, p.Node)
	pv.Buyables = []BuyableView{
		buyableView(p.Prestige, p.Pres, p.PrestigeEffect(), p.PrestigeScale.CurrentGain()),
		buyableView(p.Booster, p.Boost, p.BoosterEffect(), p.BoosterScale.ActualGain()),
		buyableView(p.Generator, p.Gens, p.GeneratorEffect(), p.GeneratorScale.ActualGain()),
	}
	v.Layers = []LayerView{jv, pv}
	return v
}

func layerView(l *engine.Layer, n *engine.TreeNode) LayerView {
	lv := LayerView{ID: l.ID, Name: l.Name, Color: l.Color, Visible: n.Visible(), Glow: n.GlowColor()}
	for _, e := range l.Resources() {
		lv.Resources = append(lv.Resources, ResourceView{Key: e.Key, Name: e.Resource.Name, Value: e.Resource.Format()})
	}
	return lv
}

func buyableView(b *engine.Buyable, amount *engine.Resource, effect, gain decimal.Decimal) BuyableView {
	c := b.Conversion()
	return BuyableView{
		Title:       b.Title(),
		Amount:      amount.Format(),
		Effect:      "x" + bignum.Format(effect, 2),
		CanPurchase: b.CanPurchase(),
		Conversion: ConversionView{
			NextAt: bignum.Format(c.NextAt(), c.BaseResource().Precision),
			Gain:   bignum.Format(gain, 0),
		},
	}
}
