// Package content builds the prestige-tree game on top of package engine: the
// main points layer, the Jacorb layer, the tree layer with its buyables, the
// reset tree linking them and the named actions a player can invoke.
package content

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/bignum"
	"github.com/xtding233/idle-backend/internal/engine"
)

// MainLayer holds the points the whole game revolves around.
type MainLayer struct {
	Layer      *engine.Layer
	Points     *engine.Resource
	Best       *engine.Resource
	Total      *engine.Resource
	JacorbTime *engine.Resource
	Gain       *engine.Chain
	Rate       *engine.RateTracker
}

// Game is one running instance. It is not safe for concurrent use.
type Game struct {
	Balance Balance

	Main     *MainLayer
	Jacorb   *JacorbLayer
	Prestige *TreeLayer
	Tree     *engine.Tree

	driver  *engine.TickDriver
	actions []*Action
}

// New builds a fresh game with every resource at its initial value.
func New(b Balance) *Game {
	g := &Game{Balance: b, driver: engine.NewTickDriver()}

	m := &MainLayer{Layer: engine.NewLayer("main", "Tree", "")}
	m.Points = m.Layer.AddResource("points", engine.NewResource(b.StartingPoints, "points", 2))
	m.Best = m.Layer.AddResource("best", engine.TrackBest(m.Points))
	m.Total = m.Layer.AddResource("total", engine.TrackTotal(m.Points))
	g.Main = m

	g.Jacorb = newJacorbLayer(b, m.Points)
	m.JacorbTime = m.Layer.AddResource("jacorb_time", engine.TrackResetTime(g.driver, g.Jacorb.Reset))
	g.Prestige = newTreeLayer(b, g.Jacorb, m.Points, m.JacorbTime)

	j, p := g.Jacorb, g.Prestige
	m.Gain = engine.NewChain(
		engine.Additive(engine.Const(bignum.One), "Beginning.", j.Beginning.Bought),
		engine.Multiplicative(j.InitEffect, "Init.", j.Init.Bought),
		engine.Multiplicative(g.ProEffect, "Programming.", j.Pro.Bought),
		engine.Multiplicative(p.PrestigeEffect, "Prestige", nil),
		engine.Multiplicative(p.BoosterEffect, "Boosters", nil),
		engine.Multiplicative(p.GeneratorEffect, "Generators", nil),
	)
	g.driver.Register(func(delta decimal.Decimal) {
		m.Points.Add(g.PointGain().Mul(delta))
	})
	m.Rate = engine.TrackOOMPS(g.driver, m.Points, g.PointGain)

	g.Tree = engine.NewTree(engine.TreeConfig{
		Nodes:       [][]*engine.TreeNode{{j.Node, p.Node}},
		Propagation: engine.BranchedPropagation,
		OnReset:     g.seedPoints,
	})
	g.actions = g.buildActions()
	return g
}

// PointGain is the points earned per second right now.
func (g *Game) PointGain() decimal.Decimal {
	return g.Main.Gain.Apply(decimal.Zero)
}

// ProEffect is log5(points + 5).
func (g *Game) ProEffect() decimal.Decimal {
	five := decimal.NewFromInt(5)
	return bignum.Log(g.Main.Points.Value().Add(five), five)
}

// Tick advances the game by delta seconds. Negative deltas are rejected.
func (g *Game) Tick(delta decimal.Decimal) bool {
	return g.driver.Tick(delta)
}

// Ticks is the number of accepted ticks since New.
func (g *Game) Ticks() uint64 { return g.driver.Ticks() }

// Won reports whether the tree layer holds enough boosters and generators.
func (g *Game) Won() bool {
	return g.Prestige.Boost.Value().GreaterThanOrEqual(g.Balance.Win.Boosters) &&
		g.Prestige.Gens.Value().GreaterThanOrEqual(g.Balance.Win.Generators)
}

// Layers lists every layer in save order.
func (g *Game) Layers() []*engine.Layer {
	return []*engine.Layer{g.Main.Layer, g.Jacorb.Layer, g.Prestige.Layer}
}

// seedPoints runs after every tree reset. A Jacorb reset spends the points, any
// other reset hands back the starting amount.
func (g *Game) seedPoints(resetting *engine.TreeNode) {
	v := g.Balance.StartingPoints
	if resetting == g.Jacorb.Node {
		v = decimal.Zero
	}
	g.Main.Points.Set(v)
	g.Main.Best.Set(v)
	g.Main.Total.Set(v)
}
