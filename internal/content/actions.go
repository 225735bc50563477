package content

import (
	"errors"
	"fmt"

	"github.com/xtding233/idle-backend/internal/engine"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is a named input hook. Run performs its own precondition checks and
// reports whether state changed.
type Action struct {
	ID          string
	Key         string
	Description string
	Enabled     engine.Condition
	Ready       engine.Condition
	Run         func() bool
}

// ActionInfo is the read-only state of an action for input bindings.
type ActionInfo struct {
	ID          string `json:"id"`
	Key         string `json:"key,omitempty"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Ready       bool   `json:"ready"`
}

func (a *Action) enabled() bool { return a.Enabled == nil || a.Enabled() }

func (a *Action) ready() bool { return a.enabled() && (a.Ready == nil || a.Ready()) }

func (g *Game) buildActions() []*Action {
	j, p := g.Jacorb, g.Prestige
	var out []*Action
	for _, e := range j.Layer.Upgrades() {
		u := e.Upgrade
		out = append(out, &Action{
			ID:          "upgrade:" + e.Key,
			Description: fmt.Sprintf("Buy %s", u.Title()),
			Enabled:     u.Visible,
			Ready:       u.CanPurchase,
			Run:         u.Purchase,
		})
	}
	out = append(out, &Action{
		ID:          "reset:j",
		Key:         "j",
		Description: "Reset for Jacorb points",
		Ready:       j.CanReset,
		Run:         g.resetJacorb,
	})
	for _, b := range []struct {
		id, key, desc string
		buyable       *engine.Buyable
	}{
		{"buyable:prestige", "p", "Reset for Prestige points", p.Prestige},
		{"buyable:booster", "b", "Reset for Boosters", p.Booster},
		{"buyable:generator", "g", "Reset for Generators", p.Generator},
	} {
		out = append(out, &Action{
			ID:          b.id,
			Key:         b.key,
			Description: b.desc,
			Enabled:     p.Unlocked,
			Ready:       b.buyable.CanPurchase,
			Run:         b.buyable.Purchase,
		})
	}
	return out
}

// resetJacorb converts points into Jacorb points, restarts the Jacorb timer
// and resets the tree from the Jacorb node.
func (g *Game) resetJacorb() bool {
	j := g.Jacorb
	if !j.CanReset() {
		return false
	}
	j.Conversion.Convert()
	j.Reset.Notify()
	g.Tree.Reset(j.Node)
	return true
}

// Actions describes every action in a stable order.
func (g *Game) Actions() []ActionInfo {
	out := make([]ActionInfo, 0, len(g.actions))
	for _, a := range g.actions {
		out = append(out, ActionInfo{
			ID:          a.ID,
			Key:         a.Key,
			Description: a.Description,
			Enabled:     a.enabled(),
			Ready:       a.ready(),
		})
	}
	return out
}

// Invoke runs the action whose ID or hotkey matches name. Disabled actions and
// failed preconditions return false with no error; only an unknown name errors.
func (g *Game) Invoke(name string) (bool, error) {
	for _, a := range g.actions {
		if a.ID != name && (a.Key == "" || a.Key != name) {
			continue
		}
		if !a.enabled() {
			return false, nil
		}
		return a.Run(), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
