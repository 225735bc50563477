package engine

import "github.com/shopspring/decimal"

// UpgradeState is the display state of an Upgrade.
type UpgradeState int8

const (
	UpgradeLocked UpgradeState = iota
	UpgradeUnaffordable
	UpgradeAffordable
	UpgradeBought
)

func (s UpgradeState) String() string {
	switch s {
	case UpgradeLocked:
		return "locked"
	case UpgradeUnaffordable:
		return "visible-unaffordable"
	case UpgradeAffordable:
		return "visible-affordable"
	case UpgradeBought:
		return "bought"
	}
	return "unknown"
}

// UpgradeConfig describes a one-time purchase.
type UpgradeConfig struct {
	Title       string
	Description string
	Cost        decimal.Decimal
	Resource    *Resource
	Visibility  Condition // nil means always visible
	OnPurchase  func()
}

// Upgrade is a one-time purchasable gate. Bought only reverts through Reset.
type Upgrade struct {
	cfg    UpgradeConfig
	bought bool
}

func NewUpgrade(cfg UpgradeConfig) *Upgrade {
	return &Upgrade{cfg: cfg}
}

func (u *Upgrade) Title() string         { return u.cfg.Title }
func (u *Upgrade) Description() string   { return u.cfg.Description }
func (u *Upgrade) Cost() decimal.Decimal { return u.cfg.Cost }
func (u *Upgrade) Resource() *Resource   { return u.cfg.Resource }
func (u *Upgrade) Bought() bool          { return u.bought }
func (u *Upgrade) Visible() bool         { return u.bought || u.cfg.Visibility.holds() }
func (u *Upgrade) SetBought(bought bool) { u.bought = bought }

// CanPurchase reports whether Purchase would succeed.
func (u *Upgrade) CanPurchase() bool {
	return !u.bought && u.cfg.Visibility.holds() &&
		u.cfg.Resource.Value().GreaterThanOrEqual(u.cfg.Cost)
}

func (u *Upgrade) State() UpgradeState {
	switch {
	case u.bought:
		return UpgradeBought
	case !u.cfg.Visibility.holds():
		return UpgradeLocked
	case u.CanPurchase():
		return UpgradeAffordable
	}
	return UpgradeUnaffordable
}

// Purchase debits the cost and marks the upgrade bought. It returns false and
// changes nothing when the upgrade is bought, hidden or unaffordable.
func (u *Upgrade) Purchase() bool {
	if !u.CanPurchase() {
		return false
	}
	u.cfg.Resource.Add(u.cfg.Cost.Neg())
	u.bought = true
	if u.cfg.OnPurchase != nil {
		u.cfg.OnPurchase()
	}
	return true
}

// Reset clears the bought flag.
func (u *Upgrade) Reset() {
	u.bought = false
}
