package engine

// BuyableConfig describes a repeatable purchase backed by a conversion.
type BuyableConfig struct {
	Title      string
	Conversion *Conversion
	// CanPurchase defaults to "at least one unit affordable".
	CanPurchase Condition
	// OnPurchase runs after the conversion, e.g. to reset lower layers.
	OnPurchase func()
}

// Buyable is a repeatable purchase. It has no bought flag; the conversion's
// gain resource carries the count.
type Buyable struct {
	cfg BuyableConfig
}

func NewBuyable(cfg BuyableConfig) *Buyable {
	return &Buyable{cfg: cfg}
}

func (b *Buyable) Title() string           { return b.cfg.Title }
func (b *Buyable) Conversion() *Conversion { return b.cfg.Conversion }

func (b *Buyable) CanPurchase() bool {
	if b.cfg.CanPurchase != nil {
		return b.cfg.CanPurchase()
	}
	return b.cfg.Conversion.ActualGain().GreaterThanOrEqual(one)
}

// Purchase converts and runs OnPurchase. It is a no-op returning false when
// CanPurchase does not hold or the conversion grants nothing.
func (b *Buyable) Purchase() bool {
	if !b.CanPurchase() {
		return false
	}
	if b.cfg.Conversion.Convert().LessThan(one) {
		return false
	}
	if b.cfg.OnPurchase != nil {
		b.cfg.OnPurchase()
	}
	return true
}
