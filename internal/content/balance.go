package content

import "github.com/shopspring/decimal"

// Curve is a polynomial scaling's base and exponent.
type Curve struct {
	Base     decimal.Decimal
	Exponent decimal.Decimal
}

type UpgradeCosts struct {
	Beginning decimal.Decimal
	Init      decimal.Decimal
	Pro       decimal.Decimal
	Release   decimal.Decimal
}

// WinCondition is the buyable count needed on the tree layer to finish.
type WinCondition struct {
	Boosters   decimal.Decimal
	Generators decimal.Decimal
}

// Balance carries every tunable number of the game. game.Resolve fills it
// from YAML; DefaultBalance matches the shipped config.
type Balance struct {
	StartingPoints decimal.Decimal
	Jacorb         Curve
	Costs          UpgradeCosts
	Prestige       Curve
	Booster        Curve
	Generator      Curve
	Win            WinCondition
}

func DefaultBalance() Balance {
	d := decimal.NewFromFloat
	return Balance{
		StartingPoints: d(10),
		Jacorb:         Curve{Base: d(10), Exponent: d(0.5)},
		Costs:          UpgradeCosts{Beginning: d(1), Init: d(1), Pro: d(3), Release: d(5)},
		Prestige:       Curve{Base: d(10), Exponent: d(0.5)},
		Booster:        Curve{Base: d(10), Exponent: d(0.75)},
		Generator:      Curve{Base: d(10), Exponent: d(0.75)},
		Win:            WinCondition{Boosters: d(2), Generators: d(2)},
	}
}
