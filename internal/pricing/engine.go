// Package pricing computes member discounts for ticket purchases.
//
// The engine is pure: every input is passed in, nothing reads the clock or a
// store, so a quote can be recomputed later from the values stored on the
// ticket and will always match.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidBasePrice = errors.New("base price must not be negative")
)

// Tier is a membership level.
type Tier string

const (
	TierNone       Tier = "none"
	TierIndividual Tier = "individual"
	TierFamily     Tier = "family"
	TierPatron     Tier = "patron"
	TierLifetime   Tier = "lifetime"
)

var tierDiscounts = map[Tier]int64{
	TierIndividual: 20,
	TierFamily:     30,
	TierPatron:     40,
	TierLifetime:   50,
}

var hundred = decimal.NewFromInt(100)

// ParseTier normalises s. Anything unrecognised becomes TierNone.
func ParseTier(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierDiscounts[t]; ok {
		return t
	}
	return TierNone
}

// DiscountPercent returns the per-unit discount for tier; unknown tiers get 0.
func DiscountPercent(tier Tier) int64 {
	return tierDiscounts[ParseTier(string(tier))]
}

// Quote is the priced outcome of a purchase.
type Quote struct {
	Tier                Tier
	Quantity            int
	UnitBasePrice       decimal.Decimal
	UnitDiscountPercent int64
	TotalDiscount       decimal.Decimal
	TotalPrice          decimal.Decimal
}

// Engine prices tickets.
type Engine struct{}

// NewEngine creates a new Engine.
func NewEngine() *Engine { return &Engine{} }

// Price computes
//
//	totalPrice    = round2(quantity * basePrice * (100 - percent) / 100)
//	totalDiscount = quantity * basePrice - totalPrice
//
// Rounding happens once, on the total, half away from zero.
func (e *Engine) Price(basePrice decimal.Decimal, tier Tier, quantity int) (Quote, error) {
	if quantity <= 0 {
		return Quote{}, ErrInvalidQuantity
	}
	if basePrice.IsNegative() {
		return Quote{}, ErrInvalidBasePrice
	}

	tier = ParseTier(string(tier))
	pct := tierDiscounts[tier]

	gross := basePrice.Mul(decimal.NewFromInt(int64(quantity)))
	total := gross.Mul(hundred.Sub(decimal.NewFromInt(pct))).Div(hundred).Round(2)

	return Quote{
		Tier:                tier,
		Quantity:            quantity,
		UnitBasePrice:       basePrice,
		UnitDiscountPercent: pct,
		TotalDiscount:       gross.Sub(total),
		TotalPrice:          total,
	}, nil
}
