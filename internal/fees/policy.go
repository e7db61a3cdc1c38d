package fees

import (
	"github.com/shopspring/decimal"

	"github.com/solstocks/trading-gateway/pkg/model"
)

var oneHundred = decimal.NewFromInt(100)

// Quote is the result of a fee computation. Amounts are in settlement
// token units, the same numeraire as the notional passed in.
type Quote struct {
	Category   model.Category
	FeePercent decimal.Decimal
	FeeAmount  decimal.Decimal
}

// Policy classifies symbols into fee categories and computes clamped fees.
// It is pure: same inputs always produce the same quote, no error paths.
type Policy struct {
	schedule map[model.Category]tier
	crypto   map[string]struct{}
	premium  map[string]struct{}
}

type tier struct {
	buyPercent  decimal.Decimal
	sellPercent decimal.Decimal
	minFee      decimal.Decimal
	maxFee      decimal.Decimal
}

// NewPolicy builds a policy from an injected schedule and category lists.
// Symbols absent from both lists are treated as traditional.
func NewPolicy(schedule model.FeeSchedule, cryptoSymbols, premiumSymbols []string) *Policy {
	p := &Policy{
		schedule: make(map[model.Category]tier, len(schedule)),
		crypto:   make(map[string]struct{}, len(cryptoSymbols)),
		premium:  make(map[string]struct{}, len(premiumSymbols)),
	}
	for cat, t := range schedule {
		p.schedule[cat] = tier{
			buyPercent:  decimal.NewFromFloat(t.BuyFeePercent),
			sellPercent: decimal.NewFromFloat(t.SellFeePercent),
			minFee:      decimal.NewFromFloat(t.MinFee),
			maxFee:      decimal.NewFromFloat(t.MaxFee),
		}
	}
	for _, s := range cryptoSymbols {
		p.crypto[s] = struct{}{}
	}
	for _, s := range premiumSymbols {
		p.premium[s] = struct{}{}
	}
	return p
}

// Categorize returns the fee category for a symbol. The lookup is total:
// crypto list first, then premium, anything else is traditional.
func (p *Policy) Categorize(symbol string) model.Category {
	if _, ok := p.crypto[symbol]; ok {
		return model.CategoryCrypto
	}
	if _, ok := p.premium[symbol]; ok {
		return model.CategoryPremium
	}
	return model.CategoryTraditional
}

// ComputeFee returns the fee quote for a trade of the given notional amount.
// The raw fee is notional * percent / 100, then clamped to [minFee, maxFee].
// Clamping is unconditional: a zero-notional trade still pays at least minFee.
func (p *Policy) ComputeFee(symbol string, notional decimal.Decimal, side model.Side) Quote {
	cat := p.Categorize(symbol)
	t := p.schedule[cat]

	percent := t.buyPercent
	if side == model.SideSell {
		percent = t.sellPercent
	}

	fee := notional.Mul(percent).Div(oneHundred)
	if fee.LessThan(t.minFee) {
		fee = t.minFee
	}
	if fee.GreaterThan(t.maxFee) {
		fee = t.maxFee
	}

	return Quote{
		Category:   cat,
		FeePercent: percent,
		FeeAmount:  fee,
	}
}
