package holdings

import (
	"sort"

	"github.com/solstocks/trading-gateway/internal/instruments"
	"github.com/solstocks/trading-gateway/pkg/model"
)

// Compute reduces confirmed payment records into per-symbol holding
// positions. Pending and failed records never affect holdings. The result
// is symbol-sorted so callers get a stable order.
func Compute(records []model.PaymentRecord, prices instruments.PriceLookup) []model.HoldingPosition {
	type acc struct {
		quantity float64
		invested float64
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		if rec.Status != model.StatusConfirmed {
			continue
		}
		g, ok := groups[rec.Symbol]
		if !ok {
			g = &acc{}
			groups[rec.Symbol] = g
		}
		g.quantity += rec.Quantity
		g.invested += rec.TotalValue
	}

	out := make([]model.HoldingPosition, 0, len(groups))
	for symbol, g := range groups {
		pos := model.HoldingPosition{
			Symbol:        symbol,
			Quantity:      g.quantity,
			TotalInvested: g.invested,
		}
		if g.quantity > 0 {
			pos.AveragePrice = g.invested / g.quantity
		}

		if price, ok := prices.CurrentPrice(symbol); ok {
			pos.CurrentPrice = price
			pos.CurrentValue = g.quantity * price
			pos.UnrealizedPL = pos.CurrentValue - g.invested
			if g.invested > 0 {
				pos.UnrealizedPLPercent = pos.UnrealizedPL / g.invested * 100
			}
		} else {
			// No live price: value the position at cost, flat P&L.
			pos.CurrentPrice = pos.AveragePrice
			pos.CurrentValue = g.invested
		}
		out = append(out, pos)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
