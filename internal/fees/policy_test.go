package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solstocks/trading-gateway/pkg/model"
)

func testPolicy() *Policy {
	schedule := model.FeeSchedule{
		model.CategoryTraditional: {BuyFeePercent: 0.25, SellFeePercent: 0.25, MinFee: 0.001, MaxFee: 0.10},
		model.CategoryCrypto:      {BuyFeePercent: 0.35, SellFeePercent: 0.35, MinFee: 0.002, MaxFee: 0.15},
		model.CategoryPremium:     {BuyFeePercent: 0.50, SellFeePercent: 0.45, MinFee: 0.005, MaxFee: 0.25},
	}
	return NewPolicy(schedule,
		[]string{"COIN", "RIOT", "MSTR"},
		[]string{"TSLA", "NVDA"},
	)
}

func TestCategorize(t *testing.T) {
	p := testPolicy()

	assert.Equal(t, model.CategoryCrypto, p.Categorize("RIOT"))
	assert.Equal(t, model.CategoryPremium, p.Categorize("TSLA"))
	assert.Equal(t, model.CategoryTraditional, p.Categorize("AAPL"))
	// lookup is total: unknown symbols are traditional, never an error
	assert.Equal(t, model.CategoryTraditional, p.Categorize("ZZZZ"))
}

func TestComputeFee_MinFeeFloor(t *testing.T) {
	p := testPolicy()

	// RIOT on 0.01 notional: raw fee 0.000035, clamped up to the 0.002 floor
	q := p.ComputeFee("RIOT", decimal.NewFromFloat(0.01), model.SideBuy)
	require.Equal(t, model.CategoryCrypto, q.Category)
	assert.True(t, q.FeeAmount.Equal(decimal.NewFromFloat(0.002)),
		"expected 0.002, got %s", q.FeeAmount)
	assert.True(t, q.FeePercent.Equal(decimal.NewFromFloat(0.35)))
}

func TestComputeFee_MaxFeeCeiling(t *testing.T) {
	p := testPolicy()

	// 1000 * 0.35% = 3.5, clamped down to 0.15
	q := p.ComputeFee("COIN", decimal.NewFromInt(1000), model.SideBuy)
	assert.True(t, q.FeeAmount.Equal(decimal.NewFromFloat(0.15)),
		"expected 0.15, got %s", q.FeeAmount)
}

func TestComputeFee_ZeroNotionalStillPaysMinimum(t *testing.T) {
	p := testPolicy()

	q := p.ComputeFee("AAPL", decimal.Zero, model.SideBuy)
	assert.True(t, q.FeeAmount.Equal(decimal.NewFromFloat(0.001)))
}

func TestComputeFee_SellSidePercent(t *testing.T) {
	p := testPolicy()

	// premium sell percent differs from buy
	q := p.ComputeFee("TSLA", decimal.NewFromInt(10), model.SideSell)
	assert.True(t, q.FeePercent.Equal(decimal.NewFromFloat(0.45)))
	// 10 * 0.45% = 0.045, inside [0.005, 0.25]
	assert.True(t, q.FeeAmount.Equal(decimal.NewFromFloat(0.045)))
}

func TestComputeFee_AlwaysWithinBounds(t *testing.T) {
	p := testPolicy()

	notionals := []float64{0, 0.0001, 0.01, 0.5, 1, 7.3, 42, 1000, 1e6}
	symbols := map[string][2]float64{
		"AAPL": {0.001, 0.10},
		"RIOT": {0.002, 0.15},
		"TSLA": {0.005, 0.25},
	}

	for sym, bounds := range symbols {
		min := decimal.NewFromFloat(bounds[0])
		max := decimal.NewFromFloat(bounds[1])
		for _, n := range notionals {
			for _, side := range []model.Side{model.SideBuy, model.SideSell} {
				q := p.ComputeFee(sym, decimal.NewFromFloat(n), side)
				assert.True(t, q.FeeAmount.GreaterThanOrEqual(min),
					"%s notional %v side %s: fee %s below min", sym, n, side, q.FeeAmount)
				assert.True(t, q.FeeAmount.LessThanOrEqual(max),
					"%s notional %v side %s: fee %s above max", sym, n, side, q.FeeAmount)
			}
		}
	}
}
