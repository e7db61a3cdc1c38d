package purchase

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solstocks/trading-gateway/internal/fees"
	"github.com/solstocks/trading-gateway/pkg/model"
)

// ErrInvalidOrder is returned for non-positive quantities or negative prices.
var ErrInvalidOrder = errors.New("invalid order")

// TokenPriceSource supplies the settlement token's current USD price.
type TokenPriceSource interface {
	TokenPrice() decimal.Decimal
}

// StaticTokenPrice is a fixed-price TokenPriceSource for when no live
// feed is wired (mock mode, tests).
type StaticTokenPrice struct {
	Price decimal.Decimal
}

func (s StaticTokenPrice) TokenPrice() decimal.Decimal { return s.Price }

// Builder assembles pending payment records from purchase inputs.
// It does not persist or submit anything; the only non-pure part is
// reference generation.
type Builder struct {
	policy     *fees.Policy
	tokenPrice TokenPriceSource
	method     string
}

// NewBuilder wires a builder against a fee policy and token price source.
func NewBuilder(policy *fees.Policy, tokenPrice TokenPriceSource, paymentMethod string) *Builder {
	return &Builder{
		policy:     policy,
		tokenPrice: tokenPrice,
		method:     paymentMethod,
	}
}

// BuildPurchase validates inputs and assembles a pending PaymentRecord.
// totalValue = unitPrice * quantity (USD); tokenAmount = totalValue / token
// price; the buy-side fee is computed on the token-denominated notional.
func (b *Builder) BuildPurchase(symbol string, unitPrice, quantity float64) (*model.PaymentRecord, error) {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return nil, fmt.Errorf("%w: quantity must be a positive finite number, got %v", ErrInvalidOrder, quantity)
	}
	if unitPrice < 0 || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return nil, fmt.Errorf("%w: unit price must be a non-negative finite number, got %v", ErrInvalidOrder, unitPrice)
	}
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidOrder)
	}

	price := decimal.NewFromFloat(unitPrice)
	qty := decimal.NewFromFloat(quantity)
	total := price.Mul(qty)

	tokenPx := b.tokenPrice.TokenPrice()
	var tokenAmount decimal.Decimal
	if !tokenPx.IsZero() {
		tokenAmount = total.Div(tokenPx)
	}

	quote := b.policy.ComputeFee(symbol, tokenAmount, model.SideBuy)

	return &model.PaymentRecord{
		Reference:     uuid.New().String(),
		Symbol:        symbol,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalValue:    total.InexactFloat64(),
		TokenAmount:   tokenAmount.InexactFloat64(),
		FeeAmount:     quote.FeeAmount.InexactFloat64(),
		FeePercent:    quote.FeePercent.InexactFloat64(),
		Category:      quote.Category,
		PaymentMethod: b.method,
		Status:        model.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
