package model

import (
	"time"
)

// Side identifies the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Category buckets an instrument for fee purposes.
type Category string

const (
	CategoryTraditional Category = "traditional"
	CategoryCrypto      Category = "crypto"
	CategoryPremium     Category = "premium"
)

// Status is the lifecycle state of a payment record.
// pending is the only non-terminal state; confirmed and failed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known payment status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether a record in this status may never transition again.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// Instrument is static reference data for one tradable symbol.
type Instrument struct {
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"` // current unit price, USD
	Category Category `json:"category"`
}

// FeeTier holds the fee parameters for one category.
// Percentages are in percent units (0.35 == 0.35%). MinFee <= MaxFee.
type FeeTier struct {
	BuyFeePercent  float64 `json:"buy_fee_percent"`
	SellFeePercent float64 `json:"sell_fee_percent"`
	MinFee         float64 `json:"min_fee"`
	MaxFee         float64 `json:"max_fee"`
}

// FeeSchedule maps categories to their fee tiers.
type FeeSchedule map[Category]FeeTier

// PaymentRecord is the canonical ledger entry for one purchase intent.
// Created pending; mutated only by a status transition, never deleted.
type PaymentRecord struct {
	Reference     string     `json:"reference"` // opaque unique key (uuid)
	Symbol        string     `json:"symbol"`
	Quantity      float64    `json:"quantity"`
	UnitPrice     float64    `json:"unit_price"`
	TotalValue    float64    `json:"total_value"`  // Quantity * UnitPrice, USD
	TokenAmount   float64    `json:"token_amount"` // TotalValue / settlement token price
	FeeAmount     float64    `json:"fee_amount"`   // in settlement token units
	FeePercent    float64    `json:"fee_percent"`
	Category      Category   `json:"category"`
	PaymentMethod string     `json:"payment_method"` // e.g. "solana-pay"
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	TxSignature   string     `json:"tx_signature,omitempty"` // set by the wallet on submit
}

// HoldingPosition is the derived ownership state for one symbol.
// Recomputed from confirmed payment records on every read; never persisted.
type HoldingPosition struct {
	Symbol              string  `json:"symbol"`
	Quantity            float64 `json:"quantity"`
	TotalInvested       float64 `json:"total_invested"`
	AveragePrice        float64 `json:"average_price"`
	CurrentPrice        float64 `json:"current_price"`
	CurrentValue        float64 `json:"current_value"`
	UnrealizedPL        float64 `json:"unrealized_pl"`
	UnrealizedPLPercent float64 `json:"unrealized_pl_percent"`
}

// TransactionReceipt is what the wallet service returns for a submitted payment.
type TransactionReceipt struct {
	Signature   string    `json:"signature"`
	Slot        uint64    `json:"slot,omitempty"`
	Finalized   bool      `json:"finalized"`
	Err         string    `json:"err,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Identity is a connected wallet identity.
type Identity struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}
