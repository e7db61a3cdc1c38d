package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical event envelope.
// All messages published to NATS follow this format.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	WalletAddress string          `json:"wallet_address,omitempty"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// PaymentStatusEvent is emitted whenever a ledger record changes status.
type PaymentStatusEvent struct {
	Reference   string    `json:"reference"`
	Symbol      string    `json:"symbol"`
	Status      Status    `json:"status"`
	TxSignature string    `json:"tx_signature,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
