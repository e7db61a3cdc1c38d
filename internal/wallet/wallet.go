package wallet

import (
	"context"

	"github.com/solstocks/trading-gateway/pkg/model"
)

// PaymentIntent is what gets handed to the wallet for signing and
// submission: the ledger record's reference plus the token amounts due.
type PaymentIntent struct {
	Reference   string  `json:"reference"`
	Recipient   string  `json:"recipient"`
	TokenAmount float64 `json:"token_amount"`
	FeeAmount   float64 `json:"fee_amount"`
	Memo        string  `json:"memo,omitempty"`
}

// Service is the wallet collaborator boundary. Transaction construction,
// signing and submission all live behind it; the gateway never touches
// chain plumbing directly.
type Service interface {
	ConnectedIdentity(ctx context.Context) (*model.Identity, error)
	SignAndSubmit(ctx context.Context, intent PaymentIntent) (*model.TransactionReceipt, error)
	TokenBalance(ctx context.Context) (float64, error)
	// ReceiptStatus re-checks a previously submitted transaction.
	ReceiptStatus(ctx context.Context, signature string) (*model.TransactionReceipt, error)
}

// Authenticator gates wallet access behind a device biometric prompt.
// It only guards calls into the wallet; it has no bearing on ledger state.
type Authenticator interface {
	Authenticate(ctx context.Context, reason string) (bool, error)
}

// AllowAll is an Authenticator that always passes (server-side deployments
// where the device prompt happened upstream).
type AllowAll struct{}

func (AllowAll) Authenticate(ctx context.Context, reason string) (bool, error) { return true, nil }
