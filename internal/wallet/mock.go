package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solstocks/trading-gateway/pkg/model"
)

// Mock is an in-process wallet used in dev mode and tests. Submitted
// payments finalize after ConfirmAfter elapses (immediately when zero).
type Mock struct {
	mu       sync.Mutex
	identity model.Identity
	balance  float64
	receipts map[string]*model.TransactionReceipt
	intents  []PaymentIntent

	// ConfirmAfter delays finalization to exercise the confirmation poller.
	ConfirmAfter time.Duration
	// FailSubmit makes SignAndSubmit return an error.
	FailSubmit bool
}

// NewMock creates a mock wallet with the given identity and token balance.
func NewMock(address string, balance float64) *Mock {
	return &Mock{
		identity: model.Identity{Address: address, Label: "mock"},
		balance:  balance,
		receipts: make(map[string]*model.TransactionReceipt),
	}
}

func (m *Mock) ConnectedIdentity(ctx context.Context) (*model.Identity, error) {
	id := m.identity
	return &id, nil
}

func (m *Mock) TokenBalance(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance, nil
}

func (m *Mock) SignAndSubmit(ctx context.Context, intent PaymentIntent) (*model.TransactionReceipt, error) {
	if m.FailSubmit {
		return nil, fmt.Errorf("mock wallet: submit rejected")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	due := intent.TokenAmount + intent.FeeAmount
	if due > m.balance {
		return nil, fmt.Errorf("mock wallet: insufficient balance: need %v, have %v", due, m.balance)
	}
	m.balance -= due
	m.intents = append(m.intents, intent)

	rcpt := &model.TransactionReceipt{
		Signature:   uuid.New().String(),
		Finalized:   m.ConfirmAfter == 0,
		SubmittedAt: time.Now().UTC(),
	}
	if !rcpt.Finalized {
		deadline := time.Now().Add(m.ConfirmAfter)
		go m.finalizeAt(rcpt.Signature, deadline)
	}
	m.receipts[rcpt.Signature] = rcpt
	return rcpt, nil
}

func (m *Mock) finalizeAt(signature string, deadline time.Time) {
	time.Sleep(time.Until(deadline))
	m.mu.Lock()
	defer m.mu.Unlock()
	if rcpt, ok := m.receipts[signature]; ok {
		rcpt.Finalized = true
	}
}

// Intents returns the payment intents accepted so far, in submission order.
func (m *Mock) Intents() []PaymentIntent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PaymentIntent, len(m.intents))
	copy(out, m.intents)
	return out
}

func (m *Mock) ReceiptStatus(ctx context.Context, signature string) (*model.TransactionReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rcpt, ok := m.receipts[signature]
	if !ok {
		return nil, fmt.Errorf("mock wallet: unknown signature %s", signature)
	}
	out := *rcpt
	return &out, nil
}
