package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solstocks/trading-gateway/internal/fees"
	"github.com/solstocks/trading-gateway/internal/instruments"
	"github.com/solstocks/trading-gateway/internal/ledger"
	"github.com/solstocks/trading-gateway/internal/purchase"
	"github.com/solstocks/trading-gateway/internal/rate"
	"github.com/solstocks/trading-gateway/internal/wallet"
	"github.com/solstocks/trading-gateway/pkg/model"
)

type denyAuth struct{}

func (denyAuth) Authenticate(ctx context.Context, reason string) (bool, error) { return false, nil }

func newTestService(t *testing.T, w wallet.Service, auth wallet.Authenticator) *Service {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	led := ledger.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil)

	catalog := instruments.NewCatalog(instruments.DefaultListings())
	policy := fees.NewPolicy(
		instruments.DefaultFeeSchedule(),
		catalog.SymbolsByCategory(model.CategoryCrypto),
		catalog.SymbolsByCategory(model.CategoryPremium),
	)
	builder := purchase.NewBuilder(policy,
		purchase.StaticTokenPrice{Price: decimal.NewFromInt(100)}, "solana-pay")

	rates := rate.NewManager(rate.Config{RequestsPerSecond: 100, Burst: 100})

	return NewService(zap.NewNop(), catalog, builder, led, w, auth, rates, nil, nil,
		"Treas1111111111111111111111111111111111111", "SOL")
}

func TestSubmitPurchase_ImmediateFinalization(t *testing.T) {
	w := wallet.NewMock("mock-wallet", 1_000)
	svc := newTestService(t, w, wallet.AllowAll{})

	rec, err := svc.SubmitPurchase(context.Background(), "COIN", 2)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, rec.Status)
	assert.NotEmpty(t, rec.TxSignature)
	require.NotNil(t, rec.ConfirmedAt)

	stored, err := svc.Ledger().Get(context.Background(), rec.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, stored.Status)
}

func TestSubmitPurchase_IntentCarriesSettlementToken(t *testing.T) {
	w := wallet.NewMock("mock-wallet", 1_000)
	svc := newTestService(t, w, wallet.AllowAll{})

	_, err := svc.SubmitPurchase(context.Background(), "COIN", 2)
	require.NoError(t, err)

	intents := w.Intents()
	require.Len(t, intents, 1)
	assert.Equal(t, "Treas1111111111111111111111111111111111111", intents[0].Recipient)
	assert.Contains(t, intents[0].Memo, "COIN x2")
	assert.Contains(t, intents[0].Memo, "SOL")
}

func TestSubmitPurchase_UnknownSymbol(t *testing.T) {
	svc := newTestService(t, wallet.NewMock("mock-wallet", 1_000), wallet.AllowAll{})

	_, err := svc.SubmitPurchase(context.Background(), "ZZZZ", 1)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestSubmitPurchase_InvalidQuantity(t *testing.T) {
	svc := newTestService(t, wallet.NewMock("mock-wallet", 1_000), wallet.AllowAll{})

	_, err := svc.SubmitPurchase(context.Background(), "COIN", -3)
	assert.ErrorIs(t, err, purchase.ErrInvalidOrder)
}

func TestSubmitPurchase_BiometricDeclined(t *testing.T) {
	svc := newTestService(t, wallet.NewMock("mock-wallet", 1_000), denyAuth{})

	_, err := svc.SubmitPurchase(context.Background(), "COIN", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")

	// nothing hit the ledger
	records, err := svc.Ledger().ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmitPurchase_WalletRejection(t *testing.T) {
	w := wallet.NewMock("mock-wallet", 1_000)
	w.FailSubmit = true
	svc := newTestService(t, w, wallet.AllowAll{})

	rec, err := svc.SubmitPurchase(context.Background(), "AAPL", 1)
	require.Error(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.StatusFailed, rec.Status)

	stored, err := svc.Ledger().Get(context.Background(), rec.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, stored.Status)
}

func TestSubmitPurchase_InsufficientBalance(t *testing.T) {
	// 2 COIN at 245.67 ≈ 4.91 tokens; balance below that
	w := wallet.NewMock("mock-wallet", 1)
	svc := newTestService(t, w, wallet.AllowAll{})

	rec, err := svc.SubmitPurchase(context.Background(), "COIN", 2)
	require.Error(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.StatusFailed, rec.Status)
}

func TestConfirmationPoller_DrivesPendingToConfirmed(t *testing.T) {
	w := wallet.NewMock("mock-wallet", 1_000)
	w.ConfirmAfter = 50 * time.Millisecond
	svc := newTestService(t, w, wallet.AllowAll{})

	poller := NewConfirmationPoller(zap.NewNop(), svc, w, 10*time.Millisecond, time.Second)
	svc.SetPoller(poller)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Start(ctx)

	rec, err := svc.SubmitPurchase(ctx, "RIOT", 5)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.Equal(t, 1, poller.Tracked())

	require.Eventually(t, func() bool {
		stored, err := svc.Ledger().Get(context.Background(), rec.Reference)
		return err == nil && stored.Status == model.StatusConfirmed
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, poller.Tracked())
}

func TestConfirmationPoller_TimesOutStalePayments(t *testing.T) {
	w := wallet.NewMock("mock-wallet", 1_000)
	w.ConfirmAfter = time.Hour // never finalizes within the test
	svc := newTestService(t, w, wallet.AllowAll{})

	poller := NewConfirmationPoller(zap.NewNop(), svc, w, 10*time.Millisecond, 50*time.Millisecond)
	svc.SetPoller(poller)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Start(ctx)

	rec, err := svc.SubmitPurchase(ctx, "MARA", 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, rec.Status)

	require.Eventually(t, func() bool {
		stored, err := svc.Ledger().Get(context.Background(), rec.Reference)
		return err == nil && stored.Status == model.StatusFailed
	}, 2*time.Second, 10*time.Millisecond)
}
