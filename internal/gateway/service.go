package gateway

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solstocks/trading-gateway/internal/archive"
	"github.com/solstocks/trading-gateway/internal/instruments"
	"github.com/solstocks/trading-gateway/internal/ledger"
	"github.com/solstocks/trading-gateway/internal/metrics"
	"github.com/solstocks/trading-gateway/internal/publisher"
	"github.com/solstocks/trading-gateway/internal/purchase"
	"github.com/solstocks/trading-gateway/internal/rate"
	"github.com/solstocks/trading-gateway/internal/wallet"
	"github.com/solstocks/trading-gateway/pkg/model"
)

// ErrUnknownSymbol is returned when a purchase names an unlisted instrument.
var ErrUnknownSymbol = fmt.Errorf("unknown symbol")

// Service orchestrates the purchase flow: build record, gate on biometrics,
// rate-limit, submit through the wallet, record in the ledger, publish events.
type Service struct {
	logger    *zap.Logger
	catalog   *instruments.Catalog
	builder   *purchase.Builder
	ledger    ledger.Ledger
	wallet    wallet.Service
	auth      wallet.Authenticator
	rates     *rate.Manager
	publisher *publisher.Publisher
	archive   *archive.PaymentWriter
	poller    *ConfirmationPoller
	recipient string // treasury address payments settle to
	token     string // settlement token ticker, e.g. "SOL"
}

// NewService wires the gateway service. publisher and archive may be nil in
// tests; events and mirroring are then skipped.
func NewService(
	logger *zap.Logger,
	catalog *instruments.Catalog,
	builder *purchase.Builder,
	led ledger.Ledger,
	w wallet.Service,
	auth wallet.Authenticator,
	rates *rate.Manager,
	pub *publisher.Publisher,
	arch *archive.PaymentWriter,
	recipient string,
	tokenSymbol string,
) *Service {
	return &Service{
		logger:    logger,
		catalog:   catalog,
		builder:   builder,
		ledger:    led,
		wallet:    w,
		auth:      auth,
		rates:     rates,
		publisher: pub,
		archive:   arch,
		recipient: recipient,
		token:     tokenSymbol,
	}
}

// SetPoller attaches the confirmation poller (wired after construction,
// the poller needs the service's ledger hooks).
func (s *Service) SetPoller(p *ConfirmationPoller) { s.poller = p }

// Catalog exposes the instrument reference data.
func (s *Service) Catalog() *instruments.Catalog { return s.catalog }

// Ledger exposes the payment ledger for read paths.
func (s *Service) Ledger() ledger.Ledger { return s.ledger }

// SubmitPurchase runs the full purchase flow for a listed symbol. The
// returned record is pending; the confirmation poller drives it to a
// terminal status once the wallet reports a finalized receipt.
func (s *Service) SubmitPurchase(ctx context.Context, symbol string, quantity float64) (*model.PaymentRecord, error) {
	ins, ok := s.catalog.Get(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	rec, err := s.builder.BuildPurchase(ins.Symbol, ins.Price, quantity)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(symbol, "rejected").Inc()
		return nil, err
	}

	identity, err := s.wallet.ConnectedIdentity(ctx)
	if err != nil || identity == nil {
		metrics.PurchasesTotal.WithLabelValues(symbol, "rejected").Inc()
		return nil, fmt.Errorf("no connected wallet: %w", err)
	}

	ok, err = s.auth.Authenticate(ctx, fmt.Sprintf("Confirm purchase of %s %s", formatQty(quantity), symbol))
	if err != nil {
		return nil, fmt.Errorf("biometric check failed: %w", err)
	}
	if !ok {
		metrics.PurchasesTotal.WithLabelValues(symbol, "rejected").Inc()
		return nil, fmt.Errorf("biometric authentication declined")
	}

	if err := s.rates.Wait(ctx, identity.Address); err != nil {
		return nil, err
	}

	// Record the intent before touching the chain so a crash mid-submit
	// still leaves a pending entry to reconcile against.
	if err := s.ledger.Insert(ctx, rec); err != nil {
		return nil, err
	}
	s.publishStatus(ctx, rec)

	start := time.Now()
	rcpt, err := s.wallet.SignAndSubmit(ctx, wallet.PaymentIntent{
		Reference:   rec.Reference,
		Recipient:   s.recipient,
		TokenAmount: rec.TokenAmount,
		FeeAmount:   rec.FeeAmount,
		Memo:        fmt.Sprintf("%s x%s, %s %s", rec.Symbol, formatQty(rec.Quantity), formatQty(rec.TokenAmount), s.token),
	})
	metrics.ObserveDuration(metrics.WalletSubmitDuration, start, "sign_and_submit")

	if err != nil {
		s.logger.Error("gateway.submit_failed",
			zap.String("reference", rec.Reference),
			zap.String("symbol", symbol),
			zap.Error(err))
		metrics.PurchasesTotal.WithLabelValues(symbol, "failed").Inc()
		if failed, ferr := s.FailPayment(ctx, rec.Reference); ferr == nil {
			return failed, err
		}
		return rec, err
	}

	rec.TxSignature = rcpt.Signature
	metrics.PurchasesTotal.WithLabelValues(symbol, "submitted").Inc()
	s.logger.Info("gateway.purchase_submitted",
		zap.String("reference", rec.Reference),
		zap.String("symbol", symbol),
		zap.String("signature", rcpt.Signature))

	if rcpt.Finalized {
		return s.ConfirmPayment(ctx, rec.Reference, rcpt.Signature)
	}
	if s.poller != nil {
		s.poller.Track(rec.Reference, rcpt.Signature)
	}
	return rec, nil
}

// ConfirmPayment transitions a pending record to confirmed, mirrors it to
// the archive and publishes the confirmed event.
func (s *Service) ConfirmPayment(ctx context.Context, reference, signature string) (*model.PaymentRecord, error) {
	now := time.Now().UTC()
	rec, err := s.ledger.UpdateStatus(ctx, reference, model.StatusConfirmed, &now)
	if err != nil {
		metrics.LedgerTransitionsTotal.WithLabelValues(string(model.StatusConfirmed), "error").Inc()
		return nil, err
	}
	metrics.LedgerTransitionsTotal.WithLabelValues(string(model.StatusConfirmed), "ok").Inc()

	rec.TxSignature = signature
	s.mirror(ctx, rec)
	s.publishStatus(ctx, rec)
	return rec, nil
}

// FailPayment transitions a pending record to failed and publishes the event.
func (s *Service) FailPayment(ctx context.Context, reference string) (*model.PaymentRecord, error) {
	rec, err := s.ledger.UpdateStatus(ctx, reference, model.StatusFailed, nil)
	if err != nil {
		metrics.LedgerTransitionsTotal.WithLabelValues(string(model.StatusFailed), "error").Inc()
		return nil, err
	}
	metrics.LedgerTransitionsTotal.WithLabelValues(string(model.StatusFailed), "ok").Inc()

	s.mirror(ctx, rec)
	s.publishStatus(ctx, rec)
	return rec, nil
}

func (s *Service) mirror(ctx context.Context, rec *model.PaymentRecord) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Upsert(ctx, rec); err != nil {
		// Archive is best-effort; redis remains the source of truth.
		metrics.IncError("archive", "upsert_failed")
	}
}

func (s *Service) publishStatus(ctx context.Context, rec *model.PaymentRecord) {
	if s.publisher == nil {
		return
	}
	var addr string
	if id, err := s.wallet.ConnectedIdentity(ctx); err == nil && id != nil {
		addr = id.Address
	}
	if err := s.publisher.PublishPaymentStatus(ctx, rec, addr); err != nil {
		s.logger.Warn("gateway.publish_failed",
			zap.String("reference", rec.Reference), zap.Error(err))
	}
}

func formatQty(q float64) string {
	return fmt.Sprintf("%g", q)
}
