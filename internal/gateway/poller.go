package gateway

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/solstocks/trading-gateway/internal/metrics"
	"github.com/solstocks/trading-gateway/internal/wallet"
)

// ConfirmationPoller watches submitted payments until the wallet reports a
// finalized receipt, then drives the pending record to its terminal status.
// Submissions older than the timeout are failed. Polling is a collaborator
// concern; the ledger's transition contract stays synchronous.
type ConfirmationPoller struct {
	logger   *zap.Logger
	service  *Service
	wallet   wallet.Service
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	tracked map[string]trackedPayment // reference -> submission
}

type trackedPayment struct {
	signature   string
	submittedAt time.Time
}

// NewConfirmationPoller constructs a poller. interval controls how often
// receipts are re-checked; timeout bounds how long a submission may stay
// unconfirmed before it is failed.
func NewConfirmationPoller(
	logger *zap.Logger,
	service *Service,
	w wallet.Service,
	interval, timeout time.Duration,
) *ConfirmationPoller {
	return &ConfirmationPoller{
		logger:   logger,
		service:  service,
		wallet:   w,
		interval: interval,
		timeout:  timeout,
		tracked:  make(map[string]trackedPayment),
	}
}

// Track registers a submitted payment for confirmation polling.
func (p *ConfirmationPoller) Track(reference, signature string) {
	p.mu.Lock()
	p.tracked[reference] = trackedPayment{
		signature:   signature,
		submittedAt: time.Now().UTC(),
	}
	n := len(p.tracked)
	p.mu.Unlock()

	metrics.PendingConfirmations.Set(float64(n))
	p.logger.Info("poller.tracking_payment",
		zap.String("reference", reference),
		zap.String("signature", signature))
}

// Tracked returns the number of payments currently awaiting confirmation.
func (p *ConfirmationPoller) Tracked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tracked)
}

// Start runs the polling loop until the context is cancelled.
func (p *ConfirmationPoller) Start(ctx context.Context) {
	p.logger.Info("poller.started",
		zap.Duration("interval", p.interval),
		zap.Duration("timeout", p.timeout))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pollOnce(ctx)
		case <-ctx.Done():
			p.logger.Info("poller.stopped (context cancelled)")
			return
		}
	}
}

func (p *ConfirmationPoller) pollOnce(ctx context.Context) {
	p.mu.Lock()
	snapshot := make(map[string]trackedPayment, len(p.tracked))
	for ref, t := range p.tracked {
		snapshot[ref] = t
	}
	p.mu.Unlock()

	for ref, t := range snapshot {
		if time.Since(t.submittedAt) > p.timeout {
			p.logger.Warn("poller.confirmation_timeout",
				zap.String("reference", ref),
				zap.String("signature", t.signature))
			if _, err := p.service.FailPayment(ctx, ref); err != nil {
				p.logger.Error("poller.fail_transition_failed",
					zap.String("reference", ref), zap.Error(err))
			}
			p.untrack(ref)
			continue
		}

		rcpt, err := p.wallet.ReceiptStatus(ctx, t.signature)
		if err != nil {
			p.logger.Warn("poller.receipt_check_failed",
				zap.String("reference", ref), zap.Error(err))
			metrics.IncError("poller", "receipt_check_failed")
			continue
		}

		switch {
		case rcpt.Err != "":
			p.logger.Warn("poller.payment_failed_on_chain",
				zap.String("reference", ref),
				zap.String("error", rcpt.Err))
			if _, err := p.service.FailPayment(ctx, ref); err != nil {
				p.logger.Error("poller.fail_transition_failed",
					zap.String("reference", ref), zap.Error(err))
			}
			p.untrack(ref)

		case rcpt.Finalized:
			if _, err := p.service.ConfirmPayment(ctx, ref, t.signature); err != nil {
				p.logger.Error("poller.confirm_transition_failed",
					zap.String("reference", ref), zap.Error(err))
				// leave tracked; a transient ledger error retries next tick
				continue
			}
			p.logger.Info("poller.payment_confirmed",
				zap.String("reference", ref),
				zap.String("signature", t.signature))
			p.untrack(ref)
		}
	}
}

func (p *ConfirmationPoller) untrack(reference string) {
	p.mu.Lock()
	delete(p.tracked, reference)
	n := len(p.tracked)
	p.mu.Unlock()
	metrics.PendingConfirmations.Set(float64(n))
}
