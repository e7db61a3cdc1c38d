package archive

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/solstocks/trading-gateway/pkg/model"
)

// PaymentWriter mirrors ledger records into the durable payments.t_payment
// table. Redis stays the source of truth for reads; this table exists for
// reporting and reconciliation. A nil pool disables mirroring.
type PaymentWriter struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	source string
}

// NewPaymentWriter constructs a writer. source identifies the service
// writing the record (e.g. "trading-gateway").
func NewPaymentWriter(db *pgxpool.Pool, logger *zap.Logger, source string) *PaymentWriter {
	return &PaymentWriter{
		db:     db,
		logger: logger,
		source: source,
	}
}

// Upsert inserts or updates the archived payment row by reference.
func (w *PaymentWriter) Upsert(ctx context.Context, rec *model.PaymentRecord) error {
	if rec == nil || w.db == nil {
		return nil
	}

	const query = `
		INSERT INTO payments.t_payment (
			s_reference,
			s_symbol,
			dec_quantity,
			dec_unit_price,
			dec_total_value,
			dec_token_amount,
			dec_fee_amount,
			s_category,
			s_payment_method,
			s_status,
			dt_created,
			dt_confirmed,
			s_tx_signature,
			s_source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (s_reference)
		DO UPDATE SET
			s_status = EXCLUDED.s_status,
			dt_confirmed = EXCLUDED.dt_confirmed,
			s_tx_signature = EXCLUDED.s_tx_signature;
	`

	_, err := w.db.Exec(ctx, query,
		rec.Reference,
		rec.Symbol,
		rec.Quantity,
		rec.UnitPrice,
		rec.TotalValue,
		rec.TokenAmount,
		rec.FeeAmount,
		string(rec.Category),
		rec.PaymentMethod,
		string(rec.Status),
		rec.CreatedAt,
		rec.ConfirmedAt,
		rec.TxSignature,
		w.source,
	)
	if err != nil {
		w.logger.Error("archive.upsert_failed",
			zap.String("reference", rec.Reference), zap.Error(err))
		return err
	}
	return nil
}
