package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solstocks/trading-gateway/internal/gateway"
	"github.com/solstocks/trading-gateway/internal/holdings"
	"github.com/solstocks/trading-gateway/internal/ledger"
	"github.com/solstocks/trading-gateway/internal/purchase"
	"github.com/solstocks/trading-gateway/internal/wallet"
	"github.com/solstocks/trading-gateway/pkg/model"
)

type Handler struct {
	Logger  *zap.Logger
	Service *gateway.Service
	Wallet  wallet.Service
}

// ListInstruments returns the instrument reference data.
func (h *Handler) ListInstruments(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.Service.Catalog().List())
}

// CreatePurchase runs the full purchase flow for a listed symbol.
func (h *Handler) CreatePurchase(c *fiber.Ctx) error {
	var req PurchaseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.Service.SubmitPurchase(c.Context(), req.Symbol, req.Quantity)
	if err != nil {
		status := statusForError(err)
		res := PurchaseResponse{Symbol: req.Symbol, ErrorMsg: err.Error()}
		if rec != nil {
			res = purchaseResponse(rec)
			res.ErrorMsg = err.Error()
		}
		h.Logger.Warn("api.purchase_failed",
			zap.String("symbol", req.Symbol), zap.Error(err))
		return c.Status(status).JSON(res)
	}

	h.Logger.Info("api.purchase_created",
		zap.String("reference", rec.Reference),
		zap.String("symbol", rec.Symbol))
	return c.Status(fiber.StatusCreated).JSON(purchaseResponse(rec))
}

// ResolvePayment manually transitions a pending payment (back-office path).
func (h *Handler) ResolvePayment(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "missing reference"})
	}

	var req PaymentResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var (
		rec *model.PaymentRecord
		err error
	)
	if strings.EqualFold(req.Status, string(model.StatusConfirmed)) {
		rec, err = h.Service.ConfirmPayment(c.Context(), reference, req.Signature)
	} else {
		rec, err = h.Service.FailPayment(c.Context(), reference)
	}
	if err != nil {
		h.Logger.Warn("api.resolve_failed",
			zap.String("reference", reference), zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(http.StatusOK).JSON(purchaseResponse(rec))
}

// ListPayments returns the full payment history, most recent first.
func (h *Handler) ListPayments(c *fiber.Ctx) error {
	records, err := h.Service.Ledger().ListAll(c.Context())
	if err != nil {
		h.Logger.Error("api.list_payments_failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusOK).JSON(records)
}

// GetHoldings recomputes holdings from confirmed payments on demand.
func (h *Handler) GetHoldings(c *fiber.Ctx) error {
	records, err := h.Service.Ledger().ListAll(c.Context())
	if err != nil {
		h.Logger.Error("api.holdings_failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	positions := holdings.Compute(records, h.Service.Catalog())
	return c.Status(http.StatusOK).JSON(positions)
}

// GetWallet reports the connected identity and settlement token balance.
func (h *Handler) GetWallet(c *fiber.Ctx) error {
	identity, err := h.Wallet.ConnectedIdentity(c.Context())
	if err != nil || identity == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": "no connected wallet"})
	}
	balance, err := h.Wallet.TokenBalance(c.Context())
	if err != nil {
		h.Logger.Error("api.wallet_balance_failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusOK).JSON(WalletResponse{
		Address:      identity.Address,
		Label:        identity.Label,
		TokenBalance: balance,
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, purchase.ErrInvalidOrder), errors.Is(err, gateway.ErrUnknownSymbol):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateReference), errors.Is(err, ledger.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
