package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("ok")
	})

	v1 := app.Group("/api/v1")
	v1.Get("/instruments", h.ListInstruments)
	v1.Post("/purchases", h.CreatePurchase)
	v1.Post("/payments/:reference/resolve", h.ResolvePayment)
	v1.Get("/payments", h.ListPayments)
	v1.Get("/holdings", h.GetHoldings)
	v1.Get("/wallet", h.GetWallet)
}
