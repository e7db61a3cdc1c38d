package api

// PurchaseCreateRequest initiates a purchase of a listed instrument.
type PurchaseCreateRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
}

// PaymentResolveRequest manually drives a pending payment to a terminal
// status (back-office path; the confirmation poller covers the normal flow).
type PaymentResolveRequest struct {
	Status    string `json:"status"` // "confirmed" or "failed"
	Signature string `json:"signature,omitempty"`
}
