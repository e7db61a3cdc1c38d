package api

import (
	"fmt"
	"strings"
)

func (r PurchaseCreateRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}
	return nil
}

func (r PaymentResolveRequest) Validate() error {
	status := strings.ToLower(strings.TrimSpace(r.Status))
	if status != "confirmed" && status != "failed" {
		return fmt.Errorf("status must be 'confirmed' or 'failed'")
	}
	if status == "confirmed" && strings.TrimSpace(r.Signature) == "" {
		return fmt.Errorf("signature is required to confirm a payment")
	}
	return nil
}
