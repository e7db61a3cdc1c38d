package api

import "github.com/solstocks/trading-gateway/pkg/model"

// PurchaseResponse is returned after a purchase submission.
type PurchaseResponse struct {
	Reference   string  `json:"reference"`
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalValue  float64 `json:"totalValue"`
	TokenAmount float64 `json:"tokenAmount"`
	FeeAmount   float64 `json:"feeAmount"`
	Status      string  `json:"status"`
	TxSignature string  `json:"txSignature,omitempty"`
	ErrorMsg    string  `json:"errorMessage,omitempty"`
}

// WalletResponse reports the connected identity and settlement token balance.
type WalletResponse struct {
	Address      string  `json:"address"`
	Label        string  `json:"label,omitempty"`
	TokenBalance float64 `json:"tokenBalance"`
}

func purchaseResponse(rec *model.PaymentRecord) PurchaseResponse {
	return PurchaseResponse{
		Reference:   rec.Reference,
		Symbol:      rec.Symbol,
		Quantity:    rec.Quantity,
		UnitPrice:   rec.UnitPrice,
		TotalValue:  rec.TotalValue,
		TokenAmount: rec.TokenAmount,
		FeeAmount:   rec.FeeAmount,
		Status:      string(rec.Status),
		TxSignature: rec.TxSignature,
	}
}
