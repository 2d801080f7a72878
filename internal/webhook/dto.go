package webhook

import "encoding/json"

// GatewayPayload is the raw webhook body as delivered by the bank-transfer
// gateway. Gateways are inconsistent about field names across versions
// (id vs transactionId, transferAmount vs amount), so every spelling we have
// seen in the wild is declared here and collapsed by Normalize. The raw shape
// never travels past the normalizer.
type GatewayPayload struct {
	ID            json.Number `json:"id"`
	TransactionID string      `json:"transactionId"`

	Gateway         string `json:"gateway"`
	TransactionDate string `json:"transactionDate"`
	AccountNumber   string `json:"accountNumber"`
	SubAccount      string `json:"subAccount"`
	Code            string `json:"code"`
	Content         string `json:"content"`
	TransferType    string `json:"transferType"`

	TransferAmount json.Number `json:"transferAmount"`
	Amount         json.Number `json:"amount"`

	ReferenceCode string `json:"referenceCode"`
	Description   string `json:"description"`
}

// Result is the webhook endpoint response body. Success is true for every
// request that passed the access guard, including logical non-matches; the
// gateway treats anything else as a signal to redeliver.
type Result struct {
	Success               bool   `json:"success"`
	Ignored               bool   `json:"ignored,omitempty"`
	Outcome               string `json:"outcome,omitempty"`
	OrderCode             string `json:"order_code,omitempty"`
	ReviewReason          string `json:"review_reason,omitempty"`
	ProviderTransactionID string `json:"provider_transaction_id,omitempty"`
}

// OrderView is the read model returned by the manual-reconciliation lookup.
type OrderView struct {
	ID                    int64   `json:"id"`
	OrderCode             string  `json:"order_code"`
	Provider              string  `json:"provider"`
	UserID                int64   `json:"user_id"`
	AmountVND             int64   `json:"amount_vnd"`
	Type                  string  `json:"type"`
	PlanID                *string `json:"plan_id,omitempty"`
	Status                string  `json:"status"`
	PaidAt                *string `json:"paid_at,omitempty"`
	ExpiresAt             *string `json:"expires_at,omitempty"`
	ProviderTransactionID *string `json:"provider_transaction_id,omitempty"`
	ReviewReason          *string `json:"review_reason,omitempty"`
}
