package webhook

import (
	"encoding/json"
	"time"
)

// Transaction is the canonical inbound transaction record. Everything past
// the normalizer works on this shape only.
type Transaction struct {
	ProviderTransactionID string
	Provider              string
	Gateway               string
	TransactionDate       *time.Time
	AccountNumber         string
	Code                  string
	Content               string
	TransferType          string
	TransferAmount        int64
	ReferenceCode         string
	Description           string
}

var transactionDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Normalize maps a gateway payload onto the canonical transaction record.
// Pure function: no side effects, no validation failures; absent fields stay
// zero-valued and are dealt with downstream.
func Normalize(provider string, payload *GatewayPayload) *Transaction {
	txn := &Transaction{
		Provider:       provider,
		Gateway:        payload.Gateway,
		AccountNumber:  payload.AccountNumber,
		Code:           payload.Code,
		Content:        payload.Content,
		TransferType:   payload.TransferType,
		ReferenceCode:  payload.ReferenceCode,
		Description:    payload.Description,
		TransferAmount: coerceAmount(payload.TransferAmount, payload.Amount),
	}

	txn.ProviderTransactionID = payload.TransactionID
	if txn.ProviderTransactionID == "" {
		txn.ProviderTransactionID = payload.ID.String()
	}

	if txn.Gateway == "" {
		txn.Gateway = provider
	}

	if payload.TransactionDate != "" {
		for _, layout := range transactionDateLayouts {
			if t, err := time.Parse(layout, payload.TransactionDate); err == nil {
				txn.TransactionDate = &t
				break
			}
		}
	}

	return txn
}

// coerceAmount picks the first present amount field and coerces it to whole
// currency units. Gateways occasionally send amounts as decimal strings.
func coerceAmount(candidates ...json.Number) int64 {
	for _, n := range candidates {
		if n.String() == "" {
			continue
		}
		if v, err := n.Int64(); err == nil {
			return v
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	}
	return 0
}

// Snapshot renders the transaction metadata persisted onto a paid order.
func (t *Transaction) Snapshot() json.RawMessage {
	snapshot := map[string]interface{}{
		"provider_transaction_id": t.ProviderTransactionID,
		"gateway":                 t.Gateway,
		"account_number":          t.AccountNumber,
		"transfer_type":           t.TransferType,
		"transfer_amount":         t.TransferAmount,
		"reference_code":          t.ReferenceCode,
	}
	if t.TransactionDate != nil {
		snapshot["transaction_date"] = t.TransactionDate.UTC().Format(time.RFC3339)
	}
	raw, _ := json.Marshal(snapshot)
	return raw
}
