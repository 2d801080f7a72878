package webhook

import (
	"encoding/json"
	"fmt"
	"time"
)

// Processing outcomes for a provider transaction. Distinct from order status:
// a transaction can be unmatched without any order changing state.
const (
	TxnStatusReceived        = "received"
	TxnStatusUnmatched       = "unmatched"
	TxnStatusAccountMismatch = "account_mismatch"
	TxnStatusAmountMismatch  = "amount_mismatch"
	TxnStatusReceivedLate    = "received_late"
)

// WebhookEvent is the append-only receipt log: exactly one row per distinct
// provider transaction id ever delivered, regardless of redelivery count.
type WebhookEvent struct {
	ID                    int64           `gorm:"primaryKey"`
	EventKey              string          `gorm:"column:event_key;not null;uniqueIndex"`
	Provider              string          `gorm:"column:provider;not null"`
	ProviderTransactionID string          `gorm:"column:provider_transaction_id;not null"`
	Payload               json.RawMessage `gorm:"column:payload;type:jsonb"`
	ReceivedAt            time.Time       `gorm:"column:received_at;default:now()"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// EventKey derives the idempotency key for one webhook delivery.
func EventKey(provider, providerTransactionID string) string {
	return fmt.Sprintf("%s:%s", provider, providerTransactionID)
}

// PaymentTransaction records the processing outcome for one provider
// transaction id. Key fields are written on first insert only; redelivery
// refreshes the diagnostic fields (status, matched order) but never the
// transaction identity.
type PaymentTransaction struct {
	ID                    int64  `gorm:"primaryKey"`
	Provider              string `gorm:"column:provider;not null;uniqueIndex:idx_provider_txn"`
	ProviderTransactionID string `gorm:"column:provider_transaction_id;not null;uniqueIndex:idx_provider_txn"`
	OrderID               *int64 `gorm:"column:order_id"`
	Status                string `gorm:"column:status;default:received"`

	Gateway         string     `gorm:"column:gateway"`
	TransactionDate *time.Time `gorm:"column:transaction_date"`
	AccountNumber   string     `gorm:"column:account_number"`
	Code            string     `gorm:"column:code"`
	Content         string     `gorm:"column:content"`
	TransferType    string     `gorm:"column:transfer_type"`
	TransferAmount  int64      `gorm:"column:transfer_amount"`
	ReferenceCode   string     `gorm:"column:reference_code"`
	Description     string     `gorm:"column:description"`

	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
