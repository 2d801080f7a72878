package order

import (
	"encoding/json"
	"time"
)

const (
	StatusPending     = "pending"
	StatusPaid        = "paid"
	StatusNeedsReview = "needs_review"
)

const (
	TypeOneOff     = "one_off"
	TypeMembership = "membership"
)

// Review reasons recorded when an order is routed to needs_review.
const (
	ReviewProviderMismatch = "provider_mismatch"
	ReviewAccountMismatch  = "account_mismatch"
	ReviewAmountMismatch   = "amount_mismatch"
	ReviewExpired          = "expired"
	ReviewInvalidPlan      = "invalid_plan"
	ReviewUserNotFound     = "user_not_found"
)

// PaymentOrder is a merchant-issued intent to receive a specific amount.
// Rows are created by the checkout flow and mutated only by webhook
// reconciliation; once Status is paid the row is never downgraded.
type PaymentOrder struct {
	ID        int64   `gorm:"primaryKey"`
	OrderCode string  `gorm:"column:order_code;not null;uniqueIndex"`
	Provider  string  `gorm:"column:provider;not null"`
	UserID    int64   `gorm:"column:user_id;not null"`
	AmountVND int64   `gorm:"column:amount_vnd;not null"`
	Type      string  `gorm:"column:order_type;default:one_off"`
	PlanID    *string `gorm:"column:plan_id"`

	Status                string          `gorm:"column:status;default:pending"`
	ExpiresAt             *time.Time      `gorm:"column:expires_at"`
	PaidAt                *time.Time      `gorm:"column:paid_at"`
	ProviderTransactionID *string         `gorm:"column:provider_transaction_id"`
	PaymentSnapshot       json.RawMessage `gorm:"column:payment_snapshot;type:jsonb"`

	FulfillmentType *string    `gorm:"column:fulfillment_type"`
	FulfilledAt     *time.Time `gorm:"column:fulfilled_at"`
	FulfilledUserID *int64     `gorm:"column:fulfilled_user_id"`

	ReviewReason *string         `gorm:"column:review_reason"`
	ReviewMeta   json.RawMessage `gorm:"column:review_meta;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

func (o *PaymentOrder) IsPaid() bool {
	return o.Status == StatusPaid
}

func (o *PaymentOrder) IsMembership() bool {
	return o.Type == TypeMembership
}

// Expired reports whether the order's settlement window has closed at t.
// Orders without an expiry never expire.
func (o *PaymentOrder) Expired(t time.Time) bool {
	return o.ExpiresAt != nil && o.ExpiresAt.Before(t)
}
