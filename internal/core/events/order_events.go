package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOrderPaid        = "order.paid"
	EventTypeOrderNeedsReview = "order.needs_review"
)

type OrderPaidEvent struct {
	BaseEvent
	OrderID               int64  `json:"order_id"`
	OrderCode             string `json:"order_code"`
	Provider              string `json:"provider"`
	ProviderTransactionID string `json:"provider_transaction_id"`
	AmountVND             int64  `json:"amount_vnd"`
	UserID                int64  `json:"user_id"`
}

func NewOrderPaidEvent(orderID int64, orderCode, provider, providerTransactionID string, amountVND, userID int64) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderPaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":                orderID,
				"order_code":              orderCode,
				"provider":                provider,
				"provider_transaction_id": providerTransactionID,
				"amount_vnd":              amountVND,
				"user_id":                 userID,
			},
		},
		OrderID:               orderID,
		OrderCode:             orderCode,
		Provider:              provider,
		ProviderTransactionID: providerTransactionID,
		AmountVND:             amountVND,
		UserID:                userID,
	}
}

type OrderNeedsReviewEvent struct {
	BaseEvent
	OrderID               int64  `json:"order_id"`
	OrderCode             string `json:"order_code"`
	Provider              string `json:"provider"`
	ProviderTransactionID string `json:"provider_transaction_id"`
	Reason                string `json:"reason"`
}

func NewOrderNeedsReviewEvent(orderID int64, orderCode, provider, providerTransactionID, reason string) *OrderNeedsReviewEvent {
	return &OrderNeedsReviewEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderNeedsReview,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":                orderID,
				"order_code":              orderCode,
				"provider":                provider,
				"provider_transaction_id": providerTransactionID,
				"reason":                  reason,
			},
		},
		OrderID:               orderID,
		OrderCode:             orderCode,
		Provider:              provider,
		ProviderTransactionID: providerTransactionID,
		Reason:                reason,
	}
}
