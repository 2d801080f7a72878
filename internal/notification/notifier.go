package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuannda/membership-payments/internal/core/events"
)

// Notifier consumes reconciliation outcome events and dispatches operator
// notifications. Dispatch is fire-and-forget: a failed notification is
// logged and dropped, it never reaches the webhook response path.
type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) HandleOrderPaid(ctx context.Context, event events.Event) error {
	paidEvent, ok := event.(*events.OrderPaidEvent)
	if !ok {
		return fmt.Errorf("expected OrderPaidEvent, got %T", event)
	}

	n.logger.Info("order settled",
		"order_id", paidEvent.OrderID,
		"order_code", paidEvent.OrderCode,
		"provider", paidEvent.Provider,
		"amount_vnd", paidEvent.AmountVND,
		"user_id", paidEvent.UserID,
		"event_id", paidEvent.EventID())
	return nil
}

// HandleOrderNeedsReview surfaces orders waiting for a human: these are the
// rows someone works through with the /api/v1/orders/{code} lookup.
func (n *Notifier) HandleOrderNeedsReview(ctx context.Context, event events.Event) error {
	reviewEvent, ok := event.(*events.OrderNeedsReviewEvent)
	if !ok {
		return fmt.Errorf("expected OrderNeedsReviewEvent, got %T", event)
	}

	n.logger.Warn("order needs manual review",
		"order_id", reviewEvent.OrderID,
		"order_code", reviewEvent.OrderCode,
		"provider", reviewEvent.Provider,
		"reason", reviewEvent.Reason,
		"provider_transaction_id", reviewEvent.ProviderTransactionID,
		"event_id", reviewEvent.EventID())
	return nil
}

func (n *Notifier) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeOrderPaid, n.HandleOrderPaid)
	eventBus.Subscribe(events.EventTypeOrderNeedsReview, n.HandleOrderNeedsReview)

	n.logger.Info("notification handlers registered",
		"handlers", []string{events.EventTypeOrderPaid, events.EventTypeOrderNeedsReview})
}
