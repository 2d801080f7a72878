package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuannda/membership-payments/internal/core/datamodel/order"
	webhookmodel "github.com/tuannda/membership-payments/internal/core/datamodel/webhook"
	"github.com/tuannda/membership-payments/internal/core/events"
	"gorm.io/gorm"
)

// OrderRepository is the order-store collaborator. UpdateIfNotPaid is the
// write primitive that keeps finalized orders immutable: the condition is
// evaluated against the persisted row at write time, so interleaved requests
// cannot downgrade a paid order.
type OrderRepository interface {
	GetByID(id int64) (*order.PaymentOrder, error)
	GetByCode(code string) (*order.PaymentOrder, error)
	Update(id int64, updates map[string]interface{}) error
	UpdateIfNotPaid(id int64, updates map[string]interface{}) error
}

// EventLedger records webhook receipts, insert-if-absent per provider
// transaction id.
type EventLedger interface {
	Record(event *webhookmodel.WebhookEvent) error
}

// TransactionRepository upserts per-transaction processing outcomes.
type TransactionRepository interface {
	Upsert(txn *webhookmodel.PaymentTransaction) error
	GetByProviderTransactionID(provider, providerTransactionID string) (*webhookmodel.PaymentTransaction, error)
}

// CodeIndex is the order-code lookup index. Lookup misses and errors fall
// back to the repository scan, so the index is purely an optimization.
type CodeIndex interface {
	Lookup(ctx context.Context, provider, code string) (int64, bool)
	Store(ctx context.Context, provider, code string, orderID int64)
}

// ApplyResult reports what fulfillment did with a settled membership order.
type ApplyResult struct {
	Applied      bool
	ReviewReason string
}

// FulfillmentApplier applies the purchase effect of a settled membership
// order exactly once. A non-empty ReviewReason means the order could not be
// fulfilled (unknown plan, missing user) and must go to review instead.
type FulfillmentApplier interface {
	Apply(ctx context.Context, ord *order.PaymentOrder, txn *Transaction, now time.Time) (ApplyResult, error)
}

type Service struct {
	orders      OrderRepository
	ledger      EventLedger
	txns        TransactionRepository
	index       CodeIndex
	fulfillment FulfillmentApplier
	eventBus    *events.EventBus
	settings    GuardSettings
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(
	orders OrderRepository,
	ledger EventLedger,
	txns TransactionRepository,
	index CodeIndex,
	fulfillment FulfillmentApplier,
	eventBus *events.EventBus,
	settings GuardSettings,
	logger *slog.Logger,
) *Service {
	return &Service{
		orders:      orders,
		ledger:      ledger,
		txns:        txns,
		index:       index,
		fulfillment: fulfillment,
		eventBus:    eventBus,
		settings:    settings,
		logger:      logger,
		now:         time.Now,
	}
}

// Process runs one webhook delivery through the full pipeline: normalize,
// record receipt, extract the order code, match the order, reconcile and
// apply the decision. Safe under duplicate and concurrent deliveries; every
// write is either insert-if-absent, an idempotent upsert, or conditioned on
// the persisted order status.
func (s *Service) Process(ctx context.Context, provider string, payload *GatewayPayload, raw json.RawMessage) (*Result, error) {
	txn := Normalize(provider, payload)

	if txn.ProviderTransactionID == "" {
		s.logger.Warn("webhook without transaction id ignored", "provider", provider)
		return &Result{Success: true, Ignored: true}, nil
	}

	s.recordReceipt(txn, raw)

	code := ExtractOrderCode(txn.Content, txn.Description, txn.Code)
	if code == "" {
		s.logger.Info("no order code in transfer content",
			"provider", provider,
			"provider_transaction_id", txn.ProviderTransactionID)
		if err := s.recordOutcome(txn, webhookmodel.TxnStatusUnmatched, nil); err != nil {
			return nil, err
		}
		return &Result{
			Success:               true,
			Outcome:               webhookmodel.TxnStatusUnmatched,
			ProviderTransactionID: txn.ProviderTransactionID,
		}, nil
	}

	ord, err := s.matchOrder(ctx, provider, code)
	if err != nil {
		return nil, fmt.Errorf("order lookup failed for code %s: %w", code, err)
	}
	if ord == nil {
		s.logger.Info("no order for extracted code",
			"provider", provider,
			"order_code", code,
			"provider_transaction_id", txn.ProviderTransactionID)
		if err := s.recordOutcome(txn, webhookmodel.TxnStatusUnmatched, nil); err != nil {
			return nil, err
		}
		return &Result{
			Success:               true,
			Outcome:               webhookmodel.TxnStatusUnmatched,
			OrderCode:             code,
			ProviderTransactionID: txn.ProviderTransactionID,
		}, nil
	}

	// Order codes are only unique per gateway configuration; a code collision
	// across providers must never settle the wrong order.
	if ord.Provider != "" && ord.Provider != provider {
		s.logger.Warn("provider mismatch for matched order",
			"order_id", ord.ID,
			"order_code", ord.OrderCode,
			"expected_provider", ord.Provider,
			"inbound_provider", provider)
		if err := s.recordOutcome(txn, webhookmodel.TxnStatusUnmatched, &ord.ID); err != nil {
			return nil, err
		}
		if err := s.routeToReview(ctx, ord, txn, order.ReviewProviderMismatch); err != nil {
			return nil, err
		}
		return &Result{
			Success:               true,
			Outcome:               webhookmodel.TxnStatusUnmatched,
			OrderCode:             ord.OrderCode,
			ReviewReason:          order.ReviewProviderMismatch,
			ProviderTransactionID: txn.ProviderTransactionID,
		}, nil
	}

	now := s.now()
	decision := Reconcile(ord, txn, s.settings, now)

	if err := s.recordOutcome(txn, decision.TxnStatus, &ord.ID); err != nil {
		return nil, err
	}

	result := &Result{
		Success:               true,
		Outcome:               decision.TxnStatus,
		OrderCode:             ord.OrderCode,
		ProviderTransactionID: txn.ProviderTransactionID,
	}

	switch {
	case decision.ReviewReason != "":
		if err := s.routeToReview(ctx, ord, txn, decision.ReviewReason); err != nil {
			return nil, err
		}
		result.ReviewReason = decision.ReviewReason

	case decision.MarkPaid:
		if err := s.markPaid(ctx, ord, txn, now); err != nil {
			return nil, err
		}

	case decision.Fulfill:
		applied, err := s.fulfillment.Apply(ctx, ord, txn, now)
		if err != nil {
			return nil, fmt.Errorf("fulfillment failed for order %d: %w", ord.ID, err)
		}
		if applied.ReviewReason != "" {
			if err := s.routeToReview(ctx, ord, txn, applied.ReviewReason); err != nil {
				return nil, err
			}
			result.ReviewReason = applied.ReviewReason
			break
		}
		s.eventBus.Publish(ctx, events.NewOrderPaidEvent(
			ord.ID, ord.OrderCode, ord.Provider, txn.ProviderTransactionID, ord.AmountVND, ord.UserID))

	default:
		s.logger.Info("order already finalized, transaction recorded for audit only",
			"order_id", ord.ID,
			"order_code", ord.OrderCode,
			"provider_transaction_id", txn.ProviderTransactionID,
			"txn_status", decision.TxnStatus)
	}

	return result, nil
}

// recordReceipt appends the delivery to the idempotent event ledger. The
// ledger is an audit trail: a failure here is logged and swallowed because
// duplicate processing is guarded independently downstream.
func (s *Service) recordReceipt(txn *Transaction, raw json.RawMessage) {
	event := &webhookmodel.WebhookEvent{
		EventKey:              webhookmodel.EventKey(txn.Provider, txn.ProviderTransactionID),
		Provider:              txn.Provider,
		ProviderTransactionID: txn.ProviderTransactionID,
		Payload:               raw,
		ReceivedAt:            s.now(),
	}
	if err := s.ledger.Record(event); err != nil {
		s.logger.Error("failed to record webhook receipt",
			"error", err,
			"provider", txn.Provider,
			"provider_transaction_id", txn.ProviderTransactionID)
	}
}

func (s *Service) recordOutcome(txn *Transaction, status string, orderID *int64) error {
	record := &webhookmodel.PaymentTransaction{
		Provider:              txn.Provider,
		ProviderTransactionID: txn.ProviderTransactionID,
		OrderID:               orderID,
		Status:                status,
		Gateway:               txn.Gateway,
		TransactionDate:       txn.TransactionDate,
		AccountNumber:         txn.AccountNumber,
		Code:                  txn.Code,
		Content:               txn.Content,
		TransferType:          txn.TransferType,
		TransferAmount:        txn.TransferAmount,
		ReferenceCode:         txn.ReferenceCode,
		Description:           txn.Description,
	}
	if err := s.txns.Upsert(record); err != nil {
		return fmt.Errorf("failed to record transaction outcome: %w", err)
	}
	return nil
}

// matchOrder resolves a code to an order: index lookup first, then a direct
// scan. A fallback hit backfills the index.
func (s *Service) matchOrder(ctx context.Context, provider, code string) (*order.PaymentOrder, error) {
	if s.index != nil {
		if id, ok := s.index.Lookup(ctx, provider, code); ok {
			ord, err := s.orders.GetByID(id)
			if err == nil {
				return ord, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			// stale index entry, fall through to the scan
		}
	}

	ord, err := s.orders.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.index != nil {
		s.index.Store(ctx, provider, code, ord.ID)
	}
	return ord, nil
}

// routeToReview moves the order to needs_review unless it is already paid.
// The downgrade is re-checked against the persisted status at write time.
func (s *Service) routeToReview(ctx context.Context, ord *order.PaymentOrder, txn *Transaction, reason string) error {
	meta, _ := json.Marshal(map[string]interface{}{
		"provider":                txn.Provider,
		"provider_transaction_id": txn.ProviderTransactionID,
		"transfer_amount":         txn.TransferAmount,
		"account_number":          txn.AccountNumber,
		"observed_at":             s.now().UTC().Format(time.RFC3339),
	})

	updates := map[string]interface{}{
		"status":        order.StatusNeedsReview,
		"review_reason": reason,
		"review_meta":   meta,
		"updated_at":    s.now(),
	}
	if err := s.orders.UpdateIfNotPaid(ord.ID, updates); err != nil {
		return fmt.Errorf("failed to route order %d to review: %w", ord.ID, err)
	}

	s.logger.Warn("order routed to review",
		"order_id", ord.ID,
		"order_code", ord.OrderCode,
		"reason", reason,
		"provider_transaction_id", txn.ProviderTransactionID)

	s.eventBus.Publish(ctx, events.NewOrderNeedsReviewEvent(
		ord.ID, ord.OrderCode, ord.Provider, txn.ProviderTransactionID, reason))
	return nil
}

// markPaid finalizes a one-off order directly; membership orders go through
// the fulfillment applier instead.
func (s *Service) markPaid(ctx context.Context, ord *order.PaymentOrder, txn *Transaction, now time.Time) error {
	updates := map[string]interface{}{
		"status":                  order.StatusPaid,
		"paid_at":                 now,
		"provider_transaction_id": txn.ProviderTransactionID,
		"payment_snapshot":        txn.Snapshot(),
		"review_reason":           nil,
		"updated_at":              now,
	}
	if err := s.orders.UpdateIfNotPaid(ord.ID, updates); err != nil {
		return fmt.Errorf("failed to mark order %d paid: %w", ord.ID, err)
	}

	s.logger.Info("order paid",
		"order_id", ord.ID,
		"order_code", ord.OrderCode,
		"provider_transaction_id", txn.ProviderTransactionID,
		"amount_vnd", ord.AmountVND)

	s.eventBus.Publish(ctx, events.NewOrderPaidEvent(
		ord.ID, ord.OrderCode, ord.Provider, txn.ProviderTransactionID, ord.AmountVND, ord.UserID))
	return nil
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetOrderByCode serves the manual-reconciliation lookup.
func (s *Service) GetOrderByCode(code string) (*order.PaymentOrder, error) {
	ord, err := s.orders.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ord, nil
}
