package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/tuannda/membership-payments/internal"
	membershipmodel "github.com/tuannda/membership-payments/internal/core/datamodel/membership"
	"github.com/tuannda/membership-payments/internal/core/datamodel/order"
	usermodel "github.com/tuannda/membership-payments/internal/core/datamodel/user"
	webhookmodel "github.com/tuannda/membership-payments/internal/core/datamodel/webhook"
	"github.com/tuannda/membership-payments/internal/core/events"
	membershipPkg "github.com/tuannda/membership-payments/internal/membership"
	webhookPkg "github.com/tuannda/membership-payments/internal/webhook"
)

// Mock order repository for testing
type mockOrderRepository struct {
	orders      map[int64]*order.PaymentOrder
	getError    error
	updateError error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[int64]*order.PaymentOrder)}
}

func (m *mockOrderRepository) add(ord *order.PaymentOrder) {
	m.orders[ord.ID] = ord
}

func (m *mockOrderRepository) GetByID(id int64) (*order.PaymentOrder, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	ord, exists := m.orders[id]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return ord, nil
}

func (m *mockOrderRepository) GetByCode(code string) (*order.PaymentOrder, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, ord := range m.orders {
		if ord.OrderCode == code {
			return ord, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepository) Update(id int64, updates map[string]interface{}) error {
	if m.updateError != nil {
		return m.updateError
	}
	if ord, exists := m.orders[id]; exists {
		applyOrderUpdates(ord, updates)
	}
	return nil
}

func (m *mockOrderRepository) UpdateIfNotPaid(id int64, updates map[string]interface{}) error {
	if m.updateError != nil {
		return m.updateError
	}
	if ord, exists := m.orders[id]; exists && ord.Status != order.StatusPaid {
		applyOrderUpdates(ord, updates)
	}
	return nil
}

// applyOrderUpdates mirrors what the column map does to a persisted row.
func applyOrderUpdates(ord *order.PaymentOrder, updates map[string]interface{}) {
	for column, value := range updates {
		switch column {
		case "status":
			ord.Status = value.(string)
		case "paid_at":
			t := value.(time.Time)
			ord.PaidAt = &t
		case "provider_transaction_id":
			s := value.(string)
			ord.ProviderTransactionID = &s
		case "payment_snapshot":
			ord.PaymentSnapshot = value.(json.RawMessage)
		case "review_reason":
			if value == nil {
				ord.ReviewReason = nil
			} else {
				s := value.(string)
				ord.ReviewReason = &s
			}
		case "review_meta":
			ord.ReviewMeta = json.RawMessage(value.([]byte))
		case "fulfillment_type":
			s := value.(string)
			ord.FulfillmentType = &s
		case "fulfilled_at":
			t := value.(time.Time)
			ord.FulfilledAt = &t
		case "fulfilled_user_id":
			id := value.(int64)
			ord.FulfilledUserID = &id
		case "updated_at":
			ord.UpdatedAt = value.(time.Time)
		}
	}
}

// Mock event ledger, insert-if-absent per event key
type mockEventLedger struct {
	events      map[string]*webhookmodel.WebhookEvent
	recordError error
}

func newMockEventLedger() *mockEventLedger {
	return &mockEventLedger{events: make(map[string]*webhookmodel.WebhookEvent)}
}

func (m *mockEventLedger) Record(event *webhookmodel.WebhookEvent) error {
	if m.recordError != nil {
		return m.recordError
	}
	if _, exists := m.events[event.EventKey]; !exists {
		m.events[event.EventKey] = event
	}
	return nil
}

// Mock transaction repository, upsert keyed on provider + transaction id
type mockTransactionRepository struct {
	txns        map[string]*webhookmodel.PaymentTransaction
	upsertError error
}

func newMockTransactionRepository() *mockTransactionRepository {
	return &mockTransactionRepository{txns: make(map[string]*webhookmodel.PaymentTransaction)}
}

func (m *mockTransactionRepository) Upsert(txn *webhookmodel.PaymentTransaction) error {
	if m.upsertError != nil {
		return m.upsertError
	}
	key := webhookmodel.EventKey(txn.Provider, txn.ProviderTransactionID)
	if existing, exists := m.txns[key]; exists {
		existing.Status = txn.Status
		existing.OrderID = txn.OrderID
		return nil
	}
	m.txns[key] = txn
	return nil
}

func (m *mockTransactionRepository) GetByProviderTransactionID(provider, providerTransactionID string) (*webhookmodel.PaymentTransaction, error) {
	txn, exists := m.txns[webhookmodel.EventKey(provider, providerTransactionID)]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return txn, nil
}

// Mock order-code index
type mockCodeIndex struct {
	entries map[string]int64
	lookups int
	stores  int
}

func newMockCodeIndex() *mockCodeIndex {
	return &mockCodeIndex{entries: make(map[string]int64)}
}

func (m *mockCodeIndex) Lookup(ctx context.Context, provider, code string) (int64, bool) {
	m.lookups++
	id, ok := m.entries[provider+":"+code]
	return id, ok
}

func (m *mockCodeIndex) Store(ctx context.Context, provider, code string, orderID int64) {
	m.stores++
	m.entries[provider+":"+code] = orderID
}

// Mock fulfillment applier
type mockFulfillmentApplier struct {
	result     webhookPkg.ApplyResult
	applyError error
	calls      int
}

func (m *mockFulfillmentApplier) Apply(ctx context.Context, ord *order.PaymentOrder, txn *webhookPkg.Transaction, now time.Time) (webhookPkg.ApplyResult, error) {
	m.calls++
	if m.applyError != nil {
		return webhookPkg.ApplyResult{}, m.applyError
	}
	return m.result, nil
}

// Mock membership repository for the wired fulfillment scenarios
type mockMembershipRepository struct {
	memberships map[int64]*membershipmodel.Membership
	setError    error
}

func newMockMembershipRepository() *mockMembershipRepository {
	return &mockMembershipRepository{memberships: make(map[int64]*membershipmodel.Membership)}
}

func (m *mockMembershipRepository) GetByUserID(userID int64) (*membershipmodel.Membership, error) {
	ms, exists := m.memberships[userID]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return ms, nil
}

func (m *mockMembershipRepository) Set(ms *membershipmodel.Membership) error {
	if m.setError != nil {
		return m.setError
	}
	m.memberships[ms.UserID] = ms
	return nil
}

type mockUserRepository struct {
	users    map[int64]*usermodel.User
	getError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*usermodel.User)}
}

func (m *mockUserRepository) GetByID(id int64) (*usermodel.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, exists := m.users[id]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

var _ = Describe("WebhookService", func() {
	var (
		service  *webhookPkg.Service
		orders   *mockOrderRepository
		ledger   *mockEventLedger
		txns     *mockTransactionRepository
		index    *mockCodeIndex
		applier  *mockFulfillmentApplier
		logger   *slog.Logger
		now      time.Time
		settings webhookPkg.GuardSettings
	)

	payloadFor := func(txnID, content string, amount int64) (*webhookPkg.GatewayPayload, json.RawMessage) {
		payload := &webhookPkg.GatewayPayload{
			TransactionID:  txnID,
			Gateway:        "VCB",
			AccountNumber:  "0123456789",
			Content:        content,
			TransferType:   "in",
			TransferAmount: json.Number(strconv.FormatInt(amount, 10)),
		}
		raw, _ := json.Marshal(payload)
		return payload, raw
	}

	BeforeEach(func() {
		orders = newMockOrderRepository()
		ledger = newMockEventLedger()
		txns = newMockTransactionRepository()
		index = newMockCodeIndex()
		applier = &mockFulfillmentApplier{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		settings = webhookPkg.GuardSettings{SettlementAccount: "0123456789"}

		service = webhookPkg.NewService(
			orders, ledger, txns, index, applier,
			events.NewEventBus(logger), settings, logger,
		).WithClock(func() time.Time { return now })
	})

	Describe("Process", func() {
		Context("when the payload has no transaction id", func() {
			It("should acknowledge and ignore the delivery", func() {
				payload, raw := payloadFor("", "CK ABC123", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())
				Expect(result.Ignored).To(BeTrue())
				Expect(ledger.events).To(BeEmpty())
				Expect(txns.txns).To(BeEmpty())
			})
		})

		Context("when the content carries no order code", func() {
			It("should record the transaction as unmatched", func() {
				payload, raw := payloadFor("txn-001", "chuyen tien an trua", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusUnmatched))
				Expect(ledger.events).To(HaveLen(1))

				recorded := txns.txns["sepay:txn-001"]
				Expect(recorded).ToNot(BeNil())
				Expect(recorded.Status).To(Equal(webhookmodel.TxnStatusUnmatched))
				Expect(recorded.OrderID).To(BeNil())
			})
		})

		Context("when the extracted code matches no order", func() {
			It("should record the transaction as unmatched with the code", func() {
				payload, raw := payloadFor("txn-002", "CK ZZZ999", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusUnmatched))
				Expect(result.OrderCode).To(Equal("ZZZ999"))
			})
		})

		Context("when a matching one-off order is pending", func() {
			BeforeEach(func() {
				orders.add(&order.PaymentOrder{
					ID:        1,
					OrderCode: "ABC123",
					Provider:  "sepay",
					UserID:    42,
					AmountVND: 99000,
					Type:      order.TypeOneOff,
					Status:    order.StatusPending,
				})
			})

			It("should mark the order paid with the payment snapshot", func() {
				payload, raw := payloadFor("txn-003", "CK ABC123 thanh toan", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusReceived))
				Expect(result.OrderCode).To(Equal("ABC123"))

				ord := orders.orders[1]
				Expect(ord.Status).To(Equal(order.StatusPaid))
				Expect(ord.PaidAt).ToNot(BeNil())
				Expect(ord.PaidAt.Equal(now)).To(BeTrue())
				Expect(*ord.ProviderTransactionID).To(Equal("txn-003"))
				Expect(ord.PaymentSnapshot).ToNot(BeEmpty())
				Expect(applier.calls).To(BeZero())

				recorded := txns.txns["sepay:txn-003"]
				Expect(recorded.Status).To(Equal(webhookmodel.TxnStatusReceived))
				Expect(*recorded.OrderID).To(Equal(int64(1)))
			})

			It("should backfill the code index on a repository match", func() {
				payload, raw := payloadFor("txn-003", "CK ABC123", 99000)

				_, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(index.stores).To(Equal(1))
				Expect(index.entries["sepay:ABC123"]).To(Equal(int64(1)))
			})

			It("should be idempotent across redeliveries", func() {
				payload, raw := payloadFor("txn-003", "CK ABC123", 99000)

				_, err := service.Process(context.Background(), "sepay", payload, raw)
				Expect(err).ToNot(HaveOccurred())
				firstPaidAt := *orders.orders[1].PaidAt

				now = now.Add(time.Hour)
				for i := 0; i < 3; i++ {
					result, err := service.Process(context.Background(), "sepay", payload, raw)
					Expect(err).ToNot(HaveOccurred())
					Expect(result.Success).To(BeTrue())
				}

				Expect(ledger.events).To(HaveLen(1))
				Expect(txns.txns).To(HaveLen(1))
				Expect(orders.orders[1].Status).To(Equal(order.StatusPaid))
				Expect(orders.orders[1].PaidAt.Equal(firstPaidAt)).To(BeTrue())
			})

			It("should route an amount mismatch to review", func() {
				payload, raw := payloadFor("txn-004", "CK ABC123", 50000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusAmountMismatch))
				Expect(result.ReviewReason).To(Equal(order.ReviewAmountMismatch))

				ord := orders.orders[1]
				Expect(ord.Status).To(Equal(order.StatusNeedsReview))
				Expect(*ord.ReviewReason).To(Equal(order.ReviewAmountMismatch))
				Expect(ord.ReviewMeta).ToNot(BeEmpty())
			})

			It("should settle a retried transfer after the review was recorded", func() {
				mismatched, rawMismatch := payloadFor("txn-004", "CK ABC123", 50000)
				_, err := service.Process(context.Background(), "sepay", mismatched, rawMismatch)
				Expect(err).ToNot(HaveOccurred())
				Expect(orders.orders[1].Status).To(Equal(order.StatusNeedsReview))

				corrected, rawCorrect := payloadFor("txn-005", "CK ABC123", 99000)
				_, err = service.Process(context.Background(), "sepay", corrected, rawCorrect)
				Expect(err).ToNot(HaveOccurred())

				ord := orders.orders[1]
				Expect(ord.Status).To(Equal(order.StatusPaid))
				Expect(ord.ReviewReason).To(BeNil())
			})

			It("should route a provider mismatch to review", func() {
				payload, raw := payloadFor("txn-006", "CK ABC123", 99000)

				result, err := service.Process(context.Background(), "other-gateway", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusUnmatched))
				Expect(result.ReviewReason).To(Equal(order.ReviewProviderMismatch))
				Expect(orders.orders[1].Status).To(Equal(order.StatusNeedsReview))
			})
		})

		Context("when the matched order is already paid", func() {
			BeforeEach(func() {
				paidAt := now.Add(-time.Hour)
				txnID := "txn-old"
				orders.add(&order.PaymentOrder{
					ID:                    1,
					OrderCode:             "ABC123",
					Provider:              "sepay",
					UserID:                42,
					AmountVND:             99000,
					Type:                  order.TypeMembership,
					Status:                order.StatusPaid,
					PaidAt:                &paidAt,
					ProviderTransactionID: &txnID,
				})
			})

			It("should record the transaction without touching the order", func() {
				payload, raw := payloadFor("txn-007", "CK ABC123", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusReceived))
				Expect(applier.calls).To(BeZero())

				ord := orders.orders[1]
				Expect(ord.Status).To(Equal(order.StatusPaid))
				Expect(*ord.ProviderTransactionID).To(Equal("txn-old"))
			})

			It("should not downgrade the order on a mismatching redelivery", func() {
				payload, raw := payloadFor("txn-008", "CK ABC123", 50000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusAmountMismatch))
				Expect(result.ReviewReason).To(BeEmpty())
				Expect(orders.orders[1].Status).To(Equal(order.StatusPaid))
			})
		})

		Context("when the matched order is a pending membership", func() {
			BeforeEach(func() {
				planID := "pro_month"
				orders.add(&order.PaymentOrder{
					ID:        2,
					OrderCode: "ABC124",
					Provider:  "sepay",
					UserID:    42,
					AmountVND: 99000,
					Type:      order.TypeMembership,
					PlanID:    &planID,
					Status:    order.StatusPending,
				})
			})

			It("should delegate to the fulfillment applier", func() {
				applier.result = webhookPkg.ApplyResult{Applied: true}
				payload, raw := payloadFor("txn-009", "CK ABC124", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusReceived))
				Expect(applier.calls).To(Equal(1))
			})

			It("should route the order to review when fulfillment declines", func() {
				applier.result = webhookPkg.ApplyResult{ReviewReason: order.ReviewInvalidPlan}
				payload, raw := payloadFor("txn-010", "CK ABC124", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.ReviewReason).To(Equal(order.ReviewInvalidPlan))
				Expect(orders.orders[2].Status).To(Equal(order.StatusNeedsReview))
			})

			It("should surface fulfillment errors for retry", func() {
				applier.applyError = errors.New("membership store down")
				payload, raw := payloadFor("txn-011", "CK ABC124", 99000)

				_, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("fulfillment failed"))
			})
		})

		Context("when the code index has entries", func() {
			BeforeEach(func() {
				orders.add(&order.PaymentOrder{
					ID:        3,
					OrderCode: "ABC125",
					Provider:  "sepay",
					UserID:    42,
					AmountVND: 150000,
					Type:      order.TypeOneOff,
					Status:    order.StatusPending,
				})
			})

			It("should resolve the order through the index", func() {
				index.entries["sepay:ABC125"] = 3
				payload, raw := payloadFor("txn-012", "CK ABC125", 150000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusReceived))
				Expect(index.lookups).To(Equal(1))
				Expect(index.stores).To(BeZero())
			})

			It("should fall back to the repository on a stale entry", func() {
				index.entries["sepay:ABC125"] = 999
				payload, raw := payloadFor("txn-013", "CK ABC125", 150000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusReceived))
				Expect(orders.orders[3].Status).To(Equal(order.StatusPaid))
			})
		})

		Context("when persistence collaborators fail", func() {
			BeforeEach(func() {
				orders.add(&order.PaymentOrder{
					ID:        1,
					OrderCode: "ABC123",
					Provider:  "sepay",
					UserID:    42,
					AmountVND: 99000,
					Type:      order.TypeOneOff,
					Status:    order.StatusPending,
				})
			})

			It("should swallow ledger failures", func() {
				ledger.recordError = errors.New("ledger unavailable")
				payload, raw := payloadFor("txn-014", "CK ABC123", 99000)

				result, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())
				Expect(orders.orders[1].Status).To(Equal(order.StatusPaid))
			})

			It("should surface transaction upsert failures", func() {
				txns.upsertError = errors.New("database error")
				payload, raw := payloadFor("txn-015", "CK ABC123", 99000)

				_, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).To(HaveOccurred())
			})

			It("should surface order update failures", func() {
				orders.updateError = errors.New("database error")
				payload, raw := payloadFor("txn-016", "CK ABC123", 99000)

				_, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).To(HaveOccurred())
			})

			It("should surface order lookup failures", func() {
				orders.getError = errors.New("database error")
				payload, raw := payloadFor("txn-017", "CK ABC123", 99000)

				_, err := service.Process(context.Background(), "sepay", payload, raw)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("order lookup failed"))
			})
		})
	})

	Describe("Process with wired membership fulfillment", func() {
		var (
			memberships *mockMembershipRepository
			users       *mockUserRepository
		)

		BeforeEach(func() {
			memberships = newMockMembershipRepository()
			users = newMockUserRepository()
			users.users[42] = &usermodel.User{ID: 42, Email: "linh@mail.com", Name: "Linh"}

			catalog := membershipPkg.NewCatalog(map[string]internal.PlanConfig{
				"pro_month": {Tier: "pro", DurationDays: 30},
			}, logger)

			fulfillment := membershipPkg.NewService(memberships, users, orders, catalog, logger)

			planID := "pro_month"
			orders.add(&order.PaymentOrder{
				ID:        1,
				OrderCode: "ABC123",
				Provider:  "sepay",
				UserID:    42,
				AmountVND: 99000,
				Type:      order.TypeMembership,
				PlanID:    &planID,
				Status:    order.StatusPending,
			})

			service = webhookPkg.NewService(
				orders, ledger, txns, index, fulfillment,
				events.NewEventBus(logger), settings, logger,
			).WithClock(func() time.Time { return now })
		})

		It("should settle the order and open a membership window", func() {
			payload, raw := payloadFor("txn-100", "CK ABC123 mua goi pro", 99000)

			result, err := service.Process(context.Background(), "sepay", payload, raw)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Outcome).To(Equal(webhookmodel.TxnStatusReceived))

			ord := orders.orders[1]
			Expect(ord.Status).To(Equal(order.StatusPaid))
			Expect(ord.FulfilledAt).ToNot(BeNil())

			ms := memberships.memberships[42]
			Expect(ms).ToNot(BeNil())
			Expect(ms.Tier).To(Equal("pro"))
			Expect(ms.OrderID).To(Equal(int64(1)))
			Expect(ms.ExpiresAt.Equal(now.Add(30 * 24 * time.Hour))).To(BeTrue())
		})

		It("should extend the membership exactly once across redeliveries", func() {
			payload, raw := payloadFor("txn-100", "CK ABC123", 99000)

			_, err := service.Process(context.Background(), "sepay", payload, raw)
			Expect(err).ToNot(HaveOccurred())
			firstExpiry := memberships.memberships[42].ExpiresAt

			for i := 0; i < 3; i++ {
				result, err := service.Process(context.Background(), "sepay", payload, raw)
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())
			}

			Expect(memberships.memberships[42].ExpiresAt.Equal(firstExpiry)).To(BeTrue())
			Expect(orders.orders[1].Status).To(Equal(order.StatusPaid))
		})
	})

	Describe("GetOrderByCode", func() {
		It("should return nil for an unknown code", func() {
			ord, err := service.GetOrderByCode("NOPE01")
			Expect(err).ToNot(HaveOccurred())
			Expect(ord).To(BeNil())
		})

		It("should return the matching order", func() {
			orders.add(&order.PaymentOrder{ID: 7, OrderCode: "ABC777", Status: order.StatusPending})

			ord, err := service.GetOrderByCode("ABC777")
			Expect(err).ToNot(HaveOccurred())
			Expect(ord).ToNot(BeNil())
			Expect(ord.ID).To(Equal(int64(7)))
		})
	})
})
