package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	membershipmodel "github.com/tuannda/membership-payments/internal/core/datamodel/membership"
	"github.com/tuannda/membership-payments/internal/core/datamodel/order"
	usermodel "github.com/tuannda/membership-payments/internal/core/datamodel/user"
	"github.com/tuannda/membership-payments/internal/webhook"
	"gorm.io/gorm"
)

type MembershipRepository interface {
	GetByUserID(userID int64) (*membershipmodel.Membership, error)
	Set(m *membershipmodel.Membership) error
}

type UserRepository interface {
	GetByID(id int64) (*usermodel.User, error)
}

// OrderWriter is the slice of the order store fulfillment needs: marking the
// order paid after the membership write landed.
type OrderWriter interface {
	Update(id int64, updates map[string]interface{}) error
}

// Service applies the business effect of a settled membership order exactly
// once. It implements webhook.FulfillmentApplier.
type Service struct {
	memberships MembershipRepository
	users       UserRepository
	orders      OrderWriter
	plans       *Catalog
	logger      *slog.Logger
}

func NewService(
	memberships MembershipRepository,
	users UserRepository,
	orders OrderWriter,
	plans *Catalog,
	logger *slog.Logger,
) *Service {
	return &Service{
		memberships: memberships,
		users:       users,
		orders:      orders,
		plans:       plans,
		logger:      logger,
	}
}

// Apply extends the buyer's membership and finalizes the order.
//
// Two independent idempotency markers guard re-application: the order's
// fulfilled_at timestamp and the membership row's order_id back-reference.
// When either is present the membership is left alone but the order is still
// marked paid — a previous attempt may have written the membership and
// crashed before finalizing the order, and this ordering makes the retry
// converge instead of double-applying.
func (s *Service) Apply(ctx context.Context, ord *order.PaymentOrder, txn *webhook.Transaction, now time.Time) (webhook.ApplyResult, error) {
	if ord.FulfilledAt != nil {
		s.logger.Info("fulfillment already applied, finalizing order only",
			"order_id", ord.ID,
			"fulfilled_at", ord.FulfilledAt)
		if err := s.finalizeOrder(ord, txn, now, false); err != nil {
			return webhook.ApplyResult{}, err
		}
		return webhook.ApplyResult{}, nil
	}

	current, err := s.currentMembership(ord.UserID)
	if err != nil {
		return webhook.ApplyResult{}, fmt.Errorf("failed to load membership for user %d: %w", ord.UserID, err)
	}

	if current != nil && current.OrderID == ord.ID {
		s.logger.Info("membership already references this order, finalizing order only",
			"order_id", ord.ID,
			"user_id", ord.UserID)
		if err := s.finalizeOrder(ord, txn, now, true); err != nil {
			return webhook.ApplyResult{}, err
		}
		return webhook.ApplyResult{}, nil
	}

	planID := ""
	if ord.PlanID != nil {
		planID = *ord.PlanID
	}
	plan, ok := s.plans.Get(planID)
	if !ok {
		s.logger.Error("order references unknown plan",
			"order_id", ord.ID,
			"plan_id", planID)
		return webhook.ApplyResult{ReviewReason: order.ReviewInvalidPlan}, nil
	}

	usr, err := s.users.GetByID(ord.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("order references unknown user",
				"order_id", ord.ID,
				"user_id", ord.UserID)
			return webhook.ApplyResult{ReviewReason: order.ReviewUserNotFound}, nil
		}
		return webhook.ApplyResult{}, fmt.Errorf("failed to load user %d: %w", ord.UserID, err)
	}

	start, expiry := NextWindow(current, plan.Tier, plan.DurationDays, now)

	next := &membershipmodel.Membership{
		UserID:    usr.ID,
		Tier:      plan.Tier,
		Status:    membershipmodel.StatusActive,
		StartedAt: start,
		ExpiresAt: expiry,
		Source:    membershipmodel.SourceOrder,
		OrderID:   ord.ID,
	}
	if err := s.memberships.Set(next); err != nil {
		return webhook.ApplyResult{}, fmt.Errorf("failed to persist membership for user %d: %w", usr.ID, err)
	}

	if err := s.finalizeOrder(ord, txn, now, true); err != nil {
		return webhook.ApplyResult{}, err
	}

	s.logger.Info("membership applied",
		"order_id", ord.ID,
		"user_id", usr.ID,
		"tier", plan.Tier,
		"expires_at", expiry)

	return webhook.ApplyResult{Applied: true}, nil
}

func (s *Service) currentMembership(userID int64) (*membershipmodel.Membership, error) {
	m, err := s.memberships.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// finalizeOrder marks the order paid. Membership is persisted before this
// write, so a crash between the two is repaired on redelivery.
func (s *Service) finalizeOrder(ord *order.PaymentOrder, txn *webhook.Transaction, now time.Time, setFulfillment bool) error {
	updates := map[string]interface{}{
		"status":                  order.StatusPaid,
		"paid_at":                 now,
		"provider_transaction_id": txn.ProviderTransactionID,
		"payment_snapshot":        txn.Snapshot(),
		"review_reason":           nil,
		"updated_at":              now,
	}
	if setFulfillment {
		updates["fulfillment_type"] = order.TypeMembership
		updates["fulfilled_at"] = now
		updates["fulfilled_user_id"] = ord.UserID
	}
	if err := s.orders.Update(ord.ID, updates); err != nil {
		return fmt.Errorf("failed to finalize order %d: %w", ord.ID, err)
	}
	return nil
}
