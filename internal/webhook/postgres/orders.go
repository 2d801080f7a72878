package postgres

import (
	"github.com/tuannda/membership-payments/internal/core/datamodel/order"
	webhookpkg "github.com/tuannda/membership-payments/internal/webhook"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) webhookpkg.OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetByID(id int64) (*order.PaymentOrder, error) {
	var ord order.PaymentOrder
	err := r.db.First(&ord, id).Error
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *OrderRepository) GetByCode(code string) (*order.PaymentOrder, error) {
	var ord order.PaymentOrder
	err := r.db.Where("order_code = ?", code).First(&ord).Error
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *OrderRepository) Update(id int64, updates map[string]interface{}) error {
	return r.db.Model(&order.PaymentOrder{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateIfNotPaid writes only when the persisted row is not yet paid. This is
// the monotonic-finalization guard: the condition runs inside the UPDATE, so
// a concurrently finalized order silently wins over any downgrade.
func (r *OrderRepository) UpdateIfNotPaid(id int64, updates map[string]interface{}) error {
	return r.db.Model(&order.PaymentOrder{}).
		Where("id = ? AND status <> ?", id, order.StatusPaid).
		Updates(updates).Error
}
