package postgres

import (
	"time"

	webhookmodel "github.com/tuannda/membership-payments/internal/core/datamodel/webhook"
	webhookpkg "github.com/tuannda/membership-payments/internal/webhook"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) webhookpkg.TransactionRepository {
	return &TransactionRepository{db: db}
}

// Upsert inserts the transaction on first delivery; redeliveries refresh only
// the diagnostic fields. The transaction identity columns are written once.
func (r *TransactionRepository) Upsert(txn *webhookmodel.PaymentTransaction) error {
	txn.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}, {Name: "provider_transaction_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "order_id", "updated_at",
		}),
	}).Create(txn).Error
}

func (r *TransactionRepository) GetByProviderTransactionID(provider, providerTransactionID string) (*webhookmodel.PaymentTransaction, error) {
	var txn webhookmodel.PaymentTransaction
	err := r.db.
		Where("provider = ? AND provider_transaction_id = ?", provider, providerTransactionID).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
