package postgres

import (
	webhookmodel "github.com/tuannda/membership-payments/internal/core/datamodel/webhook"
	webhookpkg "github.com/tuannda/membership-payments/internal/webhook"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventLedger struct {
	db *gorm.DB
}

func NewEventLedger(db *gorm.DB) webhookpkg.EventLedger {
	return &EventLedger{db: db}
}

// Record inserts the receipt once per event key; redeliveries are no-ops at
// the database level rather than errors.
func (r *EventLedger) Record(event *webhookmodel.WebhookEvent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_key"}},
		DoNothing: true,
	}).Create(event).Error
}
