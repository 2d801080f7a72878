package membership

import "time"

const (
	StatusActive = "active"

	SourceOrder = "order"
)

// Membership is the per-user membership window. One row per user, mutated
// only by fulfillment; OrderID references the order whose purchase produced
// the current window and doubles as the fulfillment idempotency marker.
type Membership struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex"`
	Tier      string    `gorm:"column:tier;not null"`
	Status    string    `gorm:"column:status;default:active"`
	StartedAt time.Time `gorm:"column:started_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Source    string    `gorm:"column:source;default:order"`
	OrderID   int64     `gorm:"column:order_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Membership) TableName() string {
	return "memberships"
}

// ActiveAt reports whether the membership window covers t.
func (m *Membership) ActiveAt(t time.Time) bool {
	return m.Status == StatusActive && m.ExpiresAt.After(t)
}
