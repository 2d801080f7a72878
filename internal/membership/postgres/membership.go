package postgres

import (
	"time"

	membershipmodel "github.com/tuannda/membership-payments/internal/core/datamodel/membership"
	usermodel "github.com/tuannda/membership-payments/internal/core/datamodel/user"
	membershippkg "github.com/tuannda/membership-payments/internal/membership"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) membershippkg.MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) GetByUserID(userID int64) (*membershipmodel.Membership, error) {
	var m membershipmodel.Membership
	err := r.db.Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Set upserts the one membership row per user.
func (r *MembershipRepository) Set(m *membershipmodel.Membership) error {
	m.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tier", "status", "started_at", "expires_at", "source", "order_id", "updated_at",
		}),
	}).Create(m).Error
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) membershippkg.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
