package referrals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db/models"
)

// Repository manages persistence for referral edges.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, edge *models.ReferralEdge) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ReferralEdge, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a referrals repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, edge *models.ReferralEdge) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ReferralEdge, error) {
	var edge models.ReferralEdge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}
