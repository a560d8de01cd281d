package repository

import (
	"context"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/engagement/models"
	"gorm.io/gorm"
)

// BadgeRepository backs the badge-award hook.
type BadgeRepository interface {
	EligibleBadges(ctx context.Context, xp int) ([]*models.Badge, error)
	HeldBadgeIDs(ctx context.Context, userID uint) ([]uint, error)
	Award(ctx context.Context, award *models.UserBadge) error
}

type GormBadgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *GormBadgeRepository {
	return &GormBadgeRepository{db: db}
}

func (r *GormBadgeRepository) EligibleBadges(ctx context.Context, xp int) ([]*models.Badge, error) {
	var badges []*models.Badge
	result := r.db.WithContext(ctx).Where("xp_threshold <= ?", xp).Find(&badges)
	if result.Error != nil {
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return badges, nil
}

func (r *GormBadgeRepository) HeldBadgeIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	result := r.db.WithContext(ctx).
		Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids)
	if result.Error != nil {
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return ids, nil
}

func (r *GormBadgeRepository) Award(ctx context.Context, award *models.UserBadge) error {
	result := r.db.WithContext(ctx).Create(award)
	if result.Error != nil {
		return errors.StoreUnavailable(result.Error.Error())
	}
	return nil
}
