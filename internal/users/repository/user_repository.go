package repository

import (
	"context"
	stderrors "errors"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/users/models"
	"gorm.io/gorm"
)

// UserRepository is the user-lookup/update capability the engines consume.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	// AddXP applies a signed delta to the user's xp column atomically in SQL,
	// so concurrent grants cannot lose each other's writes.
	AddXP(ctx context.Context, id uint, amount int) error
}

// GormUserRepository implements UserRepository over gorm.
type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "user_id = ?", id)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("user")
		}
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return &user, nil
}

func (r *GormUserRepository) AddXP(ctx context.Context, id uint, amount int) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", id).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount))
	if result.Error != nil {
		return errors.StoreUnavailable(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("user")
	}
	return nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		return errors.StoreUnavailable(result.Error.Error())
	}
	return nil
}
