package repository

import (
	"context"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/quiz/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptRepository stores quiz attempts. Attempts are immutable after
// creation; there is no update or delete.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.SlideQuestionAttempt) error
	LastForUserSlide(ctx context.Context, userID uint, slideID uuid.UUID, limit int) ([]*models.SlideQuestionAttempt, error)
}

type GormAttemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *GormAttemptRepository {
	return &GormAttemptRepository{db: db}
}

func (r *GormAttemptRepository) Create(ctx context.Context, attempt *models.SlideQuestionAttempt) error {
	result := r.db.WithContext(ctx).Create(attempt)
	if result.Error != nil {
		return errors.StoreUnavailable(result.Error.Error())
	}
	return nil
}

// LastForUserSlide returns up to limit attempts, newest first.
func (r *GormAttemptRepository) LastForUserSlide(ctx context.Context, userID uint, slideID uuid.UUID, limit int) ([]*models.SlideQuestionAttempt, error) {
	var attempts []*models.SlideQuestionAttempt
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND slide_id = ?", userID, slideID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&attempts)
	if result.Error != nil {
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return attempts, nil
}
