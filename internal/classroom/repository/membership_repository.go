package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/classroom/models"
)

// MembershipRepository owns enrollment rows linking learners to classrooms.
type MembershipRepository interface {
	Enroll(ctx context.Context, enrollment *models.ClassroomStudent) error
	IsEnrolled(ctx context.Context, userID uint, classroomID uuid.UUID) (bool, error)
	LearnerIDs(ctx context.Context, classroomID uuid.UUID) ([]uint, error)
	ClassroomIDs(ctx context.Context, userID uint) ([]uuid.UUID, error)
}

type GormMembershipRepository struct {
	db *gorm.DB
}

func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

func (r *GormMembershipRepository) Enroll(ctx context.Context, enrollment *models.ClassroomStudent) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return apperrors.StoreUnavailable(err.Error())
	}
	return nil
}

func (r *GormMembershipRepository) IsEnrolled(ctx context.Context, userID uint, classroomID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClassroomStudent{}).
		Where("student_id = ? AND classroom_id = ?", userID, classroomID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.StoreUnavailable(err.Error())
	}
	return count > 0, nil
}

func (r *GormMembershipRepository) LearnerIDs(ctx context.Context, classroomID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ClassroomStudent{}).
		Where("classroom_id = ?", classroomID).
		Order("joined_at ASC").
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return ids, nil
}

func (r *GormMembershipRepository) ClassroomIDs(ctx context.Context, userID uint) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ClassroomStudent{}).
		Where("student_id = ?", userID).
		Order("joined_at ASC").
		Pluck("classroom_id", &ids).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return ids, nil
}
