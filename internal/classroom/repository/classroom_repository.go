package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/classroom/models"
)

// ClassroomRepository owns classroom records and join-code lookups.
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *models.Classroom) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error)
	GetByJoinCode(ctx context.Context, code string) (*models.Classroom, error)
	ListByAdmin(ctx context.Context, adminID uint) ([]models.Classroom, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Classroom, error)
	ListActive(ctx context.Context) ([]models.Classroom, error)
	JoinCodeExists(ctx context.Context, code string) (bool, error)
}

type GormClassroomRepository struct {
	db *gorm.DB
}

func NewGormClassroomRepository(db *gorm.DB) *GormClassroomRepository {
	return &GormClassroomRepository{db: db}
}

func (r *GormClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if err := r.db.WithContext(ctx).Create(classroom).Error; err != nil {
		return apperrors.StoreUnavailable(err.Error())
	}
	return nil
}

func (r *GormClassroomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error) {
	var classroom models.Classroom
	err := r.db.WithContext(ctx).First(&classroom, "classroom_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("classroom")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return &classroom, nil
}

func (r *GormClassroomRepository) GetByJoinCode(ctx context.Context, code string) (*models.Classroom, error) {
	var classroom models.Classroom
	err := r.db.WithContext(ctx).First(&classroom, "join_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("classroom")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return &classroom, nil
}

func (r *GormClassroomRepository) ListByAdmin(ctx context.Context, adminID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := r.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Find(&classrooms).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return classrooms, nil
}

func (r *GormClassroomRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Classroom, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var classrooms []models.Classroom
	err := r.db.WithContext(ctx).
		Where("classroom_id IN ?", ids).
		Order("created_at DESC").
		Find(&classrooms).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return classrooms, nil
}

func (r *GormClassroomRepository) ListActive(ctx context.Context) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&classrooms).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return classrooms, nil
}

func (r *GormClassroomRepository) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Classroom{}).
		Where("join_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, apperrors.StoreUnavailable(err.Error())
	}
	return count > 0, nil
}
