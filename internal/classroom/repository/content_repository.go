package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/classroom/models"
)

// ContentRepository owns the material hanging off a classroom: sections,
// slides, announcements and past questions.
type ContentRepository interface {
	CreateSection(ctx context.Context, section *models.CourseSection) error
	ListSections(ctx context.Context, classroomID uuid.UUID) ([]models.CourseSection, error)
	GetSection(ctx context.Context, classroomID, sectionID uuid.UUID) (*models.CourseSection, error)

	CreateSlide(ctx context.Context, slide *models.Slide) error
	ListSlides(ctx context.Context, classroomID, sectionID uuid.UUID) ([]models.Slide, error)
	GetSlide(ctx context.Context, classroomID, slideID uuid.UUID) (*models.Slide, error)

	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	ListAnnouncements(ctx context.Context, classroomID uuid.UUID) ([]models.Announcement, error)

	CreatePastQuestion(ctx context.Context, pastQuestion *models.PastQuestion) error
	ListPastQuestions(ctx context.Context, classroomID, sectionID uuid.UUID) ([]models.PastQuestion, error)
}

type GormContentRepository struct {
	db *gorm.DB
}

func NewGormContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

func (r *GormContentRepository) CreateSection(ctx context.Context, section *models.CourseSection) error {
	if err := r.db.WithContext(ctx).Create(section).Error; err != nil {
		return apperrors.StoreUnavailable(err.Error())
	}
	return nil
}

func (r *GormContentRepository) ListSections(ctx context.Context, classroomID uuid.UUID) ([]models.CourseSection, error) {
	var sections []models.CourseSection
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("created_at ASC").
		Find(&sections).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return sections, nil
}

func (r *GormContentRepository) GetSection(ctx context.Context, classroomID, sectionID uuid.UUID) (*models.CourseSection, error) {
	var section models.CourseSection
	err := r.db.WithContext(ctx).
		First(&section, "classroom_id = ? AND course_section_id = ?", classroomID, sectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("course section")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return &section, nil
}

func (r *GormContentRepository) CreateSlide(ctx context.Context, slide *models.Slide) error {
	if err := r.db.WithContext(ctx).Create(slide).Error; err != nil {
		return apperrors.StoreUnavailable(err.Error())
	}
	return nil
}

func (r *GormContentRepository) ListSlides(ctx context.Context, classroomID, sectionID uuid.UUID) ([]models.Slide, error) {
	var slides []models.Slide
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND course_section_id = ?", classroomID, sectionID).
		Order("slide_number ASC").
		Find(&slides).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return slides, nil
}

func (r *GormContentRepository) GetSlide(ctx context.Context, classroomID, slideID uuid.UUID) (*models.Slide, error) {
	var slide models.Slide
	err := r.db.WithContext(ctx).
		First(&slide, "classroom_id = ? AND slide_id = ?", classroomID, slideID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("slide")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return &slide, nil
}

func (r *GormContentRepository) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Create(announcement).Error; err != nil {
		return apperrors.StoreUnavailable(err.Error())
	}
	return nil
}

func (r *GormContentRepository) ListAnnouncements(ctx context.Context, classroomID uuid.UUID) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("date DESC").
		Find(&announcements).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return announcements, nil
}

func (r *GormContentRepository) CreatePastQuestion(ctx context.Context, pastQuestion *models.PastQuestion) error {
	if err := r.db.WithContext(ctx).Create(pastQuestion).Error; err != nil {
		return apperrors.StoreUnavailable(err.Error())
	}
	return nil
}

func (r *GormContentRepository) ListPastQuestions(ctx context.Context, classroomID, sectionID uuid.UUID) ([]models.PastQuestion, error) {
	var pastQuestions []models.PastQuestion
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND course_section_id = ?", classroomID, sectionID).
		Order("created_at DESC").
		Find(&pastQuestions).Error
	if err != nil {
		return nil, apperrors.StoreUnavailable(err.Error())
	}
	return pastQuestions, nil
}
