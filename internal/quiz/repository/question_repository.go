package repository

import (
	"context"
	stderrors "errors"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/quiz/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionRepository stores per-slide question sets.
type QuestionRepository interface {
	// ReplaceForSlide deletes the slide's existing set and inserts the new one
	// in a single transaction, so concurrent readers see either the full old
	// set or the full new set.
	ReplaceForSlide(ctx context.Context, scope models.SlideScope, questions []*models.Question) error
	ForSlide(ctx context.Context, scope models.SlideScope, statuses []string) ([]*models.Question, error)
	ByIDs(ctx context.Context, scope models.SlideScope, ids []uuid.UUID) ([]*models.Question, error)
	GetByID(ctx context.Context, classroomID, questionID uuid.UUID) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
}

type GormQuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

func (r *GormQuestionRepository) ReplaceForSlide(ctx context.Context, scope models.SlideScope, questions []*models.Question) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where(
			"slide_id = ? AND course_section_id = ? AND classroom_id = ?",
			scope.SlideID, scope.SectionID, scope.ClassroomID,
		).Delete(&models.Question{})
		if result.Error != nil {
			return result.Error
		}

		if len(questions) == 0 {
			return nil
		}
		return tx.Create(questions).Error
	})
	if err != nil {
		return errors.StoreUnavailable(err.Error())
	}
	return nil
}

func (r *GormQuestionRepository) ForSlide(ctx context.Context, scope models.SlideScope, statuses []string) ([]*models.Question, error) {
	var questions []*models.Question
	result := r.db.WithContext(ctx).
		Where(
			"slide_id = ? AND course_section_id = ? AND classroom_id = ? AND status IN ?",
			scope.SlideID, scope.SectionID, scope.ClassroomID, statuses,
		).
		Find(&questions)
	if result.Error != nil {
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return questions, nil
}

func (r *GormQuestionRepository) ByIDs(ctx context.Context, scope models.SlideScope, ids []uuid.UUID) ([]*models.Question, error) {
	var questions []*models.Question
	result := r.db.WithContext(ctx).
		Where(
			"slide_id = ? AND course_section_id = ? AND classroom_id = ? AND question_id IN ?",
			scope.SlideID, scope.SectionID, scope.ClassroomID, ids,
		).
		Find(&questions)
	if result.Error != nil {
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return questions, nil
}

func (r *GormQuestionRepository) GetByID(ctx context.Context, classroomID, questionID uuid.UUID) (*models.Question, error) {
	var question models.Question
	result := r.db.WithContext(ctx).
		First(&question, "question_id = ? AND classroom_id = ?", questionID, classroomID)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("question")
		}
		return nil, errors.StoreUnavailable(result.Error.Error())
	}
	return &question, nil
}

func (r *GormQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	result := r.db.WithContext(ctx).Save(question)
	if result.Error != nil {
		return errors.StoreUnavailable(result.Error.Error())
	}
	return nil
}
