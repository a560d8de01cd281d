package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/architect/classroom-backend/internal/classroom/models"
	"github.com/architect/classroom-backend/internal/classroom/repository"
	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/common/validation"
)

const (
	joinCodeLength   = 5
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeRetries  = 10
)

// ClassroomService covers classroom lifecycle and enrollment. Content access
// is gated on ownership (admins) or enrollment (learners).
type ClassroomService struct {
	classrooms  repository.ClassroomRepository
	memberships repository.MembershipRepository
	content     repository.ContentRepository
	now         func() time.Time
}

func NewClassroomService(
	classrooms repository.ClassroomRepository,
	memberships repository.MembershipRepository,
	content repository.ContentRepository,
) *ClassroomService {
	return &ClassroomService{
		classrooms:  classrooms,
		memberships: memberships,
		content:     content,
		now:         time.Now,
	}
}

// CreateClassroom mints a classroom with a fresh join code for the admin.
func (s *ClassroomService) CreateClassroom(ctx context.Context, adminID uint, name string) (*models.Classroom, error) {
	if err := validation.ValidateStringRange(strings.TrimSpace(name), 1, 100); err != nil {
		return nil, apperrors.Validation("invalid classroom name", err.Error())
	}

	code, err := s.generateJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	classroom := &models.Classroom{
		Name:     strings.TrimSpace(name),
		AdminID:  adminID,
		JoinCode: code,
		IsActive: true,
	}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, err
	}
	return classroom, nil
}

// generateJoinCode draws 5-character uppercase codes until one is unused.
func (s *ClassroomService) generateJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < joinCodeRetries; attempt++ {
		var b strings.Builder
		for i := 0; i < joinCodeLength; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(joinCodeAlphabet))))
			if err != nil {
				return "", apperrors.Internal("join code generation failed", err.Error())
			}
			b.WriteByte(joinCodeAlphabet[n.Int64()])
		}
		code := b.String()

		taken, err := s.classrooms.JoinCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperrors.Internal("could not allocate a unique join code", "")
}

// JoinClassroom enrolls a learner via join code. Joining twice is a conflict;
// inactive classrooms cannot be joined.
func (s *ClassroomService) JoinClassroom(ctx context.Context, userID uint, code string) (*models.Classroom, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != joinCodeLength {
		return nil, apperrors.Validation("invalid join code", fmt.Sprintf("join code must be %d characters", joinCodeLength))
	}

	classroom, err := s.classrooms.GetByJoinCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !classroom.IsActive {
		return nil, apperrors.Validation("classroom is not accepting new members", "")
	}

	enrolled, err := s.memberships.IsEnrolled(ctx, userID, classroom.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, apperrors.Conflict("already enrolled in this classroom")
	}

	err = s.memberships.Enroll(ctx, &models.ClassroomStudent{
		ClassroomID: classroom.ID,
		StudentID:   userID,
		JoinedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return classroom, nil
}

// ListAvailable returns the active classrooms open for enrollment.
func (s *ClassroomService) ListAvailable(ctx context.Context) ([]models.Classroom, error) {
	return s.classrooms.ListActive(ctx)
}

// ListForAdmin returns the classrooms an admin owns.
func (s *ClassroomService) ListForAdmin(ctx context.Context, adminID uint) ([]models.Classroom, error) {
	return s.classrooms.ListByAdmin(ctx, adminID)
}

// ListForLearner returns the classrooms a learner is enrolled in.
func (s *ClassroomService) ListForLearner(ctx context.Context, userID uint) ([]models.Classroom, error) {
	ids, err := s.memberships.ClassroomIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.classrooms.ListByIDs(ctx, ids)
}

// Authorize verifies the caller may read a classroom: its admin, or an
// enrolled learner. Everyone else gets Forbidden.
func (s *ClassroomService) Authorize(ctx context.Context, userID uint, classroomID uuid.UUID) (*models.Classroom, error) {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.AdminID == userID {
		return classroom, nil
	}
	enrolled, err := s.memberships.IsEnrolled(ctx, userID, classroomID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.Forbidden("not a member of this classroom")
	}
	return classroom, nil
}

// AuthorizeAdmin verifies the caller owns the classroom.
func (s *ClassroomService) AuthorizeAdmin(ctx context.Context, userID uint, classroomID uuid.UUID) (*models.Classroom, error) {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.AdminID != userID {
		return nil, apperrors.Forbidden("only the classroom admin may do this")
	}
	return classroom, nil
}

// CreateSection adds a course section. Admin only.
func (s *ClassroomService) CreateSection(ctx context.Context, adminID uint, classroomID uuid.UUID, section *models.CourseSection) error {
	if _, err := s.AuthorizeAdmin(ctx, adminID, classroomID); err != nil {
		return err
	}
	if err := validation.ValidateStringRange(strings.TrimSpace(section.CourseTitle), 1, 150); err != nil {
		return apperrors.Validation("invalid course title", err.Error())
	}
	section.ClassroomID = classroomID
	return s.content.CreateSection(ctx, section)
}

func (s *ClassroomService) ListSections(ctx context.Context, userID uint, classroomID uuid.UUID) ([]models.CourseSection, error) {
	if _, err := s.Authorize(ctx, userID, classroomID); err != nil {
		return nil, err
	}
	return s.content.ListSections(ctx, classroomID)
}

// CreateSlide registers an uploaded slide deck in a section. Admin only.
func (s *ClassroomService) CreateSlide(ctx context.Context, adminID uint, classroomID uuid.UUID, slide *models.Slide) error {
	if _, err := s.AuthorizeAdmin(ctx, adminID, classroomID); err != nil {
		return err
	}
	if err := validation.ValidateStringRange(strings.TrimSpace(slide.SlideName), 1, 150); err != nil {
		return apperrors.Validation("invalid slide name", err.Error())
	}
	if slide.SlideNumber < 1 {
		return apperrors.Validation("invalid slide number", "slide_number must be positive")
	}
	if _, err := s.content.GetSection(ctx, classroomID, slide.SectionID); err != nil {
		return err
	}
	slide.ClassroomID = classroomID
	return s.content.CreateSlide(ctx, slide)
}

func (s *ClassroomService) ListSlides(ctx context.Context, userID uint, classroomID, sectionID uuid.UUID) ([]models.Slide, error) {
	if _, err := s.Authorize(ctx, userID, classroomID); err != nil {
		return nil, err
	}
	return s.content.ListSlides(ctx, classroomID, sectionID)
}

func (s *ClassroomService) GetSlide(ctx context.Context, userID uint, classroomID, slideID uuid.UUID) (*models.Slide, error) {
	if _, err := s.Authorize(ctx, userID, classroomID); err != nil {
		return nil, err
	}
	return s.content.GetSlide(ctx, classroomID, slideID)
}

// PostAnnouncement publishes a classroom-wide announcement. Admin only.
func (s *ClassroomService) PostAnnouncement(ctx context.Context, adminID uint, classroomID uuid.UUID, announcement *models.Announcement) error {
	if _, err := s.AuthorizeAdmin(ctx, adminID, classroomID); err != nil {
		return err
	}
	if err := validation.ValidateStringRange(strings.TrimSpace(announcement.Title), 1, 150); err != nil {
		return apperrors.Validation("invalid title", err.Error())
	}
	if strings.TrimSpace(announcement.Content) == "" {
		return apperrors.Validation("content is required", "")
	}
	announcement.ClassroomID = classroomID
	if announcement.Date.IsZero() {
		announcement.Date = s.now().UTC()
	}
	return s.content.CreateAnnouncement(ctx, announcement)
}

func (s *ClassroomService) ListAnnouncements(ctx context.Context, userID uint, classroomID uuid.UUID) ([]models.Announcement, error) {
	if _, err := s.Authorize(ctx, userID, classroomID); err != nil {
		return nil, err
	}
	return s.content.ListAnnouncements(ctx, classroomID)
}

// AddPastQuestion files a past-exam upload under a section. Admin only.
func (s *ClassroomService) AddPastQuestion(ctx context.Context, adminID uint, classroomID uuid.UUID, pastQuestion *models.PastQuestion) error {
	if _, err := s.AuthorizeAdmin(ctx, adminID, classroomID); err != nil {
		return err
	}
	if err := validation.ValidateStringRange(strings.TrimSpace(pastQuestion.Title), 1, 150); err != nil {
		return apperrors.Validation("invalid title", err.Error())
	}
	if _, err := s.content.GetSection(ctx, classroomID, pastQuestion.SectionID); err != nil {
		return err
	}
	pastQuestion.ClassroomID = classroomID
	return s.content.CreatePastQuestion(ctx, pastQuestion)
}

func (s *ClassroomService) ListPastQuestions(ctx context.Context, userID uint, classroomID, sectionID uuid.UUID) ([]models.PastQuestion, error) {
	if _, err := s.Authorize(ctx, userID, classroomID); err != nil {
		return nil, err
	}
	return s.content.ListPastQuestions(ctx, classroomID, sectionID)
}
