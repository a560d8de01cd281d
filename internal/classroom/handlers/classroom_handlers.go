package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/architect/classroom-backend/internal/classroom/models"
	"github.com/architect/classroom-backend/internal/classroom/services"
	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/common/middleware"
)

type ClassroomHandler struct {
	svc *services.ClassroomService
}

func NewClassroomHandler(svc *services.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{svc: svc}
}

// ParseUUIDParam reads a UUID path parameter or fails with a validation error.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid "+name, "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

type createClassroomRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateClassroom creates a classroom owned by the calling admin.
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req createClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	classroom, err := h.svc.CreateClassroom(c.Request.Context(), userID, req.Name)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, classroom)
}

// ListAdminClassrooms lists the classrooms the calling admin owns.
func (h *ClassroomHandler) ListAdminClassrooms(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	classrooms, err := h.svc.ListForAdmin(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"classrooms": classrooms})
}

// ListAvailableClassrooms lists active classrooms open for enrollment.
func (h *ClassroomHandler) ListAvailableClassrooms(c *gin.Context) {
	classrooms, err := h.svc.ListAvailable(c.Request.Context())
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"classrooms": classrooms})
}

// ListLearnerClassrooms lists the classrooms the caller is enrolled in.
func (h *ClassroomHandler) ListLearnerClassrooms(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	classrooms, err := h.svc.ListForLearner(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"classrooms": classrooms})
}

type joinClassroomRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

// JoinClassroom enrolls the calling learner via join code.
func (h *ClassroomHandler) JoinClassroom(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req joinClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	classroom, err := h.svc.JoinClassroom(c.Request.Context(), userID, req.JoinCode)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{
		"message": "successfully enrolled in classroom",
		"classroom": gin.H{
			"classroom_id": classroom.ID,
			"name":         classroom.Name,
		},
	})
}

type createSectionRequest struct {
	CourseTitle string `json:"course_title" binding:"required"`
	CourseCode  string `json:"course_code"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
}

// CreateSection adds a course section to a classroom.
func (h *ClassroomHandler) CreateSection(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}

	var req createSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	section := &models.CourseSection{
		CourseTitle: req.CourseTitle,
		CourseCode:  req.CourseCode,
		Difficulty:  req.Difficulty,
		Description: req.Description,
	}
	if err := h.svc.CreateSection(c.Request.Context(), userID, classroomID, section); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, section)
}

// ListSections lists a classroom's course sections.
func (h *ClassroomHandler) ListSections(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}

	sections, err := h.svc.ListSections(c.Request.Context(), userID, classroomID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"course_sections": sections})
}

type createSlideRequest struct {
	SlideName   string `json:"slide_name" binding:"required"`
	SlideNumber int    `json:"slide_number" binding:"required"`
	FileURL     string `json:"file_url"`
}

// CreateSlide registers a slide deck under a section.
func (h *ClassroomHandler) CreateSlide(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}
	sectionID, ok := ParseUUIDParam(c, "sectionId")
	if !ok {
		return
	}

	var req createSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	slide := &models.Slide{
		SectionID:   sectionID,
		SlideName:   req.SlideName,
		SlideNumber: req.SlideNumber,
		FileURL:     req.FileURL,
	}
	if err := h.svc.CreateSlide(c.Request.Context(), userID, classroomID, slide); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, slide)
}

// ListSlides lists a section's slides in slide-number order.
func (h *ClassroomHandler) ListSlides(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}
	sectionID, ok := ParseUUIDParam(c, "sectionId")
	if !ok {
		return
	}

	slides, err := h.svc.ListSlides(c.Request.Context(), userID, classroomID, sectionID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"slides": slides})
}

type createAnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// PostAnnouncement publishes an announcement to a classroom.
func (h *ClassroomHandler) PostAnnouncement(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}

	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	announcement := &models.Announcement{
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.svc.PostAnnouncement(c.Request.Context(), userID, classroomID, announcement); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, announcement)
}

// ListAnnouncements lists a classroom's announcements, newest first.
func (h *ClassroomHandler) ListAnnouncements(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}

	announcements, err := h.svc.ListAnnouncements(c.Request.Context(), userID, classroomID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"announcements": announcements})
}

type createPastQuestionRequest struct {
	Title   string `json:"title" binding:"required"`
	FileURL string `json:"file_url"`
}

// AddPastQuestion files a past-exam upload under a section.
func (h *ClassroomHandler) AddPastQuestion(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}
	sectionID, ok := ParseUUIDParam(c, "sectionId")
	if !ok {
		return
	}

	var req createPastQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	pastQuestion := &models.PastQuestion{
		SectionID: sectionID,
		Title:     req.Title,
		FileURL:   req.FileURL,
	}
	if err := h.svc.AddPastQuestion(c.Request.Context(), userID, classroomID, pastQuestion); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, pastQuestion)
}

// ListPastQuestions lists a section's past-question uploads.
func (h *ClassroomHandler) ListPastQuestions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	classroomID, ok := ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}
	sectionID, ok := ParseUUIDParam(c, "sectionId")
	if !ok {
		return
	}

	pastQuestions, err := h.svc.ListPastQuestions(c.Request.Context(), userID, classroomID, sectionID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"past_questions": pastQuestions})
}
