package handlers

import (
	"github.com/gin-gonic/gin"

	classroomhandlers "github.com/architect/classroom-backend/internal/classroom/handlers"
	classroomservices "github.com/architect/classroom-backend/internal/classroom/services"
	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/common/middleware"
	"github.com/architect/classroom-backend/internal/quiz/models"
	"github.com/architect/classroom-backend/internal/quiz/services"
)

type QuizHandler struct {
	quiz       *services.QuizService
	progress   *services.ProgressService
	classrooms *classroomservices.ClassroomService
}

func NewQuizHandler(quiz *services.QuizService, progress *services.ProgressService, classrooms *classroomservices.ClassroomService) *QuizHandler {
	return &QuizHandler{quiz: quiz, progress: progress, classrooms: classrooms}
}

// slideScope pulls the three-part slide identity out of the path and checks
// the caller may read the classroom.
func (h *QuizHandler) slideScope(c *gin.Context) (models.SlideScope, bool) {
	var scope models.SlideScope

	classroomID, ok := classroomhandlers.ParseUUIDParam(c, "classroomId")
	if !ok {
		return scope, false
	}
	sectionID, ok := classroomhandlers.ParseUUIDParam(c, "sectionId")
	if !ok {
		return scope, false
	}
	slideID, ok := classroomhandlers.ParseUUIDParam(c, "slideId")
	if !ok {
		return scope, false
	}

	userID, _ := middleware.UserID(c)
	if _, err := h.classrooms.Authorize(c.Request.Context(), userID, classroomID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return scope, false
	}

	scope = models.SlideScope{ClassroomID: classroomID, SectionID: sectionID, SlideID: slideID}
	return scope, true
}

type generateQuestionsRequest struct {
	SlideContent string `json:"slide_content" binding:"required"`
}

// GenerateQuestions regenerates a slide's question set from its content.
// The existing set is only replaced after generation succeeds.
func (h *QuizHandler) GenerateQuestions(c *gin.Context) {
	scope, ok := h.slideScope(c)
	if !ok {
		return
	}

	var req generateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	userID, _ := middleware.UserID(c)
	slide, err := h.classrooms.GetSlide(c.Request.Context(), userID, scope.ClassroomID, scope.SlideID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	questions, err := h.quiz.GenerateQuestions(c.Request.Context(), scope, req.SlideContent, slide.SlideNumber)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, gin.H{
		"message":   "questions generated successfully",
		"count":     len(questions),
		"questions": questions,
	})
}

// ListQuestions returns the full question set for admin review.
func (h *QuizHandler) ListQuestions(c *gin.Context) {
	scope, ok := h.slideScope(c)
	if !ok {
		return
	}

	questions, err := h.quiz.ListQuestions(c.Request.Context(), scope)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"questions": questions})
}

// DeleteQuestions removes a slide's question set without regenerating it.
func (h *QuizHandler) DeleteQuestions(c *gin.Context) {
	scope, ok := h.slideScope(c)
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	if _, err := h.classrooms.AuthorizeAdmin(c.Request.Context(), userID, scope.ClassroomID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	if err := h.quiz.DeleteQuestions(c.Request.Context(), scope); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "questions deleted successfully"})
}

// ReviewQuestion applies an admin edit or status change to one question.
func (h *QuizHandler) ReviewQuestion(c *gin.Context) {
	classroomID, ok := classroomhandlers.ParseUUIDParam(c, "classroomId")
	if !ok {
		return
	}
	questionID, ok := classroomhandlers.ParseUUIDParam(c, "questionId")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	if _, err := h.classrooms.AuthorizeAdmin(c.Request.Context(), userID, classroomID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	var review services.QuestionReview
	if err := c.ShouldBindJSON(&review); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	question, err := h.quiz.ReviewQuestion(c.Request.Context(), classroomID, questionID, review)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, question)
}

// ServeTest hands the caller a freshly shuffled test for a slide.
func (h *QuizHandler) ServeTest(c *gin.Context) {
	scope, ok := h.slideScope(c)
	if !ok {
		return
	}

	questions, err := h.quiz.ServeTest(c.Request.Context(), scope)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{
		"count":     len(questions),
		"questions": questions,
	})
}

type submitTestRequest struct {
	Answers []models.SubmittedAnswer `json:"answers" binding:"required"`
}

// SubmitTest scores a submission, persists the attempt, and returns the
// result alongside the caller's updated performance picture.
func (h *QuizHandler) SubmitTest(c *gin.Context) {
	scope, ok := h.slideScope(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	var req submitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	result, err := h.quiz.ScoreSubmission(c.Request.Context(), scope, userID, req.Answers)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	summary, err := h.progress.Analyze(c.Request.Context(), userID, scope.SlideID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":        "test submitted successfully",
		"current_score":  result.Score,
		"attempt_id":     result.AttemptID,
		"scored_answers": result.ScoredAnswers,
		"performance":    summary,
	})
}

// GetProgress reports the caller's recent performance on a slide.
func (h *QuizHandler) GetProgress(c *gin.Context) {
	scope, ok := h.slideScope(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	summary, err := h.progress.Analyze(c.Request.Context(), userID, scope.SlideID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, summary)
}
