package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	classroomhandlers "github.com/architect/classroom-backend/internal/classroom/handlers"
	classroommodels "github.com/architect/classroom-backend/internal/classroom/models"
	classroomrepo "github.com/architect/classroom-backend/internal/classroom/repository"
	classroomservices "github.com/architect/classroom-backend/internal/classroom/services"
	"github.com/architect/classroom-backend/internal/common/middleware"
	quizmodels "github.com/architect/classroom-backend/internal/quiz/models"
	quizrepo "github.com/architect/classroom-backend/internal/quiz/repository"
	quizservices "github.com/architect/classroom-backend/internal/quiz/services"
	usermodels "github.com/architect/classroom-backend/internal/users/models"
)

const generatedBatch = `[
  {"question_text": "What is mutual exclusion?", "options": ["A lock property", "A sorting method", "A file format", "A network layer"], "correct_answer": 0, "question_type": "definition", "difficulty_level": "medium"},
  {"question_text": "What does a semaphore count?", "options": ["Threads", "Available permits", "Files", "Sockets"], "correct_answer": 1, "question_type": "conceptual", "difficulty_level": "easy"},
  {"question_text": "What causes deadlock?", "options": ["Fast CPUs", "Circular wait", "Large memory", "Short timeouts"], "correct_answer": 1, "question_type": "conceptual", "difficulty_level": "hard"}
]`

type stubLLM struct{ response string }

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, nil
}

type testEnv struct {
	router       *gin.Engine
	db           *gorm.DB
	adminToken   string
	learnerToken string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&usermodels.User{},
		&classroommodels.Classroom{},
		&classroommodels.CourseSection{},
		&classroommodels.Slide{},
		&classroommodels.ClassroomStudent{},
		&quizmodels.Question{},
		&quizmodels.SlideQuestionAttempt{},
	))

	admin := &usermodels.User{Username: "prof", Email: "prof@example.com", Role: usermodels.RoleAdmin, Level: usermodels.LevelBeginner}
	learner := &usermodels.User{Username: "ada", Email: "ada@example.com", Role: usermodels.RoleLearner, Level: usermodels.LevelBeginner}
	require.NoError(t, db.Create(admin).Error)
	require.NoError(t, db.Create(learner).Error)

	classroomSvc := classroomservices.NewClassroomService(
		classroomrepo.NewGormClassroomRepository(db),
		classroomrepo.NewGormMembershipRepository(db),
		classroomrepo.NewGormContentRepository(db),
	)
	quizSvc := quizservices.NewQuizService(
		quizrepo.NewQuestionRepository(db),
		quizrepo.NewAttemptRepository(db),
		quizservices.NewQuestionGenerator(&stubLLM{response: generatedBatch}),
	)
	progressSvc := quizservices.NewProgressService(quizrepo.NewAttemptRepository(db))

	classroomHandler := classroomhandlers.NewClassroomHandler(classroomSvc)
	quizHandler := NewQuizHandler(quizSvc, progressSvc, classroomSvc)

	auth := middleware.NewAuthManager("test-secret", time.Hour)
	adminToken, err := auth.IssueToken(admin.ID, usermodels.RoleAdmin)
	require.NoError(t, err)
	learnerToken, err := auth.IssueToken(learner.ID, usermodels.RoleLearner)
	require.NoError(t, err)

	router := gin.New()
	v1 := router.Group("/api/v1", auth.AuthRequired())
	adminGroup := v1.Group("/admin", middleware.RoleRequired(usermodels.RoleAdmin))
	adminGroup.POST("/classrooms", classroomHandler.CreateClassroom)
	adminGroup.POST("/classrooms/:classroomId/course-sections", classroomHandler.CreateSection)
	adminGroup.POST("/classrooms/:classroomId/course-sections/:sectionId/slides", classroomHandler.CreateSlide)
	adminGroup.POST("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/generate-questions", quizHandler.GenerateQuestions)
	adminGroup.GET("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/questions", quizHandler.ListQuestions)
	adminGroup.PUT("/classrooms/:classroomId/questions/:questionId", quizHandler.ReviewQuestion)
	learnerGroup := v1.Group("/learner", middleware.RoleRequired(usermodels.RoleLearner))
	learnerGroup.POST("/classrooms/join", classroomHandler.JoinClassroom)
	learnerGroup.GET("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/test", quizHandler.ServeTest)
	learnerGroup.POST("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/submit-test", quizHandler.SubmitTest)
	learnerGroup.GET("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/progress", quizHandler.GetProgress)

	return &testEnv{router: router, db: db, adminToken: adminToken, learnerToken: learnerToken}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// buildSlide walks the admin flow up to a slide with a generated question set
// and an enrolled learner.
func buildSlide(t *testing.T, env *testEnv) (classroomID, sectionID, slideID string) {
	w := env.do(t, "POST", "/api/v1/admin/classrooms", env.adminToken, gin.H{"name": "Concurrency"})
	require.Equal(t, http.StatusCreated, w.Code)
	var classroom struct {
		ID       string `json:"classroom_id"`
		JoinCode string `json:"join_code"`
	}
	decode(t, w, &classroom)

	w = env.do(t, "POST", "/api/v1/learner/classrooms/join", env.learnerToken, gin.H{"join_code": classroom.JoinCode})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "POST", fmt.Sprintf("/api/v1/admin/classrooms/%s/course-sections", classroom.ID), env.adminToken, gin.H{"course_title": "Threads"})
	require.Equal(t, http.StatusCreated, w.Code)
	var section struct {
		ID string `json:"course_section_id"`
	}
	decode(t, w, &section)

	w = env.do(t, "POST", fmt.Sprintf("/api/v1/admin/classrooms/%s/course-sections/%s/slides", classroom.ID, section.ID), env.adminToken, gin.H{
		"slide_name":   "Locking",
		"slide_number": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var slide struct {
		ID string `json:"slide_id"`
	}
	decode(t, w, &slide)

	w = env.do(t, "POST", fmt.Sprintf("/api/v1/admin/classrooms/%s/course-sections/%s/slides/%s/generate-questions", classroom.ID, section.ID, slide.ID), env.adminToken, gin.H{
		"slide_content": "Mutexes, semaphores and deadlock.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	return classroom.ID, section.ID, slide.ID
}

func TestQuizFlow_GenerateServeSubmit(t *testing.T) {
	env := setupEnv(t)
	classroomID, sectionID, slideID := buildSlide(t, env)

	// Served test hides answers and carries the option mapping.
	w := env.do(t, "GET", fmt.Sprintf("/api/v1/learner/classrooms/%s/course-sections/%s/slides/%s/test", classroomID, sectionID, slideID), env.learnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var test struct {
		Count     int `json:"count"`
		Questions []struct {
			QuestionID    string   `json:"question_id"`
			QuestionText  string   `json:"question_text"`
			Options       []string `json:"options"`
			OptionMapping []int    `json:"option_mapping"`
		} `json:"questions"`
	}
	decode(t, w, &test)
	require.Equal(t, 3, test.Count)
	assert.NotContains(t, w.Body.String(), "correct_answer")

	// Answer everything correctly by reading the stored rows directly.
	var stored []quizmodels.Question
	require.NoError(t, env.db.Where("slide_id = ?", slideID).Find(&stored).Error)
	answers := make([]gin.H, len(stored))
	for i, q := range stored {
		answers[i] = gin.H{"question_id": q.ID, "selected_option": q.CorrectAnswer}
	}

	w = env.do(t, "POST", fmt.Sprintf("/api/v1/learner/classrooms/%s/course-sections/%s/slides/%s/submit-test", classroomID, sectionID, slideID), env.learnerToken, gin.H{"answers": answers})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		CurrentScore float64 `json:"current_score"`
	}
	decode(t, w, &result)
	assert.Equal(t, float64(100), result.CurrentScore)

	// Progress reflects the single perfect attempt.
	w = env.do(t, "GET", fmt.Sprintf("/api/v1/learner/classrooms/%s/course-sections/%s/slides/%s/progress", classroomID, sectionID, slideID), env.learnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		HighestScore      float64 `json:"highest_score"`
		ImprovementNeeded bool    `json:"improvement_needed"`
	}
	decode(t, w, &summary)
	assert.Equal(t, float64(100), summary.HighestScore)
	assert.False(t, summary.ImprovementNeeded)
}

func TestQuizFlow_ReviewRejectedQuestionExcluded(t *testing.T) {
	env := setupEnv(t)
	classroomID, sectionID, slideID := buildSlide(t, env)

	var stored []quizmodels.Question
	require.NoError(t, env.db.Where("slide_id = ?", slideID).Find(&stored).Error)
	require.Len(t, stored, 3)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/admin/classrooms/%s/questions/%s", classroomID, stored[0].ID), env.adminToken, gin.H{
		"status": quizmodels.StatusRejected,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", fmt.Sprintf("/api/v1/learner/classrooms/%s/course-sections/%s/slides/%s/test", classroomID, sectionID, slideID), env.learnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var test struct {
		Count int `json:"count"`
	}
	decode(t, w, &test)
	assert.Equal(t, 2, test.Count)
}

func TestQuizRoutes_EnforceRolesAndMembership(t *testing.T) {
	env := setupEnv(t)
	classroomID, sectionID, slideID := buildSlide(t, env)

	// Learners cannot hit the generation route.
	w := env.do(t, "POST", fmt.Sprintf("/api/v1/admin/classrooms/%s/course-sections/%s/slides/%s/generate-questions", classroomID, sectionID, slideID), env.learnerToken, gin.H{
		"slide_content": "anything",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A learner outside the classroom cannot take the test.
	outsider := usermodels.User{Username: "mallory", Email: "mallory@example.com", Role: usermodels.RoleLearner, Level: usermodels.LevelBeginner}
	require.NoError(t, env.db.Create(&outsider).Error)
	outsiderToken, err := middleware.NewAuthManager("test-secret", time.Hour).IssueToken(outsider.ID, usermodels.RoleLearner)
	require.NoError(t, err)

	w = env.do(t, "GET", fmt.Sprintf("/api/v1/learner/classrooms/%s/course-sections/%s/slides/%s/test", classroomID, sectionID, slideID), outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown classroom id in the path is a validation error.
	w = env.do(t, "GET", fmt.Sprintf("/api/v1/learner/classrooms/not-a-uuid/course-sections/%s/slides/%s/test", sectionID, slideID), env.learnerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
