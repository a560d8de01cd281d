package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/architect/classroom-backend/internal/quiz/models"
	"github.com/architect/classroom-backend/internal/quiz/repository"
)

// seedAttempts inserts one attempt per score, oldest first, one day apart.
func seedAttempts(t *testing.T, db *gorm.DB, userID uint, slideID uuid.UUID, scores ...float64) {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, score := range scores {
		attempt := &models.SlideQuestionAttempt{
			UserID:      userID,
			SlideID:     slideID,
			SectionID:   uuid.New(),
			ClassroomID: uuid.New(),
			QuestionsAttempted: datatypes.NewJSONType([]models.ScoredAnswer{
				{
					QuestionID:   uuid.New(),
					QuestionText: "What is a pointer?",
					IsCorrect:    score >= 50,
				},
				{
					QuestionID:   uuid.New(),
					QuestionText: "What is an interface?",
					IsCorrect:    false,
				},
			}),
			Score:       score,
			CompletedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}
		require.NoError(t, db.Create(attempt).Error)
	}
}

func TestAnalyze_NoAttempts(t *testing.T) {
	db := newQuizTestDB(t)
	svc := NewProgressService(repository.NewAttemptRepository(db))

	summary, err := svc.Analyze(context.Background(), 1, uuid.New())
	require.NoError(t, err)

	assert.Empty(t, summary.Attempts)
	assert.True(t, summary.ImprovementNeeded)
	assert.Equal(t, models.TrendNotEnoughData, summary.Trend)
	assert.Contains(t, summary.Message, "No attempts recorded yet")
}

func TestAnalyze_SingleAttempt(t *testing.T) {
	db := newQuizTestDB(t)
	slideID := uuid.New()
	seedAttempts(t, db, 1, slideID, 75)

	svc := NewProgressService(repository.NewAttemptRepository(db))
	summary, err := svc.Analyze(context.Background(), 1, slideID)
	require.NoError(t, err)

	assert.Equal(t, models.TrendNotEnoughData, summary.Trend)
	assert.Equal(t, float64(75), summary.AverageScore)
	assert.False(t, summary.ImprovementNeeded)
}

func TestAnalyze_ImprovingTrend(t *testing.T) {
	db := newQuizTestDB(t)
	slideID := uuid.New()
	seedAttempts(t, db, 1, slideID, 40, 55, 70, 85)

	svc := NewProgressService(repository.NewAttemptRepository(db))
	summary, err := svc.Analyze(context.Background(), 1, slideID)
	require.NoError(t, err)

	assert.Equal(t, models.TrendImproving, summary.Trend)
	assert.Equal(t, float64(85), summary.HighestScore)
	assert.Equal(t, float64(40), summary.LowestScore)
	assert.False(t, summary.ImprovementNeeded)
}

func TestAnalyze_DecliningTrend(t *testing.T) {
	db := newQuizTestDB(t)
	slideID := uuid.New()
	seedAttempts(t, db, 1, slideID, 90, 70, 50)

	svc := NewProgressService(repository.NewAttemptRepository(db))
	summary, err := svc.Analyze(context.Background(), 1, slideID)
	require.NoError(t, err)

	assert.Equal(t, models.TrendDeclining, summary.Trend)
	// Latest below passing.
	assert.True(t, summary.ImprovementNeeded)
}

func TestAnalyze_WindowLimitedToFiveNewest(t *testing.T) {
	db := newQuizTestDB(t)
	slideID := uuid.New()
	// Seven attempts; the analyzer must only see the newest five (30..70).
	seedAttempts(t, db, 1, slideID, 10, 20, 30, 40, 50, 60, 70)

	svc := NewProgressService(repository.NewAttemptRepository(db))
	summary, err := svc.Analyze(context.Background(), 1, slideID)
	require.NoError(t, err)

	require.Len(t, summary.Attempts, 5)
	assert.Equal(t, float64(70), summary.Attempts[0].Score)
	assert.Equal(t, float64(30), summary.Attempts[4].Score)
	assert.Equal(t, float64(50), summary.AverageScore)
	assert.Equal(t, models.TrendImproving, summary.Trend)
}

func TestAnalyze_WeakAverageListsMissedQuestions(t *testing.T) {
	db := newQuizTestDB(t)
	slideID := uuid.New()
	seedAttempts(t, db, 1, slideID, 30, 40)

	svc := NewProgressService(repository.NewAttemptRepository(db))
	summary, err := svc.Analyze(context.Background(), 1, slideID)
	require.NoError(t, err)

	assert.Contains(t, summary.Recommendation, "we recommend reviewing the following topics")
	assert.Contains(t, summary.Recommendation, "What is a pointer?")
}

func TestAnalyze_StrongAverageCongratulates(t *testing.T) {
	db := newQuizTestDB(t)
	slideID := uuid.New()
	seedAttempts(t, db, 1, slideID, 85, 90)

	svc := NewProgressService(repository.NewAttemptRepository(db))
	summary, err := svc.Analyze(context.Background(), 1, slideID)
	require.NoError(t, err)

	assert.Contains(t, summary.Recommendation, "Great work!")
	assert.Equal(t, models.TrendImproving, summary.Trend)
}

func TestAnalyze_IgnoresOtherUsersAndSlides(t *testing.T) {
	db := newQuizTestDB(t)
	slideID := uuid.New()
	seedAttempts(t, db, 1, slideID, 80)
	seedAttempts(t, db, 2, slideID, 20)
	seedAttempts(t, db, 1, uuid.New(), 10)

	svc := NewProgressService(repository.NewAttemptRepository(db))
	summary, err := svc.Analyze(context.Background(), 1, slideID)
	require.NoError(t, err)

	require.Len(t, summary.Attempts, 1)
	assert.Equal(t, float64(80), summary.Attempts[0].Score)
}
