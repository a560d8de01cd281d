package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/architect/classroom-backend/internal/quiz/models"
	"github.com/architect/classroom-backend/internal/quiz/repository"
	"github.com/google/uuid"
)

// progressWindow is how many recent attempts the analyzer considers.
const progressWindow = 5

// passingScore separates "needs improvement" from passing on the latest
// attempt.
const passingScore = 60

// ProgressService derives trend and recommendation summaries from attempt
// history. It is read-only and side-effect-free; calling it any number of
// times changes nothing.
type ProgressService struct {
	attempts repository.AttemptRepository
}

func NewProgressService(attempts repository.AttemptRepository) *ProgressService {
	return &ProgressService{attempts: attempts}
}

// Analyze summarizes the user's last attempts for the slide, newest first.
func (s *ProgressService) Analyze(ctx context.Context, userID uint, slideID uuid.UUID) (*models.PerformanceSummary, error) {
	attempts, err := s.attempts.LastForUserSlide(ctx, userID, slideID, progressWindow)
	if err != nil {
		return nil, err
	}

	if len(attempts) == 0 {
		return &models.PerformanceSummary{
			Attempts:          []*models.SlideQuestionAttempt{},
			ImprovementNeeded: true,
			Trend:             models.TrendNotEnoughData,
			Message:           "No attempts recorded yet. Try answering the slide questions to track your progress.",
			Recommendation:    "Start your learning journey with this slide!",
		}, nil
	}

	var sum, highest, lowest float64
	highest = attempts[0].Score
	lowest = attempts[0].Score
	for _, a := range attempts {
		sum += a.Score
		if a.Score > highest {
			highest = a.Score
		}
		if a.Score < lowest {
			lowest = a.Score
		}
	}
	average := sum / float64(len(attempts))
	latest := attempts[0].Score

	summary := &models.PerformanceSummary{
		Attempts:          attempts,
		AverageScore:      average,
		HighestScore:      highest,
		LowestScore:       lowest,
		Trend:             classifyTrend(attempts),
		ImprovementNeeded: latest < passingScore,
	}
	summary.Message = performanceMessage(latest)
	summary.Recommendation = studyRecommendation(average, attempts[0])
	return summary, nil
}

// classifyTrend compares the oldest score in the window to the newest.
func classifyTrend(attempts []*models.SlideQuestionAttempt) string {
	if len(attempts) < 2 {
		return models.TrendNotEnoughData
	}
	oldest := attempts[len(attempts)-1].Score
	newest := attempts[0].Score
	switch {
	case newest > oldest:
		return models.TrendImproving
	case newest < oldest:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func performanceMessage(latest float64) string {
	switch {
	case latest < passingScore:
		return "Your latest score is below 60%. Review the slide content before trying again."
	case latest >= 80:
		return "Great job! You're showing strong understanding of this slide's content."
	default:
		return "You're making progress. Continue reviewing the challenging concepts to improve your score."
	}
}

// studyRecommendation surfaces up to three missed question texts from the
// most recent attempt when the average is weak.
func studyRecommendation(average float64, latest *models.SlideQuestionAttempt) string {
	if average < 70 {
		var missed []string
		for _, answer := range latest.QuestionsAttempted.Data() {
			if answer.IsCorrect {
				continue
			}
			missed = append(missed, answer.QuestionText)
			if len(missed) == 3 {
				break
			}
		}

		var b strings.Builder
		b.WriteString("Based on your performance, we recommend reviewing the following topics:")
		if len(missed) == 0 {
			b.WriteString(" Review all slide content thoroughly.")
			return b.String()
		}
		for i, text := range missed {
			b.WriteString(fmt.Sprintf("\n%d. %s", i+1, text))
		}
		return b.String()
	}

	if average >= 80 {
		return "Great work! You're showing strong understanding of this slide's content. Consider exploring advanced topics."
	}
	return "You're making good progress. Continue practice to reinforce your understanding."
}
