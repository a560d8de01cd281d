package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/common/metrics"
	"github.com/architect/classroom-backend/internal/quiz/models"
	"github.com/architect/classroom-backend/internal/quiz/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizService owns the per-slide question-set lifecycle: generate/regenerate,
// serve a shuffled test, and score submissions. Scoring never grants XP;
// gamification policy belongs to the caller.
type QuizService struct {
	questions repository.QuestionRepository
	attempts  repository.AttemptRepository
	generator *QuestionGenerator
	now       func() time.Time
}

func NewQuizService(questions repository.QuestionRepository, attempts repository.AttemptRepository, generator *QuestionGenerator) *QuizService {
	return &QuizService{
		questions: questions,
		attempts:  attempts,
		generator: generator,
		now:       time.Now,
	}
}

// GenerateQuestions builds a fresh question set for the slide and atomically
// replaces the existing one. The upstream call completes and validates before
// any write happens, so a generation failure leaves the prior set untouched.
func (s *QuizService) GenerateQuestions(ctx context.Context, scope models.SlideScope, slideContent string, slideNumber int) ([]*models.Question, error) {
	if slideContent == "" {
		return nil, errors.BadRequest("slide content is required")
	}
	if slideNumber <= 0 {
		return nil, errors.BadRequest("slide number must be a positive integer")
	}

	generated, err := s.generator.Generate(ctx, slideContent, slideNumber)
	if err != nil {
		metrics.GenerationFailures.Inc()
		return nil, err
	}

	questions := make([]*models.Question, len(generated))
	for i, g := range generated {
		questions[i] = &models.Question{
			SlideID:         scope.SlideID,
			SectionID:       scope.SectionID,
			ClassroomID:     scope.ClassroomID,
			SlideNumber:     slideNumber,
			QuestionText:    g.QuestionText,
			Options:         datatypes.JSONSlice[string](g.Options),
			CorrectAnswer:   g.CorrectAnswer,
			QuestionType:    g.QuestionType,
			DifficultyLevel: g.DifficultyLevel,
			Status:          models.StatusPendingReview,
		}
	}

	if err := s.questions.ReplaceForSlide(ctx, scope, questions); err != nil {
		return nil, err
	}

	metrics.QuestionsGenerated.Add(float64(len(questions)))
	return questions, nil
}

// ServeTest returns a transient shuffled view of the slide's question set:
// option order is shuffled per question with a mapping back to original
// indices, question order is shuffled, and the set is capped. Persisted rows
// are never mutated; every call reshuffles.
func (s *QuizService) ServeTest(ctx context.Context, scope models.SlideScope) ([]*models.ShuffledQuestion, error) {
	stored, err := s.questions.ForSlide(ctx, scope, []string{models.StatusApproved, models.StatusPendingReview})
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, errors.NotFound("questions for this slide")
	}

	shuffled := make([]*models.ShuffledQuestion, len(stored))
	for i, q := range stored {
		shuffled[i] = shuffleOptions(q)
	}

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if len(shuffled) > models.MaxTestQuestions {
		shuffled = shuffled[:models.MaxTestQuestions]
	}
	return shuffled, nil
}

// ListQuestions returns a slide's full question set, every status included,
// with answers visible. Intended for the admin review surface.
func (s *QuizService) ListQuestions(ctx context.Context, scope models.SlideScope) ([]*models.Question, error) {
	statuses := []string{models.StatusApproved, models.StatusPendingReview, models.StatusRejected}
	return s.questions.ForSlide(ctx, scope, statuses)
}

// DeleteQuestions drops the slide's entire question set without generating a
// replacement. Past attempts keep their snapshots and are unaffected.
func (s *QuizService) DeleteQuestions(ctx context.Context, scope models.SlideScope) error {
	return s.questions.ReplaceForSlide(ctx, scope, nil)
}

// shuffleOptions builds the per-request option view. mapping[i] holds the
// original index of the option displayed at position i, letting the client
// translate a pick back to the authoritative correct_answer index.
func shuffleOptions(q *models.Question) *models.ShuffledQuestion {
	perm := rand.Perm(len(q.Options))
	options := make([]string, len(q.Options))
	mapping := make([]int, len(q.Options))
	for shuffledPos, originalIdx := range perm {
		options[shuffledPos] = q.Options[originalIdx]
		mapping[shuffledPos] = originalIdx
	}
	return &models.ShuffledQuestion{
		QuestionID:    q.ID,
		QuestionText:  q.QuestionText,
		Options:       options,
		OptionMapping: mapping,
	}
}

// ScoreSubmission scores answers against the authoritative question rows and
// persists one immutable attempt. Unknown question ids are dropped; a
// submission with zero valid answers is rejected outright.
func (s *QuizService) ScoreSubmission(ctx context.Context, scope models.SlideScope, userID uint, answers []models.SubmittedAnswer) (*models.ScoredResult, error) {
	if len(answers) == 0 {
		return nil, errors.Validation("invalid user answers format", "answers array is empty")
	}

	ids := make([]uuid.UUID, len(answers))
	for i, a := range answers {
		ids[i] = a.QuestionID
	}

	stored, err := s.questions.ByIDs(ctx, scope, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Question, len(stored))
	for _, q := range stored {
		byID[q.ID] = q
	}

	scored := make([]models.ScoredAnswer, 0, len(answers))
	correct := 0
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			// Referential miss on a single answer is skipped, not fatal.
			continue
		}

		isCorrect := answer.SelectedOption == question.CorrectAnswer
		if isCorrect {
			correct++
		}

		scored = append(scored, models.ScoredAnswer{
			QuestionID:         question.ID,
			QuestionText:       question.QuestionText,
			UserSelectedOption: answer.SelectedOption,
			CorrectAnswer:      question.CorrectAnswer,
			CorrectOption:      question.Options[question.CorrectAnswer],
			IsCorrect:          isCorrect,
			Options:            []string(question.Options),
		})
	}

	if len(scored) == 0 {
		return nil, errors.Validation("no valid answers could be processed", "")
	}

	score := float64(correct) / float64(len(scored)) * 100

	attempt := &models.SlideQuestionAttempt{
		UserID:             userID,
		SlideID:            scope.SlideID,
		SectionID:          scope.SectionID,
		ClassroomID:        scope.ClassroomID,
		QuestionsAttempted: datatypes.NewJSONType(scored),
		Score:              score,
		CompletedAt:        s.now().UTC(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	metrics.QuizSubmissions.Inc()
	return &models.ScoredResult{
		AttemptID:     attempt.ID,
		Score:         score,
		ScoredAnswers: scored,
	}, nil
}

// ReviewQuestion applies an admin review update (status, feedback, text or
// option edits) to one question.
func (s *QuizService) ReviewQuestion(ctx context.Context, classroomID, questionID uuid.UUID, update QuestionReview) (*models.Question, error) {
	question, err := s.questions.GetByID(ctx, classroomID, questionID)
	if err != nil {
		return nil, err
	}

	if update.QuestionText != nil {
		question.QuestionText = *update.QuestionText
	}
	if update.Options != nil {
		if len(update.Options) != models.OptionsPerQuestion {
			return nil, errors.BadRequest("questions carry exactly four options")
		}
		question.Options = datatypes.JSONSlice[string](update.Options)
	}
	if update.CorrectAnswer != nil {
		if *update.CorrectAnswer < 0 || *update.CorrectAnswer >= len(question.Options) {
			return nil, errors.BadRequest("correct answer index out of range")
		}
		question.CorrectAnswer = *update.CorrectAnswer
	}
	if update.Status != nil {
		switch *update.Status {
		case models.StatusPendingReview, models.StatusApproved, models.StatusRejected:
			question.Status = *update.Status
		default:
			return nil, errors.BadRequest("invalid question status")
		}
	}
	if update.Feedback != nil {
		question.Feedback = *update.Feedback
	}

	if err := s.questions.Update(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// QuestionReview carries the optional fields of a review update.
type QuestionReview struct {
	QuestionText  *string  `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer"`
	Status        *string  `json:"status"`
	Feedback      *string  `json:"feedback"`
}
