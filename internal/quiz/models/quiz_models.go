package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question statuses
const (
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
)

// Difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// OptionsPerQuestion is the fixed option count the generator must return.
const OptionsPerQuestion = 4

// MaxTestQuestions caps how many questions one served test contains.
const MaxTestQuestions = 25

// SlideScope is the identity triple the quiz engine operates on.
type SlideScope struct {
	ClassroomID uuid.UUID
	SectionID   uuid.UUID
	SlideID     uuid.UUID
}

// Question is one quiz item. A slide has at most one active question set:
// regeneration replaces the whole set.
type Question struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:question_id" json:"question_id"`
	SlideID     uuid.UUID `gorm:"type:uuid;not null;index" json:"slide_id"`
	SectionID   uuid.UUID `gorm:"type:uuid;not null;column:course_section_id" json:"course_section_id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null" json:"classroom_id"`
	SlideNumber int       `gorm:"not null" json:"slide_number"`

	QuestionText string                      `gorm:"not null" json:"question_text"`
	Options      datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	// Index into Options; always valid for a persisted row.
	CorrectAnswer   int    `gorm:"not null" json:"correct_answer"`
	QuestionType    string `gorm:"size:50;not null" json:"question_type"`
	DifficultyLevel string `gorm:"size:20;not null;default:medium" json:"difficulty_level"`
	Status          string `gorm:"size:20;not null;default:pending_review" json:"status"`
	Feedback        string `json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string { return "questions" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// ScoredAnswer is the denormalized per-question snapshot embedded in an
// attempt, kept interpretable even if the question row is later edited or
// deleted.
type ScoredAnswer struct {
	QuestionID         uuid.UUID `json:"question_id"`
	QuestionText       string    `json:"question_text"`
	UserSelectedOption int       `json:"user_selected_option"`
	CorrectAnswer      int       `json:"correct_answer"`
	CorrectOption      string    `json:"correct_option"`
	IsCorrect          bool      `json:"is_correct"`
	Options            []string  `json:"options"`
}

// SlideQuestionAttempt is one immutable record of a learner's submission for
// one slide's question set.
type SlideQuestionAttempt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:attempt_id" json:"attempt_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	SlideID     uuid.UUID `gorm:"type:uuid;not null;index" json:"slide_id"`
	SectionID   uuid.UUID `gorm:"type:uuid;not null;column:course_section_id" json:"course_section_id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null" json:"classroom_id"`

	QuestionsAttempted datatypes.JSONType[[]ScoredAnswer] `gorm:"not null" json:"questions_attempted"`
	Score              float64                            `gorm:"not null" json:"score"`
	CompletedAt        time.Time                          `gorm:"not null;index" json:"completed_at"`
}

func (SlideQuestionAttempt) TableName() string { return "slide_question_attempts" }

func (a *SlideQuestionAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ShuffledQuestion is the transient per-request view served to a test taker.
// OptionMapping[i] is the original index of the option shown at position i.
type ShuffledQuestion struct {
	QuestionID    uuid.UUID `json:"question_id"`
	QuestionText  string    `json:"question_text"`
	Options       []string  `json:"options"`
	OptionMapping []int     `json:"option_mapping"`
}

// SubmittedAnswer carries one answer with selected_option already mapped back
// to the original option index by the client.
type SubmittedAnswer struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedOption int       `json:"selected_option"`
}

// ScoredResult is returned after a submission is scored and persisted.
type ScoredResult struct {
	AttemptID     uuid.UUID      `json:"attempt_id"`
	Score         float64        `json:"score"`
	ScoredAnswers []ScoredAnswer `json:"scored_answers"`
}

// PerformanceSummary is the progress analyzer's read-only view over the last
// attempts for one user/slide.
type PerformanceSummary struct {
	Attempts          []*SlideQuestionAttempt `json:"attempts"`
	AverageScore      float64                 `json:"average_score"`
	HighestScore      float64                 `json:"highest_score"`
	LowestScore       float64                 `json:"lowest_score"`
	Trend             string                  `json:"performance_trend"`
	ImprovementNeeded bool                    `json:"improvement_needed"`
	Message           string                  `json:"message"`
	Recommendation    string                  `json:"study_recommendation"`
}

// Trend classifications
const (
	TrendImproving     = "Improving"
	TrendDeclining     = "Declining"
	TrendStable        = "Stable"
	TrendNotEnoughData = "Not enough data"
)
