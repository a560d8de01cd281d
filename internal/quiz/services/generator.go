package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/genai"
	"github.com/architect/classroom-backend/internal/quiz/models"
)

// GeneratedQuestion is the strict shape the upstream generator must return
// for every item of its JSON array.
type GeneratedQuestion struct {
	QuestionText    string   `json:"question_text"`
	Options         []string `json:"options"`
	CorrectAnswer   int      `json:"correct_answer"`
	QuestionType    string   `json:"question_type"`
	DifficultyLevel string   `json:"difficulty_level"`
}

const generationPromptTemplate = `IMPORTANT: Provide ONLY a valid JSON array. Do not include any explanatory text before or after.

Generate 25 multiple choice questions based on the following structured slide content.
Ensure questions cover different aspects and difficulty levels.

Generate questions in this EXACT JSON format:
[
  {
    "question_text": "Precise question about the content",
    "options": ["option A", "option B", "option C", "option D"],
    "correct_answer": 0,
    "question_type": "definition",
    "difficulty_level": "medium"
  }
]

Slide %d content: %s

JSON ARRAY:`

// QuestionGenerator turns slide content into a validated question batch via
// the content-generation collaborator. Malformed or empty upstream output is
// a GenerationError; no partial batches are ever returned.
type QuestionGenerator struct {
	client genai.Client
}

func NewQuestionGenerator(client genai.Client) *QuestionGenerator {
	return &QuestionGenerator{client: client}
}

func (g *QuestionGenerator) Generate(ctx context.Context, slideContent string, slideNumber int) ([]GeneratedQuestion, error) {
	prompt := fmt.Sprintf(generationPromptTemplate, slideNumber, slideContent)

	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, errors.Generation(err.Error())
	}

	payload, ok := extractJSONArray(raw)
	if !ok {
		return nil, errors.Generation("no valid JSON array found in response")
	}

	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		return nil, errors.Generation("malformed JSON array: " + err.Error())
	}
	if len(questions) == 0 {
		return nil, errors.Generation("generator returned an empty question set")
	}

	for i := range questions {
		if err := validateGenerated(&questions[i]); err != nil {
			return nil, errors.Generation(fmt.Sprintf("question %d: %v", i, err))
		}
	}

	return questions, nil
}

// extractJSONArray pulls the outermost JSON array out of model output that
// may carry stray prose around it.
func extractJSONArray(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func validateGenerated(q *GeneratedQuestion) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) != models.OptionsPerQuestion {
		return fmt.Errorf("expected %d options, got %d", models.OptionsPerQuestion, len(q.Options))
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("empty option string")
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correct_answer %d out of range", q.CorrectAnswer)
	}

	if q.QuestionType == "" {
		q.QuestionType = "general"
	}
	switch q.DifficultyLevel {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		q.DifficultyLevel = models.DifficultyMedium
	}
	return nil
}
