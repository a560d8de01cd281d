package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/internal/quiz/models"
)

// stubClient returns a canned completion or error.
type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

const validBatch = `[
  {"question_text": "What is a goroutine?", "options": ["A thread", "A lightweight process", "A channel", "A mutex"], "correct_answer": 1, "question_type": "definition", "difficulty_level": "medium"},
  {"question_text": "What does the select statement do?", "options": ["Loops", "Waits on channels", "Sorts", "Panics"], "correct_answer": 1, "question_type": "conceptual", "difficulty_level": "hard"}
]`

func TestGenerate_ValidBatch(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{response: validBatch})

	questions, err := gen.Generate(context.Background(), "slide content", 1)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "What is a goroutine?", questions[0].QuestionText)
	assert.Equal(t, 1, questions[0].CorrectAnswer)
}

func TestGenerate_StripsSurroundingProse(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{
		response: "Here are your questions:\n" + validBatch + "\nHope that helps!",
	})

	questions, err := gen.Generate(context.Background(), "slide content", 1)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestGenerate_NoJSONArray(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{response: "I cannot generate questions for this."})

	_, err := gen.Generate(context.Background(), "slide content", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
}

func TestGenerate_MalformedJSON(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{response: `[{"question_text": "broken"`})

	_, err := gen.Generate(context.Background(), "slide content", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
}

func TestGenerate_EmptyArray(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{response: "[]"})

	_, err := gen.Generate(context.Background(), "slide content", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
}

func TestGenerate_WrongOptionCount(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{
		response: `[{"question_text": "Q", "options": ["a", "b"], "correct_answer": 0}]`,
	})

	_, err := gen.Generate(context.Background(), "slide content", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
}

func TestGenerate_AnswerIndexOutOfRange(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{
		response: `[{"question_text": "Q", "options": ["a", "b", "c", "d"], "correct_answer": 4}]`,
	})

	_, err := gen.Generate(context.Background(), "slide content", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{err: assert.AnError})

	_, err := gen.Generate(context.Background(), "slide content", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
}

func TestGenerate_DefaultsTypeAndDifficulty(t *testing.T) {
	gen := NewQuestionGenerator(&stubClient{
		response: `[{"question_text": "Q", "options": ["a", "b", "c", "d"], "correct_answer": 2, "difficulty_level": "impossible"}]`,
	})

	questions, err := gen.Generate(context.Background(), "slide content", 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "general", questions[0].QuestionType)
	assert.Equal(t, models.DifficultyMedium, questions[0].DifficultyLevel)
}
