package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
	"github.com/candidly/interview-engine/internal/testutils"
)

func backendJob() domain.JobContext {
	return domain.JobContext{
		Title:           "Backend Engineer",
		Description:     "Design and operate Go services backed by Postgres.",
		KeySkills:       []string{"go", "postgres", "kubernetes", "grpc"},
		ExperienceLevel: domain.DifficultyAdvanced,
	}
}

func TestNewLLMQuestionSourceRequiresClient(t *testing.T) {
	_, err := NewLLMQuestionSource(nil, 0)
	require.Error(t, err, "nil client should be rejected")
}

func TestGeneratePoolParsesAndOrders(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	source, err := NewLLMQuestionSource(client, 0)
	require.NoError(t, err, "source should build")

	pool, err := source.GeneratePool(context.Background(), backendJob())
	require.NoError(t, err, "pool generation should succeed")
	require.Len(t, pool, 3, "every valid payload should become a question")

	assert.Equal(t, domain.DifficultyBeginner, pool[0].Difficulty,
		"pool should be ordered easiest first")
	assert.Equal(t, domain.DifficultyIntermediate, pool[1].Difficulty,
		"intermediate should follow beginner")
	assert.Equal(t, domain.DifficultyAdvanced, pool[2].Difficulty,
		"advanced should come last")
	for _, q := range pool {
		assert.Equal(t, domain.OriginPool, q.Origin, "pool questions carry the pool origin")
		assert.NotEmpty(t, q.ID, "every question needs an id")
	}
}

func TestGeneratePoolFallsBackOnCallFailure(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	client.FailWith(errors.New("provider down"))
	source, err := NewLLMQuestionSource(client, 0)
	require.NoError(t, err, "source should build")

	pool, err := source.GeneratePool(context.Background(), backendJob())
	require.NoError(t, err, "pool generation degrades instead of failing")
	assert.Equal(t, DefaultPool(), pool, "fallback should be the static default pool")
}

func TestGeneratePoolFallsBackOnGarbage(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	client.AddResponse(testutils.MockResponse{
		Pattern:  "diverse interview questions",
		Response: "I cannot produce JSON today.",
	})
	source, err := NewLLMQuestionSource(client, 0)
	require.NoError(t, err, "source should build")

	pool, err := source.GeneratePool(context.Background(), backendJob())
	require.NoError(t, err, "unparseable output degrades instead of failing")
	assert.Equal(t, DefaultPool(), pool, "fallback should be the static default pool")
}

func TestGeneratePoolSkipsInvalidItems(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	client.AddResponse(testutils.MockResponse{
		Pattern: "diverse interview questions",
		Response: `[
  {"id": "ok", "text": "A fine question?", "type": "technical", "difficulty": "beginner", "category": "T", "expected_keywords": ["a"]},
  {"id": "no_text", "type": "technical", "difficulty": "expert", "category": "T"}
]`,
	})
	source, err := NewLLMQuestionSource(client, 0)
	require.NoError(t, err, "source should build")

	pool, err := source.GeneratePool(context.Background(), backendJob())
	require.NoError(t, err, "pool generation should succeed")
	require.Len(t, pool, 1, "items without text should be dropped")
	assert.Equal(t, "ok", pool[0].ID, "the valid item should survive")
}

func TestGenerateContextual(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	source, err := NewLLMQuestionSource(client, 0)
	require.NoError(t, err, "source should build")

	req := ports.ContextualRequest{
		Job: backendJob(),
		History: []ports.Exchange{
			{Question: "Tell me about indexes.", Answer: "B-trees mostly."},
		},
		AskedIDs:    []string{"q1", "q2"},
		Performance: ports.PerformanceSnapshot{Technical: 0.9, Level: "high"},
		Difficulty:  domain.DifficultyExpert,
	}

	q, err := source.GenerateContextual(context.Background(), req)
	require.NoError(t, err, "contextual generation should succeed")

	assert.Equal(t, "ctx_1", q.ID, "generated id should parse")
	assert.Equal(t, domain.QuestionTechnical, q.Type, "type should parse")
	assert.Equal(t, domain.DifficultyExpert, q.Difficulty,
		"requested difficulty should override the model's")
	assert.Equal(t, domain.OriginGenerated, q.Origin, "origin should mark generation")
}

func TestGenerateContextualSurfacesFailures(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	client.FailWith(errors.New("provider down"))
	source, err := NewLLMQuestionSource(client, 0)
	require.NoError(t, err, "source should build")

	_, err = source.GenerateContextual(context.Background(), ports.ContextualRequest{Job: backendJob()})
	require.Error(t, err, "contextual failures surface so the selector can fall back")
}

func TestParseQuestionTypeNormalizes(t *testing.T) {
	tests := []struct {
		in   string
		want domain.QuestionType
	}{
		{in: "technical", want: domain.QuestionTechnical},
		{in: "Problem-Solving", want: domain.QuestionProblemSolving},
		{in: "problem solving", want: domain.QuestionProblemSolving},
		{in: "CULTURAL_FIT", want: domain.QuestionCulturalFit},
		{in: "situational", want: domain.QuestionSituational},
		{in: "riddle", want: domain.QuestionBehavioral},
		{in: "", want: domain.QuestionBehavioral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseQuestionType(tt.in),
			"type %q should normalize", tt.in)
	}
}
