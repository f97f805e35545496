package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/testutils"
)

func sampleQuestion() domain.Question {
	return domain.Question{
		ID:               "q1",
		Text:             "How do goroutines differ from OS threads?",
		Type:             domain.QuestionTechnical,
		Difficulty:       domain.DifficultyIntermediate,
		ExpectedKeywords: []string{"scheduler", "stack", "runtime"},
	}
}

func TestNewLLMTextAnalyzerRequiresClient(t *testing.T) {
	_, err := NewLLMTextAnalyzer(nil)
	require.Error(t, err, "nil client should be rejected")
}

func TestAnalyzeTextParsesScores(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	analyzer, err := NewLLMTextAnalyzer(client)
	require.NoError(t, err, "analyzer should build")

	analysis, err := analyzer.AnalyzeText(context.Background(), sampleQuestion(),
		"Goroutines are scheduled by the runtime onto OS threads.")
	require.NoError(t, err, "analysis should succeed")

	assert.InDelta(t, 0.8, analysis.Technical, 1e-9, "technical score should parse")
	assert.InDelta(t, 0.3, analysis.Sentiment, 1e-9, "sentiment score should parse")
	assert.InDelta(t, 0.7, analysis.Confidence, 1e-9, "confidence score should parse")
}

func TestAnalyzeTextHandlesFencedResponses(t *testing.T) {
	fenced := testutils.NewMockLLMClient("test-model")
	fenced.AddResponse(testutils.MockResponse{
		Pattern: "",
		Response: "Here are the scores:\n```json\n" +
			`{"technical_score": 0.6, "sentiment_score": -0.2, "confidence_score": 0.4,` +
			` "relevance_score": 0.5, "clarity_score": 0.5}` + "\n```",
	})
	analyzer, err := NewLLMTextAnalyzer(fenced)
	require.NoError(t, err, "analyzer should build")

	q := sampleQuestion()
	q.Text = "completely unmatched prompt text"
	analysis, err := analyzer.AnalyzeText(context.Background(), q, "some answer")
	require.NoError(t, err, "fenced JSON should still parse")
	assert.InDelta(t, -0.2, analysis.Sentiment, 1e-9, "negative sentiment should parse")
}

func TestAnalyzeTextSurfacesCallErrors(t *testing.T) {
	client := testutils.NewMockLLMClient("test-model")
	client.FailWith(errors.New("provider down"))
	analyzer, err := NewLLMTextAnalyzer(client)
	require.NoError(t, err, "analyzer should build")

	_, err = analyzer.AnalyzeText(context.Background(), sampleQuestion(), "an answer")
	require.Error(t, err, "call failures should surface to the scoring loop")
	assert.Contains(t, err.Error(), "text analysis call", "error should name the stage")
}

func TestAnalyzeTextRejectsOutOfRangeScores(t *testing.T) {
	bad := testutils.NewMockLLMClient("test-model")
	bad.AddResponse(testutils.MockResponse{
		Pattern: "Analyze this interview response",
		Response: `{"technical_score": 1.7, "sentiment_score": 0.0, "confidence_score": 0.5,` +
			` "relevance_score": 0.5, "clarity_score": 0.5}`,
	})
	analyzer, err := NewLLMTextAnalyzer(bad)
	require.NoError(t, err, "analyzer should build")

	_, err = analyzer.AnalyzeText(context.Background(), sampleQuestion(), "an answer")
	require.Error(t, err, "scores outside the schema should be rejected")
	assert.Contains(t, err.Error(), "out of range", "error should name the violation")
}
