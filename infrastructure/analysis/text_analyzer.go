// Package analysis implements the engine's language-facing ports on top
// of the unified LLM client: transcript scoring, question generation,
// and job-requirement extraction. A deterministic keyword analyzer is
// included for offline use.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

const (
	// analysisTemperature keeps scoring consistent across calls.
	analysisTemperature = 0.0
	analysisMaxTokens   = 256
)

var _ ports.TextAnalyzer = (*LLMTextAnalyzer)(nil)

// LLMTextAnalyzer scores transcripts by asking an LLM to rate technical
// accuracy, sentiment, and confidence against the question's rubric.
type LLMTextAnalyzer struct {
	client   ports.LLMClient
	validate *validator.Validate
}

// textAnalysisResponse is the JSON schema the analysis prompt asks for.
// Relevance and clarity are requested to anchor the model's scoring but
// only the three engine axes are consumed.
type textAnalysisResponse struct {
	TechnicalScore  float64 `json:"technical_score" validate:"min=0,max=1"`
	SentimentScore  float64 `json:"sentiment_score" validate:"min=-1,max=1"`
	ConfidenceScore float64 `json:"confidence_score" validate:"min=0,max=1"`
	RelevanceScore  float64 `json:"relevance_score" validate:"min=0,max=1"`
	ClarityScore    float64 `json:"clarity_score" validate:"min=0,max=1"`
}

// NewLLMTextAnalyzer builds an analyzer on the given LLM client.
func NewLLMTextAnalyzer(client ports.LLMClient) (*LLMTextAnalyzer, error) {
	if client == nil {
		return nil, fmt.Errorf("LLM client cannot be nil")
	}
	return &LLMTextAnalyzer{client: client, validate: validator.New()}, nil
}

// AnalyzeText scores a transcript against the question. Failures are
// returned to the caller, which retries once and then degrades to a
// neutral answer.
func (a *LLMTextAnalyzer) AnalyzeText(ctx context.Context, question domain.Question, transcript string) (ports.TextAnalysis, error) {
	var buf bytes.Buffer
	err := textAnalysisPrompt.Execute(&buf, struct {
		Question   string
		Transcript string
		Keywords   string
	}{
		Question:   question.Text,
		Transcript: transcript,
		Keywords:   strings.Join(question.ExpectedKeywords, ", "),
	})
	if err != nil {
		return ports.TextAnalysis{}, fmt.Errorf("execute analysis prompt: %w", err)
	}

	response, err := a.client.Complete(ctx, buf.String(), map[string]any{
		"temperature": analysisTemperature,
		"max_tokens":  analysisMaxTokens,
	})
	if err != nil {
		return ports.TextAnalysis{}, fmt.Errorf("text analysis call: %w", err)
	}

	jsonStr := extractJSONObject(response)
	if jsonStr == "" {
		return ports.TextAnalysis{}, fmt.Errorf("no JSON object in analysis response (%d chars)", len(response))
	}

	var parsed textAnalysisResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return ports.TextAnalysis{}, fmt.Errorf("parse analysis response: %w", err)
	}
	if err := a.validate.Struct(parsed); err != nil {
		return ports.TextAnalysis{}, fmt.Errorf("analysis scores out of range: %w", err)
	}

	return ports.TextAnalysis{
		Technical:  parsed.TechnicalScore,
		Sentiment:  parsed.SentimentScore,
		Confidence: parsed.ConfidenceScore,
	}, nil
}
