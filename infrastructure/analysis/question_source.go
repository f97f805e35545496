package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

const (
	// DefaultPoolCount is the number of questions requested from the
	// pool generation prompt.
	DefaultPoolCount = 20

	generationTemperature = 0.7
	poolMaxTokens         = 4096
	contextualMaxTokens   = 512
)

var _ ports.QuestionSource = (*LLMQuestionSource)(nil)

// LLMQuestionSource generates the session pool and contextual follow-up
// questions through the LLM client. Pool generation degrades to a static
// default set when the call or its parsing fails; contextual failures
// surface to the caller, which has its own deterministic fallback.
type LLMQuestionSource struct {
	client ports.LLMClient
	count  int
}

// questionPayload is the JSON shape the generation prompts ask for.
type questionPayload struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	ExpectedKeywords []string `json:"expected_keywords"`
}

// NewLLMQuestionSource builds a question source on the given client.
// count caps the requested pool size; non-positive uses the default.
func NewLLMQuestionSource(client ports.LLMClient, count int) (*LLMQuestionSource, error) {
	if client == nil {
		return nil, fmt.Errorf("LLM client cannot be nil")
	}
	if count <= 0 {
		count = DefaultPoolCount
	}
	return &LLMQuestionSource{client: client, count: count}, nil
}

// GeneratePool synthesizes the initial question pool from the job
// posting. Items are validated individually and ordered easiest first;
// an unusable response yields the static default pool instead of an
// error, so session creation never fails on generation.
func (s *LLMQuestionSource) GeneratePool(ctx context.Context, job domain.JobContext) ([]domain.Question, error) {
	var buf bytes.Buffer
	err := poolPrompt.Execute(&buf, struct {
		Count       int
		Title       string
		Description string
	}{Count: s.count, Title: job.Title, Description: job.Description})
	if err != nil {
		return nil, fmt.Errorf("execute pool prompt: %w", err)
	}

	response, err := s.client.Complete(ctx, buf.String(), map[string]any{
		"temperature": generationTemperature,
		"max_tokens":  poolMaxTokens,
	})
	if err != nil {
		return DefaultPool(), nil
	}

	payloads, err := parseQuestionArray(response)
	if err != nil || len(payloads) == 0 {
		return DefaultPool(), nil
	}

	questions := make([]domain.Question, 0, len(payloads))
	for _, p := range payloads {
		q, ok := buildQuestion(p, domain.OriginPool)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return DefaultPool(), nil
	}

	// Easiest first, preserving generation order within a level.
	sort.SliceStable(questions, func(i, j int) bool {
		return domain.DifficultyRank(questions[i].Difficulty) < domain.DifficultyRank(questions[j].Difficulty)
	})
	return questions, nil
}

// GenerateContextual synthesizes one follow-up question conditioned on
// the conversation so far.
func (s *LLMQuestionSource) GenerateContextual(ctx context.Context, req ports.ContextualRequest) (domain.Question, error) {
	var buf bytes.Buffer
	err := contextualPrompt.Execute(&buf, struct {
		Title         string
		Description   string
		Technical     float64
		Communication float64
		Confidence    float64
		History       []ports.Exchange
		AskedIDs      string
		Difficulty    domain.Difficulty
	}{
		Title:         req.Job.Title,
		Description:   req.Job.Description,
		Technical:     req.Performance.Technical,
		Communication: req.Performance.Communication,
		Confidence:    req.Performance.Confidence,
		History:       req.History,
		AskedIDs:      strings.Join(lastN(req.AskedIDs, 5), ", "),
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("execute contextual prompt: %w", err)
	}

	response, err := s.client.Complete(ctx, buf.String(), map[string]any{
		"temperature": generationTemperature,
		"max_tokens":  contextualMaxTokens,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("contextual generation call: %w", err)
	}

	jsonStr := extractJSONObject(response)
	if jsonStr == "" {
		return domain.Question{}, fmt.Errorf("no JSON object in generation response (%d chars)", len(response))
	}

	var payload questionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return domain.Question{}, fmt.Errorf("parse generated question: %w", err)
	}

	q, ok := buildQuestion(payload, domain.OriginGenerated)
	if !ok {
		return domain.Question{}, fmt.Errorf("generated question missing required fields")
	}
	// Pin the difficulty the engine asked for; the model sometimes
	// drifts from the requested level.
	q.Difficulty = req.Difficulty
	return q, nil
}

func parseQuestionArray(response string) ([]questionPayload, error) {
	jsonStr := extractJSONArray(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array in pool response")
	}
	var payloads []questionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payloads); err != nil {
		return nil, fmt.Errorf("parse pool response: %w", err)
	}
	return payloads, nil
}

// buildQuestion validates a payload and normalizes its enum fields.
func buildQuestion(p questionPayload, origin domain.QuestionOrigin) (domain.Question, bool) {
	if p.Text == "" {
		return domain.Question{}, false
	}
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	return domain.Question{
		ID:               id,
		Text:             p.Text,
		Type:             parseQuestionType(p.Type),
		Difficulty:       domain.ParseDifficulty(p.Difficulty),
		Category:         p.Category,
		ExpectedKeywords: p.ExpectedKeywords,
		Origin:           origin,
	}, true
}

// parseQuestionType normalizes free-form type strings, tolerating the
// hyphen and space variants models produce.
func parseQuestionType(s string) domain.QuestionType {
	normalized := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"), " ", "_")
	switch domain.QuestionType(normalized) {
	case domain.QuestionTechnical, domain.QuestionBehavioral, domain.QuestionSituational,
		domain.QuestionProblemSolving, domain.QuestionCulturalFit:
		return domain.QuestionType(normalized)
	default:
		return domain.QuestionBehavioral
	}
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

// DefaultPool is the static question set used when pool generation is
// unavailable. Deliberately small; the contextual generator and the
// selector's fallback template carry the rest of the interview.
func DefaultPool() []domain.Question {
	return []domain.Question{
		{
			ID:               "tech_1",
			Text:             "Could you tell me about your experience with relevant technologies for this position?",
			Type:             domain.QuestionTechnical,
			Difficulty:       domain.DifficultyBeginner,
			Category:         "Technical Knowledge",
			ExpectedKeywords: []string{"experience", "technology", "skills", "project"},
			Origin:           domain.OriginPool,
		},
		{
			ID:               "behav_1",
			Text:             "Describe a challenging situation you faced at work and how you handled it.",
			Type:             domain.QuestionBehavioral,
			Difficulty:       domain.DifficultyIntermediate,
			Category:         "Problem Solving",
			ExpectedKeywords: []string{"challenge", "solution", "result", "teamwork"},
			Origin:           domain.OriginPool,
		},
	}
}
