package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/candidly/interview-engine/internal/ports"
)

var _ ports.LLMClient = (*MockLLMClient)(nil)

// MockLLMClient implements ports.LLMClient with deterministic canned
// responses matched by prompt substring. The defaults cover every prompt
// the analysis package issues, so a full offline interview can run
// against it.
type MockLLMClient struct {
	mu        sync.Mutex
	model     string
	err       error
	responses []MockResponse
	calls     []string
}

// MockResponse maps a prompt substring to a canned response. The most
// recently registered pattern wins; an empty pattern matches anything.
type MockResponse struct {
	Pattern  string
	Response string
}

// NewMockLLMClient returns a mock preloaded with responses for transcript
// analysis, pool and contextual question generation, and job-requirement
// extraction.
func NewMockLLMClient(model string) *MockLLMClient {
	client := &MockLLMClient{model: model}
	client.setupDefaultResponses()
	return client
}

func (m *MockLLMClient) setupDefaultResponses() {
	m.AddResponse(MockResponse{
		Pattern: "Analyze this interview response",
		Response: `{"technical_score": 0.8, "sentiment_score": 0.3, "confidence_score": 0.7,` +
			` "relevance_score": 0.9, "clarity_score": 0.8}`,
	})
	m.AddResponse(MockResponse{
		Pattern: "diverse interview questions",
		Response: "```json\n" + `[
  {"id": "gen_1", "text": "What draws you to backend work?", "type": "technical",
   "difficulty": "beginner", "category": "Motivation", "expected_keywords": ["systems", "scale"]},
  {"id": "gen_2", "text": "Walk me through a service you designed end to end.", "type": "technical",
   "difficulty": "advanced", "category": "System Design", "expected_keywords": ["api", "database", "tradeoffs"]},
  {"id": "gen_3", "text": "Tell me about a disagreement with a teammate.", "type": "behavioral",
   "difficulty": "intermediate", "category": "Collaboration", "expected_keywords": ["listening", "compromise"]}
]` + "\n```",
	})
	m.AddResponse(MockResponse{
		Pattern: "Generate the next question",
		Response: `{"id": "ctx_1", "text": "Thanks for that. How would you shard a hot table?",` +
			` "type": "technical", "difficulty": "advanced", "category": "Databases",` +
			` "expected_keywords": ["shard", "partition", "key"]}`,
	})
	m.AddResponse(MockResponse{
		Pattern: "extract key requirements",
		Response: `{"key_skills": ["go", "postgres", "kubernetes", "grpc"],` +
			` "experience_level": "advanced", "key_responsibilities": ["design services", "review code"]}`,
	})
}

// AddResponse registers a response pattern ahead of the existing ones,
// so tests can shadow the defaults.
func (m *MockLLMClient) AddResponse(response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append([]MockResponse{response}, m.responses...)
}

// FailWith makes every subsequent Complete call return err. Passing nil
// restores normal behavior.
func (m *MockLLMClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Complete returns the first registered response whose pattern appears
// in the prompt.
func (m *MockLLMClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)

	if m.err != nil {
		return "", m.err
	}

	for _, r := range m.responses {
		if r.Pattern == "" || strings.Contains(prompt, r.Pattern) {
			return r.Response, nil
		}
	}
	return "", fmt.Errorf("no canned response matches prompt (%d chars)", len(prompt))
}

// EstimateTokens approximates four characters per token, minimum one for
// non-empty text.
func (m *MockLLMClient) EstimateTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	tokens := len(text) / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens, nil
}

// GetModel returns the mock model identifier.
func (m *MockLLMClient) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

// Calls returns every prompt received so far.
func (m *MockLLMClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
