package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

const (
	jobRequirementsTemperature = 0.0
	jobRequirementsMaxTokens   = 512
)

var _ ports.JobAnalyzer = (*LLMJobAnalyzer)(nil)

// LLMJobAnalyzer extracts structured requirements from a job posting.
// A failed call degrades to DefaultRequirements rather than an error;
// a session should still be creatable when the provider is down.
type LLMJobAnalyzer struct {
	client ports.LLMClient
}

type jobRequirementsResponse struct {
	KeySkills           []string `json:"key_skills"`
	ExperienceLevel     string   `json:"experience_level"`
	KeyResponsibilities []string `json:"key_responsibilities"`
}

// NewLLMJobAnalyzer builds a job analyzer on the given client.
func NewLLMJobAnalyzer(client ports.LLMClient) (*LLMJobAnalyzer, error) {
	if client == nil {
		return nil, fmt.Errorf("LLM client cannot be nil")
	}
	return &LLMJobAnalyzer{client: client}, nil
}

// ExtractRequirements parses key skills, experience level, and
// responsibilities from the title and description.
func (a *LLMJobAnalyzer) ExtractRequirements(ctx context.Context, title, description string) (ports.JobRequirements, error) {
	var buf bytes.Buffer
	err := jobRequirementsPrompt.Execute(&buf, struct {
		Title       string
		Description string
	}{Title: title, Description: description})
	if err != nil {
		return ports.JobRequirements{}, fmt.Errorf("execute requirements prompt: %w", err)
	}

	response, err := a.client.Complete(ctx, buf.String(), map[string]any{
		"temperature": jobRequirementsTemperature,
		"max_tokens":  jobRequirementsMaxTokens,
	})
	if err != nil {
		return DefaultRequirements(), nil
	}

	jsonStr := extractJSONObject(response)
	if jsonStr == "" {
		return DefaultRequirements(), nil
	}

	var parsed jobRequirementsResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return DefaultRequirements(), nil
	}
	if len(parsed.KeySkills) == 0 {
		return DefaultRequirements(), nil
	}

	return ports.JobRequirements{
		KeySkills:        parsed.KeySkills,
		ExperienceLevel:  domain.ParseDifficulty(parsed.ExperienceLevel),
		Responsibilities: parsed.KeyResponsibilities,
	}, nil
}

// DefaultRequirements is the deterministic result used when job analysis
// is unavailable.
func DefaultRequirements() ports.JobRequirements {
	return ports.JobRequirements{
		KeySkills:        []string{"programming", "problem-solving"},
		ExperienceLevel:  domain.DifficultyIntermediate,
		Responsibilities: []string{"development", "testing"},
	}
}
