package ports

import "context"

// LLMClient defines the interface for interacting with Large Language
// Model providers. The job analyzer, text-analysis oracle, and question
// generators all run on top of this contract; implementations handle
// provider-specific authentication, request formatting, and parsing.
type LLMClient interface {
	// Complete sends a completion request to the LLM provider.
	// The options map carries provider-agnostic settings such as
	// "temperature" (float64), "max_tokens" (int), and "model" (string).
	// Implementations should handle retries, rate limiting, and timeouts.
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens calculates the approximate token count for a text,
	// for cost estimation and staying within model limits.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}
