package llm

import (
	"fmt"
	"net/url"
	"sync"
)

// DefaultMaxTokens caps response length when the caller does not set
// max_tokens explicitly.
const DefaultMaxTokens = 1024

// RequestOptions is the standardized parameter set shared across
// providers. Unrecognized options pass through in Extra for
// provider-specific features.
type RequestOptions struct {
	// MaxTokens caps the generated response length.
	MaxTokens int
	// Model overrides the provider's configured model for this request.
	Model string
	// Temperature controls output randomness; nil keeps the provider
	// default.
	Temperature *float64
	// TopP enables nucleus sampling; nil keeps the provider default.
	TopP *float64
	// System is the system prompt, when the provider supports one.
	System string
	// Extra carries provider-specific options verbatim.
	Extra map[string]any
}

// ParseRequestOptions extracts standardized parameters from a generic
// option map, falling back to defaults for missing or invalid entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: extractInt(opts, "max_tokens", DefaultMaxTokens, func(v int) bool { return v > 0 }),
		Model:     extractString(opts, "model", defaultModel),
		System:    extractString(opts, "system", ""),
		Extra:     make(map[string]any),
	}

	if temp := extractFloat(opts, "temperature", -1, isValidTemperature); temp != -1 {
		options.Temperature = &temp
	}
	if topP := extractFloat(opts, "top_p", -1, isValidTopP); topP != -1 {
		options.TopP = &topP
	}

	for k, v := range opts {
		switch k {
		case "max_tokens", "model", "system", "temperature", "top_p":
			// Already handled above.
		default:
			options.Extra[k] = v
		}
	}
	return options
}

// isValidTemperature allows the widest provider range, 0.0 to 2.0.
func isValidTemperature(v float64) bool { return v >= 0 && v <= 2 }

// isValidTopP allows the nucleus sampling range 0.0 to 1.0.
func isValidTopP(v float64) bool { return v >= 0 && v <= 1 }

func extractInt(opts map[string]any, key string, def int, valid func(int) bool) int {
	if opts == nil {
		return def
	}
	v, ok := opts[key].(int)
	if !ok || (valid != nil && !valid(v)) {
		return def
	}
	return v
}

func extractString(opts map[string]any, key, def string) string {
	if opts == nil {
		return def
	}
	v, ok := opts[key].(string)
	if !ok || v == "" {
		return def
	}
	return v
}

func extractFloat(opts map[string]any, key string, def float64, valid func(float64) bool) float64 {
	if opts == nil {
		return def
	}
	v, ok := opts[key].(float64)
	if !ok || (valid != nil && !valid(v)) {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// validateBaseURL checks a base URL override has an http or https scheme
// and a host. Empty is valid and keeps the provider default.
func validateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}
	return parsed.String(), nil
}

// BaseProvider supplies the thread-safe model accessor shared by all
// providers.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the configured model. Safe for concurrent use.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the configured model. Safe for concurrent use.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// TokenCounter estimates token counts when exact usage is unavailable.
type TokenCounter struct {
	// CharactersPerToken is the approximate character-to-token ratio.
	CharactersPerToken float64
}

// NewTokenCounter returns a counter tuned for English text.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens approximates the token count of text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount prefers the provider-reported count and falls back to
// estimation when it is missing.
func (tc *TokenCounter) GetTokenCount(actual int, text string) int {
	if actual > 0 {
		return actual
	}
	return tc.EstimateTokens(text)
}
