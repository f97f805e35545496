// Package llm provides a unified client for the LLM providers the
// interview engine scores and generates questions with, plus middleware
// for rate limiting, retries, timeouts, metrics, and tracing.
//
// Providers (OpenAI, Anthropic, Google) are abstracted behind the CoreLLM
// interface so cross-cutting concerns compose around any of them:
//
//	client, err := llm.NewClient("google", llm.ClientConfig{
//	    APIKey: os.Getenv("GOOGLE_API_KEY"),
//	    Model:  "gemini-2.0-flash-exp",
//	    Middleware: []llm.Middleware{
//	        llm.RateLimitMiddleware(5, 10),
//	        llm.RetryMiddleware(2, 500*time.Millisecond, 8*time.Second),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/candidly/interview-engine/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt and returns the response text along with
	// input and output token counts. The opts map carries
	// provider-specific parameters such as temperature or max_tokens.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the currently configured model name.
	GetModel() string

	// SetModel switches the model for subsequent requests.
	SetModel(model string)
}

// TokenEstimator approximates token counts when the provider does not
// report exact usage.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// ClientConfig holds everything needed to build a provider-backed client.
type ClientConfig struct {
	// APIKey authenticates with the provider. The Google provider also
	// accepts a credentials file path here.
	APIKey string

	// Model names the model to use; empty selects the provider default.
	Model string

	// BaseURL overrides the provider's default endpoint when set.
	BaseURL string

	// Timeout bounds individual requests at the transport level. Zero
	// means no transport timeout; use TimeoutMiddleware for per-call
	// deadlines.
	Timeout time.Duration

	// TokenEstimator overrides the default character-based estimator.
	TokenEstimator TokenEstimator

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// Middleware wraps a CoreLLM with cross-cutting behavior.
type Middleware func(CoreLLM) CoreLLM

// Client adapts a middleware-wrapped CoreLLM to ports.LLMClient.
type Client struct {
	core      CoreLLM
	estimator TokenEstimator
}

var _ ports.LLMClient = (*Client)(nil)

// ProviderFactory builds a provider-specific CoreLLM from config.
type ProviderFactory func(config ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider under a name. Providers
// call this from init.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	names := make([]string, 0, len(providerFactories))
	for name := range providerFactories {
		names = append(names, name)
	}
	return names
}

// NewClient builds a ready-to-use client for the named provider,
// assembling the middleware chain around it. The returned Client
// satisfies ports.LLMClient.
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", providerType, err)
	}

	// Reverse order so the first configured middleware is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	estimator := config.TokenEstimator
	if estimator == nil {
		estimator = &SimpleTokenEstimator{}
	}

	return &Client{core: core, estimator: estimator}, nil
}

// Complete sends a prompt and returns the response text, discarding
// token usage.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.CompleteWithUsage(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the response together
// with input and output token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens approximates the token count of text before sending it.
func (c *Client) EstimateTokens(text string) (int, error) {
	return c.estimator.EstimateTokens(text), nil
}

// GetModel returns the underlying provider's configured model.
func (c *Client) GetModel() string { return c.core.GetModel() }

// SimpleTokenEstimator estimates roughly four characters per token,
// a workable approximation for English prompts.
type SimpleTokenEstimator struct{}

// EstimateTokens implements TokenEstimator.
func (e *SimpleTokenEstimator) EstimateTokens(text string) int {
	return len(text) / 4
}
