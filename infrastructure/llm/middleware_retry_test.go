package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryMiddlewareSucceedsFirstAttempt(t *testing.T) {
	mock := NewMockCoreLLM()
	wrapped := RetryMiddleware(3, 10*time.Millisecond, time.Second)(mock)

	response, tokensIn, tokensOut, err := wrapped.DoRequest(context.Background(), "prompt", nil)

	require.NoError(t, err, "request should succeed")
	assert.Equal(t, "test response", response, "response should match")
	assert.Equal(t, 10, tokensIn, "input tokens should match")
	assert.Equal(t, 20, tokensOut, "output tokens should match")
	assert.Equal(t, 1, mock.GetCallCount(), "should not retry on success")
}

func TestRetryMiddlewareRetriesTransientErrors(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.FailUntilAttempt = 2
	wrapped := RetryMiddleware(3, time.Millisecond, time.Second)(mock)

	response, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)

	require.NoError(t, err, "request should eventually succeed")
	assert.Equal(t, "test response", response, "response should match")
	assert.Equal(t, 3, mock.GetCallCount(), "should retry until success")
}

func TestRetryMiddlewareFailsAfterMaxRetries(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = NewProviderError("mock", ErrorTypeServerError, 500, "persistent failure", nil)
	wrapped := RetryMiddleware(2, time.Millisecond, time.Second)(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)

	require.Error(t, err, "request should fail")
	assert.Contains(t, err.Error(), "request failed after 3 attempts",
		"error should report exhausted attempts")
	assert.Equal(t, 3, mock.GetCallCount(), "should attempt maxRetries+1 times")
}

func TestRetryMiddlewareDoesNotRetryNonRetryableErrors(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = NewProviderError("mock", ErrorTypeAuthentication, 401, "bad key", nil)
	wrapped := RetryMiddleware(3, time.Millisecond, time.Second)(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)

	require.Error(t, err, "request should fail")
	assert.Equal(t, 1, mock.GetCallCount(), "authentication errors should not be retried")
}

func TestRetryMiddlewareStopsOnCancelledContext(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = NewProviderError("mock", ErrorTypeServerError, 500, "failure", nil)
	wrapped := RetryMiddleware(5, 50*time.Millisecond, time.Second)(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := wrapped.DoRequest(ctx, "prompt", nil)

	require.Error(t, err, "request should fail")
	assert.Equal(t, 1, mock.GetCallCount(), "cancelled context should stop retries")
}

func TestCalculateDelayRespectsMaxDelay(t *testing.T) {
	r := &retryLLM{baseDelay: 100 * time.Millisecond, maxDelay: 300 * time.Millisecond}

	for attempt := 0; attempt < 10; attempt++ {
		delay := r.calculateDelay(attempt)
		assert.LessOrEqual(t, delay, 300*time.Millisecond,
			"delay should never exceed maxDelay")
		assert.GreaterOrEqual(t, delay, time.Duration(0), "delay should not be negative")
	}
}
