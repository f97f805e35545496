package llm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrBudgetExceeded indicates an LLM request was refused because the
// configured usage budget is exhausted.
var ErrBudgetExceeded = errors.New("llm budget exceeded")

// Budget defines resource consumption limits for LLM usage.
// Zero means unlimited for either dimension.
type Budget struct {
	// MaxTokens limits the total tokens consumed across requests.
	MaxTokens int64

	// MaxCalls limits the total number of requests made.
	MaxCalls int64
}

// BudgetTracker accumulates LLM usage against a Budget and refuses
// further requests once a limit is reached. One tracker typically covers
// one interview session; trackers are safe for concurrent use.
type BudgetTracker struct {
	budget Budget
	tokens atomic.Int64
	calls  atomic.Int64
}

// NewBudgetTracker creates a tracker with zero recorded usage.
func NewBudgetTracker(budget Budget) *BudgetTracker {
	return &BudgetTracker{budget: budget}
}

// Usage returns the tokens and calls consumed so far.
func (t *BudgetTracker) Usage() (tokens, calls int64) {
	return t.tokens.Load(), t.calls.Load()
}

// check verifies the next request fits within the remaining budget.
func (t *BudgetTracker) check() error {
	if t.budget.MaxCalls > 0 && t.calls.Load() >= t.budget.MaxCalls {
		return fmt.Errorf("%w: call limit %d reached", ErrBudgetExceeded, t.budget.MaxCalls)
	}
	if t.budget.MaxTokens > 0 && t.tokens.Load() >= t.budget.MaxTokens {
		return fmt.Errorf("%w: token limit %d reached (used %d)",
			ErrBudgetExceeded, t.budget.MaxTokens, t.tokens.Load())
	}
	return nil
}

// record folds one completed request into the running totals.
func (t *BudgetTracker) record(tokensIn, tokensOut int) {
	t.calls.Add(1)
	t.tokens.Add(int64(tokensIn) + int64(tokensOut))
}

// Middleware returns a Middleware enforcing this tracker's budget around
// every request. Requests already in flight when the budget runs out are
// allowed to finish; their usage still counts.
func (t *BudgetTracker) Middleware() Middleware {
	return func(next CoreLLM) CoreLLM {
		return &budgetLLM{next: next, tracker: t}
	}
}

type budgetLLM struct {
	next    CoreLLM
	tracker *BudgetTracker
}

func (b *budgetLLM) DoRequest(
	ctx context.Context, prompt string, opts map[string]any,
) (string, int, int, error) {
	if err := b.tracker.check(); err != nil {
		return "", 0, 0, err
	}
	response, tokensIn, tokensOut, err := b.next.DoRequest(ctx, prompt, opts)
	if err != nil {
		// Failed requests still count as calls; most providers bill them.
		b.tracker.record(tokensIn, tokensOut)
		return "", tokensIn, tokensOut, err
	}
	b.tracker.record(tokensIn, tokensOut)
	return response, tokensIn, tokensOut, nil
}

func (b *budgetLLM) GetModel() string { return b.next.GetModel() }

func (b *budgetLLM) SetModel(model string) { b.next.SetModel(model) }
