package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidly/interview-engine/internal/domain"
)

// answeredSession builds an InProgress session with one recorded answer
// per technical score, in order.
func answeredSession(t *testing.T, technicals ...float64) *domain.InterviewSession {
	t.Helper()
	session := domain.NewSession("sess-1", domain.JobContext{ExperienceLevel: domain.DifficultyIntermediate}, testTime())
	require.NoError(t, session.Start(testTime()), "Starting the session should succeed.")
	for i, score := range technicals {
		q := domain.Question{ID: fmt.Sprintf("q%d", i), Type: domain.QuestionTechnical, Difficulty: domain.DifficultyIntermediate}
		require.NoError(t, session.AskQuestion(q), "Asking a question should succeed.")
		require.NoError(t, session.RecordAnswer(domain.Answer{QuestionID: q.ID, Technical: score}),
			"Recording an answer should succeed.")
	}
	return session
}

// TestTerminationPolicy_ShouldStop exercises each rule and the rule
// ordering.
func TestTerminationPolicy_ShouldStop(t *testing.T) {
	tests := []struct {
		name         string
		maxQuestions int
		technicals   []float64
		wantStop     bool
		wantReason   string
	}{
		{
			name:       "fresh session continues",
			technicals: nil,
			wantStop:   false,
		},
		{
			name:         "question cap reached",
			maxQuestions: 3,
			technicals:   []float64{0.9, 0.8, 0.9},
			wantStop:     true,
			wantReason:   StopMaxQuestions,
		},
		{
			name:       "plateau after five near-identical scores",
			technicals: []float64{0.72, 0.7, 0.71, 0.7, 0.72},
			wantStop:   true,
			wantReason: StopPlateau,
		},
		{
			name:       "five varied scores keep going",
			technicals: []float64{0.2, 0.9, 0.4, 0.8, 0.5},
			wantStop:   false,
		},
		{
			name:       "three consistently poor answers",
			technicals: []float64{0.8, 0.9, 0.3, 0.35, 0.3},
			wantStop:   true,
			wantReason: StopPoor,
		},
		{
			name:       "poor run too short to stop",
			technicals: []float64{0.3, 0.35},
			wantStop:   false,
		},
		{
			name: "plateau reported before poor performance",
			// Both rule 2 and rule 3 fire here; evaluation order picks
			// the plateau.
			technicals: []float64{0.3, 0.3, 0.3, 0.3, 0.3},
			wantStop:   true,
			wantReason: StopPlateau,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewTerminationPolicy(tt.maxQuestions)
			session := answeredSession(t, tt.technicals...)

			stop, reason := policy.ShouldStop(session)

			assert.Equal(t, tt.wantStop, stop, "ShouldStop() decision mismatch.")
			assert.Equal(t, tt.wantReason, reason, "Stop reason mismatch.")
		})
	}
}

// TestNewTerminationPolicy_DefaultCap verifies a non-positive cap falls
// back to the default.
func TestNewTerminationPolicy_DefaultCap(t *testing.T) {
	policy := NewTerminationPolicy(0)
	assert.Equal(t, DefaultMaxQuestions, policy.maxQuestions, "Zero cap should use the default.")
}
