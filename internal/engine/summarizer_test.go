package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidly/interview-engine/internal/domain"
)

// TestPerformanceSummarizer_Summarize_AxisAverages verifies each axis is
// the mean of its per-answer signal and that the overall score averages
// only the technical and communication axes.
func TestPerformanceSummarizer_Summarize_AxisAverages(t *testing.T) {
	session := answeredSession(t)
	record := func(id string, ans domain.Answer) {
		q := domain.Question{ID: id, Type: domain.QuestionTechnical, Difficulty: domain.DifficultyIntermediate}
		require.NoError(t, session.AskQuestion(q), "Asking a question should succeed.")
		ans.QuestionID = id
		require.NoError(t, session.RecordAnswer(ans), "Recording an answer should succeed.")
	}
	record("q0", domain.Answer{
		Technical: 0.8, Fluency: 0.6, Confidence: 0.8, Sentiment: 0.5,
		Emotions: map[string]float64{"calm": 0.9, "joy": 0.1},
	})
	record("q1", domain.Answer{
		Technical: 0.6, Fluency: 0.4, Confidence: 0.6, Sentiment: -0.1,
		// No emotion data: the dominant-emotion signal defaults to 0.5.
	})

	m := NewPerformanceSummarizer().Summarize(session)

	assert.InDelta(t, 0.7, m.Technical, 1e-9, "Technical axis mismatch.")
	assert.InDelta(t, 0.6, m.Communication, 1e-9, "Communication axis mismatch.")
	assert.InDelta(t, 0.7, m.EmotionalIntelligence, 1e-9, "Emotional intelligence axis mismatch.")
	assert.InDelta(t, 0.2, m.Behavioral, 1e-9, "Behavioral axis mismatch.")
	assert.InDelta(t, 0.65, m.Overall, 1e-9,
		"Overall must average only the technical and communication axes.")
}

// TestPerformanceSummarizer_StrengthsAndWeaknesses covers the threshold
// rules and the guaranteed placeholder lines.
func TestPerformanceSummarizer_StrengthsAndWeaknesses(t *testing.T) {
	tests := []struct {
		name           string
		metrics        domain.PerformanceMetrics
		wantStrengths  []string
		wantWeaknesses []string
	}{
		{
			name: "all strong",
			metrics: domain.PerformanceMetrics{
				Technical: 0.9, Communication: 0.85, EmotionalIntelligence: 0.8, Behavioral: 0.82,
			},
			wantStrengths: []string{
				"Strong technical knowledge",
				"Excellent communication skills",
				"High emotional intelligence",
				"Good behavioral responses",
			},
			wantWeaknesses: []string{"No significant weaknesses identified"},
		},
		{
			name: "all weak",
			metrics: domain.PerformanceMetrics{
				Technical: 0.3, Communication: 0.5, EmotionalIntelligence: 0.4, Behavioral: 0.2,
			},
			wantStrengths: []string{"Areas for improvement identified"},
			wantWeaknesses: []string{
				"Technical knowledge needs improvement",
				"Communication skills need development",
				"Emotional intelligence could be enhanced",
				"Behavioral responses need refinement",
			},
		},
		{
			name: "middle band hits neither threshold",
			metrics: domain.PerformanceMetrics{
				Technical: 0.7, Communication: 0.7, EmotionalIntelligence: 0.7, Behavioral: 0.7,
			},
			wantStrengths:  []string{"Areas for improvement identified"},
			wantWeaknesses: []string{"No significant weaknesses identified"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStrengths, strengths(&tt.metrics), "Strength lines mismatch.")
			assert.Equal(t, tt.wantWeaknesses, weaknesses(&tt.metrics), "Weakness lines mismatch.")
		})
	}
}

// TestPerformanceSummarizer_Recommendations verifies the per-axis advice
// and that the two fixed closing recommendations are always present.
func TestPerformanceSummarizer_Recommendations(t *testing.T) {
	job := domain.JobContext{KeySkills: []string{"go", "postgres", "kafka"}}

	t.Run("weak axes earn targeted advice", func(t *testing.T) {
		m := &domain.PerformanceMetrics{Technical: 0.5, Communication: 0.6, EmotionalIntelligence: 0.65}

		got := recommendations(m, job)

		require.Len(t, got, 5, "Three targeted lines plus two closers expected.")
		assert.Equal(t, "Focus on improving go, postgres skills", got[0],
			"Technical advice should reference the top two key skills.")
		assert.Equal(t, "Practice clear and structured communication", got[1], "Communication advice mismatch.")
		assert.Equal(t, "Work on confidence and stress management", got[2], "Emotional advice mismatch.")
	})

	t.Run("strong performance still gets the closers", func(t *testing.T) {
		m := &domain.PerformanceMetrics{Technical: 0.9, Communication: 0.9, EmotionalIntelligence: 0.9}

		got := recommendations(m, job)

		assert.Equal(t, []string{
			"Continue practicing mock interviews",
			"Research the company and role thoroughly",
		}, got, "The two closing recommendations are always present.")
	})
}

// TestTrend classifies the technical score slope.
func TestTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   string
	}{
		{name: "too few answers", scores: []float64{0.5, 0.9}, want: TrendInsufficient},
		{name: "improving run", scores: []float64{0.3, 0.5, 0.7, 0.9}, want: TrendImproving},
		{name: "declining run", scores: []float64{0.9, 0.7, 0.5}, want: TrendDeclining},
		{name: "flat run", scores: []float64{0.6, 0.62, 0.6, 0.61}, want: TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.scores), "Trend() mismatch.")
		})
	}
}

// TestPerformanceSummarizer_TypeBreakdown verifies per-type technical
// averages over the answered questions.
func TestPerformanceSummarizer_TypeBreakdown(t *testing.T) {
	session := answeredSession(t)
	ask := func(id string, qt domain.QuestionType, technical float64) {
		q := domain.Question{ID: id, Type: qt, Difficulty: domain.DifficultyIntermediate}
		require.NoError(t, session.AskQuestion(q), "Asking a question should succeed.")
		require.NoError(t, session.RecordAnswer(domain.Answer{QuestionID: id, Technical: technical}),
			"Recording an answer should succeed.")
	}
	ask("q0", domain.QuestionTechnical, 0.8)
	ask("q1", domain.QuestionTechnical, 0.6)
	ask("q2", domain.QuestionBehavioral, 0.4)

	got := NewPerformanceSummarizer().TypeBreakdown(session)

	require.Len(t, got, 2, "Only answered question types appear in the breakdown.")
	assert.InDelta(t, 0.7, got[domain.QuestionTechnical], 1e-9, "Technical breakdown mismatch.")
	assert.InDelta(t, 0.4, got[domain.QuestionBehavioral], 1e-9, "Behavioral breakdown mismatch.")
}

// TestPerformanceSummarizer_FeedbackFor covers the per-answer feedback
// bands.
func TestPerformanceSummarizer_FeedbackFor(t *testing.T) {
	s := NewPerformanceSummarizer()

	assert.Equal(t, "Excellent response! You demonstrated strong understanding.",
		s.FeedbackFor(domain.Answer{Technical: 0.8}), "Top band feedback mismatch.")
	assert.Equal(t, "Good response with room for improvement.",
		s.FeedbackFor(domain.Answer{Technical: 0.6}), "Middle band feedback mismatch.")
	assert.Equal(t, "Consider reviewing this topic and practicing similar questions.",
		s.FeedbackFor(domain.Answer{Technical: 0.59}), "Bottom band feedback mismatch.")
}

// TestPerformanceSummarizer_Deterministic verifies repeated summaries of
// the same answer list are identical, lists and breakdown included.
func TestPerformanceSummarizer_Deterministic(t *testing.T) {
	session := answeredSession(t)
	ask := func(id string, qt domain.QuestionType, ans domain.Answer) {
		q := domain.Question{ID: id, Type: qt, Difficulty: domain.DifficultyIntermediate}
		require.NoError(t, session.AskQuestion(q), "Asking a question should succeed.")
		ans.QuestionID = id
		require.NoError(t, session.RecordAnswer(ans), "Recording an answer should succeed.")
	}
	ask("q0", domain.QuestionTechnical, domain.Answer{
		Technical: 0.4, Fluency: 0.5, Confidence: 0.45, Sentiment: -0.2,
		Emotions: map[string]float64{"nervous": 0.7, "calm": 0.3},
	})
	ask("q1", domain.QuestionBehavioral, domain.Answer{
		Technical: 0.65, Fluency: 0.6, Confidence: 0.6, Sentiment: 0.1,
	})
	ask("q2", domain.QuestionTechnical, domain.Answer{
		Technical: 0.85, Fluency: 0.8, Confidence: 0.75, Sentiment: 0.4,
		Emotions: map[string]float64{"calm": 0.9},
	})

	s := NewPerformanceSummarizer()
	first := s.Summarize(session)
	second := s.Summarize(session)

	assert.Equal(t, first, second, "Summarizing the same answers twice must give identical metrics.")
	assert.Equal(t, first.Strengths, second.Strengths, "Strength lines must repeat verbatim.")
	assert.Equal(t, first.Weaknesses, second.Weaknesses, "Weakness lines must repeat verbatim.")
	assert.Equal(t, first.Recommendations, second.Recommendations, "Recommendations must repeat verbatim.")
	assert.Equal(t, first.TypeBreakdown, second.TypeBreakdown, "The type breakdown must repeat verbatim.")
	assert.Equal(t, first.Trend, second.Trend, "The trend label must repeat verbatim.")
}

// TestPerformanceSummarizer_EmptySession verifies summarizing before any
// answer yields zeroed axes with the placeholder lines still present.
func TestPerformanceSummarizer_EmptySession(t *testing.T) {
	session := answeredSession(t)

	m := NewPerformanceSummarizer().Summarize(session)

	assert.Zero(t, m.Technical, "No answers means a zero technical axis.")
	assert.Zero(t, m.Overall, "No answers means a zero overall score.")
	assert.Equal(t, []string{"Areas for improvement identified"}, m.Strengths,
		"Strengths must never be empty.")
	assert.Equal(t, TrendInsufficient, m.Trend, "Trend needs at least three answers.")
	assert.Empty(t, m.TypeBreakdown, "No breakdown without answers.")
}
