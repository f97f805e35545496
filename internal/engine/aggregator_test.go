package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

// TestScoreAggregator_Score_FullSignals verifies a straight copy of both
// sources into the answer when everything is available.
func TestScoreAggregator_Score_FullSignals(t *testing.T) {
	agg := NewScoreAggregator(testTime)
	q := domain.Question{ID: "q1"}
	audio := &ports.AudioFeatures{
		Fluency:  0.82,
		Emotions: map[string]float64{"calm": 0.7, "joy": 0.3},
		Duration: 42 * time.Second,
	}
	text := &ports.TextAnalysis{Technical: 0.9, Sentiment: 0.4, Confidence: 0.75}

	got := agg.Score(q, "my answer", audio, text)

	assert.Equal(t, "q1", got.QuestionID, "Answer must reference the question.")
	assert.Equal(t, "my answer", got.Transcript, "Transcript should be carried over.")
	assert.Equal(t, 0.9, got.Technical, "Technical score comes from the text analysis.")
	assert.Equal(t, 0.4, got.Sentiment, "Sentiment comes from the text analysis.")
	assert.Equal(t, 0.75, got.Confidence, "Confidence comes from the text analysis.")
	assert.Equal(t, 0.82, got.Fluency, "Fluency comes from the audio features.")
	assert.Equal(t, 42*time.Second, got.AudioDuration, "Audio duration should be carried over.")
	assert.Equal(t, map[string]float64{"calm": 0.7, "joy": 0.3}, got.Emotions, "Emotion weights should be copied.")
	assert.Equal(t, testTime(), got.Timestamp, "Timestamp comes from the injected clock.")
	assert.False(t, got.Degraded, "Nothing degraded with both sources present.")
}

// TestScoreAggregator_Score_MissingSources covers the neutral-default
// behavior when one or both collaborators failed.
func TestScoreAggregator_Score_MissingSources(t *testing.T) {
	agg := NewScoreAggregator(testTime)
	q := domain.Question{ID: "q1"}

	tests := []struct {
		name  string
		audio *ports.AudioFeatures
		text  *ports.TextAnalysis
	}{
		{name: "missing text analysis", audio: &ports.AudioFeatures{Fluency: 0.6}, text: nil},
		{name: "missing audio features", audio: nil, text: &ports.TextAnalysis{Technical: 0.7}},
		{name: "both sources missing", audio: nil, text: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.Score(q, "", tt.audio, tt.text)

			assert.True(t, got.Degraded, "A missing source must mark the answer degraded.")
			if tt.text == nil {
				assert.Equal(t, 0.5, got.Technical, "Technical defaults to neutral.")
				assert.Equal(t, 0.5, got.Confidence, "Confidence defaults to neutral.")
				assert.Equal(t, 0.0, got.Sentiment, "Sentiment defaults to zero.")
			}
			if tt.audio == nil {
				assert.Equal(t, 0.5, got.Fluency, "Fluency defaults to neutral.")
				assert.Empty(t, got.Emotions, "No emotion weights without audio features.")
			}
		})
	}
}

// TestScoreAggregator_Score_CopiesEmotions verifies the answer holds its
// own emotion map, insulated from later mutation of the source.
func TestScoreAggregator_Score_CopiesEmotions(t *testing.T) {
	agg := NewScoreAggregator(testTime)
	audio := &ports.AudioFeatures{Emotions: map[string]float64{"calm": 1}}

	got := agg.Score(domain.Question{ID: "q1"}, "", audio, &ports.TextAnalysis{})
	audio.Emotions["calm"] = 0

	assert.Equal(t, 1.0, got.Emotions["calm"], "Answer emotions must not alias the source map.")
}
