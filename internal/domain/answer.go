package domain

import "time"

// Answer captures the multi-modal scoring of one candidate response.
// Answers are immutable once appended to a session: scores are never
// revised after recording. The engine corrects future behavior, not
// past answers.
type Answer struct {
	// QuestionID references the Question this answer responds to.
	QuestionID string `json:"question_id"`

	// Transcript is the raw transcribed text of the spoken response.
	Transcript string `json:"transcript"`

	// Technical is the text-analysis technical accuracy score in [0,1].
	Technical float64 `json:"technical"`

	// Fluency is the audio-derived fluency score in [0,1].
	Fluency float64 `json:"fluency"`

	// Confidence is the text-analysis confidence score in [0,1].
	Confidence float64 `json:"confidence"`

	// Sentiment is the text-analysis sentiment score in [-1,1].
	Sentiment float64 `json:"sentiment"`

	// Emotions maps emotion labels to weights. Weights sum to 1;
	// an empty map means no emotion signal was available.
	Emotions map[string]float64 `json:"emotions,omitempty"`

	// AudioDuration is the length of the recorded response.
	AudioDuration time.Duration `json:"audio_duration"`

	// Timestamp records when the answer was scored.
	Timestamp time.Time `json:"timestamp"`

	// Degraded marks an answer whose scores were defaulted to neutral
	// because an external scoring service was unavailable.
	Degraded bool `json:"degraded,omitempty"`
}

// DominantEmotion returns the highest emotion weight, or 0.5 when no
// emotion data was captured. The neutral default keeps emotional
// intelligence aggregation meaningful for answers without audio signals.
func (a Answer) DominantEmotion() float64 {
	if len(a.Emotions) == 0 {
		return 0.5
	}
	max := 0.0
	for _, w := range a.Emotions {
		if w > max {
			max = w
		}
	}
	return max
}
