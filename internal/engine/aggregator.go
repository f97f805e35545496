package engine

import (
	"time"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

// neutralScore stands in for any [0,1] axis whose source was unavailable.
// Sentiment, ranging over [-1,1], defaults to 0 instead.
const neutralScore = 0.5

// ScoreAggregator combines text-analysis and audio-feature signals into an
// immutable Answer. It performs no cross-validation between the two
// sources; a missing source degrades its axes to neutral values rather
// than failing the answer.
type ScoreAggregator struct {
	clock func() time.Time
}

// NewScoreAggregator returns an aggregator stamping answers with the given
// clock. A nil clock uses time.Now.
func NewScoreAggregator(clock func() time.Time) *ScoreAggregator {
	if clock == nil {
		clock = time.Now
	}
	return &ScoreAggregator{clock: clock}
}

// Score builds the Answer for one exchange. Either analysis may be nil
// when its collaborator failed or timed out; the resulting answer carries
// neutral scores for those axes and is marked Degraded.
func (a *ScoreAggregator) Score(
	q domain.Question,
	transcript string,
	audio *ports.AudioFeatures,
	text *ports.TextAnalysis,
) domain.Answer {
	ans := domain.Answer{
		QuestionID: q.ID,
		Transcript: transcript,
		Technical:  neutralScore,
		Fluency:    neutralScore,
		Confidence: neutralScore,
		Sentiment:  0,
		Timestamp:  a.clock(),
	}

	if text != nil {
		ans.Technical = text.Technical
		ans.Sentiment = text.Sentiment
		ans.Confidence = text.Confidence
	} else {
		ans.Degraded = true
	}

	if audio != nil {
		ans.Fluency = audio.Fluency
		ans.AudioDuration = audio.Duration
		if len(audio.Emotions) > 0 {
			ans.Emotions = make(map[string]float64, len(audio.Emotions))
			for label, w := range audio.Emotions {
				ans.Emotions[label] = w
			}
		}
	} else {
		ans.Degraded = true
	}

	return ans
}
