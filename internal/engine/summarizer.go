package engine

import (
	"fmt"
	"strings"

	"github.com/candidly/interview-engine/internal/domain"
)

// Summary thresholds. An axis at or above strengthFloor reads as a
// strength, below weaknessCeil as a weakness, and below adviceCeil earns
// a targeted recommendation.
const (
	strengthFloor = 0.8
	weaknessCeil  = 0.6
	adviceCeil    = 0.7

	// trendEpsilon is the slope band within which performance counts as
	// stable rather than improving or declining.
	trendEpsilon = 0.05
	trendMinimum = 3
)

// Trend labels reported by Summarize.
const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

// PerformanceSummarizer derives session-level metrics from the recorded
// answers. It recomputes everything wholesale at completion; nothing here
// is incremental.
type PerformanceSummarizer struct{}

// NewPerformanceSummarizer returns a summarizer.
func NewPerformanceSummarizer() *PerformanceSummarizer {
	return &PerformanceSummarizer{}
}

// Summarize computes the four axis averages, the overall score, the
// strength/weakness/recommendation text, the performance trend, and the
// per-question-type breakdown for the session. The overall score averages
// only the technical and communication axes; the emotional and behavioral
// axes are surfaced but excluded from it.
func (s *PerformanceSummarizer) Summarize(session *domain.InterviewSession) *domain.PerformanceMetrics {
	n := len(session.Answers)
	technical := make([]float64, 0, n)
	communication := make([]float64, 0, n)
	emotional := make([]float64, 0, n)
	behavioral := make([]float64, 0, n)
	for _, ans := range session.Answers {
		technical = append(technical, ans.Technical)
		communication = append(communication, (ans.Fluency+ans.Confidence)/2)
		emotional = append(emotional, ans.DominantEmotion())
		behavioral = append(behavioral, ans.Sentiment)
	}

	m := &domain.PerformanceMetrics{
		Technical:             mean(technical),
		Communication:         mean(communication),
		EmotionalIntelligence: mean(emotional),
		Behavioral:            mean(behavioral),
	}
	m.Overall = (m.Technical + m.Communication) / 2
	m.Strengths = strengths(m)
	m.Weaknesses = weaknesses(m)
	m.Recommendations = recommendations(m, session.Job)
	m.Trend = Trend(technical)
	m.TypeBreakdown = s.TypeBreakdown(session)
	return m
}

// Trend classifies the slope of technical scores over the interview.
func Trend(technical []float64) string {
	if len(technical) < trendMinimum {
		return TrendInsufficient
	}
	sl := slope(technical)
	switch {
	case sl > trendEpsilon:
		return TrendImproving
	case sl < -trendEpsilon:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// TypeBreakdown averages technical scores per question type over the
// answered questions.
func (s *PerformanceSummarizer) TypeBreakdown(session *domain.InterviewSession) map[domain.QuestionType]float64 {
	byType := make(map[domain.QuestionType][]float64)
	for _, ans := range session.Answers {
		q, ok := session.QuestionByID(ans.QuestionID)
		if !ok {
			continue
		}
		byType[q.Type] = append(byType[q.Type], ans.Technical)
	}
	out := make(map[domain.QuestionType]float64, len(byType))
	for qt, scores := range byType {
		out[qt] = mean(scores)
	}
	return out
}

// FeedbackFor returns the one-line feedback shown after an answer, banded
// on the technical score.
func (s *PerformanceSummarizer) FeedbackFor(ans domain.Answer) string {
	switch {
	case ans.Technical >= strengthFloor:
		return "Excellent response! You demonstrated strong understanding."
	case ans.Technical >= weaknessCeil:
		return "Good response with room for improvement."
	default:
		return "Consider reviewing this topic and practicing similar questions."
	}
}

func strengths(m *domain.PerformanceMetrics) []string {
	var out []string
	if m.Technical >= strengthFloor {
		out = append(out, "Strong technical knowledge")
	}
	if m.Communication >= strengthFloor {
		out = append(out, "Excellent communication skills")
	}
	if m.EmotionalIntelligence >= strengthFloor {
		out = append(out, "High emotional intelligence")
	}
	if m.Behavioral >= strengthFloor {
		out = append(out, "Good behavioral responses")
	}
	if len(out) == 0 {
		out = []string{"Areas for improvement identified"}
	}
	return out
}

func weaknesses(m *domain.PerformanceMetrics) []string {
	var out []string
	if m.Technical < weaknessCeil {
		out = append(out, "Technical knowledge needs improvement")
	}
	if m.Communication < weaknessCeil {
		out = append(out, "Communication skills need development")
	}
	if m.EmotionalIntelligence < weaknessCeil {
		out = append(out, "Emotional intelligence could be enhanced")
	}
	if m.Behavioral < weaknessCeil {
		out = append(out, "Behavioral responses need refinement")
	}
	if len(out) == 0 {
		out = []string{"No significant weaknesses identified"}
	}
	return out
}

func recommendations(m *domain.PerformanceMetrics, job domain.JobContext) []string {
	var out []string
	if m.Technical < adviceCeil && len(job.KeySkills) > 0 {
		skills := job.KeySkills
		if len(skills) > 2 {
			skills = skills[:2]
		}
		out = append(out, fmt.Sprintf("Focus on improving %s skills", strings.Join(skills, ", ")))
	}
	if m.Communication < adviceCeil {
		out = append(out, "Practice clear and structured communication")
	}
	if m.EmotionalIntelligence < adviceCeil {
		out = append(out, "Work on confidence and stress management")
	}
	out = append(out,
		"Continue practicing mock interviews",
		"Research the company and role thoroughly",
	)
	return out
}
