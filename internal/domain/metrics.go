package domain

// PerformanceMetrics is the session-level performance summary, recomputed
// wholesale from all answers at completion and then frozen.
type PerformanceMetrics struct {
	// Technical is the mean technical score across answers.
	Technical float64 `json:"technical"`

	// Communication is the mean of (fluency+confidence)/2 across answers.
	Communication float64 `json:"communication"`

	// EmotionalIntelligence is the mean dominant-emotion weight.
	EmotionalIntelligence float64 `json:"emotional_intelligence"`

	// Behavioral is the mean sentiment score.
	Behavioral float64 `json:"behavioral"`

	// Overall is the mean of Technical and Communication. It deliberately
	// excludes the emotional and behavioral axes, mirroring the weighting
	// used downstream for pass/fail framing.
	Overall float64 `json:"overall"`

	// Strengths and Weaknesses are threshold-rule text lines; never empty.
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`

	// Recommendations always contains at least the two fixed closing
	// recommendations, plus one data-driven line per weak axis.
	Recommendations []string `json:"recommendations"`

	// Trend summarizes the technical score trajectory over the session:
	// "improving", "declining", "stable", or "insufficient_data".
	Trend string `json:"trend"`

	// TypeBreakdown is the mean technical score per question type, for
	// the types that were actually asked.
	TypeBreakdown map[QuestionType]float64 `json:"type_breakdown,omitempty"`
}

// Clone returns a deep copy of the metrics.
func (m PerformanceMetrics) Clone() PerformanceMetrics {
	out := m
	out.Strengths = append([]string(nil), m.Strengths...)
	out.Weaknesses = append([]string(nil), m.Weaknesses...)
	out.Recommendations = append([]string(nil), m.Recommendations...)
	if m.TypeBreakdown != nil {
		out.TypeBreakdown = make(map[QuestionType]float64, len(m.TypeBreakdown))
		for k, v := range m.TypeBreakdown {
			out.TypeBreakdown[k] = v
		}
	}
	return out
}
