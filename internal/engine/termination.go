package engine

import "github.com/candidly/interview-engine/internal/domain"

// Stop reasons recorded on the session when the policy ends an interview.
const (
	StopMaxQuestions = "max_questions_reached"
	StopPlateau      = "performance_plateau"
	StopPoor         = "consistently_poor_performance"
)

// Default policy thresholds.
const (
	DefaultMaxQuestions   = 20
	plateauWindow         = 5
	plateauStdDevCeil     = 0.1
	poorWindow            = 3
	poorPerformanceCutoff = 0.4
)

// TerminationPolicy decides when an interview has produced enough signal
// to stop. Rules are evaluated in a fixed order and the first match wins,
// so a session that both plateaus and scores poorly reports the plateau.
type TerminationPolicy struct {
	maxQuestions int
}

// NewTerminationPolicy returns a policy capped at maxQuestions answers.
// Non-positive values fall back to the default cap.
func NewTerminationPolicy(maxQuestions int) *TerminationPolicy {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	return &TerminationPolicy{maxQuestions: maxQuestions}
}

// ShouldStop reports whether the session should end now and, when it
// should, the reason to record on the session.
func (p *TerminationPolicy) ShouldStop(session *domain.InterviewSession) (bool, string) {
	n := len(session.Answers)
	if n >= p.maxQuestions {
		return true, StopMaxQuestions
	}
	if n >= plateauWindow {
		if popStdDev(session.RecentTechnical(plateauWindow)) < plateauStdDevCeil {
			return true, StopPlateau
		}
	}
	if n >= poorWindow {
		if mean(session.RecentTechnical(poorWindow)) < poorPerformanceCutoff {
			return true, StopPoor
		}
	}
	return false, ""
}
