// Package domain contains pure, dependency-free domain models and types
// for the interview orchestration engine.
package domain

// QuestionType categorizes interview questions by the skill they probe.
// Each type is one arm of the selector's question-type bandit.
type QuestionType string

// Supported question types.
const (
	QuestionTechnical      QuestionType = "technical"
	QuestionBehavioral     QuestionType = "behavioral"
	QuestionSituational    QuestionType = "situational"
	QuestionProblemSolving QuestionType = "problem_solving"
	QuestionCulturalFit    QuestionType = "cultural_fit"
)

// QuestionTypes lists every question type in a stable order.
// The order is used when iterating bandit arms and when serializing.
var QuestionTypes = []QuestionType{
	QuestionTechnical,
	QuestionBehavioral,
	QuestionSituational,
	QuestionProblemSolving,
	QuestionCulturalFit,
}

// Difficulty represents the difficulty level of a question.
// Each level is one arm of the selector's difficulty bandit.
type Difficulty string

// Supported difficulty levels, ordered easiest to hardest.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Difficulties lists every difficulty level, easiest first.
var Difficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
	DifficultyExpert,
}

// DifficultyRank returns the ordinal position of a difficulty level,
// with beginner at 0. Unknown levels rank as intermediate.
func DifficultyRank(d Difficulty) int {
	for i, level := range Difficulties {
		if level == d {
			return i
		}
	}
	return 1
}

// ParseDifficulty maps a free-form experience level string to a Difficulty.
// Unrecognized input defaults to intermediate, matching how job contexts
// with missing or malformed experience levels are treated.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return Difficulty(s)
	default:
		return DifficultyIntermediate
	}
}

// QuestionOrigin records where a question came from, so degraded question
// sourcing is auditable after the fact.
type QuestionOrigin string

const (
	// OriginPool marks a question drawn from the session's generated pool.
	OriginPool QuestionOrigin = "pool"

	// OriginGenerated marks a question synthesized on demand from the
	// conversation context.
	OriginGenerated QuestionOrigin = "generated"

	// OriginFallback marks a deterministic template question used because
	// the contextual generator was unavailable.
	OriginFallback QuestionOrigin = "fallback"
)

// Question is a single interview question. Questions are immutable once
// generated and are owned by the session's question pool.
type Question struct {
	// ID uniquely identifies the question within a session.
	ID string `json:"id"`

	// Text is the prompt read to the candidate.
	Text string `json:"text"`

	// Type categorizes the question for bandit selection.
	Type QuestionType `json:"type"`

	// Difficulty is the question's difficulty arm.
	Difficulty Difficulty `json:"difficulty"`

	// Category is a free-form topical tag, e.g. "System Design".
	Category string `json:"category"`

	// ExpectedKeywords are ordered scoring hints passed to the text
	// analysis oracle. They are hints, not an invariant of the answer.
	ExpectedKeywords []string `json:"expected_keywords,omitempty"`

	// Origin records how the question was sourced.
	Origin QuestionOrigin `json:"origin"`
}

// IsFallback reports whether the question was produced by the deterministic
// fallback template rather than a generator.
func (q Question) IsFallback() bool { return q.Origin == OriginFallback }
