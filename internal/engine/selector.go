package engine

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/candidly/interview-engine/internal/domain"
)

// Performance bands used when steering arm samples and when choosing the
// difficulty of adaptively generated questions.
const (
	highPerformanceFloor = 0.8
	lowPerformanceCeil   = 0.6

	// successThreshold is the technical score at or above which an answer
	// counts as an arm success.
	successThreshold = 0.7

	// steerPenalty damps arms that fight the candidate's trajectory:
	// easy arms for strong candidates, hard arms for struggling ones.
	steerPenalty = 0.7
)

// BanditSelector picks the next question with Thompson sampling over two
// independent Beta-Bernoulli processes, one across question types and one
// across difficulty levels. Each arm's posterior is Beta(success+1,
// failure+1) over the uniform prior baked into domain.NewArmStats.
type BanditSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBanditSelector returns a selector drawing from the given source.
// Tests pass a fixed seed for reproducible draws.
func NewBanditSelector(src rand.Source) *BanditSelector {
	return &BanditSelector{rng: rand.New(src)}
}

// Seed biases fresh arm statistics toward the job context before any
// answer has been observed. Technical questions get a head start for
// skill-heavy roles, and the role's experience level is favored over the
// other difficulty arms.
func (s *BanditSelector) Seed(job domain.JobContext) domain.ArmStats {
	arms := domain.NewArmStats()
	for _, qt := range domain.QuestionTypes {
		if qt == domain.QuestionTechnical && len(job.KeySkills) > 3 {
			arms.Types[qt] = domain.Arm{Success: 3, Failure: 1}
		} else {
			arms.Types[qt] = domain.Arm{Success: 2, Failure: 2}
		}
	}
	for _, d := range domain.Difficulties {
		if d == job.ExperienceLevel {
			arms.Difficulties[d] = domain.Arm{Success: 3, Failure: 1}
		} else {
			arms.Difficulties[d] = domain.Arm{Success: 2, Failure: 2}
		}
	}
	return arms
}

// Next scores every unasked pool question and returns the best one. Ties
// keep pool insertion order. The second return is false when the pool has
// no unasked questions left, in which case the caller falls back to
// adaptive generation.
func (s *BanditSelector) Next(session *domain.InterviewSession) (domain.Question, bool) {
	asked := make(map[string]bool, len(session.Questions))
	for _, id := range session.AskedIDs() {
		asked[id] = true
	}
	level := performanceLevel(session)

	s.mu.Lock()
	typeSamples := make(map[domain.QuestionType]float64, len(domain.QuestionTypes))
	for _, qt := range domain.QuestionTypes {
		arm := session.Arms.Types[qt]
		typeSamples[qt] = sampleBeta(s.rng, float64(arm.Success+1), float64(arm.Failure+1))
	}
	diffSamples := make(map[domain.Difficulty]float64, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		arm := session.Arms.Difficulties[d]
		diffSamples[d] = sampleBeta(s.rng, float64(arm.Success+1), float64(arm.Failure+1))
	}
	s.mu.Unlock()

	for d, sample := range diffSamples {
		if shouldSteerAway(level, d) {
			diffSamples[d] = sample * steerPenalty
		}
	}

	implied := s.TargetDifficulty(session)

	var (
		best      domain.Question
		bestScore = -1.0
		found     bool
	)
	for _, q := range session.Pool {
		if asked[q.ID] {
			continue
		}
		score := (typeSamples[q.Type] + diffSamples[q.Difficulty] + relevance(q, session.Job, implied)) / 3
		if score > bestScore {
			best = q
			bestScore = score
			found = true
		}
	}
	return best, found
}

// Update folds one scored answer back into the arm statistics. A technical
// score of successThreshold or better counts as a success for both the
// question's type arm and its difficulty arm.
func (s *BanditSelector) Update(arms *domain.ArmStats, q domain.Question, technical float64) {
	success := technical >= successThreshold
	typeArm := arms.Types[q.Type]
	diffArm := arms.Difficulties[q.Difficulty]
	if success {
		typeArm.Success++
		diffArm.Success++
	} else {
		typeArm.Failure++
		diffArm.Failure++
	}
	arms.Types[q.Type] = typeArm
	arms.Difficulties[q.Difficulty] = diffArm
}

// TargetDifficulty is the difficulty requested from adaptive generation:
// one step up from the role's level for strong candidates, one step down
// for struggling ones, the role's level otherwise.
func (s *BanditSelector) TargetDifficulty(session *domain.InterviewSession) domain.Difficulty {
	base := session.Job.ExperienceLevel
	rank := domain.DifficultyRank(base)
	switch performanceLevel(session) {
	case levelHigh:
		if rank < len(domain.Difficulties)-1 {
			return domain.Difficulties[rank+1]
		}
	case levelLow:
		if rank > 0 {
			return domain.Difficulties[rank-1]
		}
	}
	return base
}

// Fallback builds a deterministic question for when both the pool and
// adaptive generation come up empty. The ID incorporates the session's
// question count so repeated fallbacks stay unique.
func (s *BanditSelector) Fallback(session *domain.InterviewSession) domain.Question {
	d := s.TargetDifficulty(session)
	topic := session.Job.Title
	if len(session.Job.KeySkills) > 0 {
		topic = session.Job.KeySkills[len(session.Questions)%len(session.Job.KeySkills)]
	}
	return domain.Question{
		ID:         fmt.Sprintf("fallback_%s_%d", d, len(session.Questions)),
		Text:       fmt.Sprintf("Tell me about a challenging problem you solved involving %s, and walk me through your approach.", topic),
		Type:       domain.QuestionTechnical,
		Difficulty: d,
		Category:   "general",
		ExpectedKeywords: []string{
			"problem", "approach", "solution", "outcome",
		},
		Origin: domain.OriginFallback,
	}
}

type perfLevel int

const (
	levelMid perfLevel = iota
	levelHigh
	levelLow
)

// levelLabel is the wire form of a performance level, used when passing
// snapshots to the contextual question generator.
func levelLabel(l perfLevel) string {
	switch l {
	case levelHigh:
		return "high"
	case levelLow:
		return "low"
	default:
		return "medium"
	}
}

func performanceLevel(session *domain.InterviewSession) perfLevel {
	if len(session.Answers) == 0 {
		return levelMid
	}
	m := session.MeanTechnical()
	switch {
	case m >= highPerformanceFloor:
		return levelHigh
	case m < lowPerformanceCeil:
		return levelLow
	default:
		return levelMid
	}
}

// shouldSteerAway reports whether the difficulty arm works against the
// candidate's current level: the two easiest arms for a high performer,
// the two hardest for a low one.
func shouldSteerAway(level perfLevel, d domain.Difficulty) bool {
	rank := domain.DifficultyRank(d)
	switch level {
	case levelHigh:
		return rank <= 1
	case levelLow:
		return rank >= 2
	default:
		return false
	}
}

// relevance rewards pool questions aligned with the interview: a base of
// 0.5, plus 0.3 for technical questions against skill-heavy roles, plus
// 0.2 when the difficulty matches the level implied by the candidate's
// performance so far, capped at 1.
func relevance(q domain.Question, job domain.JobContext, implied domain.Difficulty) float64 {
	score := 0.5
	if q.Type == domain.QuestionTechnical && len(job.KeySkills) > 3 {
		score += 0.3
	}
	if q.Difficulty == implied {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}
