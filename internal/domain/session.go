package domain

import (
	"time"
)

// Status is the lifecycle state of an interview session.
type Status string

// Session lifecycle states. Completed and Cancelled are terminal.
const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// JobContext carries the job posting a session interviews for, plus the
// requirements extracted from its description.
type JobContext struct {
	// Title is the job title, e.g. "Senior Backend Engineer".
	Title string `json:"title"`

	// Description is the raw job description text.
	Description string `json:"description"`

	// KeySkills are the technical skills extracted from the description.
	KeySkills []string `json:"key_skills,omitempty"`

	// ExperienceLevel is the target difficulty implied by the posting.
	ExperienceLevel Difficulty `json:"experience_level"`

	// Responsibilities are the main responsibilities extracted from the
	// description. Informational only; selection does not use them.
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// Arm holds the success/failure counters backing one bandit arm's Beta
// posterior. Counters are non-negative and never decrease.
type Arm struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// ArmStats holds the session-scoped bandit state: one arm per question
// type and one per difficulty level. Stats are mutated only by the
// selector's Update path and are never shared between sessions.
type ArmStats struct {
	Types        map[QuestionType]Arm `json:"types"`
	Difficulties map[Difficulty]Arm   `json:"difficulties"`
}

// NewArmStats returns ArmStats with every arm present at a uniform (1,1)
// prior, so Beta sampling never degenerates to an undefined 0/0 posterior.
// Start() re-seeds the priors from the job context.
func NewArmStats() ArmStats {
	stats := ArmStats{
		Types:        make(map[QuestionType]Arm, len(QuestionTypes)),
		Difficulties: make(map[Difficulty]Arm, len(Difficulties)),
	}
	for _, qt := range QuestionTypes {
		stats.Types[qt] = Arm{Success: 1, Failure: 1}
	}
	for _, d := range Difficulties {
		stats.Difficulties[d] = Arm{Success: 1, Failure: 1}
	}
	return stats
}

// Clone returns a deep copy of the arm stats.
func (s ArmStats) Clone() ArmStats {
	out := ArmStats{
		Types:        make(map[QuestionType]Arm, len(s.Types)),
		Difficulties: make(map[Difficulty]Arm, len(s.Difficulties)),
	}
	for k, v := range s.Types {
		out.Types[k] = v
	}
	for k, v := range s.Difficulties {
		out.Difficulties[k] = v
	}
	return out
}

// InterviewSession is the unit of consistency for one mock interview.
// Questions and Answers are append-only and ordered: one answer per asked
// question, in the same order. All mutation goes through the transition
// and append methods below; the controller serializes calls per session.
type InterviewSession struct {
	// ID uniquely identifies the session.
	ID string `json:"id"`

	// Job is the job context the interview targets.
	Job JobContext `json:"job"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// Pool is the session-owned candidate question pool, in insertion
	// order. Insertion order breaks selection-score ties.
	Pool []Question `json:"pool,omitempty"`

	// Questions are the questions asked so far, in ask order. Append-only.
	Questions []Question `json:"questions"`

	// Answers are the recorded answers, one per asked question, in the
	// same order. Append-only.
	Answers []Answer `json:"answers"`

	// CurrentIndex is the index of the next question to ask.
	CurrentIndex int `json:"current_index"`

	// Arms is the session-scoped bandit state.
	Arms ArmStats `json:"arms"`

	// Metrics is set exactly once, at completion.
	Metrics *PerformanceMetrics `json:"metrics,omitempty"`

	// StopReason records which termination rule ended the interview,
	// empty if it was ended externally.
	StopReason string `json:"stop_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewSession creates a session in the Created state with default arm priors.
func NewSession(id string, job JobContext, now time.Time) *InterviewSession {
	return &InterviewSession{
		ID:        id,
		Job:       job,
		Status:    StatusCreated,
		Arms:      NewArmStats(),
		CreatedAt: now,
	}
}

// Start transitions Created -> InProgress and records the start time.
func (s *InterviewSession) Start(now time.Time) error {
	if s.Status != StatusCreated {
		return NewInvalidTransition("Start", s.Status, StatusInProgress)
	}
	s.Status = StatusInProgress
	s.StartedAt = &now
	return nil
}

// Pause transitions InProgress -> Paused. Questions and answers are
// untouched across pause/resume.
func (s *InterviewSession) Pause() error {
	if s.Status != StatusInProgress {
		return NewInvalidTransition("Pause", s.Status, StatusPaused)
	}
	s.Status = StatusPaused
	return nil
}

// Resume transitions Paused -> InProgress.
func (s *InterviewSession) Resume() error {
	if s.Status != StatusPaused {
		return NewInvalidTransition("Resume", s.Status, StatusInProgress)
	}
	s.Status = StatusInProgress
	return nil
}

// Complete transitions InProgress -> Completed and freezes the final
// metrics. Metrics are computed wholesale by the summarizer; this method
// only records them.
func (s *InterviewSession) Complete(metrics PerformanceMetrics, reason string, now time.Time) error {
	if s.Status != StatusInProgress {
		return NewInvalidTransition("Complete", s.Status, StatusCompleted)
	}
	s.Status = StatusCompleted
	s.Metrics = &metrics
	s.StopReason = reason
	s.CompletedAt = &now
	return nil
}

// Cancel transitions any non-terminal state to Cancelled. Metrics are
// left unset.
func (s *InterviewSession) Cancel(now time.Time) error {
	if s.Status.Terminal() {
		return NewInvalidTransition("Cancel", s.Status, StatusCancelled)
	}
	s.Status = StatusCancelled
	s.CompletedAt = &now
	return nil
}

// AskQuestion appends a question to the asked list and advances the
// index. It rejects repeated question ids and asking outside InProgress.
func (s *InterviewSession) AskQuestion(q Question) error {
	if s.Status != StatusInProgress {
		return NewInvalidTransition("AskQuestion", s.Status, StatusInProgress)
	}
	for _, asked := range s.Questions {
		if asked.ID == q.ID {
			return ErrQuestionRepeated
		}
	}
	s.Questions = append(s.Questions, q)
	s.CurrentIndex++
	return nil
}

// RecordAnswer appends an answer for the most recently asked question.
// The invariant len(Answers) <= len(Questions) always holds.
func (s *InterviewSession) RecordAnswer(a Answer) error {
	if s.Status != StatusInProgress {
		return NewInvalidTransition("RecordAnswer", s.Status, StatusInProgress)
	}
	if len(s.Answers) >= len(s.Questions) {
		return ErrAnswerWithoutQuestion
	}
	if expected := s.Questions[len(s.Answers)].ID; a.QuestionID != expected {
		return ErrAnswerWithoutQuestion
	}
	s.Answers = append(s.Answers, a)
	return nil
}

// AskedIDs returns the ids of all questions asked so far, in ask order.
func (s *InterviewSession) AskedIDs() []string {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

// QuestionByID returns the asked or pooled question with the given id.
func (s *InterviewSession) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	for _, q := range s.Pool {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// MeanTechnical returns the mean technical score over all answers,
// or 0.5 when no answers have been recorded yet.
func (s *InterviewSession) MeanTechnical() float64 {
	if len(s.Answers) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, a := range s.Answers {
		sum += a.Technical
	}
	return sum / float64(len(s.Answers))
}

// RecentTechnical returns the technical scores of the last n answers,
// oldest first. Fewer than n answers returns all of them.
func (s *InterviewSession) RecentTechnical(n int) []float64 {
	start := len(s.Answers) - n
	if start < 0 {
		start = 0
	}
	scores := make([]float64, 0, len(s.Answers)-start)
	for _, a := range s.Answers[start:] {
		scores = append(scores, a.Technical)
	}
	return scores
}

// Clone returns a deep copy of the session, so stores and callers can
// hold snapshots without aliasing the live state.
func (s *InterviewSession) Clone() *InterviewSession {
	out := *s
	out.Arms = s.Arms.Clone()
	out.Pool = append([]Question(nil), s.Pool...)
	out.Questions = append([]Question(nil), s.Questions...)
	out.Answers = make([]Answer, len(s.Answers))
	for i, a := range s.Answers {
		out.Answers[i] = a
		if a.Emotions != nil {
			emotions := make(map[string]float64, len(a.Emotions))
			for k, v := range a.Emotions {
				emotions[k] = v
			}
			out.Answers[i].Emotions = emotions
		}
	}
	out.Job.KeySkills = append([]string(nil), s.Job.KeySkills...)
	out.Job.Responsibilities = append([]string(nil), s.Job.Responsibilities...)
	if s.Metrics != nil {
		m := s.Metrics.Clone()
		out.Metrics = &m
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}
