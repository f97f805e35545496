// Package ports defines the contracts between the interview engine's core
// and its external collaborators: speech services, the language-analysis
// oracle, question generation, and the persistent store.
// These interfaces enable dependency inversion and make the engine testable
// without any live service.
package ports

import (
	"context"
	"time"

	"github.com/candidly/interview-engine/internal/domain"
)

// Transcriber turns a recorded utterance into text.
type Transcriber interface {
	// Transcribe converts raw audio into a transcript.
	// Implementations should respect context cancellation; transcription
	// runs off the session's critical path.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// AudioFeatures are the signals extracted from a recorded response.
type AudioFeatures struct {
	// Fluency is the estimated speech fluency in [0,1].
	Fluency float64

	// Pitch is the mean estimated pitch in Hz. Informational only.
	Pitch float64

	// Emotions maps emotion labels to weights summing to 1.
	// Empty means no emotion signal could be extracted.
	Emotions map[string]float64

	// Duration is the length of the recording.
	Duration time.Duration
}

// AudioFeatureExtractor produces fluency, pitch, and emotion signals
// from a recorded utterance.
type AudioFeatureExtractor interface {
	ExtractFeatures(ctx context.Context, audio []byte) (AudioFeatures, error)
}

// TextAnalysis is the language-analysis oracle's scoring of a transcript
// against a question's rubric.
type TextAnalysis struct {
	// Technical is the technical accuracy score in [0,1].
	Technical float64

	// Sentiment is in [-1,1]: -1 negative, 0 neutral, 1 positive.
	Sentiment float64

	// Confidence is the perceived confidence level in [0,1].
	Confidence float64
}

// TextAnalyzer scores a transcript against a question. The question's
// expected keywords are scoring hints available to the implementation.
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, question domain.Question, transcript string) (TextAnalysis, error)
}

// Exchange is one question/answer pair of conversation history.
type Exchange struct {
	Question string
	Answer   string
}

// PerformanceSnapshot summarizes the candidate's rolling performance for
// contextual question generation.
type PerformanceSnapshot struct {
	Technical     float64
	Communication float64
	Confidence    float64

	// Level is the coarse performance band: "low", "medium", or "high".
	Level string
}

// ContextualRequest carries everything the on-demand question generator
// conditions on.
type ContextualRequest struct {
	// Job is the session's job context.
	Job domain.JobContext

	// History holds the last few Q/A exchanges, oldest first.
	History []Exchange

	// AskedIDs lists ids of questions already asked, so the generator
	// avoids repeats.
	AskedIDs []string

	// Performance is the current performance snapshot.
	Performance PerformanceSnapshot

	// Difficulty is the target difficulty for the next question.
	Difficulty domain.Difficulty
}

// QuestionSource generates interview questions: an initial pool seeded
// from the job posting, and contextual one-off questions when the pool
// is exhausted.
type QuestionSource interface {
	// GeneratePool synthesizes the session's initial question pool.
	GeneratePool(ctx context.Context, job domain.JobContext) ([]domain.Question, error)

	// GenerateContextual synthesizes one question conditioned on the
	// conversation so far. Failures are recovered locally by the
	// selector's fallback template and never abort an interview.
	GenerateContextual(ctx context.Context, req ContextualRequest) (domain.Question, error)
}

// JobRequirements are the structured requirements extracted from a job
// description at session creation.
type JobRequirements struct {
	KeySkills        []string
	ExperienceLevel  domain.Difficulty
	Responsibilities []string
}

// JobAnalyzer extracts structured requirements from a job posting.
type JobAnalyzer interface {
	ExtractRequirements(ctx context.Context, title, description string) (JobRequirements, error)
}

// SessionStore durably saves and loads session documents. The store is
// the system of record; the engine never assumes in-memory state survives
// a process restart.
type SessionStore interface {
	// Persist saves the full session document, overwriting any previous
	// version.
	Persist(ctx context.Context, session *domain.InterviewSession) error

	// Load returns the session with the given id, or
	// domain.ErrSessionNotFound.
	Load(ctx context.Context, id string) (*domain.InterviewSession, error)
}

// SpeechSynthesizer delivers question text to the candidate. Delivery is
// best effort and runs off the session's critical path.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations integrate with Prometheus or other monitoring
// backends; a nil collector disables collection.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
