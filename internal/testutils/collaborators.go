// Package testutils provides deterministic stand-ins for the engine's
// external collaborators so orchestration logic can be tested without any
// live speech or LLM service.
package testutils

import (
	"context"
	"sync"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

// ScriptedTranscriber returns canned transcripts in order, then repeats
// the last one. A non-nil Err fails every call instead.
type ScriptedTranscriber struct {
	Transcripts []string
	Err         error

	mu    sync.Mutex
	calls int
}

// Transcribe implements ports.Transcriber.
func (s *ScriptedTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Transcripts) == 0 {
		return "", nil
	}
	i := s.calls
	if i >= len(s.Transcripts) {
		i = len(s.Transcripts) - 1
	}
	s.calls++
	return s.Transcripts[i], nil
}

// Calls reports how many transcriptions were requested.
func (s *ScriptedTranscriber) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ScriptedExtractor returns one fixed feature set, or fails with Err.
type ScriptedExtractor struct {
	Features ports.AudioFeatures
	Err      error
}

// ExtractFeatures implements ports.AudioFeatureExtractor.
func (s *ScriptedExtractor) ExtractFeatures(_ context.Context, _ []byte) (ports.AudioFeatures, error) {
	if s.Err != nil {
		return ports.AudioFeatures{}, s.Err
	}
	return s.Features, nil
}

// ScriptedAnalyzer returns canned analyses in order, then repeats the
// last one. FailFirst makes the first N calls fail, which exercises the
// controller's retry path.
type ScriptedAnalyzer struct {
	Analyses  []ports.TextAnalysis
	Err       error
	FailFirst int

	mu    sync.Mutex
	calls int
}

// AnalyzeText implements ports.TextAnalyzer.
func (s *ScriptedAnalyzer) AnalyzeText(_ context.Context, _ domain.Question, _ string) (ports.TextAnalysis, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()

	if call < s.FailFirst {
		return ports.TextAnalysis{}, domain.ErrServiceUnavailable
	}
	if s.Err != nil {
		return ports.TextAnalysis{}, s.Err
	}
	if len(s.Analyses) == 0 {
		return ports.TextAnalysis{}, nil
	}
	if call >= len(s.Analyses) {
		call = len(s.Analyses) - 1
	}
	return s.Analyses[call], nil
}

// Calls reports how many analyses were requested, retries included.
func (s *ScriptedAnalyzer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ScriptedQuestionSource serves a fixed pool and a fixed contextual
// question. Either path can be failed independently.
type ScriptedQuestionSource struct {
	Pool          []domain.Question
	PoolErr       error
	Contextual    domain.Question
	ContextualErr error

	mu              sync.Mutex
	contextualCalls int
	lastRequest     ports.ContextualRequest
}

// GeneratePool implements ports.QuestionSource.
func (s *ScriptedQuestionSource) GeneratePool(_ context.Context, _ domain.JobContext) ([]domain.Question, error) {
	if s.PoolErr != nil {
		return nil, s.PoolErr
	}
	out := make([]domain.Question, len(s.Pool))
	copy(out, s.Pool)
	return out, nil
}

// GenerateContextual implements ports.QuestionSource.
func (s *ScriptedQuestionSource) GenerateContextual(_ context.Context, req ports.ContextualRequest) (domain.Question, error) {
	s.mu.Lock()
	s.contextualCalls++
	s.lastRequest = req
	s.mu.Unlock()
	if s.ContextualErr != nil {
		return domain.Question{}, s.ContextualErr
	}
	return s.Contextual, nil
}

// ContextualCalls reports how many contextual generations were requested.
func (s *ScriptedQuestionSource) ContextualCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextualCalls
}

// LastRequest returns the most recent contextual request.
func (s *ScriptedQuestionSource) LastRequest() ports.ContextualRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequest
}

// ScriptedJobAnalyzer returns fixed requirements, or fails with Err.
type ScriptedJobAnalyzer struct {
	Requirements ports.JobRequirements
	Err          error
}

// ExtractRequirements implements ports.JobAnalyzer.
func (s *ScriptedJobAnalyzer) ExtractRequirements(_ context.Context, _, _ string) (ports.JobRequirements, error) {
	if s.Err != nil {
		return ports.JobRequirements{}, s.Err
	}
	return s.Requirements, nil
}

// RecordingStore is an in-memory ports.SessionStore that counts writes
// and can fail on demand.
type RecordingStore struct {
	PersistErr error

	mu       sync.Mutex
	sessions map[string]*domain.InterviewSession
	persists int
}

// NewRecordingStore returns an empty store.
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{sessions: make(map[string]*domain.InterviewSession)}
}

// Persist implements ports.SessionStore.
func (s *RecordingStore) Persist(_ context.Context, session *domain.InterviewSession) error {
	if s.PersistErr != nil {
		return s.PersistErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	s.persists++
	return nil
}

// Load implements ports.SessionStore.
func (s *RecordingStore) Load(_ context.Context, id string) (*domain.InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Persists reports how many successful writes the store has seen.
func (s *RecordingStore) Persists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persists
}

// Saved returns the last persisted document for a session id.
func (s *RecordingStore) Saved(id string) (*domain.InterviewSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

// ScriptedSynthesizer records synthesized text.
type ScriptedSynthesizer struct {
	Err error

	mu    sync.Mutex
	texts []string
}

// Synthesize implements ports.SpeechSynthesizer.
func (s *ScriptedSynthesizer) Synthesize(_ context.Context, text string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

// Spoken returns the texts synthesized so far.
func (s *ScriptedSynthesizer) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.texts))
	copy(out, s.texts)
	return out
}
