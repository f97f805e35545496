package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

// Dependencies are the external collaborators injected into the
// controller. Store, TextAnalyzer, and Questions are required; the rest
// degrade gracefully when nil.
type Dependencies struct {
	Transcriber   ports.Transcriber
	AudioFeatures ports.AudioFeatureExtractor
	TextAnalyzer  ports.TextAnalyzer
	Questions     ports.QuestionSource
	JobAnalyzer   ports.JobAnalyzer
	Store         ports.SessionStore
	Synthesizer   ports.SpeechSynthesizer
	Metrics       ports.MetricsCollector
}

// SessionController orchestrates interview sessions: it owns their
// lifecycle, serializes per-session mutation, and drives the
// select-question, score-answer, update-arms, check-termination loop.
//
// Mutation is single-writer per session id. The per-session lock covers
// only in-memory transitions; transcription, scoring, and generation run
// against snapshots outside the lock and feed their results back in.
type SessionController struct {
	deps        Dependencies
	cfg         Config
	selector    *BanditSelector
	aggregator  *ScoreAggregator
	termination *TerminationPolicy
	summarizer  *PerformanceSummarizer
	clock       func() time.Time
	newID       func() string

	mu      sync.Mutex
	handles map[string]*sessionHandle
}

// sessionHandle pairs a session with its locks. stateMu guards the
// session struct, persistMu orders store writes so a stale snapshot can
// never overwrite a newer one, and scoring tracks in-flight answer
// scoring so Cancel can wait it out.
type sessionHandle struct {
	stateMu   sync.Mutex
	persistMu sync.Mutex
	session   *domain.InterviewSession
	scoring   sync.WaitGroup
}

// ControllerOption customizes controller construction.
type ControllerOption func(*SessionController)

// WithClock overrides the controller's time source. Used by tests.
func WithClock(clock func() time.Time) ControllerOption {
	return func(c *SessionController) { c.clock = clock }
}

// WithIDGenerator overrides session id generation. Used by tests.
func WithIDGenerator(gen func() string) ControllerOption {
	return func(c *SessionController) { c.newID = gen }
}

// WithSelector overrides the bandit selector, letting tests pin its
// random source.
func WithSelector(s *BanditSelector) ControllerOption {
	return func(c *SessionController) { c.selector = s }
}

// NewSessionController builds a controller from its collaborators and
// config. The config should already be validated; zero fields are filled
// from defaults.
func NewSessionController(deps Dependencies, cfg Config, opts ...ControllerOption) (*SessionController, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("session controller requires a store")
	}
	if deps.TextAnalyzer == nil {
		return nil, fmt.Errorf("session controller requires a text analyzer")
	}
	if deps.Questions == nil {
		return nil, fmt.Errorf("session controller requires a question source")
	}
	cfg.applyDefaults()

	c := &SessionController{
		deps:        deps,
		cfg:         cfg,
		termination: NewTerminationPolicy(cfg.MaxQuestions),
		summarizer:  NewPerformanceSummarizer(),
		clock:       time.Now,
		newID:       uuid.NewString,
		handles:     make(map[string]*sessionHandle),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.selector == nil {
		c.selector = NewBanditSelector(cryptoSeededSource())
	}
	c.aggregator = NewScoreAggregator(c.clock)
	return c, nil
}

// CreateSession analyzes the job posting, seeds the question pool, and
// persists a new session in the Created state. Job analysis and pool
// generation failures degrade to defaults instead of failing creation.
func (c *SessionController) CreateSession(ctx context.Context, title, description string) (*domain.InterviewSession, error) {
	if err := validateJobPosting(title, description); err != nil {
		return nil, err
	}
	job := c.analyzeJob(ctx, title, description)
	pool := c.seedPool(ctx, job)

	session := domain.NewSession(c.newID(), job, c.clock())
	session.Pool = pool

	if err := c.deps.Store.Persist(ctx, session); err != nil {
		return nil, domain.NewServiceError("store", "persist", err)
	}

	h := &sessionHandle{session: session}
	c.mu.Lock()
	c.handles[session.ID] = h
	c.mu.Unlock()

	c.count("interview_sessions_created_total", nil)
	return session.Clone(), nil
}

// Start moves a Created session to InProgress and seeds the bandit arms
// from the job context.
func (c *SessionController) Start(ctx context.Context, id string) error {
	h, err := c.handle(ctx, id)
	if err != nil {
		return err
	}
	h.stateMu.Lock()
	if err := h.session.Start(c.clock()); err != nil {
		h.stateMu.Unlock()
		return err
	}
	h.session.Arms = c.selector.Seed(h.session.Job)
	h.stateMu.Unlock()

	return c.persist(ctx, h)
}

// Pause suspends an InProgress session without touching its questions or
// answers.
func (c *SessionController) Pause(ctx context.Context, id string) error {
	return c.transition(ctx, id, (*domain.InterviewSession).Pause)
}

// Resume returns a Paused session to InProgress.
func (c *SessionController) Resume(ctx context.Context, id string) error {
	return c.transition(ctx, id, (*domain.InterviewSession).Resume)
}

// NextQuestion selects the next question for the session, appends it to
// the asked list, and delivers it via the synthesizer when one is
// configured. When the pool is exhausted it falls back to contextual
// generation, and when that fails, to a deterministic template question.
func (c *SessionController) NextQuestion(ctx context.Context, id string) (domain.Question, error) {
	h, err := c.handle(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}

	h.stateMu.Lock()
	if h.session.Status != domain.StatusInProgress {
		status := h.session.Status
		h.stateMu.Unlock()
		return domain.Question{}, domain.NewInvalidTransition("next_question", status, domain.StatusInProgress)
	}
	snapshot := h.session.Clone()
	h.stateMu.Unlock()

	q, ok := c.selector.Next(snapshot)
	if !ok {
		q = c.generateQuestion(ctx, snapshot)
	}

	h.stateMu.Lock()
	err = h.session.AskQuestion(q)
	h.stateMu.Unlock()
	if err != nil {
		return domain.Question{}, err
	}
	if err := c.persist(ctx, h); err != nil {
		return domain.Question{}, err
	}

	c.count("interview_questions_asked_total", map[string]string{
		"type":       string(q.Type),
		"difficulty": string(q.Difficulty),
		"origin":     string(q.Origin),
	})

	if c.deps.Synthesizer != nil {
		// Best effort: a TTS failure never blocks the interview.
		go func(text string) {
			if err := c.deps.Synthesizer.Synthesize(context.WithoutCancel(ctx), text); err != nil {
				c.count("interview_tts_failures_total", nil)
			}
		}(q.Text)
	}
	return q, nil
}

// ScoredResponse is the outcome of submitting one recorded answer.
type ScoredResponse struct {
	Answer   domain.Answer
	Feedback string

	// Done reports that the termination policy ended the interview with
	// this answer; Reason carries the recorded stop reason.
	Done   bool
	Reason string
}

// SubmitResponse scores a recorded answer for the session's pending
// question and folds it into the session. Transcription, audio analysis,
// and the scoring oracle all run outside the session lock; a collaborator
// failure produces a degraded answer with neutral scores rather than an
// error. After recording, the termination policy may complete the
// session.
func (c *SessionController) SubmitResponse(ctx context.Context, id string, audio []byte) (ScoredResponse, error) {
	h, err := c.handle(ctx, id)
	if err != nil {
		return ScoredResponse{}, err
	}

	h.stateMu.Lock()
	if h.session.Status != domain.StatusInProgress {
		status := h.session.Status
		h.stateMu.Unlock()
		return ScoredResponse{}, domain.NewInvalidTransition("submit_response", status, domain.StatusInProgress)
	}
	if len(h.session.Answers) >= len(h.session.Questions) {
		h.stateMu.Unlock()
		return ScoredResponse{}, domain.ErrAnswerWithoutQuestion
	}
	question := h.session.Questions[len(h.session.Answers)]
	h.scoring.Add(1)
	h.stateMu.Unlock()
	defer h.scoring.Done()

	started := c.clock()
	answer := c.scoreResponse(ctx, question, audio)
	c.latency("score_response", c.clock().Sub(started), map[string]string{
		"degraded": fmt.Sprintf("%t", answer.Degraded),
	})

	var (
		done   bool
		reason string
	)
	h.stateMu.Lock()
	if err := h.session.RecordAnswer(answer); err != nil {
		h.stateMu.Unlock()
		return ScoredResponse{}, err
	}
	c.selector.Update(&h.session.Arms, question, answer.Technical)
	if stop, why := c.termination.ShouldStop(h.session); stop {
		metrics := c.summarizer.Summarize(h.session)
		if err := h.session.Complete(*metrics, why, c.clock()); err != nil {
			h.stateMu.Unlock()
			return ScoredResponse{}, err
		}
		done, reason = true, why
	}
	h.stateMu.Unlock()

	if err := c.persist(ctx, h); err != nil {
		return ScoredResponse{}, err
	}
	if done {
		c.count("interview_sessions_completed_total", map[string]string{"reason": reason})
	}

	return ScoredResponse{
		Answer:   answer,
		Feedback: c.summarizer.FeedbackFor(answer),
		Done:     done,
		Reason:   reason,
	}, nil
}

// Complete ends an InProgress session explicitly, freezing its
// performance metrics.
func (c *SessionController) Complete(ctx context.Context, id string) (*domain.PerformanceMetrics, error) {
	h, err := c.handle(ctx, id)
	if err != nil {
		return nil, err
	}
	h.scoring.Wait()

	h.stateMu.Lock()
	metrics := c.summarizer.Summarize(h.session)
	if err := h.session.Complete(*metrics, "interview_completed", c.clock()); err != nil {
		h.stateMu.Unlock()
		return nil, err
	}
	h.stateMu.Unlock()

	if err := c.persist(ctx, h); err != nil {
		return nil, err
	}
	c.count("interview_sessions_completed_total", map[string]string{"reason": "interview_completed"})
	out := metrics.Clone()
	return &out, nil
}

// Cancel terminates a session from any non-terminal state. An in-flight
// scoring call is allowed to finish first so no partial answer is
// orphaned; metrics are left unset.
func (c *SessionController) Cancel(ctx context.Context, id string) error {
	h, err := c.handle(ctx, id)
	if err != nil {
		return err
	}
	h.scoring.Wait()

	h.stateMu.Lock()
	if err := h.session.Cancel(c.clock()); err != nil {
		h.stateMu.Unlock()
		return err
	}
	h.stateMu.Unlock()

	if err := c.persist(ctx, h); err != nil {
		return err
	}
	c.count("interview_sessions_cancelled_total", nil)
	return nil
}

// Session returns a copy of the session's current state.
func (c *SessionController) Session(ctx context.Context, id string) (*domain.InterviewSession, error) {
	h, err := c.handle(ctx, id)
	if err != nil {
		return nil, err
	}
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	return h.session.Clone(), nil
}

// handle returns the in-memory handle for a session, hydrating it from
// the store when the process has not seen the id yet.
func (c *SessionController) handle(ctx context.Context, id string) (*sessionHandle, error) {
	c.mu.Lock()
	if h, ok := c.handles[id]; ok {
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	session, err := c.deps.Store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent loader may have won the race.
	if h, ok := c.handles[id]; ok {
		return h, nil
	}
	h := &sessionHandle{session: session}
	c.handles[id] = h
	return h, nil
}

func (c *SessionController) transition(ctx context.Context, id string, op func(*domain.InterviewSession) error) error {
	h, err := c.handle(ctx, id)
	if err != nil {
		return err
	}
	h.stateMu.Lock()
	if err := op(h.session); err != nil {
		h.stateMu.Unlock()
		return err
	}
	h.stateMu.Unlock()
	return c.persist(ctx, h)
}

// persist snapshots the session and writes it to the store. persistMu is
// taken before the snapshot so writes reach the store in snapshot order.
func (c *SessionController) persist(ctx context.Context, h *sessionHandle) error {
	h.persistMu.Lock()
	defer h.persistMu.Unlock()

	h.stateMu.Lock()
	snapshot := h.session.Clone()
	h.stateMu.Unlock()

	if err := c.deps.Store.Persist(ctx, snapshot); err != nil {
		return domain.NewServiceError("store", "persist", err)
	}
	return nil
}

// validateJobPosting rejects postings the job analyzer has nothing to
// work with.
func validateJobPosting(title, description string) error {
	verr := domain.NewValidationError("job context")
	if strings.TrimSpace(title) == "" {
		verr.AddError("title must not be empty")
	}
	if strings.TrimSpace(description) == "" {
		verr.AddError("description must not be empty")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (c *SessionController) analyzeJob(ctx context.Context, title, description string) domain.JobContext {
	job := domain.JobContext{
		Title:           title,
		Description:     description,
		ExperienceLevel: domain.DifficultyIntermediate,
	}
	if c.deps.JobAnalyzer == nil {
		return job
	}
	reqs, err := c.deps.JobAnalyzer.ExtractRequirements(ctx, title, description)
	if err != nil {
		c.count("interview_job_analysis_failures_total", nil)
		return job
	}
	job.KeySkills = reqs.KeySkills
	job.Responsibilities = reqs.Responsibilities
	if reqs.ExperienceLevel != "" {
		job.ExperienceLevel = reqs.ExperienceLevel
	}
	return job
}

func (c *SessionController) seedPool(ctx context.Context, job domain.JobContext) []domain.Question {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.GenerationTimeout)
	defer cancel()

	pool, err := c.deps.Questions.GeneratePool(ctx, job)
	if err != nil {
		c.count("interview_pool_generation_failures_total", nil)
		return nil
	}
	if len(pool) > c.cfg.PoolSize {
		pool = pool[:c.cfg.PoolSize]
	}
	return pool
}

// generateQuestion asks the contextual generator for one question based
// on the snapshot, falling back to the selector's template question when
// generation fails or times out.
func (c *SessionController) generateQuestion(ctx context.Context, snapshot *domain.InterviewSession) domain.Question {
	req := ports.ContextualRequest{
		Job:         snapshot.Job,
		History:     recentHistory(snapshot, 3),
		AskedIDs:    snapshot.AskedIDs(),
		Performance: performanceSnapshot(snapshot),
		Difficulty:  c.selector.TargetDifficulty(snapshot),
	}

	genCtx, cancel := context.WithTimeout(ctx, c.cfg.GenerationTimeout)
	defer cancel()

	q, err := c.deps.Questions.GenerateContextual(genCtx, req)
	if err != nil {
		c.count("interview_question_fallbacks_total", nil)
		return c.selector.Fallback(snapshot)
	}
	q.Origin = domain.OriginGenerated
	return q
}

// scoreResponse runs the full scoring pipeline for one recorded answer:
// transcription first, then audio-feature extraction and the scoring
// oracle concurrently. Every stage is bounded by the scoring timeout and
// a failed stage leaves its axes neutral.
func (c *SessionController) scoreResponse(ctx context.Context, q domain.Question, audio []byte) domain.Answer {
	transcript, transcribed := c.transcribe(ctx, audio)

	var (
		feats       ports.AudioFeatures
		featsErr    error
		analysis    ports.TextAnalysis
		analysisErr error
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		feats, featsErr = c.extractFeatures(ctx, audio)
		return nil
	})
	if transcribed {
		g.Go(func() error {
			analysis, analysisErr = c.analyzeTranscript(ctx, q, transcript)
			return nil
		})
	} else {
		analysisErr = domain.ErrServiceUnavailable
	}
	_ = g.Wait()

	var featsPtr *ports.AudioFeatures
	if featsErr == nil && c.deps.AudioFeatures != nil {
		featsPtr = &feats
	}
	var analysisPtr *ports.TextAnalysis
	if analysisErr == nil {
		analysisPtr = &analysis
	}
	return c.aggregator.Score(q, transcript, featsPtr, analysisPtr)
}

func (c *SessionController) transcribe(ctx context.Context, audio []byte) (string, bool) {
	if c.deps.Transcriber == nil || len(audio) == 0 {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ScoringTimeout)
	defer cancel()

	text, err := c.deps.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		c.count("interview_transcription_failures_total", nil)
		return "", false
	}
	return text, true
}

func (c *SessionController) extractFeatures(ctx context.Context, audio []byte) (ports.AudioFeatures, error) {
	if c.deps.AudioFeatures == nil {
		return ports.AudioFeatures{}, domain.ErrServiceUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ScoringTimeout)
	defer cancel()

	feats, err := c.deps.AudioFeatures.ExtractFeatures(ctx, audio)
	if err != nil {
		c.count("interview_audio_analysis_failures_total", nil)
		return ports.AudioFeatures{}, err
	}
	return feats, nil
}

// analyzeTranscript calls the scoring oracle with one retry after a
// short backoff. A second failure degrades the answer instead of
// propagating.
func (c *SessionController) analyzeTranscript(ctx context.Context, q domain.Question, transcript string) (ports.TextAnalysis, error) {
	attempt := func() (ports.TextAnalysis, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.ScoringTimeout)
		defer cancel()
		return c.deps.TextAnalyzer.AnalyzeText(callCtx, q, transcript)
	}

	analysis, err := attempt()
	if err == nil {
		return analysis, nil
	}
	select {
	case <-ctx.Done():
		return ports.TextAnalysis{}, ctx.Err()
	case <-time.After(c.cfg.ScoringRetryBackoff):
	}
	analysis, err = attempt()
	if err != nil {
		c.count("interview_scoring_failures_total", nil)
		return ports.TextAnalysis{}, err
	}
	return analysis, nil
}

func recentHistory(session *domain.InterviewSession, n int) []ports.Exchange {
	start := len(session.Answers) - n
	if start < 0 {
		start = 0
	}
	history := make([]ports.Exchange, 0, len(session.Answers)-start)
	for i := start; i < len(session.Answers); i++ {
		history = append(history, ports.Exchange{
			Question: session.Questions[i].Text,
			Answer:   session.Answers[i].Transcript,
		})
	}
	return history
}

func performanceSnapshot(session *domain.InterviewSession) ports.PerformanceSnapshot {
	snap := ports.PerformanceSnapshot{Level: levelLabel(performanceLevel(session))}
	if len(session.Answers) == 0 {
		snap.Technical = neutralScore
		snap.Communication = neutralScore
		snap.Confidence = neutralScore
		return snap
	}
	var technical, communication, confidence float64
	for _, ans := range session.Answers {
		technical += ans.Technical
		communication += (ans.Fluency + ans.Confidence) / 2
		confidence += ans.Confidence
	}
	n := float64(len(session.Answers))
	snap.Technical = technical / n
	snap.Communication = communication / n
	snap.Confidence = confidence / n
	return snap
}

func (c *SessionController) count(metric string, labels map[string]string) {
	if c.deps.Metrics != nil {
		c.deps.Metrics.RecordCounter(metric, 1, labels)
	}
}

func (c *SessionController) latency(op string, d time.Duration, labels map[string]string) {
	if c.deps.Metrics != nil {
		c.deps.Metrics.RecordLatency(op, d, labels)
	}
}
