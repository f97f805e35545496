// Package store provides SessionStore adapters: a SQLite-backed store
// as the system of record and an in-memory store for tests and offline
// runs. The adapters are the only place translating between the stored
// document shape and the engine's typed model; the document schema is
// versioned so old rows stay readable as the model evolves.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/candidly/interview-engine/internal/domain"
)

// documentVersion is the current session document schema version.
const documentVersion = 1

// sessionDocument is the stored wire shape of a session. It mirrors the
// domain model field by field on purpose: the engine's structs can change
// without silently changing what is on disk.
type sessionDocument struct {
	Version      int                `json:"version"`
	ID           string             `json:"id"`
	Job          jobDocument        `json:"job"`
	Status       string             `json:"status"`
	Pool         []questionDocument `json:"pool,omitempty"`
	Questions    []questionDocument `json:"questions"`
	Answers      []answerDocument   `json:"answers"`
	CurrentIndex int                `json:"current_index"`
	Arms         armsDocument       `json:"arms"`
	Metrics      *metricsDocument   `json:"metrics,omitempty"`
	StopReason   string             `json:"stop_reason,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}

type jobDocument struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	KeySkills        []string `json:"key_skills,omitempty"`
	ExperienceLevel  string   `json:"experience_level"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

type questionDocument struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category,omitempty"`
	ExpectedKeywords []string `json:"expected_keywords,omitempty"`
	Origin           string   `json:"origin"`
}

type answerDocument struct {
	QuestionID    string             `json:"question_id"`
	Transcript    string             `json:"transcript"`
	Technical     float64            `json:"technical"`
	Fluency       float64            `json:"fluency"`
	Confidence    float64            `json:"confidence"`
	Sentiment     float64            `json:"sentiment"`
	Emotions      map[string]float64 `json:"emotions,omitempty"`
	AudioMillis   int64              `json:"audio_millis"`
	Timestamp     time.Time          `json:"timestamp"`
	Degraded      bool               `json:"degraded,omitempty"`
}

type armDocument struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

type armsDocument struct {
	Types        map[string]armDocument `json:"types"`
	Difficulties map[string]armDocument `json:"difficulties"`
}

type metricsDocument struct {
	Technical             float64            `json:"technical"`
	Communication         float64            `json:"communication"`
	EmotionalIntelligence float64            `json:"emotional_intelligence"`
	Behavioral            float64            `json:"behavioral"`
	Overall               float64            `json:"overall"`
	Strengths             []string           `json:"strengths,omitempty"`
	Weaknesses            []string           `json:"weaknesses,omitempty"`
	Recommendations       []string           `json:"recommendations,omitempty"`
	Trend                 string             `json:"trend,omitempty"`
	TypeBreakdown         map[string]float64 `json:"type_breakdown,omitempty"`
}

// encodeSession serializes a session into the current document schema.
func encodeSession(session *domain.InterviewSession) ([]byte, error) {
	doc := sessionDocument{
		Version:      documentVersion,
		ID:           session.ID,
		Job:          encodeJob(session.Job),
		Status:       string(session.Status),
		Pool:         encodeQuestions(session.Pool),
		Questions:    encodeQuestions(session.Questions),
		Answers:      encodeAnswers(session.Answers),
		CurrentIndex: session.CurrentIndex,
		Arms:         encodeArms(session.Arms),
		Metrics:      encodeMetrics(session.Metrics),
		StopReason:   session.StopReason,
		CreatedAt:    session.CreatedAt,
		StartedAt:    session.StartedAt,
		CompletedAt:  session.CompletedAt,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode session document: %w", err)
	}
	return data, nil
}

// decodeSession parses a stored document back into the typed model,
// rejecting schema versions this build does not understand.
func decodeSession(data []byte) (*domain.InterviewSession, error) {
	var doc sessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session document: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported session document version %d", doc.Version)
	}

	session := &domain.InterviewSession{
		ID:           doc.ID,
		Job:          decodeJob(doc.Job),
		Status:       domain.Status(doc.Status),
		Pool:         decodeQuestions(doc.Pool),
		Questions:    decodeQuestions(doc.Questions),
		Answers:      decodeAnswers(doc.Answers),
		CurrentIndex: doc.CurrentIndex,
		Arms:         decodeArms(doc.Arms),
		Metrics:      decodeMetrics(doc.Metrics),
		StopReason:   doc.StopReason,
		CreatedAt:    doc.CreatedAt,
		StartedAt:    doc.StartedAt,
		CompletedAt:  doc.CompletedAt,
	}
	return session, nil
}

func encodeJob(job domain.JobContext) jobDocument {
	return jobDocument{
		Title:            job.Title,
		Description:      job.Description,
		KeySkills:        job.KeySkills,
		ExperienceLevel:  string(job.ExperienceLevel),
		Responsibilities: job.Responsibilities,
	}
}

func decodeJob(doc jobDocument) domain.JobContext {
	return domain.JobContext{
		Title:            doc.Title,
		Description:      doc.Description,
		KeySkills:        doc.KeySkills,
		ExperienceLevel:  domain.Difficulty(doc.ExperienceLevel),
		Responsibilities: doc.Responsibilities,
	}
}

func encodeQuestions(questions []domain.Question) []questionDocument {
	if questions == nil {
		return nil
	}
	docs := make([]questionDocument, len(questions))
	for i, q := range questions {
		docs[i] = questionDocument{
			ID:               q.ID,
			Text:             q.Text,
			Type:             string(q.Type),
			Difficulty:       string(q.Difficulty),
			Category:         q.Category,
			ExpectedKeywords: q.ExpectedKeywords,
			Origin:           string(q.Origin),
		}
	}
	return docs
}

func decodeQuestions(docs []questionDocument) []domain.Question {
	if docs == nil {
		return nil
	}
	questions := make([]domain.Question, len(docs))
	for i, doc := range docs {
		questions[i] = domain.Question{
			ID:               doc.ID,
			Text:             doc.Text,
			Type:             domain.QuestionType(doc.Type),
			Difficulty:       domain.Difficulty(doc.Difficulty),
			Category:         doc.Category,
			ExpectedKeywords: doc.ExpectedKeywords,
			Origin:           domain.QuestionOrigin(doc.Origin),
		}
	}
	return questions
}

func encodeAnswers(answers []domain.Answer) []answerDocument {
	if answers == nil {
		return nil
	}
	docs := make([]answerDocument, len(answers))
	for i, a := range answers {
		docs[i] = answerDocument{
			QuestionID:  a.QuestionID,
			Transcript:  a.Transcript,
			Technical:   a.Technical,
			Fluency:     a.Fluency,
			Confidence:  a.Confidence,
			Sentiment:   a.Sentiment,
			Emotions:    a.Emotions,
			AudioMillis: a.AudioDuration.Milliseconds(),
			Timestamp:   a.Timestamp,
			Degraded:    a.Degraded,
		}
	}
	return docs
}

func decodeAnswers(docs []answerDocument) []domain.Answer {
	if docs == nil {
		return nil
	}
	answers := make([]domain.Answer, len(docs))
	for i, doc := range docs {
		answers[i] = domain.Answer{
			QuestionID:    doc.QuestionID,
			Transcript:    doc.Transcript,
			Technical:     doc.Technical,
			Fluency:       doc.Fluency,
			Confidence:    doc.Confidence,
			Sentiment:     doc.Sentiment,
			Emotions:      doc.Emotions,
			AudioDuration: time.Duration(doc.AudioMillis) * time.Millisecond,
			Timestamp:     doc.Timestamp,
			Degraded:      doc.Degraded,
		}
	}
	return answers
}

func encodeArms(arms domain.ArmStats) armsDocument {
	doc := armsDocument{
		Types:        make(map[string]armDocument, len(arms.Types)),
		Difficulties: make(map[string]armDocument, len(arms.Difficulties)),
	}
	for k, v := range arms.Types {
		doc.Types[string(k)] = armDocument{Success: v.Success, Failure: v.Failure}
	}
	for k, v := range arms.Difficulties {
		doc.Difficulties[string(k)] = armDocument{Success: v.Success, Failure: v.Failure}
	}
	return doc
}

func decodeArms(doc armsDocument) domain.ArmStats {
	arms := domain.ArmStats{
		Types:        make(map[domain.QuestionType]domain.Arm, len(doc.Types)),
		Difficulties: make(map[domain.Difficulty]domain.Arm, len(doc.Difficulties)),
	}
	for k, v := range doc.Types {
		arms.Types[domain.QuestionType(k)] = domain.Arm{Success: v.Success, Failure: v.Failure}
	}
	for k, v := range doc.Difficulties {
		arms.Difficulties[domain.Difficulty(k)] = domain.Arm{Success: v.Success, Failure: v.Failure}
	}
	return arms
}

func encodeMetrics(metrics *domain.PerformanceMetrics) *metricsDocument {
	if metrics == nil {
		return nil
	}
	return &metricsDocument{
		Technical:             metrics.Technical,
		Communication:         metrics.Communication,
		EmotionalIntelligence: metrics.EmotionalIntelligence,
		Behavioral:            metrics.Behavioral,
		Overall:               metrics.Overall,
		Strengths:             metrics.Strengths,
		Weaknesses:            metrics.Weaknesses,
		Recommendations:       metrics.Recommendations,
		Trend:                 metrics.Trend,
		TypeBreakdown:         encodeBreakdown(metrics.TypeBreakdown),
	}
}

func decodeMetrics(doc *metricsDocument) *domain.PerformanceMetrics {
	if doc == nil {
		return nil
	}
	return &domain.PerformanceMetrics{
		Technical:             doc.Technical,
		Communication:         doc.Communication,
		EmotionalIntelligence: doc.EmotionalIntelligence,
		Behavioral:            doc.Behavioral,
		Overall:               doc.Overall,
		Strengths:             doc.Strengths,
		Weaknesses:            doc.Weaknesses,
		Recommendations:       doc.Recommendations,
		Trend:                 doc.Trend,
		TypeBreakdown:         decodeBreakdown(doc.TypeBreakdown),
	}
}

func encodeBreakdown(breakdown map[domain.QuestionType]float64) map[string]float64 {
	if breakdown == nil {
		return nil
	}
	out := make(map[string]float64, len(breakdown))
	for k, v := range breakdown {
		out[string(k)] = v
	}
	return out
}

func decodeBreakdown(doc map[string]float64) map[domain.QuestionType]float64 {
	if doc == nil {
		return nil
	}
	out := make(map[domain.QuestionType]float64, len(doc))
	for k, v := range doc {
		out[domain.QuestionType(k)] = v
	}
	return out
}
