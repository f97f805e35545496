// Package middleware provides cross-cutting concerns for the interview
// engine, currently the Prometheus-backed metrics collector.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/candidly/interview-engine/internal/ports"
)

// PrometheusMetrics implements ports.MetricsCollector on Prometheus.
// Known engine and LLM metrics get dedicated vectors with typed labels;
// anything else lands in generic catch-all vectors keyed by metric name,
// so new call sites never silently drop data.
type PrometheusMetrics struct {
	sessionsCreated   prometheus.Counter
	sessionsCompleted *prometheus.CounterVec
	sessionsCancelled prometheus.Counter
	questionsAsked    *prometheus.CounterVec
	degradations      *prometheus.CounterVec
	llmRequests       *prometheus.CounterVec
	llmTokens         *prometheus.CounterVec
	llmLatency        *prometheus.HistogramVec
	operationLatency  *prometheus.HistogramVec
	genericCounters   *prometheus.CounterVec
	genericGauges     *prometheus.GaugeVec
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics registers the collector's metrics in the global
// Prometheus registry. Call it once per process.
func NewPrometheusMetrics() *PrometheusMetrics {
	return newPrometheusMetrics(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith registers against a caller-owned registry,
// which tests use to avoid duplicate-registration panics.
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	return newPrometheusMetrics(reg)
}

func newPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		sessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "interview_sessions_created_total",
			Help: "Total number of interview sessions created.",
		}),
		sessionsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_sessions_completed_total",
			Help: "Total number of completed interview sessions, by stop reason.",
		}, []string{"reason"}),
		sessionsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "interview_sessions_cancelled_total",
			Help: "Total number of cancelled interview sessions.",
		}),
		questionsAsked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_questions_asked_total",
			Help: "Total number of questions asked, by type, difficulty, and origin.",
		}, []string{"type", "difficulty", "origin"}),
		degradations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_degradations_total",
			Help: "Total number of degraded operations, by failing stage.",
		}, []string{"stage"}),
		llmRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of LLM requests, by provider, model, and status.",
		}, []string{"provider", "model", "status"}),
		llmTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total number of LLM tokens consumed, by direction.",
		}, []string{"provider", "model", "token_type"}),
		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llm_latency_seconds",
			Help:    "LLM request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "model", "status"}),
		operationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interview_operation_duration_seconds",
			Help:    "Latency of engine operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "degraded"}),
		genericCounters: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_engine_events_total",
			Help: "Counter events without a dedicated vector, by metric name.",
		}, []string{"metric"}),
		genericGauges: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "interview_engine_state",
			Help: "Gauge values without a dedicated vector, by metric name.",
		}, []string{"metric"}),
	}
}

// RecordLatency implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	degraded := labels["degraded"]
	if degraded == "" {
		degraded = "false"
	}
	pm.operationLatency.WithLabelValues(operation, degraded).Observe(duration.Seconds())
}

// RecordCounter implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "interview_sessions_created_total":
		pm.sessionsCreated.Add(value)
	case "interview_sessions_completed_total":
		pm.sessionsCompleted.WithLabelValues(labels["reason"]).Add(value)
	case "interview_sessions_cancelled_total":
		pm.sessionsCancelled.Add(value)
	case "interview_questions_asked_total":
		pm.questionsAsked.WithLabelValues(
			labels["type"], labels["difficulty"], labels["origin"],
		).Add(value)
	case "interview_tts_failures_total":
		pm.degradations.WithLabelValues("speech_synthesis").Add(value)
	case "interview_transcription_failures_total":
		pm.degradations.WithLabelValues("transcription").Add(value)
	case "interview_audio_analysis_failures_total":
		pm.degradations.WithLabelValues("audio_analysis").Add(value)
	case "interview_scoring_failures_total":
		pm.degradations.WithLabelValues("text_analysis").Add(value)
	case "interview_job_analysis_failures_total":
		pm.degradations.WithLabelValues("job_analysis").Add(value)
	case "interview_pool_generation_failures_total":
		pm.degradations.WithLabelValues("pool_generation").Add(value)
	case "interview_question_fallbacks_total":
		pm.degradations.WithLabelValues("question_generation").Add(value)
	case "llm_requests_total":
		pm.llmRequests.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Add(value)
	case "llm_tokens_total":
		pm.llmTokens.WithLabelValues(
			labels["provider"], labels["model"], labels["token_type"],
		).Add(value)
	default:
		pm.genericCounters.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.genericGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	if metric == "llm_latency_seconds" {
		pm.llmLatency.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Observe(value)
		return
	}
	pm.operationLatency.WithLabelValues(metric, "false").Observe(value)
}
