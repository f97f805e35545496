// Command interview-sim runs a full interview loop from the terminal.
// It asks questions, reads candidate answers from stdin, scores them,
// and prints the final performance summary.
//
// With -offline it runs entirely on the deterministic keyword analyzer
// and canned question generation; otherwise it talks to the provider
// selected by -provider using the API key from the environment.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/candidly/interview-engine/infrastructure/analysis"
	"github.com/candidly/interview-engine/infrastructure/llm"
	"github.com/candidly/interview-engine/infrastructure/middleware"
	"github.com/candidly/interview-engine/infrastructure/store"
	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/engine"
	"github.com/candidly/interview-engine/internal/ports"
	"github.com/candidly/interview-engine/internal/testutils"
)

var apiKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"google":    "GOOGLE_API_KEY",
}

func main() {
	var (
		provider    = flag.String("provider", "google", "LLM provider: openai, anthropic, or google")
		model       = flag.String("model", "", "model name, empty for the provider default")
		offline     = flag.Bool("offline", false, "run on deterministic mocks, no API key needed")
		configPath  = flag.String("config", "", "engine config YAML, empty for defaults")
		dbPath      = flag.String("db", "", "SQLite session database path, empty for in-memory")
		title       = flag.String("title", "Senior Backend Engineer", "job title to interview for")
		description = flag.String("description", defaultJobDescription, "job description text")
		metricsAddr = flag.String("metrics-addr", "", "address to serve Prometheus metrics on, empty to disable")
		maxTokens   = flag.Int64("max-tokens", 0, "LLM token budget for the run, 0 for unlimited")
	)
	flag.Parse()

	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	metrics := middleware.NewPrometheusMetrics()
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	sessionStore, closeStore, err := openStore(*dbPath)
	if err != nil {
		log.Fatalf("open session store: %v", err)
	}
	defer closeStore()

	deps, err := buildDependencies(*offline, *provider, *model, *maxTokens, cfg, metrics, sessionStore)
	if err != nil {
		log.Fatalf("wire collaborators: %v", err)
	}

	controller, err := engine.NewSessionController(deps, cfg)
	if err != nil {
		log.Fatalf("build controller: %v", err)
	}

	if err := runInterview(ctx, controller, *title, *description); err != nil {
		log.Fatalf("interview failed: %v", err)
	}
}

// buildDependencies wires either the live LLM-backed collaborators or the
// deterministic offline ones.
func buildDependencies(
	offline bool,
	provider, model string,
	maxTokens int64,
	cfg engine.Config,
	metrics ports.MetricsCollector,
	sessionStore ports.SessionStore,
) (engine.Dependencies, error) {
	deps := engine.Dependencies{
		Transcriber:   textTranscriber{},
		AudioFeatures: heuristicExtractor{},
		Store:         sessionStore,
		Metrics:       metrics,
	}

	if offline {
		mock := testutils.NewMockLLMClient("sim-model")
		questions, err := analysis.NewLLMQuestionSource(mock, cfg.PoolSize)
		if err != nil {
			return engine.Dependencies{}, err
		}
		jobAnalyzer, err := analysis.NewLLMJobAnalyzer(mock)
		if err != nil {
			return engine.Dependencies{}, err
		}
		deps.TextAnalyzer = analysis.NewKeywordAnalyzer(0)
		deps.Questions = questions
		deps.JobAnalyzer = jobAnalyzer
		return deps, nil
	}

	envVar, ok := apiKeyEnv[provider]
	if !ok {
		return engine.Dependencies{}, fmt.Errorf("unknown provider %q, choose one of %s",
			provider, strings.Join(llm.Providers(), ", "))
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return engine.Dependencies{}, fmt.Errorf("%s is not set; use -offline to run without a provider", envVar)
	}

	chain := []llm.Middleware{
		llm.RateLimitMiddleware(5, 10),
		llm.RetryMiddleware(2, 500*time.Millisecond, 8*time.Second),
		llm.TimeoutMiddleware(cfg.GenerationTimeout),
		llm.MetricsMiddleware(metrics),
		llm.TracingMiddleware("interview-sim"),
	}
	if maxTokens > 0 {
		tracker := llm.NewBudgetTracker(llm.Budget{MaxTokens: maxTokens})
		chain = append([]llm.Middleware{tracker.Middleware()}, chain...)
	}

	client, err := llm.NewClient(provider, llm.ClientConfig{
		APIKey:     apiKey,
		Model:      model,
		Middleware: chain,
	})
	if err != nil {
		return engine.Dependencies{}, err
	}

	textAnalyzer, err := analysis.NewLLMTextAnalyzer(client)
	if err != nil {
		return engine.Dependencies{}, err
	}
	questions, err := analysis.NewLLMQuestionSource(client, cfg.PoolSize)
	if err != nil {
		return engine.Dependencies{}, err
	}
	jobAnalyzer, err := analysis.NewLLMJobAnalyzer(client)
	if err != nil {
		return engine.Dependencies{}, err
	}
	deps.TextAnalyzer = textAnalyzer
	deps.Questions = questions
	deps.JobAnalyzer = jobAnalyzer
	return deps, nil
}

func openStore(path string) (ports.SessionStore, func(), error) {
	if path == "" {
		return store.NewMemoryStore(), func() {}, nil
	}
	sqlite, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return sqlite, func() { sqlite.Close() }, nil
}

// runInterview drives one session through the ask/answer loop until a
// termination rule fires or stdin is exhausted.
func runInterview(ctx context.Context, controller *engine.SessionController, title, description string) error {
	session, err := controller.CreateSession(ctx, title, description)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := controller.Start(ctx, session.ID); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	fmt.Printf("Interview for %s (session %s)\n", session.Job.Title, session.ID)
	fmt.Println("Answer each question, or press Ctrl-D to end the interview early.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		question, err := controller.NextQuestion(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("next question: %w", err)
		}
		fmt.Printf("Q [%s/%s]: %s\n> ", question.Type, question.Difficulty, question.Text)

		if !scanner.Scan() {
			fmt.Println("\nEnding interview.")
			break
		}
		answer := strings.TrimSpace(scanner.Text())

		response, err := controller.SubmitResponse(ctx, session.ID, []byte(answer))
		if err != nil {
			return fmt.Errorf("submit response: %w", err)
		}
		fmt.Printf("  technical %.2f, confidence %.2f, sentiment %+.2f\n\n",
			response.Answer.Technical, response.Answer.Confidence, response.Answer.Sentiment)

		if response.Done {
			fmt.Printf("Interview complete: %s\n\n", response.Reason)
			return printSummary(ctx, controller, session.ID)
		}
	}

	if _, err := controller.Complete(ctx, session.ID); err != nil {
		var transition *domain.InvalidTransitionError
		if errors.As(err, &transition) {
			// Already terminal; nothing to force.
			return printSummary(ctx, controller, session.ID)
		}
		return fmt.Errorf("complete session: %w", err)
	}
	return printSummary(ctx, controller, session.ID)
}

func printSummary(ctx context.Context, controller *engine.SessionController, id string) error {
	session, err := controller.Session(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session.Metrics == nil {
		fmt.Println("No summary: the interview ended before any answer was scored.")
		return nil
	}

	m := session.Metrics
	fmt.Println("Performance summary")
	fmt.Printf("  technical      %.2f\n", m.Technical)
	fmt.Printf("  communication  %.2f\n", m.Communication)
	fmt.Printf("  overall        %.2f (trend: %s)\n", m.Overall, m.Trend)
	for _, s := range m.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, w := range m.Weaknesses {
		fmt.Printf("  - %s\n", w)
	}
	for _, r := range m.Recommendations {
		fmt.Printf("  * %s\n", r)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics server: %v", err)
	}
}

// textTranscriber treats the submitted audio bytes as UTF-8 text. The
// simulator has no speech capture; answers are typed, not spoken.
type textTranscriber struct{}

func (textTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	return string(audio), nil
}

// heuristicExtractor derives audio features from the typed answer alone,
// assuming a typical speaking rate of 150 words per minute.
type heuristicExtractor struct{}

func (heuristicExtractor) ExtractFeatures(_ context.Context, audio []byte) (ports.AudioFeatures, error) {
	words := len(strings.Fields(string(audio)))
	fluency := float64(words) / 50
	if fluency > 1 {
		fluency = 1
	}
	return ports.AudioFeatures{
		Fluency:  fluency,
		Duration: time.Duration(words) * 400 * time.Millisecond,
	}, nil
}

const defaultJobDescription = `We are hiring a senior backend engineer to design,
build, and operate distributed services in Go. You will own services end to
end: API design, data modeling in PostgreSQL, deployment on Kubernetes, and
production debugging. Strong grasp of concurrency, caching, and gRPC
required; experience mentoring other engineers is a plus.`
