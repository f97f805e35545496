package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the engine's tunable policy and timing knobs.
// All fields are validated on load; zero values are filled in from
// DefaultConfig before validation so a partial file is enough.
type Config struct {
	// MaxQuestions caps the number of answers before the interview is
	// force-completed.
	MaxQuestions int `yaml:"max_questions" json:"max_questions" validate:"min=1,max=100"`

	// PoolSize is the number of questions requested when seeding the
	// session's question pool.
	PoolSize int `yaml:"pool_size" json:"pool_size" validate:"min=1,max=200"`

	// ScoringTimeout bounds each external scoring call. A call that
	// exceeds it is recorded as a degraded answer, not retried forever.
	ScoringTimeout time.Duration `yaml:"scoring_timeout" json:"scoring_timeout" validate:"min=1s,max=5m"`

	// GenerationTimeout bounds pool and contextual question generation.
	GenerationTimeout time.Duration `yaml:"generation_timeout" json:"generation_timeout" validate:"min=1s,max=5m"`

	// ScoringRetryBackoff is the pause before the single retry of a
	// failed scoring call.
	ScoringRetryBackoff time.Duration `yaml:"scoring_retry_backoff" json:"scoring_retry_backoff" validate:"min=0"`

	// CaptureBufferChunks is the capacity of the audio capture queue in
	// fixed-size chunks.
	CaptureBufferChunks int `yaml:"capture_buffer_chunks" json:"capture_buffer_chunks" validate:"min=1,max=4096"`
}

// DefaultConfig returns the engine defaults used when no file overrides
// them.
func DefaultConfig() Config {
	return Config{
		MaxQuestions:        DefaultMaxQuestions,
		PoolSize:            15,
		ScoringTimeout:      30 * time.Second,
		GenerationTimeout:   30 * time.Second,
		ScoringRetryBackoff: 500 * time.Millisecond,
		CaptureBufferChunks: 256,
	}
}

// LoadConfig reads a YAML config file, fills unset fields with defaults,
// and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints with the struct tags above.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.MaxQuestions == 0 {
		c.MaxQuestions = def.MaxQuestions
	}
	if c.PoolSize == 0 {
		c.PoolSize = def.PoolSize
	}
	if c.ScoringTimeout == 0 {
		c.ScoringTimeout = def.ScoringTimeout
	}
	if c.GenerationTimeout == 0 {
		c.GenerationTimeout = def.GenerationTimeout
	}
	if c.ScoringRetryBackoff == 0 {
		c.ScoringRetryBackoff = def.ScoringRetryBackoff
	}
	if c.CaptureBufferChunks == 0 {
		c.CaptureBufferChunks = def.CaptureBufferChunks
	}
}
