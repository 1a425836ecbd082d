package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConsoleConfig controls terminal output formatting for the logger package.
type ConsoleConfig struct {
	EnableColor       bool `yaml:"enable_color"`
	EnableProgressBar bool `yaml:"enable_progress_bar"`
	ShowDurations     bool `yaml:"show_durations"`
	CompactMode       bool `yaml:"compact_mode"`
}

// WorkerConfig describes one entry in the worker registry: how to invoke it
// and whether it is a real subprocess or a simulated/canned one.
type WorkerConfig struct {
	// Command is the executable to spawn. Ignored when Simulated is true.
	Command string `yaml:"command"`

	// Args are extra arguments placed before the payload flag.
	Args []string `yaml:"args"`

	// Style selects how the subtask payload reaches the worker: "stdin"
	// (JSON on stdin) or "flag" (JSON as the value of --input).
	Style string `yaml:"style"`

	// Simulated marks a worker with no real executable; the Bridge serves
	// a canned response instead of spawning a process.
	Simulated bool `yaml:"simulated"`
}

// RouterConfig controls worker candidate selection and the circuit breaker.
type RouterConfig struct {
	// Candidates maps a content type to the ordered list of worker names
	// eligible to handle it. Order is the tie-break priority.
	Candidates map[string][]string `yaml:"candidates"`

	// FallbackWorker is used when no registered candidate list matches a
	// subtask's content type.
	FallbackWorker string `yaml:"fallback_worker"`

	// MinSamples is the EMA sample count a worker needs before its learned
	// rate is trusted over the neutral prior.
	MinSamples int `yaml:"min_samples"`

	// NeutralPrior is the assumed success rate for a worker below MinSamples.
	NeutralPrior float64 `yaml:"neutral_prior"`

	// EMAAlpha weights the newest observation in the exponential moving
	// average; higher reacts faster to recent outcomes.
	EMAAlpha float64 `yaml:"ema_alpha"`

	// BreakerFailureThreshold is the number of consecutive failures that
	// opens the circuit breaker for a worker.
	BreakerFailureThreshold int `yaml:"breaker_failure_threshold"`

	// BreakerCooldown is how long a breaker stays open before allowing a
	// probe invocation through.
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

// FeedbackConfig controls the append-only outcome log and its read-cache.
type FeedbackConfig struct {
	// LogPath is the JSONL feedback log, relative to the state dir unless
	// absolute.
	LogPath string `yaml:"log_path"`

	// IndexPath is the SQLite read-cache rebuilt from LogPath on open.
	IndexPath string `yaml:"index_path"`

	// Enabled is read only by Validate, which requires a non-empty LogPath
	// when it is true. Setting it to false does not stop outcomes being
	// recorded or the router from using learned rates.
	Enabled bool `yaml:"enabled"`
}

// BudgetConfig carries the price table the Tracer uses to cost a subtask's
// token usage.
type BudgetConfig struct {
	// DefaultModel names the entry in PriceTable that every subtask's
	// token count is priced against; WorkerOutput carries no model name.
	DefaultModel string `yaml:"default_model"`

	// PriceTable maps model name to USD per million tokens.
	PriceTable map[string]float64 `yaml:"price_table"`
}

// Config is the orchestrator's full configuration.
type Config struct {
	// DefaultTimeoutSeconds is the per-subtask ceiling used when a request
	// doesn't override it via --timeout.
	DefaultTimeoutSeconds int `yaml:"default_timeout_seconds"`

	// LogLevel sets logger verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	Console  ConsoleConfig           `yaml:"console"`
	Workers  map[string]WorkerConfig `yaml:"workers"`
	Router   RouterConfig            `yaml:"router"`
	Feedback FeedbackConfig          `yaml:"feedback"`
	Budget   BudgetConfig            `yaml:"budget"`
}

// DefaultConsoleConfig returns sensible console defaults.
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		EnableColor:       true,
		EnableProgressBar: true,
		ShowDurations:     true,
		CompactMode:       false,
	}
}

// defaultWorkers returns the registry of simulated development workers the
// system ships so it runs end-to-end with no external binaries installed.
func defaultWorkers() map[string]WorkerConfig {
	names := []string{
		"duplicate-detector", "dead-code-analyzer", "code-organizer",
		"refactor-planner", "search-worker", "quality-assessor",
		"content-fetcher", "context-builder", "quiz-generator",
		"learning-material-builder", "documentation-writer", "echo-worker",
	}
	workers := make(map[string]WorkerConfig, len(names))
	for _, name := range names {
		workers[name] = WorkerConfig{Style: "stdin", Simulated: true}
	}
	return workers
}

// DefaultConfig returns a Config with sensible default values, mirroring
// §4.2's default candidate lists and §4.3/§5's numeric defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultTimeoutSeconds: 120,
		LogLevel:              "info",
		Console:               DefaultConsoleConfig(),
		Workers:               defaultWorkers(),
		Router: RouterConfig{
			Candidates: map[string][]string{
				"code":     {"duplicate-detector", "dead-code-analyzer", "code-organizer", "refactor-planner"},
				"research": {"omnisearch", "search-worker", "mock-search"},
				"quiz":     {"content-fetcher", "context-builder", "quality-assessor", "quiz-generator"},
				"document": {"context-builder", "documentation-writer"},
				"project":  {"context-builder"},
			},
			FallbackWorker:          "echo-worker",
			MinSamples:              5,
			NeutralPrior:            0.5,
			EMAAlpha:                0.2,
			BreakerFailureThreshold: 5,
			BreakerCooldown:         30 * time.Second,
		},
		Feedback: FeedbackConfig{
			LogPath:   "feedback.jsonl",
			IndexPath: "feedback.db",
			Enabled:   true,
		},
		Budget: BudgetConfig{
			DefaultModel: "default",
			PriceTable: map[string]float64{
				"default": 9.0,
			},
		},
	}
}

// applyConsoleEnvOverrides applies environment variable overrides to console
// configuration. Only "true" or "1" are recognized as true.
func applyConsoleEnvOverrides(cfg *ConsoleConfig) {
	if val := os.Getenv("ORCHESTRATOR_CONSOLE_COLOR"); val != "" {
		cfg.EnableColor = val == "true" || val == "1"
	}
	if val := os.Getenv("ORCHESTRATOR_CONSOLE_PROGRESS_BAR"); val != "" {
		cfg.EnableProgressBar = val == "true" || val == "1"
	}
	if val := os.Getenv("ORCHESTRATOR_CONSOLE_DURATIONS"); val != "" {
		cfg.ShowDurations = val == "true" || val == "1"
	}
	if val := os.Getenv("ORCHESTRATOR_CONSOLE_COMPACT"); val != "" {
		cfg.CompactMode = val == "true" || val == "1"
	}
}

// LoadConfig loads configuration from path, merged over defaults. A missing
// file is not an error — it returns defaults with env overrides applied. A
// malformed file is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyConsoleEnvOverrides(&cfg.Console)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unmarshalling into the already-defaulted struct merges: yaml.v3 only
	// overwrites fields present in the document, leaving defaults in place
	// for everything else (including map entries not mentioned).
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	applyConsoleEnvOverrides(&cfg.Console)
	return cfg, nil
}

// MergeWithFlags merges CLI flag overrides into cfg. Nil pointers leave the
// existing value untouched.
func (c *Config) MergeWithFlags(timeoutSeconds *int, logLevel *string) {
	if timeoutSeconds != nil {
		c.DefaultTimeoutSeconds = *timeoutSeconds
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.DefaultTimeoutSeconds < 0 {
		return fmt.Errorf("default_timeout_seconds must be >= 0, got %d", c.DefaultTimeoutSeconds)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Router.MinSamples < 0 {
		return fmt.Errorf("router.min_samples must be >= 0, got %d", c.Router.MinSamples)
	}
	if c.Router.NeutralPrior < 0 || c.Router.NeutralPrior > 1 {
		return fmt.Errorf("router.neutral_prior must be in [0,1], got %v", c.Router.NeutralPrior)
	}
	if c.Router.EMAAlpha <= 0 || c.Router.EMAAlpha > 1 {
		return fmt.Errorf("router.ema_alpha must be in (0,1], got %v", c.Router.EMAAlpha)
	}
	if c.Router.FallbackWorker == "" {
		return fmt.Errorf("router.fallback_worker cannot be empty")
	}
	for contentType, candidates := range c.Router.Candidates {
		if len(candidates) == 0 {
			return fmt.Errorf("router.candidates[%s] cannot be empty", contentType)
		}
	}

	if c.Feedback.Enabled && strings.TrimSpace(c.Feedback.LogPath) == "" {
		return fmt.Errorf("feedback.log_path cannot be empty when feedback is enabled")
	}

	if c.Budget.DefaultModel != "" {
		if _, ok := c.Budget.PriceTable[c.Budget.DefaultModel]; !ok {
			return fmt.Errorf("budget.default_model %q has no entry in budget.price_table", c.Budget.DefaultModel)
		}
	}
	for name, worker := range c.Workers {
		if !worker.Simulated && strings.TrimSpace(worker.Command) == "" {
			return fmt.Errorf("workers[%s]: command cannot be empty for a non-simulated worker", name)
		}
		if worker.Style != "" && worker.Style != "stdin" && worker.Style != "flag" {
			return fmt.Errorf("workers[%s]: style must be \"stdin\" or \"flag\", got %q", name, worker.Style)
		}
	}

	return nil
}
