package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wavecraft/orchestrator/internal/bridge"
	"github.com/wavecraft/orchestrator/internal/config"
	"github.com/wavecraft/orchestrator/internal/decomposer"
	"github.com/wavecraft/orchestrator/internal/feedback"
	"github.com/wavecraft/orchestrator/internal/logger"
	"github.com/wavecraft/orchestrator/internal/router"
	"github.com/wavecraft/orchestrator/internal/synthesizer"
)

// dependencies bundles every collaborator a single `run` invocation needs,
// built once from resolved config and state directory. Mirrors the
// teacher's pattern of wiring services once in the command layer rather
// than threading flags through every package.
type dependencies struct {
	cfg            *config.Config
	stateDir       string
	decomposer     *decomposer.Decomposer
	router         *router.Router
	bridge         *bridge.Bridge
	synthesizer    *synthesizer.Synthesizer
	feedbackStore  *feedback.Store
	logger         logger.Logger
	fileLogger     *logger.FileLogger // non-nil only when --log-dir was given; caller must Close it
	defaultTimeout time.Duration
}

// resolveStateDir returns stateDirOverride if set, else the resolved state
// directory per config.GetStateDir's precedence.
func resolveStateDir(stateDirOverride string) (string, error) {
	if stateDirOverride != "" {
		if err := os.MkdirAll(stateDirOverride, 0755); err != nil {
			return "", err
		}
		return stateDirOverride, nil
	}
	return config.GetStateDir()
}

// newDependencies loads config (from configPath, or <state-dir>/config.yaml
// if empty) and constructs every collaborator the run command needs. When logDir is non-empty, a FileLogger writing under it is fanned
// out alongside the console/noop logger via logger.MultiLogger.
func newDependencies(stateDirOverride, configPath, logDir string, quiet bool) (*dependencies, error) {
	stateDir, err := resolveStateDir(stateDirOverride)
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = filepath.Join(stateDir, "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var log logger.Logger = logger.NewConsoleLogger(os.Stdout, cfg.LogLevel)
	if quiet {
		log = logger.NoopLogger{}
	}

	var fileLog *logger.FileLogger
	if logDir != "" {
		fileLog, err = logger.NewFileLogger(logDir, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("open file logger: %w", err)
		}
		log = logger.NewMultiLogger(log, fileLog)
	}

	store := feedback.NewStore(config.FeedbackLogPath(stateDir, &cfg.Feedback), cfg.Router.EMAAlpha, log)

	return &dependencies{
		cfg:            cfg,
		stateDir:       stateDir,
		decomposer:     decomposer.New(),
		router:         router.New(cfg.Router, cfg.Workers, store),
		bridge:         bridge.New(cfg.Workers),
		synthesizer:    synthesizer.New(),
		feedbackStore:  store,
		logger:         log,
		fileLogger:     fileLog,
		defaultTimeout: time.Duration(cfg.DefaultTimeoutSeconds) * time.Second,
	}, nil
}
