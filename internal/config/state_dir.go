package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetStateDir returns the orchestrator's state directory, creating it if
// necessary. Priority order:
//  1. ORCHESTRATOR_HOME environment variable, if set.
//  2. <repo root>/.orchestrator, where repo root is the nearest ancestor
//     directory containing this module's go.mod.
//  3. <cwd>/.orchestrator, as a fallback when no go.mod is found.
func GetStateDir() (string, error) {
	if home := os.Getenv("ORCHESTRATOR_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create state directory: %w", err)
		}
		return home, nil
	}

	if repoRoot, err := findModuleRoot(); err == nil && repoRoot != "" {
		stateDir := filepath.Join(repoRoot, ".orchestrator")
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			return "", fmt.Errorf("create state directory: %w", err)
		}
		return stateDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	stateDir := filepath.Join(cwd, ".orchestrator")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	return stateDir, nil
}

// findModuleRoot walks up from the working directory looking for a go.mod
// that declares this module.
func findModuleRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	current := cwd
	for {
		goModPath := filepath.Join(current, "go.mod")
		if data, err := os.ReadFile(goModPath); err == nil {
			if strings.Contains(string(data), "github.com/wavecraft/orchestrator") {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", fmt.Errorf("module root not found (no go.mod declaring github.com/wavecraft/orchestrator)")
}

// FeedbackLogPath joins the state dir with the configured feedback log path,
// leaving an already-absolute path untouched.
func FeedbackLogPath(stateDir string, cfg *FeedbackConfig) string {
	if filepath.IsAbs(cfg.LogPath) {
		return cfg.LogPath
	}
	return filepath.Join(stateDir, cfg.LogPath)
}

// FeedbackIndexPath joins the state dir with the configured SQLite cache
// path, leaving an already-absolute path untouched.
func FeedbackIndexPath(stateDir string, cfg *FeedbackConfig) string {
	if filepath.IsAbs(cfg.IndexPath) {
		return cfg.IndexPath
	}
	return filepath.Join(stateDir, cfg.IndexPath)
}

// TraceDir returns the directory for per-request execution traces, creating
// it if necessary.
func TraceDir(stateDir string) (string, error) {
	dir := filepath.Join(stateDir, "traces")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create trace directory: %w", err)
	}
	return dir, nil
}
