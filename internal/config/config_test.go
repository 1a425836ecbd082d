package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 120, cfg.DefaultTimeoutSeconds)
	assert.Equal(t, 5, cfg.Router.MinSamples)
	assert.Equal(t, 0.5, cfg.Router.NeutralPrior)
	assert.NotEmpty(t, cfg.Workers)
	assert.Contains(t, cfg.Budget.PriceTable, cfg.Budget.DefaultModel)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DefaultTimeoutSeconds, cfg.DefaultTimeoutSeconds)
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := `
default_timeout_seconds: 30
router:
  min_samples: 3
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.DefaultTimeoutSeconds)
	assert.Equal(t, 3, cfg.Router.MinSamples)
	// Fields not mentioned in the file keep their defaults.
	assert.Equal(t, 0.5, cfg.Router.NeutralPrior)
	assert.NotEmpty(t, cfg.Workers)
}

func TestLoadConfigMalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"negative timeout", func(c *Config) { c.DefaultTimeoutSeconds = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"negative min_samples", func(c *Config) { c.Router.MinSamples = -1 }, true},
		{"neutral prior out of range", func(c *Config) { c.Router.NeutralPrior = 1.5 }, true},
		{"zero ema alpha", func(c *Config) { c.Router.EMAAlpha = 0 }, true},
		{"empty fallback worker", func(c *Config) { c.Router.FallbackWorker = "" }, true},
		{"empty candidate list", func(c *Config) { c.Router.Candidates["code"] = nil }, true},
		{"default model missing from price table", func(c *Config) { c.Budget.DefaultModel = "ghost" }, true},
		{"valid defaults", func(c *Config) {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRejectsNonSimulatedWorkerWithoutCommand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers["custom"] = WorkerConfig{Simulated: false}
	assert.Error(t, cfg.Validate())

	cfg.Workers["custom"] = WorkerConfig{Simulated: false, Command: "/usr/bin/true"}
	assert.NoError(t, cfg.Validate())
}

func TestConsoleEnvOverrides(t *testing.T) {
	t.Setenv("ORCHESTRATOR_CONSOLE_COLOR", "0")
	t.Setenv("ORCHESTRATOR_CONSOLE_COMPACT", "true")

	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.False(t, cfg.Console.EnableColor)
	assert.True(t, cfg.Console.CompactMode)
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	timeout := 5
	level := "debug"
	cfg.MergeWithFlags(&timeout, &level)

	assert.Equal(t, 5, cfg.DefaultTimeoutSeconds)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestMergeWithFlagsNilLeavesUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	original := cfg.DefaultTimeoutSeconds
	cfg.MergeWithFlags(nil, nil)
	assert.Equal(t, original, cfg.DefaultTimeoutSeconds)
}
