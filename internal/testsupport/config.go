package testsupport

import (
	"path/filepath"
	"testing"

	"voxlock/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.IntruderDir = filepath.Join(base, "intruders")

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("create test directories: %v", err)
	}
	return &cfg
}

// WithDistanceThreshold overrides the voice match threshold.
func WithDistanceThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.DistanceThreshold = threshold
	}
}

// WithSimilarityThreshold overrides the phrase similarity threshold.
func WithSimilarityThreshold(threshold int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Phrase.SimilarityThreshold = threshold
	}
}

// WithMaxAttempts overrides the login attempt budget.
func WithMaxAttempts(attempts int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Login.MaxAttempts = attempts
	}
}

// WithListenTimeout overrides how long a single recording may run.
func WithListenTimeout(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Login.ListenTimeoutSeconds = seconds
	}
}
