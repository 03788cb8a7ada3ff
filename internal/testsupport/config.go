package testsupport

import (
	"path/filepath"
	"testing"

	"mixcrate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Library.Roots = []string{filepath.Join(base, "music")}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithRoots overrides the library scan roots on the test config.
func WithRoots(roots ...string) ConfigOption {
	return func(c *config.Config) {
		c.Library.Roots = roots
	}
}

// WithWorkers overrides the scanner worker count on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(c *config.Config) {
		c.Scanner.Workers = workers
	}
}
