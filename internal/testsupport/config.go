package testsupport

import (
	"path/filepath"
	"testing"

	"sortbox/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The organize root is <base>/inbox and the state dir is <base>/state; neither
// is created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Organize.Root = filepath.Join(base, "inbox")
	cfgVal.Organize.Timezone = "UTC"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithJournal enables the move journal.
func WithJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
	}
}

// WithRecursive enables recursive traversal.
func WithRecursive() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.Recursive = true
	}
}

// WithCollision sets the duplicates collision policy.
func WithCollision(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.Collision = policy
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
