package testsupport

import (
	"path/filepath"
	"testing"

	"moviepipe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// The OMDb delay is disabled so tests never sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.OMDb.APIKey = "test"
	cfgVal.OMDb.RequestDelayMS = 0
	cfgVal.Paths.MoviesCSV = filepath.Join(base, "input", "movies.csv")
	cfgVal.Paths.RatingsCSV = filepath.Join(base, "input", "ratings.csv")
	cfgVal.Paths.LockFile = filepath.Join(base, "run", "moviepipe.lock")
	cfgVal.Store.Driver = "sqlite"
	cfgVal.Store.DSN = filepath.Join(base, "out", "movies.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithOMDbKey sets the OMDb API key on the test config.
func WithOMDbKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDb.APIKey = key
	}
}

// WithOMDbURL points the OMDb client at a test server.
func WithOMDbURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDb.BaseURL = url
	}
}

// WithLogDir enables file logging under the test directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.MoviesCSV))
}
