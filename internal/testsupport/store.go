package testsupport

import (
	"context"
	"testing"

	"moviepipe/internal/config"
	"moviepipe/internal/logging"
	"moviepipe/internal/store"
)

// MustOpenStore opens the configured store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), cfg.Store, logging.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
