package testsupport

import (
	"testing"

	"voxlock/internal/config"
	"voxlock/internal/credentials"
)

// MustOpenStore opens a credential store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *credentials.Store {
	t.Helper()

	store, err := credentials.Open(cfg)
	if err != nil {
		t.Fatalf("credentials.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
