package testsupport

import (
	"testing"

	"humspine/internal/analysiscache"
	"humspine/internal/config"
)

// MustOpenCache opens the configured analysis cache and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *analysiscache.Store {
	t.Helper()

	store, err := analysiscache.Open(cfg.Cache.Path)
	if err != nil {
		t.Fatalf("analysiscache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
