package testsupport

import (
	"context"
	"testing"

	"gisflow/internal/config"
	"gisflow/internal/logging"
	"gisflow/internal/records"
	"gisflow/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// MustSeedStore opens the configured store and imports snap into it.
func MustSeedStore(t testing.TB, cfg *config.Config, snap records.Snapshot) *store.Store {
	t.Helper()

	st := MustOpenStore(t, cfg)
	if _, err := st.Import(context.Background(), snap); err != nil {
		t.Fatalf("store.Import: %v", err)
	}
	return st
}
