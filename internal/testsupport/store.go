package testsupport

import (
	"testing"

	"equalizer/internal/config"
	"equalizer/internal/host"
	"equalizer/internal/metadata"
	"equalizer/internal/pipeline"
	"equalizer/internal/projectdb"
)

// MustOpenProjectDB opens the configured project database and registers
// cleanup.
func MustOpenProjectDB(t testing.TB, cfg *config.Config) *projectdb.Store {
	t.Helper()

	store, err := projectdb.Open(cfg.Paths.ProjectDB, nil)
	if err != nil {
		t.Fatalf("projectdb.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewMemoryRegistry returns a registry over an in-memory host seeded with
// notes.
func NewMemoryRegistry(t testing.TB, notes string) (*pipeline.Registry, *host.Memory) {
	t.Helper()

	h := host.NewMemory(notes)
	return pipeline.NewRegistry(metadata.NewNotesStore(h, nil), nil), h
}
