package testsupport

import (
	"path/filepath"
	"testing"

	"equalizer/internal/config"
)

// ConfigOption adjusts the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns the default config with its log directory and project
// database moved under a per-test temp directory. Nothing is created on
// disk beyond the temp directory itself.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ProjectDB = filepath.Join(base, "db", "projects.db")
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSQLiteBackend switches the notes backend to the project database;
// native stores the document as key/value rows.
func WithSQLiteBackend(native bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Host.Backend = config.BackendSQLite
		cfg.Host.NativeDocuments = native
	}
}

// WithUnits overrides the matchmove export units.
func WithUnits(units string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Publish.ExtractMatchmoveScript.Units = units
	}
}

// BaseDir returns the temp directory backing cfg.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
