package projectdb

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"equalizer/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in SQLite's user_version header field. A fresh
// file reports 0; any other value than this one is refused.
const schemaVersion = 1

// ErrSchemaMismatch is returned by Open for a database written by another
// schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
		return s.applySchema(ctx)
	default:
		return fmt.Errorf("%w: %s is at version %d, this build needs %d; remove the file to start over",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
}

func (s *Store) applySchema(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	// PRAGMA takes no bind parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp user_version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	s.logger.Debug("project database initialized",
		logging.String("path", s.path),
		logging.Int("schema_version", schemaVersion))
	return nil
}
