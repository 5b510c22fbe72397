package projectdb

import (
	"context"
	"fmt"
	"sort"

	"equalizer/internal/logging"
	"equalizer/internal/metadata"
)

// DocumentStore is a metadata.Store keeping each top-level document key in
// its own row.
type DocumentStore struct {
	store   *Store
	ctx     context.Context
	project string
}

// DocumentStore returns a native document store bound to project.
func (s *Store) DocumentStore(ctx context.Context, project string) *DocumentStore {
	return &DocumentStore{store: s, ctx: ensureContext(ctx), project: project}
}

// ReadDocument returns the stored document, empty for an unknown project.
func (d *DocumentStore) ReadDocument() (metadata.Document, error) {
	rows, err := d.store.db.QueryContext(d.ctx,
		"SELECT key, value FROM documents WHERE project = ?", d.project)
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	defer rows.Close()

	doc := metadata.Document{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		decoded, err := metadata.DecodeValue(value)
		if err != nil {
			d.store.logger.Debug("dropping unreadable document key",
				logging.String(logging.FieldProject, d.project),
				logging.String("key", key),
				logging.Error(err))
			continue
		}
		doc[key] = decoded
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return doc, nil
}

// WriteDocument upserts the keys of partial in one transaction. Keys not in
// partial are left alone.
func (d *DocumentStore) WriteDocument(partial metadata.Document) error {
	if len(partial) == 0 {
		return nil
	}
	keys := make([]string, 0, len(partial))
	values := make(map[string]string, len(partial))
	for key, value := range partial {
		encoded, err := metadata.EncodeValue(value)
		if err != nil {
			return fmt.Errorf("document key %s: %w", key, err)
		}
		keys = append(keys, key)
		values[key] = encoded
	}
	sort.Strings(keys)

	err := retryOnBusy(d.ctx, func() error {
		tx, err := d.store.db.BeginTx(d.ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if err := ensureProject(d.ctx, tx, d.project); err != nil {
			return err
		}
		now := timestamp()
		for _, key := range keys {
			if _, err := tx.ExecContext(d.ctx,
				`INSERT INTO documents (project, key, value, updated_at) VALUES (?, ?, ?, ?)
                 ON CONFLICT(project, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				d.project, key, values[key], now,
			); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(d.ctx,
			"UPDATE projects SET updated_at = ? WHERE path = ?", now, d.project,
		); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
