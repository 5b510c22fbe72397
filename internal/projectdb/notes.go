package projectdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// NotesHost exposes one project's notes row as a host.Host.
type NotesHost struct {
	store     *Store
	ctx       context.Context
	project   string
	onRefresh func()
}

// NotesHost returns a host bound to project. ctx bounds every query issued
// through the host.
func (s *Store) NotesHost(ctx context.Context, project string) *NotesHost {
	return &NotesHost{store: s, ctx: ensureContext(ctx), project: project}
}

// OnRefresh registers fn to run after every notes write.
func (h *NotesHost) OnRefresh(fn func()) {
	h.onRefresh = fn
}

// GetNotes returns the project's notes, "" for an unknown project.
func (h *NotesHost) GetNotes() (string, error) {
	var notes string
	err := h.store.db.QueryRowContext(h.ctx,
		"SELECT notes FROM projects WHERE path = ?", h.project,
	).Scan(&notes)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select notes: %w", err)
	}
	return notes, nil
}

// SetNotes stores notes, creating the project row when needed.
func (h *NotesHost) SetNotes(notes string) error {
	err := retryOnBusy(h.ctx, func() error {
		now := timestamp()
		_, err := h.store.db.ExecContext(h.ctx,
			`INSERT INTO projects (path, notes, created_at, updated_at) VALUES (?, ?, ?, ?)
             ON CONFLICT(path) DO UPDATE SET notes = excluded.notes, updated_at = excluded.updated_at`,
			h.project, notes, now, now,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("store notes: %w", err)
	}
	return nil
}

// Refresh runs the refresh hook, if any.
func (h *NotesHost) Refresh() {
	if h.onRefresh != nil {
		h.onRefresh()
	}
}
