package projectdb

import (
	"context"
	"fmt"
	"time"
)

// Project summarizes one project row.
type Project struct {
	Path         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NotesLength  int
	DocumentKeys int
}

// Projects lists known projects, most recently updated first.
func (s *Store) Projects(ctx context.Context) ([]Project, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
        SELECT p.path, p.created_at, p.updated_at, length(p.notes),
               (SELECT COUNT(1) FROM documents d WHERE d.project = p.path)
        FROM projects p
        ORDER BY p.updated_at DESC, p.path`)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var (
			p                Project
			created, updated string
		)
		if err := rows.Scan(&p.Path, &created, &updated, &p.NotesLength, &p.DocumentKeys); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt = parseTimestamp(created)
		p.UpdatedAt = parseTimestamp(updated)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// DeleteProject removes a project with its notes and document rows.
func (s *Store) DeleteProject(ctx context.Context, project string) error {
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE path = ?", project)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
