package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldProject identifies the project (workfile path or database key).
	FieldProject = "project"
	// FieldInstanceID is the publish instance identifier.
	FieldInstanceID = "instance_id"
	// FieldCreator is the creator identifier of a publish instance.
	FieldCreator = "creator_identifier"
	// FieldContainer is the "<namespace>/<name>" key of a loaded container.
	FieldContainer = "container"
)

type projectKey struct{}

// WithProject stores the active project identifier on ctx.
func WithProject(ctx context.Context, project string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, projectKey{}, project)
}

// ProjectFromContext returns the project stored by WithProject.
func ProjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	project, ok := ctx.Value(projectKey{}).(string)
	return project, ok && project != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	var fields []slog.Attr
	if project, ok := ProjectFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldProject, project))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
