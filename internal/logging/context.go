package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one analysis run of one document.
	FieldRunID = "run_id"
	// FieldPath is the file a record concerns.
	FieldPath = "path"
	// FieldLine is a 1-based line number inside FieldPath.
	FieldLine = "line"
	// FieldCommand is the CLI command that produced the record.
	FieldCommand = "command"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	pathKey contextKey = iota
	commandKey
)

// ContextWithPath returns ctx tagged with the file being processed.
func ContextWithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey, path)
}

// PathFromContext returns the file set by ContextWithPath.
func PathFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	path, ok := ctx.Value(pathKey).(string)
	return path, ok && path != ""
}

// ContextWithCommand returns ctx tagged with the running CLI command.
func ContextWithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// CommandFromContext returns the command set by ContextWithCommand.
func CommandFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	command, ok := ctx.Value(commandKey).(string)
	return command, ok && command != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if command, ok := CommandFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCommand, command))
	}
	if path, ok := PathFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPath, path))
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
	return logger.With(toArgs(fields)...)
}
