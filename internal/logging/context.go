package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldDocNum is the standardized key for recorded document numbers.
	FieldDocNum = "doc_num"
	// FieldStage is the standardized key for workflow stage names.
	FieldStage = "stage"
	// FieldRequestID is the standardized key for API request identifiers.
	FieldRequestID = "request_id"
	// FieldReport is the standardized key for the report being computed.
	FieldReport = "report"
)

type contextKey string

const (
	requestIDKey contextKey = "gisflow.request_id"
	reportKey    contextKey = "gisflow.report"
)

// WithRequestID stores an API request identifier on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request identifier stored on ctx.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// WithReport records which report a computation belongs to.
func WithReport(ctx context.Context, report string) context.Context {
	if report == "" {
		return ctx
	}
	return context.WithValue(ctx, reportKey, report)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, id))
	}
	if report, ok := ctx.Value(reportKey).(string); ok && report != "" {
		fields = append(fields, slog.String(FieldReport, report))
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
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return logger.With(args...)
}
