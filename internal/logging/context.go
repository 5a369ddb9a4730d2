package logging

import (
	"context"
	"log/slog"

	"voxlock/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldIdentity is the standardized structured logging key for the claimed identity.
	FieldIdentity = "identity"
	// FieldFlow is the standardized structured logging key for the active flow name.
	FieldFlow = "flow"
	// FieldAttempt is the standardized structured logging key for the 1-based login attempt.
	FieldAttempt = "attempt"
	// FieldDistance is the standardized structured logging key for DTW match distances.
	FieldDistance = "distance"
	// FieldSimilarity is the standardized structured logging key for phrase similarity scores.
	FieldSimilarity = "similarity"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if identity, ok := services.IdentityFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldIdentity, identity))
	}
	if flow, ok := services.FlowFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFlow, flow))
	}
	if attempt, ok := services.AttemptFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldAttempt, attempt))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
