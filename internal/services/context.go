package services

import "context"

type contextKey string

const (
	identityKey contextKey = "identity"
	flowKey     contextKey = "flow"
	attemptKey  contextKey = "attempt"
)

// WithIdentity annotates context with the claimed identity under
// authentication.
func WithIdentity(ctx context.Context, identity string) context.Context {
	if identity == "" {
		return ctx
	}
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext extracts the claimed identity if present.
func IdentityFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(identityKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithFlow annotates context with the active flow name (signup/login/reset).
func WithFlow(ctx context.Context, flow string) context.Context {
	if flow == "" {
		return ctx
	}
	return context.WithValue(ctx, flowKey, flow)
}

// FlowFromContext returns the flow name if present.
func FlowFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(flowKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithAttempt annotates context with the 1-based login attempt number.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	if attempt <= 0 {
		return ctx
	}
	return context.WithValue(ctx, attemptKey, attempt)
}

// AttemptFromContext returns the attempt number if present.
func AttemptFromContext(ctx context.Context) (int, bool) {
	if n, ok := ctx.Value(attemptKey).(int); ok && n > 0 {
		return n, true
	}
	return 0, false
}
