package logger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const requestIDKey contextKey = iota

// GenerateRequestID returns a fresh request ID for tracing.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID attaches a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext reports the request ID carried by ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// FromContext returns the default logger, tagged with the request ID
// when ctx carries one. Handlers and jobs log through this so every
// line from one request shares an ID.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := RequestIDFromContext(ctx); ok {
		return slog.Default().With("request_id", id)
	}
	return slog.Default()
}
