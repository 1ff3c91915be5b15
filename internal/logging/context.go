package logging

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	correlationKey
)

// Correlation ties log lines and error responses back to one request and the
// span that produced them.
type Correlation struct {
	RequestID string
	TraceID   string
	SpanID    string
}

// WithLogger stores the request-scoped logger on ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request-scoped logger, or slog.Default outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

// CorrelationFromContext returns the ids recorded so far; missing ids are empty.
func CorrelationFromContext(ctx context.Context) Correlation {
	if ctx == nil {
		return Correlation{}
	}
	c, _ := ctx.Value(correlationKey).(Correlation)
	return c
}

func withCorrelation(ctx context.Context, c Correlation) context.Context {
	return context.WithValue(ctx, correlationKey, c)
}

// WithRequestID records the id echoed in the X-Request-ID header.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	c := CorrelationFromContext(ctx)
	c.RequestID = requestID
	return withCorrelation(ctx, c)
}

// RequestIDFromContext returns the current request id or "".
func RequestIDFromContext(ctx context.Context) string {
	return CorrelationFromContext(ctx).RequestID
}
