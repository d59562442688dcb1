package entry

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const (
	contextKeyLogger    contextKey = "logger"
	contextKeyRequestId contextKey = "x-request-id"
)

// HeaderRequestId carries a unique ID for each request handled by our servers
const HeaderRequestId = "X-Request-Id"

// Log returns a slog.Logger, guaranteed to be valid, for use within the context of the
// provided request
func Log(r *http.Request) *slog.Logger {
	return Logger(r.Context())
}

// Logger returns the request-scoped logger stored in ctx, falling back to
// slog.Default()
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// RequestId returns the ID assigned to the current request by Middleware, or an empty
// string if none
func RequestId(ctx context.Context) string {
	requestId, _ := ctx.Value(contextKeyRequestId).(string)
	return requestId
}

func withRequestContext(ctx context.Context, requestId string, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, contextKeyRequestId, requestId)
	return context.WithValue(ctx, contextKeyLogger, logger)
}
