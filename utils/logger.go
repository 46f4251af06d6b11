package utils

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *slog.Logger
)

// contextHandler copies selected context values into every record so handlers
// don't have to thread them manually.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok && requestID != "" {
		r.AddAttrs(slog.String("requestID", requestID))
	}
	return h.Handler.Handle(ctx, r)
}

type requestIDKey struct{}

// WithRequestID returns a context whose log records carry the given request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetLogger returns the process-wide structured logger. The level is taken
// from LOG_LEVEL (debug|info|warn|error, default info).
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		level := slog.LevelInfo
		switch GetEnv("LOG_LEVEL", "info") {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		logger = slog.New(contextHandler{handler})
	})
	return logger
}
