package utils

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Logger returns the process-wide structured logger.
func Logger() *slog.Logger {
	return logger
}

// WithRequestID stores a request id in the context for correlated logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

func fromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logger
	}
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	if reqID == "" {
		return logger
	}
	return logger.With(slog.String("request_id", reqID))
}

func LogInfo(ctx context.Context, msg string, attrs ...any) {
	fromContext(ctx).Info(msg, attrs...)
}

func LogWarn(ctx context.Context, msg string, attrs ...any) {
	fromContext(ctx).Warn(msg, attrs...)
}

func LogError(ctx context.Context, msg string, err error, attrs ...any) {
	all := append([]any{slog.Any("error", err)}, attrs...)
	fromContext(ctx).Error(msg, all...)
}
