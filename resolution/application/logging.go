package application

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// ContextWithLogger carrega no contexto um logger já com os atributos do
// request (request_id etc.).
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFrom devolve o logger do contexto, ou fallback, ou slog.Default().
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
