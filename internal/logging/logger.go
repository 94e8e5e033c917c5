package logging

import (
	"context"
	"log/slog"
	"os"
)

// Setup installs the JSON stdout logger as the default. Development
// environments log at debug level.
func Setup(appEnv string) {
	slog.SetDefault(slog.New(NewStdoutHandler(appEnv)))
}

func NewStdoutHandler(appEnv string) slog.Handler {
	level := slog.LevelInfo
	if appEnv == "local" || appEnv == "dev" || appEnv == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

type ctxKey struct{}

// With stores a request-scoped logger in ctx.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored in ctx, or slog.Default().
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
