// Package debug carries the --debug switch through contexts and configures
// the process logger.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey struct{}

// WithDebug returns a context with debug logging switched on or off.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether debug logging is on for ctx.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// secretKeys are attribute names whose values never reach the log.
var secretKeys = map[string]bool{
	"auth_token": true,
	"password":   true,
	"app_secret": true,
	"hash":       true,
}

const redacted = "[REDACTED]"

func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

// NewLogger returns a text logger writing to w. Debug records are only
// emitted when debugEnabled is set; warnings always are.
func NewLogger(w io.Writer, debugEnabled bool) *slog.Logger {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	}))
}

// SetupLogger installs NewLogger(os.Stderr, debugEnabled) as the default.
func SetupLogger(debugEnabled bool) {
	slog.SetDefault(NewLogger(os.Stderr, debugEnabled))
}
