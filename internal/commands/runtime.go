package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

// DefaultCommandTimeout bounds command execution unless a handler overrides it.
const DefaultCommandTimeout = 30 * time.Second

// CommandContext normalises the execution context: a nil ctx falls back to
// context.Background, and a positive timeout installs a deadline. The cancel
// func is always safe to call.
func CommandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns a usable logger, defaulting to a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
