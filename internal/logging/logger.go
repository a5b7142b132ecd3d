// Package logging defines the structured-logging seam for the taskkeeper
// server. The HTTP layer, the application lifecycle, and the services all log
// through the Logger interface, so the backing implementation can be swapped
// without touching call sites.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "request", "method", "POST", "path", "/api/auth/login")
type Logger interface {
	// Debug logs fine-grained detail, normally disabled in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs, used to tag a component ("module", "http_server") once.
	With(args ...any) Logger
}
