package interfaces

import "context"

// Logger is the leveled logging contract consumed throughout specdoc. The
// method set matches github.com/goliatone/go-logger, so hosts already using
// that package can hand their loggers in directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. A provider may scope children per
// name or return one shared instance; specdoc asks once per component.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for binding persistent structured
// fields. The returned logger must carry the fields on every later entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
