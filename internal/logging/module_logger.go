package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

const (
	rootModule     = "specdoc"
	readerModule   = "specdoc.reader"
	rendererModule = "specdoc.renderer"
	importerModule = "specdoc.importer"
	validateModule = "specdoc.validation"
)

const (
	fieldDocumentPath  = "document_path"
	fieldDocumentTitle = "document_title"
	fieldRenderOutput  = "output"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ReaderLogger returns the logger namespace reserved for document parsing.
func ReaderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, readerModule)
}

// RendererLogger returns the logger namespace reserved for page rendering.
func RendererLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rendererModule)
}

// ImporterLogger returns the logger namespace reserved for HTML import runs.
func ImporterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importerModule)
}

// ValidationLogger returns the logger namespace reserved for validators.
func ValidationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, validateModule)
}

// WithDocumentContext enriches the provided logger with common document
// fields such as source path, title, and render output. Empty values are
// ignored.
func WithDocumentContext(logger interfaces.Logger, path, title, output string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		fields[fieldDocumentTitle] = trimmed
	}
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		fields[fieldRenderOutput] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
