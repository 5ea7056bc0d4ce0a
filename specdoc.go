package specdoc

import (
	"os"

	"github.com/goliatone/go-specdoc/document"
	docs "github.com/goliatone/go-specdoc/internal/commands/docs"
	"github.com/goliatone/go-specdoc/internal/htmlimport"
	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/internal/logging/console"
	"github.com/goliatone/go-specdoc/internal/logging/gologger"
	"github.com/goliatone/go-specdoc/internal/markdown"
	"github.com/goliatone/go-specdoc/internal/renderer"
	"github.com/goliatone/go-specdoc/internal/validation"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

// Document exports the parsed document model for consumers of the specdoc package.
type Document = document.Document

// Metadata exports the front matter contract.
type Metadata = document.Metadata

// Section exports the heading-scoped block container.
type Section = document.Section

// Block exports the section body element contract.
type Block = document.Block

// Paragraph exports the plain text block.
type Paragraph = document.Paragraph

// BulletList exports the bullet list block.
type BulletList = document.BulletList

// ListItem exports a single bullet entry.
type ListItem = document.ListItem

// Table exports the pipe table block.
type Table = document.Table

// Blockquote exports the quoted text block.
type Blockquote = document.Blockquote

// CodeBlock exports the fenced code block.
type CodeBlock = document.CodeBlock

// ParseError exports the positioned reader failure type.
type ParseError = document.ParseError

// DocumentService exports the parse/load/serialize contract.
type DocumentService = interfaces.DocumentService

// DocumentValidator exports the standalone validation contract.
type DocumentValidator = interfaces.DocumentValidator

// PageRenderer exports the standalone page generation contract.
type PageRenderer = interfaces.PageRenderer

// HTMLImporter exports the HTML-to-markdown import contract.
type HTMLImporter = interfaces.HTMLImporter

// SourceDocument exports the parsed-file provenance pair.
type SourceDocument = interfaces.SourceDocument

// CommandRegistry exports the registry contract used by RegisterCommands.
type CommandRegistry = docs.CommandRegistry

// CommandHandlerSet exports the handlers produced by RegisterCommands.
type CommandHandlerSet = docs.HandlerSet

// ValidateDocumentCommand exports the validate command message.
type ValidateDocumentCommand = docs.ValidateDocumentCommand

// RenderDocumentCommand exports the render command message.
type RenderDocumentCommand = docs.RenderDocumentCommand

// ImportHTMLCommand exports the HTML import command message.
type ImportHTMLCommand = docs.ImportHTMLCommand

// Parse failure taxonomy, re-exported from the document package.
var (
	ErrMalformedMetadata = document.ErrMalformedMetadata
	ErrMalformedTable    = document.ErrMalformedTable
	ErrUnterminatedBlock = document.ErrUnterminatedBlock
)

// ErrRendererDisabled reports calls against a renderer whose feature gate is off.
var ErrRendererDisabled = renderer.ErrServiceDisabled

// ErrImporterDisabled reports calls against an importer whose feature gate is off.
var ErrImporterDisabled = htmlimport.ErrServiceDisabled

// Module represents the top level specdoc runtime façade.
type Module struct {
	config    Config
	logs      interfaces.LoggerProvider
	documents interfaces.DocumentService
	validator interfaces.DocumentValidator
	renderer  interfaces.PageRenderer
	importer  interfaces.HTMLImporter
}

// Option overrides a module dependency during construction.
type Option func(*Module)

// WithLoggerProvider replaces the logging provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.logs = provider
	}
}

// WithDocumentService replaces the filesystem-backed document service.
func WithDocumentService(svc interfaces.DocumentService) Option {
	return func(m *Module) {
		m.documents = svc
	}
}

// WithValidator replaces the standalone document validator.
func WithValidator(v interfaces.DocumentValidator) Option {
	return func(m *Module) {
		m.validator = v
	}
}

// WithRenderer replaces the page renderer. The feature gate still applies:
// a disabled renderer feature wins over the override.
func WithRenderer(r interfaces.PageRenderer) Option {
	return func(m *Module) {
		m.renderer = r
	}
}

// WithImporter replaces the HTML importer. The feature gate still applies.
func WithImporter(i interfaces.HTMLImporter) Option {
	return func(m *Module) {
		m.importer = i
	}
}

// New constructs a specdoc module from the provided configuration and
// optional dependency overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.logs == nil && cfg.Features.Logger {
		provider, err := buildLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		m.logs = provider
	}

	if m.documents == nil {
		documents, err := markdown.NewService(markdown.Config{
			BasePath:  cfg.Documents.Dir,
			Pattern:   cfg.Documents.Pattern,
			Recursive: cfg.Documents.Recursive,
			Converter: interfaces.ConvertOptions{
				Extensions: cfg.Documents.Converter.Extensions,
				HardWraps:  cfg.Documents.Converter.HardWraps,
				SafeMode:   cfg.Documents.Converter.SafeMode,
			},
		}, nil, m.logs)
		if err != nil {
			return nil, err
		}
		m.documents = documents
	}

	if m.validator == nil {
		m.validator = validation.NewValidator(m.logs)
	}

	if !cfg.Features.Renderer {
		m.renderer = renderer.NewDisabledService()
	} else if m.renderer == nil {
		pages, err := renderer.NewService(renderer.Config{
			OutputDir:    cfg.Renderer.OutputDir,
			TemplatePath: cfg.Renderer.TemplatePath,
			Theming: renderer.ThemingConfig{
				BasePath:          cfg.Renderer.Theme.BasePath,
				DefaultTheme:      cfg.Renderer.Theme.Default,
				DefaultVariant:    cfg.Renderer.Theme.DefaultVariant,
				CSSVariablePrefix: cfg.Renderer.Theme.CSSVariablePrefix,
			},
		}, renderer.Dependencies{
			Documents: m.documents,
			Validator: m.validator,
			Logs:      m.logs,
		})
		if err != nil {
			return nil, err
		}
		m.renderer = pages
	}

	if !cfg.Features.Importer {
		m.importer = htmlimport.NewDisabledService()
	} else if m.importer == nil {
		m.importer = htmlimport.NewService(htmlimport.Config{
			ImagesDir:    cfg.Import.ImagesDir,
			BumpHeadings: cfg.Import.BumpHeadings,
		}, htmlimport.Dependencies{Logs: m.logs})
	}

	return m, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	if m == nil {
		return Config{}
	}
	return m.config
}

// Documents returns the configured document service.
func (m *Module) Documents() DocumentService {
	if m == nil {
		return nil
	}
	return m.documents
}

// Validator returns the configured document validator.
func (m *Module) Validator() DocumentValidator {
	if m == nil {
		return nil
	}
	return m.validator
}

// Renderer returns the configured page renderer.
func (m *Module) Renderer() PageRenderer {
	if m == nil {
		return nil
	}
	return m.renderer
}

// Importer returns the configured HTML importer.
func (m *Module) Importer() HTMLImporter {
	if m == nil {
		return nil
	}
	return m.importer
}

// Logger returns the module-scoped logger. It never returns nil; without a
// provider it hands out the no-op logger.
func (m *Module) Logger() interfaces.Logger {
	if m == nil {
		return logging.NoOp()
	}
	return logging.ModuleLogger(m.logs, "specdoc")
}

// RegisterCommands wires the document command handlers into the host command
// bus. The registry only needs a RegisterCommand method; pass nil to build
// the handler set without subscribing it anywhere.
func (m *Module) RegisterCommands(registry CommandRegistry) (*CommandHandlerSet, error) {
	return docs.RegisterDocumentCommands(registry, docs.Services{
		Documents: m.documents,
		Renderer:  m.renderer,
		Importer:  m.importer,
		Validator: m.validator,
	}, m.logs, docs.FeatureGates{
		RendererEnabled: func() bool { return m.config.Features.Renderer },
		ImporterEnabled: func() bool { return m.config.Features.Importer },
	})
}

// Parse reads a document from raw markdown bytes without touching the
// filesystem. The returned document is detached from any module state.
func Parse(source []byte) (*document.Document, error) {
	return markdown.Parse(source)
}

// ParseFile reads and parses the markdown document at path.
func ParseFile(path string) (*document.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return markdown.Parse(source)
}

// Serialize renders a document back to its canonical markdown form.
func Serialize(doc *document.Document) []byte {
	return markdown.Serialize(doc)
}

func buildLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch normalizeProviderName(cfg.Provider) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		opts := console.Options{}
		if level, ok := consoleLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}
