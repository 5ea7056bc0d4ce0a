package docscmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-specdoc/internal/commands"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the document command handlers produced by RegisterDocumentCommands.
type HandlerSet struct {
	Validate *ValidateDocumentHandler
	Render   *RenderDocumentHandler
	Import   *ImportHTMLHandler
}

// Services bundles the module services the document handlers call into.
// Validator is optional; the others must be present (disabled features are
// represented by their NewDisabledService stand-ins, not nil).
type Services struct {
	Documents interfaces.DocumentService
	Renderer  interfaces.PageRenderer
	Importer  interfaces.HTMLImporter
	Validator interfaces.DocumentValidator
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	validateHandlerOpts []commands.HandlerOption[ValidateDocumentCommand]
	renderHandlerOpts   []commands.HandlerOption[RenderDocumentCommand]
	importHandlerOpts   []commands.HandlerOption[ImportHTMLCommand]
}

// WithValidateHandlerOptions forwards options to the ValidateDocumentHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.validateHandlerOpts = append(cfg.validateHandlerOpts, opts...)
	}
}

// WithRenderHandlerOptions forwards options to the RenderDocumentHandler constructor.
func WithRenderHandlerOptions(opts ...commands.HandlerOption[RenderDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.renderHandlerOpts = append(cfg.renderHandlerOpts, opts...)
	}
}

// WithImportHandlerOptions forwards options to the ImportHTMLHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportHTMLCommand]) Option {
	return func(cfg *options) {
		cfg.importHandlerOpts = append(cfg.importHandlerOpts, opts...)
	}
}

// RegisterDocumentCommands builds the document command handlers and registers
// them with the provided registry. The returned HandlerSet lets callers wire
// additional integrations (dispatcher, cron) as needed.
func RegisterDocumentCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if services.Documents == nil {
		return nil, errors.New("docs command registration: document service is nil")
	}
	if services.Renderer == nil {
		return nil, errors.New("docs command registration: renderer service is nil")
	}
	if services.Importer == nil {
		return nil, errors.New("docs command registration: importer service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "docs")

	validateHandler := NewValidateDocumentHandler(services.Documents, services.Validator, logger, cfg.validateHandlerOpts...)
	renderHandler := NewRenderDocumentHandler(services.Documents, services.Renderer, logger, gates, cfg.renderHandlerOpts...)
	importHandler := NewImportHTMLHandler(services.Importer, logger, gates, cfg.importHandlerOpts...)

	if reg != nil {
		for _, handler := range []any{validateHandler, renderHandler, importHandler} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}

	return &HandlerSet{
		Validate: validateHandler,
		Render:   renderHandler,
		Import:   importHandler,
	}, nil
}

// RegisterRenderCron wires the provided render handler into a cron registrar
// using the supplied command configuration and message payload, so hosts can
// schedule periodic regeneration runs. The handler executes with a
// background context.
func RegisterRenderCron(reg CronRegistrar, handler *RenderDocumentHandler, cfg command.HandlerConfig, msg RenderDocumentCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
