package bootstrap

import (
	"fmt"
	"strings"

	specdoc "github.com/goliatone/go-specdoc"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

// Options captures configuration shared by the specdoc CLI bootstraps.
type Options struct {
	DocsDir      string
	Pattern      string
	Recursive    bool
	OutputDir    string
	TemplatePath string
	ThemesDir    string
	Theme        string
	ThemeVariant string
	ImagesDir    string
	BumpHeadings bool
	LogProvider  string
	LogLevel     string
	LogFormat    string

	// LoggerProvider overrides the provider built from the logging flags.
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the specdoc module with the logger the CLIs report through.
type Module struct {
	Module *specdoc.Module
	Logger interfaces.Logger
}

// BuildModule constructs a specdoc module configured for CLI use.
func BuildModule(opts Options) (*Module, error) {
	cfg := specdoc.DefaultConfig()

	if trimmed := strings.TrimSpace(opts.DocsDir); trimmed != "" {
		cfg.Documents.Dir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Documents.Pattern = trimmed
	}
	cfg.Documents.Recursive = opts.Recursive

	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Renderer.OutputDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.TemplatePath); trimmed != "" {
		cfg.Renderer.TemplatePath = trimmed
	}
	if trimmed := strings.TrimSpace(opts.ThemesDir); trimmed != "" {
		cfg.Renderer.Theme.BasePath = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Theme); trimmed != "" {
		cfg.Renderer.Theme.Default = trimmed
	}
	if trimmed := strings.TrimSpace(opts.ThemeVariant); trimmed != "" {
		cfg.Renderer.Theme.DefaultVariant = trimmed
	}

	if trimmed := strings.TrimSpace(opts.ImagesDir); trimmed != "" {
		cfg.Import.ImagesDir = trimmed
	}
	cfg.Import.BumpHeadings = opts.BumpHeadings

	if provider := strings.TrimSpace(opts.LogProvider); provider != "" {
		cfg.Features.Logger = true
		cfg.Logging.Provider = provider
		if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
			cfg.Logging.Level = trimmed
		}
		if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
			cfg.Logging.Format = trimmed
		}
	}

	moduleOpts := []specdoc.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, specdoc.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := specdoc.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise specdoc module: %w", err)
	}

	return &Module{Module: module, Logger: module.Logger()}, nil
}
