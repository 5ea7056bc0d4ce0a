package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
)

var ErrDocumentsDirRequired = errors.New("specdoc config: documents directory is required")
var ErrRendererFeatureRequired = errors.New("specdoc config: renderer feature must be enabled to configure themes")
var ErrRendererOutputDirRequired = errors.New("specdoc config: renderer output directory is required when the renderer is enabled")
var ErrImporterFeatureRequired = errors.New("specdoc config: importer feature must be enabled to configure imports")
var ErrLoggingProviderRequired = errors.New("specdoc config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("specdoc config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("specdoc config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("specdoc config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the specdoc
// module. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Documents DocumentsConfig
	Renderer  RendererConfig
	Import    ImportConfig
	Logging   LoggingConfig
	Features  Features
}

// DocumentsConfig captures filesystem and converter behaviour for reading
// specification documents.
type DocumentsConfig struct {
	Dir       string
	Pattern   string
	Recursive bool
	Converter ConverterConfig
}

// ConverterConfig mirrors interfaces.ConvertOptions for runtime configuration.
type ConverterConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// RendererConfig captures behaviour for standalone page generation.
type RendererConfig struct {
	OutputDir    string
	TemplatePath string
	Theme        ThemeConfig
}

// ThemeConfig points the renderer at an optional theme directory.
type ThemeConfig struct {
	BasePath          string
	Default           string
	DefaultVariant    string
	CSSVariablePrefix string
}

// ImportConfig captures HTML import behaviour.
type ImportConfig struct {
	ImagesDir    string
	BumpHeadings bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Renderer bool
	Importer bool
	Logger   bool
}

// DefaultConfig returns opinionated defaults: read documents from ./docs,
// render pages into ./dist, import images next to the generated markdown.
func DefaultConfig() Config {
	return Config{
		Documents: DocumentsConfig{
			Dir:       "docs",
			Pattern:   "*.md",
			Recursive: true,
			Converter: ConverterConfig{
				Extensions: []string{"gfm"},
			},
		},
		Renderer: RendererConfig{
			OutputDir: "dist",
			Theme: ThemeConfig{
				BasePath: "themes",
			},
		},
		Import: ImportConfig{
			ImagesDir:    "images",
			BumpHeadings: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Renderer: true,
			Importer: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Documents.Dir) == "" {
		return ErrDocumentsDirRequired
	}
	if !cfg.Features.Renderer {
		if strings.TrimSpace(cfg.Renderer.Theme.Default) != "" {
			return ErrRendererFeatureRequired
		}
	}
	if cfg.Features.Renderer {
		if strings.TrimSpace(cfg.Renderer.OutputDir) == "" {
			return ErrRendererOutputDirRequired
		}
	}
	if !cfg.Features.Importer {
		if strings.TrimSpace(cfg.Import.ImagesDir) != "" && cfg.Import.ImagesDir != DefaultConfig().Import.ImagesDir {
			return ErrImporterFeatureRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
