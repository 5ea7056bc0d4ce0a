package specdoc

import (
	"strings"

	"github.com/goliatone/go-specdoc/internal/logging/console"
	"github.com/goliatone/go-specdoc/internal/runtimeconfig"
)

// Config exports the module configuration contract.
type Config = runtimeconfig.Config

// DocumentsConfig exports the document discovery settings.
type DocumentsConfig = runtimeconfig.DocumentsConfig

// ConverterConfig exports the markdown-to-HTML converter settings.
type ConverterConfig = runtimeconfig.ConverterConfig

// RendererConfig exports the standalone page generation settings.
type RendererConfig = runtimeconfig.RendererConfig

// ThemeConfig exports the renderer theme settings.
type ThemeConfig = runtimeconfig.ThemeConfig

// ImportConfig exports the HTML import settings.
type ImportConfig = runtimeconfig.ImportConfig

// LoggingConfig exports the logging provider settings.
type LoggingConfig = runtimeconfig.LoggingConfig

// Features exports the module feature toggles.
type Features = runtimeconfig.Features

// Configuration validation failures surfaced by New.
var (
	ErrDocumentsDirRequired      = runtimeconfig.ErrDocumentsDirRequired
	ErrRendererFeatureRequired   = runtimeconfig.ErrRendererFeatureRequired
	ErrRendererOutputDirRequired = runtimeconfig.ErrRendererOutputDirRequired
	ErrImporterFeatureRequired   = runtimeconfig.ErrImporterFeatureRequired
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

// DefaultConfig returns the opinionated defaults documented on
// runtimeconfig.DefaultConfig.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

func normalizeProviderName(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func consoleLevel(level string) (console.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace, true
	case "debug":
		return console.LevelDebug, true
	case "info":
		return console.LevelInfo, true
	case "warn", "warning":
		return console.LevelWarn, true
	case "error":
		return console.LevelError, true
	case "fatal":
		return console.LevelFatal, true
	default:
		return console.LevelInfo, false
	}
}
