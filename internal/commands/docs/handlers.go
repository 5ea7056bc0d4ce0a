package docscmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-specdoc/internal/commands"
	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	validateOperation = "docs.validate_document"
	renderOperation   = "docs.render_document"
	importOperation   = "docs.import_html"
)

var (
	// ErrRendererFeatureDisabled is returned when the renderer feature flag is off at runtime.
	ErrRendererFeatureDisabled = errors.New("docs command: renderer feature disabled")
	// ErrImporterFeatureDisabled is returned when the importer feature flag is off at runtime.
	ErrImporterFeatureDisabled = errors.New("docs command: importer feature disabled")
)

var (
	_ command.Commander[ValidateDocumentCommand] = (*ValidateDocumentHandler)(nil)
	_ command.Commander[RenderDocumentCommand]   = (*RenderDocumentHandler)(nil)
	_ command.Commander[ImportHTMLCommand]       = (*ImportHTMLHandler)(nil)
)

// ValidateDocumentHandler parses documents from disk and re-checks them via
// the shared command handler foundation.
type ValidateDocumentHandler struct {
	inner *commands.Handler[ValidateDocumentCommand]
}

// NewValidateDocumentHandler creates a handler bound to the supplied document
// service. The validator is optional; when nil, parsing alone decides.
func NewValidateDocumentHandler(documents interfaces.DocumentService, validator interfaces.DocumentValidator, logger interfaces.Logger, opts ...commands.HandlerOption[ValidateDocumentCommand]) *ValidateDocumentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ValidateDocumentCommand) error {
		sources, err := loadSources(ctx, documents, msg.Source)
		if err != nil {
			return err
		}
		if validator != nil {
			for _, src := range sources {
				if err := validator.ValidateDocument(ctx, src.Document); err != nil {
					return fmt.Errorf("validate %s: %w", src.Path, err)
				}
			}
		}
		logging.WithFields(baseLogger, map[string]any{
			"source":         msg.Source,
			"document_count": len(sources),
		}).Info("docs.command.validate_document.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateDocumentCommand]{
		commands.WithLogger[ValidateDocumentCommand](baseLogger),
		commands.WithOperation[ValidateDocumentCommand](validateOperation),
		commands.WithMessageFields(func(msg ValidateDocumentCommand) map[string]any {
			return map[string]any{"source": msg.Source}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateDocumentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ValidateDocumentCommand].
func (h *ValidateDocumentHandler) Execute(ctx context.Context, msg ValidateDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderDocumentHandler runs page generation via the shared command handler foundation.
type RenderDocumentHandler struct {
	inner *commands.Handler[RenderDocumentCommand]
}

// NewRenderDocumentHandler creates a handler bound to the supplied document
// and renderer services.
func NewRenderDocumentHandler(documents interfaces.DocumentService, renderer interfaces.PageRenderer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RenderDocumentCommand]) *RenderDocumentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RenderDocumentCommand) error {
		if !gates.rendererEnabled() {
			return ErrRendererFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sources, err := loadSources(ctx, documents, msg.Source)
		if err != nil {
			return err
		}

		result, err := renderer.Generate(ctx, interfaces.GenerateRequest{
			Documents: sources,
			OutputDir: msg.OutputDir,
			Page: interfaces.PageOptions{
				TemplatePath: msg.TemplatePath,
				Theme:        msg.Theme,
				ThemeVariant: msg.ThemeVariant,
			},
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"page_count":    len(result.Pages),
				"manifest_path": result.ManifestPath,
				"dry_run":       result.DryRun,
			}).Info("docs.command.render_document.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDocumentCommand]{
		commands.WithLogger[RenderDocumentCommand](baseLogger),
		commands.WithOperation[RenderDocumentCommand](renderOperation),
		commands.WithMessageFields(func(msg RenderDocumentCommand) map[string]any {
			fields := map[string]any{"source": msg.Source}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if msg.Theme != "" {
				fields["theme"] = msg.Theme
			}
			if msg.ThemeVariant != "" {
				fields["theme_variant"] = msg.ThemeVariant
			}
			if msg.TemplatePath != "" {
				fields["template_path"] = msg.TemplatePath
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDocumentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RenderDocumentCommand].
func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportHTMLHandler converts an HTML export to markdown via the shared
// command handler foundation.
type ImportHTMLHandler struct {
	inner *commands.Handler[ImportHTMLCommand]
}

// NewImportHTMLHandler creates a handler bound to the supplied importer.
func NewImportHTMLHandler(importer interfaces.HTMLImporter, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportHTMLCommand]) *ImportHTMLHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportHTMLCommand) error {
		if !gates.importerEnabled() {
			return ErrImporterFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, err := os.ReadFile(msg.Source)
		if err != nil {
			return fmt.Errorf("docs command: read %s: %w", msg.Source, err)
		}

		result, err := importer.Import(ctx, data, interfaces.HTMLImportOptions{
			Title:        msg.Title,
			DocType:      msg.DocType,
			Version:      msg.Version,
			PDFFilename:  msg.PDFFilename,
			DateModified: msg.DateModified,
			ImagesDir:    msg.ImagesDir,
			BumpHeadings: msg.BumpHeadings,
		})
		if err != nil {
			return err
		}

		if dir := filepath.Dir(msg.Output); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("docs command: create output dir %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(msg.Output, result.Markdown, 0o644); err != nil {
			return fmt.Errorf("docs command: write %s: %w", msg.Output, err)
		}

		logging.WithFields(baseLogger, map[string]any{
			"source":      msg.Source,
			"output":      msg.Output,
			"title":       result.Document.Metadata.Title,
			"image_count": len(result.Images),
		}).Info("docs.command.import_html.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportHTMLCommand]{
		commands.WithLogger[ImportHTMLCommand](baseLogger),
		commands.WithOperation[ImportHTMLCommand](importOperation),
		commands.WithMessageFields(func(msg ImportHTMLCommand) map[string]any {
			fields := map[string]any{
				"source": msg.Source,
				"output": msg.Output,
			}
			if msg.ImagesDir != "" {
				fields["images_dir"] = msg.ImagesDir
			}
			if msg.BumpHeadings {
				fields["bump_headings"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportHTMLHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportHTMLCommand].
func (h *ImportHTMLHandler) Execute(ctx context.Context, msg ImportHTMLCommand) error {
	return h.inner.Execute(ctx, msg)
}

// loadSources resolves a path to parsed documents, descending into
// directories so one command covers both a single manual and a docs tree.
func loadSources(ctx context.Context, documents interfaces.DocumentService, source string) ([]*interfaces.SourceDocument, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("docs command: stat %s: %w", source, err)
	}
	if info.IsDir() {
		return documents.LoadDirectory(ctx, source, interfaces.LoadOptions{})
	}
	doc, err := documents.Load(ctx, source, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return []*interfaces.SourceDocument{doc}, nil
}
