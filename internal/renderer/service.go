package renderer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/internal/identity"
	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the renderer feature is disabled.
	ErrServiceDisabled = errors.New("renderer: service disabled")

	errDocumentsRequired = errors.New("renderer: document service is required")
	errDocumentRequired  = errors.New("renderer: document is required")
)

// Config captures runtime behaviour toggles for the renderer.
type Config struct {
	OutputDir    string
	TemplatePath string
	Theming      ThemingConfig
}

// Dependencies lists the services required by the renderer.
type Dependencies struct {
	Documents   interfaces.DocumentService
	Validator   interfaces.DocumentValidator
	Logs        interfaces.LoggerProvider
	ThemeLoader ThemeManifestLoader
}

// Service renders documents into standalone HTML pages and writes the
// generation manifest alongside them.
type Service struct {
	cfg    Config
	deps   Dependencies
	themes *themeSelector
	writer artifactWriter
	logger interfaces.Logger
	now    func() time.Time
}

var _ interfaces.PageRenderer = (*Service)(nil)

// NewService wires a renderer with the provided configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies) (*Service, error) {
	if deps.Documents == nil {
		return nil, errDocumentsRequired
	}
	return &Service{
		cfg:    cfg,
		deps:   deps,
		themes: newThemeSelector(cfg.Theming, deps.ThemeLoader),
		writer: osWriter{},
		logger: logging.RendererLogger(deps.Logs),
		now:    time.Now,
	}, nil
}

// NewDisabledService returns a PageRenderer that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() interfaces.PageRenderer {
	return disabledService{}
}

type disabledService struct{}

func (disabledService) RenderPage(context.Context, *document.Document, interfaces.PageOptions) (*interfaces.RenderedPage, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Generate(context.Context, interfaces.GenerateRequest) (*interfaces.GenerateResult, error) {
	return nil, ErrServiceDisabled
}

// RenderPage assembles a complete HTML page for a single document.
func (s *Service) RenderPage(ctx context.Context, doc *document.Document, opts interfaces.PageOptions) (*interfaces.RenderedPage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errDocumentRequired
	}

	if s.deps.Validator != nil {
		if err := s.deps.Validator.ValidateDocument(ctx, doc); err != nil {
			return nil, err
		}
	}

	body, err := s.deps.Documents.Render(ctx, doc, opts.Convert)
	if err != nil {
		return nil, fmt.Errorf("renderer: convert body: %w", err)
	}

	selection, err := s.themes.Selection(opts.Theme, opts.ThemeVariant)
	if err != nil {
		return nil, err
	}
	themeCtx := buildThemeContext(selection, s.cfg.Theming)

	templatePath := strings.TrimSpace(opts.TemplatePath)
	if templatePath == "" {
		templatePath = s.cfg.TemplatePath
	}
	tmpl, err := loadTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	toc := doc.TableOfContents()
	data := pageData{
		Title:       doc.Metadata.Title,
		Metadata:    doc.Metadata,
		Body:        template.HTML(body),
		TOC:         toc,
		Theme:       themeCtx,
		ThemeCSS:    cssVariableBlock(themeCtx.CSSVars),
		GeneratedAt: s.now(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("renderer: execute template: %w", err)
	}

	html := buf.Bytes()
	page := &interfaces.RenderedPage{
		Name:     outputName(doc.Metadata),
		HTML:     html,
		TOC:      toc,
		Checksum: computeHash(html),
		Theme:    themeCtx.Name,
		Variant:  themeCtx.Variant,
	}

	logging.WithDocumentContext(s.logger, "", doc.Metadata.Title, page.Name).
		Debug("page rendered", "bytes", len(html))
	return page, nil
}

// Generate renders every supplied document, writes the pages under the
// output directory, and persists the build manifest. The first failure
// aborts the run.
func (s *Service) Generate(ctx context.Context, req interfaces.GenerateRequest) (*interfaces.GenerateResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}
	baseDir := strings.Trim(strings.TrimSpace(outputDir), "/")

	writer := s.writer
	if req.DryRun {
		writer = noopWriter{}
	}

	manifest, err := s.loadManifest(ctx, baseDir)
	if err != nil {
		s.logger.Warn("manifest unreadable, starting fresh", "error", err)
		manifest = newBuildManifest()
	}

	result := &interfaces.GenerateResult{
		DryRun:       req.DryRun,
		ManifestPath: joinOutputPath(baseDir, manifestFileName),
	}

	dirCache := map[string]struct{}{}
	if baseDir != "" {
		if err := ensureDir(ctx, writer, dirCache, baseDir); err != nil {
			return nil, err
		}
	}

	generatedAt := s.now()
	for _, src := range req.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if src == nil || src.Document == nil {
			continue
		}

		page, err := s.RenderPage(ctx, src.Document, req.Page)
		if err != nil {
			return nil, fmt.Errorf("renderer: render %s: %w", src.Path, err)
		}

		docID := identity.DocumentUUID(src.Path)
		fullPath := joinOutputPath(baseDir, page.Name)

		if manifest.shouldSkipPage(docID, page.Checksum, fullPath) {
			s.logger.Debug("page unchanged", "document_path", src.Path, "output", fullPath)
		} else {
			if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
				return nil, err
			}
			wreq := writeFileRequest{
				Path:        fullPath,
				Content:     bytes.NewReader(page.HTML),
				Size:        int64(len(page.HTML)),
				Category:    categoryPage,
				ContentType: "text/html; charset=utf-8",
				Checksum:    page.Checksum,
				Metadata: map[string]string{
					"document_id":  docID.String(),
					"source":       src.Path,
					"pdf_filename": src.Document.Metadata.PDFFilename,
				},
			}
			if err := writer.WriteFile(ctx, wreq); err != nil {
				return nil, err
			}
		}

		entry := manifestPage{
			DocumentID:  docID.String(),
			Title:       src.Document.Metadata.Title,
			Source:      src.Path,
			Output:      fullPath,
			PDFFilename: src.Document.Metadata.PDFFilename,
			Checksum:    page.Checksum,
			RenderedAt:  generatedAt,
		}
		manifest.setPage(entry)

		result.Pages = append(result.Pages, interfaces.PageArtifact{
			ID:          entry.DocumentID,
			Title:       entry.Title,
			Source:      entry.Source,
			Output:      entry.Output,
			PDFFilename: entry.PDFFilename,
			Checksum:    entry.Checksum,
			RenderedAt:  generatedAt,
		})
	}

	manifest.GeneratedAt = generatedAt
	if err := s.persistManifest(ctx, writer, manifest, baseDir); err != nil {
		return nil, err
	}

	s.logger.Info("generation complete",
		"pages", len(result.Pages),
		"output_dir", baseDir,
		"dry_run", req.DryRun,
	)
	return result, nil
}

func (s *Service) loadManifest(ctx context.Context, baseDir string) (*buildManifest, error) {
	target := joinOutputPath(baseDir, manifestFileName)
	if strings.TrimSpace(target) == "" {
		return newBuildManifest(), nil
	}
	data, err := s.writer.ReadFile(ctx, target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newBuildManifest(), nil
		}
		return nil, fmt.Errorf("renderer: read manifest: %w", err)
	}
	return parseManifest(data)
}

func (s *Service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest, baseDir string) error {
	if manifest == nil {
		return nil
	}
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := joinOutputPath(baseDir, manifestFileName)
	if strings.TrimSpace(target) == "" {
		return nil
	}
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	req := writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	}
	return writer.WriteFile(ctx, req)
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
