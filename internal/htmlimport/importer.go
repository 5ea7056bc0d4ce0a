// Package htmlimport converts exported HTML pages, such as the ones the
// engineering wiki produces, into front-mattered markdown that reads back
// through the strict document parser.
package htmlimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/internal/markdown"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

// ErrServiceDisabled is returned when the importer feature is switched off.
var ErrServiceDisabled = errors.New("htmlimport: service disabled")

var errSourceRequired = errors.New("htmlimport: source html required")

const (
	defaultImagesDir = "images"
	defaultDocType   = "imported_document"
	defaultVersion   = "1"
	fallbackTitle    = "Imported Document"
	fallbackPDFStem  = "imported-document"
)

// Config carries the import defaults; per-call options override them.
type Config struct {
	ImagesDir    string
	BumpHeadings bool
}

// Dependencies lists the collaborators the importer accepts.
type Dependencies struct {
	Logs interfaces.LoggerProvider
}

// Service converts HTML exports into strict markdown documents.
type Service struct {
	cfg    Config
	logger interfaces.Logger
	now    func() time.Time
}

var _ interfaces.HTMLImporter = (*Service)(nil)

// NewService wires an importer around the provided defaults.
func NewService(cfg Config, deps Dependencies) *Service {
	return &Service{
		cfg:    cfg,
		logger: logging.ImporterLogger(deps.Logs),
		now:    time.Now,
	}
}

// NewDisabledService returns an importer that rejects every call with
// ErrServiceDisabled.
func NewDisabledService() interfaces.HTMLImporter {
	return disabledService{}
}

type disabledService struct{}

func (disabledService) Import(context.Context, []byte, interfaces.HTMLImportOptions) (*interfaces.HTMLImportResult, error) {
	return nil, ErrServiceDisabled
}

// Import rebuilds the page as markdown, proves the output by parsing it
// back, and reports the image assets the caller still has to download.
func (s *Service) Import(ctx context.Context, source []byte, opts interfaces.HTMLImportOptions) (*interfaces.HTMLImportResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, errSourceRequired
	}

	page, err := parsePage(source, walkOptions{
		ImagesDir:    s.imagesDir(opts),
		BumpHeadings: opts.BumpHeadings || s.cfg.BumpHeadings,
	})
	if err != nil {
		return nil, fmt.Errorf("htmlimport: parse source: %w", err)
	}

	doc := &document.Document{
		Metadata: s.buildMetadata(page, opts),
		Sections: page.Sections,
	}
	out := markdown.Serialize(doc)

	parsed, err := markdown.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("htmlimport: generated markdown does not parse: %w", err)
	}

	logging.WithDocumentContext(s.logger, "", parsed.Metadata.Title, "").
		Debug("html imported", "sections", len(parsed.Sections), "images", len(page.Images))

	return &interfaces.HTMLImportResult{
		Markdown: out,
		Document: parsed,
		Images:   page.Images,
	}, nil
}

func (s *Service) imagesDir(opts interfaces.HTMLImportOptions) string {
	if dir := strings.TrimSpace(opts.ImagesDir); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(s.cfg.ImagesDir); dir != "" {
		return dir
	}
	return defaultImagesDir
}

// buildMetadata fills the required front matter keys, preferring explicit
// options over values recovered from the page.
func (s *Service) buildMetadata(page *importedPage, opts interfaces.HTMLImportOptions) document.Metadata {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = strings.TrimSpace(page.Title)
	}
	if title == "" {
		title = firstSectionTitle(page.Sections)
	}
	if title == "" {
		title = fallbackTitle
	}

	docType := strings.TrimSpace(opts.DocType)
	if docType == "" {
		docType = defaultDocType
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = defaultVersion
	}

	modified := strings.TrimSpace(opts.DateModified)
	if modified == "" {
		modified = s.now().UTC().Format("2006-01-02")
	}

	pdfFilename := strings.TrimSpace(opts.PDFFilename)
	if pdfFilename == "" {
		stem := document.HeadingAnchor(title)
		if stem == "" {
			stem = fallbackPDFStem
		}
		pdfFilename = stem + ".pdf"
	}

	return document.Metadata{
		Title:        title,
		DocType:      docType,
		DateModified: modified,
		Version:      version,
		PDFFilename:  pdfFilename,
	}
}

func firstSectionTitle(sections []document.Section) string {
	for _, section := range sections {
		if title := strings.TrimSpace(section.Title); title != "" {
			return title
		}
	}
	return ""
}
