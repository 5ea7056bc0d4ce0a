package interfaces

import (
	"context"
	"time"

	"github.com/goliatone/go-specdoc/document"
)

// HTMLConverter turns document markdown into an HTML fragment. The body
// converter is pluggable so hosts can tune extensions without rewriting the
// reader or the page renderer.
type HTMLConverter interface {
	// Convert renders markdown with the converter's default settings.
	Convert(markdown []byte) ([]byte, error)
	// ConvertWithOptions renders markdown using the supplied overrides.
	ConvertWithOptions(markdown []byte, opts ConvertOptions) ([]byte, error)
}

// ConvertOptions customises HTML conversion, keeping option names readable
// for configuration unmarshalling and CLI flags.
type ConvertOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// SourceDocument couples a parsed document with the provenance of the file
// it came from. The struct is shared between this package and internal
// implementations so consumers can depend on a stable contract.
type SourceDocument struct {
	Path     string
	Document *document.Document
	Source   []byte
	// Checksum stores a SHA-256 digest of the original file content so
	// generation runs can detect changes without re-reading sources.
	Checksum     []byte
	LastModified time.Time
}

// LoadOptions fine-tunes how documents are discovered on disk.
type LoadOptions struct {
	Pattern   string
	Recursive *bool
}

// DocumentService exposes the document workflows: read files into typed
// documents, serialize them back to markdown, and convert bodies to HTML.
type DocumentService interface {
	Parse(ctx context.Context, source []byte) (*document.Document, error)
	Load(ctx context.Context, path string, opts LoadOptions) (*SourceDocument, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*SourceDocument, error)
	Serialize(doc *document.Document) []byte
	Render(ctx context.Context, doc *document.Document, opts ConvertOptions) ([]byte, error)
}

// DocumentValidator re-checks documents that were assembled programmatically
// rather than parsed, plus the metadata contract on either path.
type DocumentValidator interface {
	ValidateMetadata(ctx context.Context, meta document.Metadata) error
	ValidateDocument(ctx context.Context, doc *document.Document) error
}

// PageOptions selects the template and theme for standalone page rendering.
type PageOptions struct {
	TemplatePath string
	Theme        string
	ThemeVariant string
	Convert      ConvertOptions
}

// RenderedPage is a fully assembled HTML page ready for the PDF step.
type RenderedPage struct {
	Name     string
	HTML     []byte
	TOC      []document.TOCEntry
	Checksum string
	Theme    string
	Variant  string
}

// GenerateRequest describes one generation run over loaded documents.
type GenerateRequest struct {
	Documents []*SourceDocument
	OutputDir string
	Page      PageOptions
	DryRun    bool
}

// PageArtifact records one written page for the build manifest.
type PageArtifact struct {
	ID          string
	Title       string
	Source      string
	Output      string
	PDFFilename string
	Checksum    string
	RenderedAt  time.Time
}

// GenerateResult summarises a generation run.
type GenerateResult struct {
	Pages        []PageArtifact
	ManifestPath string
	DryRun       bool
}

// PageRenderer builds standalone HTML pages and writes generation artifacts.
// The PDF renderer named by each document's pdf_filename consumes the output
// out of band; nothing behind this interface invokes it.
type PageRenderer interface {
	RenderPage(ctx context.Context, doc *document.Document, opts PageOptions) (*RenderedPage, error)
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// HTMLImportOptions controls HTML-to-markdown conversion. Metadata fields
// fill the generated front matter; Title falls back to the page title.
type HTMLImportOptions struct {
	Title        string
	DocType      string
	Version      string
	PDFFilename  string
	DateModified string
	ImagesDir    string
	BumpHeadings bool
}

// ImageReference maps an image URL found during import to its rewritten
// local path.
type ImageReference struct {
	Source string
	Target string
}

// HTMLImportResult carries the generated markdown, its parsed form, and the
// image assets the caller still has to fetch.
type HTMLImportResult struct {
	Markdown []byte
	Document *document.Document
	Images   []ImageReference
}

// HTMLImporter converts an exported HTML page into document markdown that
// round-trips through the reader.
type HTMLImporter interface {
	Import(ctx context.Context, source []byte, opts HTMLImportOptions) (*HTMLImportResult, error)
}
