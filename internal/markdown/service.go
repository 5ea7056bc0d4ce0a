package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

// Config controls how the document service discovers and converts files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Converter interfaces.ConvertOptions
}

// Service implements interfaces.DocumentService for filesystem-backed
// documents.
type Service struct {
	cfg       Config
	converter interfaces.HTMLConverter
	loader    *Loader
	logger    interfaces.Logger
}

var _ interfaces.DocumentService = (*Service)(nil)

// NewService constructs a document service rooted at cfg.BasePath. When
// converter is nil, a goldmark converter with the configured defaults is
// created.
func NewService(cfg Config, converter interfaces.HTMLConverter, logs interfaces.LoggerProvider) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	if converter == nil {
		converter = NewGoldmarkConverter(cfg.Converter)
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return &Service{
		cfg:       cfg,
		converter: converter,
		loader:    loader,
		logger:    logging.ReaderLogger(logs),
	}, nil
}

// Parse reads a complete document from raw markdown.
func (s *Service) Parse(ctx context.Context, source []byte) (*document.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return Parse(source)
}

// Load reads a single document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.SourceDocument, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), opts)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("document loaded",
		"document_path", result.Path,
		"document_title", result.Document.Metadata.Title,
	)
	return result, nil
}

// LoadDirectory reads every document within the supplied directory. The
// first malformed file aborts the load.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.SourceDocument, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), opts)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("directory loaded", "dir", dir, "documents", len(results))
	return results, nil
}

// Serialize renders the document back to canonical markdown.
func (s *Service) Serialize(doc *document.Document) []byte {
	return Serialize(doc)
}

// Render converts the document body into an HTML fragment. Headings carry
// anchors derived from their titles so navigation links stay stable.
func (s *Service) Render(ctx context.Context, doc *document.Document, opts interfaces.ConvertOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if doc == nil {
		return nil, errors.New("document service: document is nil")
	}
	body := SerializeBody(doc, true)
	return s.converter.ConvertWithOptions(body, mergeConvertOptions(s.cfg.Converter, opts))
}

// normalisePath maps caller paths onto the loader filesystem. Paths that
// repeat the base prefix, absolute or relative, collapse to base-relative
// form so CLI callers can pass paths as typed.
func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	base := filepath.Clean(strings.TrimSpace(s.cfg.BasePath))
	if base != "" && base != "." {
		if filepath.IsAbs(clean) {
			if rel, err := filepath.Rel(base, clean); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		} else if clean == base {
			return "."
		} else if strings.HasPrefix(clean, base+string(filepath.Separator)) {
			return filepath.ToSlash(strings.TrimPrefix(clean, base+string(filepath.Separator)))
		}
	}
	return filepath.ToSlash(clean)
}

func mergeConvertOptions(base, override interfaces.ConvertOptions) interfaces.ConvertOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("document service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
