package renderer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categoryManifest writeCategory = "manifest"
)

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// artifactWriter abstracts filesystem specifics for generation outputs so
// tests can capture writes without touching disk.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

type osWriter struct{}

func (osWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	return os.MkdirAll(filepath.FromSlash(path), 0o755)
}

func (osWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return errors.New("renderer: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("renderer: write requires path")
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.FromSlash(req.Path), data, 0o644)
}

func (osWriter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.FromSlash(path))
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }

func (noopWriter) ReadFile(context.Context, string) ([]byte, error) {
	return nil, os.ErrNotExist
}
