package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/internal/identity"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
	gotheme "github.com/goliatone/go-theme"
)

const stubBody = `<h2 id="ratings">Ratings</h2>
<table><thead><tr><th>Mode</th><th>Output</th></tr></thead></table>`

func TestRenderPageDefaultTemplate(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	docs := &stubDocuments{body: []byte(stubBody)}
	svc, _ := newRendererForTest(t, Config{}, Dependencies{Documents: docs}, now)

	doc := fixtureDocument("Port Nacelle Assembly", "port-nacelle-assembly.pdf")
	page, err := svc.RenderPage(context.Background(), doc, interfaces.PageOptions{
		Convert: interfaces.ConvertOptions{HardWraps: true},
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}

	wantName := document.HeadingAnchor("port-nacelle-assembly") + ".html"
	if page.Name != wantName {
		t.Fatalf("expected page name %q, got %q", wantName, page.Name)
	}
	if page.Checksum != computeHash(page.HTML) {
		t.Fatalf("expected checksum over rendered bytes, got %q", page.Checksum)
	}
	if page.Theme != "" || page.Variant != "" {
		t.Fatalf("expected no theme on unthemed render, got %q/%q", page.Theme, page.Variant)
	}
	if len(page.TOC) != 2 {
		t.Fatalf("expected 2 toc entries, got %d", len(page.TOC))
	}

	html := string(page.HTML)
	for _, want := range []string{
		"<title>Port Nacelle Assembly</title>",
		"<h1>Port Nacelle Assembly</h1>",
		"<dt>Version</dt><dd>2</dd>",
		stubBody,
		fmt.Sprintf(`<a href="#%s">Ratings</a>`, page.TOC[1].Anchor),
		`class="toc-level-2"`,
		"print edition: port-nacelle-assembly.pdf",
		"Generated 2026-01-12",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered page to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "data-theme") {
		t.Fatalf("expected no theme attributes on unthemed render")
	}

	if docs.renderCount() != 1 {
		t.Fatalf("expected one body conversion, got %d", docs.renderCount())
	}
	if !docs.lastConvertOptions().HardWraps {
		t.Fatalf("expected convert options to reach the document service")
	}
}

func TestRenderPageTemplateOverride(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	dir := t.TempDir()
	configured := filepath.Join(dir, "configured.tmpl")
	override := filepath.Join(dir, "override.tmpl")
	if err := os.WriteFile(configured, []byte("configured:{{ .Title }}"), 0o644); err != nil {
		t.Fatalf("write configured template: %v", err)
	}
	if err := os.WriteFile(override, []byte("{{ .Title }}|{{ .Metadata.Version }}"), 0o644); err != nil {
		t.Fatalf("write override template: %v", err)
	}

	svc, _ := newRendererForTest(t, Config{TemplatePath: configured}, Dependencies{
		Documents: &stubDocuments{body: []byte(stubBody)},
	}, now)
	doc := fixtureDocument("Port Nacelle Assembly", "port-nacelle-assembly.pdf")

	page, err := svc.RenderPage(context.Background(), doc, interfaces.PageOptions{TemplatePath: override})
	if err != nil {
		t.Fatalf("render with override template: %v", err)
	}
	if got := string(page.HTML); got != "Port Nacelle Assembly|2" {
		t.Fatalf("expected override template output, got %q", got)
	}

	page, err = svc.RenderPage(context.Background(), doc, interfaces.PageOptions{})
	if err != nil {
		t.Fatalf("render with configured template: %v", err)
	}
	if got := string(page.HTML); got != "configured:Port Nacelle Assembly" {
		t.Fatalf("expected configured template output, got %q", got)
	}
}

func TestRenderPageValidatorRejects(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	rejection := errors.New("crew roster row width mismatch")
	svc, _ := newRendererForTest(t, Config{}, Dependencies{
		Documents: &stubDocuments{body: []byte(stubBody)},
		Validator: stubValidator{err: rejection},
	}, now)

	_, err := svc.RenderPage(context.Background(), fixtureDocument("Port Nacelle Assembly", ""), interfaces.PageOptions{})
	if !errors.Is(err, rejection) {
		t.Fatalf("expected validator rejection, got %v", err)
	}
}

func TestRenderPageThemeManifestError(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	loadErr := errors.New("theme.json missing")
	loader := &stubThemeLoader{err: loadErr}
	svc, _ := newRendererForTest(t, Config{
		Theming: ThemingConfig{BasePath: "themes"},
	}, Dependencies{
		Documents:   &stubDocuments{body: []byte(stubBody)},
		ThemeLoader: loader,
	}, now)

	_, err := svc.RenderPage(context.Background(), fixtureDocument("Port Nacelle Assembly", ""), interfaces.PageOptions{Theme: "aurora"})
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected theme manifest error, got %v", err)
	}
	paths := loader.loadedPaths()
	if len(paths) != 1 || paths[0] != filepath.Join("themes", "aurora") {
		t.Fatalf("expected loader to receive themes/aurora, got %v", paths)
	}
}

func TestRenderPageNilDocument(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	svc, _ := newRendererForTest(t, Config{}, Dependencies{
		Documents: &stubDocuments{body: []byte(stubBody)},
	}, now)

	if _, err := svc.RenderPage(context.Background(), nil, interfaces.PageOptions{}); !errors.Is(err, errDocumentRequired) {
		t.Fatalf("expected document required error, got %v", err)
	}
}

func TestGenerateWritesPagesAndManifest(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	svc, recorder := newRendererForTest(t, Config{}, Dependencies{
		Documents: &stubDocuments{body: []byte(stubBody)},
	}, now)

	result, err := svc.Generate(context.Background(), interfaces.GenerateRequest{
		OutputDir: "public",
		Documents: []*interfaces.SourceDocument{
			fixtureSource("docs/port-nacelle.md", "Port Nacelle Assembly", "port-nacelle-assembly.pdf"),
			fixtureSource("docs/deflector.md", "Deflector Control", "deflector-control.pdf"),
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if result.ManifestPath != "public/"+manifestFileName {
		t.Fatalf("expected manifest under public/, got %s", result.ManifestPath)
	}
	if len(result.Pages) != 2 {
		t.Fatalf("expected 2 page artifacts, got %d", len(result.Pages))
	}
	for _, page := range result.Pages {
		if page.ID == "" {
			t.Fatalf("expected document id for %s", page.Source)
		}
		if page.Checksum == "" {
			t.Fatalf("expected checksum for %s", page.Source)
		}
		if !strings.HasPrefix(page.Output, "public/") || !strings.HasSuffix(page.Output, ".html") {
			t.Fatalf("expected html output under public/, got %s", page.Output)
		}
		if !page.RenderedAt.Equal(now) {
			t.Fatalf("expected rendered_at %s, got %s", now, page.RenderedAt)
		}
		if _, ok := recorder.files[page.Output]; !ok {
			t.Fatalf("expected page written to %s", page.Output)
		}
	}

	pageWrites := recorder.categoryCalls(categoryPage)
	if len(pageWrites) != 2 {
		t.Fatalf("expected 2 page writes, got %d", len(pageWrites))
	}
	for _, call := range pageWrites {
		if call.ContentType != "text/html; charset=utf-8" {
			t.Fatalf("expected html content type, got %q", call.ContentType)
		}
		if call.Metadata["source"] == "" || call.Metadata["pdf_filename"] == "" {
			t.Fatalf("expected provenance metadata on %s, got %v", call.Path, call.Metadata)
		}
	}

	data, ok := recorder.files[result.ManifestPath]
	if !ok {
		t.Fatalf("expected manifest written to %s", result.ManifestPath)
	}
	if bytes.Index(data, []byte("deflector-control.html")) > bytes.Index(data, []byte("port-nacelle-assembly.html")) {
		t.Fatalf("expected manifest pages ordered by output path")
	}

	stored, err := parseManifest(data)
	if err != nil {
		t.Fatalf("parse stored manifest: %v", err)
	}
	if stored.Version != manifestFileVersion {
		t.Fatalf("expected manifest version %d, got %d", manifestFileVersion, stored.Version)
	}
	if !stored.GeneratedAt.Equal(now) {
		t.Fatalf("expected generated_at %s, got %s", now, stored.GeneratedAt)
	}
	for _, page := range result.Pages {
		if !stored.shouldSkipPage(identity.DocumentUUID(page.Source), page.Checksum, page.Output) {
			t.Fatalf("expected manifest entry covering %s", page.Output)
		}
	}
}

func TestGenerateDryRunSkipsWrites(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	svc, recorder := newRendererForTest(t, Config{OutputDir: "public"}, Dependencies{
		Documents: &stubDocuments{body: []byte(stubBody)},
	}, now)

	result, err := svc.Generate(context.Background(), interfaces.GenerateRequest{
		DryRun: true,
		Documents: []*interfaces.SourceDocument{
			fixtureSource("docs/port-nacelle.md", "Port Nacelle Assembly", "port-nacelle-assembly.pdf"),
			fixtureSource("docs/deflector.md", "Deflector Control", "deflector-control.pdf"),
		},
	})
	if err != nil {
		t.Fatalf("generate dry-run: %v", err)
	}

	if !result.DryRun {
		t.Fatalf("expected dry-run flag on result")
	}
	if len(result.Pages) != 2 {
		t.Fatalf("expected 2 page artifacts in dry-run, got %d", len(result.Pages))
	}
	if len(recorder.allCalls()) != 0 {
		t.Fatalf("expected no writes in dry-run, got %d", len(recorder.allCalls()))
	}
	if len(recorder.dirNames()) != 0 {
		t.Fatalf("expected no directories in dry-run, got %v", recorder.dirNames())
	}
}

func TestGenerateSkipsUnchangedPages(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	svc, recorder := newRendererForTest(t, Config{}, Dependencies{
		Documents: &stubDocuments{body: []byte(stubBody)},
	}, now)
	req := interfaces.GenerateRequest{
		OutputDir: "public",
		Documents: []*interfaces.SourceDocument{
			fixtureSource("docs/port-nacelle.md", "Port Nacelle Assembly", "port-nacelle-assembly.pdf"),
			fixtureSource("docs/deflector.md", "Deflector Control", "deflector-control.pdf"),
		},
	}

	if _, err := svc.Generate(context.Background(), req); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if writes := len(recorder.categoryCalls(categoryPage)); writes != 2 {
		t.Fatalf("expected 2 page writes on first run, got %d", writes)
	}

	result, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if writes := len(recorder.categoryCalls(categoryPage)); writes != 2 {
		t.Fatalf("expected unchanged pages to be skipped, got %d total writes", writes)
	}
	if writes := len(recorder.categoryCalls(categoryManifest)); writes != 2 {
		t.Fatalf("expected manifest rewritten per run, got %d writes", writes)
	}
	if len(result.Pages) != 2 {
		t.Fatalf("expected skipped pages to stay in the result, got %d", len(result.Pages))
	}
}

func TestGenerateAbortsOnConvertError(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	docs := &stubDocuments{err: errors.New("converter exploded")}
	svc, recorder := newRendererForTest(t, Config{}, Dependencies{Documents: docs}, now)

	_, err := svc.Generate(context.Background(), interfaces.GenerateRequest{
		OutputDir: "public",
		Documents: []*interfaces.SourceDocument{
			fixtureSource("docs/port-nacelle.md", "Port Nacelle Assembly", "port-nacelle-assembly.pdf"),
			fixtureSource("docs/deflector.md", "Deflector Control", "deflector-control.pdf"),
		},
	})
	if !errors.Is(err, docs.err) {
		t.Fatalf("expected convert error to abort the run, got %v", err)
	}
	if !strings.Contains(err.Error(), "docs/port-nacelle.md") {
		t.Fatalf("expected failing source in error, got %v", err)
	}
	if len(recorder.files) != 0 {
		t.Fatalf("expected no artifacts after aborted run, got %d", len(recorder.files))
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	svc, _ := newRendererForTest(t, Config{}, Dependencies{
		Documents: &stubDocuments{body: []byte(stubBody)},
	}, now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Generate(ctx, interfaces.GenerateRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error from generate, got %v", err)
	}
	if _, err := svc.RenderPage(ctx, fixtureDocument("Port Nacelle Assembly", ""), interfaces.PageOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error from render, got %v", err)
	}
}

func TestDisabledServiceRejectsOperations(t *testing.T) {
	svc := NewDisabledService()

	if _, err := svc.RenderPage(context.Background(), fixtureDocument("Port Nacelle Assembly", ""), interfaces.PageOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected disabled error from render, got %v", err)
	}
	if _, err := svc.Generate(context.Background(), interfaces.GenerateRequest{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected disabled error from generate, got %v", err)
	}
}

func TestOutputNameDerivation(t *testing.T) {
	cases := []struct {
		name string
		meta document.Metadata
		want string
	}{
		{
			name: "pdf filename stem",
			meta: document.Metadata{Title: "Port Nacelle Assembly", PDFFilename: "port-nacelle-assembly.pdf"},
			want: document.HeadingAnchor("port-nacelle-assembly") + ".html",
		},
		{
			name: "uppercase extension",
			meta: document.Metadata{PDFFilename: "Deck Plans.PDF"},
			want: document.HeadingAnchor("Deck Plans") + ".html",
		},
		{
			name: "falls back to title",
			meta: document.Metadata{Title: "Crew Roster"},
			want: document.HeadingAnchor("Crew Roster") + ".html",
		},
		{
			name: "empty metadata",
			meta: document.Metadata{},
			want: "document.html",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := outputName(tc.meta); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCSSVariableBlock(t *testing.T) {
	got := cssVariableBlock(map[string]string{
		"--sd-color-text":       "#111111",
		"--sd-color-background": "#fbfbf8",
	})
	want := ":root {\n  --sd-color-background: #fbfbf8;\n  --sd-color-text: #111111;\n}"
	if string(got) != want {
		t.Fatalf("expected sorted variable block, got %q", got)
	}
	if cssVariableBlock(nil) != "" {
		t.Fatalf("expected empty block for no variables")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC)
	docID := identity.DocumentUUID("docs/port-nacelle.md")

	manifest := newBuildManifest()
	manifest.GeneratedAt = now
	manifest.setPage(manifestPage{
		DocumentID:  docID.String(),
		Title:       "Port Nacelle Assembly",
		Source:      "docs/port-nacelle.md",
		Output:      "public/port-nacelle-assembly.html",
		PDFFilename: "port-nacelle-assembly.pdf",
		Checksum:    "abc123",
		RenderedAt:  now,
	})

	data, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	parsed, err := parseManifest(data)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	if parsed.Version != manifestFileVersion {
		t.Fatalf("expected version %d, got %d", manifestFileVersion, parsed.Version)
	}
	if !parsed.GeneratedAt.Equal(now) {
		t.Fatalf("expected generated_at %s, got %s", now, parsed.GeneratedAt)
	}
	entry, ok := parsed.lookupPage(docID)
	if !ok {
		t.Fatalf("expected page entry to survive the round trip")
	}
	if entry.Checksum != "abc123" || entry.Output != "public/port-nacelle-assembly.html" {
		t.Fatalf("unexpected entry after round trip: %+v", entry)
	}
	if !entry.RenderedAt.Equal(now) {
		t.Fatalf("expected rendered_at %s, got %s", now, entry.RenderedAt)
	}
	if !parsed.shouldSkipPage(docID, "abc123", "public/port-nacelle-assembly.html") {
		t.Fatalf("expected unchanged page to be skippable")
	}
	if parsed.shouldSkipPage(docID, "zzz999", "public/port-nacelle-assembly.html") {
		t.Fatalf("expected checksum change to force a rewrite")
	}
}

func newRendererForTest(t *testing.T, cfg Config, deps Dependencies, now time.Time) (*Service, *recordingWriter) {
	t.Helper()
	svc, err := NewService(cfg, deps)
	if err != nil {
		t.Fatalf("new renderer service: %v", err)
	}
	recorder := &recordingWriter{}
	svc.writer = recorder
	svc.now = func() time.Time { return now }
	return svc, recorder
}

func fixtureDocument(title, pdfFilename string) *document.Document {
	return &document.Document{
		Metadata: document.Metadata{
			Title:        title,
			DocType:      "component_specification",
			DateModified: "2371-03-11",
			Version:      "2",
			PDFFilename:  pdfFilename,
		},
		Sections: []document.Section{
			{
				Title: title,
				Level: 1,
				Blocks: []document.Block{
					document.Paragraph{Text: "Reference sheet covering operating modes and output ratings."},
				},
			},
			{
				Title: "Ratings",
				Level: 2,
				Blocks: []document.Block{
					document.Table{
						Headers: []string{"Mode", "Output"},
						Rows:    [][]string{{"Cruise", "4.2 TW"}, {"Burst", "6.8 TW"}},
					},
				},
			},
		},
	}
}

func fixtureSource(path, title, pdfFilename string) *interfaces.SourceDocument {
	return &interfaces.SourceDocument{
		Path:     path,
		Document: fixtureDocument(title, pdfFilename),
	}
}

type stubDocuments struct {
	mu       sync.Mutex
	body     []byte
	err      error
	renders  int
	lastOpts interfaces.ConvertOptions
}

var _ interfaces.DocumentService = (*stubDocuments)(nil)

func (s *stubDocuments) Parse(context.Context, []byte) (*document.Document, error) {
	return nil, fmt.Errorf("stub documents: parse not supported")
}

func (s *stubDocuments) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.SourceDocument, error) {
	return nil, fmt.Errorf("stub documents: load not supported")
}

func (s *stubDocuments) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.SourceDocument, error) {
	return nil, fmt.Errorf("stub documents: load directory not supported")
}

func (s *stubDocuments) Serialize(*document.Document) []byte { return nil }

func (s *stubDocuments) Render(_ context.Context, _ *document.Document, opts interfaces.ConvertOptions) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return append([]byte(nil), s.body...), nil
}

func (s *stubDocuments) renderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

func (s *stubDocuments) lastConvertOptions() interfaces.ConvertOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOpts
}

type stubValidator struct {
	err error
}

func (v stubValidator) ValidateMetadata(context.Context, document.Metadata) error { return v.err }

func (v stubValidator) ValidateDocument(context.Context, *document.Document) error { return v.err }

type stubThemeLoader struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (l *stubThemeLoader) Load(themePath string) (*gotheme.Manifest, error) {
	l.mu.Lock()
	l.paths = append(l.paths, themePath)
	l.mu.Unlock()
	return nil, l.err
}

func (l *stubThemeLoader) loadedPaths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

type writerCall struct {
	Path        string
	Category    writeCategory
	ContentType string
	Metadata    map[string]string
	Data        []byte
}

type recordingWriter struct {
	mu    sync.Mutex
	dirs  []string
	calls []writerCall
	files map[string][]byte
}

func (w *recordingWriter) EnsureDir(_ context.Context, dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs = append(w.dirs, dir)
	return nil
}

func (w *recordingWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	call := writerCall{
		Path:        req.Path,
		Category:    req.Category,
		ContentType: req.ContentType,
		Metadata:    req.Metadata,
	}
	if req.Content != nil {
		data, err := io.ReadAll(req.Content)
		if err != nil {
			return err
		}
		call.Data = data
		if w.files == nil {
			w.files = map[string][]byte{}
		}
		w.files[req.Path] = append([]byte(nil), data...)
	}
	w.calls = append(w.calls, call)
	return nil
}

func (w *recordingWriter) ReadFile(_ context.Context, path string) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (w *recordingWriter) allCalls() []writerCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]writerCall(nil), w.calls...)
}

func (w *recordingWriter) categoryCalls(category writeCategory) []writerCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	var calls []writerCall
	for _, call := range w.calls {
		if call.Category == category {
			calls = append(calls, call)
		}
	}
	return calls
}

func (w *recordingWriter) dirNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.dirs...)
}
