package htmlimport

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/internal/markdown"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

const exportedPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Deflector Control</title>
<style>.c1{font-weight:700}</style>
</head>
<body>
<h1>Deflector Control</h1>
<p>The deflector array clears debris from the flight path and
doubles as a sensor mount.</p>
<h2>Operating Modes</h2>
<p>Switch modes from the <a href="https://www.google.com/url?q=https://fleet.example/ops/deflector&amp;sa=D&amp;source=editors">operations handbook</a>.</p>
<ul>
<li><strong>Standard:</strong> continuous low-power sweep</li>
<li><strong>Focused:</strong> narrow-beam burst
<ul><li>Requires bridge authorization</li></ul>
</li>
</ul>
<h2>Output Ratings</h2>
<table>
<thead><tr><th>Mode</th><th>Draw</th><th>Range</th></tr></thead>
<tbody>
<tr><td>Standard</td><td>12 MW</td><td>300 km</td></tr>
<tr><td colspan="2">Focused</td><td>80 km</td></tr>
</tbody>
</table>
<blockquote>
<p>Never run a focused burst with the dish cold.</p>
<p>— Chief engineer's handbook</p>
</blockquote>
<pre><code class="language-log">41153.7 sweep nominal
41986.0 burst authorized</code></pre>
<p>See <img src="https://lh7.example.com/docs/images/dish-cutaway.png?key=abc123" alt="Dish cutaway"> for the assembly.</p>
</body>
</html>`

func newImporterForTest(cfg Config) *Service {
	svc := NewService(cfg, Dependencies{})
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 9, 14, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestImportRebuildsExportedPage(t *testing.T) {
	svc := newImporterForTest(Config{})

	result, err := svc.Import(context.Background(), []byte(exportedPage), interfaces.HTMLImportOptions{
		DocType: "component_specification",
		Version: "4",
	})
	if err != nil {
		t.Fatalf("expected import to succeed, got %v", err)
	}

	meta := result.Document.Metadata
	if meta.Title != "Deflector Control" {
		t.Fatalf("expected title from head, got %q", meta.Title)
	}
	if meta.DocType != "component_specification" || meta.Version != "4" {
		t.Fatalf("expected option metadata to win, got %q %q", meta.DocType, meta.Version)
	}
	if meta.DateModified != "2026-03-09" {
		t.Fatalf("expected date from injected clock, got %q", meta.DateModified)
	}
	if want := document.HeadingAnchor("Deflector Control") + ".pdf"; meta.PDFFilename != want {
		t.Fatalf("expected pdf filename %q, got %q", want, meta.PDFFilename)
	}

	if len(result.Document.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(result.Document.Sections))
	}
	if first := result.Document.Sections[0]; first.Title != "Deflector Control" || first.Level != 1 {
		t.Fatalf("unexpected first section %q level %d", first.Title, first.Level)
	}

	intro, ok := result.Document.Sections[0].Blocks[0].(document.Paragraph)
	if !ok {
		t.Fatalf("expected intro paragraph, got %T", result.Document.Sections[0].Blocks[0])
	}
	if want := "The deflector array clears debris from the flight path and doubles as a sensor mount."; intro.Text != want {
		t.Fatalf("expected soft line breaks collapsed:\nwant %q\ngot  %q", want, intro.Text)
	}

	modes := result.Document.Section("Operating Modes")
	if modes == nil {
		t.Fatal("expected Operating Modes section")
	}
	link, ok := modes.Blocks[0].(document.Paragraph)
	if !ok {
		t.Fatalf("expected link paragraph, got %T", modes.Blocks[0])
	}
	if want := "Switch modes from the [operations handbook](https://fleet.example/ops/deflector)."; link.Text != want {
		t.Fatalf("expected redirect unwrapped:\nwant %q\ngot  %q", want, link.Text)
	}

	list, ok := modes.Blocks[1].(document.BulletList)
	if !ok {
		t.Fatalf("expected bullet list, got %T", modes.Blocks[1])
	}
	if len(list.Items) != 3 {
		t.Fatalf("expected nested list flattened to 3 items, got %d", len(list.Items))
	}
	standard := list.Item("Standard")
	if standard == nil || standard.Text != "continuous low-power sweep" {
		t.Fatalf("expected labeled item recovered, got %+v", standard)
	}
	if last := list.Items[2]; last.Label != "" || last.Text != "Requires bridge authorization" {
		t.Fatalf("unexpected flattened item %+v", last)
	}

	ratings := result.Document.Section("Output Ratings")
	if ratings == nil {
		t.Fatal("expected Output Ratings section")
	}
	table, ok := ratings.Blocks[0].(document.Table)
	if !ok {
		t.Fatalf("expected table, got %T", ratings.Blocks[0])
	}
	if len(table.Headers) != 3 || len(table.Rows) != 2 {
		t.Fatalf("expected 3x2 table, got %dx%d", len(table.Headers), len(table.Rows))
	}
	if want := []string{"Focused", "", "80 km"}; !equalCells(table.Rows[1], want) {
		t.Fatalf("expected colspan padded to %v, got %v", want, table.Rows[1])
	}

	quote, ok := ratings.Blocks[1].(document.Blockquote)
	if !ok {
		t.Fatalf("expected blockquote, got %T", ratings.Blocks[1])
	}
	if quote.Text != "Never run a focused burst with the dish cold." {
		t.Fatalf("unexpected quote text %q", quote.Text)
	}
	if quote.Attribution != "Chief engineer's handbook" {
		t.Fatalf("expected attribution recovered, got %q", quote.Attribution)
	}

	code, ok := ratings.Blocks[2].(document.CodeBlock)
	if !ok {
		t.Fatalf("expected code block, got %T", ratings.Blocks[2])
	}
	if code.Language != "log" {
		t.Fatalf("expected language from class, got %q", code.Language)
	}
	if lines := code.Lines(); len(lines) != 2 || lines[0] != "41153.7 sweep nominal" {
		t.Fatalf("unexpected code lines %v", lines)
	}

	figure, ok := ratings.Blocks[3].(document.Paragraph)
	if !ok {
		t.Fatalf("expected figure paragraph, got %T", ratings.Blocks[3])
	}
	if want := "See ![Dish cutaway](images/dish-cutaway.png) for the assembly."; figure.Text != want {
		t.Fatalf("expected image rewritten:\nwant %q\ngot  %q", want, figure.Text)
	}

	if len(result.Images) != 1 {
		t.Fatalf("expected one image reference, got %d", len(result.Images))
	}
	image := result.Images[0]
	if image.Source != "https://lh7.example.com/docs/images/dish-cutaway.png?key=abc123" {
		t.Fatalf("unexpected image source %q", image.Source)
	}
	if image.Target != "images/dish-cutaway.png" {
		t.Fatalf("unexpected image target %q", image.Target)
	}

	if again := markdown.Serialize(result.Document); !bytes.Equal(again, result.Markdown) {
		t.Fatalf("expected serialization fixed point:\nfirst:\n%s\nsecond:\n%s", result.Markdown, again)
	}
}

func TestImportMetadataOptionOverrides(t *testing.T) {
	svc := newImporterForTest(Config{})

	result, err := svc.Import(context.Background(), []byte("<p>Only prose.</p>"), interfaces.HTMLImportOptions{
		Title:        "Custom Title",
		DocType:      "operations_manual",
		Version:      "12",
		DateModified: "2371-04-01",
		PDFFilename:  "custom.pdf",
	})
	if err != nil {
		t.Fatalf("expected import to succeed, got %v", err)
	}

	want := document.Metadata{
		Title:        "Custom Title",
		DocType:      "operations_manual",
		DateModified: "2371-04-01",
		Version:      "12",
		PDFFilename:  "custom.pdf",
	}
	got := result.Document.Metadata
	if got.Title != want.Title || got.DocType != want.DocType || got.DateModified != want.DateModified ||
		got.Version != want.Version || got.PDFFilename != want.PDFFilename {
		t.Fatalf("expected options to override metadata, got %+v", got)
	}
}

func TestImportTitleFallbacks(t *testing.T) {
	cases := []struct {
		name      string
		source    string
		wantTitle string
	}{
		{
			name:      "head title",
			source:    "<html><head><title>Port Thruster</title></head><body><p>x</p></body></html>",
			wantTitle: "Port Thruster",
		},
		{
			name:      "first heading",
			source:    "<h2>Aft Shield Grid</h2><p>x</p>",
			wantTitle: "Aft Shield Grid",
		},
		{
			name:      "default",
			source:    "<p>Only prose.</p>",
			wantTitle: fallbackTitle,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newImporterForTest(Config{})
			result, err := svc.Import(context.Background(), []byte(tc.source), interfaces.HTMLImportOptions{})
			if err != nil {
				t.Fatalf("expected import to succeed, got %v", err)
			}
			meta := result.Document.Metadata
			if meta.Title != tc.wantTitle {
				t.Fatalf("expected title %q, got %q", tc.wantTitle, meta.Title)
			}
			if want := document.HeadingAnchor(tc.wantTitle) + ".pdf"; meta.PDFFilename != want {
				t.Fatalf("expected pdf filename %q, got %q", want, meta.PDFFilename)
			}
			if meta.DocType != defaultDocType || meta.Version != defaultVersion {
				t.Fatalf("unexpected defaults %q %q", meta.DocType, meta.Version)
			}
			if meta.DateModified != "2026-03-09" {
				t.Fatalf("expected date from injected clock, got %q", meta.DateModified)
			}
		})
	}
}

func TestImportBumpsHeadings(t *testing.T) {
	const source = "<h1>Main</h1><p>a</p><h6>Deep</h6><p>b</p>"

	cases := []struct {
		name string
		cfg  Config
		opts interfaces.HTMLImportOptions
	}{
		{name: "config", cfg: Config{BumpHeadings: true}},
		{name: "options", opts: interfaces.HTMLImportOptions{BumpHeadings: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newImporterForTest(tc.cfg)
			result, err := svc.Import(context.Background(), []byte(source), tc.opts)
			if err != nil {
				t.Fatalf("expected import to succeed, got %v", err)
			}
			if len(result.Document.Sections) != 2 {
				t.Fatalf("expected 2 sections, got %d", len(result.Document.Sections))
			}
			if level := result.Document.Sections[0].Level; level != 2 {
				t.Fatalf("expected h1 bumped to level 2, got %d", level)
			}
			if level := result.Document.Sections[1].Level; level != 6 {
				t.Fatalf("expected h6 clamped at level 6, got %d", level)
			}
			if !bytes.Contains(result.Markdown, []byte("\n## Main\n")) {
				t.Fatalf("expected bumped heading in markdown:\n%s", result.Markdown)
			}
		})
	}
}

func TestImportImagesDirAndDedupe(t *testing.T) {
	svc := newImporterForTest(Config{ImagesDir: "assets"})

	const source = `<p><img src="diagrams/warp-core.png" alt="Warp core"></p>
<p>Again: <img src="diagrams/warp-core.png" alt="Warp core"></p>`

	result, err := svc.Import(context.Background(), []byte(source), interfaces.HTMLImportOptions{
		ImagesDir: "assets/figures",
	})
	if err != nil {
		t.Fatalf("expected import to succeed, got %v", err)
	}

	if len(result.Images) != 1 {
		t.Fatalf("expected repeated image recorded once, got %d", len(result.Images))
	}
	image := result.Images[0]
	if image.Source != "diagrams/warp-core.png" || image.Target != "assets/figures/warp-core.png" {
		t.Fatalf("unexpected image reference %+v", image)
	}
	if got := bytes.Count(result.Markdown, []byte("![Warp core](assets/figures/warp-core.png)")); got != 2 {
		t.Fatalf("expected both occurrences rewritten, got %d", got)
	}
}

func TestImportEmptySource(t *testing.T) {
	svc := newImporterForTest(Config{})

	for _, source := range [][]byte{nil, []byte("   \n\t")} {
		if _, err := svc.Import(context.Background(), source, interfaces.HTMLImportOptions{}); !errors.Is(err, errSourceRequired) {
			t.Fatalf("expected source required error, got %v", err)
		}
	}
}

func TestImportContextCancelled(t *testing.T) {
	svc := newImporterForTest(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Import(ctx, []byte("<p>x</p>"), interfaces.HTMLImportOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestDisabledServiceRejectsImport(t *testing.T) {
	svc := NewDisabledService()

	if _, err := svc.Import(context.Background(), []byte("<p>x</p>"), interfaces.HTMLImportOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func equalCells(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
