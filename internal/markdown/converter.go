package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

// GoldmarkConverter implements interfaces.HTMLConverter on top of the
// goldmark engine. The converter is stateless so callers can share a single
// instance across goroutines without locking.
type GoldmarkConverter struct {
	defaults interfaces.ConvertOptions
}

var _ interfaces.HTMLConverter = (*GoldmarkConverter)(nil)

// NewGoldmarkConverter builds a converter with the supplied defaults. A zero
// options value enables the GFM extension set with raw HTML allowed.
func NewGoldmarkConverter(defaults interfaces.ConvertOptions) *GoldmarkConverter {
	return &GoldmarkConverter{defaults: defaults}
}

// Convert renders markdown to HTML using the converter defaults.
func (c *GoldmarkConverter) Convert(markdown []byte) ([]byte, error) {
	return c.ConvertWithOptions(markdown, c.defaults)
}

// ConvertWithOptions renders markdown to HTML with per-call options.
func (c *GoldmarkConverter) ConvertWithOptions(markdown []byte, opts interfaces.ConvertOptions) ([]byte, error) {
	engine := newGoldmarkEngine(opts)
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}

// newGoldmarkEngine maps options onto a goldmark.Markdown. Heading attribute
// parsing stays on so serialized {#anchor} markers become element IDs, which
// keeps table-of-contents links addressable.
func newGoldmarkEngine(opts interfaces.ConvertOptions) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	}

	rendererOptions := []renderer.Option{}

	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}

	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// collectExtensions resolves extension names case-insensitively. Unknown
// names are skipped rather than rejected so configs stay portable across
// engine versions.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
