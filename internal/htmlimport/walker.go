package htmlimport

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

// googleRedirect captures the destination URL buried inside the tracking
// links that Google Docs HTML exports wrap around every anchor.
var googleRedirect = regexp.MustCompile(`q=(https?://[^&]+)`)

type walkOptions struct {
	ImagesDir    string
	BumpHeadings bool
}

// importedPage is the walker output before serialization: the page title
// from <head>, the reconstructed sections, and the images the caller still
// needs to download next to the generated markdown.
type importedPage struct {
	Title    string
	Sections []document.Section
	Images   []interfaces.ImageReference
}

func parsePage(source []byte, opts walkOptions) (*importedPage, error) {
	root, err := html.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	walker := &pageWalker{opts: opts, targets: map[string]string{}}

	start := findElement(root, "body")
	if start == nil {
		start = root
	}
	walker.walk(start)
	walker.flushSection()

	return &importedPage{
		Title:    headTitle(root),
		Sections: walker.sections,
		Images:   walker.images,
	}, nil
}

type pageWalker struct {
	opts     walkOptions
	sections []document.Section
	current  document.Section
	started  bool
	images   []interfaces.ImageReference
	targets  map[string]string
}

func (w *pageWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if skipElement(n.Data) {
			return
		}
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(n.Data[1] - '0')
			if w.opts.BumpHeadings && level < 6 {
				level++
			}
			if title := w.inlineText(n); title != "" {
				w.openSection(title, level)
			}
			return
		case "p":
			w.appendParagraph(w.inlineText(n))
			return
		case "div":
			if hasBlockChildren(n) {
				w.walkChildren(n)
				return
			}
			w.appendParagraph(w.inlineText(n))
			return
		case "ul", "ol":
			if items := w.collectListItems(n, nil); len(items) > 0 {
				w.appendBlock(document.BulletList{Items: items})
			}
			return
		case "table":
			if table, ok := w.parseTable(n); ok {
				w.appendBlock(table)
			}
			return
		case "pre":
			w.appendCodeBlock(n)
			return
		case "blockquote":
			w.appendBlockquote(n)
			return
		}
	}
	w.walkChildren(n)
}

func (w *pageWalker) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *pageWalker) openSection(title string, level int) {
	w.flushSection()
	w.current = document.Section{Title: title, Level: level}
	w.started = true
}

func (w *pageWalker) flushSection() {
	if !w.started {
		return
	}
	w.sections = append(w.sections, w.current)
	w.current = document.Section{}
	w.started = false
}

// appendBlock starts an untitled preamble section when body content shows
// up before the first heading.
func (w *pageWalker) appendBlock(block document.Block) {
	if !w.started {
		w.current = document.Section{}
		w.started = true
	}
	w.current.Blocks = append(w.current.Blocks, block)
}

func (w *pageWalker) appendParagraph(text string) {
	if text == "" {
		return
	}
	w.appendBlock(document.Paragraph{Text: text})
}

// collectListItems flattens nested lists into a single run of items; the
// strict dialect has no indented bullets.
func (w *pageWalker) collectListItems(n *html.Node, items []document.ListItem) []document.ListItem {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "li":
			if text := w.itemInline(c); text != "" {
				items = append(items, document.ListItem{Text: text})
			}
			for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
				if gc.Type == html.ElementNode && (gc.Data == "ul" || gc.Data == "ol") {
					items = w.collectListItems(gc, items)
				}
			}
		case "ul", "ol":
			items = w.collectListItems(c, items)
		}
	}
	return items
}

// itemInline renders the inline content of a list item, unwrapping the <p>
// and <div> wrappers word-processor exports put around each entry while
// leaving nested lists for collectListItems.
func (w *pageWalker) itemInline(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			switch c.Data {
			case "ul", "ol", "table", "blockquote", "pre":
			case "p", "div":
				b.WriteString(" ")
				w.writeInline(&b, c)
				b.WriteString(" ")
			default:
				w.writeInlineNode(&b, c)
			}
		}
	}
	return collapseSpace(b.String())
}

func (w *pageWalker) parseTable(n *html.Node) (document.Table, bool) {
	var rows [][]string
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				visit(c)
			case "tr":
				if row := w.parseTableRow(c); len(row) > 0 {
					rows = append(rows, row)
				}
			}
		}
	}
	visit(n)
	if len(rows) == 0 {
		return document.Table{}, false
	}
	return document.Table{Headers: rows[0], Rows: rows[1:]}, true
}

// parseTableRow pads spanned cells with blanks so every row keeps one cell
// per header column.
func (w *pageWalker) parseTableRow(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		var b strings.Builder
		w.writeInline(&b, c)
		cells = append(cells, collapseSpace(b.String()))
		for span := colSpan(c); span > 1; span-- {
			cells = append(cells, "")
		}
	}
	return cells
}

func colSpan(n *html.Node) int {
	raw := strings.TrimSpace(attrValue(n, "colspan"))
	if raw == "" {
		return 1
	}
	span, err := strconv.Atoi(raw)
	if err != nil || span < 1 {
		return 1
	}
	return span
}

func (w *pageWalker) appendCodeBlock(n *html.Node) {
	language := ""
	target := n
	if code := findElement(n, "code"); code != nil {
		target = code
		language = codeLanguage(code)
	}
	text := rawText(target)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Trim(text, "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	w.appendBlock(document.CodeBlock{Language: language, Code: text})
}

func codeLanguage(n *html.Node) string {
	for _, class := range strings.Fields(attrValue(n, "class")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
	}
	return ""
}

// appendBlockquote keeps one line per quoted paragraph; a trailing line that
// starts with an attribution marker is recognized when the markdown is read
// back.
func (w *pageWalker) appendBlockquote(n *html.Node) {
	var lines []string
	hasBlocks := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "p" || c.Data == "div") {
			hasBlocks = true
			var b strings.Builder
			w.writeInline(&b, c)
			if line := collapseSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}
	if !hasBlocks {
		if line := w.inlineText(n); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return
	}
	w.appendBlock(document.Blockquote{Text: strings.Join(lines, "\n")})
}

// inlineText renders the children of n as markdown inline content with
// whitespace runs collapsed, which also removes the hard line breaks word
// processors scatter through exported paragraphs.
func (w *pageWalker) inlineText(n *html.Node) string {
	var b strings.Builder
	w.writeInline(&b, n)
	return collapseSpace(b.String())
}

func (w *pageWalker) writeInline(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.writeInlineNode(b, c)
	}
}

func (w *pageWalker) writeInlineNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if skipElement(n.Data) {
			return
		}
		switch n.Data {
		case "br":
			b.WriteString(" ")
		case "strong", "b":
			w.writeWrapped(b, n, "**")
		case "em", "i":
			w.writeWrapped(b, n, "*")
		case "code":
			b.WriteString("`")
			b.WriteString(collapseSpace(rawText(n)))
			b.WriteString("`")
		case "a":
			w.writeLink(b, n)
		case "img":
			w.writeImage(b, n)
		default:
			w.writeInline(b, n)
		}
	}
}

// writeWrapped emits emphasis markers tight against the wrapped text and
// moves any leading or trailing whitespace outside them.
func (w *pageWalker) writeWrapped(b *strings.Builder, n *html.Node, marker string) {
	var inner strings.Builder
	w.writeInline(&inner, n)
	text := inner.String()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		b.WriteString(" ")
		return
	}
	if text != strings.TrimLeft(text, " \t\n\r") {
		b.WriteString(" ")
	}
	b.WriteString(marker)
	b.WriteString(trimmed)
	b.WriteString(marker)
	if text != strings.TrimRight(text, " \t\n\r") {
		b.WriteString(" ")
	}
}

func (w *pageWalker) writeLink(b *strings.Builder, n *html.Node) {
	var inner strings.Builder
	w.writeInline(&inner, n)
	text := collapseSpace(inner.String())
	href := cleanRedirectURL(attrValue(n, "href"))
	if text == "" {
		text = href
	}
	if text == "" {
		return
	}
	if href == "" {
		b.WriteString(text)
		return
	}
	ensureBoundary(b)
	fmt.Fprintf(b, "[%s](%s)", text, href)
}

func (w *pageWalker) writeImage(b *strings.Builder, n *html.Node) {
	src := strings.TrimSpace(attrValue(n, "src"))
	if src == "" {
		return
	}
	fmt.Fprintf(b, "![%s](%s)", strings.TrimSpace(attrValue(n, "alt")), w.localImagePath(src))
}

// localImagePath maps a remote image onto images-dir/<basename> and records
// the source URL once so callers can fetch the asset.
func (w *pageWalker) localImagePath(src string) string {
	if target, ok := w.targets[src]; ok {
		return target
	}
	base := src
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		base = u.Path
	}
	target := path.Join(w.opts.ImagesDir, path.Base(base))
	w.targets[src] = target
	w.images = append(w.images, interfaces.ImageReference{Source: src, Target: target})
	return target
}

// cleanRedirectURL unwraps google.com/url?q=... tracking redirects.
func cleanRedirectURL(href string) string {
	href = strings.TrimSpace(href)
	if match := googleRedirect.FindStringSubmatch(href); match != nil {
		return match[1]
	}
	return href
}

// ensureBoundary inserts a space before a link that would otherwise fuse
// with the preceding word.
func ensureBoundary(b *strings.Builder) {
	s := b.String()
	if s == "" {
		return
	}
	switch last := s[len(s)-1]; {
	case last >= 'a' && last <= 'z', last >= 'A' && last <= 'Z', last >= '0' && last <= '9':
		b.WriteString(" ")
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		if node.Type == html.ElementNode {
			if skipElement(node.Data) {
				return
			}
			if node.Data == "br" {
				b.WriteString("\n")
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func headTitle(root *html.Node) string {
	title := findElement(root, "title")
	if title == nil {
		return ""
	}
	return collapseSpace(rawText(title))
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func hasBlockChildren(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "div", "p", "ul", "ol", "table", "blockquote", "pre",
			"h1", "h2", "h3", "h4", "h5", "h6", "article", "section":
			return true
		}
	}
	return false
}

func skipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "svg", "math",
		"iframe", "object", "embed", "head":
		return true
	}
	return false
}
