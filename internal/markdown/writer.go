package markdown

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-specdoc/document"
)

// Serialize renders the document back to markdown in canonical form: quoted
// front matter values, dash bullets, pipe tables with a dashed delimiter row,
// and blank lines between blocks. Parsing the output yields a document equal
// to the input.
func Serialize(doc *document.Document) []byte {
	return serialize(doc, false)
}

// SerializeWithAnchors is the renderer-facing variant: headings carry an
// explicit {#anchor} attribute so converted HTML exposes the same IDs the
// table of contents links against.
func SerializeWithAnchors(doc *document.Document) []byte {
	return serialize(doc, true)
}

func serialize(doc *document.Document, anchors bool) []byte {
	var b strings.Builder
	writeFrontMatter(&b, doc.Metadata)
	for _, section := range doc.Sections {
		writeSection(&b, section, anchors)
	}
	return []byte(b.String())
}

// SerializeBody renders the sections without front matter. The HTML
// converter consumes this form so metadata never leaks into the page body.
func SerializeBody(doc *document.Document, anchors bool) []byte {
	var b strings.Builder
	for _, section := range doc.Sections {
		writeSection(&b, section, anchors)
	}
	return []byte(strings.TrimPrefix(b.String(), "\n"))
}

func writeFrontMatter(b *strings.Builder, meta document.Metadata) {
	b.WriteString("---\n")
	required := document.RequiredMetadataKeys()
	values := []string{meta.Title, meta.DocType, meta.DateModified, meta.Version, meta.PDFFilename}
	for i, key := range required {
		fmt.Fprintf(b, "%s: %s\n", key, quoteScalar(values[i]))
	}
	for _, key := range meta.ExtraKeys() {
		fmt.Fprintf(b, "%s: %s\n", key, quoteScalar(meta.Raw[key]))
	}
	b.WriteString("---\n")
}

// quoteScalar double-quotes every value so numeric-looking strings such as a
// bare version number survive a YAML round trip as strings.
func quoteScalar(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}

func writeSection(b *strings.Builder, section document.Section, anchors bool) {
	if strings.TrimSpace(section.Title) != "" {
		level := section.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		b.WriteString(section.Title)
		if anchors {
			fmt.Fprintf(b, " {#%s}", document.HeadingAnchor(section.Title))
		}
		b.WriteString("\n")
	}
	for _, block := range section.Blocks {
		b.WriteString("\n")
		writeBlock(b, block)
	}
}

func writeBlock(b *strings.Builder, block document.Block) {
	switch v := block.(type) {
	case document.Paragraph:
		b.WriteString(v.Text)
		b.WriteString("\n")
	case document.BulletList:
		for _, item := range v.Items {
			text := item.String()
			if text == "" {
				b.WriteString("-\n")
				continue
			}
			b.WriteString("- ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	case document.Table:
		writeTable(b, v)
	case document.Blockquote:
		writeBlockquote(b, v)
	case document.CodeBlock:
		fence := codeFence(v.Code)
		b.WriteString(fence)
		if v.Language != "" {
			b.WriteString(v.Language)
		}
		b.WriteString("\n")
		if v.Code != "" {
			b.WriteString(v.Code)
			b.WriteString("\n")
		}
		b.WriteString(fence)
		b.WriteString("\n")
	}
}

func writeTable(b *strings.Builder, table document.Table) {
	writeTableRow(b, table.Headers)
	delims := make([]string, len(table.Headers))
	for i := range delims {
		delims[i] = "---"
	}
	writeTableRow(b, delims)
	for _, row := range table.Rows {
		writeTableRow(b, row)
	}
}

func writeTableRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(escapeTableCell(cell))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func escapeTableCell(cell string) string {
	return strings.ReplaceAll(cell, "|", `\|`)
}

func writeBlockquote(b *strings.Builder, quote document.Blockquote) {
	for _, line := range strings.Split(quote.Text, "\n") {
		if strings.TrimSpace(line) == "" {
			b.WriteString(">\n")
			continue
		}
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if quote.Attribution != "" {
		b.WriteString("> — ")
		b.WriteString(quote.Attribution)
		b.WriteString("\n")
	}
}

// codeFence sizes the fence past any backtick run inside the code so the
// body never closes the block early.
func codeFence(code string) string {
	longest := 0
	run := 0
	for _, r := range code {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	size := 3
	if longest >= 3 {
		size = longest + 1
	}
	return strings.Repeat("`", size)
}
