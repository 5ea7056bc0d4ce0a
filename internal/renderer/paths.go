package renderer

import (
	"path"
	"strings"

	"github.com/goliatone/go-specdoc/document"
)

// outputName derives the HTML file name from the document's pdf_filename so
// the rendered page and its print edition share a stem. The title is the
// fallback when the stem sanitises to nothing.
func outputName(meta document.Metadata) string {
	stem := strings.TrimSpace(meta.PDFFilename)
	if ext := path.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	if stem == "" {
		stem = meta.Title
	}

	slugged := document.HeadingAnchor(stem)
	if slugged == "" {
		slugged = "document"
	}
	return slugged + ".html"
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}
