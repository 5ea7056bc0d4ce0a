package markdown

import (
	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/internal/validation"
)

// Parse reads a complete document in a single pass. The scan is strict: the
// first malformed construct aborts with a typed error and no partial document
// is returned.
func Parse(source []byte) (*document.Document, error) {
	meta, body, bodyStart, err := ParseMetadata(source)
	if err != nil {
		return nil, err
	}

	issues, err := validation.MetadataIssues(meta.Raw)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, validation.MetadataError(issues, 1)
	}

	sections, err := scanBlocks(body, bodyStart)
	if err != nil {
		return nil, err
	}

	return &document.Document{Metadata: meta, Sections: sections}, nil
}
