package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-specdoc/document"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseMetadata extracts the front matter block and the markdown body from
// source. Every metadata value is coerced to a plain string, so numeric and
// date-like YAML scalars survive as text. The returned line is the 1-based
// source line where the body starts; failures classify as malformed
// metadata.
func ParseMetadata(source []byte) (document.Metadata, []byte, int, error) {
	trimmed := bytes.TrimPrefix(source, utf8BOM)
	if !hasFrontMatterDelimiter(trimmed) {
		err := document.NewParseError(document.ErrMalformedMetadata, 1, "", "front matter block is missing")
		return document.Metadata{}, nil, 0, err
	}

	var env metadataEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(trimmed), &env)
	if err != nil {
		parseErr := document.NewParseError(document.ErrMalformedMetadata, 1, "", fmt.Sprintf("front matter is not valid YAML: %v", err))
		return document.Metadata{}, nil, 0, parseErr
	}

	consumed := len(trimmed) - len(body)
	if consumed < 0 {
		consumed = 0
	}
	bodyStart := bytes.Count(trimmed[:consumed], []byte("\n")) + 1

	return envelopeToMetadata(env), body, bodyStart, nil
}

func hasFrontMatterDelimiter(source []byte) bool {
	if !bytes.HasPrefix(source, []byte("---")) {
		return false
	}
	rest := source[3:]
	return len(rest) == 0 || rest[0] == '\n' || rest[0] == '\r'
}

type metadataEnvelope struct {
	Title        any            `yaml:"title"`
	DocType      any            `yaml:"doc_type"`
	DateModified any            `yaml:"date_modified"`
	Version      any            `yaml:"version"`
	PDFFilename  any            `yaml:"pdf_filename"`
	Custom       map[string]any `yaml:",inline"`
}

func envelopeToMetadata(env metadataEnvelope) document.Metadata {
	raw := make(map[string]string, len(env.Custom)+5)
	for key, value := range env.Custom {
		if text, ok := stringifyScalar(value); ok {
			raw[key] = text
		}
	}

	assign := func(key string, value any) string {
		text, ok := stringifyScalar(value)
		if !ok {
			return ""
		}
		raw[key] = text
		return text
	}

	return document.Metadata{
		Title:        assign("title", env.Title),
		DocType:      assign("doc_type", env.DocType),
		DateModified: assign("date_modified", env.DateModified),
		Version:      assign("version", env.Version),
		PDFFilename:  assign("pdf_filename", env.PDFFilename),
		Raw:          raw,
	}
}

// stringifyScalar renders the YAML scalar as the string a reader of the
// source file would see. The second return is false for absent values.
func stringifyScalar(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02"), true
		}
		return v.Format(time.RFC3339), true
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v)), true
	}
}
