package document

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds the reader reports. Each parse failure unwraps to exactly
// one of these, so callers classify with errors.Is or the helpers below.
var (
	// ErrMalformedMetadata covers a missing or unparseable front matter
	// block and required keys that are absent or blank.
	ErrMalformedMetadata = errors.New("specdoc: malformed metadata")

	// ErrMalformedTable covers tables whose delimiter row is broken or
	// whose rows disagree with the header cell count.
	ErrMalformedTable = errors.New("specdoc: malformed table")

	// ErrUnterminatedBlock covers fenced blocks still open when the
	// document ends.
	ErrUnterminatedBlock = errors.New("specdoc: unterminated block")
)

// ParseError is the structured failure the reader returns: the kind sentinel
// plus an approximate location. Line numbers are 1-based positions in the
// original source, counting the front matter block.
type ParseError struct {
	Line    int
	Section string
	Message string
	kind    error
}

// NewParseError builds a ParseError that unwraps to kind. Pass zero for an
// unknown line and the empty string when no enclosing section exists yet.
func NewParseError(kind error, line int, section, message string) *ParseError {
	return &ParseError{
		Line:    line,
		Section: section,
		Message: message,
		kind:    kind,
	}
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.kind != nil {
		b.WriteString(e.kind.Error())
	} else {
		b.WriteString("specdoc: invalid document")
	}
	if section := strings.TrimSpace(e.Section); section != "" {
		fmt.Fprintf(&b, ": section %q", section)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.kind
}

// IsMalformedMetadata reports whether err stems from a broken or incomplete
// front matter block.
func IsMalformedMetadata(err error) bool {
	return errors.Is(err, ErrMalformedMetadata)
}

// IsMalformedTable reports whether err stems from a table shape violation.
func IsMalformedTable(err error) bool {
	return errors.Is(err, ErrMalformedTable)
}

// IsUnterminatedBlock reports whether err stems from an unclosed fence.
func IsUnterminatedBlock(err error) bool {
	return errors.Is(err, ErrUnterminatedBlock)
}
