package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-specdoc/document"
	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

var (
	ErrContentEmpty   = errors.New("specdoc: document body is empty")
	ErrHeadingMissing = errors.New("specdoc: document requires at least one heading")
)

// Validator re-checks documents against the metadata contract and content
// rules. The reader already enforces these on the parse path; the validator
// exists for documents assembled or mutated programmatically and for the
// validate command.
type Validator struct {
	logger interfaces.Logger
}

var _ interfaces.DocumentValidator = (*Validator)(nil)

// NewValidator wires a validator with the provider-scoped logger.
func NewValidator(provider interfaces.LoggerProvider) *Validator {
	return &Validator{
		logger: logging.ValidationLogger(provider),
	}
}

// ValidateMetadata checks the five required keys through the JSON schema and
// reports violations as malformed metadata.
func (v *Validator) ValidateMetadata(ctx context.Context, meta document.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	issues, err := MetadataIssues(meta.Raw)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		v.logger.Debug("metadata validation failed", "issues", len(issues))
		return MetadataError(issues, 0)
	}
	return nil
}

// ValidateDocument runs the metadata check plus the content rules: at least
// one heading, a non-empty body, and well-shaped tables.
func (v *Validator) ValidateDocument(ctx context.Context, doc *document.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: no document", ErrContentEmpty)
	}
	if err := v.ValidateMetadata(ctx, doc.Metadata); err != nil {
		return err
	}

	titled := false
	blocks := 0
	for _, section := range doc.Sections {
		if strings.TrimSpace(section.Title) != "" {
			titled = true
		}
		blocks += len(section.Blocks)
	}
	if !titled {
		return ErrHeadingMissing
	}
	if blocks == 0 {
		return ErrContentEmpty
	}

	return v.validateTables(doc)
}

func (v *Validator) validateTables(doc *document.Document) error {
	for _, section := range doc.Sections {
		for _, block := range section.Blocks {
			table, ok := block.(document.Table)
			if !ok {
				continue
			}
			want := len(table.Headers)
			if want == 0 {
				return document.NewParseError(document.ErrMalformedTable, 0, section.Title, "table has no header row")
			}
			for i, row := range table.Rows {
				if len(row) != want {
					msg := fmt.Sprintf("row %d has %d cells, header defines %d", i+1, len(row), want)
					return document.NewParseError(document.ErrMalformedTable, 0, section.Title, msg)
				}
			}
		}
	}
	return nil
}
