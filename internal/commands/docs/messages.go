package docscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	validateDocumentMessageType = "specdoc.docs.validate_document"
	renderDocumentMessageType   = "specdoc.docs.render_document"
	importHTMLMessageType       = "specdoc.docs.import_html"
)

// ValidateDocumentCommand parses the markdown file or directory at Source,
// failing on the first document the reader or validator rejects.
type ValidateDocumentCommand struct {
	// Source selects the markdown file or directory to validate.
	Source string `json:"source"`
}

// Type implements command.Message.
func (ValidateDocumentCommand) Type() string { return validateDocumentMessageType }

// Validate ensures source input is present before handlers execute.
func (cmd ValidateDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("specdoc.docs.validate_document.source_required", "source is required")
			}
			return nil
		})),
	)
}

// RenderDocumentCommand loads the markdown file or directory at Source and
// runs a page generation pass into OutputDir. The options map directly onto
// interfaces.GenerateRequest.
type RenderDocumentCommand struct {
	// Source selects the markdown file or directory to render.
	Source string `json:"source"`
	// OutputDir overrides the renderer's configured output directory.
	OutputDir string `json:"output_dir,omitempty"`
	// TemplatePath points at a host page template replacing the embedded one.
	TemplatePath string `json:"template_path,omitempty"`
	// Theme names the theme manifest applied to rendered pages.
	Theme string `json:"theme,omitempty"`
	// ThemeVariant selects a variant within the theme.
	ThemeVariant string `json:"theme_variant,omitempty"`
	// DryRun renders without writing pages or the manifest.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (RenderDocumentCommand) Type() string { return renderDocumentMessageType }

// Validate ensures source input is present before handlers execute.
func (cmd RenderDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("specdoc.docs.render_document.source_required", "source is required")
			}
			return nil
		})),
	)
}

// ImportHTMLCommand converts the HTML export at Source into markdown written
// to Output. The metadata fields map onto interfaces.HTMLImportOptions and
// fall back to values recovered from the page when left empty.
type ImportHTMLCommand struct {
	// Source selects the HTML file to import.
	Source string `json:"source"`
	// Output names the markdown file to write.
	Output string `json:"output"`
	// Title overrides the front matter title.
	Title string `json:"title,omitempty"`
	// DocType overrides the front matter document type.
	DocType string `json:"doc_type,omitempty"`
	// Version overrides the front matter version string.
	Version string `json:"version,omitempty"`
	// PDFFilename overrides the front matter pdf_filename.
	PDFFilename string `json:"pdf_filename,omitempty"`
	// DateModified overrides the front matter date_modified.
	DateModified string `json:"date_modified,omitempty"`
	// ImagesDir rewrites image references under this directory.
	ImagesDir string `json:"images_dir,omitempty"`
	// BumpHeadings shifts every heading one level deeper during import.
	BumpHeadings bool `json:"bump_headings,omitempty"`
}

// Type implements command.Message.
func (ImportHTMLCommand) Type() string { return importHTMLMessageType }

// Validate ensures both file paths are present before handlers execute.
func (cmd ImportHTMLCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("specdoc.docs.import_html.source_required", "source is required")
			}
			return nil
		})),
		validation.Field(&cmd.Output, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("specdoc.docs.import_html.output_required", "output is required")
			}
			return nil
		})),
	)
}
