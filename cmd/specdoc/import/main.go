package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-specdoc/cmd/specdoc/internal/bootstrap"
	docscmd "github.com/goliatone/go-specdoc/internal/commands/docs"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("specdoc import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("specdoc-import", flag.ExitOnError)
	source := fs.String("source", "", "HTML file to convert")
	output := fs.String("output", "", "Markdown file to write")
	title := fs.String("title", "", "Document title overriding the page title")
	docType := fs.String("doc-type", "", "Document type recorded in the front matter")
	version := fs.String("version", "", "Document version recorded in the front matter")
	pdfFilename := fs.String("pdf-filename", "", "PDF filename recorded in the front matter")
	dateModified := fs.String("date-modified", "", "Modification date recorded in the front matter (YYYY-MM-DD)")
	imagesDir := fs.String("images-dir", "", "Directory prefix for rewritten image references")
	bumpHeadings := fs.Bool("bump-headings", true, "Promote page headings so the document starts at a level 1 title")
	logProvider := fs.String("log-provider", "", "Logging provider (console or gologger); empty disables logging")
	logLevel := fs.String("log-level", "info", "Minimum log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return fmt.Errorf("source is required")
	}
	if *output == "" {
		return fmt.Errorf("output is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		DocsDir:      ".",
		ImagesDir:    *imagesDir,
		BumpHeadings: *bumpHeadings,
		LogProvider:  *logProvider,
		LogLevel:     *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Module == nil {
		return fmt.Errorf("specdoc module not configured")
	}

	handler := docscmd.NewImportHTMLHandler(
		module.Module.Importer(),
		module.Logger,
		docscmd.FeatureGates{ImporterEnabled: func() bool { return true }},
	)
	cmd := docscmd.ImportHTMLCommand{
		Source:       *source,
		Output:       *output,
		Title:        *title,
		DocType:      *docType,
		Version:      *version,
		PDFFilename:  *pdfFilename,
		DateModified: *dateModified,
		ImagesDir:    *imagesDir,
		BumpHeadings: *bumpHeadings,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "html import completed successfully")

	return nil
}
