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
	if err := runValidate(os.Args[1:]); err != nil {
		log.Fatalf("specdoc validate: %v", err)
	}
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("specdoc-validate", flag.ExitOnError)
	docsDir := fs.String("docs-dir", ".", "Path to the markdown documents root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into nested directories when source is a directory")
	source := fs.String("source", "", "Markdown file or directory to validate")
	logProvider := fs.String("log-provider", "", "Logging provider (console or gologger); empty disables logging")
	logLevel := fs.String("log-level", "info", "Minimum log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return fmt.Errorf("source is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		DocsDir:     *docsDir,
		Pattern:     *pattern,
		Recursive:   *recursive,
		LogProvider: *logProvider,
		LogLevel:    *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Module == nil {
		return fmt.Errorf("specdoc module not configured")
	}

	handler := docscmd.NewValidateDocumentHandler(
		module.Module.Documents(),
		module.Module.Validator(),
		module.Logger,
	)
	cmd := docscmd.ValidateDocumentCommand{Source: *source}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute validate command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "document validation completed successfully")

	return nil
}
