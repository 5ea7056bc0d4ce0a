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
	if err := runRender(os.Args[1:]); err != nil {
		log.Fatalf("specdoc render: %v", err)
	}
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("specdoc-render", flag.ExitOnError)
	docsDir := fs.String("docs-dir", ".", "Path to the markdown documents root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into nested directories when source is a directory")
	source := fs.String("source", "", "Markdown file or directory to render")
	output := fs.String("output", "dist", "Directory that receives the generated pages")
	templatePath := fs.String("template", "", "Optional page template overriding the built-in layout")
	themesDir := fs.String("themes-dir", "themes", "Directory holding one sub-directory per theme")
	theme := fs.String("theme", "", "Theme applied to the generated pages")
	themeVariant := fs.String("theme-variant", "", "Theme variant, for themes that define them")
	dryRun := fs.Bool("dry-run", false, "Report what would be generated without writing files")
	logProvider := fs.String("log-provider", "", "Logging provider (console or gologger); empty disables logging")
	logLevel := fs.String("log-level", "info", "Minimum log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return fmt.Errorf("source is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		DocsDir:      *docsDir,
		Pattern:      *pattern,
		Recursive:    *recursive,
		OutputDir:    *output,
		TemplatePath: *templatePath,
		ThemesDir:    *themesDir,
		Theme:        *theme,
		ThemeVariant: *themeVariant,
		LogProvider:  *logProvider,
		LogLevel:     *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Module == nil {
		return fmt.Errorf("specdoc module not configured")
	}

	handler := docscmd.NewRenderDocumentHandler(
		module.Module.Documents(),
		module.Module.Renderer(),
		module.Logger,
		docscmd.FeatureGates{RendererEnabled: func() bool { return true }},
	)
	cmd := docscmd.RenderDocumentCommand{
		Source:       *source,
		OutputDir:    *output,
		TemplatePath: *templatePath,
		Theme:        *theme,
		ThemeVariant: *themeVariant,
		DryRun:       *dryRun,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute render command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "page generation completed successfully")

	return nil
}
