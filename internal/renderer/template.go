package renderer

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-specdoc/document"
)

//go:embed templates/page.tmpl
var templateFS embed.FS

const defaultTemplateName = "templates/page.tmpl"

var (
	defaultTemplateOnce sync.Once
	defaultTemplate     *template.Template
	defaultTemplateErr  error
)

// pageData is the contract both the embedded template and custom templates
// receive.
type pageData struct {
	Title       string
	Metadata    document.Metadata
	Body        template.HTML
	TOC         []document.TOCEntry
	Theme       ThemeContext
	ThemeCSS    template.CSS
	GeneratedAt time.Time
}

func loadDefaultTemplate() (*template.Template, error) {
	defaultTemplateOnce.Do(func() {
		data, err := templateFS.ReadFile(defaultTemplateName)
		if err != nil {
			defaultTemplateErr = fmt.Errorf("renderer: read embedded template: %w", err)
			return
		}
		defaultTemplate, defaultTemplateErr = template.New("page").Parse(string(data))
	})
	return defaultTemplate, defaultTemplateErr
}

func loadTemplate(path string) (*template.Template, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return loadDefaultTemplate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("renderer: read template %s: %w", path, err)
	}
	tmpl, err := template.New("page").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("renderer: parse template %s: %w", path, err)
	}
	return tmpl, nil
}

// cssVariableBlock renders theme variables as a :root rule in sorted order
// so output stays byte-stable between runs.
func cssVariableBlock(vars map[string]string) template.CSS {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "  %s: %s;\n", key, vars[key])
	}
	b.WriteString("}")
	return template.CSS(b.String())
}
