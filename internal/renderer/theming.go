package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ThemingConfig controls how themes are discovered and surfaced to page
// templates.
type ThemingConfig struct {
	// BasePath is the directory that holds one sub-directory per theme.
	BasePath string
	// DefaultTheme is used when a render request names no theme.
	DefaultTheme string
	// DefaultVariant is used when a render request names no variant.
	DefaultVariant string
	// CSSVariablePrefix namespaces generated custom properties.
	CSSVariablePrefix string
	// PartialFallbacks supplies partial names used when a theme omits them.
	PartialFallbacks map[string]string
}

// ThemeContext surfaces the selected theme's data to page templates.
type ThemeContext struct {
	Name     string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	Partials map[string]string
}

// ThemeManifestLoader resolves a theme directory into its manifest. Hosts
// can inject an implementation to source themes from somewhere other than
// the local filesystem.
type ThemeManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsThemeManifestLoader struct{}

func (fsThemeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}

	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

type themeSelector struct {
	registry       *gotheme.MemoryRegistry
	loader         ThemeManifestLoader
	basePath       string
	defaultTheme   string
	defaultVariant string

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
}

func newThemeSelector(cfg ThemingConfig, loader ThemeManifestLoader) *themeSelector {
	if loader == nil {
		loader = fsThemeManifestLoader{}
	}
	return &themeSelector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		basePath:       strings.TrimSpace(cfg.BasePath),
		defaultTheme:   strings.TrimSpace(cfg.DefaultTheme),
		defaultVariant: strings.TrimSpace(cfg.DefaultVariant),
		manifests:      map[string]*gotheme.Manifest{},
	}
}

// Selection resolves the named theme, falling back to the configured default.
// A nil selection with a nil error means no theme applies to the render.
func (s *themeSelector) Selection(name, variant string) (*gotheme.Selection, error) {
	resolved := strings.TrimSpace(name)
	if resolved == "" {
		resolved = s.defaultTheme
	}
	if resolved == "" {
		return nil, nil
	}

	if _, err := s.ensureManifest(resolved); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(resolved, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", resolved, err)
	}
	return selection, nil
}

func (s *themeSelector) ensureManifest(name string) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	if manifest, ok := s.manifests[key]; ok {
		return manifest, nil
	}

	themePath := filepath.Join(s.basePath, name)
	manifest, err := s.loader.Load(themePath)
	if err != nil {
		return nil, fmt.Errorf("load theme manifest from %s: %w", themePath, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" || !strings.EqualFold(normalized.Name, name) {
		normalized.Name = name
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("register theme manifest: %w", err)
	}
	s.manifests[key] = &normalized
	return &normalized, nil
}

func buildThemeContext(selection *gotheme.Selection, cfg ThemingConfig) ThemeContext {
	empty := ThemeContext{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
	}
	if selection == nil {
		return empty
	}

	return ThemeContext{
		Name:     selection.Theme,
		Variant:  selection.Variant,
		Tokens:   selection.Tokens(),
		CSSVars:  selection.CSSVariables(cfg.CSSVariablePrefix),
		Partials: selection.Partials(cfg.PartialFallbacks),
	}
}
