package renderer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFileName    = ".specdoc-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful generation so
// repeat runs can detect unchanged pages. The on-disk file keeps pages as a
// sorted array; the in-memory form keys them by document ID.
type buildManifest struct {
	Version     int
	GeneratedAt time.Time
	Pages       map[string]manifestPage
	Metadata    map[string]json.RawMessage
}

type manifestPage struct {
	DocumentID  string    `json:"document_id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Output      string    `json:"output"`
	PDFFilename string    `json:"pdf_filename"`
	Checksum    string    `json:"checksum"`
	RenderedAt  time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:  manifestFileVersion,
		Pages:    map[string]manifestPage{},
		Metadata: map[string]json.RawMessage{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var stored struct {
		Version     int                        `json:"version"`
		GeneratedAt time.Time                  `json:"generated_at"`
		Pages       []manifestPage             `json:"pages"`
		Metadata    map[string]json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("renderer: parse manifest: %w", err)
	}
	manifest := newBuildManifest()
	manifest.GeneratedAt = stored.GeneratedAt
	if stored.Version != 0 {
		manifest.Version = stored.Version
	}
	if stored.Metadata != nil {
		manifest.Metadata = stored.Metadata
	}
	for _, entry := range stored.Pages {
		manifest.setPage(entry)
	}
	return manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	cloned := *m
	if cloned.Version == 0 {
		cloned.Version = manifestFileVersion
	}
	if cloned.Pages == nil {
		cloned.Pages = map[string]manifestPage{}
	}
	if cloned.Metadata == nil {
		cloned.Metadata = map[string]json.RawMessage{}
	}
	// Stable ordering for deterministic output.
	type orderedManifest struct {
		Version     int                        `json:"version"`
		GeneratedAt time.Time                  `json:"generated_at"`
		Pages       []manifestPage             `json:"pages"`
		Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
	}
	ordered := orderedManifest{
		Version:     cloned.Version,
		GeneratedAt: cloned.GeneratedAt,
		Metadata:    cloned.Metadata,
	}
	if len(cloned.Pages) > 0 {
		ordered.Pages = make([]manifestPage, 0, len(cloned.Pages))
		for _, entry := range cloned.Pages {
			ordered.Pages = append(ordered.Pages, entry)
		}
		sort.Slice(ordered.Pages, func(i, j int) bool {
			if ordered.Pages[i].Output == ordered.Pages[j].Output {
				return ordered.Pages[i].DocumentID < ordered.Pages[j].DocumentID
			}
			return ordered.Pages[i].Output < ordered.Pages[j].Output
		})
	}
	return json.MarshalIndent(ordered, "", "  ")
}

func (m *buildManifest) pageKey(documentID uuid.UUID) string {
	return strings.ToLower(documentID.String())
}

func (m *buildManifest) lookupPage(documentID uuid.UUID) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[m.pageKey(documentID)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	m.Pages[strings.ToLower(strings.TrimSpace(entry.DocumentID))] = entry
}

// shouldSkipPage reports whether the page on disk already matches the render.
func (m *buildManifest) shouldSkipPage(documentID uuid.UUID, checksum, output string) bool {
	entry, ok := m.lookupPage(documentID)
	if !ok {
		return false
	}
	if entry.Checksum != checksum {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}
