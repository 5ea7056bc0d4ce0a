// Package document defines the typed model for structured specification
// documents: a front matter metadata block followed by ordered sections of
// paragraphs, bullet lists, tables, blockquotes, and fenced code blocks.
//
// Values are built once by the reader and treated as immutable afterwards;
// concurrent reads require no synchronization.
package document

import (
	"sort"
	"strings"
)

// Metadata carries the document front matter. Every value is kept as a plain
// string even when the underlying YAML scalar was numeric or date-like, so a
// `version: 6` key surfaces as "6".
type Metadata struct {
	Title        string
	DocType      string
	DateModified string
	Version      string
	PDFFilename  string

	// Raw preserves every front matter key that was present, required and
	// extra alike, with values coerced to strings.
	Raw map[string]string
}

// RequiredMetadataKeys lists the front matter keys every document must carry,
// in canonical serialization order.
func RequiredMetadataKeys() []string {
	return []string{"title", "doc_type", "date_modified", "version", "pdf_filename"}
}

// Get returns the raw value recorded for key, or the empty string.
func (m Metadata) Get(key string) string {
	return m.Raw[strings.TrimSpace(key)]
}

// ExtraKeys returns the non-required front matter keys in sorted order.
func (m Metadata) ExtraKeys() []string {
	if len(m.Raw) == 0 {
		return nil
	}
	required := make(map[string]struct{}, 5)
	for _, key := range RequiredMetadataKeys() {
		required[key] = struct{}{}
	}
	extras := make([]string, 0, len(m.Raw))
	for key := range m.Raw {
		if _, ok := required[key]; ok {
			continue
		}
		extras = append(extras, key)
	}
	sort.Strings(extras)
	return extras
}

// Section is a heading plus the blocks that follow it, up to the next
// heading. Levels mirror the ATX marker depth.
type Section struct {
	Title  string
	Level  int
	Blocks []Block
}

// Document is the parse result: metadata plus the ordered section list.
// Sections are kept flat; nesting is recoverable from the level ordering.
type Document struct {
	Metadata Metadata
	Sections []Section
}

// Section returns the first section whose title matches, ignoring case and
// surrounding whitespace, or nil when no section matches.
func (d *Document) Section(title string) *Section {
	want := strings.TrimSpace(title)
	for i := range d.Sections {
		if strings.EqualFold(strings.TrimSpace(d.Sections[i].Title), want) {
			return &d.Sections[i]
		}
	}
	return nil
}

// Subsections returns the sections nested under the titled section: the run
// of deeper-level sections that follows it, ending at the first section of
// the same or shallower level.
func (d *Document) Subsections(title string) []Section {
	want := strings.TrimSpace(title)
	start := -1
	level := 0
	for i := range d.Sections {
		if strings.EqualFold(strings.TrimSpace(d.Sections[i].Title), want) {
			start = i + 1
			level = d.Sections[i].Level
			break
		}
	}
	if start < 0 {
		return nil
	}
	var nested []Section
	for _, section := range d.Sections[start:] {
		if section.Level <= level {
			break
		}
		nested = append(nested, section)
	}
	return nested
}

// Tables returns every table block in document order.
func (d *Document) Tables() []Table {
	var tables []Table
	for _, section := range d.Sections {
		for _, block := range section.Blocks {
			if table, ok := block.(Table); ok {
				tables = append(tables, table)
			}
		}
	}
	return tables
}

// Headings returns the section titles in document order.
func (d *Document) Headings() []string {
	titles := make([]string, 0, len(d.Sections))
	for _, section := range d.Sections {
		titles = append(titles, section.Title)
	}
	return titles
}

// TOCEntry is one table of contents row derived from a section heading.
type TOCEntry struct {
	Level  int
	Title  string
	Anchor string
}

// TableOfContents derives the entry list for every titled section. Anchors
// come from HeadingAnchor, so links and rendered heading IDs always agree.
func (d *Document) TableOfContents() []TOCEntry {
	entries := make([]TOCEntry, 0, len(d.Sections))
	for _, section := range d.Sections {
		if strings.TrimSpace(section.Title) == "" {
			continue
		}
		entries = append(entries, TOCEntry{
			Level:  section.Level,
			Title:  section.Title,
			Anchor: HeadingAnchor(section.Title),
		})
	}
	return entries
}
