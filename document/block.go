package document

import "strings"

// BlockKind discriminates the block variants a section may hold.
type BlockKind string

const (
	KindParagraph  BlockKind = "paragraph"
	KindBulletList BlockKind = "bullet_list"
	KindTable      BlockKind = "table"
	KindBlockquote BlockKind = "blockquote"
	KindCodeBlock  BlockKind = "code_block"
)

// Block is one body element of a section. Concrete types are Paragraph,
// BulletList, Table, Blockquote, and CodeBlock; consumers switch on the
// concrete type or on Kind.
type Block interface {
	Kind() BlockKind
}

// Paragraph is a run of plain text. Inline emphasis markers are preserved
// verbatim; line breaks inside the source paragraph collapse to spaces.
type Paragraph struct {
	Text string
}

func (Paragraph) Kind() BlockKind { return KindParagraph }

// ListItem is a single bullet entry. Label holds the bolded prefix of
// `**Label:** value` items and stays empty for plain entries.
type ListItem struct {
	Label string
	Text  string
}

// String renders the item the way it reads in the source, without the
// bullet marker.
func (i ListItem) String() string {
	if i.Label == "" {
		return i.Text
	}
	if i.Text == "" {
		return "**" + i.Label + ":**"
	}
	return "**" + i.Label + ":** " + i.Text
}

// BulletList is an ordered run of bullet entries.
type BulletList struct {
	Items []ListItem
}

func (BulletList) Kind() BlockKind { return KindBulletList }

// Item returns the entry whose label matches, ignoring case, or nil.
func (l BulletList) Item(label string) *ListItem {
	want := strings.TrimSpace(label)
	for i := range l.Items {
		if strings.EqualFold(l.Items[i].Label, want) {
			return &l.Items[i]
		}
	}
	return nil
}

// Table is a pipe table. Every row holds exactly one cell per header; the
// reader rejects documents that violate this, so consumers may index rows
// by header position without bounds anxiety.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (Table) Kind() BlockKind { return KindTable }

// ColumnIndex returns the position of the named header, ignoring case, or -1.
func (t Table) ColumnIndex(header string) int {
	want := strings.TrimSpace(header)
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}

// Column returns the cell values under the named header in row order.
func (t Table) Column(header string) []string {
	idx := t.ColumnIndex(header)
	if idx < 0 {
		return nil
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[idx])
	}
	return values
}

// Blockquote is quoted text with an optional trailing attribution line.
type Blockquote struct {
	Text        string
	Attribution string
}

func (Blockquote) Kind() BlockKind { return KindBlockquote }

// CodeBlock is a fenced block: an optional language tag plus verbatim code.
type CodeBlock struct {
	Language string
	Code     string
}

func (CodeBlock) Kind() BlockKind { return KindCodeBlock }

// Lines splits the verbatim code on newlines.
func (c CodeBlock) Lines() []string {
	if c.Code == "" {
		return nil
	}
	return strings.Split(c.Code, "\n")
}
