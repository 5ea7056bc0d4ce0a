package markdown

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-specdoc/document"
)

// blockScanner walks the body once, line by line, producing sections and
// blocks. The first structural violation aborts the scan; callers never see
// a partial document.
type blockScanner struct {
	lines     []string
	pos       int
	startLine int
	sections  []document.Section
	current   document.Section
	started   bool
}

func scanBlocks(body []byte, startLine int) ([]document.Section, error) {
	if startLine < 1 {
		startLine = 1
	}
	s := &blockScanner{lines: splitLines(body), startLine: startLine}

	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		switch {
		case strings.TrimSpace(line) == "":
			s.pos++
		case isHeadingLine(line):
			level, title, _ := parseHeading(line)
			s.flushSection()
			s.openSection(title, level)
			s.pos++
		case isFenceLine(line):
			if err := s.scanCodeBlock(); err != nil {
				return nil, err
			}
		case isTableLine(line):
			if err := s.scanTable(); err != nil {
				return nil, err
			}
		case isBulletLine(line):
			s.scanBulletList()
		case isQuoteLine(line):
			s.scanBlockquote()
		default:
			s.scanParagraph()
		}
	}

	s.flushSection()
	return s.sections, nil
}

func (s *blockScanner) openSection(title string, level int) {
	s.current = document.Section{Title: title, Level: level}
	s.started = true
}

func (s *blockScanner) flushSection() {
	if !s.started {
		return
	}
	s.sections = append(s.sections, s.current)
	s.current = document.Section{}
	s.started = false
}

// appendBlock opens an untitled preamble section for content that appears
// before the first heading.
func (s *blockScanner) appendBlock(block document.Block) {
	if !s.started {
		s.openSection("", 0)
	}
	s.current.Blocks = append(s.current.Blocks, block)
}

func (s *blockScanner) sectionTitle() string {
	if s.started {
		return s.current.Title
	}
	return ""
}

func (s *blockScanner) lineNo(index int) int {
	return s.startLine + index
}

func (s *blockScanner) scanParagraph() {
	var parts []string
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		if strings.TrimSpace(line) == "" || isHeadingLine(line) || isFenceLine(line) ||
			isTableLine(line) || isBulletLine(line) || isQuoteLine(line) {
			break
		}
		parts = append(parts, strings.TrimSpace(line))
		s.pos++
	}
	s.appendBlock(document.Paragraph{Text: strings.Join(parts, " ")})
}

func (s *blockScanner) scanBulletList() {
	var items []document.ListItem
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		if isBulletLine(line) {
			items = append(items, parseListItem(line))
			s.pos++
			continue
		}
		if len(items) > 0 && isContinuationLine(line) {
			last := &items[len(items)-1]
			last.Text = strings.TrimSpace(last.Text + " " + strings.TrimSpace(line))
			s.pos++
			continue
		}
		break
	}
	s.appendBlock(document.BulletList{Items: items})
}

func (s *blockScanner) scanBlockquote() {
	var quoted []string
	for s.pos < len(s.lines) {
		trimmed := strings.TrimSpace(s.lines[s.pos])
		if !strings.HasPrefix(trimmed, ">") {
			break
		}
		content := strings.TrimPrefix(trimmed, ">")
		quoted = append(quoted, strings.TrimSpace(content))
		s.pos++
	}

	attribution := ""
	if len(quoted) > 1 {
		if name, ok := parseAttribution(quoted[len(quoted)-1]); ok {
			attribution = name
			quoted = quoted[:len(quoted)-1]
		}
	}

	s.appendBlock(document.Blockquote{
		Text:        strings.Join(quoted, "\n"),
		Attribution: attribution,
	})
}

func (s *blockScanner) scanTable() error {
	start := s.pos
	var raw []string
	var lineNos []int
	for s.pos < len(s.lines) && isTableLine(s.lines[s.pos]) {
		raw = append(raw, s.lines[s.pos])
		lineNos = append(lineNos, s.lineNo(s.pos))
		s.pos++
	}

	section := s.sectionTitle()
	if len(raw) < 2 || !isDelimiterRow(raw[1]) {
		return document.NewParseError(document.ErrMalformedTable, s.lineNo(start), section,
			"table requires a delimiter row after the header")
	}

	headers := splitTableRow(raw[0])
	delimiters := splitTableRow(raw[1])
	if len(delimiters) != len(headers) {
		msg := fmt.Sprintf("delimiter row has %d cells, header defines %d", len(delimiters), len(headers))
		return document.NewParseError(document.ErrMalformedTable, lineNos[1], section, msg)
	}

	table := document.Table{Headers: headers}
	for i, row := range raw[2:] {
		cells := splitTableRow(row)
		if len(cells) != len(headers) {
			msg := fmt.Sprintf("row %d has %d cells, header defines %d", i+1, len(cells), len(headers))
			return document.NewParseError(document.ErrMalformedTable, lineNos[i+2], section, msg)
		}
		table.Rows = append(table.Rows, cells)
	}

	s.appendBlock(table)
	return nil
}

func (s *blockScanner) scanCodeBlock() error {
	openLine := s.lineNo(s.pos)
	marker, info := parseFence(s.lines[s.pos])
	s.pos++

	var lines []string
	for s.pos < len(s.lines) {
		if isClosingFence(s.lines[s.pos], len(marker)) {
			s.pos++
			s.appendBlock(document.CodeBlock{
				Language: languageTag(info),
				Code:     strings.Join(lines, "\n"),
			})
			return nil
		}
		lines = append(lines, s.lines[s.pos])
		s.pos++
	}

	msg := fmt.Sprintf("code fence opened on line %d is never closed", openLine)
	return document.NewParseError(document.ErrUnterminatedBlock, openLine, s.sectionTitle(), msg)
}

func splitLines(body []byte) []string {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	return strings.Split(text, "\n")
}

func isHeadingLine(line string) bool {
	_, _, ok := parseHeading(line)
	return ok
}

func parseHeading(line string) (int, string, bool) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	rest := trimmed[level:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return 0, "", false
	}
	title := strings.TrimSpace(rest)
	if stripped := strings.TrimRight(title, "#"); stripped != title {
		// ATX closing sequence only counts when separated from the text.
		if stripped == "" || strings.HasSuffix(stripped, " ") {
			title = strings.TrimSpace(stripped)
		}
	}
	return level, title, true
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	count := 0
	for count < len(trimmed) && trimmed[count] == '`' {
		count++
	}
	return count >= 3
}

func parseFence(line string) (string, string) {
	trimmed := strings.TrimLeft(line, " \t")
	count := 0
	for count < len(trimmed) && trimmed[count] == '`' {
		count++
	}
	return trimmed[:count], strings.TrimSpace(trimmed[count:])
}

func isClosingFence(line string, openLen int) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < openLen {
		return false
	}
	for _, r := range trimmed {
		if r != '`' {
			return false
		}
	}
	return true
}

func languageTag(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func isDelimiterRow(line string) bool {
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !isDelimiterCell(cell) {
			return false
		}
	}
	return true
}

func isDelimiterCell(cell string) bool {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, ":")
	cell = strings.TrimSuffix(cell, ":")
	if cell == "" {
		return false
	}
	for _, r := range cell {
		if r != '-' {
			return false
		}
	}
	return true
}

// splitTableRow honours backslash-escaped pipes so cells can carry literal
// pipe characters.
func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	var cells []string
	var cell strings.Builder
	escaped := false
	for _, r := range trimmed {
		switch {
		case escaped:
			if r != '|' {
				cell.WriteByte('\\')
			}
			cell.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	if escaped {
		cell.WriteByte('\\')
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "-" || trimmed == "*" {
		return true
	}
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ")
}

func isContinuationLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}

func parseListItem(line string) document.ListItem {
	text := strings.TrimSpace(line)
	text = strings.TrimSpace(text[1:])

	if label, rest, ok := splitBoldLabel(text); ok {
		return document.ListItem{Label: label, Text: rest}
	}
	return document.ListItem{Text: text}
}

func splitBoldLabel(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "**") {
		return "", "", false
	}
	end := strings.Index(text[2:], "**")
	if end < 0 {
		return "", "", false
	}
	inner := strings.TrimSpace(text[2 : 2+end])
	rest := text[2+end+2:]
	if inner == "" {
		return "", "", false
	}
	switch {
	case strings.HasSuffix(inner, ":"):
		return strings.TrimSpace(strings.TrimSuffix(inner, ":")), strings.TrimSpace(rest), true
	case strings.HasPrefix(rest, ":"):
		return inner, strings.TrimSpace(rest[1:]), true
	default:
		return "", "", false
	}
}

func isQuoteLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ">")
}

func parseAttribution(line string) (string, bool) {
	for _, marker := range []string{"—", "--"} {
		if strings.HasPrefix(line, marker) {
			if name := strings.TrimSpace(strings.TrimPrefix(line, marker)); name != "" {
				return name, true
			}
		}
	}
	return "", false
}
