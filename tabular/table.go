package tabular

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrNoHeader indicates the input contains no header line.
var ErrNoHeader = errors.New("table has no header line")

// Row maps column names to trimmed cell values.
type Row map[string]string

// Get returns the cell in column, or "" if the row has no such column.
func (r Row) Get(column string) string {
	return r[column]
}

// Table is a parsed header-plus-rows report.
type Table struct {
	Columns []string
	Rows    []Row
}

// column is a header token and the rune offset where it starts.
type column struct {
	name  string
	start int
}

// ParseTable parses text whose first non-blank line is a header of
// whitespace-separated column names. Each following non-blank line is cut
// at the header's column offsets, so a cell may contain single spaces.
// Offsets are counted in runes, matching text/tabwriter alignment.
func ParseTable(text string) (*Table, error) {
	return ParseTableWithHeader(text, "")
}

// ParseTableWithHeader is ParseTable for output whose header line starts with
// headerPrefix. It returns ErrNoHeader when the first non-blank line does not
// start with headerPrefix, and skips later lines that do, as ParseNames does.
// An empty headerPrefix behaves like ParseTable.
func ParseTableWithHeader(text, headerPrefix string) (*Table, error) {
	lines := strings.Split(text, "\n")

	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrNoHeader
	}
	if headerPrefix != "" && !strings.HasPrefix(lines[headerIdx], headerPrefix) {
		return nil, fmt.Errorf("%w: first line does not start with %q", ErrNoHeader, headerPrefix)
	}

	cols := headerColumns(strings.TrimRight(lines[headerIdx], "\r"))
	t := &Table{Columns: make([]string, len(cols))}
	for i, c := range cols {
		t.Columns[i] = c.name
	}

	for _, line := range lines[headerIdx+1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if headerPrefix != "" && strings.HasPrefix(line, headerPrefix) {
			continue
		}
		t.Rows = append(t.Rows, splitRow([]rune(line), cols))
	}

	return t, nil
}

// headerColumns returns each header token with its starting rune offset.
func headerColumns(header string) []column {
	var cols []column
	runes := []rune(header)
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		cols = append(cols, column{name: string(runes[start:i]), start: start})
	}
	return cols
}

// splitRow cuts line into cells at the column offsets. The first column
// always starts at 0 and the last runs to the end of the line.
func splitRow(line []rune, cols []column) Row {
	row := make(Row, len(cols))
	for i, c := range cols {
		start := c.start
		if i == 0 {
			start = 0
		}
		end := len(line)
		if i+1 < len(cols) {
			end = cols[i+1].start
		}
		if start >= len(line) {
			row[c.name] = ""
			continue
		}
		if end > len(line) {
			end = len(line)
		}
		row[c.name] = strings.TrimSpace(string(line[start:end]))
	}
	return row
}
