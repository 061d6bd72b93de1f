// Package fetcher reads tabular review and approval exports from XLSX and CSV files.
package fetcher

import (
	"strings"
)

// Table is a sheet or CSV file split into its header row and data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable treats the first of rows as the header. Header names are matched
// case-insensitively with surrounding spaces ignored.
func NewTable(name string, rows [][]string) *Table {
	t := &Table{Name: name, index: make(map[string]int)}
	if len(rows) == 0 {
		return t
	}
	t.Header = rows[0]
	t.Rows = rows[1:]
	for i, h := range t.Header {
		key := normalizeHeader(h)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	return t
}

// Column returns the index of the first header matching any of names, or -1.
func (t *Table) Column(names ...string) int {
	for _, n := range names {
		if i, ok := t.index[normalizeHeader(n)]; ok {
			return i
		}
	}
	return -1
}

// Cell returns row[col], or "" when the row is short or col is -1.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// IsBlank reports whether every cell in row is empty or whitespace.
func IsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}
