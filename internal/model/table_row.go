package model

import "strings"

// TableRow is an ordered mapping from normalized header to cell text,
// as produced by the executor's extract_table capability.
type TableRow struct {
	Headers []string          `json:"headers"`
	Cells   map[string]string `json:"cells"`
}

// NewTableRow returns an empty row.
func NewTableRow() TableRow {
	return TableRow{Cells: make(map[string]string)}
}

// Set stores a cell, preserving first-seen header order.
func (r *TableRow) Set(header, value string) {
	if r.Cells == nil {
		r.Cells = make(map[string]string)
	}
	if _, seen := r.Cells[header]; !seen {
		r.Headers = append(r.Headers, header)
	}
	r.Cells[header] = value
}

// Get returns the cell for header, or the empty string.
func (r TableRow) Get(header string) string {
	return r.Cells[header]
}

// Joined concatenates all cell values in header order, space-separated.
func (r TableRow) Joined() string {
	parts := make([]string, 0, len(r.Headers))
	for _, h := range r.Headers {
		parts = append(parts, r.Cells[h])
	}
	return strings.Join(parts, " ")
}

// CleanText normalizes whitespace: NBSP to space, runs collapsed, trimmed.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
