// Package table holds the tabular dataset model shared by capture
// handlers and export surfaces.
package table

import "strings"

// Dataset is an ordered columns-plus-rows table. Rows are expected to
// match the column count; short rows read as empty cells.
type Dataset struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewDataset copies its inputs so the dataset owns its storage.
func NewDataset(columns []string, rows [][]string) *Dataset {
	d := &Dataset{Columns: append([]string(nil), columns...)}
	for _, row := range rows {
		d.Rows = append(d.Rows, append([]string(nil), row...))
	}
	return d
}

func (d *Dataset) RowCount() int    { return len(d.Rows) }
func (d *Dataset) ColumnCount() int { return len(d.Columns) }

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool { return len(d.Rows) == 0 }

// columnIndexes resolves a selection of column names to indexes,
// keeping dataset order. Nil selection means all columns.
func (d *Dataset) columnIndexes(selection []string) []int {
	if selection == nil {
		idx := make([]int, len(d.Columns))
		for i := range d.Columns {
			idx[i] = i
		}
		return idx
	}
	wanted := make(map[string]bool, len(selection))
	for _, name := range selection {
		wanted[name] = true
	}
	var idx []int
	for i, name := range d.Columns {
		if wanted[name] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (d *Dataset) cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// CSV renders the dataset as RFC-4180-style text. A cell is quoted
// whenever it contains a comma, a quote, or a newline, with internal
// quotes doubled. selection filters columns by name; nil keeps all.
func (d *Dataset) CSV(includeHeaders bool, selection []string) string {
	idx := d.columnIndexes(selection)

	var sb strings.Builder
	writeRecord := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(escapeCSV(c))
		}
		sb.WriteByte('\n')
	}

	if includeHeaders {
		header := make([]string, len(idx))
		for i, col := range idx {
			header[i] = d.Columns[col]
		}
		writeRecord(header)
	}
	for _, row := range d.Rows {
		record := make([]string, len(idx))
		for i, col := range idx {
			record[i] = d.cell(row, col)
		}
		writeRecord(record)
	}
	return sb.String()
}

func escapeCSV(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// Objects projects every row onto a map keyed by column name.
func (d *Dataset) Objects() []map[string]string {
	out := make([]map[string]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		obj := make(map[string]string, len(d.Columns))
		for i, name := range d.Columns {
			obj[name] = d.cell(row, i)
		}
		out = append(out, obj)
	}
	return out
}
