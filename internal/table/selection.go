package table

// Selection is an inclusive rectangular range over a dataset. The
// constructor normalizes so start never exceeds end on either axis.
type Selection struct {
	StartRow, EndRow int
	StartCol, EndCol int
}

// NewSelection normalizes the corners so StartRow <= EndRow and
// StartCol <= EndCol.
func NewSelection(startRow, startCol, endRow, endCol int) Selection {
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	return Selection{StartRow: startRow, EndRow: endRow, StartCol: startCol, EndCol: endCol}
}

// SingleCell selects one cell.
func SingleCell(row, col int) Selection {
	return NewSelection(row, col, row, col)
}

func (s Selection) RowSpan() int { return s.EndRow - s.StartRow + 1 }
func (s Selection) ColSpan() int { return s.EndCol - s.StartCol + 1 }

// Contains reports whether the cell falls inside the selection.
func (s Selection) Contains(row, col int) bool {
	return row >= s.StartRow && row <= s.EndRow && col >= s.StartCol && col <= s.EndCol
}

// Slice extracts the selected region of the dataset, clamped to its
// bounds.
func (s Selection) Slice(d *Dataset) *Dataset {
	startCol := clamp(s.StartCol, 0, len(d.Columns))
	endCol := clamp(s.EndCol+1, startCol, len(d.Columns))
	columns := d.Columns[startCol:endCol]

	startRow := clamp(s.StartRow, 0, len(d.Rows))
	endRow := clamp(s.EndRow+1, startRow, len(d.Rows))

	rows := make([][]string, 0, endRow-startRow)
	for _, row := range d.Rows[startRow:endRow] {
		record := make([]string, 0, len(columns))
		for c := startCol; c < endCol; c++ {
			if c < len(row) {
				record = append(record, row[c])
			} else {
				record = append(record, "")
			}
		}
		rows = append(rows, record)
	}
	return NewDataset(columns, rows)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
