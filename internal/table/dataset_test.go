package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Dataset {
	return NewDataset(
		[]string{"Key", "Vendor", "Amount"},
		[][]string{
			{"AP-1", "ACME", "100"},
			{"AP-2", "Smith, Jones & Co", "2,500"},
			{"AP-3", `say "hi"`, "0"},
		},
	)
}

func TestNewDatasetCopiesInput(t *testing.T) {
	cols := []string{"A"}
	rows := [][]string{{"x"}}
	d := NewDataset(cols, rows)

	cols[0] = "mutated"
	rows[0][0] = "mutated"

	assert.Equal(t, "A", d.Columns[0])
	assert.Equal(t, "x", d.Rows[0][0])
}

func TestDatasetCounts(t *testing.T) {
	d := sample()
	assert.Equal(t, 3, d.RowCount())
	assert.Equal(t, 3, d.ColumnCount())
	assert.False(t, d.Empty())
	assert.True(t, NewDataset([]string{"A"}, nil).Empty())
}

func TestCSV(t *testing.T) {
	got := sample().CSV(true, nil)
	want := "Key,Vendor,Amount\n" +
		"AP-1,ACME,100\n" +
		`AP-2,"Smith, Jones & Co","2,500"` + "\n" +
		`AP-3,"say ""hi""",0` + "\n"
	assert.Equal(t, want, got)
}

func TestCSVWithoutHeaders(t *testing.T) {
	got := sample().CSV(false, []string{"Key", "Amount"})
	assert.Equal(t, "AP-1,100\nAP-2,\"2,500\"\nAP-3,0\n", got)
}

func TestCSVEmptyDataset(t *testing.T) {
	d := NewDataset([]string{"Key", "Vendor"}, nil)
	assert.Equal(t, "Key,Vendor\n", d.CSV(true, nil))
	assert.Equal(t, "", d.CSV(false, nil))
}

func TestCSVQuotesNewlines(t *testing.T) {
	d := NewDataset([]string{"Note"}, [][]string{{"line one\nline two"}})
	assert.Equal(t, "\"line one\nline two\"\n", d.CSV(false, nil))
}

func TestCSVShortRowsReadEmpty(t *testing.T) {
	d := NewDataset([]string{"A", "B"}, [][]string{{"only"}})
	assert.Equal(t, "only,\n", d.CSV(false, nil))
}

func TestObjects(t *testing.T) {
	objs := sample().Objects()
	require.Len(t, objs, 3)
	assert.Equal(t, "ACME", objs[0]["Vendor"])
	assert.Equal(t, "AP-3", objs[2]["Key"])
}
