package xlsxwriter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/xml-to-csv-conversion/internal/types"
)

func sampleTable() *types.Table {
	return &types.Table{
		Header: []string{"Sequence", "age", "id", "name"},
		Rows: [][]string{
			{"1", "", "1", "Alice"},
			{"2", "30", "2", "Bob"},
		},
	}
}

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.xlsx")
	require.NoError(t, WriteFile(path, sampleTable(), Options{}))

	rows := readRows(t, path, DefaultSheetName)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Sequence", "age", "id", "name"}, rows[0])
	assert.Equal(t, []string{"1", "", "1", "Alice"}, rows[1])
	assert.Equal(t, []string{"2", "30", "2", "Bob"}, rows[2])
}

func TestWriteFileNamedSheetWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.xlsx")
	require.NoError(t, WriteFile(path, sampleTable(), Options{SheetName: "Items", SkipHeader: true}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Items"}, f.GetSheetList())

	rows, err := f.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0][3])
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "items.xlsx")
	err := WriteFile(path, sampleTable(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save workbook")
}

func TestRowCells(t *testing.T) {
	cells := rowCells([]string{"7", "x"})
	assert.Equal(t, []interface{}{7, "x"}, cells)

	cells = rowCells([]string{"n/a", "x"})
	assert.Equal(t, []interface{}{"n/a", "x"}, cells)
}
