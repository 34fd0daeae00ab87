package fetcher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// buildXLSX assembles a one-sheet workbook in memory.
func buildXLSX(t *testing.T, sheetName string, rows [][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, r := range rows {
		row := sheet.AddRow()
		for _, c := range r {
			row.AddCell().SetString(c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestReadXLSXBytes(t *testing.T) {
	data := buildXLSX(t, "Tabelle1", [][]string{
		{"Montag", "Spaghetti", "200g"},
		{"", "Salat"},
	})

	rows, err := ReadXLSXBytes(data, XLSXOptions{SheetName: "Tabelle1"})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Montag", "Spaghetti", "200g"}, rows[0])
	assert.Equal(t, []string{"", "Salat"}, rows[1])
}

func TestReadXLSXBytes_SheetNotFound(t *testing.T) {
	data := buildXLSX(t, "Tabelle1", [][]string{{"x"}})

	_, err := ReadXLSXBytes(data, XLSXOptions{SheetName: "Plan"})
	require.Error(t, err)
}

func TestReadXLSXBytes_NotASpreadsheet(t *testing.T) {
	_, err := ReadXLSXBytes([]byte("definitely not a zip archive"), XLSXOptions{})
	require.Error(t, err)
}

func TestReadXLSXBytes_MaxColumnsTruncates(t *testing.T) {
	data := buildXLSX(t, "Tabelle1", [][]string{
		{"a", "b", "c", "d", "e"},
	})

	rows, err := ReadXLSXBytes(data, XLSXOptions{MaxColumns: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
}

func TestReadXLSXBytes_SkipRows(t *testing.T) {
	data := buildXLSX(t, "Tabelle1", [][]string{
		{"Kopfzeile"},
		{"Montag"},
	})

	rows, err := ReadXLSXBytes(data, XLSXOptions{SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Montag", rows[0][0])
}

func TestReadXLSX_File(t *testing.T) {
	data := buildXLSX(t, "Tabelle1", [][]string{{"Montag", "Eintopf"}})
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Eintopf", rows[0][1])
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "missing.xlsx"), XLSXOptions{})
	require.Error(t, err)
}
