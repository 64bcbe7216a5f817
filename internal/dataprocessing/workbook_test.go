package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "spotifyeda/internal/errors"
)

func createWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "tracks.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := createWorkbook(t, "Tracks", [][]interface{}{
		{"Song Name", "Duration Ms", "Energy"},
		{"Levitating", 203064, 0.825},
		{"Peaches", 198082},
	})

	ds, err := LoadWorkbook(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Song Name", "Duration Ms", "Energy"}, ds.Columns())
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, StringValue("Levitating"), ds.Row(0)[0])
	assert.Equal(t, IntValue(203064), ds.Row(0)[1])
	assert.Equal(t, FloatValue(0.825), ds.Row(0)[2])
	assert.True(t, ds.Row(1)[2].IsMissing(), "short rows are padded with missing")
}

func TestLoadWorkbook_NamedSheet(t *testing.T) {
	path := createWorkbook(t, "Sheet1", [][]interface{}{
		{"a"},
		{1},
	})

	ds, err := LoadWorkbook(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, IntValue(1), ds.Row(0)[0])

	_, err = LoadWorkbook(path, "Missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestLoadWorkbook_EmptySheet(t *testing.T) {
	path := createWorkbook(t, "Sheet1", nil)

	_, err := LoadWorkbook(path, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestLoad_Workbook(t *testing.T) {
	path := createWorkbook(t, "Sheet1", [][]interface{}{
		{"duration_ms"},
		{500},
		{1500},
	})

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, BasicClean(ds).Len())
}
