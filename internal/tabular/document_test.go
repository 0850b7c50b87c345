package tabular_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"patrimon/internal/domain"
	"patrimon/internal/tabular"
)

// buildWorkbook writes sheets of rows into xlsx bytes for fixtures.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestOpen_Unreadable(t *testing.T) {
	_, err := tabular.Open("broken.xlsx", []byte("not a spreadsheet"))
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestDocument_SheetsAndRows(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Inventário": {
			{"  Nº Inventário  ", "Denominação do bem"},
			{"A001", "Cadeira"},
			{"A002", "Mesa"},
		},
	})

	doc, err := tabular.Open("master.xlsx", data)
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	assert.Equal(t, "master.xlsx", doc.Name())
	assert.Equal(t, []string{"Inventário"}, doc.Sheets())

	it, err := doc.Rows("Inventário")
	require.NoError(t, err)
	defer func() { _ = it.Close() }()

	require.True(t, it.Next())
	assert.Equal(t, 1, it.Index())
	cells, err := it.Cells()
	require.NoError(t, err)
	// Values come back trimmed.
	assert.Equal(t, "Nº Inventário", cells[0])

	require.True(t, it.Next())
	require.True(t, it.Next())
	assert.Equal(t, 3, it.Index())
	cells, err = it.Cells()
	require.NoError(t, err)
	assert.Equal(t, []string{"A002", "Mesa"}, cells)

	assert.False(t, it.Next())
}

func TestDocument_Window(t *testing.T) {
	var rows [][]interface{}
	for i := 0; i < 30; i++ {
		rows = append(rows, []interface{}{"r", "s", "t", "u"})
	}
	data := buildWorkbook(t, map[string][][]interface{}{"S": rows})

	doc, err := tabular.Open("w.xlsx", data)
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	window, err := doc.Window("S", 5, 2)
	require.NoError(t, err)
	assert.Len(t, window, 5)
	for _, row := range window {
		assert.LessOrEqual(t, len(row), 2)
	}
}

func TestFingerprint_TracksContent(t *testing.T) {
	a := buildWorkbook(t, map[string][][]interface{}{"S": {{"A001"}}})

	fpA := tabular.Fingerprint(a)
	assert.Len(t, fpA, 16)
	assert.Equal(t, fpA, tabular.Fingerprint(a))

	b := append(append([]byte(nil), a...), 0x00)
	assert.NotEqual(t, fpA, tabular.Fingerprint(b))

	doc, err := tabular.Open("a.xlsx", a)
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()
	assert.Equal(t, fpA, doc.ContentFingerprint())
}
