package recon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/recon"
)

func buildWorkbook(t *testing.T, sheets []string, rows map[string][][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for r, row := range rows[sheet] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func expectedItems(codes ...string) []domain.ExpectedItem {
	items := make([]domain.ExpectedItem, 0, len(codes))
	for i, code := range codes {
		items = append(items, domain.ExpectedItem{
			Code:        code,
			Description: "Item " + code,
			RowIndex:    i + 2,
			SourceRow:   []string{code, "Item " + code},
		})
	}
	return items
}

func testEngine() *recon.Engine {
	return recon.NewEngine(config.ReconConfig{Concurrency: 4})
}

func TestReconcile_Partition(t *testing.T) {
	// Sheet RoomX has A1..A3; scan has A1 and the stray A4.
	expected := expectedItems("A1", "A2", "A3")
	scanned := domain.ParseScanSet("A1\nA4")

	result, err := testEngine().Reconcile(context.Background(), expected, scanned, nil)
	require.NoError(t, err)

	require.Len(t, result.Verified, 1)
	assert.Equal(t, "A1", result.Verified[0].Code)
	require.Len(t, result.Missing, 2)
	assert.Equal(t, "A2", result.Missing[0].Code)
	assert.Equal(t, "A3", result.Missing[1].Code)
	require.Len(t, result.Misplaced, 1)
	assert.Equal(t, "A4", result.Misplaced[0].Code)
	assert.False(t, result.Incomplete)
}

func TestReconcile_ResolvesInOtherSheet(t *testing.T) {
	data := buildWorkbook(t, []string{"RoomX", "RoomY"}, map[string][][]interface{}{
		"RoomX": {{"A1"}, {"A2"}},
		"RoomY": {{"B9"}, {"A4", "Item A4"}},
	})
	scope := []recon.ScopeFile{{Name: "master.xlsx", Data: data, ExcludeSheet: "RoomX"}}

	result, err := testEngine().Reconcile(context.Background(),
		expectedItems("A1", "A2"), domain.ParseScanSet("A1\nA4"), scope)
	require.NoError(t, err)

	require.Len(t, result.Misplaced, 1)
	item := result.Misplaced[0]
	assert.Equal(t, "A4", item.Code)
	assert.Equal(t, "RoomY", item.Location)
	require.NotNil(t, item.Resolved)
	assert.Equal(t, "master.xlsx", item.Resolved.Document)
	assert.Equal(t, 2, item.Resolved.RowIndex)
	assert.Equal(t, []string{"A4", "Item A4"}, item.SourceRow)
}

func TestReconcile_SentinelWhenAbsent(t *testing.T) {
	data := buildWorkbook(t, []string{"RoomY"}, map[string][][]interface{}{
		"RoomY": {{"B1"}, {"B2"}},
	})
	scope := []recon.ScopeFile{{Name: "other.xlsx", Data: data}}

	result, err := testEngine().Reconcile(context.Background(),
		expectedItems("A1"), domain.ParseScanSet("A1\nA4"), scope)
	require.NoError(t, err)

	require.Len(t, result.Misplaced, 1)
	assert.Equal(t, domain.SentinelNotFound, result.Misplaced[0].Location)
	assert.Nil(t, result.Misplaced[0].Resolved)
	assert.False(t, result.Incomplete)
}

func TestReconcile_TargetSheetExcluded(t *testing.T) {
	// A4 only exists in the excluded target sheet, so it must not resolve.
	data := buildWorkbook(t, []string{"RoomX"}, map[string][][]interface{}{
		"RoomX": {{"A1"}, {"A4"}},
	})
	scope := []recon.ScopeFile{{Name: "master.xlsx", Data: data, ExcludeSheet: "RoomX"}}

	result, err := testEngine().Reconcile(context.Background(),
		expectedItems("A1"), domain.ParseScanSet("A1\nA4"), scope)
	require.NoError(t, err)

	require.Len(t, result.Misplaced, 1)
	assert.Equal(t, domain.SentinelNotFound, result.Misplaced[0].Location)
}

func TestReconcile_SlicedExclusionKeepsSiblingBlocks(t *testing.T) {
	// The target block is rows 1-3; its sibling block further down the same
	// sheet is fair game for resolution.
	data := buildWorkbook(t, []string{"Geral"}, map[string][][]interface{}{
		"Geral": {{"A1"}, {"A2"}, {"A4"}, {"..."}, {"A4"}},
	})
	scope := []recon.ScopeFile{{
		Name:         "bens.xlsx",
		Data:         data,
		ExcludeSheet: "Geral",
		ExcludeStart: 1,
		ExcludeEnd:   3,
	}}

	result, err := testEngine().Reconcile(context.Background(),
		expectedItems("A1", "A2"), domain.ParseScanSet("A1\nA4"), scope)
	require.NoError(t, err)

	require.Len(t, result.Misplaced, 1)
	item := result.Misplaced[0]
	assert.Equal(t, "Geral", item.Location)
	require.NotNil(t, item.Resolved)
	assert.Equal(t, 5, item.Resolved.RowIndex)
}

func TestReconcile_ScopeOrderWinsDeterministically(t *testing.T) {
	first := buildWorkbook(t, []string{"SheetA"}, map[string][][]interface{}{
		"SheetA": {{"A4"}},
	})
	second := buildWorkbook(t, []string{"SheetB"}, map[string][][]interface{}{
		"SheetB": {{"A4"}},
	})
	scope := []recon.ScopeFile{
		{Name: "first.xlsx", Data: first},
		{Name: "second.xlsx", Data: second},
	}

	// Earlier scope files win regardless of worker completion order.
	for i := 0; i < 10; i++ {
		result, err := testEngine().Reconcile(context.Background(),
			nil, domain.ParseScanSet("A4"), scope)
		require.NoError(t, err)
		require.Len(t, result.Misplaced, 1)
		require.NotNil(t, result.Misplaced[0].Resolved)
		assert.Equal(t, "first.xlsx", result.Misplaced[0].Resolved.Document)
	}
}

func TestReconcile_UnreadableScopeFileDegrades(t *testing.T) {
	good := buildWorkbook(t, []string{"RoomY"}, map[string][][]interface{}{
		"RoomY": {{"A4"}},
	})
	scope := []recon.ScopeFile{
		{Name: "broken.xlsx", Data: []byte("garbage")},
		{Name: "good.xlsx", Data: good},
	}

	result, err := testEngine().Reconcile(context.Background(),
		expectedItems("A1"), domain.ParseScanSet("A1\nA4"), scope)
	require.NoError(t, err)

	assert.True(t, result.Incomplete)
	assert.Equal(t, []string{"broken.xlsx"}, result.FailedSources)
	// The readable file still resolved the candidate.
	require.Len(t, result.Misplaced, 1)
	require.NotNil(t, result.Misplaced[0].Resolved)
	assert.Equal(t, "good.xlsx", result.Misplaced[0].Resolved.Document)
}

func TestReconcile_CancellationMarksIncomplete(t *testing.T) {
	data := buildWorkbook(t, []string{"RoomY"}, map[string][][]interface{}{
		"RoomY": {{"A4"}},
	})
	scope := []recon.ScopeFile{{Name: "master.xlsx", Data: data}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := testEngine().Reconcile(ctx,
		expectedItems("A1"), domain.ParseScanSet("A1\nA4"), scope)
	require.NoError(t, err)
	assert.True(t, result.Incomplete)
}

func TestReconcile_MisplacedOrderIsSorted(t *testing.T) {
	result, err := testEngine().Reconcile(context.Background(),
		nil, domain.ParseScanSet("Z9\nB2\nM5"), nil)
	require.NoError(t, err)

	require.Len(t, result.Misplaced, 3)
	assert.Equal(t, "B2", result.Misplaced[0].Code)
	assert.Equal(t, "M5", result.Misplaced[1].Code)
	assert.Equal(t, "Z9", result.Misplaced[2].Code)
}
