package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrimon/internal/domain"
	"patrimon/internal/schema"
)

func TestExtractItems_Legacy(t *testing.T) {
	doc := buildDoc(t, "master.xlsx", []string{"Plan1"}, map[string][][]interface{}{
		"Plan1": {
			{"Nº Inventário", "Denominação do bem"},
			{"A001", "Cadeira"},
			{"", "linha sem código"},
			{"A002", ""},
			{"A001", "Cadeira duplicada"},
			{"A003", "Armário"},
		},
	})
	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	items, err := schema.ExtractItems(doc, &rooms[0])
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "A001", items[0].Code)
	assert.Equal(t, "Cadeira", items[0].Description)
	assert.Equal(t, 2, items[0].RowIndex)

	// Missing description falls back; duplicate keeps the first row.
	assert.Equal(t, "A002", items[1].Code)
	assert.Equal(t, schema.DescriptionFallback, items[1].Description)
	assert.Equal(t, "A003", items[2].Code)
}

func TestExtractItems_SlicedBlockBounds(t *testing.T) {
	doc := buildDoc(t, "bens.xlsx", []string{"Geral"}, map[string][][]interface{}{
		"Geral": slicedRows(),
	})
	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	first, err := schema.ExtractItems(doc, &rooms[0])
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "C001", first[0].Code)
	assert.Equal(t, "C002", first[1].Code)

	second, err := schema.ExtractItems(doc, &rooms[1])
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "C003", second[0].Code)
}

func TestExtractItems_NotExtractable(t *testing.T) {
	doc := buildDoc(t, "master.xlsx", []string{"Plan1"}, map[string][][]interface{}{
		"Plan1": {{"Item", "Quantidade"}},
	})
	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	_, err = schema.ExtractItems(doc, &rooms[0])
	assert.ErrorIs(t, err, domain.ErrRoomNotExtractable)
}
