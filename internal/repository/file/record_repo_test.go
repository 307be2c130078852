package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DRSN-tech/ingest-pipeline/internal/repository/file/converter"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func newRepo(path string) *RecordRepo {
	return NewRecordRepo(path, converter.NewProductRecordConverter())
}

func TestRecordRepo_LoadRecords(t *testing.T) {
	path := writeCatalog(t, `[
		{"sku":"A1","name":"Tee","category":"tops","styleTags":["casual"],"price":19.99,"rating":4.5},
		{"name":"Scarf","color":"red"}
	]`)

	records, err := newRepo(path).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "A1", records[0].SKU)
	assert.Equal(t, []string{"casual"}, records[0].StyleTags)
	require.NotNil(t, records[0].Price)
	assert.Equal(t, 19.99, *records[0].Price)
	require.NotNil(t, records[0].Rating)
	assert.Equal(t, 4.5, *records[0].Rating)

	assert.Equal(t, "", records[1].SKU)
	assert.Equal(t, "Scarf", records[1].Name)
	assert.Nil(t, records[1].Price)
}

func TestRecordRepo_ParsesStringNumbers(t *testing.T) {
	path := writeCatalog(t, `[{"sku":"A1","price":"49.99","rating":""}]`)

	records, err := newRepo(path).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NotNil(t, records[0].Price)
	assert.Equal(t, 49.99, *records[0].Price)
	assert.Nil(t, records[0].Rating)
}

func TestRecordRepo_IgnoresUnknownFields(t *testing.T) {
	path := writeCatalog(t, `[{"sku":"A1","warehouse":"EU-1","stock":12}]`)

	records, err := newRepo(path).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A1", records[0].SKU)
}

func TestRecordRepo_RejectsMalformedNumbers(t *testing.T) {
	path := writeCatalog(t, `[
		{"sku":"A1","price":19.99},
		{"sku":"A2","price":true}
	]`)

	_, err := newRepo(path).LoadRecords(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrInvalidNumericValue)
	assert.Contains(t, err.Error(), `record 1 (sku="A2")`)
}

func TestRecordRepo_MissingFile(t *testing.T) {
	_, err := newRepo(filepath.Join(t.TempDir(), "absent.json")).LoadRecords(context.Background())
	require.Error(t, err)
}

func TestRecordRepo_NotAnArray(t *testing.T) {
	path := writeCatalog(t, `{"sku":"A1"}`)

	_, err := newRepo(path).LoadRecords(context.Background())
	require.Error(t, err)
}
