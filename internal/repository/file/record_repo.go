package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/DRSN-tech/ingest-pipeline/internal/domain"
	"github.com/DRSN-tech/ingest-pipeline/internal/repository/file/converter"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/jimlawless/whereami"
)

// RecordRepo читает каталог продуктов из JSON-файла с массивом записей.
type RecordRepo struct {
	path string
	conv *converter.ProductRecordConverter
}

func NewRecordRepo(path string, conv *converter.ProductRecordConverter) *RecordRepo {
	return &RecordRepo{
		path: path,
		conv: conv,
	}
}

// LoadRecords возвращает записи каталога в порядке их следования в файле.
// Неизвестные поля записей игнорируются.
func (r *RecordRepo) LoadRecords(_ context.Context) ([]domain.ProductRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductRecordModel
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	records := make([]domain.ProductRecord, 0, len(models))
	for i := range models {
		entity, err := r.conv.ToEntity(&models[i])
		if err != nil {
			return nil, e.Wrap(fmt.Sprintf("record %d (sku=%q)", i, models[i].SKU), err)
		}

		records = append(records, *entity)
	}

	return records, nil
}
