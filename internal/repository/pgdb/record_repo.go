package pgdb

import (
	"context"

	"github.com/DRSN-tech/ingest-pipeline/internal/domain"
	"github.com/DRSN-tech/ingest-pipeline/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// RecordRepo читает каталог продуктов из PostgreSQL.
type RecordRepo struct {
	pool *pgxpool.Pool
	conv *converter.ProductRecordConverter
}

func NewRecordRepo(pool *pgxpool.Pool, conv *converter.ProductRecordConverter) *RecordRepo {
	return &RecordRepo{
		pool: pool,
		conv: conv,
	}
}

// LoadRecords возвращает неархивированные записи каталога в порядке создания.
func (r *RecordRepo) LoadRecords(ctx context.Context) ([]domain.ProductRecord, error) {
	query := `
		SELECT
			sku, name, description, category, subcategory, brand,
			color, occasion, season, currency, image_url, style_tags,
			price, rating
		FROM products
		WHERE NOT is_archived
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	records := make([]domain.ProductRecord, 0)
	for rows.Next() {
		var model converter.ProductRecordModel
		err := rows.Scan(
			&model.SKU, &model.Name, &model.Description, &model.Category,
			&model.Subcategory, &model.Brand, &model.Color, &model.Occasion,
			&model.Season, &model.Currency, &model.ImageURL, &model.StyleTags,
			&model.Price, &model.Rating,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		records = append(records, *r.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return records, nil
}
