package converter

import (
	"fmt"

	"github.com/DRSN-tech/ingest-pipeline/internal/domain"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductRecordConverter преобразует записи каталога между JSON-моделью и domain.
type ProductRecordConverter struct{}

func NewProductRecordConverter() *ProductRecordConverter {
	return &ProductRecordConverter{}
}

func (c *ProductRecordConverter) ToEntity(model *ProductRecordModel) (*domain.ProductRecord, error) {
	const op = "converter.ProductRecordConverter.ToEntity"

	price, err := parseOptionalNumber(model.Price)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("%s: price", op), err)
	}

	rating, err := parseOptionalNumber(model.Rating)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("%s: rating", op), err)
	}

	return &domain.ProductRecord{
		SKU:         model.SKU,
		Name:        model.Name,
		Description: model.Description,
		Category:    model.Category,
		Subcategory: model.Subcategory,
		Brand:       model.Brand,
		Color:       model.Color,
		Occasion:    model.Occasion,
		Season:      model.Season,
		Currency:    model.Currency,
		ImageURL:    model.ImageURL,
		StyleTags:   model.StyleTags,
		Price:       price,
		Rating:      rating,
	}, nil
}

// parseOptionalNumber принимает число или десятичную строку.
// Отсутствующее значение и пустая строка дают nil, прочие типы — ошибку.
func parseOptionalNumber(value any) (*float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}

		dec, err := decimal.NewFromString(v)
		if err != nil {
			return nil, e.Wrap(fmt.Sprintf("%q", v), e.ErrInvalidNumericValue)
		}

		f, _ := dec.Float64()
		return &f, nil
	default:
		return nil, e.Wrap(fmt.Sprintf("unexpected type %T", value), e.ErrInvalidNumericValue)
	}
}
