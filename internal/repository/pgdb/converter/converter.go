package converter

import "github.com/DRSN-tech/ingest-pipeline/internal/domain"

// ProductRecordConverter преобразует записи каталога между моделью PostgreSQL и domain.
type ProductRecordConverter struct{}

func NewProductRecordConverter() *ProductRecordConverter {
	return &ProductRecordConverter{}
}

func (c *ProductRecordConverter) ToEntity(model *ProductRecordModel) *domain.ProductRecord {
	return &domain.ProductRecord{
		SKU:         deref(model.SKU),
		Name:        deref(model.Name),
		Description: deref(model.Description),
		Category:    deref(model.Category),
		Subcategory: deref(model.Subcategory),
		Brand:       deref(model.Brand),
		Color:       deref(model.Color),
		Occasion:    deref(model.Occasion),
		Season:      deref(model.Season),
		Currency:    deref(model.Currency),
		ImageURL:    deref(model.ImageURL),
		StyleTags:   model.StyleTags,
		Price:       model.Price,
		Rating:      model.Rating,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
