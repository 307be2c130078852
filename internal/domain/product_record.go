package domain

// ProductRecord описывает входную запись каталога товаров.
// Все поля опциональны: отсутствующее или пустое значение не является ошибкой
// и просто не участвует в сборке датапоинта.
type ProductRecord struct {
	SKU         string
	Name        string
	Description string
	Category    string
	Subcategory string
	Brand       string
	Color       string
	Occasion    string
	Season      string
	Currency    string
	ImageURL    string
	StyleTags   []string
	// Price и Rating различают «поле отсутствует» (nil) и «поле присутствует со значением 0».
	Price  *float64
	Rating *float64
}

func NewProductRecord(sku string, name string) *ProductRecord {
	return &ProductRecord{
		SKU:  sku,
		Name: name,
	}
}
