package converter

// ProductRecordModel представляет запись каталога в JSON-файле.
// Price и Rating объявлены как any: каталог встречается и с числами,
// и со строковыми значениями ("49.99").
type ProductRecordModel struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Brand       string   `json:"brand"`
	Color       string   `json:"color"`
	Occasion    string   `json:"occasion"`
	Season      string   `json:"season"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"imageUrl"`
	StyleTags   []string `json:"styleTags"`
	Price       any      `json:"price"`
	Rating      any      `json:"rating"`
}
