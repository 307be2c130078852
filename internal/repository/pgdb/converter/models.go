package converter

// ProductRecordModel представляет запись таблицы products в PostgreSQL.
type ProductRecordModel struct {
	SKU         *string  `db:"sku"`
	Name        *string  `db:"name"`
	Description *string  `db:"description"`
	Category    *string  `db:"category"`
	Subcategory *string  `db:"subcategory"`
	Brand       *string  `db:"brand"`
	Color       *string  `db:"color"`
	Occasion    *string  `db:"occasion"`
	Season      *string  `db:"season"`
	Currency    *string  `db:"currency"`
	ImageURL    *string  `db:"image_url"`
	StyleTags   []string `db:"style_tags"`
	Price       *float64 `db:"price"`
	Rating      *float64 `db:"rating"`
}
