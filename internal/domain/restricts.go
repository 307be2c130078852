package domain

// categoricalNamespaces — фиксированный порядок категориальных namespace'ов.
var categoricalNamespaces = [...]string{
	"category",
	"subcategory",
	"brand",
	"color",
	"occasion",
	"season",
}

// BuildRestricts строит категориальные фильтры датапоинта.
// Для каждого непустого поля из фиксированного списка namespace'ов создаётся
// запись с одноэлементным allowList. Пустые поля пропускаются без ошибки,
// порядок записей следует порядку namespace'ов.
func BuildRestricts(record *ProductRecord) []CategoricalRestrict {
	values := map[string]string{
		"category":    record.Category,
		"subcategory": record.Subcategory,
		"brand":       record.Brand,
		"color":       record.Color,
		"occasion":    record.Occasion,
		"season":      record.Season,
	}

	restricts := make([]CategoricalRestrict, 0, len(categoricalNamespaces))
	for _, namespace := range categoricalNamespaces {
		if value := values[namespace]; value != "" {
			restricts = append(restricts, CategoricalRestrict{
				Namespace: namespace,
				AllowList: []string{value},
			})
		}
	}

	return restricts
}

// BuildNumericRestricts строит числовые фильтры датапоинта для price и rating.
// Нулевое значение трактуется так же, как отсутствующее, — унаследованное
// поведение исходного пайплайна, закреплённое тестами. Теги оператора сравнения
// не выставляются: семантика диапазона принадлежит стороне запроса индекса.
func BuildNumericRestricts(record *ProductRecord) []NumericRestrict {
	numeric := make([]NumericRestrict, 0, 2)

	if record.Price != nil && *record.Price != 0 {
		numeric = append(numeric, NumericRestrict{
			Namespace:   "price",
			ValueDouble: *record.Price,
		})
	}

	if record.Rating != nil && *record.Rating != 0 {
		numeric = append(numeric, NumericRestrict{
			Namespace:   "rating",
			ValueDouble: *record.Rating,
		})
	}

	return numeric
}
