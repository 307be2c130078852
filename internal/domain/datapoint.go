package domain

// CategoricalRestrict — категориальный фильтр датапоинта: allowList всегда
// содержит ровно одно значение соответствующего поля записи.
type CategoricalRestrict struct {
	Namespace string   `json:"namespace"`
	AllowList []string `json:"allowList"`
}

// NumericRestrict — числовой фильтр датапоинта. Op опционален и при сборке
// не заполняется (см. BuildNumericRestricts).
type NumericRestrict struct {
	Namespace   string  `json:"namespace"`
	ValueDouble float64 `json:"valueDouble"`
	Op          string  `json:"op,omitempty"`
}

// CrowdingTag ограничивает долю похожих результатов в выдаче индекса.
type CrowdingTag struct {
	CrowdingAttribute string `json:"crowdingAttribute"`
}

// DatapointMetadata — отображаемые поля датапоинта. В отличие от фильтров,
// отсутствующие поля сериализуются явным null: метаданные нужны для показа,
// фильтры — для корректности запросов, где пустое значение бессмысленно.
type DatapointMetadata struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
	ImageURL    *string  `json:"imageUrl"`
}

// Datapoint — единица загрузки векторного индекса: вектор эмбеддинга плюс
// фильтры и отображаемые метаданные.
type Datapoint struct {
	ID               string                `json:"id"`
	FeatureVector    []float32             `json:"featureVector"`
	Restricts        []CategoricalRestrict `json:"restricts"`
	NumericRestricts []NumericRestrict     `json:"numericRestricts"`
	CrowdingTag      CrowdingTag           `json:"crowdingTag"`
	Metadata         DatapointMetadata     `json:"metadata"`
}

// ResolveDatapointID возвращает идентификатор датапоинта: sku, а при его
// отсутствии — name. Пустой результат означает невалидную запись; проверка
// выполняется на уровне пайплайна.
func ResolveDatapointID(record *ProductRecord) string {
	if record.SKU != "" {
		return record.SKU
	}

	return record.Name
}

// NewDatapoint собирает датапоинт из записи каталога и вектора эмбеддинга.
// Вектор передаётся без изменений и без проверки размерности; каждая стадия
// порождает новое значение, запись не мутируется.
func NewDatapoint(record *ProductRecord, vector []float32) *Datapoint {
	return &Datapoint{
		ID:               ResolveDatapointID(record),
		FeatureVector:    vector,
		Restricts:        BuildRestricts(record),
		NumericRestricts: BuildNumericRestricts(record),
		CrowdingTag: CrowdingTag{
			CrowdingAttribute: record.Category,
		},
		Metadata: DatapointMetadata{
			Name:        optionalString(record.Name),
			Description: optionalString(record.Description),
			Price:       record.Price,
			Currency:    optionalString(record.Currency),
			ImageURL:    optionalString(record.ImageURL),
		},
	}
}

// optionalString возвращает nil для пустой строки, чтобы метаданные
// сериализовались явным null.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
