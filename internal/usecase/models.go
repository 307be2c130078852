package usecase

// INGEST USECASE

// IngestBatchReq — запрос на запуск загрузки каталога.
// ArtifactPaths — локальные файлы выгрузки, которые после успешного прогона
// экспортируются в объектное хранилище.
type IngestBatchReq struct {
	ArtifactPaths []string
}

// IngestBatchRes — результат прогона пайплайна.
type IngestBatchRes struct {
	RunID   string
	Written int
}

// INFRASTRUCTURE

// EmbedTextReq — запрос на эмбеддинг одного текста.
type EmbedTextReq struct {
	Text string
}

// EmbedTextRes — вектор эмбеддинга одного текста.
type EmbedTextRes struct {
	Vector []float32
}

// IngestCompletedReq — событие об успешном завершении прогона.
type IngestCompletedReq struct {
	RunID      string
	Records    int
	Model      string
	ObjectKeys []string
}

// MAPPERS

func NewIngestBatchReq(artifactPaths []string) *IngestBatchReq {
	return &IngestBatchReq{
		ArtifactPaths: artifactPaths,
	}
}

func NewIngestBatchRes(runID string, written int) *IngestBatchRes {
	return &IngestBatchRes{
		RunID:   runID,
		Written: written,
	}
}

func NewEmbedTextReq(text string) *EmbedTextReq {
	return &EmbedTextReq{
		Text: text,
	}
}

func NewEmbedTextRes(vector []float32) *EmbedTextRes {
	return &EmbedTextRes{
		Vector: vector,
	}
}

func NewIngestCompletedReq(runID string, records int, model string, objectKeys []string) *IngestCompletedReq {
	return &IngestCompletedReq{
		RunID:      runID,
		Records:    records,
		Model:      model,
		ObjectKeys: objectKeys,
	}
}
