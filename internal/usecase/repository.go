package usecase

import (
	"context"

	"github.com/DRSN-tech/ingest-pipeline/internal/domain"
)

type RecordSource interface {
	LoadRecords(ctx context.Context) ([]domain.ProductRecord, error)
}

type DatapointSink interface {
	WriteDatapoint(ctx context.Context, dp *domain.Datapoint) error
	Written() int
}

type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, model string, prompt string) ([]float32, bool, error)
	SetEmbedding(ctx context.Context, model string, prompt string, vector []float32) error
}
