package usecase

import "context"

type EmbeddingsInfra interface {
	EmbedText(ctx context.Context, req *EmbedTextReq) (*EmbedTextRes, error)
}

type BatchExporter interface {
	UploadArtifact(ctx context.Context, runID string, path string) (string, error)
}

type MessageProducer interface {
	WriteIngestCompleted(ctx context.Context, req *IngestCompletedReq) error
}
