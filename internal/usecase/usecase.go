package usecase

import "context"

type IngestUC interface {
	Run(ctx context.Context, req *IngestBatchReq) (*IngestBatchRes, error)
}
