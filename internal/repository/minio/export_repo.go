package minio

import (
	"context"
	"path/filepath"

	"github.com/DRSN-tech/ingest-pipeline/internal/cfg"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ExportRepo выгружает файлы прогона в объектное хранилище.
type ExportRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewExportRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ExportRepo {
	return &ExportRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// UploadArtifact кладёт локальный файл в бакет под префиксом прогона
// и возвращает ключ объекта.
func (r *ExportRepo) UploadArtifact(ctx context.Context, runID string, path string) (string, error) {
	objectKey := runID + "/" + filepath.Base(path)

	_, err := r.mc.FPutObject(ctx, r.cfg.BucketName, objectKey, path, minio.PutObjectOptions{
		ContentType: "application/x-ndjson",
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return objectKey, nil
}
