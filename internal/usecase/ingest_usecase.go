package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/DRSN-tech/ingest-pipeline/internal/domain"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/DRSN-tech/ingest-pipeline/pkg/logger"
	"github.com/google/uuid"
)

// IngestUseCase реализует пайплайн загрузки каталога: записи превращаются в
// текстовые промпты, векторизуются внешним провайдером и записываются в выгрузку
// датапоинтов строго в порядке входа.
type IngestUseCase struct {
	source        RecordSource
	sink          DatapointSink
	embeddings    EmbeddingsInfra
	cache         EmbeddingCache  // опционально, может быть nil
	exporter      BatchExporter   // опционально, может быть nil
	producer      MessageProducer // опционально, может быть nil
	logger        logger.Logger
	model         string
	maxConcurrent int
}

func NewIngestUC(
	source RecordSource,
	sink DatapointSink,
	embeddings EmbeddingsInfra,
	cache EmbeddingCache,
	exporter BatchExporter,
	producer MessageProducer,
	logger logger.Logger,
	model string,
	maxConcurrent int,
) *IngestUseCase {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &IngestUseCase{
		source:        source,
		sink:          sink,
		embeddings:    embeddings,
		cache:         cache,
		exporter:      exporter,
		producer:      producer,
		logger:        logger,
		model:         model,
		maxConcurrent: maxConcurrent,
	}
}

// Run выполняет один прогон пайплайна. Любая ошибка отдельной записи
// (пустой идентификатор, отказ провайдера после всех повторов, отказ выгрузки)
// прерывает прогон целиком с диагностикой, указывающей на запись.
func (u *IngestUseCase) Run(ctx context.Context, req *IngestBatchReq) (*IngestBatchRes, error) {
	const op = "IngestUseCase.Run"

	runID := uuid.NewString()

	records, err := u.source.LoadRecords(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	u.logger.Infof("run %s: loaded %d records", runID, len(records))

	prompts := make([]string, len(records))
	for i := range records {
		prompts[i] = domain.BuildEmbeddingPrompt(&records[i])
	}

	vectors, err := u.embedAll(ctx, prompts)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for i := range records {
		dp := domain.NewDatapoint(&records[i], vectors[i])
		if dp.ID == "" {
			return nil, e.Wrap(fmt.Sprintf("%s: record %d", op, i), e.ErrEmptyDatapointID)
		}

		if err := u.sink.WriteDatapoint(ctx, dp); err != nil {
			return nil, e.Wrap(fmt.Sprintf("%s: record %d (id=%s)", op, i, dp.ID), err)
		}
	}

	objectKeys := u.exportArtifacts(ctx, runID, req.ArtifactPaths)
	u.publishCompletion(ctx, runID, len(records), objectKeys)

	return NewIngestBatchRes(runID, u.sink.Written()), nil
}

// embedAll векторизует промпты с ограничением одновременных запросов к провайдеру.
// Результаты складываются по индексу записи, поэтому порядок вывода не зависит
// от порядка завершения запросов.
func (u *IngestUseCase) embedAll(ctx context.Context, prompts []string) ([][]float32, error) {
	const op = "IngestUseCase.embedAll"

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float32, len(prompts))
	errCh := make(chan error, len(prompts))
	sem := make(chan struct{}, u.maxConcurrent)

	var wg sync.WaitGroup
	for i, prompt := range prompts {
		i, prompt := i, prompt
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			vector, err := u.embedOne(ctx, prompt)
			if err != nil {
				errCh <- e.Wrap(fmt.Sprintf("%s: record %d", op, i), err)
				cancel() // первая ошибка отменяет остальные запросы
				return
			}

			vectors[i] = vector
		}()
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}

	return vectors, nil
}

// embedOne возвращает вектор для промпта, по возможности из кэша.
// Отказы кэша деградируют до запроса к провайдеру с предупреждением в логе.
func (u *IngestUseCase) embedOne(ctx context.Context, prompt string) ([]float32, error) {
	if u.cache != nil {
		vector, ok, err := u.cache.GetEmbedding(ctx, u.model, prompt)
		if err != nil {
			u.logger.Warnf("embedding cache lookup failed: %v", err)
		} else if ok {
			return vector, nil
		}
	}

	res, err := u.embeddings.EmbedText(ctx, NewEmbedTextReq(prompt))
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetEmbedding(ctx, u.model, prompt, res.Vector); err != nil {
			u.logger.Warnf("embedding cache store failed: %v", err)
		}
	}

	return res.Vector, nil
}

// exportArtifacts выгружает файлы прогона в объектное хранилище.
// Экспорт не влияет на результат прогона: отказ логируется предупреждением.
func (u *IngestUseCase) exportArtifacts(ctx context.Context, runID string, paths []string) []string {
	if u.exporter == nil {
		return nil
	}

	objectKeys := make([]string, 0, len(paths))
	for _, path := range paths {
		key, err := u.exporter.UploadArtifact(ctx, runID, path)
		if err != nil {
			u.logger.Warnf("run %s: artifact export failed for %s: %v", runID, path, err)
			continue
		}

		objectKeys = append(objectKeys, key)
	}

	return objectKeys
}

// publishCompletion отправляет событие о завершении прогона.
func (u *IngestUseCase) publishCompletion(ctx context.Context, runID string, records int, objectKeys []string) {
	if u.producer == nil {
		return
	}

	req := NewIngestCompletedReq(runID, records, u.model, objectKeys)
	if err := u.producer.WriteIngestCompleted(ctx, req); err != nil {
		u.logger.Warnf("run %s: failed to publish completion event: %v", runID, err)
	}
}
