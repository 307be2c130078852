package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	config "github.com/DRSN-tech/ingest-pipeline/internal/cfg"
	"github.com/DRSN-tech/ingest-pipeline/internal/infrastructure/kafka"
	"github.com/DRSN-tech/ingest-pipeline/internal/infrastructure/vertex"
	fileRepo "github.com/DRSN-tech/ingest-pipeline/internal/repository/file"
	fileConv "github.com/DRSN-tech/ingest-pipeline/internal/repository/file/converter"
	"github.com/DRSN-tech/ingest-pipeline/internal/repository/jsonl"
	s3Repo "github.com/DRSN-tech/ingest-pipeline/internal/repository/minio"
	"github.com/DRSN-tech/ingest-pipeline/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/ingest-pipeline/internal/repository/pgdb/converter"
	redisRepo "github.com/DRSN-tech/ingest-pipeline/internal/repository/redis"
	"github.com/DRSN-tech/ingest-pipeline/internal/usecase"
	"github.com/DRSN-tech/ingest-pipeline/pkg/clients"
	"github.com/DRSN-tech/ingest-pipeline/pkg/closer"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/DRSN-tech/ingest-pipeline/pkg/logger"
	"github.com/DRSN-tech/ingest-pipeline/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// App собирает зависимости пайплайна по конфигурации и выполняет один прогон.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	uc            usecase.IngestUC
	artifactPaths []string
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	// Ресурсы, успевшие зарегистрироваться до отказа инициализации,
	// закрываются здесь же: main после ошибки NewApp сразу завершается.
	initialized := false
	defer func() {
		if !initialized {
			a.close()
		}
	}()

	source, err := a.initSource()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	sink, artifactPaths, err := a.initSinks()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	embeddings := vertex.NewEmbeddingsClient(cfg.Vertex, log)

	cache, err := a.initCache()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	exporter, err := a.initExporter()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer, err := a.initProducer()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.uc = usecase.NewIngestUC(
		source,
		sink,
		embeddings,
		cache,
		exporter,
		producer,
		log,
		cfg.Vertex.Model,
		cfg.Pipeline.MaxConcurrent,
	)
	a.artifactPaths = artifactPaths

	initialized = true
	return a, nil
}

// Run выполняет прогон пайплайна и закрывает ресурсы по завершении или сигналу.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := a.uc.Run(ctx, usecase.NewIngestBatchReq(a.artifactPaths))
	if err != nil {
		a.logger.Errorf(err, "pipeline run failed")
		a.close()
		return err
	}

	a.logger.Infof("run %s: wrote %d datapoints", res.RunID, res.Written)
	a.close()

	return nil
}

func (a *App) close() {
	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.closer.Close(closeCtx); err != nil {
		a.logger.Warnf("shutdown: %v", err)
	}
}

// initSource выбирает источник записей каталога по конфигурации.
func (a *App) initSource() (usecase.RecordSource, error) {
	switch a.cfg.Pipeline.Source {
	case config.SourceFile:
		return fileRepo.NewRecordRepo(a.cfg.Pipeline.ProductsPath, fileConv.NewProductRecordConverter()), nil

	case config.SourcePostgres:
		db, err := postgres.Connect(a.cfg.Db)
		if err != nil {
			return nil, err
		}

		if err := db.RunMigrations(a.logger); err != nil {
			db.Close()
			return nil, err
		}

		a.closer.Add(func(ctx context.Context) error {
			db.Close()
			return nil
		})

		return pgdb.NewRecordRepo(db.Pool, pgdbConv.NewProductRecordConverter()), nil

	default:
		return nil, e.Wrap(fmt.Sprintf("source %q", a.cfg.Pipeline.Source), e.ErrUnknownSource)
	}
}

// initSinks создаёт файлы выгрузки и возвращает сдвоенную выгрузку с путями файлов.
func (a *App) initSinks() (usecase.DatapointSink, []string, error) {
	if err := os.MkdirAll(a.cfg.Pipeline.OutputDir, 0o755); err != nil {
		return nil, nil, err
	}

	jsonlPath := filepath.Join(a.cfg.Pipeline.OutputDir, a.cfg.Pipeline.JSONLFileName)
	ingestPath := filepath.Join(a.cfg.Pipeline.OutputDir, a.cfg.Pipeline.IngestFileName)

	jsonlFile, err := os.Create(jsonlPath)
	if err != nil {
		return nil, nil, err
	}
	a.closer.Add(func(ctx context.Context) error {
		return jsonlFile.Close()
	})

	ingestFile, err := os.Create(ingestPath)
	if err != nil {
		return nil, nil, err
	}
	a.closer.Add(func(ctx context.Context) error {
		return ingestFile.Close()
	})

	sink := jsonl.NewMultiSink(jsonl.NewSink(jsonlFile), jsonl.NewSink(ingestFile))

	return sink, []string{jsonlPath, ingestPath}, nil
}

// initCache подключает кэш эмбеддингов, если он включён.
func (a *App) initCache() (usecase.EmbeddingCache, error) {
	if !a.cfg.Redis.Enabled {
		return nil, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx); err != nil {
		return nil, err
	}

	a.closer.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	return redisRepo.NewEmbeddingCacheRepo(redisClient, a.cfg.Redis, a.logger), nil
}

// initExporter подключает объектное хранилище для экспорта, если он включён.
func (a *App) initExporter() (usecase.BatchExporter, error) {
	if !a.cfg.Minio.Enabled {
		return nil, nil
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		return nil, err
	}

	bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := clients.EnsureBucket(bucketCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		return nil, err
	}

	return s3Repo.NewExportRepo(minioClient, a.cfg.Minio), nil
}

// initProducer подключает продюсера событий, если он включён.
func (a *App) initProducer() (usecase.MessageProducer, error) {
	if !a.cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err != nil {
		return nil, err
	}

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		_ = producer.Close()
		return nil, err
	}

	a.closer.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	return producer, nil
}
