package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	config "github.com/DRSN-tech/ingest-pipeline/internal/cfg"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/DRSN-tech/ingest-pipeline/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(outputDir string) *config.Config {
	return &config.Config{
		Pipeline: &config.PipelineCfg{
			Source:         config.SourceFile,
			ProductsPath:   "products-demo.json",
			OutputDir:      outputDir,
			JSONLFileName:  "out.jsonl",
			IngestFileName: "out.json",
			MaxConcurrent:  1,
		},
		Vertex: &config.VertexCfg{
			Model:      "text-embedding-005",
			Timeout:    time.Second,
			MaxRetries: 1,
		},
		Redis: &config.RedisCfg{},
		Minio: &config.MinIOCfg{},
		Kafka: &config.KafkaCfg{},
	}
}

// openDescriptorsUnder возвращает пути открытых дескрипторов процесса внутри dir.
func openDescriptorsUnder(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("/proc/self/fd unavailable: %v", err)
	}

	var open []string
	for _, entry := range entries {
		target, err := os.Readlink(filepath.Join("/proc/self/fd", entry.Name()))
		if err == nil && strings.HasPrefix(target, dir+string(filepath.Separator)) {
			open = append(open, target)
		}
	}

	return open
}

func TestNewApp_UnknownSource(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Pipeline.Source = "ftp"

	_, err := NewApp(cfg, logger.NewSlogLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrUnknownSource)
}

func TestNewApp_InitFailureClosesOutputFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	// Продюсер инициализируется после файлов выгрузки; недоступный брокер
	// обрывает NewApp уже после их создания.
	cfg.Kafka = &config.KafkaCfg{
		Enabled:           true,
		Brokers:           []string{"127.0.0.1:1"},
		Topic:             "ingest.completed",
		NetworkMode:       "tcp",
		Partitions:        1,
		ReplicationFactor: 1,
	}

	_, err := NewApp(cfg, logger.NewSlogLogger())
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(dir, "out.jsonl"))
	assert.FileExists(t, filepath.Join(dir, "out.json"))
	assert.Empty(t, openDescriptorsUnder(t, dir))
}
