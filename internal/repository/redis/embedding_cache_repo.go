package redis

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/ingest-pipeline/internal/cfg"
	"github.com/DRSN-tech/ingest-pipeline/pkg/clients"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/DRSN-tech/ingest-pipeline/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// EmbeddingCacheRepo кэширует векторы эмбеддингов по модели и промпту.
type EmbeddingCacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewEmbeddingCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *EmbeddingCacheRepo {
	return &EmbeddingCacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetEmbedding возвращает вектор из кэша. Второй результат false — промах.
func (c *EmbeddingCacheRepo) GetEmbedding(ctx context.Context, model string, prompt string) ([]float32, bool, error) {
	data, err := c.client.Client.Get(ctx, embeddingKey(model, prompt)).Bytes()

	return decodeCachedVector(data, err)
}

// SetEmbedding кэширует вектор с TTL из конфигурации.
func (c *EmbeddingCacheRepo) SetEmbedding(ctx context.Context, model string, prompt string, vector []float32) error {
	data, err := marshalVector(vector)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, embeddingKey(model, prompt), data, c.cfg.EmbeddingTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// embeddingKey возвращает Redis-ключ для пары модель/промпт.
// Промпт хэшируется: тексты бывают длиннее разумного размера ключа.
func embeddingKey(model string, prompt string) string {
	return fmt.Sprintf("embedding:%s:%x", model, sha256.Sum256([]byte(prompt)))
}

// decodeCachedVector трактует результат чтения из Redis: отсутствие ключа —
// промах без ошибки, прочие ошибки и битые значения отдаются наверх.
func decodeCachedVector(data []byte, err error) ([]float32, bool, error) {
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, false, nil // cache miss
		}

		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	vector, err := unmarshalVector(data)
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	return vector, true, nil
}

// marshalVector сериализует вектор в JSON для кэша.
func marshalVector(vector []float32) ([]byte, error) {
	return json.Marshal(vector)
}

// unmarshalVector десериализует JSON из кэша в вектор.
func unmarshalVector(data []byte) ([]float32, error) {
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, err
	}

	return vector, nil
}
