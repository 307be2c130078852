package vertex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DRSN-tech/ingest-pipeline/internal/cfg"
	"github.com/DRSN-tech/ingest-pipeline/internal/usecase"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
	"github.com/DRSN-tech/ingest-pipeline/pkg/jitter"
	"github.com/DRSN-tech/ingest-pipeline/pkg/logger"
)

// EmbeddingsClient клиент для взаимодействия с Vertex AI Prediction API.
type EmbeddingsClient struct {
	httpClient *http.Client
	cfg        *cfg.VertexCfg
	logger     logger.Logger
}

func NewEmbeddingsClient(cfg *cfg.VertexCfg, logger logger.Logger) *EmbeddingsClient {
	return &EmbeddingsClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

type predictInstance struct {
	Content string `json:"content"`
}

type predictParameters struct {
	AutoTruncate bool `json:"autoTruncate"`
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictEmbeddings struct {
	Values []float32 `json:"values"`
}

type predictPrediction struct {
	Embeddings predictEmbeddings `json:"embeddings"`
}

type predictResponse struct {
	Predictions []predictPrediction `json:"predictions"`
}

// EmbedText векторизует текст с retry-логикой и экспоненциальной задержкой.
// Пустой текст даёт пустой вектор без обращения к провайдеру.
func (c *EmbeddingsClient) EmbedText(ctx context.Context, req *usecase.EmbedTextReq) (*usecase.EmbedTextRes, error) {
	const (
		op         = "EmbeddingsClient.EmbedText"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	if req.Text == "" {
		return usecase.NewEmbedTextRes([]float32{}), nil
	}

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		vector, err := c.embedOnce(ctx, req.Text)
		if err == nil {
			return usecase.NewEmbedTextRes(vector), nil
		}

		if attempt == c.cfg.MaxRetries-1 {
			return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", c.cfg.MaxRetries, err))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		c.logger.Warnf("embedding request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("unreachable"))
}

// embedOnce выполняет один запрос к predict-эндпоинту.
func (c *EmbeddingsClient) embedOnce(ctx context.Context, text string) ([]float32, error) {
	const op = "EmbeddingsClient.embedOnce"

	body, err := json.Marshal(predictRequest{
		Instances:  []predictInstance{{Content: text}},
		Parameters: predictParameters{AutoTruncate: true},
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictURL(), bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, e.Wrap(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, excerpt))
	}

	var predictResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictResp); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(predictResp.Predictions) == 0 || len(predictResp.Predictions[0].Embeddings.Values) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyEmbedding)
	}

	return predictResp.Predictions[0].Embeddings.Values, nil
}

// predictURL собирает URL predict-эндпоинта из конфигурации.
func (c *EmbeddingsClient) predictURL() string {
	if c.cfg.Endpoint != "" {
		return c.cfg.Endpoint
	}

	return fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		c.cfg.Location, c.cfg.Project, c.cfg.Location, c.cfg.Model,
	)
}
