package vertex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/ingest-pipeline/internal/cfg"
	"github.com/DRSN-tech/ingest-pipeline/internal/usecase"
	"github.com/DRSN-tech/ingest-pipeline/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(endpoint string, maxRetries int) *EmbeddingsClient {
	return NewEmbeddingsClient(&cfg.VertexCfg{
		Project:     "test-project",
		Location:    "us-central1",
		Model:       "text-embedding-005",
		Endpoint:    endpoint,
		AccessToken: "test-token",
		Timeout:     5 * time.Second,
		MaxRetries:  maxRetries,
	}, logger.NewSlogLogger())
}

func TestEmbeddingsClient_EmbedText(t *testing.T) {
	var gotBody predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(predictResponse{
			Predictions: []predictPrediction{
				{Embeddings: predictEmbeddings{Values: []float32{0.1, 0.2, 0.3}}},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 3)

	res, err := client.EmbedText(context.Background(), usecase.NewEmbedTextReq("Tee\ntops"))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, res.Vector)

	require.Len(t, gotBody.Instances, 1)
	assert.Equal(t, "Tee\ntops", gotBody.Instances[0].Content)
	assert.True(t, gotBody.Parameters.AutoTruncate)
}

func TestEmbeddingsClient_EmptyTextSkipsProvider(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 3)

	res, err := client.EmbedText(context.Background(), usecase.NewEmbedTextReq(""))
	require.NoError(t, err)
	assert.Empty(t, res.Vector)
	assert.NotNil(t, res.Vector)
	assert.Zero(t, calls.Load())
}

func TestEmbeddingsClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "backend error", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(predictResponse{
			Predictions: []predictPrediction{
				{Embeddings: predictEmbeddings{Values: []float32{0.5}}},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5)

	res, err := client.EmbedText(context.Background(), usecase.NewEmbedTextReq("Tee"))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, res.Vector)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmbeddingsClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "backend error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)

	_, err := client.EmbedText(context.Background(), usecase.NewEmbedTextReq("Tee"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbeddingsClient_TimesOutSlowProvider(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewEmbeddingsClient(&cfg.VertexCfg{
		Model:      "text-embedding-005",
		Endpoint:   srv.URL,
		Timeout:    50 * time.Millisecond,
		MaxRetries: 1,
	}, logger.NewSlogLogger())

	_, err := client.EmbedText(context.Background(), usecase.NewEmbedTextReq("Tee"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 attempts failed")
}

func TestEmbeddingsClient_EmptyPredictionsIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictResponse{})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 1)

	_, err := client.EmbedText(context.Background(), usecase.NewEmbedTextReq("Tee"))
	require.Error(t, err)
}

func TestEmbeddingsClient_PredictURL(t *testing.T) {
	client := newTestClient("", 1)

	assert.Equal(
		t,
		"https://us-central1-aiplatform.googleapis.com/v1/projects/test-project/locations/us-central1/publishers/google/models/text-embedding-005:predict",
		client.predictURL(),
	)
}
