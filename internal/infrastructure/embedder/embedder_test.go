package embedder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc, threshold uint32) *HTTPEmbedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return newHTTPEmbedder(&cfg.EmbedderCfg{
		URL:              srv.URL,
		Model:            "test-model",
		Timeout:          time.Second,
		FailureThreshold: threshold,
		BreakerTimeout:   time.Minute,
	}, srv.Client(), logger.NewDiscard())
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, embeddingsPath, r.URL.Path)

		var req embedReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "smoky and bitter", req.Prompt)

		_ = json.NewEncoder(w).Encode(embedResp{Embedding: []float64{0.5, -1, 2}})
	}, 3)

	v, err := emb.Embed(context.Background(), "smoky and bitter")
	require.NoError(t, err)
	assert.Equal(t, domain.Vector{0.5, -1, 2}, v)
}

func TestHTTPEmbedder_EmptyVector(t *testing.T) {
	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding": []}`))
	}, 3)

	_, err := emb.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrEmbeddingUnavailable))
	assert.True(t, errors.Is(err, e.ErrEmptyVector))
}

func TestHTTPEmbedder_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, 2)

	for i := 0; i < 2; i++ {
		_, err := emb.Embed(context.Background(), "x")
		assert.True(t, errors.Is(err, e.ErrEmbeddingUnavailable))
	}
	assert.Equal(t, "open", emb.State())

	_, err := emb.Embed(context.Background(), "x")
	assert.True(t, errors.Is(err, e.ErrEmbeddingUnavailable))
	assert.Equal(t, int32(2), calls.Load(), "open breaker does not reach the service")
}

func TestHTTPEmbedder_CanceledIsNotFailure(t *testing.T) {
	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := emb.Embed(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, e.ErrEmbeddingUnavailable))
	assert.Equal(t, "closed", emb.State())
}
