package embedder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/metrics"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const embeddingsPath = "/api/embeddings"

// HTTPEmbedder превращает текст в вектор через HTTP API в стиле Ollama.
// Запросы идут через circuit breaker: после FailureThreshold ошибок подряд сервис не вызывается BreakerTimeout.
type HTTPEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[domain.Vector]
	logger  logger.Logger
}

type embedReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResp struct {
	Embedding []float64 `json:"embedding"`
}

func NewHTTPEmbedder(cfg *cfg.EmbedderCfg, logger logger.Logger) *HTTPEmbedder {
	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return newHTTPEmbedder(cfg, client, logger)
}

func newHTTPEmbedder(cfg *cfg.EmbedderCfg, client *http.Client, logger logger.Logger) *HTTPEmbedder {
	settings := gobreaker.Settings{
		Name:    "embedder",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Отмена запроса вызывающим не считается отказом сервиса
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &HTTPEmbedder{
		baseURL: cfg.URL,
		model:   cfg.Model,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[domain.Vector](settings),
		logger:  logger,
	}
}

// Embed возвращает вектор текста. Любой отказ сервиса классифицируется как ErrEmbeddingUnavailable.
func (h *HTTPEmbedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	const op = "HTTPEmbedder.Embed"
	start := time.Now()

	vector, err := h.breaker.Execute(func() (domain.Vector, error) {
		return h.embed(ctx, text)
	})

	switch {
	case err == nil:
		metrics.RecordEmbedderRequest(time.Since(start), "ok")
		return vector, nil
	case errors.Is(err, context.Canceled):
		metrics.RecordEmbedderRequest(time.Since(start), "canceled")
		return nil, e.Wrap(op, err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordEmbedderRequest(time.Since(start), "rejected")
		return nil, fmt.Errorf("%s: %w: %w", op, e.ErrEmbeddingUnavailable, err)
	case errors.Is(err, e.ErrEmbeddingUnavailable):
		metrics.RecordEmbedderRequest(time.Since(start), "error")
		return nil, e.Wrap(op, err)
	default:
		metrics.RecordEmbedderRequest(time.Since(start), "error")
		return nil, fmt.Errorf("%s: %w: %w", op, e.ErrEmbeddingUnavailable, err)
	}
}

func (h *HTTPEmbedder) embed(ctx context.Context, text string) (domain.Vector, error) {
	body, err := json.Marshal(embedReq{Model: h.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+embeddingsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		// Ошибки транспорта при отменённом контексте сводим к context.Canceled
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result embedResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Embedding) == 0 {
		return nil, e.ErrEmptyVector
	}

	vector := make(domain.Vector, len(result.Embedding))
	for i, v := range result.Embedding {
		vector[i] = float32(v)
	}

	return vector, nil
}

// State возвращает состояние circuit breaker для health-проверок.
func (h *HTTPEmbedder) State() string {
	return h.breaker.State().String()
}
