package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	v1Http "github.com/DRSN-tech/cocktail-search/internal/delivery/v1/http"
	"github.com/DRSN-tech/cocktail-search/internal/infrastructure/embedder"
	"github.com/DRSN-tech/cocktail-search/internal/infrastructure/kafka"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/closer"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

type App struct {
	cfg      *cfg.Config
	logger   logger.Logger
	closer   *closer.Closer
	httpSrv  *v1Http.Server
	consumer *kafka.InvalidationConsumer
}

// NewApp поднимает хранилища, кэш, эмбеддер и HTTP-сервер согласно конфигурации.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *cfg.Config, logger logger.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	app := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(shutdownTimeout),
	}

	searchUC, reloader, err := app.initSearch(ctx)
	if err != nil {
		app.closeAll()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if cfg.Kafka.Enabled() {
		if err := kafka.CheckTopic(ctx, cfg.Kafka); err != nil {
			logger.Warnf("Kafka topic %s is not ready, consumer will keep retrying: %v", cfg.Kafka.Topic, err)
		}

		app.consumer = kafka.NewInvalidationConsumer(kafka.NewReader(cfg.Kafka), searchUC, reloader, logger)
		app.closer.Add("kafka consumer", func(context.Context) error { return app.consumer.Close() })
	} else {
		logger.Infof("Kafka brokers are not configured, cache invalidation relies on TTL")
	}

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, cfg.Http, logger)
	router.Init(searchUC)

	app.httpSrv = v1Http.NewServer(r, cfg.Http)

	return app, nil
}

func (a *App) initSearch(ctx context.Context) (*usecase.SearchUseCase, kafka.Reloader, error) {
	stores, err := a.initStores(ctx)
	if err != nil {
		return nil, nil, err
	}

	cache, err := a.initCache(ctx)
	if err != nil {
		return nil, nil, err
	}

	var emb usecase.Embedder
	if a.cfg.Embedder.URL != "" {
		emb = embedder.NewHTTPEmbedder(a.cfg.Embedder, a.logger)
	} else {
		a.logger.Warnf("EMBEDDER_URL is not set, free-text search is disabled")
	}

	searchUC := usecase.NewSearchUC(
		stores.cocktails,
		stores.ingredients,
		stores.embeddings,
		stores.snapshot,
		emb,
		cache,
		a.logger,
		a.cfg.Search.StorageTimeout,
	)

	return searchUC, stores.reloader, nil
}

// Run запускает HTTP-сервер и консьюмер событий и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	var wg sync.WaitGroup
	if a.consumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.consumer.Run(consumerCtx); err != nil {
				a.logger.Errorf(err, "Invalidation consumer failed")
			}
		}()
	}

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	stopConsumer()
	wg.Wait()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("%v", err)
	}

	a.logger.Infof("Application shutdown complete")

	return appErr
}

func (a *App) closeAll() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("%v", err)
	}
}

// OpenSearch собирает поисковый сценарий без HTTP-сервера и консьюмера. Ресурсы освобождаются через возвращённый Closer.
func OpenSearch(ctx context.Context, cfg *cfg.Config, logger logger.Logger) (*usecase.SearchUseCase, *closer.Closer, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(shutdownTimeout),
	}

	searchUC, _, err := a.initSearch(ctx)
	if err != nil {
		a.closeAll()
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return searchUC, a.closer, nil
}
