package http

import (
	"time"

	_ "github.com/DRSN-tech/cocktail-search/docs" // Импорт описания API для swagger
	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	cfg    *cfg.HTTPConfig
	logger logger.Logger
}

func NewRouter(router *chi.Mux, cfg *cfg.HTTPConfig, logger logger.Logger) *Router {
	return &Router{router: router, cfg: cfg, logger: logger}
}

func (r *Router) Init(searchUC usecase.SearchUC) {
	r.router.Use(middleware.RealIP)
	r.router.Use(requestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(observe)
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.router.Handle("/metrics", promhttp.Handler())
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.cfg.SwaggerURL), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		if r.cfg.RateLimit > 0 {
			v1.Use(httprate.LimitByIP(r.cfg.RateLimit, time.Minute))
		}

		searchHandler := NewSearchHandler(searchUC, r.logger)
		v1.Get("/health", searchHandler.health)
		registerCocktailRoutes(v1, searchHandler)
	})
}

func registerCocktailRoutes(router chi.Router, h *SearchHandler) {
	router.Route("/cocktails", func(c chi.Router) {
		c.Get("/similar/{name}", h.findSimilar)
		c.Get("/search/flavor", h.searchByFlavor)
		c.Get("/search/ingredients", h.searchByIngredients)
		c.Get("/search/preferences", h.searchByPreferences)
		c.Get("/{cocktail}/recommendations", h.recommendIngredients)
		c.Get("/{cocktail}/details", h.cocktailDetails)
	})
}
