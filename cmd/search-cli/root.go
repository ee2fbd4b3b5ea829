package main

import (
	"context"

	"github.com/DRSN-tech/cocktail-search/internal/app"
	config "github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/spf13/cobra"
)

var maxResults int

var rootCmd = &cobra.Command{
	Use:          "search-cli",
	Short:        "Cocktail vector search from the command line",
	Long:         `Runs the same search queries as the HTTP API directly against the configured stores.`,
	SilenceUsage: true,
}

// withSearch поднимает поисковый сценарий по переменным окружения и закрывает ресурсы после fn.
func withSearch(ctx context.Context, fn func(uc usecase.SearchUC) error) error {
	log := logger.NewZeroLogger()

	cfg, err := config.Load(log)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	uc, closer, err := app.OpenSearch(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closer.Close(context.WithoutCancel(ctx))

	return fn(uc)
}
