package main

import (
	"os"

	"github.com/DRSN-tech/cocktail-search/internal/app"
	config "github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
)

//	@title			Cocktail Search API
//	@version		1.0
//	@description	Векторный поиск коктейлей и ингредиентов
//	@BasePath		/api/v1
func main() {
	log := logger.NewZeroLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
