package clients

import (
	"context"
	"fmt"

	config "github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantClient struct {
	Client *qdrant.Client
	cfg    *config.QdrantCfg
}

func NewQdrantClient(cfg *config.QdrantCfg) (*QdrantClient, error) {
	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.ApiKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &QdrantClient{
		Client: qdrantClient,
		cfg:    cfg,
	}, nil
}

// Points возвращает gRPC-клиент точек, через который читает репозиторий эмбеддингов.
func (c *QdrantClient) Points() qdrant.PointsClient {
	return c.Client.GetPointsClient()
}

func (c *QdrantClient) Close() error {
	return c.Client.Close()
}

// EnsureCollections создаёт коллекции коктейлей и ингредиентов с именованным вектором на каждое поле.
// Существующие коллекции не изменяются.
func EnsureCollections(ctx context.Context, client *QdrantClient) error {
	collections := map[string]domain.RecordKind{
		client.cfg.CocktailCollection:   domain.KindCocktail,
		client.cfg.IngredientCollection: domain.KindIngredient,
	}

	for name, kind := range collections {
		exists, err := client.Client.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check collection existence: %w", err)
		}

		if exists {
			continue
		}

		params := make(map[string]*qdrant.VectorParams)
		for _, field := range domain.Fields(kind) {
			params[string(field)] = &qdrant.VectorParams{
				Size:     client.cfg.VectorSize,
				Distance: qdrant.Distance_Cosine,
			}
		}

		if err := client.Client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig:  qdrant.NewVectorsConfigMap(params),
		}); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	return nil
}
