package app

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/domain"
	s3Repo "github.com/DRSN-tech/cocktail-search/internal/repository/minio"
	"github.com/DRSN-tech/cocktail-search/internal/repository/pgdb"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/clients"
	"github.com/DRSN-tech/cocktail-search/pkg/closer"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/jimlawless/whereami"
)

// ExportResult — итог публикации снапшота
type ExportResult struct {
	Key         string
	Cocktails   int
	Ingredients int
	Vectors     int
}

// snapshotSources — репозитории, из которых собирается снапшот
type snapshotSources struct {
	cocktails   usecase.CocktailRepository
	ingredients usecase.IngredientRepository
	embeddings  usecase.EmbeddingRepository
	snapshot    usecase.SnapshotReader
}

// ExportSnapshot читает записи и эмбеддинги из PostgreSQL одним снимком и публикует их JSON-снапшотом в MinIO.
func ExportSnapshot(ctx context.Context, cfg *cfg.Config, logger logger.Logger) (*ExportResult, error) {
	if cfg.Db == nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: snapshot export requires postgres", e.ErrIncorrectEnvVariable))
	}

	a := &App{cfg: cfg, logger: logger, closer: closer.NewCloser(shutdownTimeout)}
	defer a.closeAll()

	db, err := a.initPGDB(ctx)
	if err != nil {
		return nil, err
	}

	data, err := collectSnapshot(ctx, &snapshotSources{
		cocktails:   pgdb.NewCocktailRepo(db.Pool),
		ingredients: pgdb.NewIngredientRepo(db.Pool),
		embeddings:  pgdb.NewEmbeddingRepo(db.Pool),
		snapshot:    pgdb.NewSnapshotReader(db.Pool),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	raw, err := s3Repo.EncodeSnapshot(data, time.Now())
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	key, err := s3Repo.NewObjectRepo(minioClient, cfg.Minio).Upload(ctx, raw)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := &ExportResult{
		Key:         key,
		Cocktails:   len(data.Cocktails),
		Ingredients: len(data.Ingredients),
	}
	for _, vectors := range data.Vectors {
		res.Vectors += len(vectors)
	}

	logger.Infof("Snapshot exported to %s/%s: cocktails=%d ingredients=%d vectors=%d",
		cfg.Minio.BucketName, key, res.Cocktails, res.Ingredients, res.Vectors)

	return res, nil
}

// collectSnapshot собирает все коктейли, все векторы и ингредиенты, на которые ссылаются рецепты или векторы.
func collectSnapshot(ctx context.Context, src *snapshotSources) (*s3Repo.SnapshotData, error) {
	data := &s3Repo.SnapshotData{Vectors: make(map[domain.RecordKind][]domain.FieldVector)}

	err := src.snapshot.ReadSnapshot(ctx, func(ctx context.Context) error {
		cocktails, err := src.cocktails.List(ctx)
		if err != nil {
			return err
		}
		data.Cocktails = cocktails

		ingredientIDs := make([]int64, 0)
		for _, c := range cocktails {
			for _, line := range c.Ingredients {
				ingredientIDs = append(ingredientIDs, line.IngredientID)
			}
		}

		for _, kind := range []domain.RecordKind{domain.KindCocktail, domain.KindIngredient} {
			for _, field := range domain.Fields(kind) {
				vectors, err := src.embeddings.Scan(ctx, kind, field)
				if err != nil {
					return err
				}
				data.Vectors[kind] = append(data.Vectors[kind], vectors...)

				if kind == domain.KindIngredient {
					for _, v := range vectors {
						ingredientIDs = append(ingredientIDs, v.RecordID)
					}
				}
			}
		}

		ingredients, err := src.ingredients.GetByIDs(ctx, ingredientIDs)
		if err != nil {
			return err
		}
		data.Ingredients = ingredients

		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}
