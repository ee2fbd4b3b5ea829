package app

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/infrastructure/kafka"
	s3Repo "github.com/DRSN-tech/cocktail-search/internal/repository/minio"
	"github.com/DRSN-tech/cocktail-search/internal/repository/pgdb"
	qdrantRepo "github.com/DRSN-tech/cocktail-search/internal/repository/qdrant"
	"github.com/DRSN-tech/cocktail-search/internal/repository/redis"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/clients"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// stores — набор репозиториев, выбранных конфигурацией
type stores struct {
	cocktails   usecase.CocktailRepository
	ingredients usecase.IngredientRepository
	embeddings  usecase.EmbeddingRepository
	snapshot    usecase.SnapshotReader
	reloader    kafka.Reloader // nil, если записи не кэшируются в памяти
}

func (a *App) initStores(ctx context.Context) (*stores, error) {
	var (
		res stores
		db  *postgres.PgDatabase
		err error
	)

	if a.cfg.Db != nil {
		db, err = a.initPGDB(ctx)
		if err != nil {
			return nil, err
		}
	}

	switch a.cfg.Search.RecordBackend {
	case cfg.BackendPostgres:
		res.cocktails = pgdb.NewCocktailRepo(db.Pool)
		res.ingredients = pgdb.NewIngredientRepo(db.Pool)
		res.snapshot = pgdb.NewSnapshotReader(db.Pool)
	case cfg.BackendMinio:
		snapshot, err := a.initSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		res.cocktails = snapshot
		res.ingredients = snapshot.Ingredients()
		res.snapshot = snapshot
		res.reloader = snapshot
		if a.cfg.Search.EmbeddingBackend == cfg.BackendMinio {
			res.embeddings = snapshot
		}
	default:
		return nil, fmt.Errorf("%w: RECORD_BACKEND=%s", e.ErrIncorrectEnvVariable, a.cfg.Search.RecordBackend)
	}

	switch a.cfg.Search.EmbeddingBackend {
	case cfg.BackendPostgres:
		res.embeddings = pgdb.NewEmbeddingRepo(db.Pool)
	case cfg.BackendQdrant:
		qdrantClient, err := clients.NewQdrantClient(a.cfg.Qdrant)
		if err != nil {
			a.logger.Errorf(err, "failed to initialize qdrant")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("qdrant", func(context.Context) error { return qdrantClient.Close() })

		if err := clients.EnsureCollections(ctx, qdrantClient); err != nil {
			a.logger.Errorf(err, "failed to initialize qdrant collections")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		res.embeddings = qdrantRepo.NewEmbeddingRepo(qdrantClient.Points(), a.cfg.Qdrant)
	}

	a.logger.Infof("Search backends: records=%s embeddings=%s", a.cfg.Search.RecordBackend, a.cfg.Search.EmbeddingBackend)

	return &res, nil
}

func (a *App) initPGDB(ctx context.Context) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", func(context.Context) error { return db.Close() })

	if err := db.RunMigrations(a.logger); err != nil {
		a.logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

// initSnapshot подключает снапшот MinIO. Отсутствие объекта не мешает старту: запросы вернут StorageUnavailable.
func (a *App) initSnapshot(ctx context.Context) (*s3Repo.SnapshotRepo, error) {
	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	snapshot := s3Repo.NewSnapshotRepo(s3Repo.NewObjectRepo(minioClient, a.cfg.Minio), a.cfg.Minio.SnapshotTTL, a.logger)
	if err := snapshot.Reload(ctx); err != nil {
		a.logger.Warnf("Snapshot %s/%s is not available yet: %v", a.cfg.Minio.BucketName, a.cfg.Minio.SnapshotKey, err)
	}

	return snapshot, nil
}

func (a *App) initCache(ctx context.Context) (usecase.QueryCache, error) {
	if !a.cfg.Redis.Enabled() {
		a.logger.Infof("REDIS_ADDR is not set, query cache is disabled")
		return nil, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return redis.NewCacheRepo(redisClient, a.cfg.Redis, a.logger), nil
}
