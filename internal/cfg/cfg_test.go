package cfg

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setPostgresEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "search")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "cocktails")
}

func TestLoad_Defaults(t *testing.T) {
	setPostgresEnv(t)

	cfg, err := Load(logger.NewDiscard())
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Search.RecordBackend)
	assert.Equal(t, BackendPostgres, cfg.Search.EmbeddingBackend)
	assert.Equal(t, 3*time.Second, cfg.Search.StorageTimeout)
	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, []string{"*"}, cfg.Http.AllowedOrigins)
	assert.Equal(t, "localhost", cfg.Db.Host)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "", cfg.Embedder.URL)
	assert.Equal(t, uint32(256), cfg.Qdrant.ScrollBatch)
}

func TestLoad_PostgresRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")

	_, err := Load(logger.NewDiscard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
}

func TestLoad_MinioBackendSkipsPostgres(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("RECORD_BACKEND", "minio")

	cfg, err := Load(logger.NewDiscard())
	require.NoError(t, err)
	assert.Nil(t, cfg.Db)
	assert.Equal(t, BackendMinio, cfg.Search.EmbeddingBackend)
	assert.Equal(t, "snapshot/cocktails.json", cfg.Minio.SnapshotKey)
}

func TestLoad_InvalidBackendCombination(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("EMBEDDING_BACKEND", "minio")

	_, err := Load(logger.NewDiscard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrIncorrectEnvVariable))
}

func TestLoad_OptionalSubsystems(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("EMBEDDING_BACKEND", "qdrant")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SEARCH_CACHE_TTL", "90s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("EMBEDDER_URL", "http://ollama:11434/")

	cfg, err := Load(logger.NewDiscard())
	require.NoError(t, err)

	assert.Equal(t, BackendQdrant, cfg.Search.EmbeddingBackend)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 90*time.Second, cfg.Redis.QueryTTL)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "http://ollama:11434", cfg.Embedder.URL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("SEARCH_STORAGE_TIMEOUT", "soon")

	_, err := Load(logger.NewDiscard())
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
}
