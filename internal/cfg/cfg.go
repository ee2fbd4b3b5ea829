package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	// BackendPostgres — записи и/или эмбеддинги хранятся в PostgreSQL
	BackendPostgres = "postgres"
	// BackendQdrant — эмбеддинги хранятся в именованных векторах Qdrant
	BackendQdrant = "qdrant"
	// BackendMinio — записи и эмбеддинги читаются из JSON-снапшота в MinIO
	BackendMinio = "minio"
)

type Config struct {
	Search   *SearchCfg
	Http     *HTTPConfig
	Db       *PGDBCfg
	Qdrant   *QdrantCfg
	Redis    *RedisCfg
	Minio    *MinIOCfg
	Kafka    *KafkaCfg
	Embedder *EmbedderCfg
}

type SearchCfg struct {
	RecordBackend    string        // postgres | minio
	EmbeddingBackend string        // postgres | qdrant | minio
	StorageTimeout   time.Duration // ограничение на каждый вызов хранилища
}

type HTTPConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RateLimit      int // запросов в минуту с одного IP, 0 без ограничения
	AllowedOrigins []string
	SwaggerURL     string
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// MigrationsURL — источник миграций golang-migrate
	MigrationsURL string
}

type QdrantCfg struct {
	Port                 int
	Host                 string
	ApiKey               string
	CocktailCollection   string // коллекция с именованными векторами коктейлей
	IngredientCollection string // коллекция с именованными векторами ингредиентов
	UseTLS               bool
	VectorSize           uint64
	ScrollBatch          uint32
}

type RedisCfg struct {
	Addr        string // пустой адрес отключает кэш
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	QueryTTL    time.Duration
}

// Enabled сообщает, настроен ли кэш.
func (c *RedisCfg) Enabled() bool {
	return c != nil && c.Addr != ""
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет со снапшотом записей
	SnapshotKey       string // Ключ JSON-объекта снапшота
	SnapshotTTL       time.Duration
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

type KafkaCfg struct {
	Topic       string
	Brokers     []string // пустой список отключает инвалидацию по событиям
	GroupID     string
	NetworkMode string
	MinBytes    int
	MaxBytes    int
}

// Enabled сообщает, настроен ли консьюмер событий.
func (c *KafkaCfg) Enabled() bool {
	return c != nil && len(c.Brokers) > 0
}

type EmbedderCfg struct {
	URL              string // пустой адрес отключает поиск по тексту
	Model            string
	Timeout          time.Duration
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	search, err := loadSearchCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var db *PGDBCfg
	if search.RecordBackend == BackendPostgres || search.EmbeddingBackend == BackendPostgres {
		db, err = loadPGDBCfg(log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	embedder, err := loadEmbedderCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Search:   search,
		Http:     http,
		Db:       db,
		Qdrant:   qdrant,
		Redis:    redis,
		Minio:    minio,
		Kafka:    kafka,
		Embedder: embedder,
	}, nil
}

func loadSearchCfg(log logger.Logger) (*SearchCfg, error) {
	const (
		defaultBackend        = BackendPostgres
		defaultStorageTimeout = 3 * time.Second
	)

	records := strings.ToLower(getEnvOrDefault("RECORD_BACKEND", defaultBackend))
	if records != BackendPostgres && records != BackendMinio {
		err := fmt.Errorf("%w: RECORD_BACKEND=%s", e.ErrIncorrectEnvVariable, records)
		log.Errorf(err, "invalid RECORD_BACKEND")
		return nil, err
	}

	// По умолчанию эмбеддинги живут там же, где и записи
	embeddings := strings.ToLower(getEnvOrDefault("EMBEDDING_BACKEND", records))
	switch embeddings {
	case BackendPostgres, BackendQdrant, BackendMinio:
	default:
		err := fmt.Errorf("%w: EMBEDDING_BACKEND=%s", e.ErrIncorrectEnvVariable, embeddings)
		log.Errorf(err, "invalid EMBEDDING_BACKEND")
		return nil, err
	}

	if embeddings == BackendMinio && records != BackendMinio {
		err := fmt.Errorf("%w: EMBEDDING_BACKEND=minio requires RECORD_BACKEND=minio", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid backend combination")
		return nil, err
	}

	timeout, err := parseDurationEnv("SEARCH_STORAGE_TIMEOUT", defaultStorageTimeout)
	if err != nil {
		log.Errorf(err, "invalid SEARCH_STORAGE_TIMEOUT")
		return nil, err
	}

	return &SearchCfg{
		RecordBackend:    records,
		EmbeddingBackend: embeddings,
		StorageTimeout:   timeout,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
		defaultRateLimit    = 120
		defaultOrigins      = "*"
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	rateLimit, err := parseIntEnv("HTTP_RATE_LIMIT", defaultRateLimit)
	if err != nil {
		log.Errorf(err, "invalid HTTP_RATE_LIMIT")
		return nil, err
	}

	return &HTTPConfig{
		Port:           port,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		RateLimit:      rateLimit,
		AllowedOrigins: splitList(getEnvOrDefault("HTTP_ALLOWED_ORIGINS", defaultOrigins)),
		SwaggerURL:     getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMigrationsURL = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),

		MigrationsURL: getEnvOrDefault("MIGRATIONS_URL", defaultMigrationsURL),
	}, nil
}

func loadQdrantCfg(logger logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort       = "6334"
		defaultUseTLS               = false
		defaultVectorSize           = "1024"
		defaultCocktailCollection   = "cocktails"
		defaultIngredientCollection = "ingredients"
		defaultScrollBatch          = 256
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	strVectorSize := getEnvOrDefault("VECTOR_SIZE", defaultVectorSize)
	vectorSize, err := strconv.ParseUint(strVectorSize, 10, 64)
	if err != nil {
		logger.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	scrollBatch, err := parseIntEnv("QDRANT_SCROLL_BATCH", defaultScrollBatch)
	if err != nil || scrollBatch <= 0 {
		err = fmt.Errorf("%w: QDRANT_SCROLL_BATCH", e.ErrIncorrectEnvVariable)
		logger.Errorf(err, "invalid QDRANT_SCROLL_BATCH")
		return nil, err
	}

	return &QdrantCfg{
		Host:                 getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:                 port,
		ApiKey:               getEnv("QDRANT__SERVICE__API_KEY"),
		CocktailCollection:   getEnvOrDefault("QDRANT_COCKTAIL_COLLECTION", defaultCocktailCollection),
		IngredientCollection: getEnvOrDefault("QDRANT_INGREDIENT_COLLECTION", defaultIngredientCollection),
		UseTLS:               useTLS,
		VectorSize:           vectorSize,
		ScrollBatch:          uint32(scrollBatch),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultQueryTTL     = 5 * time.Minute
	)

	addr := getEnv("REDIS_ADDR")
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	dbStr := getEnvOrDefault("REDIS_DB_ID", strconv.Itoa(defaultDB))
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetriesStr := getEnvOrDefault("MAX_RETRIES", strconv.Itoa(defaultMaxRetries))
	maxRetries, err := strconv.Atoi(maxRetriesStr)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	queryTTL, err := parseDurationEnv("SEARCH_CACHE_TTL", defaultQueryTTL)
	if err != nil {
		log.Errorf(err, "invalid SEARCH_CACHE_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		QueryTTL:    queryTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL      = false
		defaultEndpoint    = "minio:9000"
		defaultBucket      = "cocktails"
		defaultSnapshotKey = "snapshot/cocktails.json"
		defaultSnapshotTTL = 10 * time.Minute
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	snapshotTTL, err := parseDurationEnv("SNAPSHOT_TTL", defaultSnapshotTTL)
	if err != nil {
		log.Errorf(err, "invalid SNAPSHOT_TTL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		SnapshotKey:       getEnvOrDefault("SNAPSHOT_KEY", defaultSnapshotKey),
		SnapshotTTL:       snapshotTTL,
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic       = "cocktail-upserts"
		defaultGroupID     = "cocktail-search"
		defaultNetworkMode = "tcp"
		defaultMinBytes    = 1
		defaultMaxBytes    = 1 << 20
	)

	minBytes, err := parseIntEnv("KAFKA_MIN_BYTES", defaultMinBytes)
	if err != nil {
		return nil, e.Wrap("KAFKA_MIN_BYTES", err)
	}

	maxBytes, err := parseIntEnv("KAFKA_MAX_BYTES", defaultMaxBytes)
	if err != nil {
		return nil, e.Wrap("KAFKA_MAX_BYTES", err)
	}

	return &KafkaCfg{
		Brokers:     splitList(getEnv("KAFKA_BROKERS")),
		Topic:       getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		GroupID:     getEnvOrDefault("KAFKA_GROUP_ID", defaultGroupID),
		NetworkMode: getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
	}, nil
}

func loadEmbedderCfg(log logger.Logger) (*EmbedderCfg, error) {
	const (
		defaultModel            = "mxbai-embed-large"
		defaultTimeout          = 10 * time.Second
		defaultFailureThreshold = 5
		defaultBreakerTimeout   = 30 * time.Second
	)

	timeout, err := parseDurationEnv("EMBEDDER_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDER_TIMEOUT")
		return nil, err
	}

	threshold, err := parseIntEnv("EMBEDDER_FAILURE_THRESHOLD", defaultFailureThreshold)
	if err != nil || threshold <= 0 {
		err = fmt.Errorf("%w: EMBEDDER_FAILURE_THRESHOLD", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid EMBEDDER_FAILURE_THRESHOLD")
		return nil, err
	}

	breakerTimeout, err := parseDurationEnv("EMBEDDER_BREAKER_TIMEOUT", defaultBreakerTimeout)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDER_BREAKER_TIMEOUT")
		return nil, err
	}

	return &EmbedderCfg{
		URL:              strings.TrimRight(getEnv("EMBEDDER_URL"), "/"),
		Model:            getEnvOrDefault("EMBEDDER_MODEL", defaultModel),
		Timeout:          timeout,
		FailureThreshold: uint32(threshold),
		BreakerTimeout:   breakerTimeout,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

// splitList разбивает список через запятую, отбрасывая пустые элементы.
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}

	return result
}
