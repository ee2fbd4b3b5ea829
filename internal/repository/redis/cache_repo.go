package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/repository/redis/converter"
	"github.com/DRSN-tech/cocktail-search/pkg/clients"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "search:v1:"
	scanCount = 500
)

// CacheRepo — read-through кэш результатов поиска с TTL.
// Записи устаревают не позже чем через QueryTTL; событие upsert сбрасывает весь префикс.
type CacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Get читает результат запроса в dst. При промахе возвращает (false, nil).
func (c *CacheRepo) Get(ctx context.Context, op string, args any, dst any) (bool, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	key := queryKey(op, rawArgs)
	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return false, nil // cache miss
		}
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	var entry converter.QueryEntryRedisModel
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warnf("Redis unmarshal failed, key=%s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		c.drop(key)
		return false, nil
	}

	if !entry.Matches(op, rawArgs) {
		c.logger.Warnf("Cache key collision, key=%s op=%s", key, op)
		c.drop(key)
		return false, nil
	}

	if err := json.Unmarshal(entry.Value, dst); err != nil {
		c.logger.Warnf("Cached value has unexpected shape, key=%s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		c.drop(key)
		return false, nil
	}

	return true, nil
}

// Set кэширует результат запроса на QueryTTL.
func (c *CacheRepo) Set(ctx context.Context, op string, args any, value any) error {
	entry, err := converter.NewQueryEntry(op, args, value)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, queryKey(op, entry.Args), data, c.cfg.QueryTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Invalidate удаляет все закэшированные результаты поиска.
func (c *CacheRepo) Invalidate(ctx context.Context) error {
	deleted, err := c.client.DeletePrefix(ctx, keyPrefix, scanCount)
	if err != nil {
		c.logger.Warnf("Query cache invalidation stopped after %d keys", deleted)
		return e.Wrap(whereami.WhereAmI(), err)
	}

	c.logger.Infof("Query cache invalidated, keys=%d", deleted)

	return nil
}

func (c *CacheRepo) drop(key string) {
	if err := c.client.Client.Del(context.Background(), key).Err(); err != nil {
		c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// queryKey возвращает Redis-ключ для операции и сериализованных аргументов
func queryKey(op string, rawArgs []byte) string {
	return fmt.Sprintf("%s%s:%016x", keyPrefix, op, xxhash.Sum64(rawArgs))
}
