package clients

import (
	"context"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const defaultScanCount = 500

// RedisClient — обёртка над go-redis с операциями, которые нужны кэшу поиска.
type RedisClient struct {
	Client *r.Client
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	return &RedisClient{
		Client: r.NewClient(&r.Options{
			Addr:         cfg.Addr,
			Username:     cfg.User,
			Password:     cfg.Password,
			DB:           cfg.DB,
			MaxRetries:   cfg.MaxRetries,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		}),
	}
}

func (rc *RedisClient) Ping(ctx context.Context) error {
	if err := rc.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeletePrefix удаляет все ключи с префиксом prefix пачками по count через SCAN + UNLINK.
// Возвращает число удалённых ключей; при ошибке число уже удалённых тоже возвращается.
func (rc *RedisClient) DeletePrefix(ctx context.Context, prefix string, count int64) (int64, error) {
	if count <= 0 {
		count = defaultScanCount
	}

	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := rc.Client.Scan(ctx, cursor, prefix+"*", count).Result()
		if err != nil {
			return deleted, e.Wrap(whereami.WhereAmI(), err)
		}

		if len(keys) > 0 {
			n, err := rc.Client.Unlink(ctx, keys...).Result()
			if err != nil {
				return deleted, e.Wrap(whereami.WhereAmI(), err)
			}
			deleted += n
		}

		if cursor = next; cursor == 0 {
			return deleted, nil
		}
	}
}

func (rc *RedisClient) Close() error {
	return rc.Client.Close()
}
