package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/metrics"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/jitter"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	json "github.com/goccy/go-json"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

const (
	baseBackoff    = 500 * time.Millisecond
	maxBackoff     = 30 * time.Second
	handleAttempts = 3

	entityUnknown = "unknown"
)

// MessageReader — часть kafka.Reader, которую использует консьюмер.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reloader перечитывает данные хранилища. Реализуется снапшотом MinIO.
type Reloader interface {
	Reload(ctx context.Context) error
}

// UpsertEvent публикуется загрузчиком после изменения записи или её эмбеддингов.
type UpsertEvent struct {
	Entity string `json:"entity"` // cocktail | ingredient
	ID     int64  `json:"id"`
}

// InvalidationConsumer читает события загрузчика и сбрасывает кэш запросов.
type InvalidationConsumer struct {
	reader      MessageReader
	invalidator usecase.CacheInvalidator
	reloader    Reloader
	logger      logger.Logger
	backoff     func(attempt int) time.Duration
}

func NewReader(cfg *cfg.KafkaCfg) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
}

// CheckTopic проверяет, что топик событий существует и у него есть партиции.
func CheckTopic(ctx context.Context, cfg *cfg.KafkaCfg) error {
	conn, err := kafka.DialContext(ctx, cfg.NetworkMode, cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(cfg.Topic)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(partitions) == 0 {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("topic %s has no partitions", cfg.Topic))
	}

	return nil
}

// NewInvalidationConsumer создаёт консьюмер. reloader может быть nil, если хранилище не кэширует данные в памяти.
func NewInvalidationConsumer(reader MessageReader, invalidator usecase.CacheInvalidator, reloader Reloader, logger logger.Logger) *InvalidationConsumer {
	return &InvalidationConsumer{
		reader:      reader,
		invalidator: invalidator,
		reloader:    reloader,
		logger:      logger,
		backoff: func(attempt int) time.Duration {
			return jitter.ExponentialBackoff(baseBackoff, maxBackoff, attempt, jitter.DefaultJitter)
		},
	}
}

// Run читает события до отмены ctx. Офсет коммитится после обработки события.
func (c *InvalidationConsumer) Run(ctx context.Context) error {
	c.logger.Infof("Invalidation consumer started")

	for attempt := 0; ; {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Infof("Invalidation consumer stopped")
				return nil
			}

			c.logger.Warnf("Failed to fetch message (attempt %d): %v", attempt+1, err)
			if !c.wait(ctx, attempt) {
				return nil
			}
			attempt++
			continue
		}
		attempt = 0

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Warnf("Failed to commit offset %d: %v", msg.Offset, err)
		}
	}
}

func (c *InvalidationConsumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// handle применяет событие с повторами. Нераспознанное сообщение тоже сбрасывает кэш.
func (c *InvalidationConsumer) handle(ctx context.Context, msg kafka.Message) {
	event, err := ParseEvent(msg.Value)
	if err != nil {
		c.logger.Warnf("Malformed upsert event at offset %d, invalidating anyway: %v", msg.Offset, err)
	}

	for attempt := 0; attempt < handleAttempts; attempt++ {
		err = c.apply(ctx)
		metrics.RecordInvalidationEvent(event.Entity, err)
		if err == nil {
			c.logger.Debugf("Cache invalidated by %s %d", event.Entity, event.ID)
			return
		}

		if errors.Is(err, context.Canceled) {
			return
		}

		c.logger.Warnf("Failed to apply upsert event (attempt %d): %v", attempt+1, err)
		if attempt < handleAttempts-1 && !c.wait(ctx, attempt) {
			return
		}
	}

	c.logger.Errorf(err, "Giving up on upsert event at offset %d", msg.Offset)
}

func (c *InvalidationConsumer) apply(ctx context.Context) error {
	if c.reloader != nil {
		if err := c.reloader.Reload(ctx); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := c.invalidator.InvalidateCache(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *InvalidationConsumer) wait(ctx context.Context, attempt int) bool {
	select {
	case <-time.After(c.backoff(attempt)):
		return true
	case <-ctx.Done():
		return false
	}
}

// ParseEvent разбирает событие загрузчика. При ошибке возвращается событие с entity "unknown".
func ParseEvent(data []byte) (UpsertEvent, error) {
	var event UpsertEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return UpsertEvent{Entity: entityUnknown}, e.Wrap(whereami.WhereAmI(), err)
	}

	switch event.Entity {
	case "cocktail", "ingredient":
		return event, nil
	default:
		return UpsertEvent{Entity: entityUnknown, ID: event.ID}, e.Wrap(whereami.WhereAmI(), fmt.Errorf("unknown entity %q", event.Entity))
	}
}
