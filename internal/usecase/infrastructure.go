package usecase

import (
	"context"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

// Embedder — внешний сервис, превращающий текст в вектор.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
}

// QueryCache — read-through кэш результатов запросов.
// Ключ строится из имени операции и аргументов; ошибки кэша не должны ломать запрос.
type QueryCache interface {
	Get(ctx context.Context, op string, args any, dst any) (bool, error)
	Set(ctx context.Context, op string, args any, value any) error
	Invalidate(ctx context.Context) error
}

// NopQueryCache используется, когда кэш не настроен.
type NopQueryCache struct{}

func (NopQueryCache) Get(context.Context, string, any, any) (bool, error) { return false, nil }
func (NopQueryCache) Set(context.Context, string, any, any) error         { return nil }
func (NopQueryCache) Invalidate(context.Context) error                    { return nil }
