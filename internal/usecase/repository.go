package usecase

import (
	"context"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

// CocktailRepository — чтение записей коктейлей. Все списки упорядочены по возрастанию id.
type CocktailRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Cocktail, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Cocktail, error)
	FindByNameLike(ctx context.Context, name string) ([]domain.Cocktail, error)
	List(ctx context.Context) ([]domain.Cocktail, error)
	Ping(ctx context.Context) error
}

type IngredientRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error)
}

// EmbeddingRepository — чтение именованных векторов. Отсутствующее поле возвращается как nil без ошибки.
type EmbeddingRepository interface {
	GetVector(ctx context.Context, kind domain.RecordKind, id int64, field domain.EmbeddingField) (domain.Vector, error)
	Scan(ctx context.Context, kind domain.RecordKind, field domain.EmbeddingField) ([]domain.FieldVector, error)
}

// SnapshotReader выполняет fn над согласованным снимком хранилища и освобождает ресурсы на любом пути выхода.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
