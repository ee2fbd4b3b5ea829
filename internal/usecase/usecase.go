package usecase

import (
	"context"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

type SearchUC interface {
	FindSimilarByAnchor(ctx context.Context, req *FindSimilarReq) ([]domain.CocktailMatch, error)
	FindByFreeText(ctx context.Context, req *FreeTextReq) ([]domain.CocktailMatch, error)
	FindByPreferences(ctx context.Context, req *PreferencesReq) ([]domain.Cocktail, error)
	FindByIngredients(ctx context.Context, req *IngredientsReq) ([]domain.IngredientOverlapMatch, error)
	RecommendIngredients(ctx context.Context, req *RecommendReq) ([]domain.IngredientMatch, error)
	GetCocktailDetails(ctx context.Context, id int64) (*domain.Cocktail, error)
	Health(ctx context.Context) error
}

// CacheInvalidator сбрасывает кэш при изменении данных внешним загрузчиком.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}
