package usecase

import "github.com/DRSN-tech/cocktail-search/internal/domain"

// Значения по умолчанию для вызывающих сторон (HTTP, CLI)
const (
	DefaultSimilarMaxResults     = 10
	DefaultSimilarThreshold      = 0.6
	DefaultFreeTextMaxResults    = 10
	DefaultFreeTextThreshold     = 0.5
	DefaultIngredientsMaxResults = 15
	DefaultIngredientsThreshold  = 0.3
	DefaultPreferencesMaxResults = 15
	DefaultPreferencesABVMin     = 0
	DefaultPreferencesABVMax     = 50
	DefaultRecommendMaxResults   = 10
	MaxResultsLimit              = 50

	DefaultField = domain.FieldFlavor
)

// FindSimilarReq — поиск коктейлей, похожих на якорный.
type FindSimilarReq struct {
	AnchorName    string
	Field         domain.EmbeddingField
	MaxResults    int
	MinSimilarity float64
}

// FreeTextReq — поиск коктейлей по произвольному описанию.
type FreeTextReq struct {
	Text          string
	Field         domain.EmbeddingField
	MaxResults    int
	MinSimilarity float64
}

// PreferencesReq — фильтрация по крепости, исключённым категориям и обязательным тегам.
type PreferencesReq struct {
	ABVMin             float64
	ABVMax             float64
	ExcludedCategories []string
	RequiredTags       []string
	MaxResults         int
}

// IngredientsReq — поиск по пересечению списка ингредиентов.
type IngredientsReq struct {
	Names            []string
	MinMatchFraction float64
	MaxResults       int
}

// RecommendReq — рекомендация ингредиентов к якорному коктейлю.
type RecommendReq struct {
	AnchorName string
	MaxResults int
}

// MAPPERS
func NewFindSimilarReq(anchor string, field domain.EmbeddingField, maxResults int, minSimilarity float64) *FindSimilarReq {
	return &FindSimilarReq{
		AnchorName:    anchor,
		Field:         field,
		MaxResults:    maxResults,
		MinSimilarity: minSimilarity,
	}
}

func NewFreeTextReq(text string, field domain.EmbeddingField, maxResults int, minSimilarity float64) *FreeTextReq {
	return &FreeTextReq{
		Text:          text,
		Field:         field,
		MaxResults:    maxResults,
		MinSimilarity: minSimilarity,
	}
}

func NewPreferencesReq(abvMin, abvMax float64, excluded, required []string, maxResults int) *PreferencesReq {
	return &PreferencesReq{
		ABVMin:             abvMin,
		ABVMax:             abvMax,
		ExcludedCategories: excluded,
		RequiredTags:       required,
		MaxResults:         maxResults,
	}
}

func NewIngredientsReq(names []string, minMatchFraction float64, maxResults int) *IngredientsReq {
	return &IngredientsReq{
		Names:            names,
		MinMatchFraction: minMatchFraction,
		MaxResults:       maxResults,
	}
}

func NewRecommendReq(anchor string, maxResults int) *RecommendReq {
	return &RecommendReq{
		AnchorName: anchor,
		MaxResults: maxResults,
	}
}
