package usecase

import (
	"math"
	"strings"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
)

const (
	minABV = 0
	maxABV = 100
)

func validateMaxResults(n int) error {
	if n < 1 {
		return e.ErrInvalidMaxResults
	}

	return nil
}

func validateThreshold(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return e.ErrInvalidThreshold
	}

	return nil
}

func validateCocktailField(f domain.EmbeddingField) (domain.EmbeddingField, error) {
	field, ok := domain.ParseField(domain.KindCocktail, string(f))
	if !ok {
		return "", e.ErrInvalidField
	}

	return field, nil
}

// normalize приводит запрос к каноническому виду, который используется и для ключа кэша.
func (r *FindSimilarReq) normalize() error {
	r.AnchorName = strings.TrimSpace(r.AnchorName)
	if r.AnchorName == "" {
		return e.ErrAnchorNameRequired
	}

	field, err := validateCocktailField(r.Field)
	if err != nil {
		return err
	}
	r.Field = field

	if err := validateMaxResults(r.MaxResults); err != nil {
		return err
	}

	return validateThreshold(r.MinSimilarity)
}

func (r *FreeTextReq) normalize() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return e.ErrQueryTextRequired
	}

	field, err := validateCocktailField(r.Field)
	if err != nil {
		return err
	}
	r.Field = field

	if err := validateMaxResults(r.MaxResults); err != nil {
		return err
	}

	return validateThreshold(r.MinSimilarity)
}

func (r *PreferencesReq) normalize() error {
	for _, v := range []float64{r.ABVMin, r.ABVMax} {
		if math.IsNaN(v) || v < minABV || v > maxABV {
			return e.ErrABVOutOfBounds
		}
	}

	// Перепутанные границы не меняются местами
	if r.ABVMin > r.ABVMax {
		return e.ErrInvalidRange
	}

	if err := validateMaxResults(r.MaxResults); err != nil {
		return err
	}

	r.ExcludedCategories = normalizeNames(r.ExcludedCategories, true)
	r.RequiredTags = normalizeNames(r.RequiredTags, true)

	return nil
}

func (r *IngredientsReq) normalize() error {
	r.Names = normalizeNames(r.Names, false)
	if len(r.Names) == 0 {
		return e.ErrEmptyIngredients
	}

	if err := validateMaxResults(r.MaxResults); err != nil {
		return err
	}

	return validateThreshold(r.MinMatchFraction)
}

func (r *RecommendReq) normalize() error {
	r.AnchorName = strings.TrimSpace(r.AnchorName)
	if r.AnchorName == "" {
		return e.ErrAnchorNameRequired
	}

	return validateMaxResults(r.MaxResults)
}

// normalizeNames обрезает пробелы, отбрасывает пустые значения и убирает дубликаты без учёта регистра.
// Сохраняется первое написание и исходный порядок.
func normalizeNames(names []string, lower bool) []string {
	if len(names) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if lower {
			name = key
		}
		out = append(out, name)
	}

	return out
}
