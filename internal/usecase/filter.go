package usecase

import (
	"sort"
	"strings"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

// matchesPreferences проверяет коктейль на соответствие предпочтениям.
// Коктейль без ABV проходит проверку крепости.
func matchesPreferences(c *domain.Cocktail, req *PreferencesReq) bool {
	if c.ABV != nil && (*c.ABV < req.ABVMin || *c.ABV > req.ABVMax) {
		return false
	}

	if len(req.ExcludedCategories) > 0 {
		categories := c.Categories()
		for _, excluded := range req.ExcludedCategories {
			if _, ok := categories[excluded]; ok {
				return false
			}
		}
	}

	return c.HasAllTags(req.RequiredTags)
}

// filterByPreferences отбирает коктейли в порядке возрастания id и обрезает до limit.
func filterByPreferences(cocktails []domain.Cocktail, req *PreferencesReq) []domain.Cocktail {
	sorted := sortedByID(cocktails)

	res := make([]domain.Cocktail, 0, min(len(sorted), req.MaxResults))
	for i := range sorted {
		if !matchesPreferences(&sorted[i], req) {
			continue
		}

		res = append(res, sorted[i])
		if len(res) == req.MaxResults {
			break
		}
	}

	return res
}

// overlapOf считает пересечение запрошенных имён с рецептом.
// Неизвестные ингредиенты учитываются в общем числе, но не участвуют в сравнении по имени.
func overlapOf(c *domain.Cocktail, names []string) domain.IngredientOverlapMatch {
	known := make([]string, 0, len(c.Ingredients))
	for _, ci := range c.Ingredients {
		if ci.Known() {
			known = append(known, strings.ToLower(ci.Ingredient.Name))
		}
	}

	var matched []string
	for _, name := range names {
		needle := strings.ToLower(name)
		for _, have := range known {
			if strings.Contains(have, needle) {
				matched = append(matched, name)
				break
			}
		}
	}

	total := len(c.Ingredients)
	var fraction float64
	if total > 0 {
		fraction = float64(len(matched)) / float64(total)
	}

	return domain.IngredientOverlapMatch{
		Cocktail:           *c,
		MatchedCount:       len(matched),
		TotalCount:         total,
		MatchFraction:      fraction,
		MatchedIngredients: matched,
	}
}

// rankByOverlap сохраняет записи с долей не ниже minFraction (при 0 остаются все, включая записи без совпадений) и сортирует
// по доле и числу совпадений по убыванию, затем по id.
func rankByOverlap(cocktails []domain.Cocktail, names []string, minFraction float64, limit int) []domain.IngredientOverlapMatch {
	res := make([]domain.IngredientOverlapMatch, 0)
	for i := range cocktails {
		m := overlapOf(&cocktails[i], names)
		if m.MatchFraction < minFraction {
			continue
		}
		res = append(res, m)
	}

	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.MatchFraction != b.MatchFraction {
			return a.MatchFraction > b.MatchFraction
		}
		if a.MatchedCount != b.MatchedCount {
			return a.MatchedCount > b.MatchedCount
		}
		return a.Cocktail.ID < b.Cocktail.ID
	})

	if len(res) > limit {
		res = res[:limit]
	}

	return res
}

func sortedByID(cocktails []domain.Cocktail) []domain.Cocktail {
	sorted := make([]domain.Cocktail, len(cocktails))
	copy(sorted, cocktails)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}
