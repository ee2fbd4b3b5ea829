package usecase

import (
	"sort"
	"strings"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

// pickAnchor выбирает якорный коктейль среди кандидатов по имени.
// Кандидатами считаются записи, чьё имя содержит name без учёта регистра.
// Точное совпадение (без учёта регистра) имеет приоритет, иначе берётся запись с наименьшим id.
func pickAnchor(name string, candidates []domain.Cocktail) (*domain.Cocktail, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}

	matches := make([]domain.Cocktail, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		return nil, false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	for i := range matches {
		if strings.EqualFold(strings.TrimSpace(matches[i].Name), needle) {
			return &matches[i], true
		}
	}

	return &matches[0], true
}
