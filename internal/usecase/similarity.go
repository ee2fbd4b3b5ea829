package usecase

import (
	"math"
	"sort"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

// scoredID — идентификатор кандидата с оценкой сходства
type scoredID struct {
	ID    int64
	Score float64
}

// CosineSimilarity возвращает косинусное сходство, ограниченное снизу нулём: max(0, cos).
// Ортогональные и противоположные векторы дают 0, сонаправленные 1.
// ok = false, если векторы несравнимы (разная размерность или нулевая норма).
func CosineSimilarity(a, b domain.Vector) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	return math.Max(0, math.Min(1, cos)), true
}

// rankResult — итог ранжирования и число пропущенных несравнимых кандидатов
type rankResult struct {
	Items   []scoredID
	Skipped int
}

// rankCandidates оценивает кандидатов относительно query, отсекает по порогу,
// сортирует по убыванию оценки (при равенстве по возрастанию id) и обрезает до limit.
func rankCandidates(query domain.Vector, candidates []domain.FieldVector, exclude map[int64]struct{}, minScore float64, limit int) rankResult {
	var res rankResult
	seen := make(map[int64]struct{}, len(candidates))

	for _, c := range candidates {
		if _, skip := exclude[c.RecordID]; skip {
			continue
		}

		// Повторная запись того же id (например, во время upsert) учитывается один раз
		if _, dup := seen[c.RecordID]; dup {
			continue
		}
		seen[c.RecordID] = struct{}{}

		score, ok := CosineSimilarity(query, c.Vector)
		if !ok {
			res.Skipped++
			continue
		}

		if score < minScore {
			continue
		}

		res.Items = append(res.Items, scoredID{ID: c.RecordID, Score: score})
	}

	sort.SliceStable(res.Items, func(i, j int) bool {
		if res.Items[i].Score != res.Items[j].Score {
			return res.Items[i].Score > res.Items[j].Score
		}
		return res.Items[i].ID < res.Items[j].ID
	})

	if limit > 0 && len(res.Items) > limit {
		res.Items = res.Items[:limit]
	}

	return res
}

func idsOf(items []scoredID) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	return ids
}
