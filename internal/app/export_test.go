package app

import (
	"context"
	"sort"
	"testing"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listOnlyCocktails struct {
	cocktails []domain.Cocktail
}

func (l *listOnlyCocktails) GetByID(context.Context, int64) (*domain.Cocktail, error) { return nil, nil }
func (l *listOnlyCocktails) GetByIDs(context.Context, []int64) ([]domain.Cocktail, error) {
	return nil, nil
}
func (l *listOnlyCocktails) FindByNameLike(context.Context, string) ([]domain.Cocktail, error) {
	return nil, nil
}
func (l *listOnlyCocktails) List(context.Context) ([]domain.Cocktail, error) { return l.cocktails, nil }
func (l *listOnlyCocktails) Ping(context.Context) error                      { return nil }

type recordingIngredients struct {
	requested []int64
}

func (r *recordingIngredients) GetByIDs(_ context.Context, ids []int64) ([]domain.Ingredient, error) {
	r.requested = append(r.requested, ids...)
	res := make([]domain.Ingredient, 0, len(ids))
	seen := map[int64]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			res = append(res, domain.Ingredient{ID: id})
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

type fieldVectors map[domain.RecordKind]map[domain.EmbeddingField][]domain.FieldVector

func (f fieldVectors) GetVector(context.Context, domain.RecordKind, int64, domain.EmbeddingField) (domain.Vector, error) {
	return nil, nil
}

func (f fieldVectors) Scan(_ context.Context, kind domain.RecordKind, field domain.EmbeddingField) ([]domain.FieldVector, error) {
	return f[kind][field], nil
}

type countingSnapshot struct{ calls int }

func (c *countingSnapshot) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func TestCollectSnapshot(t *testing.T) {
	ingredients := &recordingIngredients{}
	snapshot := &countingSnapshot{}

	data, err := collectSnapshot(context.Background(), &snapshotSources{
		cocktails: &listOnlyCocktails{cocktails: []domain.Cocktail{
			{ID: 1, Ingredients: []domain.CocktailIngredient{{IngredientID: 10}, {IngredientID: 11}}},
		}},
		ingredients: ingredients,
		embeddings: fieldVectors{
			domain.KindCocktail: {
				domain.FieldFlavor: {{RecordID: 1, Field: domain.FieldFlavor, Vector: domain.Vector{1, 0}}},
			},
			domain.KindIngredient: {
				domain.FieldFlavor:   {{RecordID: 12, Field: domain.FieldFlavor, Vector: domain.Vector{0, 1}}},
				domain.FieldCategory: {{RecordID: 10, Field: domain.FieldCategory, Vector: domain.Vector{1, 1}}},
			},
		},
		snapshot: snapshot,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.calls, "export reads one consistent snapshot")
	assert.Len(t, data.Cocktails, 1)
	assert.Len(t, data.Vectors[domain.KindCocktail], 1)
	assert.Len(t, data.Vectors[domain.KindIngredient], 2)

	ids := make([]int64, 0, len(data.Ingredients))
	for _, ing := range data.Ingredients {
		ids = append(ids, ing.ID)
	}
	assert.Equal(t, []int64{10, 11, 12}, ids, "recipe and vector references are both exported")
}
