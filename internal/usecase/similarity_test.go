package usecase

import (
	"testing"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Vector
		want float64
		ok   bool
	}{
		{name: "same direction", a: domain.Vector{1, 2, 3}, b: domain.Vector{2, 4, 6}, want: 1, ok: true},
		{name: "partial overlap", a: domain.Vector{1, 1}, b: domain.Vector{1, 0}, want: 0.70710678, ok: true},
		{name: "orthogonal", a: domain.Vector{1, 0}, b: domain.Vector{0, 1}, want: 0, ok: true},
		{name: "opposite", a: domain.Vector{1, 0}, b: domain.Vector{-1, 0}, want: 0, ok: true},
		{name: "dimension mismatch", a: domain.Vector{1, 0}, b: domain.Vector{1, 0, 0}, ok: false},
		{name: "zero norm", a: domain.Vector{1, 0}, b: domain.Vector{0, 0}, ok: false},
		{name: "empty", a: domain.Vector{}, b: domain.Vector{}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CosineSimilarity(tt.a, tt.b)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestRankCandidates(t *testing.T) {
	query := domain.Vector{1, 0}
	candidates := []domain.FieldVector{
		{RecordID: 5, Vector: domain.Vector{1, 0}},
		{RecordID: 2, Vector: domain.Vector{1, 0}},
		{RecordID: 3, Vector: domain.Vector{0, 1}},
		{RecordID: 4, Vector: domain.Vector{-1, 0}},
		{RecordID: 6, Vector: domain.Vector{1, 0, 0}},
		{RecordID: 7, Vector: domain.Vector{0, 0}},
		{RecordID: 1, Vector: domain.Vector{1, 0}},
	}

	t.Run("ties broken by ascending id", func(t *testing.T) {
		res := rankCandidates(query, candidates, nil, 0, 10)
		assert.Equal(t, []int64{1, 2, 5, 3, 4}, idsOf(res.Items))
		assert.Equal(t, 2, res.Skipped)
	})

	t.Run("orthogonal and opposite score zero", func(t *testing.T) {
		res := rankCandidates(query, candidates, nil, 0, 10)
		require.Len(t, res.Items, 5)
		assert.Zero(t, res.Items[3].Score)
		assert.Zero(t, res.Items[4].Score)
	})

	t.Run("unrelated dropped by positive threshold", func(t *testing.T) {
		res := rankCandidates(query, candidates, nil, 0.01, 10)
		assert.Equal(t, []int64{1, 2, 5}, idsOf(res.Items))
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		res := rankCandidates(query, candidates, nil, 1, 10)
		assert.Equal(t, []int64{1, 2, 5}, idsOf(res.Items))
	})

	t.Run("no limit keeps every candidate", func(t *testing.T) {
		res := rankCandidates(query, candidates, nil, 0, 0)
		assert.Len(t, res.Items, 5)
	})

	t.Run("excluded and truncated", func(t *testing.T) {
		res := rankCandidates(query, candidates, map[int64]struct{}{1: {}}, 0, 2)
		assert.Equal(t, []int64{2, 5}, idsOf(res.Items))
	})

	t.Run("duplicate ids counted once", func(t *testing.T) {
		dup := append([]domain.FieldVector{{RecordID: 3, Vector: domain.Vector{1, 0}}}, candidates...)
		res := rankCandidates(query, dup, nil, 0.9, 10)
		assert.Equal(t, []int64{1, 2, 3, 5}, idsOf(res.Items))
	})
}

func TestPickAnchor(t *testing.T) {
	candidates := []domain.Cocktail{
		{ID: 9, Name: "Frozen Margarita"},
		{ID: 4, Name: "Margarita"},
		{ID: 2, Name: "Margarita Royale"},
	}

	t.Run("exact match wins", func(t *testing.T) {
		anchor, ok := pickAnchor("  MARGARITA ", candidates)
		require.True(t, ok)
		assert.Equal(t, int64(4), anchor.ID)
	})

	t.Run("lowest id otherwise", func(t *testing.T) {
		anchor, ok := pickAnchor("marg", candidates)
		require.True(t, ok)
		assert.Equal(t, int64(2), anchor.ID)
	})

	t.Run("no substring match", func(t *testing.T) {
		_, ok := pickAnchor("negroni", candidates)
		assert.False(t, ok)
	})

	t.Run("blank name", func(t *testing.T) {
		_, ok := pickAnchor(" ", candidates)
		assert.False(t, ok)
	})
}

func TestNormalizeNames(t *testing.T) {
	assert.Equal(t, []string{"Gin", "lime"}, normalizeNames([]string{" Gin ", "", "gin", "lime", "  "}, false))
	assert.Equal(t, []string{"gin"}, normalizeNames([]string{"GIN", "Gin"}, true))
	assert.Nil(t, normalizeNames(nil, false))
}
