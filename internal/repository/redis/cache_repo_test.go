package redis

import (
	"strings"
	"testing"

	"github.com/DRSN-tech/cocktail-search/internal/repository/redis/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryKey(t *testing.T) {
	a := queryKey("similar", []byte(`{"AnchorName":"Margarita"}`))
	b := queryKey("similar", []byte(`{"AnchorName":"Margarita"}`))
	c := queryKey("similar", []byte(`{"AnchorName":"Daiquiri"}`))
	d := queryKey("recommend", []byte(`{"AnchorName":"Margarita"}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.True(t, strings.HasPrefix(a, "search:v1:similar:"))
	assert.Len(t, strings.TrimPrefix(a, "search:v1:similar:"), 16)
}

func TestQueryEntryMatches(t *testing.T) {
	entry, err := converter.NewQueryEntry("similar", map[string]any{"name": "Margarita"}, []int{1, 2})
	require.NoError(t, err)

	assert.True(t, entry.Matches("similar", []byte(`{"name":"Margarita"}`)))
	assert.False(t, entry.Matches("similar", []byte(`{"name":"Daiquiri"}`)))
	assert.False(t, entry.Matches("details", []byte(`{"name":"Margarita"}`)))
	assert.JSONEq(t, `[1,2]`, string(entry.Value))
}
