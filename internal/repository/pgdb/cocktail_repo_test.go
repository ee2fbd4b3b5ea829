package pgdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "margarita", escapeLike("margarita"))
	assert.Equal(t, `100\%\_agave`, escapeLike("100%_agave"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
