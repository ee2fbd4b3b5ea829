package closer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloser_ClosesInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var order []int
	for i := 0; i < 3; i++ {
		c.Add(fmt.Sprintf("res-%d", i), func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []int{2, 1, 0}, order)

	// Повторный вызов ничего не закрывает
	require.NoError(t, c.Close(context.Background()))
	assert.Len(t, order, 3)
}

func TestCloser_CollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.Add("redis", func(context.Context) error { return errors.New("connection reset") })
	c.Add("postgres", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[!] redis: connection reset")
}

func TestCloser_ForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(time.Second)

	forced := make(chan struct{}, 1)
	c.Add("postgres", func(ctx context.Context) error {
		forced <- struct{}{}
		return nil
	})

	// Первый вызов зависает, принудительный завершается сразу
	var calls atomic.Int32
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	c.Add("kafka consumer", func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			<-block
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted after 0/2 resources")
	assert.Len(t, forced, 1)
}
