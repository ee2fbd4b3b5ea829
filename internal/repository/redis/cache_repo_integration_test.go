//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/testinfra"
	"github.com/DRSN-tech/cocktail-search/pkg/clients"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type similarArgs struct {
	AnchorName string
	MaxResults int
}

func TestCacheRepo(t *testing.T) {
	redisCfg := &cfg.RedisCfg{
		Addr:        testinfra.StartRedis(t),
		DialTimeout: time.Second,
		Timeout:     time.Second,
		QueryTTL:    time.Minute,
	}
	client := clients.NewRedisClient(redisCfg)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	repo := NewCacheRepo(client, redisCfg, logger.NewDiscard())
	args := similarArgs{AnchorName: "Margarita", MaxResults: 10}

	var got []string
	hit, err := repo.Get(ctx, "similar", args, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, repo.Set(ctx, "similar", args, []string{"Daiquiri", "Gimlet"}))

	hit, err = repo.Get(ctx, "similar", args, &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []string{"Daiquiri", "Gimlet"}, got)

	other := similarArgs{AnchorName: "Margarita", MaxResults: 5}
	hit, err = repo.Get(ctx, "similar", other, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	ttl, err := client.Client.TTL(ctx, queryKey("similar", []byte(`{"AnchorName":"Margarita","MaxResults":10}`))).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, client.Client.Set(ctx, "unrelated", "keep", 0).Err())
	require.NoError(t, repo.Invalidate(ctx))

	hit, err = repo.Get(ctx, "similar", args, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	val, err := client.Client.Get(ctx, "unrelated").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep", val)
}
