package redis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"docmapper/internal/store"
	"docmapper/internal/store/storetest"
)

func TestRedisStore(t *testing.T) {
	// Skip test if Redis is not available
	ping := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379", DB: 3})

	ctx := context.Background()
	if err := ping.Ping(ctx).Err(); err != nil {
		_ = ping.Close()
		t.Skipf("Redis not available: %v", err)
	}

	_ = ping.Close()

	storetest.Run(t, func(t *testing.T) store.Store {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379", DB: 3})
		prefix := "docmapper-test:" + uuid.NewString() + ":"

		t.Cleanup(func() {
			cleanup := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379", DB: 3})
			defer cleanup.Close()

			keys, _ := cleanup.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				cleanup.Del(ctx, keys...)
			}
		})

		s, err := New(Config{Client: client, KeyPrefix: prefix})
		require.NoError(t, err)

		return s
	})
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
