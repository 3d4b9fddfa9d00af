package sequence

import (
	"context"
	"os"
	"sync"
	"testing"

	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "BRI001", Format("BRI", 1))
	assert.Equal(t, "TRN042", Format("TRN", 42))
	assert.Equal(t, "BRI1234", Format("BRI", 1234))
}

func TestCountBasedUsesCountPlusOne(t *testing.T) {
	repo := store.NewMemory[models.StaffBriefing]()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &models.StaffBriefing{}))
	}

	g := CountBased{Prefix: "BRI", Source: repo}
	id, err := g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BRI006", id)
}

// Two creations that both read the count before either insert lands get the same id.
func TestCountBasedCollidesWithoutInsertBetween(t *testing.T) {
	repo := store.NewMemory[models.StaffBriefing]()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &models.StaffBriefing{}))
	}
	g := CountBased{Prefix: "BRI", Source: repo}

	var wg sync.WaitGroup
	ids := make([]string, 2)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], _ = g.Next(ctx)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, "BRI006", ids[0])
}

func TestNewRejectsMissingBackends(t *testing.T) {
	repo := store.NewMemory[models.StaffBriefing]()
	ctx := context.Background()

	_, err := New(ctx, StrategyMongo, "briefings", "BRI", repo, Backends{})
	assert.Error(t, err)
	_, err = New(ctx, StrategyRedis, "briefings", "BRI", repo, Backends{})
	assert.Error(t, err)
	_, err = New(ctx, "dice", "briefings", "BRI", repo, Backends{})
	assert.Error(t, err)

	g, err := New(ctx, "", "briefings", "BRI", repo, Backends{})
	require.NoError(t, err)
	assert.IsType(t, CountBased{}, g)
}

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisCounterIsUniqueUnderConcurrency(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, "seq:test-briefings")

	g := NewRedisCounter(client, "test-briefings", "BRI")
	require.NoError(t, g.Seed(ctx, 5))

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := g.Next(ctx)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 20)
	assert.True(t, seen["BRI006"])
	client.Del(ctx, "seq:test-briefings")
}
