package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

func setupRedisStore(t *testing.T, optFns ...func(o *RedisOptions)) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, optFns...), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := setupRedisStore(t)

	return map[string]Store{
		"memory": NewInMemoryStore(),
		"redis":  redisStore,
	}
}

func TestStore_SaveGetList(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			older := NewRecord("run-1", 1)
			older.StartedAt = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
			newer := NewRecord("run-2", 3)
			newer.StartedAt = older.StartedAt.Add(time.Minute)

			require.NoError(t, store.Save(ctx, older))
			require.NoError(t, store.Save(ctx, newer))

			newer.Steps = append(newer.Steps, StepRecord{Index: 1, Node: "Main Orchestrator", Kind: "coordinator", Content: "delegating"})
			newer.Finish(StatusCompleted, "all good", nil)
			require.NoError(t, store.Save(ctx, newer))

			got, err := store.Get(ctx, "run-2")
			require.NoError(t, err)
			assert.Equal(t, StatusCompleted, got.Status)
			assert.Equal(t, "all good", got.Summary)
			require.Len(t, got.Steps, 1)
			assert.Equal(t, "delegating", got.Steps[0].Content)
			require.NotNil(t, got.FinishedAt)

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "run-2", list[0].ID)
			assert.Equal(t, "run-1", list[1].ID)
		})
	}
}

func TestStore_Errors(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = store.Get(ctx, "")
			assert.ErrorIs(t, err, ErrInvalidID)

			assert.ErrorIs(t, store.Save(ctx, &Record{}), ErrInvalidID)
			assert.ErrorIs(t, store.Save(ctx, nil), ErrInvalidID)
		})
	}
}

func TestInMemoryStore_ClonesRecords(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	rec := NewRecord("run-1", 2)
	require.NoError(t, store.Save(ctx, rec))

	rec.Steps = append(rec.Steps, StepRecord{Index: 1})

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, got.Steps)

	got.Status = StatusFailed

	again, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, again.Status)
}

func TestRedisStore_TTLAndPrefix(t *testing.T) {
	store, mr := setupRedisStore(t, func(o *RedisOptions) {
		o.TTL = time.Hour
		o.Prefix = "test:"
	})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewRecord("abc", 1)))
	require.NoError(t, store.Ping(ctx))

	assert.True(t, mr.Exists("test:abc"))
	assert.Equal(t, time.Hour, mr.TTL("test:abc"))

	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ListPrunesExpired(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewRecord("keep", 1)))
	require.NoError(t, store.Save(ctx, NewRecord("gone", 2)))
	mr.Del("logimesh:run:gone")

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].ID)

	members, err := mr.ZMembers("logimesh:run:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, members)
}

func TestRecord_Finish(t *testing.T) {
	rec := NewRecord("r", 4)
	assert.False(t, rec.Status.Done())

	rec.Finish(StatusFailed, "", errors.New("worker inventory_manager failed: boom"))

	assert.True(t, rec.Status.Done())
	assert.Equal(t, "worker inventory_manager failed: boom", rec.Error)
	assert.GreaterOrEqual(t, rec.Duration(), time.Duration(0))
}
