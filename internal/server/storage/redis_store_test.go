package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_EmptyStats(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)

	recent, err := store.GetRecentRounds(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestRedisStore_RecordRound(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	records := []RoundRecord{
		{TableID: "t1", Mode: "SINGLE", Result: ledger.Win, Amount: 10, Balance: 510},
		{TableID: "t1", Mode: "SINGLE", Result: ledger.Loss, Amount: 30, Balance: 480},
		{TableID: "t2", Mode: "MULTI", Result: ledger.Loss, Amount: 20, Balance: 480},
	}
	for _, rec := range records {
		require.NoError(t, store.RecordRound(ctx, rec))
	}

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Rounds: 3, Wins: 1, Losses: 2, Wagered: 60, PlayerNet: -40}, stats)
	assert.Equal(t, "3", mr.HGet(statsKey, fieldRounds))

	recent, err := store.GetRecentRounds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "t2", recent[0].TableID)
	assert.Equal(t, ledger.Loss, recent[1].Result)
	assert.NotZero(t, recent[0].SettledAt)
}

func TestRedisStore_RecentIsTrimmed(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for i := range recentSize + 20 {
		require.NoError(t, store.RecordRound(ctx, RoundRecord{Result: ledger.Win, Amount: i}))
	}

	recent, err := store.GetRecentRounds(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, recentSize)
	assert.Equal(t, recentSize+19, recent[0].Amount)
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, store.Ping(ctx))
	assert.Error(t, store.RecordRound(ctx, RoundRecord{Result: ledger.Win, Amount: 10}))
}
