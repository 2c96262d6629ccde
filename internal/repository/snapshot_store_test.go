package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BetForge/internal/domain/models"
	"BetForge/pkg/cache"
)

func TestCacheSnapshotStoreRoundTrip(t *testing.T) {
	store := NewCacheSnapshotStore(cache.NewMemoryCache())
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "empty store must load nil without error")

	saved := &models.EngineSnapshot{
		Bank:       decimal.RequireFromString("9123.45"),
		Peak:       decimal.NewFromInt(12_000),
		FibStreak:  4,
		BetsPlaced: 17,
		TotalEV:    decimal.RequireFromString("231.07"),
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(ctx, saved))

	snap, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Bank.Equal(saved.Bank), "bank %s != %s", snap.Bank, saved.Bank)
	assert.True(t, snap.TotalEV.Equal(saved.TotalEV))
	assert.Equal(t, 4, snap.FibStreak)
	assert.Equal(t, 17, snap.BetsPlaced)

	// a second save overwrites, not appends
	saved.Bank = decimal.NewFromInt(5000)
	require.NoError(t, store.Save(ctx, saved))
	snap, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Bank.Equal(decimal.NewFromInt(5000)))
}
