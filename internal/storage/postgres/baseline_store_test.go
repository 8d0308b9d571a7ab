package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/storage"
)

func testSnapshot(id string, createdAt int64) *domain.BaselineSnapshot {
	return &domain.BaselineSnapshot{
		SnapshotID: id,
		CreatedAt:  createdAt,
		Label:      "label-" + id,
		Invest: domain.BandSeries{
			P10: []float64{100, 110, 120},
			P50: []float64{200, 220, 240},
			P90: []float64{300, 330, 360},
		},
		Buy: domain.BandSeries{
			P10: []float64{-50, 10, 80},
			P50: []float64{0, 60, 140},
			P90: []float64{50, 120, 210},
		},
		ProbInvestBeatsBuy: 0.62,
		InvestTerminalP50:  240,
		BuyTerminalP50:     140,
	}
}

func TestBaselineStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBaselineStore(pool)

	snap := testSnapshot("snap-1", 1700000000)
	require.NoError(t, store.Insert(ctx, snap))

	got, err := store.GetByID(ctx, "snap-1")
	require.NoError(t, err)

	assert.Equal(t, snap.SnapshotID, got.SnapshotID)
	assert.Equal(t, snap.CreatedAt, got.CreatedAt)
	assert.Equal(t, snap.Label, got.Label)
	assert.Equal(t, snap.Invest.P10, got.Invest.P10)
	assert.Equal(t, snap.Invest.P50, got.Invest.P50)
	assert.Equal(t, snap.Invest.P90, got.Invest.P90)
	assert.Equal(t, snap.Buy.P50, got.Buy.P50)
	assert.InDelta(t, snap.ProbInvestBeatsBuy, got.ProbInvestBeatsBuy, 1e-12)
	assert.InDelta(t, snap.InvestTerminalP50, got.InvestTerminalP50, 1e-12)
	assert.InDelta(t, snap.BuyTerminalP50, got.BuyTerminalP50, 1e-12)
}

func TestBaselineStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBaselineStore(pool)

	snap := testSnapshot("snap-dup", 1700000000)
	require.NoError(t, store.Insert(ctx, snap))

	err := store.Insert(ctx, snap)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestBaselineStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBaselineStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBaselineStore_GetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBaselineStore(pool)

	_, err := store.GetLatest(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Insert out of chronological order
	require.NoError(t, store.Insert(ctx, testSnapshot("snap-b", 2000)))
	require.NoError(t, store.Insert(ctx, testSnapshot("snap-c", 3000)))
	require.NoError(t, store.Insert(ctx, testSnapshot("snap-a", 1000)))

	got, err := store.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-c", got.SnapshotID)
}

func TestBaselineStore_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBaselineStore(pool)

	require.NoError(t, store.Insert(ctx, testSnapshot("snap-del", 1000)))
	require.NoError(t, store.Delete(ctx, "snap-del"))

	_, err := store.GetByID(ctx, "snap-del")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.Delete(ctx, "snap-del")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
