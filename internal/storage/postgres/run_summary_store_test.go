package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/storage"
)

func testRunSummary(id string, createdAt int64) *domain.RunSummary {
	return &domain.RunSummary{
		RunID:               id,
		City:                "chicago",
		CreatedAt:           createdAt,
		Months:              360,
		Paths:               5000,
		Seed:                42,
		ClosingCash:         74500,
		MonthlyPayment:      1798.65,
		InvestTerminalP50:   1_250_000,
		BuyTerminalP50:      1_100_000,
		ProbInvestBeatsBuy:  0.58,
		InvestWorstDrawdown: -0.41,
		BuyWorstDrawdown:    -0.27,
	}
}

func TestRunSummaryStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunSummaryStore(pool)

	r := testRunSummary("run-1", 1700000000)
	require.NoError(t, store.Insert(ctx, r))

	got, err := store.GetByID(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, r.RunID, got.RunID)
	assert.Equal(t, r.City, got.City)
	assert.Equal(t, r.CreatedAt, got.CreatedAt)
	assert.Equal(t, r.Months, got.Months)
	assert.Equal(t, r.Paths, got.Paths)
	assert.Equal(t, r.Seed, got.Seed)
	assert.InDelta(t, r.ClosingCash, got.ClosingCash, 1e-9)
	assert.InDelta(t, r.MonthlyPayment, got.MonthlyPayment, 1e-9)
	assert.InDelta(t, r.InvestTerminalP50, got.InvestTerminalP50, 1e-6)
	assert.InDelta(t, r.BuyTerminalP50, got.BuyTerminalP50, 1e-6)
	assert.InDelta(t, r.ProbInvestBeatsBuy, got.ProbInvestBeatsBuy, 1e-12)
	assert.InDelta(t, r.InvestWorstDrawdown, got.InvestWorstDrawdown, 1e-12)
	assert.InDelta(t, r.BuyWorstDrawdown, got.BuyWorstDrawdown, 1e-12)
}

func TestRunSummaryStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunSummaryStore(pool)

	r := testRunSummary("run-dup", 1700000000)
	require.NoError(t, store.Insert(ctx, r))

	err := store.Insert(ctx, r)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestRunSummaryStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunSummaryStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunSummaryStore_GetAllOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunSummaryStore(pool)

	// Insert out of chronological order; ties break on run_id
	require.NoError(t, store.Insert(ctx, testRunSummary("run-c", 2000)))
	require.NoError(t, store.Insert(ctx, testRunSummary("run-a", 3000)))
	require.NoError(t, store.Insert(ctx, testRunSummary("run-b", 2000)))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "run-b", all[0].RunID)
	assert.Equal(t, "run-c", all[1].RunID)
	assert.Equal(t, "run-a", all[2].RunID)
}

func TestRunSummaryStore_GetAllEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunSummaryStore(pool)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
