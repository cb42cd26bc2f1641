package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/storage"
)

func testRanking(mint string, observedAt time.Time) *domain.Ranking {
	lastActive := observedAt.Add(-time.Hour)
	return &domain.Ranking{
		TokenAddress: mint,
		ObservedAt:   observedAt,
		Traders: []domain.TraderRecord{
			{
				Wallet:     "wallet1",
				Balance:    1500.5,
				BalanceUSD: 3001.0,
				Decimals:   9,
				Symbol:     "TST",
				WalletMetrics: domain.WalletMetrics{
					TotalTransactions:  10,
					SuccessfulTrades:   8,
					FailedTrades:       2,
					UniqueTokensTraded: 4,
					LastActive:         &lastActive,
				},
			},
			{
				Wallet:  "wallet2",
				Balance: 900,
				Symbol:  "TST",
				WalletMetrics: domain.WalletMetrics{
					TotalTransactions: 6,
					SuccessfulTrades:  5,
					FailedTrades:      1,
				},
			},
		},
	}
}

func TestTraderAnalysisStore_SaveAndLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderAnalysisStore(pool)

	observedAt := time.Now().UTC().Truncate(time.Microsecond)
	ranking := testRanking("RankMint1", observedAt)

	err := store.SaveRanking(ctx, ranking)
	require.NoError(t, err)

	retrieved, err := store.LatestRanking(ctx, "RankMint1")
	require.NoError(t, err)

	require.Len(t, retrieved.Traders, 2)
	// Rank order must survive the round trip.
	assert.Equal(t, "wallet1", retrieved.Traders[0].Wallet)
	assert.Equal(t, "wallet2", retrieved.Traders[1].Wallet)

	first := retrieved.Traders[0]
	assert.InDelta(t, 1500.5, first.Balance, 0.0001)
	assert.InDelta(t, 3001.0, first.BalanceUSD, 0.0001)
	assert.Equal(t, 9, first.Decimals)
	assert.Equal(t, "TST", first.Symbol)
	assert.Equal(t, 10, first.TotalTransactions)
	assert.Equal(t, 8, first.SuccessfulTrades)
	assert.Equal(t, 2, first.FailedTrades)
	assert.Equal(t, 4, first.UniqueTokensTraded)
	require.NotNil(t, first.LastActive)
	assert.WithinDuration(t, observedAt.Add(-time.Hour), *first.LastActive, time.Millisecond)

	second := retrieved.Traders[1]
	assert.Nil(t, second.LastActive)
	assert.WithinDuration(t, observedAt, retrieved.ObservedAt, time.Millisecond)
}

func TestTraderAnalysisStore_LatestWins(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderAnalysisStore(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	older := testRanking("RankMint2", now.Add(-time.Hour))
	newer := testRanking("RankMint2", now)
	newer.Traders = newer.Traders[:1]
	newer.Traders[0].Wallet = "wallet3"

	require.NoError(t, store.SaveRanking(ctx, older))
	require.NoError(t, store.SaveRanking(ctx, newer))

	retrieved, err := store.LatestRanking(ctx, "RankMint2")
	require.NoError(t, err)

	require.Len(t, retrieved.Traders, 1)
	assert.Equal(t, "wallet3", retrieved.Traders[0].Wallet)
}

func TestTraderAnalysisStore_SaveDuplicateSnapshot(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderAnalysisStore(pool)

	ranking := testRanking("RankMint3", time.Now().UTC().Truncate(time.Microsecond))

	require.NoError(t, store.SaveRanking(ctx, ranking))

	// Same token, same analyzed_at, same wallets.
	err := store.SaveRanking(ctx, ranking)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTraderAnalysisStore_SaveIsAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderAnalysisStore(pool)

	ranking := testRanking("RankMint4", time.Now().UTC().Truncate(time.Microsecond))
	// Duplicating a wallet within one snapshot violates the primary key
	// and must roll back the whole write.
	ranking.Traders[1].Wallet = ranking.Traders[0].Wallet

	err := store.SaveRanking(ctx, ranking)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.LatestRanking(ctx, "RankMint4")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTraderAnalysisStore_EmptySnapshotSkipped(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderAnalysisStore(pool)

	empty := &domain.Ranking{TokenAddress: "EmptyMint", ObservedAt: time.Now().UTC()}
	require.NoError(t, store.SaveRanking(ctx, empty))

	_, err := store.LatestRanking(ctx, "EmptyMint")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTraderAnalysisStore_LatestNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderAnalysisStore(pool)

	_, err := store.LatestRanking(ctx, "NonexistentMint")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTraderAnalysisStore_SaveInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderAnalysisStore(pool)

	err := store.SaveRanking(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.SaveRanking(ctx, &domain.Ranking{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
