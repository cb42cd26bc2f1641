package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/storage"
)

func testRanking(mint string, observedAt time.Time) *domain.Ranking {
	return &domain.Ranking{
		TokenAddress: mint,
		ObservedAt:   observedAt,
		Traders: []domain.TraderRecord{
			{
				Wallet:  "wallet1",
				Balance: 100,
				Symbol:  "ONE",
				WalletMetrics: domain.WalletMetrics{
					TotalTransactions: 8,
					SuccessfulTrades:  6,
					FailedTrades:      2,
				},
			},
		},
	}
}

func TestTraderAnalysisStore_SaveAndLatest(t *testing.T) {
	store := NewTraderAnalysisStore()
	now := time.Now().UTC()

	if err := store.SaveRanking(context.Background(), testRanking("mint1", now)); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}

	got, err := store.LatestRanking(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("LatestRanking: %v", err)
	}
	if len(got.Traders) != 1 || got.Traders[0].Wallet != "wallet1" {
		t.Errorf("unexpected ranking: %+v", got)
	}
}

func TestTraderAnalysisStore_EmptySnapshotSkipped(t *testing.T) {
	store := NewTraderAnalysisStore()

	empty := &domain.Ranking{TokenAddress: "mint1", ObservedAt: time.Now().UTC()}
	if err := store.SaveRanking(context.Background(), empty); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}

	if _, err := store.LatestRanking(context.Background(), "mint1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("empty snapshot must not be persisted, got %v", err)
	}
}

func TestTraderAnalysisStore_LatestWins(t *testing.T) {
	store := NewTraderAnalysisStore()
	now := time.Now().UTC()

	older := testRanking("mint1", now.Add(-time.Hour))
	newer := testRanking("mint1", now)
	newer.Traders[0].Wallet = "wallet2"

	// Save out of order; recency is decided by ObservedAt, not insertion.
	if err := store.SaveRanking(context.Background(), newer); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}
	if err := store.SaveRanking(context.Background(), older); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}

	got, err := store.LatestRanking(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("LatestRanking: %v", err)
	}
	if got.Traders[0].Wallet != "wallet2" {
		t.Errorf("expected the newer snapshot, got %+v", got)
	}
}

func TestTraderAnalysisStore_NotFound(t *testing.T) {
	store := NewTraderAnalysisStore()

	if _, err := store.LatestRanking(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTraderAnalysisStore_InvalidInput(t *testing.T) {
	store := NewTraderAnalysisStore()

	if err := store.SaveRanking(context.Background(), nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil ranking, got %v", err)
	}
}

func TestTraderAnalysisStore_SnapshotIsolation(t *testing.T) {
	store := NewTraderAnalysisStore()
	now := time.Now().UTC()

	ranking := testRanking("mint1", now)
	if err := store.SaveRanking(context.Background(), ranking); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}

	// Callers mutating their copy must not affect the stored snapshot.
	ranking.Traders[0].Wallet = "tampered"

	got, err := store.LatestRanking(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("LatestRanking: %v", err)
	}
	if got.Traders[0].Wallet != "wallet1" {
		t.Errorf("stored snapshot was mutated: %+v", got)
	}
}
