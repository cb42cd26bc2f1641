package memory

import (
	"context"
	"sync"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/storage"
)

// TraderAnalysisStore is an in-memory implementation of
// storage.TraderAnalysisStore. Snapshots are appended per token.
type TraderAnalysisStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.Ranking // keyed by token address
}

// NewTraderAnalysisStore creates a new in-memory analysis store.
func NewTraderAnalysisStore() *TraderAnalysisStore {
	return &TraderAnalysisStore{
		data: make(map[string][]*domain.Ranking),
	}
}

// Compile-time interface check.
var _ storage.TraderAnalysisStore = (*TraderAnalysisStore)(nil)

// SaveRanking records one ranking snapshot. The whole snapshot is
// stored or nothing is. Empty snapshots are skipped.
func (s *TraderAnalysisStore) SaveRanking(_ context.Context, ranking *domain.Ranking) error {
	if ranking == nil || ranking.TokenAddress == "" {
		return storage.ErrInvalidInput
	}
	if len(ranking.Traders) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *ranking
	stored.Traders = make([]domain.TraderRecord, len(ranking.Traders))
	copy(stored.Traders, ranking.Traders)

	s.data[ranking.TokenAddress] = append(s.data[ranking.TokenAddress], &stored)
	return nil
}

// LatestRanking retrieves the most recent snapshot for a token.
func (s *TraderAnalysisStore) LatestRanking(_ context.Context, tokenAddress string) (*domain.Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := s.data[tokenAddress]
	if len(snapshots) == 0 {
		return nil, storage.ErrNotFound
	}

	latest := snapshots[0]
	for _, snap := range snapshots[1:] {
		if snap.ObservedAt.After(latest.ObservedAt) {
			latest = snap
		}
	}

	out := *latest
	out.Traders = make([]domain.TraderRecord, len(latest.Traders))
	copy(out.Traders, latest.Traders)
	return &out, nil
}
