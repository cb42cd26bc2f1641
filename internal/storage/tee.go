package storage

import (
	"context"
	"log"

	"solana-token-screener/internal/domain"
)

// TeeAnalysisStore writes ranking snapshots to a primary store and,
// best-effort, to a secondary analytical sink. The primary result
// decides the call's outcome; a secondary failure is only logged.
type TeeAnalysisStore struct {
	primary   TraderAnalysisStore
	secondary TraderAnalysisStore
}

// NewTeeAnalysisStore creates a tee over primary and secondary.
func NewTeeAnalysisStore(primary, secondary TraderAnalysisStore) *TeeAnalysisStore {
	return &TeeAnalysisStore{primary: primary, secondary: secondary}
}

// Compile-time interface check.
var _ TraderAnalysisStore = (*TeeAnalysisStore)(nil)

// SaveRanking writes the snapshot to both stores.
func (s *TeeAnalysisStore) SaveRanking(ctx context.Context, ranking *domain.Ranking) error {
	if err := s.primary.SaveRanking(ctx, ranking); err != nil {
		return err
	}
	if s.secondary != nil {
		if err := s.secondary.SaveRanking(ctx, ranking); err != nil {
			log.Printf("tee store: secondary save for %s: %v", ranking.TokenAddress, err)
		}
	}
	return nil
}

// LatestRanking reads from the primary store.
func (s *TeeAnalysisStore) LatestRanking(ctx context.Context, tokenAddress string) (*domain.Ranking, error) {
	return s.primary.LatestRanking(ctx, tokenAddress)
}
