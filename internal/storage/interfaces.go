package storage

import (
	"context"

	"solana-token-screener/internal/domain"
)

// TokenStore persists tokens that passed risk screening.
type TokenStore interface {
	// SaveToken adds a screened token. Returns ErrDuplicateKey if the
	// mint was already stored.
	SaveToken(ctx context.Context, token *domain.ScreenedToken) error

	// GetByMint retrieves a screened token. Returns ErrNotFound if the
	// mint was never stored.
	GetByMint(ctx context.Context, mint string) (*domain.ScreenedToken, error)
}

// TraderAnalysisStore persists trader ranking snapshots.
//
// SaveRanking is atomic per call: either the whole batch for a
// token+timestamp is durably recorded or none of it is. The analytics
// pipeline never retries a failed save; retry policy belongs to the
// implementation or its operator.
type TraderAnalysisStore interface {
	// SaveRanking records one ranking snapshot. A snapshot with no
	// traders is a no-op: every backend persists only non-empty
	// rankings, so LatestRanking reflects the newest ranking that had
	// survivors.
	SaveRanking(ctx context.Context, ranking *domain.Ranking) error

	// LatestRanking retrieves the most recent snapshot for a token.
	// Returns ErrNotFound if no snapshot exists.
	LatestRanking(ctx context.Context, tokenAddress string) (*domain.Ranking, error)
}
