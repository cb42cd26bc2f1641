package postgres

import (
	"context"
	"fmt"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/storage"
)

// TraderAnalysisStore implements storage.TraderAnalysisStore using
// PostgreSQL. SaveRanking writes the whole snapshot in one transaction.
type TraderAnalysisStore struct {
	pool *Pool
}

// NewTraderAnalysisStore creates a new TraderAnalysisStore.
func NewTraderAnalysisStore(pool *Pool) *TraderAnalysisStore {
	return &TraderAnalysisStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TraderAnalysisStore = (*TraderAnalysisStore)(nil)

// SaveRanking records one ranking snapshot atomically. Empty snapshots
// are skipped.
func (s *TraderAnalysisStore) SaveRanking(ctx context.Context, ranking *domain.Ranking) error {
	if ranking == nil || ranking.TokenAddress == "" {
		return storage.ErrInvalidInput
	}
	if len(ranking.Traders) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trader_analyses (
			token_address, wallet_address, balance, balance_usd, decimals, symbol,
			total_transactions, successful_trades, failed_trades,
			unique_tokens_traded, last_active, analyzed_at, rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for i, t := range ranking.Traders {
		_, err := tx.Exec(ctx, query,
			ranking.TokenAddress, t.Wallet, t.Balance, t.BalanceUSD, t.Decimals, t.Symbol,
			t.TotalTransactions, t.SuccessfulTrades, t.FailedTrades,
			t.UniqueTokensTraded, t.LastActive, ranking.ObservedAt, i+1,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trader analysis: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LatestRanking retrieves the most recent snapshot for a token.
func (s *TraderAnalysisStore) LatestRanking(ctx context.Context, tokenAddress string) (*domain.Ranking, error) {
	query := `
		SELECT wallet_address, balance, balance_usd, decimals, symbol,
		       total_transactions, successful_trades, failed_trades,
		       unique_tokens_traded, last_active, analyzed_at
		FROM trader_analyses
		WHERE token_address = $1
		  AND analyzed_at = (
			SELECT MAX(analyzed_at) FROM trader_analyses WHERE token_address = $1
		  )
		ORDER BY rank ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("select trader analyses: %w", err)
	}
	defer rows.Close()

	ranking := &domain.Ranking{TokenAddress: tokenAddress}
	for rows.Next() {
		var t domain.TraderRecord
		err := rows.Scan(
			&t.Wallet, &t.Balance, &t.BalanceUSD, &t.Decimals, &t.Symbol,
			&t.TotalTransactions, &t.SuccessfulTrades, &t.FailedTrades,
			&t.UniqueTokensTraded, &t.LastActive, &ranking.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trader analysis: %w", err)
		}
		ranking.Traders = append(ranking.Traders, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trader analyses: %w", err)
	}

	if len(ranking.Traders) == 0 {
		return nil, storage.ErrNotFound
	}
	return ranking, nil
}
