package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/storage"
)

// TraderAnalysisStore implements storage.TraderAnalysisStore using
// ClickHouse. Snapshots are append-only analytical rows; a snapshot is
// written as one batch.
type TraderAnalysisStore struct {
	conn *Conn
}

// NewTraderAnalysisStore creates a new TraderAnalysisStore.
func NewTraderAnalysisStore(conn *Conn) *TraderAnalysisStore {
	return &TraderAnalysisStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TraderAnalysisStore = (*TraderAnalysisStore)(nil)

// SaveRanking records one ranking snapshot as a single batch. Empty
// snapshots are skipped.
func (s *TraderAnalysisStore) SaveRanking(ctx context.Context, ranking *domain.Ranking) error {
	if ranking == nil || ranking.TokenAddress == "" {
		return storage.ErrInvalidInput
	}
	if len(ranking.Traders) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trader_analyses (
			token_address, wallet_address, balance, balance_usd, decimals, symbol,
			total_transactions, successful_trades, failed_trades,
			unique_tokens_traded, last_active, analyzed_at, rank
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, t := range ranking.Traders {
		// DateTime64 cannot hold Go's zero time; epoch marks "never".
		lastActive := time.Unix(0, 0).UTC()
		if t.LastActive != nil {
			lastActive = *t.LastActive
		}
		err = batch.Append(
			ranking.TokenAddress, t.Wallet, t.Balance, t.BalanceUSD,
			int32(t.Decimals), t.Symbol,
			uint32(t.TotalTransactions), uint32(t.SuccessfulTrades), uint32(t.FailedTrades),
			uint32(t.UniqueTokensTraded), lastActive, ranking.ObservedAt, uint32(i+1),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
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
		WHERE token_address = ?
		  AND analyzed_at = (
			SELECT MAX(analyzed_at) FROM trader_analyses WHERE token_address = ?
		  )
		ORDER BY rank ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenAddress, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("query trader analyses: %w", err)
	}
	defer rows.Close()

	ranking := &domain.Ranking{TokenAddress: tokenAddress}
	for rows.Next() {
		var (
			t          domain.TraderRecord
			decimals   int32
			total      uint32
			successful uint32
			failed     uint32
			unique     uint32
			lastActive time.Time
		)
		err := rows.Scan(
			&t.Wallet, &t.Balance, &t.BalanceUSD, &decimals, &t.Symbol,
			&total, &successful, &failed, &unique, &lastActive, &ranking.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trader analysis: %w", err)
		}
		t.Decimals = int(decimals)
		t.TotalTransactions = int(total)
		t.SuccessfulTrades = int(successful)
		t.FailedTrades = int(failed)
		t.UniqueTokensTraded = int(unique)
		if lastActive.Unix() > 0 {
			la := lastActive
			t.LastActive = &la
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
