package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// SaveToken adds a screened token. Returns ErrDuplicateKey if the mint
// was already stored.
func (s *TokenStore) SaveToken(ctx context.Context, token *domain.ScreenedToken) error {
	if token == nil || token.Mint == "" {
		return storage.ErrInvalidInput
	}

	risks, err := json.Marshal(token.Risks)
	if err != nil {
		return fmt.Errorf("marshal risks: %w", err)
	}

	query := `
		INSERT INTO screened_tokens (mint, symbol, name, score, risks, screened_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.pool.Exec(ctx, query,
		token.Mint, token.Symbol, token.Name, token.Score, risks, token.ScreenedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert screened token: %w", err)
	}
	return nil
}

// GetByMint retrieves a screened token. Returns ErrNotFound if the mint
// was never stored.
func (s *TokenStore) GetByMint(ctx context.Context, mint string) (*domain.ScreenedToken, error) {
	query := `
		SELECT mint, symbol, name, score, risks, screened_at
		FROM screened_tokens
		WHERE mint = $1
	`

	var (
		token domain.ScreenedToken
		risks []byte
	)
	err := s.pool.QueryRow(ctx, query, mint).Scan(
		&token.Mint, &token.Symbol, &token.Name, &token.Score, &risks, &token.ScreenedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select screened token: %w", err)
	}

	if len(risks) > 0 {
		if err := json.Unmarshal(risks, &token.Risks); err != nil {
			return nil, fmt.Errorf("unmarshal risks: %w", err)
		}
	}
	return &token, nil
}
