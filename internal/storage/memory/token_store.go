package memory

import (
	"context"
	"sync"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScreenedToken // keyed by mint
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data: make(map[string]*domain.ScreenedToken),
	}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// SaveToken adds a screened token. Returns ErrDuplicateKey if the mint
// was already stored.
func (s *TokenStore) SaveToken(_ context.Context, token *domain.ScreenedToken) error {
	if token == nil || token.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[token.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	stored := *token
	s.data[token.Mint] = &stored
	return nil
}

// GetByMint retrieves a screened token. Returns ErrNotFound if the mint
// was never stored.
func (s *TokenStore) GetByMint(_ context.Context, mint string) (*domain.ScreenedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.data[mint]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := *token
	return &out, nil
}
