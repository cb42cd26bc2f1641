package screener

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/observability"
	"solana-token-screener/internal/storage"
)

// AnalyzeFunc is invoked for tokens that pass screening, typically the
// trader-analytics pipeline.
type AnalyzeFunc func(ctx context.Context, mint string)

// Service screens feed events and persists tokens that pass.
type Service struct {
	checker *RiskChecker
	tokens  storage.TokenStore
	analyze AnalyzeFunc
	metrics *observability.Metrics
}

// NewService creates a screening service. analyze may be nil.
func NewService(checker *RiskChecker, tokens storage.TokenStore, analyze AnalyzeFunc, metrics *observability.Metrics) *Service {
	return &Service{
		checker: checker,
		tokens:  tokens,
		analyze: analyze,
		metrics: metrics,
	}
}

// Run consumes token events until the channel closes or ctx ends.
func (s *Service) Run(ctx context.Context, events <-chan TokenEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.Process(ctx, event); err != nil {
				log.Printf("screener: %s: %v", event.Mint, err)
			}
		}
	}
}

// Process screens one token event. Tokens failing the filter are
// counted and dropped; passing tokens are stored and handed to the
// analyze hook.
func (s *Service) Process(ctx context.Context, event TokenEvent) error {
	if s.metrics != nil {
		s.metrics.TokensSeen.Inc()
	}

	report, err := s.checker.Check(ctx, event.Mint)
	if err != nil {
		return fmt.Errorf("risk check: %w", err)
	}

	if !s.checker.Passes(report) {
		if s.metrics != nil {
			s.metrics.TokensRejected.Inc()
		}
		log.Printf("screener: token %s (%s) failed security filters", event.Mint, event.Symbol)
		return nil
	}

	token := &domain.ScreenedToken{
		Mint:       event.Mint,
		Name:       event.Name,
		Symbol:     report.TokenMeta.Symbol,
		Score:      report.Score,
		Risks:      report.Risks,
		ScreenedAt: time.Now().UTC(),
	}
	if token.Symbol == "" {
		token.Symbol = event.Symbol
	}

	if err := s.tokens.SaveToken(ctx, token); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		if s.metrics != nil {
			s.metrics.StorageErrors.WithLabelValues("tokens").Inc()
		}
		return fmt.Errorf("store token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.TokensScreened.Inc()
	}
	log.Printf("screener: stored token %s (%s), score %d, %d risks",
		token.Mint, token.Symbol, token.Score, len(token.Risks))

	if s.analyze != nil {
		s.analyze(ctx, event.Mint)
	}
	return nil
}
