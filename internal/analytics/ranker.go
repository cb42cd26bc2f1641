// Package analytics implements the trader-analytics pipeline: holder
// discovery, price lookup, per-wallet history analysis and ranking.
package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/observability"
	"solana-token-screener/internal/storage"
)

// DefaultMinTransactions is the activity threshold a holder must meet
// to appear in a ranking.
const DefaultMinTransactions = 5

// RankerOptions configures a Ranker.
type RankerOptions struct {
	// WalletConcurrency bounds the per-holder analysis fan-out. The
	// bound is a resource concern (upstream rate limits, sockets), not
	// a correctness one: wallet analyses share no state.
	WalletConcurrency int

	Metrics *observability.Metrics
}

// Ranker fans wallet analysis out over a token's holder set and
// produces the ranked top-traders list.
type Ranker struct {
	holders *HolderScanner
	price   *PriceLookup
	wallets *WalletAnalyzer
	store   storage.TraderAnalysisStore
	opts    RankerOptions
}

// NewRanker creates a Ranker. The store may be nil, in which case
// AnalyzeToken skips persistence.
func NewRanker(holders *HolderScanner, price *PriceLookup, wallets *WalletAnalyzer, store storage.TraderAnalysisStore, opts RankerOptions) *Ranker {
	if opts.WalletConcurrency <= 0 {
		opts.WalletConcurrency = DefaultTopHoldersLimit
	}
	return &Ranker{
		holders: holders,
		price:   price,
		wallets: wallets,
		store:   store,
		opts:    opts,
	}
}

// TopTraders ranks the most active holders of a token. Holder discovery
// failure aborts the ranking; a single wallet's failed analysis only
// removes that wallet.
func (r *Ranker) TopTraders(ctx context.Context, mint string, minTransactions int) ([]domain.TraderRecord, error) {
	if minTransactions <= 0 {
		minTransactions = DefaultMinTransactions
	}

	var (
		holders []domain.Holder
		price   float64
	)

	// Holder and price fetches are independent.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holders, err = r.holders.Holders(gctx, mint)
		return err
	})
	g.Go(func() error {
		price = r.price.Price(gctx, mint)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discover holders: %w", err)
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.HoldersDiscovered.Observe(float64(len(holders)))
	}

	records, err := r.analyzeHolders(ctx, holders, price, minTransactions)
	if err != nil {
		return nil, err
	}

	domain.SortTraderRecords(records)
	return records, nil
}

// analyzeHolders runs the per-wallet fan-out and filters survivors.
func (r *Ranker) analyzeHolders(ctx context.Context, holders []domain.Holder, price float64, minTransactions int) ([]domain.TraderRecord, error) {
	results := make([]*domain.TraderRecord, len(holders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.WalletConcurrency)
	for i, holder := range holders {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if holder.Owner == "" || !holder.OnCurve {
				// Program-derived addresses hold balances but do not
				// trade; there is no wallet history to analyze.
				return nil
			}

			analysis := r.wallets.Analyze(gctx, holder.Owner, time.Time{})
			if analysis.Failed {
				if err := gctx.Err(); err != nil {
					// Cancellation, not an individual wallet failure.
					return err
				}
				// This wallet drops out; siblings keep running.
				return nil
			}
			if analysis.Metrics.TotalTransactions < minTransactions {
				return nil
			}

			record := domain.TraderRecord{
				Wallet:        holder.Owner,
				Balance:       holder.Amount,
				Decimals:      holder.Decimals,
				Symbol:        holder.Symbol,
				WalletMetrics: analysis.Metrics,
			}
			if price > 0 {
				record.BalanceUSD = holder.Amount * price
			}
			results[i] = &record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]domain.TraderRecord, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// AnalyzeToken is the pipeline entry point: compute the ranking, then
// persist a snapshot. A storage failure is logged and returned together
// with the computed ranking - the result is never discarded and the
// save is never retried here.
func (r *Ranker) AnalyzeToken(ctx context.Context, mint string, minTransactions int) (*domain.Ranking, error) {
	start := time.Now()

	traders, err := r.TopTraders(ctx, mint, minTransactions)
	if err != nil {
		return nil, err
	}
	// An aborted run persists nothing, even when the fan-out raced the
	// cancellation to completion.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranking := &domain.Ranking{
		TokenAddress: mint,
		ObservedAt:   time.Now().UTC(),
		Traders:      traders,
	}

	if r.opts.Metrics != nil {
		r.opts.Metrics.RankingsComputed.Inc()
		r.opts.Metrics.RankingDuration.Observe(time.Since(start).Seconds())
	}

	if r.store != nil {
		if err := r.store.SaveRanking(ctx, ranking); err != nil {
			log.Printf("ranker: save ranking for %s: %v", mint, err)
			if r.opts.Metrics != nil {
				r.opts.Metrics.StorageErrors.WithLabelValues("trader_analysis").Inc()
			}
			return ranking, fmt.Errorf("save ranking: %w", err)
		}
	}

	return ranking, nil
}
