package analytics

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/helius"
	"solana-token-screener/internal/observability"
)

// Wallet analysis defaults.
const (
	DefaultMaxSignatures = 100
	DefaultMaxTxDetails  = 10
	DefaultLookbackDays  = 7
)

// WalletAnalyzerOptions configures a WalletAnalyzer.
type WalletAnalyzerOptions struct {
	// MaxSignatures caps the signature listing per wallet.
	MaxSignatures int
	// MaxTxDetails caps how many transaction bodies are resolved.
	MaxTxDetails int
	// TxConcurrency bounds the transaction-resolution fan-out. Defaults
	// to MaxTxDetails.
	TxConcurrency int
	// Lookback is the analysis window. Defaults to 7 days.
	Lookback time.Duration

	Metrics *observability.Metrics
}

// WalletAnalyzer reconstructs a wallet's recent transaction history and
// reduces it into trading metrics.
type WalletAnalyzer struct {
	rpc  helius.RPCClient
	opts WalletAnalyzerOptions
}

// NewWalletAnalyzer creates a WalletAnalyzer. Zero option fields take
// defaults.
func NewWalletAnalyzer(rpc helius.RPCClient, opts WalletAnalyzerOptions) *WalletAnalyzer {
	if opts.MaxSignatures <= 0 {
		opts.MaxSignatures = DefaultMaxSignatures
	}
	if opts.MaxTxDetails <= 0 {
		opts.MaxTxDetails = DefaultMaxTxDetails
	}
	if opts.TxConcurrency <= 0 {
		opts.TxConcurrency = opts.MaxTxDetails
	}
	if opts.Lookback <= 0 {
		opts.Lookback = DefaultLookbackDays * 24 * time.Hour
	}
	return &WalletAnalyzer{rpc: rpc, opts: opts}
}

// Analyze reduces the wallet's recent transactions into metrics. The
// since cutoff defaults to now minus the configured lookback when zero.
//
// A failed signature listing returns Failed=true with zero metrics; a
// wallet with no qualifying activity returns Failed=false with zero
// metrics. Transactions that fail to resolve are absent data: they are
// dropped from the reduction, not counted as failed trades. A context
// cancelled mid fan-out also returns Failed=true — callers that need to
// tell cancellation from wallet failure check their context.
func (a *WalletAnalyzer) Analyze(ctx context.Context, wallet string, since time.Time) domain.WalletAnalysis {
	if since.IsZero() {
		since = time.Now().Add(-a.opts.Lookback)
	}

	sigs, err := a.rpc.GetSignaturesForAddress(ctx, wallet, &helius.SignaturesOpts{
		Limit: a.opts.MaxSignatures,
	})
	if err != nil {
		log.Printf("wallet analyzer: signatures for %s: %v", wallet, err)
		if a.opts.Metrics != nil {
			a.opts.Metrics.WalletAnalysisFailed.Inc()
		}
		return domain.WalletAnalysis{Failed: true}
	}
	if a.opts.Metrics != nil {
		a.opts.Metrics.WalletsAnalyzed.Inc()
	}

	cutoff := since.Unix()
	recent := make([]helius.SignatureInfo, 0, len(sigs))
	for _, sig := range sigs {
		if sig.BlockTime != nil && *sig.BlockTime < cutoff {
			continue
		}
		recent = append(recent, sig)
	}

	if len(recent) > a.opts.MaxTxDetails {
		recent = recent[:a.opts.MaxTxDetails]
	}

	txs, err := a.resolveTransactions(ctx, recent)
	if err != nil {
		// Cancellation mid fan-out: partial data must not masquerade
		// as metrics.
		log.Printf("wallet analyzer: transactions for %s: %v", wallet, err)
		if a.opts.Metrics != nil {
			a.opts.Metrics.WalletAnalysisFailed.Inc()
		}
		return domain.WalletAnalysis{Failed: true}
	}
	return domain.WalletAnalysis{Metrics: reduceTransactions(txs)}
}

// resolveTransactions fetches transaction bodies concurrently. Ordering
// is irrelevant: the metric reduction is commutative. An individual
// fetch failure drops that transaction; context cancellation is
// returned to the caller.
func (a *WalletAnalyzer) resolveTransactions(ctx context.Context, sigs []helius.SignatureInfo) ([]*helius.Transaction, error) {
	resolved := make([]*helius.Transaction, len(sigs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.TxConcurrency)
	for i, sig := range sigs {
		g.Go(func() error {
			tx, err := a.rpc.GetTransaction(ctx, sig.Signature)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				// Absent data: drop from the reduction.
				log.Printf("wallet analyzer: transaction %s: %v", sig.Signature, err)
				return nil
			}
			resolved[i] = tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	txs := make([]*helius.Transaction, 0, len(resolved))
	for _, tx := range resolved {
		if tx != nil {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// reduceTransactions folds resolved transactions into WalletMetrics.
func reduceTransactions(txs []*helius.Transaction) domain.WalletMetrics {
	metrics := domain.WalletMetrics{TotalTransactions: len(txs)}
	mints := make(map[string]struct{})

	for _, tx := range txs {
		if tx.Meta == nil || tx.Meta.Err == nil {
			metrics.SuccessfulTrades++
		} else {
			metrics.FailedTrades++
		}

		if tx.BlockTime != nil {
			ts := time.Unix(*tx.BlockTime, 0).UTC()
			if metrics.LastActive == nil || ts.After(*metrics.LastActive) {
				metrics.LastActive = &ts
			}
		}

		if tx.Meta == nil {
			continue
		}
		for _, inner := range tx.Meta.InnerInstructions {
			for _, transfer := range inner.TokenTransfers {
				if transfer.Mint != "" {
					mints[transfer.Mint] = struct{}{}
				}
			}
		}
	}

	metrics.UniqueTokensTraded = len(mints)
	return metrics
}
