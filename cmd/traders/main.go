// Package main runs the trader-analytics pipeline for one token and
// prints the ranked top-traders list.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-token-screener/internal/analytics"
	"solana-token-screener/internal/config"
	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/helius"
	"solana-token-screener/internal/storage"
	"solana-token-screener/internal/storage/clickhouse"
	"solana-token-screener/internal/storage/memory"
	"solana-token-screener/internal/storage/migrations"
	"solana-token-screener/internal/storage/postgres"
)

func main() {
	mint := flag.String("mint", "", "Token mint address to analyze (required)")
	minTx := flag.Int("min-tx", 0, "Minimum transactions per trader (default from env)")
	noStore := flag.Bool("no-store", false, "Skip persisting the ranking snapshot")
	flag.Parse()

	if *mint == "" {
		fmt.Fprintln(os.Stderr, "Usage: traders -mint <address> [-min-tx N] [-no-store]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling analysis...\n", sig)
		cancel()
	}()

	store, cleanup, err := buildAnalysisStore(ctx, cfg, *noStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	rpc := helius.NewClient(cfg.RPCEndpoint(),
		helius.WithRateLimitCooldown(cfg.RateLimitCooldown),
		helius.WithMaxRateLimitWaits(cfg.MaxRateLimitWaits),
	)

	ranker := analytics.NewRanker(
		analytics.NewHolderScanner(rpc, analytics.HolderScannerOptions{
			TopHoldersLimit: cfg.TopHoldersLimit,
			PageSize:        cfg.PageSize,
			CacheTTL:        cfg.HolderCacheTTL,
		}),
		analytics.NewPriceLookup(rpc),
		analytics.NewWalletAnalyzer(rpc, analytics.WalletAnalyzerOptions{
			Lookback: cfg.Lookback(),
		}),
		store,
		analytics.RankerOptions{},
	)

	minTransactions := *minTx
	if minTransactions <= 0 {
		minTransactions = cfg.MinTransactions
	}

	ranking, err := ranker.AnalyzeToken(ctx, *mint, minTransactions)
	if err != nil && ranking == nil {
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		// Ranking computed but persistence failed; still print it.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	printRanking(ranking)
}

// buildAnalysisStore picks the configured backend: postgres when
// DATABASE_URL is set (with a clickhouse tee when CLICKHOUSE_URL is
// too), otherwise in-memory.
func buildAnalysisStore(ctx context.Context, cfg *config.Config, noStore bool) (storage.TraderAnalysisStore, func(), error) {
	if noStore {
		return nil, func() {}, nil
	}

	if cfg.DatabaseURL == "" {
		return memory.NewTraderAnalysisStore(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	var store storage.TraderAnalysisStore = postgres.NewTraderAnalysisStore(pool)
	cleanup := pool.Close

	if cfg.ClickhouseURL != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.ClickhouseURL)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			conn.Close()
			pool.Close()
			return nil, nil, err
		}
		store = storage.NewTeeAnalysisStore(store, clickhouse.NewTraderAnalysisStore(conn))
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}

	return store, cleanup, nil
}

func printRanking(ranking *domain.Ranking) {
	fmt.Printf("Top traders for %s (observed %s)\n",
		ranking.TokenAddress, ranking.ObservedAt.Format(time.RFC3339))
	if len(ranking.Traders) == 0 {
		fmt.Println("  no traders met the activity threshold")
		return
	}

	fmt.Printf("%-4s %-44s %14s %12s %5s %5s %6s %s\n",
		"#", "WALLET", "BALANCE", "USD", "OK", "FAIL", "TOKENS", "LAST ACTIVE")
	for i, t := range ranking.Traders {
		lastActive := "-"
		if t.LastActive != nil {
			lastActive = t.LastActive.Format(time.RFC3339)
		}
		fmt.Printf("%-4d %-44s %14.4f %12.2f %5d %5d %6d %s\n",
			i+1, t.Wallet, t.Balance, t.BalanceUSD,
			t.SuccessfulTrades, t.FailedTrades, t.UniqueTokensTraded, lastActive)
	}
}
