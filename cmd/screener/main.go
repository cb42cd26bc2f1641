// Package main runs the token screener service: it consumes the live
// new-token feed, screens each token against the risk-scoring service,
// stores tokens that pass and, optionally, runs trader analytics on
// them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"solana-token-screener/internal/analytics"
	"solana-token-screener/internal/config"
	"solana-token-screener/internal/helius"
	"solana-token-screener/internal/observability"
	"solana-token-screener/internal/screener"
	"solana-token-screener/internal/storage"
	"solana-token-screener/internal/storage/memory"
	"solana-token-screener/internal/storage/migrations"
	"solana-token-screener/internal/storage/postgres"
)

func main() {
	analyze := flag.Bool("analyze", false, "Run trader analytics on tokens that pass screening")
	metricsAddr := flag.String("metrics-addr", ":9100", "Prometheus metrics listen address (empty to disable)")
	flag.Parse()

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
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	metrics, registry := observability.NewMetrics("")
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler(registry))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	tokens, analyses, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	var analyzeFn screener.AnalyzeFunc
	if *analyze {
		rpc := helius.NewClient(cfg.RPCEndpoint(),
			helius.WithRateLimitCooldown(cfg.RateLimitCooldown),
			helius.WithMaxRateLimitWaits(cfg.MaxRateLimitWaits),
			helius.WithMetrics(metrics),
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
				Metrics:  metrics,
			}),
			analyses,
			analytics.RankerOptions{Metrics: metrics},
		)
		analyzeFn = func(ctx context.Context, mint string) {
			if _, err := ranker.AnalyzeToken(ctx, mint, cfg.MinTransactions); err != nil {
				log.Printf("analyze %s: %v", mint, err)
			}
		}
	}

	checker := screener.NewRiskChecker(cfg.RiskAPIBaseURL, screener.RiskCheckerConfig{
		MaxSecurityScore:  cfg.MaxSecurityScore,
		RateLimitCooldown: cfg.RateLimitCooldown,
		MaxRateLimitWaits: cfg.MaxRateLimitWaits,
	})
	service := screener.NewService(checker, tokens, analyzeFn, metrics)

	listener := screener.NewListener(cfg.FeedURI, &screener.ListenerConfig{
		ReconnectDelay: cfg.ReconnectDelay,
		PingInterval:   cfg.PingInterval,
		WriteTimeout:   screener.DefaultWriteTimeout,
	})

	events := make(chan screener.TokenEvent, 100)
	go func() {
		if err := listener.Run(ctx, events); err != nil && ctx.Err() == nil {
			log.Printf("feed listener stopped: %v", err)
			cancel()
		}
	}()

	if err := service.Run(ctx, events); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Screener error: %v\n", err)
		os.Exit(1)
	}
	log.Println("shutdown complete")
}

// buildStores wires the configured persistence: postgres when
// DATABASE_URL is set, in-memory otherwise.
func buildStores(ctx context.Context, cfg *config.Config) (storage.TokenStore, storage.TraderAnalysisStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, using in-memory stores")
		return memory.NewTokenStore(), memory.NewTraderAnalysisStore(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return postgres.NewTokenStore(pool), postgres.NewTraderAnalysisStore(pool), pool.Close, nil
}
