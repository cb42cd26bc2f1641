// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the screener and the analytics
// pipeline.
type Config struct {
	// Upstream RPC
	HeliusAPIKey  string
	HeliusBaseURL string

	// Feed and risk screening
	FeedURI          string
	RiskAPIBaseURL   string
	MaxSecurityScore int

	// Persistence
	DatabaseURL   string
	ClickhouseURL string // optional analytical sink

	// Analytics
	TopHoldersLimit   int
	MinTransactions   int
	LookbackDays      int
	PageSize          int
	RateLimitCooldown time.Duration
	MaxRateLimitWaits int
	HolderCacheTTL    time.Duration

	// Feed connection
	ReconnectDelay time.Duration
	PingInterval   time.Duration
}

// Defaults applied for unset environment variables.
const (
	defaultHeliusBaseURL  = "https://mainnet.helius-rpc.com/?api-key="
	defaultFeedURI        = "wss://pumpportal.fun/api/data"
	defaultRiskAPIBaseURL = "https://api.rugcheck.xyz/v1/tokens"
)

// Load reads configuration from the environment. A .env file is loaded
// first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		HeliusAPIKey:      os.Getenv("HELIUS_API_KEY"),
		HeliusBaseURL:     getEnv("HELIUS_BASE_URL", defaultHeliusBaseURL),
		FeedURI:           getEnv("FEED_URI", defaultFeedURI),
		RiskAPIBaseURL:    getEnv("RISK_API_BASE_URL", defaultRiskAPIBaseURL),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ClickhouseURL:     os.Getenv("CLICKHOUSE_URL"),
		MaxSecurityScore:  getEnvInt("MAX_SECURITY_SCORE", 5000),
		TopHoldersLimit:   getEnvInt("TOP_HOLDERS_LIMIT", 20),
		MinTransactions:   getEnvInt("MIN_TRANSACTIONS", 5),
		LookbackDays:      getEnvInt("LOOKBACK_DAYS", 7),
		PageSize:          getEnvInt("PAGE_SIZE", 1000),
		RateLimitCooldown: time.Duration(getEnvInt("RATE_LIMIT_COOLDOWN_SECONDS", 10)) * time.Second,
		MaxRateLimitWaits: getEnvInt("MAX_RATE_LIMIT_WAITS", 0),
		HolderCacheTTL:    time.Duration(getEnvInt("HOLDER_CACHE_TTL_SECONDS", 0)) * time.Second,
		ReconnectDelay:    time.Duration(getEnvInt("RECONNECT_DELAY_SECONDS", 30)) * time.Second,
		PingInterval:      time.Duration(getEnvInt("PING_INTERVAL_SECONDS", 45)) * time.Second,
	}

	if cfg.HeliusAPIKey == "" {
		return nil, fmt.Errorf("HELIUS_API_KEY is required")
	}

	return cfg, nil
}

// RPCEndpoint is the fully keyed Helius endpoint.
func (c *Config) RPCEndpoint() string {
	return c.HeliusBaseURL + c.HeliusAPIKey
}

// Lookback is the analysis window as a duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
