package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HELIUS_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxSecurityScore != 5000 {
		t.Errorf("expected default max security score 5000, got %d", cfg.MaxSecurityScore)
	}
	if cfg.TopHoldersLimit != 20 {
		t.Errorf("expected default top holders limit 20, got %d", cfg.TopHoldersLimit)
	}
	if cfg.MinTransactions != 5 {
		t.Errorf("expected default min transactions 5, got %d", cfg.MinTransactions)
	}
	if cfg.LookbackDays != 7 {
		t.Errorf("expected default lookback 7 days, got %d", cfg.LookbackDays)
	}
	if cfg.RateLimitCooldown != 10*time.Second {
		t.Errorf("expected default cool-down 10s, got %s", cfg.RateLimitCooldown)
	}
	if cfg.ReconnectDelay != 30*time.Second {
		t.Errorf("expected default reconnect delay 30s, got %s", cfg.ReconnectDelay)
	}
	if cfg.PingInterval != 45*time.Second {
		t.Errorf("expected default ping interval 45s, got %s", cfg.PingInterval)
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("HELIUS_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without HELIUS_API_KEY")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HELIUS_API_KEY", "test-key")
	t.Setenv("TOP_HOLDERS_LIMIT", "50")
	t.Setenv("MIN_TRANSACTIONS", "3")
	t.Setenv("RATE_LIMIT_COOLDOWN_SECONDS", "2")
	t.Setenv("MAX_RATE_LIMIT_WAITS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TopHoldersLimit != 50 {
		t.Errorf("expected top holders limit 50, got %d", cfg.TopHoldersLimit)
	}
	if cfg.MinTransactions != 3 {
		t.Errorf("expected min transactions 3, got %d", cfg.MinTransactions)
	}
	if cfg.RateLimitCooldown != 2*time.Second {
		t.Errorf("expected cool-down 2s, got %s", cfg.RateLimitCooldown)
	}
	if cfg.MaxRateLimitWaits != 4 {
		t.Errorf("expected max waits 4, got %d", cfg.MaxRateLimitWaits)
	}
}

func TestRPCEndpoint(t *testing.T) {
	cfg := &Config{HeliusBaseURL: "https://rpc.example.com/?api-key=", HeliusAPIKey: "abc"}
	if got := cfg.RPCEndpoint(); got != "https://rpc.example.com/?api-key=abc" {
		t.Errorf("unexpected endpoint %s", got)
	}
}

func TestLookback(t *testing.T) {
	cfg := &Config{LookbackDays: 7}
	if got := cfg.Lookback(); got != 7*24*time.Hour {
		t.Errorf("expected 168h, got %s", got)
	}
}
