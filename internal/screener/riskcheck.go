package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"solana-token-screener/internal/domain"
	"solana-token-screener/internal/helius"
)

// Risk checker defaults.
const (
	DefaultMaxSecurityScore = 5000
	DefaultRiskTimeout      = 30 * time.Second
)

// RiskReport is the screening service's verdict for one token.
type RiskReport struct {
	Score     int           `json:"score"`
	Risks     []domain.Risk `json:"risks"`
	TokenMeta struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"tokenMeta"`
	ErrorMessage string `json:"error"`
}

// RiskCheckerConfig configures a RiskChecker.
type RiskCheckerConfig struct {
	// MaxSecurityScore is the pass threshold: reports scoring above it
	// fail screening.
	MaxSecurityScore int
	// RateLimitCooldown is the fixed wait applied after a 429, matching
	// the RPC client's policy.
	RateLimitCooldown time.Duration
	// MaxRateLimitWaits bounds the cool-downs per request; 0 means
	// unbounded.
	MaxRateLimitWaits int
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// RiskChecker queries the token risk-scoring service.
type RiskChecker struct {
	baseURL string
	config  RiskCheckerConfig
	client  *http.Client
}

// NewRiskChecker creates a RiskChecker for the given API base URL.
func NewRiskChecker(baseURL string, config RiskCheckerConfig) *RiskChecker {
	if config.MaxSecurityScore <= 0 {
		config.MaxSecurityScore = DefaultMaxSecurityScore
	}
	if config.RateLimitCooldown <= 0 {
		config.RateLimitCooldown = helius.DefaultRateLimitCooldown
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultRiskTimeout}
	}
	return &RiskChecker{baseURL: baseURL, config: config, client: client}
}

// Check fetches the risk report for a mint. 429 responses are waited
// out with the fixed cool-down; 200 and 400 both carry a decodable
// body (400 is "token not known", reported as a nil report). Any other
// status is an upstream error.
func (r *RiskChecker) Check(ctx context.Context, mint string) (*RiskReport, error) {
	url := fmt.Sprintf("%s/%s/report", r.baseURL, mint)

	waits := 0
	for {
		body, status, err := r.fetchOnce(ctx, url)
		if err != nil {
			return nil, err
		}

		switch {
		case status == http.StatusTooManyRequests:
			waits++
			if r.config.MaxRateLimitWaits > 0 && waits > r.config.MaxRateLimitWaits {
				return nil, fmt.Errorf("risk check %s: %w", mint, helius.ErrDeadlineExceeded)
			}
			log.Printf("risk check: rate limited, waiting %s", r.config.RateLimitCooldown)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.config.RateLimitCooldown):
			}

		case status == http.StatusOK || status == http.StatusBadRequest:
			var report RiskReport
			if err := json.Unmarshal(body, &report); err != nil {
				return nil, fmt.Errorf("decode risk report: %w", err)
			}
			if report.ErrorMessage != "" {
				// Token not known to the screening service.
				return nil, nil
			}
			return &report, nil

		default:
			return nil, &helius.UpstreamError{Status: status, Body: string(body)}
		}
	}
}

func (r *RiskChecker) fetchOnce(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Passes reports whether a screened token clears the score threshold.
// A nil report never passes.
func (r *RiskChecker) Passes(report *RiskReport) bool {
	if report == nil {
		return false
	}
	return report.Score <= r.config.MaxSecurityScore
}
