package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"solana-token-screener/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRateLimitCooldown = 10 * time.Second
)

// Client executes JSON-RPC 2.0 requests against a Helius endpoint.
// Every upstream call in the pipeline goes through Client.call so the
// rate-limit behavior is identical at all call sites: HTTP 429 waits
// the fixed cool-down and retries the same request, up to an optional
// wait budget.
type Client struct {
	endpoint          string
	client            *http.Client
	rateLimitCooldown time.Duration
	maxRateLimitWaits int // 0 means unbounded
	requestID         atomic.Uint64
	metrics           *observability.Metrics
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithRateLimitCooldown sets the fixed wait applied after a 429.
func WithRateLimitCooldown(d time.Duration) ClientOption {
	return func(c *Client) {
		c.rateLimitCooldown = d
	}
}

// WithMaxRateLimitWaits bounds how many cool-downs a single call may
// spend before giving up with ErrDeadlineExceeded. Zero keeps the
// original unbounded behavior.
func WithMaxRateLimitWaits(n int) ClientOption {
	return func(c *Client) {
		c.maxRateLimitWaits = n
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new Helius RPC client.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:          endpoint,
		client:            &http.Client{Timeout: DefaultTimeout},
		rateLimitCooldown: DefaultRateLimitCooldown,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ RPCClient = (*Client)(nil)

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// call performs a JSON-RPC call, waiting out rate limits.
func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqID := c.requestID.Add(1)
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	waits := 0
	for {
		respBody, status, err := c.doOnce(ctx, method, body)
		if err != nil {
			return err
		}

		if status == http.StatusTooManyRequests {
			if c.metrics != nil {
				c.metrics.RateLimitHits.Inc()
			}
			waits++
			if c.maxRateLimitWaits > 0 && waits > c.maxRateLimitWaits {
				return fmt.Errorf("%s: %w", method, ErrDeadlineExceeded)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.rateLimitCooldown):
			}
			continue
		}

		if status != http.StatusOK {
			return &UpstreamError{Status: status, Body: truncate(respBody, 256)}
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}

		if rpcResp.Error != nil {
			return rpcResp.Error
		}

		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}

		return nil
	}
}

// doOnce executes a single HTTP round trip and returns the body and
// status. Transport failures are fatal for the call.
func (c *Client) doOnce(ctx context.Context, method string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if c.metrics != nil {
		c.metrics.RPCCallLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// GetTokenMetadata resolves decimals and symbol for a mint.
func (c *Client) GetTokenMetadata(ctx context.Context, mint string) (*TokenMetadataResult, error) {
	var result TokenMetadataResult
	if err := c.call(ctx, "getTokenMetadata", []interface{}{mint}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTokenAccountsByMint enumerates token accounts for a mint using
// getProgramAccounts with dataSize and memcmp filters.
func (c *Client) GetTokenAccountsByMint(ctx context.Context, mint string) ([]ProgramAccount, error) {
	params := []interface{}{
		TokenProgramID,
		map[string]interface{}{
			"encoding": "jsonParsed",
			"filters": []interface{}{
				map[string]interface{}{"dataSize": TokenAccountDataSize},
				map[string]interface{}{
					"memcmp": map[string]interface{}{
						"offset": 0,
						"bytes":  mint,
					},
				},
			},
		},
	}

	var result []ProgramAccount
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAssetPricing resolves the current USD price of a mint.
func (c *Client) GetAssetPricing(ctx context.Context, mint string) (*PricingResult, error) {
	var result PricingResult
	if err := c.call(ctx, "getAssetPricing", []interface{}{mint}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSignaturesForAddress lists recent signatures for an address.
func (c *Client) GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error) {
	config := make(map[string]interface{})
	if opts != nil {
		if opts.Before != "" {
			config["before"] = opts.Before
		}
		if opts.Until != "" {
			config["until"] = opts.Until
		}
		if opts.Limit > 0 {
			config["limit"] = opts.Limit
		}
	}

	params := []interface{}{address}
	if len(config) > 0 {
		params = append(params, config)
	}

	var result []SignatureInfo
	if err := c.call(ctx, "getSignaturesForAddress", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTransaction retrieves a parsed transaction by signature. Returns
// nil when the transaction is not found.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*Transaction, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var raw json.RawMessage
	if err := c.call(ctx, "getTransaction", params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var tx Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}
	return &tx, nil
}
