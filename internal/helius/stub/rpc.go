// Package stub provides an in-memory helius.RPCClient for testing.
package stub

import (
	"context"
	"errors"

	"solana-token-screener/internal/helius"
)

// ErrUnavailable simulates an upstream failure for addresses or mints
// registered through FailFor.
var ErrUnavailable = errors.New("stub: upstream unavailable")

// RPCClient implements helius.RPCClient backed by maps.
type RPCClient struct {
	Metadata     map[string]*helius.TokenMetadataResult
	Accounts     map[string][]helius.ProgramAccount
	Prices       map[string]float64
	Signatures   map[string][]helius.SignatureInfo
	Transactions map[string]*helius.Transaction

	// failures marks keys (mint, wallet or signature) whose lookups
	// error out.
	failures map[string]bool
}

// NewRPCClient creates an empty stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Metadata:     make(map[string]*helius.TokenMetadataResult),
		Accounts:     make(map[string][]helius.ProgramAccount),
		Prices:       make(map[string]float64),
		Signatures:   make(map[string][]helius.SignatureInfo),
		Transactions: make(map[string]*helius.Transaction),
		failures:     make(map[string]bool),
	}
}

// Compile-time interface check.
var _ helius.RPCClient = (*RPCClient)(nil)

// FailFor makes every lookup of the given key return ErrUnavailable.
func (c *RPCClient) FailFor(key string) {
	c.failures[key] = true
}

// GetTokenMetadata returns registered metadata or an error when absent.
func (c *RPCClient) GetTokenMetadata(_ context.Context, mint string) (*helius.TokenMetadataResult, error) {
	if c.failures[mint] {
		return nil, ErrUnavailable
	}
	meta, ok := c.Metadata[mint]
	if !ok {
		return nil, &helius.RPCError{Code: -32602, Message: "token metadata not found"}
	}
	return meta, nil
}

// GetTokenAccountsByMint returns registered accounts for a mint.
func (c *RPCClient) GetTokenAccountsByMint(_ context.Context, mint string) ([]helius.ProgramAccount, error) {
	if c.failures[mint] {
		return nil, ErrUnavailable
	}
	return c.Accounts[mint], nil
}

// GetAssetPricing returns a registered price or an error when absent.
func (c *RPCClient) GetAssetPricing(_ context.Context, mint string) (*helius.PricingResult, error) {
	if c.failures[mint] {
		return nil, ErrUnavailable
	}
	price, ok := c.Prices[mint]
	if !ok {
		return nil, &helius.RPCError{Code: -32602, Message: "no price feed"}
	}
	return &helius.PricingResult{Price: price}, nil
}

// GetSignaturesForAddress returns registered signatures, honoring Limit.
func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *helius.SignaturesOpts) ([]helius.SignatureInfo, error) {
	if c.failures[address] {
		return nil, ErrUnavailable
	}
	sigs := c.Signatures[address]
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}
	return sigs, nil
}

// GetTransaction returns a registered transaction, nil when unknown.
func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*helius.Transaction, error) {
	if c.failures[signature] {
		return nil, ErrUnavailable
	}
	return c.Transactions[signature], nil
}
