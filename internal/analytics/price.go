package analytics

import (
	"context"
	"log"

	"solana-token-screener/internal/helius"
)

// PriceLookup resolves a token's current USD price. Price failures are
// non-fatal: any resolution problem degrades to an unknown price of 0.
type PriceLookup struct {
	rpc helius.RPCClient
}

// NewPriceLookup creates a PriceLookup.
func NewPriceLookup(rpc helius.RPCClient) *PriceLookup {
	return &PriceLookup{rpc: rpc}
}

// Price returns the USD price for a mint, or 0 when it cannot be
// resolved.
func (p *PriceLookup) Price(ctx context.Context, mint string) float64 {
	result, err := p.rpc.GetAssetPricing(ctx, mint)
	if err != nil {
		log.Printf("price lookup: %s: %v", mint, err)
		return 0
	}
	return result.Price
}
