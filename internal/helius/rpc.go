package helius

import "context"

// SPL token program owning all token accounts queried by
// GetTokenAccountsByMint.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// Token account record size used for the dataSize filter.
const TokenAccountDataSize = 165

// RPCClient defines the upstream RPC surface the analytics pipeline
// consumes.
type RPCClient interface {
	// GetTokenMetadata resolves decimals and symbol for a mint.
	GetTokenMetadata(ctx context.Context, mint string) (*TokenMetadataResult, error)

	// GetTokenAccountsByMint enumerates SPL token accounts holding the
	// given mint (getProgramAccounts with dataSize and memcmp filters).
	GetTokenAccountsByMint(ctx context.Context, mint string) ([]ProgramAccount, error)

	// GetAssetPricing resolves the current USD price of a mint.
	GetAssetPricing(ctx context.Context, mint string) (*PricingResult, error)

	// GetSignaturesForAddress lists recent signatures for an address.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetTransaction retrieves a parsed transaction by signature.
	// Returns nil when the transaction is not found.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)
}
