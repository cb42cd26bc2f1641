package domain

// Defaults applied when token metadata cannot be resolved.
const (
	DefaultDecimals = 9
	DefaultSymbol   = "UNKNOWN"
)

// TokenMetadata describes a token mint. Resolution is best-effort;
// unresolved fields fall back to DefaultDecimals/DefaultSymbol.
type TokenMetadata struct {
	Decimals int
	Symbol   string
}

// DefaultTokenMetadata returns metadata with fallback values.
func DefaultTokenMetadata() TokenMetadata {
	return TokenMetadata{
		Decimals: DefaultDecimals,
		Symbol:   DefaultSymbol,
	}
}

// Holder is a snapshot of a token account with a nonzero balance,
// taken at fetch time. Holders are not persisted directly.
type Holder struct {
	Owner    string
	Amount   float64 // ui amount (decimals applied)
	Decimals int
	Symbol   string

	// OnCurve reports whether the owner key lies on the ed25519 curve.
	// Program-derived addresses are off-curve; they still hold balances
	// but are not user wallets.
	OnCurve bool
}
