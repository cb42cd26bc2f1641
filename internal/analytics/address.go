package analytics

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// decodeAddress decodes a base58 Solana address and checks its length.
func decodeAddress(addr string) ([]byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("address is %d bytes, want 32", len(raw))
	}
	return raw, nil
}

// isOnCurve reports whether a 32-byte key lies on the ed25519 curve.
// User wallets are on-curve; program-derived addresses are not.
func isOnCurve(key []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(key)
	return err == nil
}
