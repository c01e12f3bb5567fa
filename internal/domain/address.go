package domain

import (
	"strings"

	"github.com/mr-tron/base58"
)

const ledgerKeyLength = 32

// IsLedgerAddress reports whether s looks like a ledger account address:
// a base58 string decoding to exactly 32 bytes. Hex-prefixed addresses
// (other chains' wallets surfaced by the same auth provider) never match.
func IsLedgerAddress(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.HasPrefix(trimmed, "0x") {
		return false
	}

	decoded, err := base58.Decode(trimmed)
	if err != nil {
		return false
	}

	return len(decoded) == ledgerKeyLength
}
