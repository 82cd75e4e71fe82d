// Package solana provides the minimal Solana primitives the oracle
// function needs: public keys, instructions, and Anchor discriminators.
package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PubkeyLength is the byte length of an ed25519 public key.
const PubkeyLength = 32

// Pubkey is a Solana account address (32 raw bytes).
type Pubkey [PubkeyLength]byte

// ZeroPubkey is the all-zero address, used as the "unset" sentinel
// during parameter decoding.
var ZeroPubkey = Pubkey{}

// PubkeyFromBase58 parses a base58-encoded address.
func PubkeyFromBase58(s string) (Pubkey, error) {
	var pk Pubkey

	decoded, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("decode base58: %w", err)
	}
	if len(decoded) != PubkeyLength {
		return pk, fmt.Errorf("invalid pubkey length: %d", len(decoded))
	}

	copy(pk[:], decoded)
	return pk, nil
}

// MustPubkeyFromBase58 parses a base58 address and panics on failure.
// Intended for constants and tests only.
func MustPubkeyFromBase58(s string) Pubkey {
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// String returns the base58 representation.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// IsZero reports whether the address equals the all-zero sentinel.
func (p Pubkey) IsZero() bool {
	return p == ZeroPubkey
}

// IsOnCurve reports whether the address is a valid ed25519 curve point.
// Program-derived addresses are off-curve; wallet keys are on-curve.
func (p Pubkey) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}
