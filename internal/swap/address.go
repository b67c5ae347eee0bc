// Package swap implements DEX-agnostic swap detection from Solana
// token-balance deltas: the balance analyzer, the classifier, and
// the detector that turns a classified transaction into a SwapSignal.
package swap

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Address is an opaque 32-byte Solana public key. Equality and hashing
// happen on the raw bytes; Text() gives the canonical base58 form used
// for I/O and for map keys in the rest of the package.
type Address [32]byte

// ParseAddress decodes a base58-encoded public key.
func ParseAddress(text string) (Address, error) {
	var addr Address
	raw, err := base58.Decode(text)
	if err != nil {
		return addr, fmt.Errorf("parse address %q: %w", text, err)
	}
	if len(raw) != len(addr) {
		return addr, fmt.Errorf("parse address %q: expected 32 bytes, got %d", text, len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

// Text returns the canonical base58 text form of the address.
func (a Address) Text() string {
	return base58.Encode(a[:])
}

func (a Address) String() string {
	return a.Text()
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler so Address can be used
// as a JSON object key (the persisted portfolio's "positions" map is
// keyed by mint address text) as well as a regular JSON string value.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Text()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, the counterpart
// to MarshalText.
func (a *Address) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Signature is an opaque 64-byte transaction identifier, used as the
// ingester's deduplication key.
type Signature [64]byte

// ParseSignature decodes a base58-encoded transaction signature.
func ParseSignature(text string) (Signature, error) {
	var sig Signature
	raw, err := base58.Decode(text)
	if err != nil {
		return sig, fmt.Errorf("parse signature %q: %w", text, err)
	}
	if len(raw) != len(sig) {
		return sig, fmt.Errorf("parse signature %q: expected 64 bytes, got %d", text, len(raw))
	}
	copy(sig[:], raw)
	return sig, nil
}

// Text returns the canonical base58 text form of the signature.
func (s Signature) Text() string {
	return base58.Encode(s[:])
}

func (s Signature) String() string {
	return s.Text()
}

// WrappedNativeMint is the mint address representing wrapped SOL.
// Its deltas are attributable to fee settlement and are dropped
// unconditionally by the balance analyzer.
var WrappedNativeMint = mustParseAddress("So11111111111111111111111111111111111111112")

func mustParseAddress(text string) Address {
	a, err := ParseAddress(text)
	if err != nil {
		panic(err)
	}
	return a
}
