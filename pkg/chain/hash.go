// Package chain models the ledger environment the distribution runs inside:
// a block-hash oracle, a trusted clock, and the 32-byte hash values that flow
// between them.
package chain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// HashLength is the size in bytes of every hash, seed and commitment.
const HashLength = 32

// Hash is a fixed-size 32-byte value.
type Hash [HashLength]byte

// ZeroHash is the all-zero hash.
var ZeroHash Hash

// Keccak256 hashes the concatenation of data with legacy Keccak-256,
// the same function Ethereum exposes as keccak256.
func Keccak256(data ...[]byte) Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var h Hash
	d.Sum(h[:0])
	return h
}

// Xor returns h XOR other.
func (h Hash) Xor(other Hash) Hash {
	var out Hash
	for i := range h {
		out[i] = h[i] ^ other[i]
	}
	return out
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Bytes returns a copy of h as a slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashLength)
	copy(b, h[:])
	return b
}

// Hex returns the 0x-prefixed lowercase hex encoding of h.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// String implements fmt.Stringer.
func (h Hash) String() string {
	return h.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash decodes a 32-byte hex string, with or without the 0x prefix.
func ParseHash(s string) (Hash, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("parse hash: %w", err)
	}
	if len(raw) != HashLength {
		return Hash{}, fmt.Errorf("parse hash: expected %d bytes, got %d", HashLength, len(raw))
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

// Uint256 encodes v as a 32-byte big-endian word.
func Uint256(v uint64) []byte {
	word := make([]byte, HashLength)
	binary.BigEndian.PutUint64(word[HashLength-8:], v)
	return word
}
