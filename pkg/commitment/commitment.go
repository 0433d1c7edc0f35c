// Package commitment holds the guardian's hash commitment.
//
// A commitment must be generated fresh for every distribution: reusing one
// lets anyone who saw the earlier reveal predict the guardian seed.
package commitment

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

// ErrZeroCommitment is returned for the all-zero commitment, which no seed hashes to in practice.
var ErrZeroCommitment = errors.New("commitment must not be zero")

// Commitment is the immutable hash of the guardian seed.
type Commitment struct {
	hash chain.Hash
}

// New binds a commitment to the given hash.
func New(hash chain.Hash) (Commitment, error) {
	if hash.IsZero() {
		return Commitment{}, ErrZeroCommitment
	}
	return Commitment{hash: hash}, nil
}

// Of returns the commitment to seed.
func Of(seed chain.Hash) Commitment {
	return Commitment{hash: chain.Keccak256(seed[:])}
}

// Hash returns the committed hash.
func (c Commitment) Hash() chain.Hash {
	return c.hash
}

// Matches reports whether candidate is the committed seed.
func (c Commitment) Matches(candidate chain.Hash) bool {
	return !c.hash.IsZero() && chain.Keccak256(candidate[:]) == c.hash
}

// Generate draws a fresh guardian seed from crypto/rand and returns it with
// its commitment.
func Generate() (chain.Hash, Commitment, error) {
	var seed chain.Hash
	if _, err := rand.Read(seed[:]); err != nil {
		return chain.Hash{}, Commitment{}, fmt.Errorf("read guardian seed: %w", err)
	}
	return seed, Of(seed), nil
}
