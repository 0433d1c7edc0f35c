package seed

import (
	"errors"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

var errOnceAlreadySet = errors.New("value already set")

// Once is a value that moves from unset to set exactly once.
// There is no way back to unset and no way to replace a set value.
type Once[T any] struct {
	value T
	set   bool
}

// Get returns the value and whether it has been set.
func (o Once[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value has been set.
func (o Once[T]) IsSet() bool {
	return o.set
}

// Set stores v if nothing is stored yet.
func (o *Once[T]) Set(v T) error {
	if o.set {
		return errOnceAlreadySet
	}
	o.value, o.set = v, true
	return nil
}

// RevealKind says which seed, if any, has been revealed next to the automatic seed.
type RevealKind int

const (
	RevealPending RevealKind = iota
	RevealGuardian
	RevealFallback
)

// String implements fmt.Stringer.
func (k RevealKind) String() string {
	switch k {
	case RevealPending:
		return "PENDING"
	case RevealGuardian:
		return "GUARDIAN"
	case RevealFallback:
		return "FALLBACK"
	default:
		return "UNKNOWN"
	}
}

// RevealPath is Pending, Guardian(seed) or Fallback(seed). Holding both
// branches in one value makes them mutually exclusive by construction.
type RevealPath struct {
	kind RevealKind
	seed chain.Hash
}

// Kind returns which branch was taken.
func (p RevealPath) Kind() RevealKind { return p.kind }

// Pending reports whether neither seed has been revealed.
func (p RevealPath) Pending() bool { return p.kind == RevealPending }

// Seed returns the revealed seed.
func (p RevealPath) Seed() (chain.Hash, bool) {
	return p.seed, p.kind != RevealPending
}

func (p *RevealPath) reveal(kind RevealKind, seed chain.Hash) error {
	if p.kind != RevealPending {
		return errOnceAlreadySet
	}
	p.kind, p.seed = kind, seed
	return nil
}
