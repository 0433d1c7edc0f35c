package events

import (
	"errors"
	"fmt"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

var (
	// ErrIncompleteHistory is returned when the events do not yet determine a final seed.
	ErrIncompleteHistory = errors.New("event history does not determine a final seed")
	// ErrConflictingHistory is returned when a seed appears twice or both reveal paths appear.
	ErrConflictingHistory = errors.New("event history is conflicting")
)

// Recover reconstructs the final seed from an event history alone:
// the automatic seed XOR whichever of the guardian or fallback seed was revealed.
func Recover(entries []Event) (chain.Hash, error) {
	var (
		automatic, revealed       chain.Hash
		haveAutomatic, haveReveal bool
	)
	for _, e := range entries {
		switch e.Kind {
		case KindAutomaticSeedSet:
			if haveAutomatic {
				return chain.Hash{}, fmt.Errorf("%w: automatic seed recorded twice", ErrConflictingHistory)
			}
			automatic, haveAutomatic = e.Seed, true
		case KindGuardianSeedSet, KindFallbackSeedSet:
			if haveReveal {
				return chain.Hash{}, fmt.Errorf("%w: more than one revealed seed", ErrConflictingHistory)
			}
			revealed, haveReveal = e.Seed, true
		default:
			return chain.Hash{}, fmt.Errorf("%w: unknown event kind %q", ErrConflictingHistory, e.Kind)
		}
	}
	if !haveAutomatic || !haveReveal {
		return chain.Hash{}, ErrIncompleteHistory
	}
	return automatic.Xor(revealed), nil
}
