package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

var t0 = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func seedOf(s string) chain.Hash { return chain.Keccak256([]byte(s)) }

func TestLogAppend(t *testing.T) {
	l := NewLog()
	e, err := l.Append(KindAutomaticSeedSet, seedOf("auto"), 7, t0)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), e.Sequence)
	assert.Equal(t, "genesis", e.PrevHash)
	assert.Equal(t, e.ContentHash, l.Head())
	assert.Equal(t, 1, l.Length())
	assert.NotEqual(t, [16]byte{}, [16]byte(e.ID))
}

func TestLogChainIntegrity(t *testing.T) {
	l := NewLog()
	_, _ = l.Append(KindAutomaticSeedSet, seedOf("auto"), 7, t0)
	_, _ = l.Append(KindFallbackSeedSet, seedOf("fallback"), 9, t0.Add(time.Hour))

	ok, reason := l.Verify()
	require.True(t, ok, reason)

	e1, err := l.Get(1)
	require.NoError(t, err)
	e2, err := l.Get(2)
	require.NoError(t, err)
	assert.Equal(t, e1.ContentHash, e2.PrevHash)
}

func TestLogVerifyDetectsTampering(t *testing.T) {
	l := NewLog()
	_, _ = l.Append(KindAutomaticSeedSet, seedOf("auto"), 7, t0)
	_, _ = l.Append(KindGuardianSeedSet, seedOf("guardian"), 0, t0)

	entries := l.Entries()
	entries[1].Seed = seedOf("forged")
	ok, reason := VerifyChain(entries)
	assert.False(t, ok)
	assert.Contains(t, reason, "hash mismatch at entry 2")

	entries = l.Entries()
	entries[0], entries[1] = entries[1], entries[0]
	ok, _ = VerifyChain(entries)
	assert.False(t, ok)
}

func TestLogEntriesIsACopy(t *testing.T) {
	l := NewLog()
	_, _ = l.Append(KindAutomaticSeedSet, seedOf("auto"), 7, t0)

	entries := l.Entries()
	entries[0].Kind = KindGuardianSeedSet

	e, _ := l.Get(1)
	assert.Equal(t, KindAutomaticSeedSet, e.Kind)
}

func TestLogGetNotFound(t *testing.T) {
	l := NewLog()
	_, err := l.Get(0)
	assert.Error(t, err)
	_, err = l.Get(3)
	assert.Error(t, err)
}

func TestLogDeterministicHashAndID(t *testing.T) {
	l1 := NewLog()
	l2 := NewLog()
	e1, _ := l1.Append(KindAutomaticSeedSet, seedOf("auto"), 7, t0)
	e2, _ := l2.Append(KindAutomaticSeedSet, seedOf("auto"), 7, t0)

	assert.Equal(t, e1.ContentHash, e2.ContentHash)
	assert.Equal(t, e1.ID, e2.ID)
}

func TestRecover(t *testing.T) {
	auto, guardian := seedOf("auto"), seedOf("guardian")

	l := NewLog()
	_, _ = l.Append(KindAutomaticSeedSet, auto, 3, t0)
	_, err := Recover(l.Entries())
	assert.ErrorIs(t, err, ErrIncompleteHistory)

	_, _ = l.Append(KindGuardianSeedSet, guardian, 0, t0)
	final, err := Recover(l.Entries())
	require.NoError(t, err)
	assert.Equal(t, auto.Xor(guardian), final)

	_, _ = l.Append(KindFallbackSeedSet, seedOf("fallback"), 9, t0)
	_, err = Recover(l.Entries())
	assert.ErrorIs(t, err, ErrConflictingHistory)
}

func TestRecover_UnknownKind(t *testing.T) {
	_, err := Recover([]Event{{Kind: "final-seed-set"}})
	assert.ErrorIs(t, err, ErrConflictingHistory)
}
