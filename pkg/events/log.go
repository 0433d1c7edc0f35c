// Package events records the values revealed during seed finalization.
//
// Each revealed seed is appended to an append-only, hash-chained log so the
// final seed can be reconstructed after the source block hashes stop being
// readable. Entries are never mutated or removed.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mindburn-Labs/floot/pkg/canonicalize"
	"github.com/Mindburn-Labs/floot/pkg/chain"
)

// Kind names the transition that produced an event.
type Kind string

const (
	KindAutomaticSeedSet Kind = "automatic-seed-set"
	KindGuardianSeedSet  Kind = "guardian-seed-set"
	KindFallbackSeedSet  Kind = "fallback-seed-set"
)

const genesisHash = "genesis"

// Event is an immutable, hash-chained record of a revealed seed.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Sequence    uint64     `json:"sequence"`
	Kind        Kind       `json:"kind"`
	Seed        chain.Hash `json:"seed"`
	BlockIndex  uint64     `json:"block_index,omitempty"` // source block; zero for the guardian reveal
	Timestamp   time.Time  `json:"timestamp"`
	PrevHash    string     `json:"prev_hash"`
	ContentHash string     `json:"content_hash"`
}

type hashInput struct {
	Seq       uint64     `json:"seq"`
	Kind      Kind       `json:"kind"`
	Seed      chain.Hash `json:"seed"`
	Block     uint64     `json:"block"`
	Timestamp int64      `json:"ts"`
	PrevHash  string     `json:"prev"`
}

func contentHash(seq uint64, kind Kind, seed chain.Hash, block uint64, ts time.Time, prev string) (string, error) {
	h, err := canonicalize.CanonicalHash(hashInput{seq, kind, seed, block, ts.UnixNano(), prev})
	if err != nil {
		return "", fmt.Errorf("hash event %d: %w", seq, err)
	}
	return "sha256:" + h, nil
}

// Log is the append-only event log.
type Log struct {
	mu       sync.RWMutex
	entries  []Event
	headHash string
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{
		entries:  make([]Event, 0, 3),
		headHash: genesisHash,
	}
}

// Append records a revealed seed and returns the stored event.
func (l *Log) Append(kind Kind, seed chain.Hash, blockIndex uint64, at time.Time) (Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := uint64(len(l.entries)) + 1
	at = at.UTC()
	ch, err := contentHash(seq, kind, seed, blockIndex, at, l.headHash)
	if err != nil {
		return Event{}, err
	}

	e := Event{
		// Derived from the content so replicas assign the same id.
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(ch)),
		Sequence:    seq,
		Kind:        kind,
		Seed:        seed,
		BlockIndex:  blockIndex,
		Timestamp:   at,
		PrevHash:    l.headHash,
		ContentHash: ch,
	}
	l.entries = append(l.entries, e)
	l.headHash = ch
	return e, nil
}

// Get returns the event with the given sequence number.
func (l *Log) Get(seq uint64) (Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if seq == 0 || seq > uint64(len(l.entries)) {
		return Event{}, fmt.Errorf("event %d not found", seq)
	}
	return l.entries[seq-1], nil
}

// Entries returns a copy of every event in order.
func (l *Log) Entries() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event(nil), l.entries...)
}

// Head returns the current head hash.
func (l *Log) Head() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.headHash
}

// Length returns the number of events.
func (l *Log) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Verify checks the integrity of the whole chain.
func (l *Log) Verify() (bool, string) {
	return VerifyChain(l.Entries())
}

// VerifyChain checks that entries form an unbroken hash chain from genesis.
func VerifyChain(entries []Event) (bool, string) {
	prevHash := genesisHash
	for i, e := range entries {
		if e.Sequence != uint64(i)+1 {
			return false, fmt.Sprintf("sequence gap at entry %d: got %d", i+1, e.Sequence)
		}
		if e.PrevHash != prevHash {
			return false, fmt.Sprintf("chain broken at entry %d: expected prev %s, got %s", i+1, prevHash, e.PrevHash)
		}
		computed, err := contentHash(e.Sequence, e.Kind, e.Seed, e.BlockIndex, e.Timestamp, e.PrevHash)
		if err != nil {
			return false, err.Error()
		}
		if computed != e.ContentHash {
			return false, fmt.Sprintf("hash mismatch at entry %d", i+1)
		}
		prevHash = e.ContentHash
	}
	return true, "chain verified"
}
