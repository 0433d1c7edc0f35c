package chain

import (
	"encoding/binary"
	"sync"
	"time"
)

// DefaultHashWindow mirrors the EVM rule that only the most recent 256 block
// hashes are readable.
const DefaultHashWindow = 256

// SimChain is a deterministic in-process Environment. Blocks are sealed
// explicitly with Mine and time moves only through Advance, so tests and the
// simulator can script every step.
type SimChain struct {
	mu       sync.RWMutex
	now      time.Time
	hashes   []Hash // hashes[i] is the hash of block i+1
	scripted []Hash
	salt     []byte
	window   uint64
}

// SimOption configures a SimChain.
type SimOption func(*SimChain)

// WithGenesisTime sets the clock's starting point.
func WithGenesisTime(t time.Time) SimOption {
	return func(c *SimChain) { c.now = t }
}

// WithScriptedHashes makes the first len(hashes) sealed blocks use the given
// hashes, in order. Later blocks fall back to derived hashes.
func WithScriptedHashes(hashes ...Hash) SimOption {
	return func(c *SimChain) { c.scripted = append([]Hash(nil), hashes...) }
}

// WithSalt changes the derived block hashes, letting two chains diverge.
func WithSalt(salt []byte) SimOption {
	return func(c *SimChain) { c.salt = append([]byte(nil), salt...) }
}

// WithHashWindow sets how many recent block hashes stay readable.
// Zero keeps every hash readable.
func WithHashWindow(n uint64) SimOption {
	return func(c *SimChain) { c.window = n }
}

// NewSimChain creates a chain with no sealed blocks.
func NewSimChain(opts ...SimOption) *SimChain {
	c := &SimChain{
		now:    time.Unix(1_700_000_000, 0).UTC(),
		salt:   []byte("floot-sim"),
		window: DefaultHashWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mine seals the pending block and returns its index.
func (c *SimChain) Mine() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := uint64(len(c.hashes)) + 1
	var h Hash
	if int(index) <= len(c.scripted) {
		h = c.scripted[index-1]
	} else {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], index)
		h = Keccak256(c.salt, buf[:])
	}
	c.hashes = append(c.hashes, h)
	return index
}

// MineN seals n blocks and returns the index of the last one.
func (c *SimChain) MineN(n int) uint64 {
	var last uint64
	for i := 0; i < n; i++ {
		last = c.Mine()
	}
	return last
}

// Advance moves the clock forward by d.
func (c *SimChain) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// CurrentIndex implements BlockOracle.
func (c *SimChain) CurrentIndex() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint64(len(c.hashes))
}

// HashOf implements BlockOracle.
func (c *SimChain) HashOf(index uint64) (Hash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	head := uint64(len(c.hashes))
	if index == 0 || index > head {
		return Hash{}, false
	}
	if c.window > 0 && head-index >= c.window {
		return Hash{}, false
	}
	return c.hashes[index-1], true
}

// Now implements Clock.
func (c *SimChain) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}
