package chain

import "time"

// BlockOracle exposes the block index and the hashes of sealed blocks.
type BlockOracle interface {
	// CurrentIndex returns the index of the latest sealed block.
	CurrentIndex() uint64
	// HashOf returns the hash of a sealed block. It reports false for blocks
	// that are not sealed yet or have fallen out of the readable window.
	HashOf(index uint64) (Hash, bool)
}

// Clock is the environment's trusted time source.
type Clock interface {
	Now() time.Time
}

// Environment is everything the distribution consumes from the ledger it runs on.
type Environment interface {
	BlockOracle
	Clock
}
