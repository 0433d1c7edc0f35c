package generator

import (
	"encoding/binary"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

// stream is the deterministic randomness for one bag. Block k is
// Keccak256(base || uint64(k)) with base = Keccak256(seed || uint256(id)).
// Each block yields four 64-bit words.
type stream struct {
	base  chain.Hash
	block uint64
	buf   chain.Hash
	off   int
}

func newStream(seed chain.Hash, id uint64) *stream {
	s := &stream{base: chain.Keccak256(seed[:], chain.Uint256(id))}
	s.refill()
	return s
}

func (s *stream) refill() {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], s.block)
	s.buf = chain.Keccak256(s.base[:], k[:])
	s.block++
	s.off = 0
}

func (s *stream) next() uint64 {
	if s.off == len(s.buf) {
		s.refill()
	}
	v := binary.BigEndian.Uint64(s.buf[s.off : s.off+8])
	s.off += 8
	return v
}
