package commitment

import (
	"testing"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsZero(t *testing.T) {
	_, err := New(chain.ZeroHash)
	assert.ErrorIs(t, err, ErrZeroCommitment)
}

func TestMatches(t *testing.T) {
	seed := chain.Keccak256([]byte("test-seed"))
	c, err := New(chain.Keccak256(seed[:]))
	require.NoError(t, err)

	assert.True(t, c.Matches(seed))
	assert.False(t, c.Matches(chain.Keccak256([]byte("bad-seed"))))
	assert.Equal(t, Of(seed), c)
}

func TestZeroValueMatchesNothing(t *testing.T) {
	var c Commitment
	assert.False(t, c.Matches(chain.ZeroHash))
}

func TestGenerate(t *testing.T) {
	seed1, c1, err := Generate()
	require.NoError(t, err)
	seed2, c2, err := Generate()
	require.NoError(t, err)

	assert.NotEqual(t, seed1, seed2)
	assert.True(t, c1.Matches(seed1))
	assert.False(t, c1.Matches(seed2))
	assert.True(t, c2.Matches(seed2))
}
