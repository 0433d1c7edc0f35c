package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/distribution"
	"github.com/Mindburn-Labs/floot/pkg/registry"
)

func newGate(t *testing.T, maxSupply uint64) (*Gate, *chain.SimChain, registry.Registry) {
	t.Helper()
	sim := chain.NewSimChain()
	w, err := distribution.New(sim.Now(), time.Hour, maxSupply)
	require.NoError(t, err)
	reg := registry.NewInMemoryRegistry()
	return NewGate(w, reg, sim), sim, reg
}

func TestClaim_GaplessIdentifiers(t *testing.T) {
	g, _, reg := newGate(t, 5)
	ctx := context.Background()

	for want := uint64(1); want <= 5; want++ {
		id, err := g.Claim(ctx, "0xalice")
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	assert.Equal(t, uint64(5), g.Minted())

	n, err := reg.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)
}

func TestClaim_SupplyExhausted(t *testing.T) {
	g, _, _ := newGate(t, 2)
	ctx := context.Background()

	_, err := g.Claim(ctx, "0xalice")
	require.NoError(t, err)
	_, err = g.Claim(ctx, "0xbob")
	require.NoError(t, err)

	_, err = g.Claim(ctx, "0xcarol")
	assert.ErrorIs(t, err, distribution.ErrSupplyExhausted)
	assert.Equal(t, uint64(2), g.Minted())
}

func TestClaim_ClosedByTime(t *testing.T) {
	g, sim, _ := newGate(t, 10)
	ctx := context.Background()

	sim.Advance(time.Hour)
	_, err := g.Claim(ctx, "0xalice")
	assert.ErrorIs(t, err, distribution.ErrDistributionClosed)
	assert.Equal(t, uint64(0), g.Minted())
}

func TestClaim_TimeCheckedBeforeSupply(t *testing.T) {
	g, sim, _ := newGate(t, 1)
	ctx := context.Background()

	_, err := g.Claim(ctx, "0xalice")
	require.NoError(t, err)
	sim.Advance(2 * time.Hour)

	_, err = g.Claim(ctx, "0xalice")
	assert.ErrorIs(t, err, distribution.ErrDistributionClosed)
}

func TestClaim_RegistryFailureLeavesWindow(t *testing.T) {
	g, _, _ := newGate(t, 3)

	_, err := g.Claim(context.Background(), "")
	assert.ErrorIs(t, err, registry.ErrInvalidOwner)
	assert.Equal(t, uint64(0), g.Minted())
}

func TestClaim_RegistryDiverged(t *testing.T) {
	sim := chain.NewSimChain()
	w, err := distribution.New(sim.Now(), time.Hour, 3)
	require.NoError(t, err)
	reg := registry.NewInMemoryRegistry()
	ctx := context.Background()

	// A token minted outside the gate shifts the registry ahead of the window.
	_, err = reg.Mint(ctx, "0xintruder")
	require.NoError(t, err)

	g := NewGate(w, reg, sim)
	for i := 0; i < 3; i++ {
		_, err = g.Claim(ctx, "0xalice")
		assert.ErrorIs(t, err, ErrRegistryDiverged)
	}
	assert.Equal(t, uint64(0), g.Minted())

	// Refused claims leave no tokens behind.
	total, err := reg.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	bal, err := reg.BalanceOf(ctx, "0xalice")
	require.NoError(t, err)
	assert.Zero(t, bal)
}
