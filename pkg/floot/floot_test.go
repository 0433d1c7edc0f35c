package floot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/commitment"
	"github.com/Mindburn-Labs/floot/pkg/distribution"
	"github.com/Mindburn-Labs/floot/pkg/errorir"
	"github.com/Mindburn-Labs/floot/pkg/events"
	"github.com/Mindburn-Labs/floot/pkg/generator"
	"github.com/Mindburn-Labs/floot/pkg/metadata"
	"github.com/Mindburn-Labs/floot/pkg/registry"
	"github.com/Mindburn-Labs/floot/pkg/seed"
)

const (
	guardianWindow = 24 * time.Hour
	maxDuration    = 10 * 24 * time.Hour
	deployer       = "0xdeployer"
	otherSigner    = "0xother"
)

var guardianSeed = chain.Keccak256([]byte("test-seed"))

type harness struct {
	sim       *chain.SimChain
	registry  *registry.InMemoryRegistry
	c         *Coordinator
	published []events.Event
}

func newHarness(t *testing.T, maxSupply uint64, opts ...Option) *harness {
	t.Helper()
	h := &harness{sim: chain.NewSimChain(), registry: registry.NewInMemoryRegistry()}
	opts = append(opts, WithSink(events.SinkFunc(func(_ context.Context, e events.Event) error {
		h.published = append(h.published, e)
		return nil
	})))
	c, err := New(Params{
		Commitment:     commitment.Of(guardianSeed),
		GuardianWindow: guardianWindow,
		MaxDuration:    maxDuration,
		MaxSupply:      maxSupply,
	}, h.sim, h.registry, opts...)
	require.NoError(t, err)
	h.c = c
	return h
}

func TestNew_InvalidParams(t *testing.T) {
	sim := chain.NewSimChain()
	reg := registry.NewInMemoryRegistry()

	_, err := New(Params{GuardianWindow: time.Hour, MaxDuration: time.Hour}, sim, reg)
	assert.ErrorIs(t, err, distribution.ErrInvalidParams)

	_, err = New(Params{MaxDuration: time.Hour, MaxSupply: 1}, sim, reg)
	assert.ErrorIs(t, err, seed.ErrInvalidParams)

	_, err = New(Params{GuardianWindow: time.Hour, MaxDuration: time.Hour, MaxSupply: 1}, sim, nil)
	assert.ErrorIs(t, err, seed.ErrInvalidParams)
}

func TestEndToEnd_MaxSupplyThenRender(t *testing.T) {
	h := newHarness(t, 3)
	ctx := context.Background()

	id, err := h.c.Claim(ctx, deployer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	id, err = h.c.Claim(ctx, otherSigner)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)
	id, err = h.c.Claim(ctx, otherSigner)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)

	_, err = h.c.Claim(ctx, deployer)
	assert.ErrorIs(t, err, distribution.ErrSupplyExhausted)

	// Nothing renders before finalization.
	_, err = h.c.Item(1, generator.Weapon)
	assert.ErrorIs(t, err, seed.ErrFinalSeedNotSet)
	_, err = h.c.TokenURI(ctx, 1)
	assert.ErrorIs(t, err, seed.ErrFinalSeedNotSet)

	_, err = h.c.OwnerOf(ctx, 0)
	assert.ErrorIs(t, err, registry.ErrNotFound)
	owner, err := h.c.OwnerOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, deployer, owner)
	owner, err = h.c.OwnerOf(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, otherSigner, owner)
	_, err = h.c.OwnerOf(ctx, 4)
	assert.ErrorIs(t, err, registry.ErrNotFound)

	_, err = h.c.SetAutomaticSeedBlockNumber(ctx)
	require.NoError(t, err)
	h.sim.Mine()
	auto, err := h.c.SetAutomaticSeed(ctx)
	require.NoError(t, err)
	require.NoError(t, h.c.SetGuardianSeed(ctx, guardianSeed))
	final, err := h.c.SetFinalSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, auto.Xor(guardianSeed), final)

	uri, err := h.c.TokenURI(ctx, 1)
	require.NoError(t, err)
	doc, err := metadata.Decode(uri)
	require.NoError(t, err)
	assert.Equal(t, "Bag #1", doc.Name)
	svg, err := doc.SVG()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(svg), "<svg"))

	weapon, err := h.c.Item(1, generator.Weapon)
	require.NoError(t, err)
	assert.Equal(t, weapon.Name, doc.Attributes[0].Value)

	_, err = h.c.TokenURI(ctx, 4)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, _, err = h.c.Render(0)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)

	// Rendering is stable across calls and matches the offline generator.
	bag, img, err := h.c.Render(2)
	require.NoError(t, err)
	offlineBag, offlineImg := generator.Render(final, 2)
	assert.Equal(t, offlineBag, bag)
	assert.Equal(t, offlineImg, img)

	require.Len(t, h.published, 2)
	assert.Equal(t, events.KindAutomaticSeedSet, h.published[0].Kind)
	assert.Equal(t, events.KindGuardianSeedSet, h.published[1].Kind)
	recovered, err := events.Recover(h.c.Events())
	require.NoError(t, err)
	assert.Equal(t, final, recovered)
}

func TestBlindDrop_GuardianFlowFailures(t *testing.T) {
	h := newHarness(t, 3)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := h.c.Claim(ctx, deployer)
		require.NoError(t, err)
	}

	require.ErrorIs(t, h.c.SetGuardianSeed(ctx, guardianSeed), seed.ErrAutomaticSeedNotSet)
	_, err := h.c.SetFinalSeed(ctx)
	require.ErrorIs(t, err, seed.ErrSeedsNotSet)

	_, err = h.c.SetAutomaticSeedBlockNumber(ctx)
	require.NoError(t, err)
	_, err = h.c.SetAutomaticSeed(ctx)
	assert.ErrorIs(t, err, seed.ErrBlockNotMined)
	_, err = h.c.SetAutomaticSeedBlockNumber(ctx)
	assert.ErrorIs(t, err, seed.ErrSeedBlockAlreadySet)

	h.sim.Mine()
	auto, err := h.c.SetAutomaticSeed(ctx)
	require.NoError(t, err)
	_, err = h.c.SetAutomaticSeed(ctx)
	assert.ErrorIs(t, err, seed.ErrAutomaticSeedAlreadySet)

	_, err = h.c.SetFallbackSeedBlockNumber(ctx)
	assert.ErrorIs(t, err, seed.ErrGuardianWindowNotEnded)
	_, err = h.c.SetFinalSeed(ctx)
	assert.ErrorIs(t, err, seed.ErrSeedsNotSet)

	assert.ErrorIs(t, h.c.SetGuardianSeed(ctx, chain.Keccak256([]byte("bad-seed"))), seed.ErrGuardianSeedInvalid)
	require.NoError(t, h.c.SetGuardianSeed(ctx, guardianSeed))
	assert.ErrorIs(t, h.c.SetGuardianSeed(ctx, guardianSeed), seed.ErrSeedAlreadySet)

	// Once the guardian has revealed, the fallback path stays closed.
	h.sim.Advance(guardianWindow + time.Second)
	_, err = h.c.SetFallbackSeedBlockNumber(ctx)
	assert.ErrorIs(t, err, seed.ErrSeedAlreadySet)
	_, err = h.c.SetFallbackSeed(ctx)
	assert.ErrorIs(t, err, seed.ErrSeedBlockNotSet)

	_, err = h.c.FinalSeed()
	assert.ErrorIs(t, err, seed.ErrFinalSeedNotSet)
	computed, err := h.c.ComputeFinalSeed()
	require.NoError(t, err)

	final, err := h.c.SetFinalSeed(ctx)
	require.NoError(t, err)
	_, err = h.c.SetFinalSeed(ctx)
	assert.ErrorIs(t, err, seed.ErrFinalSeedAlreadySet)

	got, err := h.c.FinalSeed()
	require.NoError(t, err)
	assert.Equal(t, final, got)
	assert.Equal(t, computed, got)
	assert.Equal(t, auto.Xor(guardianSeed), got)
	assert.Equal(t, seed.PhaseFinalSeedSet, h.c.State().Seed.Phase)
}

func TestBlindDrop_FallbackFlow(t *testing.T) {
	h := newHarness(t, 3)
	ctx := context.Background()
	_, err := h.c.Claim(ctx, deployer)
	require.NoError(t, err)

	_, err = h.c.SetAutomaticSeedBlockNumber(ctx)
	assert.ErrorIs(t, err, seed.ErrDistributionNotOver)

	h.sim.Advance(maxDuration)
	_, err = h.c.Claim(ctx, deployer)
	assert.ErrorIs(t, err, distribution.ErrDistributionClosed)

	_, err = h.c.SetAutomaticSeedBlockNumber(ctx)
	require.NoError(t, err)
	h.sim.Mine()
	auto, err := h.c.SetAutomaticSeed(ctx)
	require.NoError(t, err)

	h.sim.Advance(guardianWindow + time.Second)
	assert.ErrorIs(t, h.c.SetGuardianSeed(ctx, guardianSeed), seed.ErrGuardianWindowElapsed)

	_, err = h.c.SetFallbackSeedBlockNumber(ctx)
	require.NoError(t, err)
	_, err = h.c.SetFallbackSeedBlockNumber(ctx)
	assert.ErrorIs(t, err, seed.ErrSeedBlockAlreadySet)

	h.sim.Mine()
	fallback, err := h.c.SetFallbackSeed(ctx)
	require.NoError(t, err)
	_, err = h.c.SetFallbackSeed(ctx)
	assert.ErrorIs(t, err, seed.ErrSeedAlreadySet)

	final, err := h.c.SetFinalSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, auto.Xor(fallback), final)

	state := h.c.State()
	assert.True(t, state.Closed)
	assert.Equal(t, uint64(1), state.Minted)
	assert.Equal(t, "FALLBACK", state.Seed.RevealPath)
	require.NotNil(t, state.Seed.FallbackSeed)
	assert.Nil(t, state.Seed.GuardianSeed)

	require.Len(t, h.published, 2)
	assert.Equal(t, events.KindFallbackSeedSet, h.published[1].Kind)
}

func TestSinkFailureDoesNotUndoTransition(t *testing.T) {
	failing := events.SinkFunc(func(context.Context, events.Event) error {
		return errors.New("stream unavailable")
	})
	h := newHarness(t, 1, WithSink(failing))
	ctx := context.Background()

	_, err := h.c.Claim(ctx, deployer)
	require.NoError(t, err)
	_, err = h.c.SetAutomaticSeedBlockNumber(ctx)
	require.NoError(t, err)
	h.sim.Mine()
	_, err = h.c.SetAutomaticSeed(ctx)
	require.NoError(t, err)

	assert.Equal(t, seed.PhaseAutoSeedSet, h.c.State().Seed.Phase)
	assert.Len(t, h.published, 1)
}

func TestConcurrentClaimsAreGapless(t *testing.T) {
	const supply = 50
	h := newHarness(t, supply)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ids      = map[uint64]bool{}
		failures int
	)
	for i := 0; i < supply+20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := h.c.Claim(ctx, deployer)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, distribution.ErrSupplyExhausted)
				failures++
				return
			}
			ids[id] = true
		}()
	}
	wg.Wait()

	assert.Len(t, ids, supply)
	assert.Equal(t, 20, failures)
	for id := uint64(1); id <= supply; id++ {
		assert.True(t, ids[id], "missing id %d", id)
	}
}

func TestUnknownIdentifierClassification(t *testing.T) {
	ir, ok := errorir.Classify(ErrUnknownIdentifier)
	require.True(t, ok)
	assert.Equal(t, "COORDINATOR", ir.Floot.Namespace)
	assert.False(t, errorir.Retryable(ErrUnknownIdentifier))
}
