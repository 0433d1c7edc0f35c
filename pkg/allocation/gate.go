// Package allocation hands out identifiers while the distribution is open.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/distribution"
	"github.com/Mindburn-Labs/floot/pkg/registry"
)

// ErrRegistryDiverged means the registry and the window disagree on how many
// identifiers exist. The window is left untouched.
var ErrRegistryDiverged = errors.New("registry minted unexpected identifier")

// Gate couples the distribution window with the registry.
type Gate struct {
	window   *distribution.Window
	registry registry.Registry
	clock    chain.Clock
	logger   *slog.Logger
}

// NewGate creates a gate over window and reg.
func NewGate(window *distribution.Window, reg registry.Registry, clock chain.Clock) *Gate {
	return &Gate{
		window:   window,
		registry: reg,
		clock:    clock,
		logger:   slog.Default().With("component", "allocation"),
	}
}

// Claim mints the next identifier to owner. Identifiers are 1-based and
// gapless. There is no idempotence: each successful call mints a new token.
func (g *Gate) Claim(ctx context.Context, owner string) (uint64, error) {
	now := g.clock.Now()
	if err := g.window.CheckOpen(now); err != nil {
		return 0, err
	}
	want := g.window.Next()

	// A registry that already holds tokens the window never counted would
	// mint the wrong identifier; refuse before writing anything.
	total, err := g.registry.TotalSupply(ctx)
	if err != nil {
		return 0, fmt.Errorf("read total supply: %w", err)
	}
	if total != g.window.Minted() {
		g.logger.ErrorContext(ctx, "registry diverged from window", "window_minted", g.window.Minted(), "registry_total", total)
		return 0, fmt.Errorf("%w: window minted %d, registry holds %d", ErrRegistryDiverged, g.window.Minted(), total)
	}

	id, err := g.registry.Mint(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("mint %d: %w", want, err)
	}
	if id != want {
		g.logger.ErrorContext(ctx, "registry diverged from window", "expected", want, "minted", id)
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrRegistryDiverged, want, id)
	}
	if _, err := g.window.Record(now); err != nil {
		return 0, err
	}
	g.logger.DebugContext(ctx, "claimed", "id", id, "owner", owner)
	return id, nil
}

// Minted returns the number of successful claims.
func (g *Gate) Minted() uint64 { return g.window.Minted() }
