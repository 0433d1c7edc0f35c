// Package floot ties the distribution together: claims while the window is
// open, seed finalization once it closes, and metadata after that.
//
// The Coordinator owns all state and serialises every operation behind one
// mutex. Each operation checks its preconditions under the lock and either
// applies fully or has no effect.
package floot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Mindburn-Labs/floot/pkg/allocation"
	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/commitment"
	"github.com/Mindburn-Labs/floot/pkg/distribution"
	"github.com/Mindburn-Labs/floot/pkg/errorir"
	"github.com/Mindburn-Labs/floot/pkg/events"
	"github.com/Mindburn-Labs/floot/pkg/generator"
	"github.com/Mindburn-Labs/floot/pkg/metadata"
	"github.com/Mindburn-Labs/floot/pkg/observability"
	"github.com/Mindburn-Labs/floot/pkg/registry"
	"github.com/Mindburn-Labs/floot/pkg/seed"
)

// ErrUnknownIdentifier is returned for identifiers outside [1, minted].
var ErrUnknownIdentifier = errors.New("unknown identifier")

func init() {
	errorir.Register(ErrUnknownIdentifier, "FLOOT/COORDINATOR/UNKNOWN_IDENTIFIER",
		http.StatusNotFound, errorir.ClassificationNonRetryable)
}

// Params are fixed at construction.
type Params struct {
	Commitment     commitment.Commitment
	GuardianWindow time.Duration
	MaxDuration    time.Duration
	MaxSupply      uint64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSink adds a sink that receives every seed event after it is recorded.
func WithSink(s events.Sink) Option {
	return func(c *Coordinator) { c.sinks = append(c.sinks, s) }
}

// WithObservability wraps operations in spans and RED metrics.
func WithObservability(p *observability.Provider) Option {
	return func(c *Coordinator) { c.obs = p }
}

// Coordinator is the single aggregate of a distribution.
type Coordinator struct {
	mu sync.Mutex

	params   Params
	env      chain.Environment
	registry registry.Registry
	window   *distribution.Window
	gate     *allocation.Gate
	log      *events.Log
	machine  *seed.Machine

	sinks  []events.Sink
	obs    *observability.Provider
	logger *slog.Logger
}

// New starts a distribution at the environment's current time.
func New(params Params, env chain.Environment, reg registry.Registry, opts ...Option) (*Coordinator, error) {
	if env == nil || reg == nil {
		return nil, fmt.Errorf("%w: environment and registry are required", seed.ErrInvalidParams)
	}
	window, err := distribution.New(env.Now(), params.MaxDuration, params.MaxSupply)
	if err != nil {
		return nil, err
	}
	log := events.NewLog()
	machine, err := seed.New(params.Commitment, params.GuardianWindow, env, window, log)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		params:   params,
		env:      env,
		registry: reg,
		window:   window,
		gate:     allocation.NewGate(window, reg, env),
		log:      log,
		machine:  machine,
		logger:   slog.Default().With("component", "floot"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger.Info("distribution started",
		"commitment", params.Commitment.Hash().Hex(),
		"max_supply", params.MaxSupply,
		"deadline", window.Deadline(),
		"guardian_window", params.GuardianWindow,
	)
	return c, nil
}

// Params returns the construction parameters.
func (c *Coordinator) Params() Params { return c.params }

// Claim mints the next identifier to owner.
func (c *Coordinator) Claim(ctx context.Context, owner string) (id uint64, err error) {
	ctx, done := c.obs.TrackOperation(ctx, "claim")
	defer func() { done(err) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate.Claim(ctx, owner)
}

// OwnerOf returns the owner of id.
func (c *Coordinator) OwnerOf(ctx context.Context, id uint64) (string, error) {
	return c.registry.OwnerOf(ctx, id)
}

// SetAutomaticSeedBlockNumber records the block whose hash becomes the automatic seed.
func (c *Coordinator) SetAutomaticSeedBlockNumber(ctx context.Context) (block uint64, err error) {
	_, done := c.obs.TrackOperation(ctx, "set_automatic_seed_block_number")
	defer func() { done(err) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.SetAutomaticSeedBlockNumber()
}

// SetAutomaticSeed fixes the automatic seed and opens the guardian window.
func (c *Coordinator) SetAutomaticSeed(ctx context.Context) (chain.Hash, error) {
	return c.recordSeed(ctx, "set_automatic_seed", c.machine.SetAutomaticSeed)
}

// SetGuardianSeed accepts the guardian's reveal.
func (c *Coordinator) SetGuardianSeed(ctx context.Context, candidate chain.Hash) error {
	_, err := c.recordSeed(ctx, "set_guardian_seed", func() (events.Event, error) {
		return c.machine.SetGuardianSeed(candidate)
	})
	return err
}

// SetFallbackSeedBlockNumber records the fallback block after the guardian window.
func (c *Coordinator) SetFallbackSeedBlockNumber(ctx context.Context) (block uint64, err error) {
	_, done := c.obs.TrackOperation(ctx, "set_fallback_seed_block_number")
	defer func() { done(err) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.SetFallbackSeedBlockNumber()
}

// SetFallbackSeed fixes the fallback seed.
func (c *Coordinator) SetFallbackSeed(ctx context.Context) (chain.Hash, error) {
	return c.recordSeed(ctx, "set_fallback_seed", c.machine.SetFallbackSeed)
}

// SetFinalSeed fixes the final seed.
func (c *Coordinator) SetFinalSeed(ctx context.Context) (final chain.Hash, err error) {
	_, done := c.obs.TrackOperation(ctx, "set_final_seed")
	defer func() { done(err) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.SetFinalSeed()
}

// FinalSeed returns the fixed final seed.
func (c *Coordinator) FinalSeed() (chain.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.FinalSeed()
}

// ComputeFinalSeed derives the final seed without fixing it.
func (c *Coordinator) ComputeFinalSeed() (chain.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.ComputeFinalSeed()
}

// recordSeed runs a seed transition and publishes its event once the lock is
// released. Sink failures are logged and never undo the transition.
func (c *Coordinator) recordSeed(ctx context.Context, op string, transition func() (events.Event, error)) (h chain.Hash, err error) {
	ctx, done := c.obs.TrackOperation(ctx, op)
	defer func() { done(err) }()

	c.mu.Lock()
	e, err := transition()
	c.mu.Unlock()
	if err != nil {
		return chain.Hash{}, err
	}
	c.publish(ctx, e)
	return e.Seed, nil
}

func (c *Coordinator) publish(ctx context.Context, e events.Event) {
	for _, s := range c.sinks {
		if err := s.Publish(ctx, e); err != nil {
			c.logger.WarnContext(ctx, "event sink publish failed",
				"event_id", e.ID,
				"kind", e.Kind,
				"error", err,
			)
		}
	}
}

// Render returns the bag and SVG image for id.
func (c *Coordinator) Render(id uint64) (generator.Bag, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	final, err := c.renderable(id)
	if err != nil {
		return generator.Bag{}, nil, err
	}
	bag, img := generator.Render(final, id)
	return bag, img, nil
}

// TokenURI returns the metadata of id as a base64 JSON data URI.
func (c *Coordinator) TokenURI(ctx context.Context, id uint64) (uri string, err error) {
	_, done := c.obs.TrackOperation(ctx, "token_uri", attribute.String("floot.id", strconv.FormatUint(id, 10)))
	defer func() { done(err) }()

	bag, img, err := c.Render(id)
	if err != nil {
		return "", err
	}
	return metadata.TokenURI(metadata.Build(bag, img))
}

// Item returns one category of the bag for id.
func (c *Coordinator) Item(id uint64, category generator.Category) (generator.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	final, err := c.renderable(id)
	if err != nil {
		return generator.Item{}, err
	}
	return generator.RenderItem(final, id, category)
}

func (c *Coordinator) renderable(id uint64) (chain.Hash, error) {
	final, err := c.machine.FinalSeed()
	if err != nil {
		return chain.Hash{}, err
	}
	if id == 0 || id > c.window.Minted() {
		return chain.Hash{}, fmt.Errorf("%w: %d", ErrUnknownIdentifier, id)
	}
	return final, nil
}

// Snapshot is a read-only view of the whole distribution.
type Snapshot struct {
	Commitment chain.Hash `json:"commitment"`
	Start      time.Time  `json:"start"`
	Deadline   time.Time  `json:"deadline"`
	MaxSupply  uint64     `json:"max_supply"`
	Minted     uint64     `json:"minted"`
	Closed     bool       `json:"closed"`
	Seed       seed.State `json:"seed"`
}

// State returns a snapshot taken under the lock.
func (c *Coordinator) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Commitment: c.params.Commitment.Hash(),
		Start:      c.window.Start(),
		Deadline:   c.window.Deadline(),
		MaxSupply:  c.window.MaxSupply(),
		Minted:     c.window.Minted(),
		Closed:     c.window.Closed(c.env.Now()),
		Seed:       c.machine.State(),
	}
}

// Events returns the seed event history in order.
func (c *Coordinator) Events() []events.Event {
	return c.log.Entries()
}
