// Package seed implements the commit-reveal protocol that fixes the final
// seed of a distribution.
//
// The protocol runs once the distribution window has closed:
//
//  1. SetAutomaticSeedBlockNumber commits to the next, not yet sealed, block.
//  2. SetAutomaticSeed reads that block's hash once it is sealed and opens the
//     guardian window.
//  3. Within the window the guardian reveals the seed behind the commitment
//     (SetGuardianSeed). After the window, anyone may take the fallback path
//     instead: SetFallbackSeedBlockNumber then SetFallbackSeed, which derive a
//     second seed from a later block the same way as steps 1 and 2.
//  4. SetFinalSeed fixes automatic XOR (guardian or fallback).
//
// Every field moves from unset to set exactly once. A Machine is not safe for
// concurrent use; the owner serialises calls.
package seed

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/commitment"
	"github.com/Mindburn-Labs/floot/pkg/events"
)

var (
	ErrDistributionNotOver     = errors.New("distribution not over")
	ErrSeedBlockAlreadySet     = errors.New("seed block number already set")
	ErrSeedBlockNotSet         = errors.New("block number not set")
	ErrBlockNotMined           = errors.New("block number not mined")
	ErrBlockHashUnavailable    = errors.New("block hash unavailable")
	ErrAutomaticSeedAlreadySet = errors.New("automatic seed already set")
	ErrAutomaticSeedNotSet     = errors.New("automatic seed not set")
	ErrSeedAlreadySet          = errors.New("seed already set")
	ErrGuardianWindowElapsed   = errors.New("guardian window elapsed")
	ErrGuardianWindowNotEnded  = errors.New("guardian window has not ended")
	ErrGuardianSeedInvalid     = errors.New("guardian seed invalid")
	ErrSeedsNotSet             = errors.New("guardian/fallback seed not set")
	ErrFinalSeedAlreadySet     = errors.New("final seed already set")
	ErrFinalSeedNotSet         = errors.New("final seed not set")
	ErrInvalidParams           = errors.New("invalid seed parameters")
)

// WindowStatus reports whether minting is over.
type WindowStatus interface {
	Closed(now time.Time) bool
}

// stamped is a seed together with the time it was fixed.
type stamped struct {
	seed chain.Hash
	at   time.Time
}

// Machine is the seed finalization state machine.
type Machine struct {
	commitment     commitment.Commitment
	guardianWindow time.Duration
	env            chain.Environment
	window         WindowStatus
	log            *events.Log
	logger         *slog.Logger

	automaticBlock Once[uint64]
	automatic      Once[stamped]
	fallbackBlock  Once[uint64]
	reveal         RevealPath
	final          Once[chain.Hash]
}

// New creates a machine in the idle state. Revealed seeds are appended to log.
func New(c commitment.Commitment, guardianWindow time.Duration, env chain.Environment, window WindowStatus, log *events.Log) (*Machine, error) {
	if guardianWindow <= 0 {
		return nil, fmt.Errorf("%w: guardian window must be positive", ErrInvalidParams)
	}
	if env == nil || window == nil || log == nil {
		return nil, fmt.Errorf("%w: environment, window and log are required", ErrInvalidParams)
	}
	return &Machine{
		commitment:     c,
		guardianWindow: guardianWindow,
		env:            env,
		window:         window,
		log:            log,
		logger:         slog.Default().With("component", "seed"),
	}, nil
}

// SetAutomaticSeedBlockNumber commits to the next block as the automatic
// seed source. The index is one past the latest sealed block, so its hash
// cannot be known by the caller.
func (m *Machine) SetAutomaticSeedBlockNumber() (uint64, error) {
	if !m.window.Closed(m.env.Now()) {
		return 0, ErrDistributionNotOver
	}
	if m.automaticBlock.IsSet() {
		return 0, ErrSeedBlockAlreadySet
	}
	next := m.env.CurrentIndex() + 1
	if err := m.automaticBlock.Set(next); err != nil {
		return 0, ErrSeedBlockAlreadySet
	}
	m.logger.Info("automatic seed block recorded", "block", next)
	return next, nil
}

// SetAutomaticSeed reads the hash of the recorded block and opens the guardian window.
func (m *Machine) SetAutomaticSeed() (events.Event, error) {
	block, ok := m.automaticBlock.Get()
	if !ok {
		return events.Event{}, ErrSeedBlockNotSet
	}
	if m.automatic.IsSet() {
		return events.Event{}, ErrAutomaticSeedAlreadySet
	}
	h, err := m.sealedHash(block)
	if err != nil {
		return events.Event{}, err
	}

	now := m.env.Now()
	e, err := m.log.Append(events.KindAutomaticSeedSet, h, block, now)
	if err != nil {
		return events.Event{}, fmt.Errorf("record automatic seed: %w", err)
	}
	if err := m.automatic.Set(stamped{seed: h, at: now}); err != nil {
		return events.Event{}, ErrAutomaticSeedAlreadySet
	}
	m.logger.Info("automatic seed set",
		"block", block,
		"seed", h.Hex(),
		"guardian_deadline", now.Add(m.guardianWindow),
	)
	return e, nil
}

// SetGuardianSeed accepts the guardian's reveal while the guardian window is open.
func (m *Machine) SetGuardianSeed(candidate chain.Hash) (events.Event, error) {
	deadline, ok := m.GuardianDeadline()
	if !ok {
		return events.Event{}, ErrAutomaticSeedNotSet
	}
	if !m.reveal.Pending() {
		return events.Event{}, ErrSeedAlreadySet
	}
	now := m.env.Now()
	if now.After(deadline) {
		return events.Event{}, ErrGuardianWindowElapsed
	}
	if !m.commitment.Matches(candidate) {
		return events.Event{}, ErrGuardianSeedInvalid
	}

	e, err := m.log.Append(events.KindGuardianSeedSet, candidate, 0, now)
	if err != nil {
		return events.Event{}, fmt.Errorf("record guardian seed: %w", err)
	}
	if err := m.reveal.reveal(RevealGuardian, candidate); err != nil {
		return events.Event{}, ErrSeedAlreadySet
	}
	m.logger.Info("guardian seed set", "seed", candidate.Hex())
	return e, nil
}

// SetFallbackSeedBlockNumber commits to the next block as the fallback seed
// source. It is only possible once the guardian window has passed without a
// guardian reveal.
func (m *Machine) SetFallbackSeedBlockNumber() (uint64, error) {
	deadline, ok := m.GuardianDeadline()
	if !ok {
		return 0, ErrAutomaticSeedNotSet
	}
	if m.fallbackBlock.IsSet() {
		return 0, ErrSeedBlockAlreadySet
	}
	if !m.reveal.Pending() {
		return 0, ErrSeedAlreadySet
	}
	if !m.env.Now().After(deadline) {
		return 0, ErrGuardianWindowNotEnded
	}
	next := m.env.CurrentIndex() + 1
	if err := m.fallbackBlock.Set(next); err != nil {
		return 0, ErrSeedBlockAlreadySet
	}
	m.logger.Info("fallback seed block recorded", "block", next)
	return next, nil
}

// SetFallbackSeed reads the hash of the recorded fallback block.
func (m *Machine) SetFallbackSeed() (events.Event, error) {
	block, ok := m.fallbackBlock.Get()
	if !ok {
		return events.Event{}, ErrSeedBlockNotSet
	}
	if !m.reveal.Pending() {
		return events.Event{}, ErrSeedAlreadySet
	}
	h, err := m.sealedHash(block)
	if err != nil {
		return events.Event{}, err
	}

	e, err := m.log.Append(events.KindFallbackSeedSet, h, block, m.env.Now())
	if err != nil {
		return events.Event{}, fmt.Errorf("record fallback seed: %w", err)
	}
	if err := m.reveal.reveal(RevealFallback, h); err != nil {
		return events.Event{}, ErrSeedAlreadySet
	}
	m.logger.Info("fallback seed set", "block", block, "seed", h.Hex())
	return e, nil
}

// SetFinalSeed fixes the final seed.
func (m *Machine) SetFinalSeed() (chain.Hash, error) {
	final, err := m.ComputeFinalSeed()
	if err != nil {
		return chain.Hash{}, err
	}
	if m.final.IsSet() {
		return chain.Hash{}, ErrFinalSeedAlreadySet
	}
	if err := m.final.Set(final); err != nil {
		return chain.Hash{}, ErrFinalSeedAlreadySet
	}
	m.logger.Info("final seed set", "seed", final.Hex(), "path", m.reveal.Kind().String())
	return final, nil
}

// ComputeFinalSeed derives automatic XOR revealed without fixing it. It
// succeeds as soon as both inputs exist, before or after SetFinalSeed.
func (m *Machine) ComputeFinalSeed() (chain.Hash, error) {
	auto, ok := m.automatic.Get()
	revealed, revealedOK := m.reveal.Seed()
	if !ok || !revealedOK {
		return chain.Hash{}, ErrSeedsNotSet
	}
	return auto.seed.Xor(revealed), nil
}

// FinalSeed returns the fixed final seed.
func (m *Machine) FinalSeed() (chain.Hash, error) {
	final, ok := m.final.Get()
	if !ok {
		return chain.Hash{}, ErrFinalSeedNotSet
	}
	return final, nil
}

// GuardianDeadline returns the end of the guardian window, which exists once
// the automatic seed is set.
func (m *Machine) GuardianDeadline() (time.Time, bool) {
	auto, ok := m.automatic.Get()
	if !ok {
		return time.Time{}, false
	}
	return auto.at.Add(m.guardianWindow), true
}

func (m *Machine) sealedHash(block uint64) (chain.Hash, error) {
	if m.env.CurrentIndex() < block {
		return chain.Hash{}, ErrBlockNotMined
	}
	h, ok := m.env.HashOf(block)
	if !ok {
		return chain.Hash{}, fmt.Errorf("%w: block %d", ErrBlockHashUnavailable, block)
	}
	return h, nil
}
