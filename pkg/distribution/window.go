// Package distribution tracks the minting window: a time bound and a supply cap.
package distribution

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDistributionClosed is returned once the time bound has passed.
	ErrDistributionClosed = errors.New("distribution has ended")
	// ErrSupplyExhausted is returned once every unit of supply is minted.
	ErrSupplyExhausted = errors.New("max supply exceeded")
	// ErrInvalidParams is returned by New for unusable parameters.
	ErrInvalidParams = errors.New("invalid distribution parameters")
)

// Window is the distribution's time and supply bound.
// It is not safe for concurrent use.
type Window struct {
	start       time.Time
	maxDuration time.Duration
	maxSupply   uint64
	minted      uint64
}

// New opens a window at start.
func New(start time.Time, maxDuration time.Duration, maxSupply uint64) (*Window, error) {
	if maxSupply == 0 {
		return nil, fmt.Errorf("%w: max supply must be positive", ErrInvalidParams)
	}
	if maxDuration <= 0 {
		return nil, fmt.Errorf("%w: max duration must be positive", ErrInvalidParams)
	}
	return &Window{start: start, maxDuration: maxDuration, maxSupply: maxSupply}, nil
}

// Start returns the time the window opened.
func (w *Window) Start() time.Time { return w.start }

// Deadline returns the instant the window closes by time.
func (w *Window) Deadline() time.Time { return w.start.Add(w.maxDuration) }

// MaxSupply returns the supply cap.
func (w *Window) MaxSupply() uint64 { return w.maxSupply }

// Minted returns how many units have been claimed.
func (w *Window) Minted() uint64 { return w.minted }

// ClosedByTime reports whether now is at or past the deadline.
func (w *Window) ClosedByTime(now time.Time) bool {
	return !now.Before(w.Deadline())
}

// ClosedBySupply reports whether the cap has been reached.
func (w *Window) ClosedBySupply() bool {
	return w.minted == w.maxSupply
}

// Closed reports whether minting is over for either reason.
func (w *Window) Closed(now time.Time) bool {
	return w.ClosedByTime(now) || w.ClosedBySupply()
}

// CheckOpen returns the reason a claim at now would fail, or nil.
// The time bound is checked first.
func (w *Window) CheckOpen(now time.Time) error {
	if w.ClosedByTime(now) {
		return ErrDistributionClosed
	}
	if w.ClosedBySupply() {
		return ErrSupplyExhausted
	}
	return nil
}

// Next returns the identifier the next successful claim will receive.
func (w *Window) Next() uint64 {
	return w.minted + 1
}

// Record consumes one unit of supply.
func (w *Window) Record(now time.Time) (uint64, error) {
	if err := w.CheckOpen(now); err != nil {
		return 0, err
	}
	w.minted++
	return w.minted, nil
}
