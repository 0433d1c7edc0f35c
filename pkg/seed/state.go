package seed

import (
	"time"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

// Phase names the furthest point the protocol has reached.
type Phase string

const (
	PhaseIdle             Phase = "IDLE"
	PhaseAutoBlockSet     Phase = "AUTO_BLOCK_SET"
	PhaseAutoSeedSet      Phase = "AUTO_SEED_SET"
	PhaseFallbackBlockSet Phase = "FALLBACK_BLOCK_SET"
	PhaseGuardianSeedSet  Phase = "GUARDIAN_SEED_SET"
	PhaseFallbackSeedSet  Phase = "FALLBACK_SEED_SET"
	PhaseFinalSeedSet     Phase = "FINAL_SEED_SET"
)

// State is a read-only snapshot of the machine. Unset fields are nil.
type State struct {
	Phase                  Phase       `json:"phase"`
	AutomaticSeedBlock     *uint64     `json:"automatic_seed_block,omitempty"`
	AutomaticSeed          *chain.Hash `json:"automatic_seed,omitempty"`
	GuardianWindowDeadline *time.Time  `json:"guardian_window_deadline,omitempty"`
	FallbackSeedBlock      *uint64     `json:"fallback_seed_block,omitempty"`
	RevealPath             string      `json:"reveal_path"`
	GuardianSeed           *chain.Hash `json:"guardian_seed,omitempty"`
	FallbackSeed           *chain.Hash `json:"fallback_seed,omitempty"`
	FinalSeed              *chain.Hash `json:"final_seed,omitempty"`
}

// State returns a snapshot of every field.
func (m *Machine) State() State {
	s := State{Phase: PhaseIdle, RevealPath: m.reveal.Kind().String()}

	if b, ok := m.automaticBlock.Get(); ok {
		s.AutomaticSeedBlock = &b
		s.Phase = PhaseAutoBlockSet
	}
	if auto, ok := m.automatic.Get(); ok {
		seed := auto.seed
		deadline := auto.at.Add(m.guardianWindow)
		s.AutomaticSeed = &seed
		s.GuardianWindowDeadline = &deadline
		s.Phase = PhaseAutoSeedSet
	}
	if b, ok := m.fallbackBlock.Get(); ok {
		s.FallbackSeedBlock = &b
		s.Phase = PhaseFallbackBlockSet
	}
	if revealed, ok := m.reveal.Seed(); ok {
		switch m.reveal.Kind() {
		case RevealGuardian:
			s.GuardianSeed = &revealed
			s.Phase = PhaseGuardianSeedSet
		case RevealFallback:
			s.FallbackSeed = &revealed
			s.Phase = PhaseFallbackSeedSet
		}
	}
	if final, ok := m.final.Get(); ok {
		s.FinalSeed = &final
		s.Phase = PhaseFinalSeedSet
	}
	return s
}
