package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/commitment"
	"github.com/Mindburn-Labs/floot/pkg/config"
	"github.com/Mindburn-Labs/floot/pkg/floot"
	"github.com/Mindburn-Labs/floot/pkg/seed"
)

type simulateOutput struct {
	Commitment string         `json:"commitment"`
	Minted     uint64         `json:"minted"`
	RevealPath string         `json:"reveal_path"`
	FinalSeed  string         `json:"final_seed"`
	Snapshot   floot.Snapshot `json:"state"`
	TokenURIs  []string       `json:"token_uris,omitempty"`
}

// runSimulateCmd implements `floot simulate`.
//
// It runs a whole distribution against a simulated chain using the
// configured distribution parameters, registry and event stream.
func runSimulateCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("simulate", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var (
		claims      uint64
		fallback    bool
		guardianHex string
		showURIs    uint64
	)
	cmd.Uint64Var(&claims, "claims", 3, "Number of claims before the distribution ends")
	cmd.BoolVar(&fallback, "fallback", false, "Let the guardian window elapse and take the fallback path")
	cmd.StringVar(&guardianHex, "guardian-seed", "", "Guardian seed matching FLOOT_GUARDIAN_SEED_HASH")
	cmd.Uint64Var(&showURIs, "uris", 1, "Print token URIs for the first N bags")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	setupLogging(cfg, stderr)

	out, err := simulate(context.Background(), cfg, claims, fallback, guardianHex, showURIs)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return writeJSON(stdout, stderr, out)
}

func simulate(ctx context.Context, cfg *config.Config, claims uint64, fallback bool, guardianHex string, showURIs uint64) (*simulateOutput, error) {
	c, guardian, err := guardianCommitment(cfg.Distribution, guardianHex, fallback)
	if err != nil {
		return nil, err
	}

	reg, closeRegistry, err := openRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeRegistry()

	obs, err := openObservability(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = obs.Shutdown(ctx) }()

	opts := []floot.Option{floot.WithObservability(obs)}
	sink, closeSink := openSink(ctx, cfg)
	defer closeSink()
	if sink != nil {
		opts = append(opts, floot.WithSink(sink))
	}

	sim := chain.NewSimChain()
	d := cfg.Distribution
	coord, err := floot.New(floot.Params{
		Commitment:     c,
		GuardianWindow: d.GuardianWindow,
		MaxDuration:    d.MaxDuration,
		MaxSupply:      d.MaxSupply,
	}, sim, reg, opts...)
	if err != nil {
		return nil, err
	}

	if claims > d.MaxSupply {
		claims = d.MaxSupply
	}
	for i := uint64(0); i < claims; i++ {
		if _, err := coord.Claim(ctx, fmt.Sprintf("0xclaimer%02d", i%7)); err != nil {
			return nil, fmt.Errorf("claim %d: %w", i+1, err)
		}
		sim.Mine()
	}
	if claims < d.MaxSupply {
		sim.Advance(d.MaxDuration)
	}

	if _, err := coord.SetAutomaticSeedBlockNumber(ctx); err != nil {
		return nil, err
	}
	sim.Mine()
	if _, err := coord.SetAutomaticSeed(ctx); err != nil {
		return nil, err
	}

	if fallback {
		sim.Advance(d.GuardianWindow + time.Second)
		if _, err := coord.SetFallbackSeedBlockNumber(ctx); err != nil {
			return nil, err
		}
		sim.Mine()
		if _, err := coord.SetFallbackSeed(ctx); err != nil {
			return nil, err
		}
	} else if err := coord.SetGuardianSeed(ctx, guardian); err != nil {
		return nil, err
	}

	final, err := coord.SetFinalSeed(ctx)
	if err != nil {
		return nil, err
	}

	state := coord.State()
	out := &simulateOutput{
		Commitment: c.Hash().Hex(),
		Minted:     state.Minted,
		RevealPath: state.Seed.RevealPath,
		FinalSeed:  final.Hex(),
		Snapshot:   state,
	}
	for id := uint64(1); id <= showURIs && id <= state.Minted; id++ {
		uri, err := coord.TokenURI(ctx, id)
		if err != nil {
			return nil, err
		}
		out.TokenURIs = append(out.TokenURIs, uri)
	}
	return out, nil
}

// guardianCommitment picks the commitment for the run. Without a configured
// hash a fresh guardian seed is generated. With one, the guardian path needs
// the matching seed.
func guardianCommitment(d config.Distribution, guardianHex string, fallback bool) (commitment.Commitment, chain.Hash, error) {
	if d.GuardianSeedHash == "" {
		s, c, err := commitment.Generate()
		return c, s, err
	}
	c, err := d.Commitment()
	if err != nil {
		return commitment.Commitment{}, chain.Hash{}, err
	}
	if fallback {
		return c, chain.Hash{}, nil
	}
	if guardianHex == "" {
		return commitment.Commitment{}, chain.Hash{}, fmt.Errorf("--guardian-seed is required when FLOOT_GUARDIAN_SEED_HASH is set (or use --fallback)")
	}
	s, err := chain.ParseHash(guardianHex)
	if err != nil {
		return commitment.Commitment{}, chain.Hash{}, fmt.Errorf("guardian seed: %w", err)
	}
	if !c.Matches(s) {
		return commitment.Commitment{}, chain.Hash{}, fmt.Errorf("guardian seed: %w", seed.ErrGuardianSeedInvalid)
	}
	return c, s, nil
}
