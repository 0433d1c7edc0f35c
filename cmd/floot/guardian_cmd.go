package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/commitment"
)

type commitOutput struct {
	GuardianSeed string `json:"guardian_seed"`
	Commitment   string `json:"commitment"`
}

// runCommitCmd implements `floot commit`.
//
// The seed must stay secret until the guardian reveals it, and a fresh one is
// needed for every distribution.
func runCommitCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("commit", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	jsonOutput := cmd.Bool("json", false, "Output as JSON")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	seed, c, err := commitment.Generate()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	out := commitOutput{GuardianSeed: seed.Hex(), Commitment: c.Hash().Hex()}

	if *jsonOutput {
		return writeJSON(stdout, stderr, out)
	}
	_, _ = fmt.Fprintf(stdout, "guardian seed: %s\n", out.GuardianSeed)
	_, _ = fmt.Fprintf(stdout, "commitment:    %s\n", out.Commitment)
	_, _ = fmt.Fprintln(stdout, "Keep the guardian seed secret. Never reuse it for another distribution.")
	return 0
}

// runVerifyCmd implements `floot verify`.
func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var commitHex, seedHex string
	cmd.StringVar(&commitHex, "commitment", "", "Committed hash (REQUIRED)")
	cmd.StringVar(&seedHex, "seed", "", "Revealed guardian seed (REQUIRED)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if commitHex == "" || seedHex == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --commitment and --seed are required")
		return 2
	}

	h, err := chain.ParseHash(commitHex)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: commitment: %v\n", err)
		return 2
	}
	c, err := commitment.New(h)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: commitment: %v\n", err)
		return 2
	}
	seed, err := chain.ParseHash(seedHex)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: seed: %v\n", err)
		return 2
	}

	if !c.Matches(seed) {
		_, _ = fmt.Fprintln(stdout, "INVALID: seed does not match commitment")
		return 1
	}
	_, _ = fmt.Fprintln(stdout, "VALID")
	return 0
}

func writeJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
