package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/Mindburn-Labs/floot/pkg/chain"
	"github.com/Mindburn-Labs/floot/pkg/generator"
	"github.com/Mindburn-Labs/floot/pkg/metadata"
)

// runRenderCmd implements `floot render`.
//
// Rendering needs only the public final seed, so anyone can reproduce the
// metadata of any bag without trusting the operator.
func runRenderCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("render", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var (
		seedHex string
		id      uint64
		svg     bool
		item    string
		uri     bool
	)
	cmd.StringVar(&seedHex, "seed", "", "Final seed (REQUIRED)")
	cmd.Uint64Var(&id, "id", 0, "Bag identifier, 1-based (REQUIRED)")
	cmd.BoolVar(&svg, "svg", false, "Print the SVG image instead of metadata")
	cmd.StringVar(&item, "item", "", "Print a single item: weapon, chest, head, waist, foot, hand, neck or ring")
	cmd.BoolVar(&uri, "uri", false, "Print the token URI instead of decoded metadata")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if seedHex == "" || id == 0 {
		_, _ = fmt.Fprintln(stderr, "Error: --seed and --id are required")
		return 2
	}
	seed, err := chain.ParseHash(seedHex)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: seed: %v\n", err)
		return 2
	}

	if item != "" {
		c, err := generator.ParseCategory(item)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		it, err := generator.RenderItem(seed, id, c)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintln(stdout, it.Name)
		return 0
	}

	bag, img := generator.Render(seed, id)
	if svg {
		_, _ = fmt.Fprintln(stdout, string(img))
		return 0
	}
	doc := metadata.Build(bag, img)
	if uri {
		s, err := metadata.TokenURI(doc)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintln(stdout, s)
		return 0
	}
	return writeJSON(stdout, stderr, doc)
}
