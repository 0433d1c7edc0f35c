package main

import (
	"fmt"
	"io"
	"os"
)

// Dispatcher
func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
//
// Exit codes:
//
//	0 = success
//	1 = check failed (verify)
//	2 = usage or runtime error
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "commit":
		return runCommitCmd(args[2:], stdout, stderr)
	case "render":
		return runRenderCmd(args[2:], stdout, stderr)
	case "verify":
		return runVerifyCmd(args[2:], stdout, stderr)
	case "simulate":
		return runSimulateCmd(args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorBlue  = "\033[34m"
	colorGray  = "\033[37m"
)

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintf(w, "%sfloot%s\n", colorBold+colorBlue, colorReset)
	_, _ = fmt.Fprintf(w, "%sBlind-drop distribution with commit-reveal seed finalization.%s\n", colorGray, colorReset)
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintf(w, "%sUSAGE:%s\n", colorBold, colorReset)
	_, _ = fmt.Fprintln(w, "  floot <command> [flags]")
	_, _ = fmt.Fprintln(w, "")

	printSection(w, "GUARDIAN")
	printCommand(w, "commit", "Generate a guardian seed and its commitment (--json)")
	printCommand(w, "verify", "Check a guardian seed against a commitment (--commitment, --seed)")

	printSection(w, "METADATA")
	printCommand(w, "render", "Render a bag from a final seed (--seed, --id, --svg, --item)")

	printSection(w, "SIMULATION")
	printCommand(w, "simulate", "Run a full distribution on a simulated chain (--claims, --fallback)")

	printSection(w, "OTHER")
	printCommand(w, "help", "Show this help")
	_, _ = fmt.Fprintln(w, "")
}

func printSection(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "%s%s:%s\n", colorBold, title, colorReset)
}

func printCommand(w io.Writer, name, desc string) {
	_, _ = fmt.Fprintf(w, "  %-10s %s\n", name, desc)
}
