// Command trustgraph is the operator tool for a trustgraph ledger
// node: it loads the reference databases from CSV exports, submits
// attestation evidence and runs trust queries against a configured
// state backend, printing every emitted notification event.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/veriot/trustgraph/pkg/processor"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint, split out for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "load":
		return runLoad(args[2:], stdout, stderr)
	case "submit":
		return runSubmit(args[2:], stdout, stderr)
	case "query":
		return runQuery(args[2:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: trustgraph <load|submit|query> [flags]")
}

// runLoad replaces the reference databases from the CSV files named in
// the config and writes the system configuration.
func runLoad(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "trustgraph.yaml", "node configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	env, err := newEnvironment(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer env.Close()

	if err := loadReferenceData(env.admin, cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, "reference databases loaded")
	return 0
}

// runSubmit submits one piece of evidence from flags.
func runSubmit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "trustgraph.yaml", "node configuration file")
	verifier := fs.String("verifier", "", "verifier device identity (sender)")
	prover := fs.String("prover", "", "prover device identity")
	attType := fs.String("type", "", "attestation type")
	class := fs.String("class", "", "prover device class")
	version := fs.String("version", "", "prover version")
	measurement := fs.String("measurement", "", "measurement value")
	warrant := fs.Bool("warrant", false, "submit as warrant attestation")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	env, err := newEnvironment(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer env.Close()

	if !env.guard.Allow(*verifier) {
		fmt.Fprintf(stderr, "sender %s exceeds the configured transaction rate\n", *verifier)
		return 1
	}

	ev := record.Evidence{
		VerifierIdentity:     *verifier,
		ProverIdentity:       *prover,
		AttestationType:      *attType,
		ProverDeviceClass:    *class,
		ProverVersion:        *version,
		Measurement:          *measurement,
		IsWarrantAttestation: *warrant,
	}
	if err := env.apply(processor.ActionSubmitEvidence, ev, *verifier); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	printEvents(stdout, env.events)
	return 0
}

// runQuery runs one trust query.
func runQuery(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "trustgraph.yaml", "node configuration file")
	trustor := fs.String("trustor", "", "querying verifier identity (sender)")
	trustee := fs.String("trustee", "", "prover identity to attest")
	minReliability := fs.Float64("min-reliability", 0, "minimum aggregate reliability")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	env, err := newEnvironment(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer env.Close()

	query := record.TrustQuery{
		Trustor:        *trustor,
		Trustee:        *trustee,
		MinReliability: *minReliability,
	}
	if err := env.apply(processor.ActionTrustQuery, query, *trustor); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	printEvents(stdout, env.events)
	return 0
}

func printEvents(w io.Writer, events *state.EventRecorder) {
	for _, e := range events.Events() {
		fmt.Fprintf(w, "%s", e.Type)
		for _, a := range e.Attributes {
			fmt.Fprintf(w, " %s=%s", a.Key, a.Value)
		}
		fmt.Fprintln(w)
	}
}
