// Command detlab analyses a scintillation-detector lab dataset.
//
// Usage:
//
//	detlab [flags] dataset.json
//
// It prints the PMT gain law, the Compton edges of the listed isotopes, the
// photopeaks found in a raw spectrum, the energy calibration and the energy
// resolution, for every section the dataset holds.
//
// Examples:
//
//	detlab lab.json
//	detlab -plot out lab.json
//	detlab -plot out -format svg lab.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-detector/lab"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code: 0 on success,
// 1 when the analysis fails, 2 on a usage error.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("detlab", flag.ContinueOnError)
	fs.SetOutput(stderr)

	plotDir := fs.String("plot", "", "write one plot per section into this directory")
	format := fs.String("format", "png", "plot image format: png or svg")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: detlab [flags] dataset.json\n\n")
		fmt.Fprintf(stderr, "Analyses a detector lab dataset and prints one table per section.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  detlab lab.json\n")
		fmt.Fprintf(stderr, "  detlab -plot out -format svg lab.json\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	if err := checkArgs(fs.NArg(), *format); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		fs.Usage()

		return 2
	}

	ds, err := lab.LoadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	rep, err := lab.Analyze(ds)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := rep.WriteText(stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if *plotDir == "" {
		return 0
	}

	if err := os.MkdirAll(*plotDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	paths, err := rep.SavePlots(*plotDir, *format)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	for _, p := range paths {
		fmt.Fprintf(stderr, "wrote %s\n", p)
	}

	return 0
}

func checkArgs(n int, format string) error {
	if n != 1 {
		return fmt.Errorf("%w: expected exactly one dataset file, got %d arguments", errUsage, n)
	}

	switch format {
	case "png", "svg":
		return nil
	default:
		return fmt.Errorf("%w: unsupported plot format %q", errUsage, format)
	}
}
