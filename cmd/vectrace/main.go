// vectrace turns OMNeT++ simulation results into labelled datasets.
//
// Installation:
//
//	go build -o vectrace ./cmd/vectrace
//
// Usage:
//
//	vectrace vectors results/DoSAttack-#0.vec
//	vectrace vectors -o csv,ndjson --out dataset --summary dataset_summary.txt
//	vectrace scalars results/DoSAttack-#0.sca
//	vectrace summarize v2v_communications.ndjson
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/scalar"

	// Register output formats.
	_ "github.com/crimson-sun/vectrace/internal/output/csvfile"
	_ "github.com/crimson-sun/vectrace/internal/output/file"
	_ "github.com/crimson-sun/vectrace/internal/output/stdout"
	_ "github.com/crimson-sun/vectrace/internal/output/xlsx"
)

var version = "dev"

// Exit codes.
const (
	exitOK     = 0
	exitFatal  = 1
	exitNoData = 2
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return exitCode(root.Execute(), stderr)
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "vectrace",
		Short: "Build labelled datasets from OMNeT++ result files",
		Long: `vectrace reads the vector (.vec) and scalar (.sca) files written by an
OMNeT++ V2V simulation and turns them into datasets.

"vectors" correlates the per-packet vectors of every vehicle into one
communication record per received packet. "scalars" pivots per-node scalar
metrics into a feature table. "summarize" reports on an NDJSON dataset.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file overlaid on VECTRACE_* environment settings")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(vectorsCmd(g))
	rootCmd.AddCommand(scalarsCmd(g))
	rootCmd.AddCommand(summarizeCmd(g))

	return rootCmd
}

// exitCode maps a command error to the process exit status. An empty
// result is reported without the error banner.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, engine.ErrNoData), errors.Is(err, scalar.ErrNoData):
		fmt.Fprintf(stderr, "vectrace: %v\n", err)
		return exitNoData
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFatal
	}
}
