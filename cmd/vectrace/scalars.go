package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/vectrace/internal/config"
	"github.com/crimson-sun/vectrace/internal/engine/index"
	"github.com/crimson-sun/vectrace/internal/logging"
	"github.com/crimson-sun/vectrace/internal/report"
	"github.com/crimson-sun/vectrace/internal/scalar"
)

const (
	defaultScalarFile   = "results/DoSAttack-#0.sca"
	defaultDatasetFile  = "ml_dataset.csv"
	defaultFeaturesFile = "feature_names.txt"
)

type scalarFlags struct {
	scenarioFlags
	out      string
	features string
}

func scalarsCmd(g *globals) *cobra.Command {
	f := &scalarFlags{}
	cmd := &cobra.Command{
		Use:   "scalars [file]",
		Short: "Pivot per-node scalar metrics into a labelled feature table",
		Long: `Read the scalar lines of every node and write one row per node with one
column per metric. Missing metrics are filled with 0 and average packet
sizes and the send/receive ratio are derived when their inputs exist.

Examples:
  vectrace scalars
  vectrace scalars run.sca --out features.csv --features features.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScalars(cmd, args, g, f)
		},
	}

	cmd.Flags().StringVar(&f.out, "out", defaultDatasetFile, "Dataset CSV path")
	cmd.Flags().StringVar(&f.features, "features", defaultFeaturesFile, "Feature list path")
	f.scenarioFlags.register(cmd)

	return cmd
}

func runScalars(cmd *cobra.Command, args []string, g *globals, f *scalarFlags) error {
	cfg, err := loadConfig(cmd, g, func(c *config.Config) { f.scenarioFlags.apply(cmd, c) })
	if err != nil {
		return err
	}
	path := defaultScalarFile
	if len(args) == 1 {
		path = args[0]
	}
	log := logging.Init(false, logging.ParseLevel(cfg.LogLevel))

	metrics, err := scalar.ParseFile(path, index.NewPattern(cfg.Scenario.Name, cfg.Scenario.AppSlot))
	if err != nil {
		return err
	}
	tbl := scalar.Pivot(metrics, cfg.ScalarRoles())
	log.Info("scalars pivoted", "path", path, "metrics", len(metrics), "nodes", len(tbl.Nodes), "columns", len(tbl.Columns))

	if err := writeDataset(f.out, tbl); err != nil {
		return err
	}
	if err := report.WriteFeatureNames(f.features, tbl.Features()); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Dataset saved to %s (%d nodes, %d features)\n", f.out, len(tbl.Nodes), len(tbl.Features()))
	fmt.Fprintf(w, "Feature names saved to %s\n\n", f.features)
	return tbl.WriteSummary(w)
}

func writeDataset(path string, tbl *scalar.Table) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := tbl.WriteCSV(fh); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}
