package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/vectrace/internal/config"
	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/logging"
	"github.com/crimson-sun/vectrace/internal/metrics"
	"github.com/crimson-sun/vectrace/internal/output"
	"github.com/crimson-sun/vectrace/internal/output/multi"
	"github.com/crimson-sun/vectrace/internal/pipeline"
	"github.com/crimson-sun/vectrace/internal/report"
)

const defaultVectorFile = "results/DoSAttack-#0.vec"

type vectorFlags struct {
	scenarioFlags
	output      string
	out         string
	window      float64
	summary     string
	metricsFile string
	pretty      bool
	compress    bool
	head        int
}

func vectorsCmd(g *globals) *cobra.Command {
	f := &vectorFlags{}
	cmd := &cobra.Command{
		Use:   "vectors [file]",
		Short: "Correlate vector samples into communication records",
		Long: `Correlate the packetReceived, packetSize and interArrivalTime vectors of
every node into one record per received packet.

Each received packet is paired with the size and inter-arrival samples of
the same node whose timestamp lies within the match window. Records are
written sorted by timestamp.

Examples:
  # Default input, Excel output
  vectrace vectors

  # CSV and NDJSON side by side, with a summary file
  vectrace vectors run.vec -o csv,ndjson --out dataset --summary dataset_summary.txt

  # Stream records to stdout
  vectrace vectors run.vec -o stdout | jq .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVectors(cmd, args, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output format: csv, xlsx, ndjson, stdout (comma-separated for several)")
	cmd.Flags().StringVar(&f.out, "out", "", "Output path (default v2v_communications.<format>)")
	cmd.Flags().Float64Var(&f.window, "window", 0, "Match window in seconds (default 0.01)")
	cmd.Flags().StringVar(&f.summary, "summary", "", "Write a dataset summary to this file")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Indent JSON written to stdout")
	cmd.Flags().BoolVar(&f.compress, "compress", false, "zstd-compress NDJSON output")
	cmd.Flags().IntVar(&f.head, "head", 10, "Number of records to preview")
	f.scenarioFlags.register(cmd)

	return cmd
}

func (f *vectorFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f.scenarioFlags.apply(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Format = f.output
	}
	if flags.Changed("out") {
		cfg.Output.Path = f.out
	}
	if flags.Changed("window") {
		cfg.Engine.MatchWindow = f.window
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = f.pretty
	}
	if flags.Changed("compress") {
		cfg.Output.Compress = f.compress
	}
}

func runVectors(cmd *cobra.Command, args []string, g *globals, f *vectorFlags) error {
	cfg, err := loadConfig(cmd, g, func(c *config.Config) { f.apply(cmd, c) })
	if err != nil {
		return err
	}
	path := defaultVectorFile
	if len(args) == 1 {
		path = args[0]
	}

	formats := cfg.Output.FormatList()
	toStdout := slices.Contains(formats, "stdout")
	log := logging.Init(toStdout, logging.ParseLevel(cfg.LogLevel))

	out, err := buildOutput(cfg, formats)
	if err != nil {
		return err
	}

	rec := metrics.New()
	eng := engine.New(cfg.ToEngine(), engine.WithLogger(log))
	p := pipeline.New(eng, out, pipeline.WithMetrics(rec), pipeline.WithLogger(log))

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("processing vector file", "path", path, "formats", strings.Join(formats, ","), "window", cfg.Engine.MatchWindow)
	res, runErr := p.Run(ctx, path)
	if err := p.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close output: %w", err)
	}
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	// Records own stdout when streamed; the console report goes to stderr.
	console := cmd.OutOrStdout()
	if toStdout {
		console = cmd.ErrOrStderr()
	}
	sum := report.Summarize(res.Records)
	if err := writeConsoleReport(console, sum, res, f.head); err != nil {
		return err
	}
	for _, format := range formats {
		if format != "stdout" {
			fmt.Fprintf(console, "Saved %d records to %s\n", len(res.Records), outputPath(cfg, format, len(formats) > 1))
		}
	}
	if f.summary != "" {
		if err := report.WriteSummaryFile(f.summary, sum); err != nil {
			return err
		}
		fmt.Fprintf(console, "Summary saved to %s\n", f.summary)
	}
	return nil
}

func writeConsoleReport(w io.Writer, sum report.Summary, res engine.Result, head int) error {
	fmt.Fprintf(w, "Indexed %d streams (%d declarations skipped)\n", res.Index.Indexed, res.Index.Skipped)
	fmt.Fprintf(w, "Extracted %d receive, %d size and %d inter-arrival samples\n\n",
		res.Correlation.Primary, res.Correlation.Size, res.Correlation.InterArrival)
	if head > 0 {
		if err := report.WriteHead(w, res.Records, head); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return sum.WriteText(w)
}

// buildOutput wraps every requested format in a lazy output so a run
// without records creates no files.
func buildOutput(cfg config.Config, formats []string) (output.Output, error) {
	outs := make([]output.Output, 0, len(formats))
	for _, format := range formats {
		ctor, err := output.Get(format)
		if err != nil {
			return nil, err
		}
		oc := output.Config{
			Path:     outputPath(cfg, format, len(formats) > 1),
			Pretty:   cfg.Output.Pretty,
			Compress: cfg.Output.Compress,
		}
		outs = append(outs, output.NewLazy(func() (output.Output, error) {
			o, err := ctor(oc)
			if err != nil {
				return nil, fmt.Errorf("open %s output: %w", format, err)
			}
			slog.Debug("output opened", "format", format, "path", oc.Path)
			return o, nil
		}))
	}
	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}

// outputPath resolves the destination of one format. With several formats
// a configured path is used as a base name and each format adds its own
// extension.
func outputPath(cfg config.Config, format string, several bool) string {
	p := cfg.Output.Path
	switch {
	case format == "stdout":
		return ""
	case p == "":
		p = config.DefaultPath(format)
	case several:
		p = strings.TrimSuffix(p, filepath.Ext(p)) + "." + format
	}
	if format == "ndjson" && cfg.Output.Compress && filepath.Ext(p) != ".zst" {
		p += ".zst"
	}
	return p
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
