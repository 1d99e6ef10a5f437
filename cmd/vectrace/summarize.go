package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/logging"
	"github.com/crimson-sun/vectrace/internal/report"
	"github.com/crimson-sun/vectrace/internal/vecfile"
)

func summarizeCmd(g *globals) *cobra.Command {
	var head int
	cmd := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Report on an NDJSON communication dataset",
		Long: `Read communication records written by "vectrace vectors -o ndjson" and
print label counts and per-column statistics. Compressed (.zst, .gz) files
are read transparently.

Examples:
  vectrace summarize v2v_communications.ndjson
  vectrace summarize v2v_communications.ndjson.zst --head 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, args, g, head)
		},
	}

	cmd.Flags().IntVar(&head, "head", 0, "Number of records to preview")
	return cmd
}

func runSummarize(cmd *cobra.Command, args []string, g *globals, head int) error {
	cfg, err := loadConfig(cmd, g, nil)
	if err != nil {
		return err
	}
	log := logging.Init(false, logging.ParseLevel(cfg.LogLevel))

	path := "v2v_communications.ndjson"
	if len(args) == 1 {
		path = args[0]
	}
	rc, err := vecfile.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	recs, skipped, err := report.ReadNDJSON(rc)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if skipped > 0 {
		log.Warn("skipped unreadable lines", "path", path, "skipped", skipped)
	}
	if len(recs) == 0 {
		return engine.ErrNoData
	}

	w := cmd.OutOrStdout()
	if head > 0 {
		if err := report.WriteHead(w, recs, head); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return report.Summarize(recs).WriteText(w)
}
