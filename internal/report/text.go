package report

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/crimson-sun/vectrace/internal/model"
	"github.com/crimson-sun/vectrace/internal/output"
)

var rule = strings.Repeat("=", 60)

// WriteText prints the breakdown and statistics for the console.
func (s Summary) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "%s\nDATASET SUMMARY (run %s)\n%s\n", rule, s.RunID, rule)
	fmt.Fprintf(w, "Total communications: %d\n\nBreakdown:\n", s.Total)
	for _, l := range s.labelOrder() {
		fmt.Fprintf(w, "  %s: %d\n", l, s.Labels[l])
	}
	fmt.Fprintf(w, "\nReceivers:\n")
	for _, id := range s.ReceiverIDs() {
		fmt.Fprintf(w, "  node[%d]: %d\n", id, s.Receivers[id])
	}
	fmt.Fprintf(w, "\n%s\nSTATISTICS:\n%s\n", rule, rule)
	return s.writeStats(w)
}

// labelOrder lists the fixed labels first, then any others seen.
func (s Summary) labelOrder() []string {
	var extra []string
	for l := range s.Labels {
		if !slices.Contains(Labels, l) {
			extra = append(extra, l)
		}
	}
	slices.Sort(extra)
	return append(append([]string(nil), Labels...), extra...)
}

func (s Summary) writeStats(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t\n")
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t\n",
			c.Column, c.Count, c.Mean, c.Std, c.Min, c.P25, c.P50, c.P75, c.Max)
	}
	return tw.Flush()
}

// WriteHead prints the first n records as a table.
func WriteHead(w io.Writer, recs []model.CommunicationRecord, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(output.Columns, "\t"))
	for i, r := range recs {
		if i == n {
			break
		}
		fmt.Fprintln(tw, strings.Join(output.Row(r), "\t"))
	}
	return tw.Flush()
}

// WriteSummaryFile writes the dataset summary to path.
func WriteSummaryFile(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "V2V COMMUNICATION DATASET SUMMARY\n%s\n\n", rule)
	fmt.Fprintf(f, "Run: %s\n", s.RunID)
	fmt.Fprintf(f, "Total communications: %d\n", s.Total)
	for _, l := range Labels {
		fmt.Fprintf(f, "%s communications: %d\n", l, s.Labels[l])
	}
	fmt.Fprintf(f, "\nColumns:\n")
	for _, c := range output.Columns {
		fmt.Fprintf(f, "  - %s\n", c)
	}
	fmt.Fprintf(f, "\nStatistics:\n")
	if err := s.writeStats(f); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return f.Close()
}

// WriteFeatureNames writes a numbered feature list to path.
func WriteFeatureNames(path string, features []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "ML FEATURES\n%s\n\n", strings.Repeat("=", 50))
	for i, feat := range features {
		fmt.Fprintf(f, "%3d. %s\n", i+1, feat)
	}
	fmt.Fprintf(f, "\nTotal: %d features\n", len(features))
	return f.Close()
}
