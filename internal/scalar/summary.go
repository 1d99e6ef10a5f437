package scalar

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// KeyMetrics are printed by WriteSummary when present.
var KeyMetrics = []string{
	"totalPacketsSent", "totalPacketsReceived",
	"totalBytesSent", "totalBytesReceived",
	"packetSendRate", "packetRecvRate",
	"avgInterArrivalTime", "burstiness",
	"avgPacketSize", "throughputEfficiency",
}

// WriteSummary prints the key metrics of every node.
func (t *Table) WriteSummary(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	if _, err := fmt.Fprintf(w, "%s\nSUMMARY\n%s\n", rule, rule); err != nil {
		return err
	}
	for _, n := range t.Nodes {
		if _, err := fmt.Fprintf(w, "\nNode %d - %s\n%s\n", n, t.labels[n], strings.Repeat("-", 60)); err != nil {
			return err
		}
		for _, m := range KeyMetrics {
			if !slices.Contains(t.Columns, m) {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %-25s: %12.4f\n", m, t.Value(n, m)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", rule)
	return err
}
