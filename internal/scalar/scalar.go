// Package scalar parses OMNeT++ scalar result files into a per-node
// feature table.
package scalar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crimson-sun/vectrace/internal/engine/index"
	"github.com/crimson-sun/vectrace/internal/model"
	"github.com/crimson-sun/vectrace/internal/vecfile"
)

// ErrNoData reports a scalar file without any matching scalar lines.
var ErrNoData = errors.New("no scalar data found")

// Parse reads "scalar <module> <metric> <value>" lines whose module matches
// p. Other lines, and scalar lines with an unparseable value, are skipped.
func Parse(r io.Reader, p index.Pattern) ([]model.ScalarMetric, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []model.ScalarMetric
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "scalar") {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 4 || f[0] != "scalar" {
			continue
		}
		node, ok := p.Node(f[1])
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			continue
		}
		out = append(out, model.ScalarMetric{NodeID: node, Metric: f[2], Value: v})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scalar: scan: %w", err)
	}
	return out, nil
}

// ParseFile opens path and parses it. A missing file is reported with its
// path; a file without matching scalars yields ErrNoData.
func ParseFile(path string, p index.Pattern) ([]model.ScalarMetric, error) {
	rc, err := vecfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	metrics, err := Parse(rc, p)
	if err != nil {
		return nil, fmt.Errorf("scalar: %s: %w", path, err)
	}
	if len(metrics) == 0 {
		return nil, ErrNoData
	}
	return metrics, nil
}
