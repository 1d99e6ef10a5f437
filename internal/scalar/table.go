package scalar

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/crimson-sun/vectrace/internal/model"
)

// Label and node-type columns appended to every table.
const (
	LabelColumn    = "label"
	NodeTypeColumn = "nodeType"
	NormalLabel    = "NORMAL"
)

// Table is a node × metric pivot of scalar values.
type Table struct {
	Nodes   []int
	Columns []string // numeric columns, metrics then derived
	values  map[int]map[string]float64
	labels  map[int]string
	types   map[int]int
}

// Roles assigns labels: AttackerID gets AttackLabel, every other node
// NormalLabel.
type Roles struct {
	AttackerID  int
	AttackLabel string
}

// Pivot builds the table. The first value seen for a (node, metric) pair
// wins; absent pairs read as 0.
func Pivot(metrics []model.ScalarMetric, roles Roles) *Table {
	t := &Table{
		values: make(map[int]map[string]float64),
		labels: make(map[int]string),
		types:  make(map[int]int),
	}
	colSet := make(map[string]struct{})
	for _, m := range metrics {
		row, ok := t.values[m.NodeID]
		if !ok {
			row = make(map[string]float64)
			t.values[m.NodeID] = row
			t.Nodes = append(t.Nodes, m.NodeID)
		}
		if _, seen := row[m.Metric]; !seen {
			row[m.Metric] = m.Value
		}
		colSet[m.Metric] = struct{}{}
	}
	slices.Sort(t.Nodes)
	for c := range colSet {
		t.Columns = append(t.Columns, c)
	}
	slices.Sort(t.Columns)

	t.derive(colSet)

	for _, n := range t.Nodes {
		if n == roles.AttackerID {
			t.labels[n] = roles.AttackLabel
			t.types[n] = 0
		} else {
			t.labels[n] = NormalLabel
			t.types[n] = 1
		}
	}
	return t
}

// derive adds ratio features when their inputs are present.
func (t *Table) derive(cols map[string]struct{}) {
	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := cols[n]; !ok {
				return false
			}
		}
		return true
	}
	add := func(name string, f func(row map[string]float64) float64) {
		for _, n := range t.Nodes {
			row := t.values[n]
			row[name] = f(row)
		}
		t.Columns = append(t.Columns, name)
	}

	if has("totalBytesSent", "totalPacketsSent") {
		add("avgPacketSizeSent", func(r map[string]float64) float64 {
			return r["totalBytesSent"] / (r["totalPacketsSent"] + 0.001)
		})
	}
	if has("totalBytesReceived", "totalPacketsReceived") {
		add("avgPacketSizeRecv", func(r map[string]float64) float64 {
			return r["totalBytesReceived"] / (r["totalPacketsReceived"] + 0.001)
		})
	}
	if has("totalPacketsSent", "totalPacketsReceived") {
		add("sendRecvRatio", func(r map[string]float64) float64 {
			return r["totalPacketsSent"] / (r["totalPacketsReceived"] + 1)
		})
	}
}

// Value returns the cell for node and column, 0 when absent.
func (t *Table) Value(node int, column string) float64 {
	return t.values[node][column]
}

// Label returns the class label of node.
func (t *Table) Label(node int) string {
	return t.labels[node]
}

// NodeType returns 0 for the attacker and 1 for every other node.
func (t *Table) NodeType(node int) int {
	return t.types[node]
}

// Features returns the numeric columns, excluding label and node type.
func (t *Table) Features() []string {
	return slices.Clone(t.Columns)
}

// WriteCSV writes the table with a leading node_id column and trailing
// label and nodeType columns.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"node_id"}, t.Columns...)
	header = append(header, LabelColumn, NodeTypeColumn)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, n := range t.Nodes {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(n))
		for _, c := range t.Columns {
			row = append(row, strconv.FormatFloat(t.Value(n, c), 'g', -1, 64))
		}
		row = append(row, t.labels[n], strconv.Itoa(t.types[n]))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
