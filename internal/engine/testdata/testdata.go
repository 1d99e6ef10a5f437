// Package testdata provides vector-log fixtures for engine tests.
package testdata

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed dos_attack.vec
var dosAttackVec string

// DoSAttackLines returns the embedded reference run: node[0] floods
// node[1] and node[2], with packetSize and interArrivalTime recorded
// alongside every packetReceived sample.
func DoSAttackLines() []string {
	return strings.Split(strings.TrimRight(dosAttackVec, "\n"), "\n")
}

// VecBuilder assembles a vector log in OMNeT++ text format.
type VecBuilder struct {
	scenario string
	header   []string
	decls    []string
	samples  []string
}

// NewVec starts a log with the usual version/run/attr header.
func NewVec(scenario string) *VecBuilder {
	return &VecBuilder{
		scenario: scenario,
		header: []string{
			"version 3",
			"run DoSAttack-0-20260101-12:00:00-1",
			"attr configname DoSAttack",
			"param **.numNodes 3",
		},
	}
}

// Declare adds "vector <id> <scenario>.node[<node>].app[0] <name> ETV".
func (b *VecBuilder) Declare(id, node int, name string) *VecBuilder {
	return b.DeclareModule(id, fmt.Sprintf("%s.node[%d].app[0]", b.scenario, node), name)
}

// DeclareModule adds a declaration with an explicit module path.
func (b *VecBuilder) DeclareModule(id int, module, name string) *VecBuilder {
	b.decls = append(b.decls, fmt.Sprintf("vector %d %s %s ETV", id, module, name))
	return b
}

// Sample adds "<id> <seq> <ts> <value>".
func (b *VecBuilder) Sample(id int, seq int64, ts, value string) *VecBuilder {
	b.samples = append(b.samples, fmt.Sprintf("%d %d %s %s", id, seq, ts, value))
	return b
}

// Raw appends a line verbatim to the sample section.
func (b *VecBuilder) Raw(line string) *VecBuilder {
	b.samples = append(b.samples, line)
	return b
}

// Lines returns header, declarations, then samples.
func (b *VecBuilder) Lines() []string {
	out := make([]string, 0, len(b.header)+len(b.decls)+len(b.samples))
	out = append(out, b.header...)
	out = append(out, b.decls...)
	out = append(out, b.samples...)
	return out
}

// String renders the log as file contents.
func (b *VecBuilder) String() string {
	return strings.Join(b.Lines(), "\n") + "\n"
}
