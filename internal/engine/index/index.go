// Package index builds the stream index of a vector log: a mapping from
// vector id to the owning node and the recorded signal name.
package index

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/crimson-sun/vectrace/internal/model"
)

const declKeyword = "vector"

// Default module path components of the DoS scenario.
const (
	DefaultScenario = "DoSScenario"
	DefaultAppSlot  = "app[0]"
)

// Pattern selects the module paths whose vectors are indexed:
// <Scenario>.node[<n>].<AppSlot>.
type Pattern struct {
	Scenario string
	AppSlot  string
	re       *regexp.Regexp
}

// NewPattern compiles a module path selector.
func NewPattern(scenario, appSlot string) Pattern {
	expr := "^" + regexp.QuoteMeta(scenario) + `\.node\[(\d+)\]\.` + regexp.QuoteMeta(appSlot) + "$"
	return Pattern{Scenario: scenario, AppSlot: appSlot, re: regexp.MustCompile(expr)}
}

// DefaultPattern matches DoSScenario.node[n].app[0].
func DefaultPattern() Pattern {
	return NewPattern(DefaultScenario, DefaultAppSlot)
}

// Node returns the node index encoded in a module path, if the path
// matches the pattern.
func (p Pattern) Node(modulePath string) (int, bool) {
	re := p.re
	if re == nil {
		re = DefaultPattern().re
	}
	m := re.FindStringSubmatch(modulePath)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s.node[*].%s", p.Scenario, p.AppSlot)
}

// Stats are diagnostic counts from one Build call.
type Stats struct {
	Declarations int // lines starting with the vector keyword
	Indexed      int // distinct stream ids in the index
	Skipped      int // declaration-shaped lines that failed the grammar
	OutOfScope   int // well-formed declarations for other modules
	Duplicates   int // declarations that replaced an earlier id
}

// Index maps stream ids to their declarations. It is read-only once built.
type Index struct {
	streams map[int]model.StreamDeclaration
}

// Build scans lines for vector declarations and indexes those whose module
// path matches p. Lines that are not declarations are ignored. A repeated
// stream id replaces the earlier declaration.
func Build(lines []string, p Pattern) (*Index, Stats) {
	var st Stats
	idx := &Index{streams: make(map[int]model.StreamDeclaration)}

	for _, line := range lines {
		if !strings.HasPrefix(line, declKeyword) {
			continue
		}
		st.Declarations++

		decl, modulePath, ok := parseDeclaration(line)
		if !ok {
			st.Skipped++
			continue
		}
		node, ok := p.Node(modulePath)
		if !ok {
			st.OutOfScope++
			continue
		}
		decl.EntityID = node

		if _, dup := idx.streams[decl.StreamID]; dup {
			st.Duplicates++
		}
		idx.streams[decl.StreamID] = decl
	}

	st.Indexed = len(idx.streams)
	return idx, st
}

// parseDeclaration splits "vector <id> <module> <name> [attrs...]".
func parseDeclaration(line string) (model.StreamDeclaration, string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[0] != declKeyword {
		return model.StreamDeclaration{}, "", false
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return model.StreamDeclaration{}, "", false
	}
	return model.StreamDeclaration{StreamID: id, StreamName: fields[3]}, fields[2], true
}

// Lookup returns the declaration for a stream id.
func (x *Index) Lookup(id int) (model.StreamDeclaration, bool) {
	d, ok := x.streams[id]
	return d, ok
}

// Len returns the number of indexed streams.
func (x *Index) Len() int {
	return len(x.streams)
}

// Entities returns the distinct node ids owning indexed streams, ascending.
func (x *Index) Entities() []int {
	seen := make(map[int]struct{})
	for _, d := range x.streams {
		seen[d.EntityID] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Declarations returns all indexed declarations ordered by stream id.
func (x *Index) Declarations() []model.StreamDeclaration {
	out := make([]model.StreamDeclaration, 0, len(x.streams))
	for _, d := range x.streams {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b model.StreamDeclaration) int { return a.StreamID - b.StreamID })
	return out
}
