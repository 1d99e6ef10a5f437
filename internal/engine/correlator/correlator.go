// Package correlator joins the packetReceived, packetSize and
// interArrivalTime vectors of a log into one CommunicationRecord per
// received packet.
package correlator

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/crimson-sun/vectrace/internal/model"
)

// DefaultWindow is the matching tolerance in seconds.
const DefaultWindow = 0.01

// headerKeywords start lines that never carry samples.
var headerKeywords = []string{"version", "run", "attr", "param", "vector"}

// Lookup resolves a stream id to its declaration.
type Lookup interface {
	Lookup(id int) (model.StreamDeclaration, bool)
}

// Streams names the three vectors of interest.
type Streams struct {
	Primary      string // matched by substring, e.g. packetReceived:vector
	Size         string // matched exactly
	InterArrival string // matched exactly
}

// DefaultStreams returns the vector names recorded by the DoS application.
func DefaultStreams() Streams {
	return Streams{
		Primary:      "packetReceived",
		Size:         "packetSize",
		InterArrival: "interArrivalTime",
	}
}

// interesting reports whether samples of this stream are retained at all.
func (s Streams) interesting(name string) bool {
	return strings.Contains(name, s.Primary) ||
		strings.Contains(name, s.Size) ||
		strings.Contains(name, s.InterArrival)
}

// Roles is the fixed sender/label assignment of the scenario.
type Roles struct {
	SenderID         int
	PacketType       string
	Label            string
	SenderIsAttacker bool
}

// DefaultRoles: node[0] is the attacker and every packet is attack traffic.
func DefaultRoles() Roles {
	return Roles{SenderID: 0, PacketType: "ATTACK", Label: "ATTACK", SenderIsAttacker: true}
}

// Config controls a correlation run.
type Config struct {
	Streams Streams
	Roles   Roles
	Window  float64 // seconds; a candidate matches when |Δt| < Window
}

// DefaultConfig returns the DoS scenario defaults.
func DefaultConfig() Config {
	return Config{Streams: DefaultStreams(), Roles: DefaultRoles(), Window: DefaultWindow}
}

// Observation is a sample resolved through the stream index.
type Observation struct {
	model.Sample
	EntityID   int
	StreamName string
}

// Groups holds retained observations partitioned by stream, each in
// discovery order.
type Groups struct {
	Primary      []Observation
	Size         []Observation
	InterArrival []Observation
}

// Stats are diagnostic counts; they are not part of the output contract.
type Stats struct {
	SampleLines         int // non-blank, non-header lines
	Malformed           int
	Unresolved          int // stream id not in the index
	OutOfInterest       int
	Primary             int
	Size                int
	InterArrival        int
	SizeMatched         int
	InterArrivalMatched int
	Records             int
}

// Correlate extracts samples from lines and joins them into records sorted
// by timestamp. An empty or unusable log yields an empty, non-nil slice.
func Correlate(lines []string, idx Lookup, cfg Config) ([]model.CommunicationRecord, Stats) {
	g, st := Extract(lines, idx, cfg.Streams)
	recs, js := Join(g, cfg)
	st.SizeMatched = js.SizeMatched
	st.InterArrivalMatched = js.InterArrivalMatched
	st.Records = js.Records
	return recs, st
}

// Extract parses sample lines, resolves them through idx and partitions the
// retained ones. A line that fails the sample grammar is discarded alone.
func Extract(lines []string, idx Lookup, s Streams) (Groups, Stats) {
	var (
		g  Groups
		st Stats
	)
	for _, line := range lines {
		if isHeader(line) || strings.TrimSpace(line) == "" {
			continue
		}
		st.SampleLines++

		smp, ok := parseSample(line)
		if !ok {
			st.Malformed++
			continue
		}
		decl, ok := idx.Lookup(smp.StreamID)
		if !ok {
			st.Unresolved++
			continue
		}
		if !s.interesting(decl.StreamName) {
			st.OutOfInterest++
			continue
		}

		obs := Observation{Sample: smp, EntityID: decl.EntityID, StreamName: decl.StreamName}
		if strings.Contains(decl.StreamName, s.Primary) {
			g.Primary = append(g.Primary, obs)
		}
		if decl.StreamName == s.Size {
			g.Size = append(g.Size, obs)
		}
		if decl.StreamName == s.InterArrival {
			g.InterArrival = append(g.InterArrival, obs)
		}
	}
	st.Primary = len(g.Primary)
	st.Size = len(g.Size)
	st.InterArrival = len(g.InterArrival)
	return g, st
}

// Join builds one record per primary observation. Secondary values are
// taken from the same entity within cfg.Window; when several qualify, the
// earliest discovered wins even if a later one is closer in time.
func Join(g Groups, cfg Config) ([]model.CommunicationRecord, Stats) {
	var st Stats
	sizes := newTimeIndex(g.Size)
	iats := newTimeIndex(g.InterArrival)

	recs := make([]model.CommunicationRecord, 0, len(g.Primary))
	for _, p := range g.Primary {
		size := int(p.Value)
		if v, ok := sizes.first(p.EntityID, p.Timestamp, cfg.Window); ok {
			size = int(v)
			st.SizeMatched++
		}
		iat := 0.0
		if v, ok := iats.first(p.EntityID, p.Timestamp, cfg.Window); ok {
			iat = round(v, 4)
			st.InterArrivalMatched++
		}

		recs = append(recs, model.CommunicationRecord{
			Timestamp:        round(p.Timestamp, 3),
			SenderID:         cfg.Roles.SenderID,
			ReceiverID:       p.EntityID,
			PacketSize:       size,
			InterArrivalTime: iat,
			PacketType:       cfg.Roles.PacketType,
			SenderIsAttacker: cfg.Roles.SenderIsAttacker,
			Label:            cfg.Roles.Label,
		})
	}

	slices.SortStableFunc(recs, func(a, b model.CommunicationRecord) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	st.Records = len(recs)
	return recs, st
}

func isHeader(line string) bool {
	for _, kw := range headerKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

// parseSample reads "<id> <seq> <ts> <value> [...]". Trailing fields are
// ignored.
func parseSample(line string) (model.Sample, bool) {
	f := strings.Fields(line)
	if len(f) < 4 {
		return model.Sample{}, false
	}
	id, err := strconv.Atoi(f[0])
	if err != nil {
		return model.Sample{}, false
	}
	seq, err := strconv.ParseInt(f[1], 10, 64)
	if err != nil {
		return model.Sample{}, false
	}
	ts, err := strconv.ParseFloat(f[2], 64)
	if err != nil || !finite(ts) || ts < 0 {
		return model.Sample{}, false
	}
	val, err := strconv.ParseFloat(f[3], 64)
	if err != nil || !finite(val) {
		return model.Sample{}, false
	}
	return model.Sample{StreamID: id, Sequence: seq, Timestamp: ts, Value: val}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// round rounds half-to-even on the exact binary value, as
// strconv formatting does.
func round(f float64, places int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', places, 64), 64)
	return r
}
