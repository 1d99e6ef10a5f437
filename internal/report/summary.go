// Package report summarises a communications dataset for the console and
// for the side files written next to it.
package report

import (
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/crimson-sun/vectrace/internal/model"
)

// Labels always listed in the breakdown, even when absent.
var Labels = []string{"ATTACK", "NORMAL"}

// ColumnStats is a describe-style summary of one numeric column.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation, NaN for fewer than 2 values
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

// Summary describes a dataset.
type Summary struct {
	RunID     string
	Total     int
	Labels    map[string]int
	Receivers map[int]int
	Columns   []ColumnStats
}

// numericColumns extracts the numeric fields of a record.
var numericColumns = []struct {
	name string
	get  func(model.CommunicationRecord) float64
}{
	{"timestamp", func(r model.CommunicationRecord) float64 { return r.Timestamp }},
	{"sender_node_id", func(r model.CommunicationRecord) float64 { return float64(r.SenderID) }},
	{"receiver_node_id", func(r model.CommunicationRecord) float64 { return float64(r.ReceiverID) }},
	{"packet_size", func(r model.CommunicationRecord) float64 { return float64(r.PacketSize) }},
	{"inter_arrival_time", func(r model.CommunicationRecord) float64 { return r.InterArrivalTime }},
	{"is_sender_attacker", func(r model.CommunicationRecord) float64 {
		if r.SenderIsAttacker {
			return 1
		}
		return 0
	}},
}

// Summarize computes the breakdown and column statistics of recs and
// assigns a fresh run id.
func Summarize(recs []model.CommunicationRecord) Summary {
	s := Summary{
		RunID:     uuid.NewString(),
		Total:     len(recs),
		Labels:    make(map[string]int),
		Receivers: make(map[int]int),
	}
	for _, r := range recs {
		s.Labels[r.Label]++
		s.Receivers[r.ReceiverID]++
	}
	if len(recs) == 0 {
		return s
	}

	vals := make([]float64, len(recs))
	for _, c := range numericColumns {
		for i, r := range recs {
			vals[i] = c.get(r)
		}
		s.Columns = append(s.Columns, describe(c.name, vals))
	}
	return s
}

// ReceiverIDs returns the receivers seen, ascending.
func (s Summary) ReceiverIDs() []int {
	ids := make([]int, 0, len(s.Receivers))
	for id := range s.Receivers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func describe(name string, vals []float64) ColumnStats {
	sorted := slices.Clone(vals)
	slices.Sort(sorted)

	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	std := math.NaN()
	if n > 1 {
		var ss float64
		for _, v := range sorted {
			ss += (v - mean) * (v - mean)
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return ColumnStats{
		Column: name,
		Count:  n,
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		P25:    quantile(sorted, 0.25),
		P50:    quantile(sorted, 0.50),
		P75:    quantile(sorted, 0.75),
		Max:    sorted[n-1],
	}
}

// quantile interpolates linearly between closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
