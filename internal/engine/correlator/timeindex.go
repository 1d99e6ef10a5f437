package correlator

import (
	"cmp"
	"math"
	"slices"
	"sort"
)

// entry is a secondary observation positioned by time, remembering its
// discovery order within its group.
type entry struct {
	ts    float64
	value float64
	order int
}

// timeIndex holds per-entity secondary observations sorted by timestamp.
type timeIndex map[int][]entry

func newTimeIndex(obs []Observation) timeIndex {
	ti := make(timeIndex)
	for i, o := range obs {
		ti[o.EntityID] = append(ti[o.EntityID], entry{ts: o.Timestamp, value: o.Value, order: i})
	}
	for _, es := range ti {
		slices.SortStableFunc(es, func(a, b entry) int { return cmp.Compare(a.ts, b.ts) })
	}
	return ti
}

// first returns the value of the earliest-discovered observation of entity
// with |ts - t| < window.
//
// The binary search brackets a range twice the window wide on each side so
// that float rounding in t±window can never exclude a candidate; the exact
// predicate is applied inside the bracket.
func (ti timeIndex) first(entity int, t, window float64) (float64, bool) {
	if window <= 0 {
		return 0, false
	}
	es := ti[entity]
	if len(es) == 0 {
		return 0, false
	}

	lo, hi := t-2*window, t+2*window
	i := sort.Search(len(es), func(i int) bool { return es[i].ts >= lo })

	best := -1
	var val float64
	for ; i < len(es) && es[i].ts <= hi; i++ {
		if math.Abs(es[i].ts-t) >= window {
			continue
		}
		if best == -1 || es[i].order < best {
			best = es[i].order
			val = es[i].value
		}
	}
	return val, best != -1
}
