package stats

// Snapshot is a read-only view of an aggregate over one window.
// Min and Max are only meaningful when HasExtrema returns true.
type Snapshot struct {
	Value float64 // mean of the observed values
	Sum   int64
	Count uint32
	Min   int32
	Max   int32
}

// newSnapshot builds the snapshot of a window.
// a window can have observations but no extrema (min > max), when the extrema
// of its only observations were reported with the previous window. The
// sentinels are kept in that case, so HasExtrema reports false.
func newSnapshot(sum int64, count uint32, min, max int32) Snapshot {
	if count == 0 {
		return Snapshot{}
	}
	if min > max {
		min, max = minSentinel, maxSentinel
	}
	return Snapshot{
		Value: toMean(sum, count),
		Sum:   sum,
		Count: count,
		Min:   min,
		Max:   max,
	}
}

// HasExtrema returns whether Min and Max hold observed values
func (s Snapshot) HasExtrema() bool {
	return s.Count > 0 && s.Min <= s.Max
}

// Merge combines the snapshots of two windows into one
func (s Snapshot) Merge(o Snapshot) Snapshot {
	if o.Count == 0 {
		return s
	}
	if s.Count == 0 {
		return o
	}
	min, max := int32(minSentinel), int32(maxSentinel)
	if s.HasExtrema() {
		min, max = s.Min, s.Max
	}
	if o.HasExtrema() {
		if lower(min, o.Min) {
			min = o.Min
		}
		if higher(max, o.Max) {
			max = o.Max
		}
	}
	return newSnapshot(s.Sum+o.Sum, s.Count+o.Count, min, max)
}

// Aggregator accepts a stream of observations and summarizes them.
// Update may be called concurrently from any number of routines.
// ReadAndReset is meant to be called by a single consumer, which owns the window.
type Aggregator interface {
	Update(val int32)
	Peek() Snapshot
	ReadAndReset() Snapshot
}

// sentinels for the extrema of an empty window
const (
	minSentinel = maxInt32
	maxSentinel = minInt32
)
