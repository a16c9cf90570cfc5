package stats

import (
	"sync/atomic"
	"time"
)

// window is an immutable aggregate. a new one is built for every observation.
type window struct {
	sum   int64
	count uint32
	min   int32
	max   int32
}

var emptyWindow = &window{min: minSentinel, max: maxSentinel}

func (w *window) with(val int32) *window {
	n := &window{
		sum:   w.sum + int64(val),
		count: w.count + 1,
		min:   w.min,
		max:   w.max,
	}
	if lower(n.min, val) {
		n.min = val
	}
	if higher(n.max, val) {
		n.max = val
	}
	return n
}

func (w *window) snapshot() Snapshot {
	return newSnapshot(w.sum, w.count, w.min, w.max)
}

// ExactAggregate32 tracks count, sum, min and max of a stream of int32 observations,
// like Aggregate32, but keeps all four in one immutable window that is swapped atomically.
// Every snapshot is a consistent point in time, and ReadAndReset returns exactly
// the observations that happened before it.
// The price is on the write side: Update is lock-free rather than wait-free
// (it retries when it loses a race with another writer) and allocates.
// Unlike Aggregate32, the count may exceed MaxCount.
type ExactAggregate32 struct {
	cur atomic.Pointer[window]
	id  Identity
}

func NewExactAggregate32(name string) *ExactAggregate32 {
	return NewExactAggregate32WithTags(name, nil)
}

func NewExactAggregate32WithTags(name string, tags map[string]string) *ExactAggregate32 {
	id := NewIdentity(name, tags)
	return registry.getOrAdd(id.Key(), newExactAggregate32(id)).(*ExactAggregate32)
}

func newExactAggregate32(id Identity) *ExactAggregate32 {
	e := &ExactAggregate32{id: id}
	e.cur.Store(emptyWindow)
	return e
}

func (e *ExactAggregate32) Update(val int32) {
	for {
		prev := e.cur.Load()
		if e.cur.CompareAndSwap(prev, prev.with(val)) {
			return
		}
	}
}

// Value records val, clamped to the int32 range
func (e *ExactAggregate32) Value(val int) {
	e.Update(Clamp32(int64(val)))
}

func (e *ExactAggregate32) Peek() Snapshot {
	return e.cur.Load().snapshot()
}

func (e *ExactAggregate32) ReadAndReset() Snapshot {
	return e.cur.Swap(emptyWindow).snapshot()
}

func (e *ExactAggregate32) Identity() Identity {
	return e.id
}

func (e *ExactAggregate32) Report(now time.Time, recs []Record) []Record {
	return append(recs, e.id.Stamp(e.ReadAndReset(), now))
}
