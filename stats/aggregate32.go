package stats

import (
	"sync/atomic"
	"time"
)

// Aggregate32 tracks count, sum, min and max of a stream of int32 observations.
// count and sum are packed into a single word, so recording them is one atomic add (wait-free).
// min and max are separate words, improved with compare-and-swap (lock-free).
// concurrency-safe, and allocation-free on Update.
//
// The three words are not updated as a unit: Peek may see an observation's
// count without its extremum, and an observation racing with ReadAndReset may
// have its count/sum land in the next window while its extremum goes to the
// closing one. If that closing window has no count, the extremum is lost, and
// a next window holding only such observations reports no extrema.
// Use ExactAggregate32 if windows must be exact.
type Aggregate32 struct {
	composite int64 // first field: keeps it 64-bit aligned for atomic access on 32bit platforms
	min       int32
	max       int32
	id        Identity
}

func NewAggregate32(name string) *Aggregate32 {
	return NewAggregate32WithTags(name, nil)
}

func NewAggregate32WithTags(name string, tags map[string]string) *Aggregate32 {
	id := NewIdentity(name, tags)
	return registry.getOrAdd(id.Key(), newAggregate32(id)).(*Aggregate32)
}

func newAggregate32(id Identity) *Aggregate32 {
	return &Aggregate32{
		min: minSentinel,
		max: maxSentinel,
		id:  id,
	}
}

func (a *Aggregate32) Update(val int32) {
	atomic.AddInt64(&a.composite, encodeDelta(val))
	improveIf(&a.min, val, lower)
	improveIf(&a.max, val, higher)
}

// Value records val, clamped to the int32 range
func (a *Aggregate32) Value(val int) {
	a.Update(Clamp32(int64(val)))
}

func (a *Aggregate32) Peek() Snapshot {
	sum, count := decode(atomic.LoadInt64(&a.composite))
	return newSnapshot(sum, count, atomic.LoadInt32(&a.min), atomic.LoadInt32(&a.max))
}

// ReadAndReset returns the aggregate of the current window and starts a new one.
// each word is swapped, so count and sum are never lost. An observation racing
// with the reset may be split across the two windows, see Aggregate32.
func (a *Aggregate32) ReadAndReset() Snapshot {
	sum, count := decode(atomic.SwapInt64(&a.composite, 0))
	min := atomic.SwapInt32(&a.min, minSentinel)
	max := atomic.SwapInt32(&a.max, maxSentinel)
	return newSnapshot(sum, count, min, max)
}

func (a *Aggregate32) Identity() Identity {
	return a.id
}

func (a *Aggregate32) Report(now time.Time, recs []Record) []Record {
	return append(recs, a.id.Stamp(a.ReadAndReset(), now))
}
