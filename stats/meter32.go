package stats

import (
	"sync/atomic"
	"time"
)

// Meter32 counts events and reports them as a count and a per-second rate over the window.
// Mark is concurrency-safe. Report must only be called by the owner of the window.
type Meter32 struct {
	count uint32
	since time.Time
	id    Identity
}

func NewMeter32(name string) *Meter32 {
	return NewMeter32WithTags(name, nil)
}

func NewMeter32WithTags(name string, tags map[string]string) *Meter32 {
	id := NewIdentity(name, tags)
	return registry.getOrAdd(id.Key(), &Meter32{
		since: time.Now(),
		id:    id,
	}).(*Meter32)
}

func (m *Meter32) Mark() {
	atomic.AddUint32(&m.count, 1)
}

func (m *Meter32) MarkN(n uint32) {
	atomic.AddUint32(&m.count, n)
}

func (m *Meter32) Peek() uint32 {
	return atomic.LoadUint32(&m.count)
}

func (m *Meter32) Identity() Identity {
	return m.id
}

func (m *Meter32) Report(now time.Time, recs []Record) []Record {
	count := atomic.SwapUint32(&m.count, 0)
	var rate float64
	if elapsed := now.Sub(m.since).Seconds(); elapsed > 0 {
		rate = float64(count) / elapsed
	}
	m.since = now
	return append(recs, Record{
		Name:  m.id.Name,
		Tags:  m.id.Tags,
		Time:  now.Unix(),
		Kind:  KindMeter,
		Value: rate,
		Count: count,
	})
}
