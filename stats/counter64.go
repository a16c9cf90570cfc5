package stats

import (
	"sync/atomic"
	"time"
)

// Counter64 is a cumulative value that can go up and down.
// unlike aggregates, it is not reset when reported.
type Counter64 struct {
	val int64
	id  Identity
}

func NewCounter64(name string) *Counter64 {
	return NewCounter64WithTags(name, nil)
}

func NewCounter64WithTags(name string, tags map[string]string) *Counter64 {
	id := NewIdentity(name, tags)
	return registry.getOrAdd(id.Key(), &Counter64{id: id}).(*Counter64)
}

func (c *Counter64) Inc() {
	atomic.AddInt64(&c.val, 1)
}

func (c *Counter64) Dec() {
	atomic.AddInt64(&c.val, -1)
}

func (c *Counter64) Add(val int64) {
	atomic.AddInt64(&c.val, val)
}

func (c *Counter64) Set(val int64) {
	atomic.StoreInt64(&c.val, val)
}

func (c *Counter64) Peek() int64 {
	return atomic.LoadInt64(&c.val)
}

func (c *Counter64) Identity() Identity {
	return c.id
}

func (c *Counter64) Report(now time.Time, recs []Record) []Record {
	val := atomic.LoadInt64(&c.val)
	return append(recs, Record{
		Name:  c.id.Name,
		Tags:  c.id.Tags,
		Time:  now.Unix(),
		Kind:  KindCounter,
		Value: float64(val),
		Sum:   val,
	})
}
