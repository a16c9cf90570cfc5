package stats

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type aggregatorImpl struct {
	name string
	new  func() Aggregator
}

var aggregatorImpls = []aggregatorImpl{
	{"Aggregate32", func() Aggregator { return newAggregate32(Identity{Name: "test"}) }},
	{"ExactAggregate32", func() Aggregator { return newExactAggregate32(Identity{Name: "test"}) }},
}

func TestAggregatorSequential(t *testing.T) {
	for _, impl := range aggregatorImpls {
		Convey("Given a new "+impl.name, t, func(c C) {
			agg := impl.new()

			Convey("an empty window reports zeros", func(c C) {
				snap := agg.Peek()
				c.So(snap, ShouldResemble, Snapshot{})
				c.So(snap.HasExtrema(), ShouldBeFalse)
				c.So(agg.ReadAndReset(), ShouldResemble, Snapshot{})
			})

			Convey("after updating with -5, 10 and 3", func(c C) {
				agg.Update(-5)
				agg.Update(10)
				agg.Update(3)

				snap := agg.Peek()
				c.So(snap.Count, ShouldEqual, 3)
				c.So(snap.Sum, ShouldEqual, 8)
				c.So(snap.Value, ShouldAlmostEqual, 8.0/3.0, 1e-9)
				c.So(snap.Min, ShouldEqual, -5)
				c.So(snap.Max, ShouldEqual, 10)
				c.So(snap.HasExtrema(), ShouldBeTrue)

				Convey("peeking does not change the window", func(c C) {
					c.So(agg.Peek(), ShouldResemble, snap)
				})

				Convey("ReadAndReset returns the window and starts an empty one", func(c C) {
					c.So(agg.ReadAndReset(), ShouldResemble, snap)
					c.So(agg.Peek(), ShouldResemble, Snapshot{})
					c.So(agg.ReadAndReset(), ShouldResemble, Snapshot{})
				})
			})

			Convey("windows are independent", func(c C) {
				agg.Update(1)
				agg.Update(2)
				agg.Update(3)
				first := agg.ReadAndReset()
				c.So(first, ShouldResemble, Snapshot{Value: 2, Sum: 6, Count: 3, Min: 1, Max: 3})

				agg.Update(100)
				second := agg.ReadAndReset()
				c.So(second, ShouldResemble, Snapshot{Value: 100, Sum: 100, Count: 1, Min: 100, Max: 100})
			})

			Convey("a single observation is both min and max", func(c C) {
				agg.Update(-42)
				snap := agg.ReadAndReset()
				c.So(snap.Min, ShouldEqual, -42)
				c.So(snap.Max, ShouldEqual, -42)
				c.So(snap.Value, ShouldEqual, -42)
			})

			Convey("the int32 range edges are handled", func(c C) {
				agg.Update(maxInt32)
				agg.Update(minInt32)
				agg.Update(maxInt32)
				snap := agg.ReadAndReset()
				c.So(snap.Count, ShouldEqual, 3)
				c.So(snap.Sum, ShouldEqual, int64(maxInt32)*2+minInt32)
				c.So(snap.Min, ShouldEqual, minInt32)
				c.So(snap.Max, ShouldEqual, maxInt32)
			})
		})
	}
}

func TestAggregatorConcurrentCountAndSum(t *testing.T) {
	const writers = 8
	const perWriter = 20000
	for _, impl := range aggregatorImpls {
		agg := impl.new()
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					agg.Update(1)
					agg.Update(-1)
					agg.Update(2)
				}
			}()
		}
		wg.Wait()
		snap := agg.ReadAndReset()
		if snap.Count != writers*perWriter*3 {
			t.Fatalf("%s: expected count %d, got %d", impl.name, writers*perWriter*3, snap.Count)
		}
		if snap.Sum != writers*perWriter*2 {
			t.Fatalf("%s: expected sum %d, got %d", impl.name, writers*perWriter*2, snap.Sum)
		}
		if snap.Min != -1 || snap.Max != 2 {
			t.Fatalf("%s: expected min -1 max 2, got min %d max %d", impl.name, snap.Min, snap.Max)
		}
	}
}

// every writer observes a distinct range of values. whoever wins the races,
// the extremes of the union must come out.
func TestAggregatorConcurrentExtrema(t *testing.T) {
	const writers = 16
	const perWriter = 5000
	for _, impl := range aggregatorImpls {
		agg := impl.new()
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				r := rand.New(rand.NewSource(int64(w)))
				for _, i := range r.Perm(perWriter) {
					agg.Update(int32(i*writers+w) - writers*perWriter/2)
				}
			}(w)
		}
		wg.Wait()
		snap := agg.ReadAndReset()
		expMin := int32(-writers * perWriter / 2)
		expMax := int32(writers*perWriter - 1 - writers*perWriter/2)
		if snap.Min != expMin || snap.Max != expMax {
			t.Fatalf("%s: expected min %d max %d, got min %d max %d", impl.name, expMin, expMax, snap.Min, snap.Max)
		}
	}
}

// with a reader resetting while writers are busy, no observation may get lost:
// the sum of all windows equals what was written.
func TestAggregatorResetUnderLoad(t *testing.T) {
	const writers = 4
	const perWriter = 50000
	for _, impl := range aggregatorImpls {
		agg := impl.new()
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					agg.Update(int32(i%100) - 50)
				}
			}(w)
		}

		done := make(chan struct{})
		total := make(chan Snapshot)
		go func() {
			var acc Snapshot
			for {
				select {
				case <-done:
					total <- acc.Merge(agg.ReadAndReset())
					return
				default:
					acc = acc.Merge(agg.ReadAndReset())
				}
			}
		}()
		wg.Wait()
		close(done)
		snap := <-total

		if snap.Count != writers*perWriter {
			t.Fatalf("%s: expected count %d, got %d", impl.name, writers*perWriter, snap.Count)
		}
		// per writer: 500 rounds of -50..49, which sum to -50 each
		if snap.Sum != writers*perWriter/100*-50 {
			t.Fatalf("%s: expected sum %d, got %d", impl.name, writers*perWriter/100*-50, snap.Sum)
		}
		if snap.Min != -50 || snap.Max != 49 {
			t.Fatalf("%s: expected min -50 max 49, got min %d max %d", impl.name, snap.Min, snap.Max)
		}
	}
}

func TestAggregate32SplitObservation(t *testing.T) {
	Convey("Given a packed aggregate whose reset races with an update", t, func(c C) {
		agg := newAggregate32(Identity{Name: "test"})

		// ReadAndReset, with Update(7) landing between the swap of the
		// composite word and the swaps of the extrema
		sum, count := decode(atomic.SwapInt64(&agg.composite, 0))
		agg.Update(7)
		min := atomic.SwapInt32(&agg.min, minSentinel)
		max := atomic.SwapInt32(&agg.max, maxSentinel)
		closing := newSnapshot(sum, count, min, max)

		next := agg.ReadAndReset()

		Convey("the closing window is empty", func(c C) {
			c.So(closing, ShouldResemble, Snapshot{})
		})
		Convey("the next window has the count and sum but no extrema", func(c C) {
			c.So(next.Count, ShouldEqual, 1)
			c.So(next.Sum, ShouldEqual, 7)
			c.So(next.Value, ShouldEqual, 7.0)
			c.So(next.HasExtrema(), ShouldBeFalse)
			rec := Identity{Name: "test"}.Stamp(next, time.Unix(10, 0))
			c.So(rec.HasExtrema(), ShouldBeFalse)
		})
		Convey("merging it keeps the extrema of windows that have them", func(c C) {
			m := next.Merge(Snapshot{Value: 2, Sum: 4, Count: 2, Min: 1, Max: 3})
			c.So(m.Count, ShouldEqual, 3)
			c.So(m.Sum, ShouldEqual, 11)
			c.So(m.HasExtrema(), ShouldBeTrue)
			c.So(m.Min, ShouldEqual, 1)
			c.So(m.Max, ShouldEqual, 3)
			c.So(next.Merge(next).HasExtrema(), ShouldBeFalse)
		})
	})
}

// the exact aggregator never reports a window whose extrema disagree with its count
func TestExactAggregateWindowsAreConsistent(t *testing.T) {
	agg := newExactAggregate32(Identity{Name: "test"})
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					agg.Update(7)
				}
			}
		}()
	}
	for i := 0; i < 10000; i++ {
		snap := agg.ReadAndReset()
		if snap.Count == 0 {
			if snap != (Snapshot{}) {
				t.Fatalf("empty window with data: %+v", snap)
			}
			continue
		}
		if snap.Min != 7 || snap.Max != 7 || snap.Sum != 7*int64(snap.Count) {
			close(stop)
			t.Fatalf("inconsistent window: %+v", snap)
		}
	}
	close(stop)
	wg.Wait()
}

func TestAggregateValueClamps(t *testing.T) {
	Convey("Given aggregates fed out of range ints", t, func(c C) {
		packed := newAggregate32(Identity{Name: "packed"})
		exact := newExactAggregate32(Identity{Name: "exact"})
		for _, v := range []int{1 << 40, -1 << 40} {
			packed.Value(v)
			exact.Value(v)
		}
		c.So(packed.Peek(), ShouldResemble, exact.Peek())
		c.So(packed.Peek().Min, ShouldEqual, minInt32)
		c.So(packed.Peek().Max, ShouldEqual, maxInt32)
	})
}

func BenchmarkAggregate32Update(b *testing.B) {
	agg := newAggregate32(Identity{Name: "bench"})
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		var i int32
		for pb.Next() {
			agg.Update(i)
			i++
		}
	})
}

func BenchmarkExactAggregate32Update(b *testing.B) {
	agg := newExactAggregate32(Identity{Name: "bench"})
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		var i int32
		for pb.Next() {
			agg.Update(i)
			i++
		}
	})
}
