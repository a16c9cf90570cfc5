package stats

import (
	"context"
	"runtime"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSampler(t *testing.T) {
	Convey("Given a sampler", t, func(c C) {
		Clear()
		Reset(Clear)
		s := NewSampler(time.Millisecond)

		Convey("a sample observes runtime stats", func(c C) {
			s.Sample()
			c.So(s.heap.Peek().Count, ShouldEqual, 1)
			c.So(s.goroutines.Peek().Count, ShouldEqual, 1)
			c.So(s.goroutines.Peek().Min, ShouldBeGreaterThan, 0)
			if s.proc != nil {
				c.So(s.rss.Peek().Max, ShouldBeGreaterThan, 0)
				c.So(s.fds.Peek().Count, ShouldEqual, 1)
			}
		})

		Convey("gc pauses are only observed once", func(c C) {
			s.Sample()
			runtime.GC()
			s.Sample()
			seen := s.gcPause.ReadAndReset().Count
			c.So(seen, ShouldBeGreaterThanOrEqualTo, 1)
			before := s.numGC
			s.Sample()
			c.So(s.gcPause.Peek().Count, ShouldEqual, s.numGC-before)
		})

		Convey("Run samples until the context is done", func(c C) {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				s.Run(ctx)
				close(done)
			}()
			time.Sleep(20 * time.Millisecond)
			cancel()
			<-done
			c.So(s.heap.Peek().Count, ShouldBeGreaterThan, 0)
		})
	})
}
