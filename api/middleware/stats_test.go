package middleware

import (
	"math"
	"testing"
	"time"

	"github.com/grafana/metricagg/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func newRequestStats() *requestStats {
	return &requestStats{
		responseCounts: make(map[string]map[int]*stats.Counter64),
		latencies:      make(map[string]stats.Aggregator),
		sizes:          make(map[string]stats.Aggregator),
	}
}

func TestRequestStatsClampValues(t *testing.T) {
	Convey("Given request stats for a path", t, func(c C) {
		stats.Clear()
		Reset(stats.Clear)
		r := newRequestStats()

		Convey("latencies beyond the int32 range of microseconds saturate", func(c C) {
			r.PathLatency("snapshot", time.Duration(math.MaxInt32+1)*time.Microsecond)
			r.PathLatency("snapshot", time.Millisecond)
			snap := r.latencies["snapshot"].Peek()
			c.So(snap.Count, ShouldEqual, 2)
			c.So(snap.Min, ShouldEqual, 1000)
			c.So(snap.Max, ShouldEqual, math.MaxInt32)
		})

		Convey("sizes beyond the int32 range saturate", func(c C) {
			r.PathSize("snapshot", math.MaxInt32+10)
			r.PathSize("snapshot", 512)
			snap := r.sizes["snapshot"].Peek()
			c.So(snap.Min, ShouldEqual, 512)
			c.So(snap.Max, ShouldEqual, math.MaxInt32)
			c.So(snap.Sum, ShouldEqual, int64(math.MaxInt32)+512)
		})

		Convey("responses are counted per status", func(c C) {
			r.PathStatusCount("snapshot", 200)
			r.PathStatusCount("snapshot", 200)
			r.PathStatusCount("snapshot", 404)
			c.So(r.responseCounts["snapshot"][200].Peek(), ShouldEqual, 2)
			c.So(r.responseCounts["snapshot"][404].Peek(), ShouldEqual, 1)
		})
	})

	Convey("path slugs name the metrics", t, func(c C) {
		c.So(pathSlug("/"), ShouldEqual, "root")
		c.So(pathSlug("/snapshot/"), ShouldEqual, "snapshot")
		c.So(pathSlug("/debug/pprof/heap"), ShouldEqual, "debug_pprof_heap")
	})
}
