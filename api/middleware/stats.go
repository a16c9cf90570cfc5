package middleware

import (
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/grafana/metricagg/stats"
	"gopkg.in/macaron.v1"
)

type requestStats struct {
	sync.Mutex
	responseCounts map[string]map[int]*stats.Counter64
	latencies      map[string]stats.Aggregator
	sizes          map[string]stats.Aggregator
}

func (r *requestStats) PathStatusCount(path string, status int) {
	r.Lock()
	p, ok := r.responseCounts[path]
	if !ok {
		p = make(map[int]*stats.Counter64)
		r.responseCounts[path] = p
	}
	c, ok := p[status]
	if !ok {
		// metric api.request.%s.status.%d is the count of the number of responses for each request path, status code combination.
		// eg. `api.request.snapshot.status.200`
		c = stats.NewCounter64(fmt.Sprintf("api.request.%s.status.%d", path, status))
		p[status] = c
	}
	r.Unlock()
	c.Inc()
}

func (r *requestStats) PathLatency(path string, dur time.Duration) {
	r.Lock()
	p, ok := r.latencies[path]
	if !ok {
		// metric api.request.%s.latency is the latency of each request by request path, in microseconds
		p = stats.NewAggregator(fmt.Sprintf("api.request.%s.latency", path), nil)
		r.latencies[path] = p
	}
	r.Unlock()
	p.Update(stats.Clamp32(dur.Microseconds()))
}

func (r *requestStats) PathSize(path string, size int) {
	r.Lock()
	p, ok := r.sizes[path]
	if !ok {
		// metric api.request.%s.size is the size of each response by request path, in bytes
		p = stats.NewAggregator(fmt.Sprintf("api.request.%s.size", path), nil)
		r.sizes[path] = p
	}
	r.Unlock()
	p.Update(stats.Clamp32(int64(size)))
}

// RequestStats returns a middleware that tracks request metrics.
func RequestStats() macaron.Handler {
	stats := requestStats{
		responseCounts: make(map[string]map[int]*stats.Counter64),
		latencies:      make(map[string]stats.Aggregator),
		sizes:          make(map[string]stats.Aggregator),
	}

	return func(ctx *macaron.Context) {
		start := time.Now()
		rw := ctx.Resp.(macaron.ResponseWriter)
		// call next handler. This will return after all handlers
		// have completed and the request has been sent.
		ctx.Next()
		status := rw.Status()
		path := pathSlug(ctx.Req.URL.Path)
		stats.PathStatusCount(path, status)
		stats.PathLatency(path, time.Since(start))
		// only record the response size if the request succeeded.
		if status < 300 {
			stats.PathSize(path, rw.Size())
		}
	}
}

func pathSlug(p string) string {
	slug := strings.TrimPrefix(path.Clean(p), "/")
	if slug == "" {
		slug = "root"
	}
	return strings.Replace(slug, "/", "_", -1)
}
