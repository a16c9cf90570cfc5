package api

import (
	"sort"
	"strings"

	"github.com/grafana/metricagg/api/models"
	"github.com/grafana/metricagg/stats"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/macaron.v1"
)

func (s *Server) appStatus(ctx *macaron.Context) {
	ctx.JSON(200, "ok")
}

// getSnapshot returns the current window of every aggregate whose name starts with req.Name
func (s *Server) getSnapshot(ctx *macaron.Context, req models.SnapshotRequest) {
	aggs := stats.Aggregators()
	out := make([]models.Aggregate, 0, len(aggs))
	for key, agg := range aggs {
		if !strings.HasPrefix(agg.Name, req.Name) {
			continue
		}
		out = append(out, models.NewAggregate(key, agg.Identity, agg.Peek()))
	}
	sort.Sort(models.AggregatesByKey(out))
	ctx.JSON(200, out)
}

func (s *Server) prometheusMetrics() macaron.Handler {
	// compression is left to the gziper middleware
	h := promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{DisableCompression: true})
	return func(ctx *macaron.Context) {
		h.ServeHTTP(ctx.Resp, ctx.Req.Request)
	}
}
