package api

import (
	"github.com/go-macaron/binding"
	"github.com/grafana/metricagg/api/middleware"
	"github.com/grafana/metricagg/api/models"
	"github.com/raintank/gziper"
	"gopkg.in/macaron.v1"
)

func (s *Server) RegisterRoutes() {
	r := s.Macaron
	if useGzip {
		r.Use(gziper.Gziper())
	}
	r.Use(middleware.RequestStats())
	r.Use(macaron.Renderer())
	if useCors {
		r.Use(middleware.CorsHandler())
	}

	bind := binding.Bind

	r.Get("/", s.appStatus)
	r.Get("/snapshot", bind(models.SnapshotRequest{}), s.getSnapshot)
	r.Get("/metrics", s.prometheusMetrics())
}
