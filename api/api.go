// Package api serves a read-only http view of the aggregates:
// a json snapshot of the current windows and a prometheus scrape endpoint.
// it only ever peeks, so it never interferes with the windows the flusher reports.
package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	_ "net/http/pprof"

	"github.com/grafana/metricagg/stats"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"gopkg.in/macaron.v1"
)

type Server struct {
	Addr     string
	Macaron  *macaron.Macaron
	Registry *prometheus.Registry
	shutdown chan struct{}
	listener net.Listener
}

func NewServer() (*Server, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(stats.NewPrometheusCollector(promNs)); err != nil {
		return nil, err
	}

	m := macaron.New()
	m.Use(macaron.Recovery())
	// route pprof to where it belongs
	m.Use(func(ctx *macaron.Context) {
		if strings.HasPrefix(ctx.Req.URL.Path, "/debug/") {
			http.DefaultServeMux.ServeHTTP(ctx.Resp, ctx.Req.Request)
		}
	})

	s := &Server{
		Addr:     Addr,
		Macaron:  m,
		Registry: reg,
		shutdown: make(chan struct{}),
	}
	s.RegisterRoutes()
	return s, nil
}

// Listen opens the listener, so that Addr reflects the actual address
// (useful when listening on port 0)
func (s *Server) Listen() error {
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = l
	s.Addr = l.Addr().String()
	return nil
}

// Run serves until Stop is called. it calls Listen if needed
func (s *Server) Run() {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			log.Fatalf("API failed to listen on %s, %s", s.Addr, err.Error())
		}
	}
	log.Infof("API Listening on: http://%s/", s.Addr)

	go s.handleShutdown(s.listener)
	srv := http.Server{
		Addr:    s.Addr,
		Handler: s.Macaron,
	}
	err := srv.Serve(tcpKeepAliveListener{s.listener.(*net.TCPListener)})
	if err != nil {
		log.Infof("API %s", err.Error())
	}
}

func (s *Server) Stop() {
	close(s.shutdown)
}

func (s *Server) handleShutdown(l net.Listener) {
	<-s.shutdown
	log.Info("API shutdown started.")
	l.Close()
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}
