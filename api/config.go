package api

import (
	"flag"
	"net"

	"github.com/grafana/globalconf"
	log "github.com/sirupsen/logrus"
)

var (
	Addr    string
	useGzip bool
	useCors bool
	promNs  string
)

func ConfigSetup() {
	apiCfg := flag.NewFlagSet("http", flag.ExitOnError)
	apiCfg.StringVar(&Addr, "listen", ":6060", "http listener address.")
	apiCfg.BoolVar(&useGzip, "gzip", true, "use GZIP compression of all responses")
	apiCfg.BoolVar(&useCors, "cors", true, "allow cross-origin GET requests")
	apiCfg.StringVar(&promNs, "prometheus-namespace", "metricagg", "namespace of the aggregate families exposed on /metrics")
	globalconf.Register("http", apiCfg, flag.ExitOnError)
}

func ConfigProcess() {
	//validate the addr
	_, err := net.ResolveTCPAddr("tcp", Addr)
	if err != nil {
		log.Fatal("API listen address is not a valid TCP address.")
	}
}
