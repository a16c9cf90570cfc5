package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/Dieterbe/profiletrigger/heap"
	"github.com/grafana/globalconf"
	"github.com/grafana/metricagg/api"
	"github.com/grafana/metricagg/input"
	inCarbon "github.com/grafana/metricagg/input/carbon"
	"github.com/grafana/metricagg/logger"
	"github.com/grafana/metricagg/stats"
	statsConfig "github.com/grafana/metricagg/stats/config"
	"github.com/raintank/dur"
	log "github.com/sirupsen/logrus"
)

var (
	version = "(none)"

	showVersion = flag.Bool("version", false, "print version string")
	confFile    = flag.String("config", "/etc/metricagg/metricagg.ini", "configuration file path")
	instance    = flag.String("instance", "default", "instance identifier. must be unique. used in the prefix of our own metrics")

	// Profiling, instrumentation and logging:
	logLevel = flag.String("log-level", "info", "log level. panic|fatal|error|warning|info|debug")

	blockProfileRate = flag.Int("block-profile-rate", 0, "see https://golang.org/pkg/runtime/#SetBlockProfileRate")
	memProfileRate   = flag.Int("mem-profile-rate", 512*1024, "0 to disable. 1 for max precision (expensive!) see https://golang.org/pkg/runtime/#pkg-variables")

	proftrigPath       = flag.String("proftrigger-path", "/tmp", "path to store triggered profiles")
	proftrigFreqStr    = flag.String("proftrigger-freq", "60s", "inspect status frequency. set to 0 to disable")
	proftrigMinDiffStr = flag.String("proftrigger-min-diff", "1h", "minimum time between triggered profiles")
	proftrigHeapThresh = flag.Int("proftrigger-heap-thresh", 2000000000, "if this many bytes allocated, trigger a profile")
)

func main() {
	flag.Parse()

	// if the user just wants the version, give it and exit
	if *showVersion {
		fmt.Printf("metricagg (version: %s - runtime: %s)\n", version, runtime.Version())
		return
	}

	// Only try and parse the conf file if it exists
	path := ""
	if _, err := os.Stat(*confFile); err == nil {
		path = *confFile
	}
	config, err := globalconf.NewWithOptions(&globalconf.Options{
		Filename:  path,
		EnvPrefix: "MA_",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: configuration file error: %s", err)
		os.Exit(1)
	}

	inCarbon.ConfigSetup()
	api.ConfigSetup()
	statsConfig.ConfigSetup()

	config.ParseAll()

	/***********************************
		Set up Logger
	***********************************/
	if err := logger.Setup(*logLevel); err != nil {
		log.Fatal(err.Error())
	}
	log.Infof("logging level set to '%s'", *logLevel)

	if *instance == "" {
		log.Fatal("instance can't be empty")
	}

	/***********************************
		Validate settings
	***********************************/
	// stats first: it sets the aggregate mode before anything creates aggregates
	statsConfig.ConfigProcess(*instance)
	inCarbon.ConfigProcess()
	api.ConfigProcess()

	proftrigFreq := dur.MustParseDuration("proftrigger-freq", *proftrigFreqStr)
	proftrigMinDiff := int(dur.MustParseNDuration("proftrigger-min-diff", *proftrigMinDiffStr))
	if proftrigFreq > 0 {
		errors := make(chan error)
		trigger, _ := heap.New(*proftrigPath, *proftrigHeapThresh, proftrigMinDiff, time.Duration(proftrigFreq)*time.Second, errors)
		go func() {
			for e := range errors {
				log.Errorf("profiletrigger heap: %s", e)
			}
		}()
		go trigger.Run()
	}

	runtime.SetBlockProfileRate(*blockProfileRate)
	runtime.MemProfileRate = *memProfileRate

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Infof("metricagg starting. version: %s - runtime: %s", version, runtime.Version())
	// metric version.%s is the version of metricagg running. The value is always 1
	stats.NewCounter64(fmt.Sprintf("version.%s", strings.Replace(version, ".", "_", -1))).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	stopStats := statsConfig.Start(ctx)

	apiServer, err := api.NewServer()
	if err != nil {
		log.Fatalf("failed to create API server: %s", err)
	}
	go apiServer.Run()

	var inputs []input.Plugin
	if inCarbon.Enabled {
		inputs = append(inputs, inCarbon.New())
	}
	for _, plugin := range inputs {
		if err := plugin.Start(); err != nil {
			log.Fatalf("failed to start input plugin %s: %s", plugin.Name(), err)
		}
	}

	sig := <-sigChan
	log.Infof("Received signal %q. Shutting down", sig)

	apiServer.Stop()
	for _, plugin := range inputs {
		plugin.Stop()
	}
	// with the inputs stopped, the final flush carries everything that was ingested
	cancel()
	stopStats()
	log.Info("terminating.")
}
