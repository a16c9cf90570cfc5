package config

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/grafana/globalconf"
	"github.com/grafana/metricagg/stats"
	"github.com/grafana/metricagg/util"
	"github.com/raintank/dur"
	log "github.com/sirupsen/logrus"
)

var (
	prefix      string
	intervalStr string
	interval    time.Duration
	modeStr     string

	graphiteEnabled bool
	addr            string
	bufferSize      int
	timeout         time.Duration

	kafkaEnabled     bool
	kafkaBrokers     util.StringSliceFlag
	kafkaTopic       string
	kafkaCompression string
	kafkaVersion     string

	samplerEnabled  bool
	samplerInterval time.Duration

	kafkaCfg stats.KafkaConfig
)

func ConfigSetup() {
	inStats := flag.NewFlagSet("stats", flag.ExitOnError)
	inStats.StringVar(&prefix, "prefix", "metricagg.$instance", "prefix for reported series (will add trailing dot automatically if needed)")
	inStats.StringVar(&intervalStr, "interval", "10s", "aggregation window: interval at which all aggregates are read, reset and sent to the sinks")
	inStats.StringVar(&modeStr, "aggregate-mode", "exact", "aggregator implementation. exact: consistent windows, lock-free updates. packed: wait-free updates, extrema may straddle windows at reset")

	inStats.BoolVar(&graphiteEnabled, "graphite-enabled", true, "send aggregates to graphite")
	inStats.StringVar(&addr, "addr", "localhost:2003", "graphite address")
	inStats.IntVar(&bufferSize, "buffer-size", 20000, "how many windows to buffer up in case graphite endpoint is unavailable")
	inStats.DurationVar(&timeout, "timeout", 10*time.Second, "timeout after which a write to graphite is considered not successful")

	inStats.BoolVar(&kafkaEnabled, "kafka-enabled", false, "publish aggregates to kafka")
	kafkaBrokers = util.StringSliceFlag{"localhost:9092"}
	inStats.Var(&kafkaBrokers, "kafka-brokers", "comma separated list of kafka brokers")
	inStats.StringVar(&kafkaTopic, "kafka-topic", "aggregates", "kafka topic to publish aggregates to")
	inStats.StringVar(&kafkaCompression, "kafka-compression", "snappy", "compression: none|gzip|snappy|lz4")
	inStats.StringVar(&kafkaVersion, "kafka-version", "0.10.0.0", "Kafka version in semver format. All brokers must be this version or newer.")

	inStats.BoolVar(&samplerEnabled, "sampler-enabled", true, "sample runtime and process statistics into aggregates")
	inStats.DurationVar(&samplerInterval, "sampler-interval", time.Second, "interval at which runtime and process statistics are sampled")

	globalconf.Register("stats", inStats, flag.ExitOnError)
}

func ConfigProcess(instance string) {
	prefix = strings.Replace(prefix, "$instance", instance, -1)
	secs, err := dur.ParseNDuration(intervalStr)
	if err != nil {
		log.Fatalf("stats: invalid interval %q: %s", intervalStr, err)
	}
	interval = time.Duration(secs) * time.Second

	mode, err := stats.ParseMode(modeStr)
	if err != nil {
		log.Fatalf("stats: %s", err)
	}
	stats.AggregateMode = mode

	if kafkaEnabled {
		if len(kafkaBrokers) == 0 {
			log.Fatal("stats: kafka-brokers cannot be empty")
		}
		if _, err := stats.GetCompression(kafkaCompression); err != nil {
			log.Fatalf("stats: %s", err)
		}
		kafkaCfg = stats.KafkaConfig{
			Brokers:     kafkaBrokers,
			Topic:       kafkaTopic,
			Compression: kafkaCompression,
			Version:     kafkaVersion,
			Timeout:     timeout,
		}
	}
}

// Stopper stops what Start started
type Stopper func()

// Start builds the configured sinks and runs the flusher (and sampler) until ctx is done.
// The returned func waits for the final flush and closes the sinks.
func Start(ctx context.Context) Stopper {
	var sinks []stats.Sink
	var closers []func()

	if graphiteEnabled {
		g := stats.NewGraphite(prefix, addr, bufferSize, timeout)
		sinks = append(sinks, g)
		closers = append(closers, g.Stop)
	}
	if kafkaEnabled {
		k, err := stats.NewKafkaFromConfig(kafkaCfg)
		if err != nil {
			log.Fatalf("stats: %s", err)
		}
		sinks = append(sinks, k)
		closers = append(closers, func() {
			if err := k.Close(); err != nil {
				log.Warnf("stats: failed to close kafka sink: %s", err)
			}
		})
	}
	if len(sinks) == 0 {
		sinks = append(sinks, stats.NewDevnull())
		log.Warn("stats: no sinks enabled, aggregates are discarded")
	}

	if samplerEnabled {
		go stats.NewSampler(samplerInterval).Run(ctx)
	}

	flusher := stats.NewFlusher(interval, sinks...)
	done := make(chan struct{})
	go func() {
		flusher.Run(ctx)
		close(done)
	}()
	log.Infof("stats: flushing every %s in %s mode", interval, stats.AggregateMode)

	return func() {
		<-done
		for _, c := range closers {
			c()
		}
	}
}
