package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/grafana/metricagg/stats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const aggName = "stress.values"

type Config struct {
	Producers     int
	Updates       int
	Value         int32
	Random        bool
	Rate          float64
	Mode          stats.Mode
	FlushInterval time.Duration
	GraphiteAddr  string
}

func (c Config) Validate() error {
	if c.Producers < 1 {
		return errors.New("producers must be at least 1")
	}
	if c.Updates < 0 {
		return errors.New("updates cannot be negative")
	}
	if c.Rate < 0 {
		return errors.New("rate cannot be negative")
	}
	if c.FlushInterval <= 0 {
		return errors.New("flush-interval must be positive")
	}
	return nil
}

// Result compares what the producers observed with what came out of all windows
type Result struct {
	Expected stats.Snapshot
	Got      stats.Snapshot
	Windows  int
	Took     time.Duration
}

func (r Result) OK() bool {
	return r.Expected.Count == r.Got.Count &&
		r.Expected.Sum == r.Got.Sum &&
		r.Expected.Min == r.Got.Min &&
		r.Expected.Max == r.Got.Max
}

func (r Result) String() string {
	status := "OK"
	if !r.OK() {
		status = "MISMATCH"
	}
	return fmt.Sprintf("%s: %d windows in %s. expected count=%d sum=%d min=%d max=%d, got count=%d sum=%d min=%d max=%d",
		status, r.Windows, r.Took,
		r.Expected.Count, r.Expected.Sum, r.Expected.Min, r.Expected.Max,
		r.Got.Count, r.Got.Sum, r.Got.Min, r.Got.Max)
}

// summingSink merges all windows of the stress aggregate
type summingSink struct {
	sync.Mutex
	total   stats.Snapshot
	windows int
}

func (s *summingSink) Name() string {
	return "verify"
}

func (s *summingSink) Write(recs []stats.Record, now time.Time) error {
	s.Lock()
	defer s.Unlock()
	for _, r := range recs {
		if r.Name != aggName {
			continue
		}
		s.windows++
		s.total = s.total.Merge(stats.Snapshot{Value: r.Value, Sum: r.Sum, Count: r.Count, Min: r.Min, Max: r.Max})
	}
	return nil
}

// produce does the updates of one producer and returns what it observed
func produce(ctx context.Context, agg stats.Aggregator, cfg Config, seed int64) (stats.Snapshot, error) {
	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	r := rand.New(rand.NewSource(seed))
	var observed stats.Snapshot
	for i := 0; i < cfg.Updates; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return observed, err
			}
		}
		v := cfg.Value
		if cfg.Random {
			v = int32(r.Intn(2000) - 1000)
		}
		agg.Update(v)
		observed = observed.Merge(stats.Snapshot{Value: float64(v), Sum: int64(v), Count: 1, Min: v, Max: v})
	}
	return observed, nil
}

func run(ctx context.Context, cfg Config) (Result, error) {
	stats.AggregateMode = cfg.Mode
	agg := stats.NewAggregator(aggName, map[string]string{"mode": cfg.Mode.String()})

	verify := &summingSink{}
	sinks := []stats.Sink{verify}
	if cfg.GraphiteAddr != "" {
		g := stats.NewGraphite("mt-aggregate-stress", cfg.GraphiteAddr, 1000, 10*time.Second)
		defer g.Stop()
		sinks = append(sinks, g)
	}

	flushCtx, stopFlushing := context.WithCancel(context.Background())
	flusher := stats.NewFlusher(cfg.FlushInterval, sinks...)
	flushDone := make(chan struct{})
	go func() {
		flusher.Run(flushCtx)
		close(flushDone)
	}()

	log.Infof("starting %d producers doing %d updates each in %s mode", cfg.Producers, cfg.Updates, cfg.Mode)
	pre := time.Now()
	observed := make([]stats.Snapshot, cfg.Producers)
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < cfg.Producers; p++ {
		p := p
		g.Go(func() error {
			var err error
			observed[p], err = produce(gctx, agg, cfg, int64(p))
			return err
		})
	}
	err := g.Wait()

	// the final flush of the flusher picks up the last window
	stopFlushing()
	<-flushDone
	if err != nil {
		return Result{}, err
	}

	res := Result{Took: time.Since(pre)}
	for _, o := range observed {
		res.Expected = res.Expected.Merge(o)
	}
	verify.Lock()
	res.Got = verify.total
	res.Windows = verify.windows
	verify.Unlock()
	return res, nil
}
