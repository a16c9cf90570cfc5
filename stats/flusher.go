package stats

import (
	"context"
	"time"

	"github.com/grafana/metricagg/clock"
	log "github.com/sirupsen/logrus"
)

// Sink receives the records of every window.
// Write must not retain recs after it returns.
type Sink interface {
	Name() string
	Write(recs []Record, now time.Time) error
}

// Flusher owns the aggregation window: on every tick it reports, and thus resets,
// every registered metric exactly once, and hands the records to all sinks.
// it is the only caller of ReadAndReset. Other readers must use Peek.
type Flusher struct {
	interval time.Duration
	sinks    []Sink
	recs     []Record

	// metric stats.flush.duration is how long it takes to report all metrics and write them to the sinks, in microseconds
	flushDuration Aggregator
	// metric stats.flush.records is how many records are produced per flush
	flushRecords *Meter32
	// metric stats.sink_errors is a counter of failed sink writes
	sinkErrors *Counter64
}

func NewFlusher(interval time.Duration, sinks ...Sink) *Flusher {
	return &Flusher{
		interval:      interval,
		sinks:         sinks,
		flushDuration: NewAggregator("stats.flush.duration", nil),
		flushRecords:  NewMeter32("stats.flush.records"),
		sinkErrors:    NewCounter64("stats.sink_errors"),
	}
}

// Run flushes on every aligned tick until ctx is done, then does a final flush
// so that the last window is not lost.
func (f *Flusher) Run(ctx context.Context) {
	for now := range clock.AlignedTickLossy(ctx, f.interval) {
		log.Debugf("stats: flushing for %s", now)
		f.FlushOnce(now)
	}
	log.Info("stats: flusher stopping, doing final flush")
	f.FlushOnce(time.Now())
}

// FlushOnce reports all metrics as of now, and writes the records to all sinks
func (f *Flusher) FlushOnce(now time.Time) {
	pre := time.Now()
	recs := f.recs[:0]
	for _, metric := range registry.list() {
		recs = metric.Report(now, recs)
	}
	for _, sink := range f.sinks {
		if err := sink.Write(recs, now); err != nil {
			f.sinkErrors.Inc()
			log.Warnf("stats: sink %s failed to write %d records: %s", sink.Name(), len(recs), err)
		}
	}
	f.flushRecords.MarkN(uint32(len(recs)))
	f.flushDuration.Update(Clamp32(time.Since(pre).Microseconds()))
	f.recs = recs
}
