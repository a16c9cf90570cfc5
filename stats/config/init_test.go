package config

import (
	"context"
	"testing"
	"time"

	"github.com/grafana/metricagg/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigProcess(t *testing.T) {
	Convey("Given a stats configuration", t, func(c C) {
		orig := stats.AggregateMode
		Reset(func() { stats.AggregateMode = orig })

		prefix = "metricagg.$instance.stats"
		intervalStr = "1min"
		modeStr = "packed"
		kafkaEnabled = false

		Convey("processing expands the instance and parses the interval and mode", func(c C) {
			ConfigProcess("host-1")
			c.So(prefix, ShouldEqual, "metricagg.host-1.stats")
			c.So(interval, ShouldEqual, time.Minute)
			c.So(stats.AggregateMode, ShouldEqual, stats.ModePacked)
		})

		Convey("kafka settings are collected when kafka is enabled", func(c C) {
			kafkaEnabled = true
			kafkaBrokers = []string{"k1:9092", "k2:9092"}
			kafkaTopic = "aggs"
			kafkaCompression = "gzip"
			kafkaVersion = "2.0.0"
			timeout = 3 * time.Second
			ConfigProcess("host-1")
			c.So(kafkaCfg, ShouldResemble, stats.KafkaConfig{
				Brokers:     []string{"k1:9092", "k2:9092"},
				Topic:       "aggs",
				Compression: "gzip",
				Version:     "2.0.0",
				Timeout:     3 * time.Second,
			})
		})
	})
}

func TestStartWithoutSinks(t *testing.T) {
	Convey("When starting without any sink enabled", t, func(c C) {
		stats.Clear()
		Reset(stats.Clear)

		graphiteEnabled = false
		kafkaEnabled = false
		samplerEnabled = false
		interval = time.Hour

		agg := stats.NewAggregator("started", nil)
		ctx, cancel := context.WithCancel(context.Background())
		stop := Start(ctx)
		agg.Update(5)
		cancel()

		done := make(chan struct{})
		go func() {
			stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("stopper did not return")
		}
		// the final flush consumed the window
		c.So(agg.Peek().Count, ShouldEqual, 0)
	})
}
