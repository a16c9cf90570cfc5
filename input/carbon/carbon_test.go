package carbon

import (
	"fmt"
	"math"
	"net"
	"testing"
	"time"

	"github.com/grafana/metricagg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestToInt32(t *testing.T) {
	cases := []struct {
		in      float64
		out     int32
		clamped bool
	}{
		{0, 0, false},
		{1.4, 1, false},
		{1.5, 2, false},
		{-1.5, -2, false},
		{-7, -7, false},
		{1e10, math.MaxInt32, true},
		{-1e10, math.MinInt32, true},
		{math.Inf(1), math.MaxInt32, true},
		{math.Inf(-1), math.MinInt32, true},
	}
	for _, c := range cases {
		out, clamped := ToInt32(c.in)
		assert.Equal(t, c.out, out, "ToInt32(%f)", c.in)
		assert.Equal(t, c.clamped, clamped, "ToInt32(%f) clamped", c.in)
	}
}

func TestParseLine(t *testing.T) {
	key, val, err := ParseLine([]byte("some.id;dc=us;host=a 12.5 1500000000"))
	require.NoError(t, err)
	assert.Equal(t, "some.id;dc=us;host=a", string(key))
	assert.Equal(t, 12.5, val)

	for _, line := range []string{
		"",
		"some.id 12",
		"some.id notanumber 1500000000",
		"some.id 1 notatimestamp",
		"some.id NaN 1500000000",
		"some.\x00id 1 1500000000",
	} {
		_, _, err := ParseLine([]byte(line))
		assert.Error(t, err, "line %q", line)
	}
}

func TestCarbonFeedsAggregates(t *testing.T) {
	stats.Clear()
	defer stats.Clear()

	c := NewWithAddr("127.0.0.1:0")
	require.NoError(t, c.Start())

	const workers = 5
	const perWorker = 200
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			conn, err := net.Dial("tcp", c.Addr().String())
			if err != nil {
				return err
			}
			defer conn.Close()
			for i := 0; i < perWorker; i++ {
				if _, err := fmt.Fprintf(conn, "some.id;worker=%d %d %d\n", w, i-100, 1500000000+i); err != nil {
					return err
				}
				if _, err := fmt.Fprintf(conn, "shared.id %d 1500000000\n", w); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(conn, "this line is invalid\n")
			return err
		})
	}
	require.NoError(t, g.Wait())

	require.Eventually(t, func() bool {
		return c.metricsReceived.Peek() == workers*perWorker*2 && c.decodeErr.Peek() == workers
	}, 5*time.Second, 10*time.Millisecond)
	c.Stop()

	aggs := stats.Aggregators()
	for w := 0; w < workers; w++ {
		agg, ok := aggs[fmt.Sprintf("some.id;worker=%d", w)]
		require.True(t, ok, "worker %d", w)
		snap := agg.Peek()
		assert.Equal(t, uint32(perWorker), snap.Count)
		assert.Equal(t, int32(-100), snap.Min)
		assert.Equal(t, int32(99), snap.Max)
		assert.Equal(t, int64(-100), snap.Sum)
		assert.Equal(t, []string{fmt.Sprintf("worker=%d", w)}, agg.Tags)
	}

	shared := aggs["shared.id"].Peek()
	assert.Equal(t, uint32(workers*perWorker), shared.Count)
	assert.Equal(t, int32(0), shared.Min)
	assert.Equal(t, int32(workers-1), shared.Max)
	assert.Equal(t, int64(perWorker*(0+1+2+3+4)), shared.Sum)
}

func TestCarbonRejectsKeysOfOtherMetrics(t *testing.T) {
	stats.Clear()
	defer stats.Clear()

	c := NewWithAddr("127.0.0.1:0")
	require.NoError(t, c.Start())
	defer c.Stop()

	conn, err := net.Dial("tcp", c.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	now := time.Now().Unix()
	for _, line := range []string{
		fmt.Sprintf("input.carbon.connections 5 %d\n", now),
		fmt.Sprintf("input.carbon.metrics_received 5 %d\n", now),
		fmt.Sprintf("after.collision 3 %d\n", now),
	} {
		_, err := fmt.Fprint(conn, line)
		require.NoError(t, err)
	}

	// the connection survives the rejected lines
	require.Eventually(t, func() bool {
		return c.metricsReceived.Peek() == 1 && c.decodeErr.Peek() == 2
	}, 5*time.Second, 10*time.Millisecond)

	m, ok := stats.Lookup("input.carbon.connections")
	require.True(t, ok)
	assert.IsType(t, &stats.Counter64{}, m)

	agg, ok := stats.Aggregators()["after.collision"]
	require.True(t, ok)
	assert.Equal(t, int64(3), agg.Peek().Sum)
}
