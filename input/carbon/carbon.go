// package carbon provides a carbon plaintext input that feeds aggregates.
// every line `name[;tag=value...] value timestamp` is an observation for the
// aggregate of that tagged key. the timestamp is validated but otherwise ignored:
// observations belong to the window in which they are received.
package carbon

import (
	"bufio"
	"errors"
	"flag"
	"io"
	"math"
	"net"
	"sync"

	"github.com/grafana/globalconf"
	"github.com/grafana/metricagg/input"
	"github.com/grafana/metricagg/stats"
	"github.com/metrics20/go-metrics20/carbon20"
	log "github.com/sirupsen/logrus"
)

var errValNaN = errors.New("value is NaN")

var _ input.Plugin = &Carbon{}

type Carbon struct {
	addrStr          string
	listener         *net.TCPListener
	handlerWaitGroup sync.WaitGroup
	quit             chan struct{}
	connTrack        *ConnTrack

	// metric input.carbon.metrics_received is how many valid lines were received
	metricsReceived *stats.Meter32
	// metric input.carbon.metrics_decode_err is a count of lines that could not be decoded
	decodeErr *stats.Counter64
	// metric input.carbon.values_clamped is a count of values that did not fit in 32 bits
	valuesClamped *stats.Counter64
	// metric input.carbon.connections is the number of open connections
	connections *stats.Counter64
}

type ConnTrack struct {
	sync.Mutex
	conns map[string]net.Conn
}

func NewConnTrack() *ConnTrack {
	return &ConnTrack{
		conns: make(map[string]net.Conn),
	}
}

func (c *ConnTrack) Add(conn net.Conn) int {
	c.Lock()
	c.conns[conn.RemoteAddr().String()] = conn
	n := len(c.conns)
	c.Unlock()
	return n
}

func (c *ConnTrack) Remove(conn net.Conn) int {
	c.Lock()
	delete(c.conns, conn.RemoteAddr().String())
	n := len(c.conns)
	c.Unlock()
	return n
}

func (c *ConnTrack) CloseAll() {
	c.Lock()
	for _, conn := range c.conns {
		conn.Close()
	}
	c.Unlock()
}

var Enabled bool
var addr string

func ConfigSetup() {
	inCarbon := flag.NewFlagSet("carbon-in", flag.ExitOnError)
	inCarbon.BoolVar(&Enabled, "enabled", true, "")
	inCarbon.StringVar(&addr, "addr", ":2003", "tcp listen address")
	globalconf.Register("carbon-in", inCarbon, flag.ExitOnError)
}

func ConfigProcess() {
	if !Enabled {
		return
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		log.Fatalf("carbon-in: invalid addr %q: %s", addr, err)
	}
}

// New returns a carbon input for the configured address
func New() *Carbon {
	return NewWithAddr(addr)
}

func NewWithAddr(addr string) *Carbon {
	return &Carbon{
		addrStr:         addr,
		quit:            make(chan struct{}),
		connTrack:       NewConnTrack(),
		metricsReceived: stats.NewMeter32("input.carbon.metrics_received"),
		decodeErr:       stats.NewCounter64("input.carbon.metrics_decode_err"),
		valuesClamped:   stats.NewCounter64("input.carbon.values_clamped"),
		connections:     stats.NewCounter64("input.carbon.connections"),
	}
}

func (c *Carbon) Name() string {
	return "carbon"
}

func (c *Carbon) Start() error {
	tcpAddr, err := net.ResolveTCPAddr("tcp", c.addrStr)
	if err != nil {
		return err
	}
	l, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return err
	}
	c.listener = l
	log.Infof("carbon-in: listening on %v/tcp", l.Addr())
	go c.accept()
	return nil
}

// Addr returns the address we listen on. only valid after Start
func (c *Carbon) Addr() net.Addr {
	return c.listener.Addr()
}

func (c *Carbon) accept() {
	for {
		conn, err := c.listener.AcceptTCP()
		if err != nil {
			select {
			case <-c.quit:
				// we are shutting down.
				return
			default:
			}
			log.Errorf("carbon-in: Accept Error: %s", err)
			return
		}
		c.handlerWaitGroup.Add(1)
		c.connections.Set(int64(c.connTrack.Add(conn)))
		go c.handle(conn)
	}
}

func (c *Carbon) Stop() {
	log.Info("carbon-in: shutting down.")
	close(c.quit)
	c.listener.Close()
	c.connTrack.CloseAll()
	c.handlerWaitGroup.Wait()
}

func (c *Carbon) handle(conn net.Conn) {
	defer func() {
		conn.Close()
		c.connections.Set(int64(c.connTrack.Remove(conn)))
		c.handlerWaitGroup.Done()
	}()

	// the registry takes a lock, so resolve every key once per connection
	aggs := make(map[string]stats.Aggregator)

	r := bufio.NewReaderSize(conn, 4096)
	for {
		// note that we don't support lines longer than 4096B. that seems very reasonable..
		buf, _, err := r.ReadLine()
		if err != nil {
			select {
			case <-c.quit:
				// we are shutting down.
				return
			default:
			}
			if err != io.EOF {
				log.Errorf("carbon-in: Recv error: %s", err)
			}
			return
		}

		key, val, err := ParseLine(buf)
		if err != nil {
			c.decodeErr.Inc()
			log.Debugf("carbon-in: invalid metric: %s", err)
			continue
		}
		agg, ok := aggs[string(key)]
		if !ok {
			agg, err = stats.GetOrAddAggregator(stats.ParseIdentity(string(key)))
			if err != nil {
				// the key belongs to one of our own counters or meters
				c.decodeErr.Inc()
				log.Debugf("carbon-in: rejecting metric %q: %s", key, err)
				continue
			}
			aggs[string(key)] = agg
		}
		v, clamped := ToInt32(val)
		if clamped {
			c.valuesClamped.Inc()
		}
		agg.Update(v)
		c.metricsReceived.Mark()
	}
}

// ParseLine validates a carbon line and returns its key and value.
// keys may carry graphite style tags, which are not subject to metrics 2.0 rules.
func ParseLine(buf []byte) ([]byte, float64, error) {
	key, val, _, err := carbon20.ValidatePacket(buf, carbon20.MediumLegacy, carbon20.NoneM20)
	if err != nil {
		return nil, 0, err
	}
	if math.IsNaN(val) {
		return nil, 0, errValNaN
	}
	return key, val, nil
}

// ToInt32 rounds val to the nearest integer and clamps it to the int32 range.
// clamped reports whether the value was out of range.
func ToInt32(val float64) (v int32, clamped bool) {
	r := math.Round(val)
	if r > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if r < math.MinInt32 {
		return math.MinInt32, true
	}
	return int32(r), false
}
