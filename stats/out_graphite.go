package stats

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	log "github.com/sirupsen/logrus"
)

var ErrGraphiteBufferFull = errors.New("graphite write buffer full")

// Graphite is a Sink that sends records to graphite in the plaintext protocol.
// payloads are buffered while the connection is down, up to bufferSize windows.
type Graphite struct {
	prefix []byte
	addr   string

	timeout    time.Duration
	toGraphite chan []byte
	backoff    *backoff.Backoff
	quit       chan struct{}
	done       chan struct{}

	// metric stats.graphite.write_queue.items is the number of payloads waiting to be written
	queueItems Aggregator
	// metric stats.graphite.message_size is the size of the payloads in bytes
	messageSize Aggregator
	// metric stats.graphite.flush.duration is how long a write to graphite takes, in microseconds
	flushDuration Aggregator
	// metric stats.graphite.dropped is how many payloads were dropped because the buffer was full
	dropped *Counter64
	// metric stats.graphite.connected is 1 while we are connected to graphite
	connected *Counter64
}

func NewGraphite(prefix, addr string, bufferSize int, timeout time.Duration) *Graphite {
	if len(prefix) != 0 && prefix[len(prefix)-1] != '.' {
		prefix = prefix + "."
	}
	NewCounter64("stats.graphite.write_queue.size").Set(int64(bufferSize))

	g := &Graphite{
		prefix:     []byte(prefix),
		addr:       addr,
		toGraphite: make(chan []byte, bufferSize),
		timeout:    timeout,
		backoff: &backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    10 * time.Second,
			Factor: 2,
			Jitter: true,
		},
		quit: make(chan struct{}),
		done: make(chan struct{}),

		queueItems:    NewAggregator("stats.graphite.write_queue.items", nil),
		messageSize:   NewAggregator("stats.graphite.message_size", nil),
		flushDuration: NewAggregator("stats.graphite.flush.duration", nil),
		dropped:       NewCounter64("stats.graphite.dropped"),
		connected:     NewCounter64("stats.graphite.connected"),
	}
	go g.writer()
	return g
}

func (g *Graphite) Name() string {
	return "graphite"
}

// Write encodes the records and queues them for the writer. It does not block:
// when the buffer is full, the payload is dropped.
func (g *Graphite) Write(recs []Record, now time.Time) error {
	var buf []byte
	for i := range recs {
		buf = recs[i].AppendGraphite(buf, g.prefix)
	}
	g.messageSize.Update(Clamp32(int64(len(buf))))
	select {
	case g.toGraphite <- buf:
		g.queueItems.Update(int32(len(g.toGraphite)))
		return nil
	default:
		g.dropped.Inc()
		return ErrGraphiteBufferFull
	}
}

// Stop waits up to the write timeout for queued payloads to be written,
// then stops the writer and closes its connection.
func (g *Graphite) Stop() {
	deadline := time.Now().Add(g.timeout)
	for len(g.toGraphite) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	close(g.quit)
	<-g.done
}

// writer connects to graphite and submits all pending data to it
func (g *Graphite) writer() {
	defer close(g.done)
	var conn net.Conn
	var err error
	var wg sync.WaitGroup

	// assureConn returns false if we were asked to quit before we could connect
	assureConn := func() bool {
		for conn == nil {
			conn, err = net.DialTimeout("tcp", g.addr, g.timeout)
			if err == nil {
				log.Infof("stats now connected to %s", g.addr)
				g.backoff.Reset()
				g.connected.Set(1)
				wg.Add(1)
				go g.checkEOF(conn, &wg)
				return true
			}
			conn = nil
			wait := g.backoff.Duration()
			log.Warnf("stats dialing %s failed: %s. will retry in %s", g.addr, err.Error(), wait)
			select {
			case <-g.quit:
				return false
			case <-time.After(wait):
			}
		}
		return true
	}

	closeConn := func() {
		if conn != nil {
			conn.Close()
			wg.Wait()
			conn = nil
		}
		g.connected.Set(0)
	}
	defer closeConn()

	for {
		var buf []byte
		select {
		case <-g.quit:
			return
		case buf = <-g.toGraphite:
		}
		g.queueItems.Update(int32(len(g.toGraphite)))
		for {
			if !assureConn() {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(g.timeout))
			pre := time.Now()
			_, err = conn.Write(buf)
			if err == nil {
				g.flushDuration.Update(Clamp32(time.Since(pre).Microseconds()))
				break
			}
			log.Warnf("stats failed to write to graphite: %s (took %s). will retry...", err, time.Since(pre))
			closeConn()
		}
	}
}

// normally the remote end should never write anything back
// but we know when we get EOF that the other end closed the conn
// if not for this, we can happily write and flush without getting errors (in Go) but getting RST tcp packets back (!)
func (g *Graphite) checkEOF(conn net.Conn, wg *sync.WaitGroup) {
	defer wg.Done()
	b := make([]byte, 1024)
	for {
		num, err := conn.Read(b)
		if err == io.EOF {
			log.Info("Graphite.checkEOF: remote closed conn. closing conn")
			conn.Close()
			return
		}

		// in case the remote behaves badly (carbon never sends anything back)
		if num != 0 {
			log.Warnf("Graphite.checkEOF: read unexpected data from peer: %s", b[:num])
			continue
		}

		if err != nil {
			log.Debugf("Graphite.checkEOF: %s. closing conn", err)
			conn.Close()
			return
		}
	}
}
