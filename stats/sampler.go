package stats

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/procfs"
	log "github.com/sirupsen/logrus"
)

// Sampler periodically observes runtime and process statistics into aggregates,
// so that their mean, min and max per window get reported.
type Sampler struct {
	interval time.Duration
	proc     *procfs.Proc
	mem      runtime.MemStats
	numGC    uint32

	// metric memory.heap_kib is the size of the allocated heap in KiB
	heap Aggregator
	// metric memory.gc.pause_us is the duration of GC stop-the-world pauses in microseconds
	gcPause Aggregator
	// metric runtime.goroutines is the number of goroutines
	goroutines Aggregator
	// metric process.resident_memory_kib is the process RSS from /proc/pid/stat, in KiB
	rss Aggregator
	// metric process.open_fds is the number of open file descriptors
	fds Aggregator
}

// NewSampler returns a sampler. When /proc is not available, only runtime stats are sampled.
func NewSampler(interval time.Duration) *Sampler {
	s := &Sampler{
		interval:   interval,
		heap:       NewAggregator("memory.heap_kib", nil),
		gcPause:    NewAggregator("memory.gc.pause_us", nil),
		goroutines: NewAggregator("runtime.goroutines", nil),
	}
	proc, err := procfs.NewProc(os.Getpid())
	if err != nil {
		log.Warnf("stats: cannot read process stats, only sampling runtime stats: %s", err)
		return s
	}
	s.proc = &proc
	s.rss = NewAggregator("process.resident_memory_kib", nil)
	s.fds = NewAggregator("process.open_fds", nil)
	return s
}

func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sample()
		}
	}
}

func (s *Sampler) Sample() {
	runtime.ReadMemStats(&s.mem)
	s.heap.Update(Clamp32(int64(s.mem.HeapAlloc / 1024)))
	s.goroutines.Update(Clamp32(int64(runtime.NumGoroutine())))

	// only observe pauses of GC runs we have not seen yet. PauseNs is a circular buffer of 256
	newRuns := s.mem.NumGC - s.numGC
	if newRuns > 256 {
		newRuns = 256
	}
	for i := uint32(0); i < newRuns; i++ {
		pause := s.mem.PauseNs[(s.mem.NumGC-i+255)%256]
		s.gcPause.Update(Clamp32(int64(pause / 1000)))
	}
	s.numGC = s.mem.NumGC

	if s.proc == nil {
		return
	}
	stat, err := s.proc.NewStat()
	if err == nil {
		s.rss.Update(Clamp32(int64(stat.ResidentMemory() / 1024)))
	}
	if n, err := s.proc.FileDescriptorsLen(); err == nil {
		s.fds.Update(Clamp32(int64(n)))
	}
}
