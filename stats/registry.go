package stats

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

var errFmtMetricExists = "fatal: metric %q already exists as type %T"

// Reporter is a metric that can be reported at the end of a window.
// Report appends the records describing the metric to recs, and resets
// the measurements for the next window if the metric type calls for it.
type Reporter interface {
	Report(now time.Time, recs []Record) []Record
}

// Identified is implemented by metrics that know their own identity
type Identified interface {
	Identity() Identity
}

// Registry tracks metrics by their tagged key
type Registry struct {
	sync.Mutex
	metrics map[string]Reporter
}

func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]Reporter),
	}
}

var registry = NewRegistry()

// getOrAdd registers metric under key, unless a metric of the same type already exists,
// in which case the existing one is returned.
// registering a different type under the same key is a programming error and panics.
func (r *Registry) getOrAdd(key string, metric Reporter) Reporter {
	r.Lock()
	defer r.Unlock()
	if existing, ok := r.metrics[key]; ok {
		if reflect.TypeOf(existing) == reflect.TypeOf(metric) {
			return existing
		}
		panic(fmt.Sprintf(errFmtMetricExists, key, existing))
	}
	r.metrics[key] = metric
	return metric
}

// getOrAddAggregator returns the aggregator registered under key, whatever its implementation,
// or registers the one returned by create.
// unlike getOrAdd it returns an error when key is taken by a metric that is not an aggregator.
func (r *Registry) getOrAddAggregator(key string, create func() aggregateReporter) (Aggregator, error) {
	r.Lock()
	defer r.Unlock()
	if existing, ok := r.metrics[key]; ok {
		if agg, ok := existing.(Aggregator); ok {
			return agg, nil
		}
		return nil, fmt.Errorf(errFmtMetricExists, key, existing)
	}
	agg := create()
	r.metrics[key] = agg
	return agg, nil
}

func (r *Registry) get(key string) (Reporter, bool) {
	r.Lock()
	m, ok := r.metrics[key]
	r.Unlock()
	return m, ok
}

func (r *Registry) list() map[string]Reporter {
	metrics := make(map[string]Reporter)
	r.Lock()
	for key, metric := range r.metrics {
		metrics[key] = metric
	}
	r.Unlock()
	return metrics
}

func (r *Registry) Clear() {
	r.Lock()
	r.metrics = make(map[string]Reporter)
	r.Unlock()
}

// NamedAggregator is an aggregator along with its identity
type NamedAggregator struct {
	Identity
	Aggregator
}

// Aggregators returns all registered aggregators, keyed by tagged key.
// callers may Peek them at will, but must leave ReadAndReset to the Flusher.
func Aggregators() map[string]NamedAggregator {
	out := make(map[string]NamedAggregator)
	for key, m := range registry.list() {
		agg, ok := m.(Aggregator)
		if !ok {
			continue
		}
		id := ParseIdentity(key)
		if idf, ok := m.(Identified); ok {
			id = idf.Identity()
		}
		out[key] = NamedAggregator{Identity: id, Aggregator: agg}
	}
	return out
}

// Lookup returns the metric registered under the given tagged key
func Lookup(key string) (Reporter, bool) {
	return registry.get(key)
}

// Clear removes all metrics from the default registry
func Clear() {
	registry.Clear()
}
