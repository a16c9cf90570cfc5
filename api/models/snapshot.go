package models

import "github.com/grafana/metricagg/stats"

// SnapshotRequest selects the aggregates to return. an empty Name selects all of them
type SnapshotRequest struct {
	Name string `json:"name" form:"name"`
}

// Aggregate is the json form of the current window of one aggregate.
// Min and Max are omitted when the window has no extrema.
type Aggregate struct {
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Mean  float64  `json:"mean"`
	Sum   int64    `json:"sum"`
	Count uint32   `json:"count"`
	Min   *int32   `json:"min,omitempty"`
	Max   *int32   `json:"max,omitempty"`
}

func NewAggregate(key string, id stats.Identity, s stats.Snapshot) Aggregate {
	a := Aggregate{
		Key:   key,
		Name:  id.Name,
		Tags:  id.Tags,
		Mean:  s.Value,
		Sum:   s.Sum,
		Count: s.Count,
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if s.HasExtrema() {
		min, max := s.Min, s.Max
		a.Min = &min
		a.Max = &max
	}
	return a
}

// AggregatesByKey sorts aggregates by key
type AggregatesByKey []Aggregate

func (a AggregatesByKey) Len() int           { return len(a) }
func (a AggregatesByKey) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a AggregatesByKey) Less(i, j int) bool { return a[i].Key < a[j].Key }
