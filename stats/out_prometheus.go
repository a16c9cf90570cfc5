package stats

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
)

var aggregateFields = []struct {
	field string
	help  string
}{
	{"mean", "Mean of the values observed in the current window."},
	{"sum", "Sum of the values observed in the current window."},
	{"count", "Number of values observed in the current window."},
	{"min", "Lowest value observed in the current window. Absent if the window has no extrema."},
	{"max", "Highest value observed in the current window. Absent if the window has no extrema."},
}

// PrometheusCollector exposes the current window of every registered aggregator.
// It only ever Peeks, so scraping does not interfere with the Flusher.
//
// Every aggregate is labeled with its name and one label per tag key. All series of a
// family need the same label names, so the labels are the union of the tag keys of all
// aggregators, and an aggregate without a given tag has an empty value for it.
// The label set changes as aggregators are added, so this is an unchecked collector.
type PrometheusCollector struct {
	namespace string
}

var _ prometheus.Collector = &PrometheusCollector{}

func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{namespace: namespace}
}

// Describe sends nothing, which makes this an unchecked collector
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {}

func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	aggs := Aggregators()

	seen := make(map[string]struct{})
	for _, agg := range aggs {
		for _, t := range agg.Tags {
			seen[tagLabel(t[:strings.IndexByte(t, '=')])] = struct{}{}
		}
	}
	tagLabels := make([]string, 0, len(seen))
	for l := range seen {
		tagLabels = append(tagLabels, l)
	}
	sort.Strings(tagLabels)
	pos := make(map[string]int, len(tagLabels))
	for i, l := range tagLabels {
		pos[l] = i + 1
	}

	labels := append([]string{"name"}, tagLabels...)
	descs := make([]*prometheus.Desc, len(aggregateFields))
	for i, f := range aggregateFields {
		descs[i] = prometheus.NewDesc(prometheus.BuildFQName(c.namespace, "aggregate", f.field), f.help, labels, nil)
	}

	// distinct tagged keys can map to the same label values, e.g. foo;a.b=1 and foo;a_b=1.
	// a registry fails the whole scrape on duplicates or invalid utf-8, so such series are skipped.
	series := make(map[string]struct{}, len(aggs))
	for _, agg := range aggs {
		values := make([]string, len(labels))
		values[0] = agg.Name
		for _, t := range agg.Tags {
			eq := strings.IndexByte(t, '=')
			values[pos[tagLabel(t[:eq])]] = t[eq+1:]
		}
		sig := strings.Join(values, "\x00")
		if _, ok := series[sig]; ok || !utf8.ValidString(sig) {
			continue
		}
		series[sig] = struct{}{}

		snap := agg.Peek()
		ch <- prometheus.MustNewConstMetric(descs[0], prometheus.GaugeValue, snap.Value, values...)
		ch <- prometheus.MustNewConstMetric(descs[1], prometheus.GaugeValue, float64(snap.Sum), values...)
		ch <- prometheus.MustNewConstMetric(descs[2], prometheus.GaugeValue, float64(snap.Count), values...)
		if snap.HasExtrema() {
			ch <- prometheus.MustNewConstMetric(descs[3], prometheus.GaugeValue, float64(snap.Min), values...)
			ch <- prometheus.MustNewConstMetric(descs[4], prometheus.GaugeValue, float64(snap.Max), values...)
		}
	}
}

// tagLabel turns a graphite tag key into a valid prometheus label name.
// invalid characters become underscores. keys that would clash with the name
// label or with reserved labels get a tag_ prefix.
func tagLabel(key string) string {
	b := []byte(key)
	for i, ch := range b {
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (i > 0 && ch >= '0' && ch <= '9') {
			continue
		}
		b[i] = '_'
	}
	l := string(b)
	if l == "" || l == "name" || strings.HasPrefix(l, "__") {
		return "tag_" + l
	}
	return l
}
