package stats

import (
	"sort"
	"strings"
	"time"
)

// Identity names a metric and carries the contextual tags it is reported with
type Identity struct {
	Name string
	Tags []string // sorted, in key=value form
}

// NewIdentity returns the identity for the given name and tags.
// tags are sorted by key so that the same set always yields the same key.
func NewIdentity(name string, tags map[string]string) Identity {
	id := Identity{Name: name}
	if len(tags) == 0 {
		return id
	}
	id.Tags = make([]string, 0, len(tags))
	for k, v := range tags {
		id.Tags = append(id.Tags, k+"="+v)
	}
	sort.Strings(id.Tags)
	return id
}

// ParseIdentity parses a graphite 1.1 style tagged key such as "foo.bar;dc=us;host=a"
func ParseIdentity(key string) Identity {
	parts := strings.Split(key, ";")
	id := Identity{Name: parts[0]}
	for _, p := range parts[1:] {
		if strings.IndexByte(p, '=') > 0 {
			id.Tags = append(id.Tags, p)
		}
	}
	sort.Strings(id.Tags)
	return id
}

// Key returns the tagged key of the identity, used to register and report the metric
func (id Identity) Key() string {
	if len(id.Tags) == 0 {
		return id.Name
	}
	var b strings.Builder
	b.WriteString(id.Name)
	for _, t := range id.Tags {
		b.WriteByte(';')
		b.WriteString(t)
	}
	return b.String()
}

// Stamp turns a snapshot of this metric into an exportable record
func (id Identity) Stamp(s Snapshot, now time.Time) Record {
	return Record{
		Name:  id.Name,
		Tags:  id.Tags,
		Time:  now.Unix(),
		Kind:  KindAggregate,
		Value: s.Value,
		Sum:   s.Sum,
		Count: s.Count,
		Min:   s.Min,
		Max:   s.Max,
	}
}
