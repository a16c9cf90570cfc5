package stats

//go:generate msgp

// Kind identifies which metric type produced a Record
type Kind uint8

const (
	KindAggregate Kind = iota
	KindCounter
	KindMeter
)

func (k Kind) String() string {
	switch k {
	case KindAggregate:
		return "aggregate"
	case KindCounter:
		return "counter"
	case KindMeter:
		return "meter"
	}
	return "unknown"
}

// Record is the exportable form of a metric at the end of a window
type Record struct {
	Name  string
	Tags  []string
	Time  int64
	Kind  Kind
	Value float64 // mean for aggregates, value for counters, rate for meters
	Sum   int64
	Count uint32
	Min   int32
	Max   int32
}

// HasExtrema returns whether Min and Max hold observed values
func (r *Record) HasExtrema() bool {
	return r.Kind == KindAggregate && r.Count > 0 && r.Min <= r.Max
}

// Key returns the tagged key of the record
func (r *Record) Key() string {
	return Identity{Name: r.Name, Tags: r.Tags}.Key()
}

// AppendGraphite appends the record as graphite plaintext lines
func (r *Record) AppendGraphite(buf, prefix []byte) []byte {
	name := []byte(r.Name)
	tags := graphiteTags(r.Tags)
	switch r.Kind {
	case KindAggregate:
		buf = WriteUint32(buf, prefix, name, []byte(".count32"), tags, r.Count, r.Time)
		if r.Count == 0 {
			return buf
		}
		buf = WriteFloat64(buf, prefix, name, []byte(".mean"), tags, r.Value, r.Time)
		buf = WriteInt64(buf, prefix, name, []byte(".sum"), tags, r.Sum, r.Time)
		if !r.HasExtrema() {
			return buf
		}
		buf = WriteInt32(buf, prefix, name, []byte(".min"), tags, r.Min, r.Time)
		buf = WriteInt32(buf, prefix, name, []byte(".max"), tags, r.Max, r.Time)
	case KindCounter:
		buf = WriteInt64(buf, prefix, name, []byte(".counter64"), tags, r.Sum, r.Time)
	case KindMeter:
		buf = WriteUint32(buf, prefix, name, []byte(".count32"), tags, r.Count, r.Time)
		buf = WriteFloat64(buf, prefix, name, []byte(".rate32"), tags, r.Value, r.Time)
	}
	return buf
}

func graphiteTags(tags []string) []byte {
	if len(tags) == 0 {
		return nil
	}
	var b []byte
	for _, t := range tags {
		b = append(b, ';')
		b = append(b, t...)
	}
	return b
}
