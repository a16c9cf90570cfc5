package stats

import "fmt"

// Mode selects the aggregator implementation returned by NewAggregator
type Mode uint8

const (
	// ModeExact uses ExactAggregate32: window-exact resets, lock-free updates that allocate
	ModeExact Mode = iota
	// ModePacked uses Aggregate32: wait-free, allocation-free count/sum updates,
	// extrema may be split across windows at reset time
	ModePacked
)

// AggregateMode is the mode used by NewAggregator. Set it before creating aggregators.
var AggregateMode = ModeExact

func ParseMode(s string) (Mode, error) {
	switch s {
	case "exact":
		return ModeExact, nil
	case "packed":
		return ModePacked, nil
	}
	return 0, fmt.Errorf("unknown aggregate mode %q. must be exact or packed", s)
}

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModePacked:
		return "packed"
	}
	return "unknown"
}

type aggregateReporter interface {
	Aggregator
	Reporter
}

// NewAggregator returns the aggregator for the given name and tags, creating it
// according to AggregateMode if it does not exist yet.
// the name must not be in use by another kind of metric.
func NewAggregator(name string, tags map[string]string) Aggregator {
	return NewAggregatorForIdentity(NewIdentity(name, tags))
}

// NewAggregatorForIdentity is like NewAggregator, for an existing identity
func NewAggregatorForIdentity(id Identity) Aggregator {
	agg, err := GetOrAddAggregator(id)
	if err != nil {
		panic(err.Error())
	}
	return agg
}

// GetOrAddAggregator returns the aggregator for id, creating it according to
// AggregateMode if it does not exist yet.
// It returns an error if id is already taken by another kind of metric,
// so it is safe to call with identities that come from the network.
func GetOrAddAggregator(id Identity) (Aggregator, error) {
	return registry.getOrAddAggregator(id.Key(), func() aggregateReporter {
		if AggregateMode == ModePacked {
			return newAggregate32(id)
		}
		return newExactAggregate32(id)
	})
}
