package reconcile

import (
	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/triples"
)

// DateIndex holds the run-level date and interval dictionaries. Both
// are seeded from the graph before the run and appended to as new
// entities are minted mid-run, so every (value, precision) pair and
// every (start, end) pair maps to exactly one identifier within a run.
type DateIndex struct {
	Dates     *graph.Dictionary
	Intervals *graph.Dictionary
}

// NewDateIndex returns an index over empty dictionaries. Callers
// populate them from the graph when reuse across runs matters.
func NewDateIndex() *DateIndex {
	return &DateIndex{
		Dates:     graph.NewDictionary("dates"),
		Intervals: graph.NewDictionary("intervals"),
	}
}

// EnsureDate returns the identifier of the date entity for d, minting
// it and emitting its statements into add when it does not exist yet.
func (x *DateIndex) EnsureDate(d dates.Date, mint func() string, add *triples.Batch) string {
	if id, ok := x.Dates.Resolve(d.Key()); ok {
		return id
	}
	id := mint()
	for _, s := range d.Statements(id) {
		add.Add(s)
	}
	x.Dates.Put(d.Key(), id)
	return id
}

// EnsureInterval returns the identifier of the interval entity keyed by
// (startID, endID), minting it when absent. Either end may be "".
func (x *DateIndex) EnsureInterval(startID, endID string, mint func() string, add *triples.Batch) string {
	iv := dates.Interval{StartID: startID, EndID: endID}
	if id, ok := x.Intervals.Resolve(iv.Key()); ok {
		return id
	}
	id := mint()
	for _, s := range iv.Statements(id) {
		add.Add(s)
	}
	x.Intervals.Put(iv.Key(), id)
	return id
}
