// Package dates models the precision-tagged date and interval entities
// the graph store uses. A date carries a precision (year, year-month,
// or year-month-day); an interval owns an optional start and end date
// entity. Distinct (start, end) pairs map to distinct interval
// entities, and an interval with both ends absent is never created.
package dates

import (
	"fmt"
	"time"

	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// Precision of a date entity.
type Precision string

// Supported precisions.
const (
	Year         Precision = "year"
	YearMonth    Precision = "year-month"
	YearMonthDay Precision = "year-month-day"
)

// IRI returns the graph vocabulary IRI for the precision.
func (p Precision) IRI() string {
	switch p {
	case Year:
		return vocab.YearPrecision
	case YearMonth:
		return vocab.YearMonthPrecision
	default:
		return vocab.YearMonthDayPrecision
	}
}

// PrecisionFromIRI maps a graph precision IRI back to a Precision,
// defaulting to full precision for unknown IRIs.
func PrecisionFromIRI(iri string) Precision {
	switch iri {
	case vocab.YearPrecision:
		return Year
	case vocab.YearMonthPrecision:
		return YearMonth
	default:
		return YearMonthDay
	}
}

// layouts by precision, used for both parsing and key rendering.
var layouts = map[Precision]string{
	Year:         "2006",
	YearMonth:    "2006-01",
	YearMonthDay: "2006-01-02",
}

// Date is a precision-tagged point in time.
type Date struct {
	Time      time.Time
	Precision Precision
}

// Parse reads a date string in one of the supported layouts. The
// layout determines the precision: "2006" year, "2006-01" year-month,
// "2006-01-02" full.
func Parse(value string) (Date, error) {
	for _, p := range []Precision{YearMonthDay, YearMonth, Year} {
		if t, err := time.Parse(layouts[p], value); err == nil {
			return Date{Time: t, Precision: p}, nil
		}
	}
	// Registrar extracts carry US-style dates.
	if t, err := time.Parse("01/02/2006", value); err == nil {
		return Date{Time: t, Precision: YearMonthDay}, nil
	}
	return Date{}, fmt.Errorf("malformed date %q", value)
}

// NewYear returns a year-precision date for the given year.
func NewYear(year int) Date {
	return Date{Time: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), Precision: Year}
}

// Key renders the date at its precision, e.g. "2014", "2014-03",
// "2014-03-13". Dates with equal keys resolve to the same date entity.
func (d Date) Key() string {
	return d.Time.Format(layouts[d.Precision])
}

// DateTime renders the date in the store's dateTime literal form.
func (d Date) DateTime() string {
	return d.Time.Format("2006-01-02T15:04:05")
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// Before reports whether d precedes o in time.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// Statements emits the statement set describing a date entity with the
// given identifier.
func (d Date) Statements(id string) []triples.Statement {
	return []triples.Statement{
		triples.Resource(id, vocab.RDFType, vocab.VivoDateTimeValue),
		triples.Data(id, vocab.VivoDateTime, d.DateTime()),
		triples.Resource(id, vocab.VivoDateTimePrecision, d.Precision.IRI()),
	}
}

// Interval pairs an optional start and end date entity.
type Interval struct {
	StartID string // "" when the interval has no start
	EndID   string // "" when the interval has no end
}

// Empty reports whether both ends are absent. Empty intervals are not
// materialized as entities.
func (iv Interval) Empty() bool {
	return iv.StartID == "" && iv.EndID == ""
}

// Key identifies an interval by its (start, end) identifier pair.
func (iv Interval) Key() string {
	return IntervalKey(iv.StartID, iv.EndID)
}

// IntervalKey builds the dictionary key for a (start, end) pair.
// Absent ends render as "None" so (x, "") and ("", x) stay distinct.
func IntervalKey(startID, endID string) string {
	if startID == "" {
		startID = "None"
	}
	if endID == "" {
		endID = "None"
	}
	return startID + endID
}

// Statements emits the statement set describing an interval entity with
// the given identifier. Absent ends are simply not asserted.
func (iv Interval) Statements(id string) []triples.Statement {
	stmts := []triples.Statement{
		triples.Resource(id, vocab.RDFType, vocab.VivoIntervalType),
	}
	if iv.StartID != "" {
		stmts = append(stmts, triples.Resource(id, vocab.VivoStart, iv.StartID))
	}
	if iv.EndID != "" {
		stmts = append(stmts, triples.Resource(id, vocab.VivoEnd, iv.EndID))
	}
	return stmts
}
