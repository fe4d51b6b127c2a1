package reconcile

import (
	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
)

// Property names one reconciled property of an entity type: the record
// field it reads from and the predicate it asserts. Resource marks
// reference-valued properties, whose field holds an already-resolved
// entity identifier.
type Property struct {
	Field     string
	Predicate string
	Resource  bool
}

// Reference declares a cross-reference the engine resolves before a
// record may be built or updated. The raw key in SourceField is looked
// up in the named dictionary and the identifier lands in Field.
// Required references gate emission: a record with an unresolvable
// required reference is skipped with an exception.
type Reference struct {
	Field       string
	SourceField string
	Dictionary  string
	Required    bool
}

// ContactEntry describes one single-valued entry on the entity's owned
// contact card (email, telephone, fax, title).
type ContactEntry struct {
	Field          string
	HasPredicate   string
	TypeIRI        string
	ValuePredicate string
}

// ContactSpec describes the owned contact card of an entity type: the
// name entity's literal properties plus single-entry sub-entities.
type ContactSpec struct {
	Name    []Property
	Entries []ContactEntry
}

// IntervalSpec declares the parent-owned date interval: which record
// fields carry the start and end dates and at what precision they are
// asserted.
type IntervalSpec struct {
	StartField string
	EndField   string
	Field      string // resolved interval identifier lands here
	Precision  dates.Precision
}

// Build is the context handed to member builders: it mints identifiers
// and accumulates statements into the record's addition batch.
type Build struct {
	Mint  func() string
	Add   *triples.Batch
	Dates *DateIndex
}

// NewInterval parses optional start and end dates, reuses or creates
// the date and interval entities, and returns the interval identifier.
// Returns "" when both ends are absent. Malformed dates are a
// validation concern and must be rejected before building.
func (b *Build) NewInterval(start, end string, p dates.Precision) string {
	var startID, endID string
	if start != "" {
		if d, err := dates.Parse(start); err == nil {
			d.Precision = p
			startID = b.Dates.EnsureDate(d, b.Mint, b.Add)
		}
	}
	if end != "" {
		if d, err := dates.Parse(end); err == nil {
			d.Precision = p
			endID = b.Dates.EnsureDate(d, b.Mint, b.Add)
		}
	}
	if startID == "" && endID == "" {
		return ""
	}
	return b.Dates.EnsureInterval(startID, endID, b.Mint, b.Add)
}

// MemberBuilder emits the complete statement set for one new collection
// member (a role, a position) owned by parentID, returning the member's
// identifier.
type MemberBuilder func(b *Build, parentID string, m source.Member) string

// Collection declares one owned sub-entity collection of an entity
// type. Members are structurally compared by defining tuple: an exact
// match is a no-op, a source-only member is added in full, a graph-only
// member is retracted in full. There are no partial member updates.
type Collection struct {
	Name          string
	Field         string      // record member collection name
	LinkPredicate string      // parent-to-member link in the graph
	Tuple         []Property  // member fields forming the defining tuple
	References    []Reference // resolved per member; unresolvable required refs drop the member
	Build         MemberBuilder
}

// RetirePolicy selects what happens to a graph-only (retire-only) key.
type RetirePolicy int

// Retirement policies.
const (
	// RetireNone leaves the entity untouched, as grant ingest does.
	RetireNone RetirePolicy = iota
	// RetireClose retracts the current marker and contact details and
	// closes open member intervals, as people ingest does. The entity
	// itself is never deleted: other data may still reference it.
	RetireClose
)

// Table is the declarative description of one entity type, the only
// thing a concrete ingest supplies besides its member builders. The
// property set is explicit: reconciliation never infers properties.
type Table struct {
	Name          string
	Types         []string // type IRIs asserted on create
	CurrentMarker string   // currency type IRI, "" when the type has none
	Key           Property // natural key property
	Properties    []Property
	References    []Reference
	Interval      *IntervalSpec
	Contact       *ContactSpec
	Collections   []Collection
	Retire        RetirePolicy
	HarvestAgent  string // provenance agent label, "" disables provenance

	// TypeOf returns record-dependent extra type IRIs asserted on
	// create, such as the person class derived from a salary plan.
	TypeOf func(rec *source.Record) []string

	// Exclude marks keys the run must not touch in either direction.
	Exclude func(key string) bool

	// Validate checks and normalizes a record in place, returning one
	// error per bad field. Any error skips the whole record.
	Validate func(rec *source.Record) []error
}
