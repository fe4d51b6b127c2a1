package reconcile

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/errors"
	"github.com/campusgraph/campusgraph/pkg/minter"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// Builder emits the complete statement set for new entities of one
// table, and the shared pieces (contact cards, intervals, provenance)
// the updater reuses when filling gaps on existing entities.
type Builder struct {
	table *Table
	mint  func() string
	dates *DateIndex
	now   func() utc.Time
}

// NewBuilder creates a builder for the table, minting identifiers with
// m and reusing date and interval entities through idx.
func NewBuilder(table *Table, m minter.Minter, idx *DateIndex) *Builder {
	return &Builder{table: table, mint: m.NewID, dates: idx, now: utc.Now}
}

// context returns the build context handed to member builders.
func (b *Builder) context(add *triples.Batch) *Build {
	return &Build{Mint: b.mint, Add: add, Dates: b.dates}
}

// ResolveInterval parses the record's start and end date fields,
// ensures the date and interval entities exist, and stores the interval
// identifier in the interval field so property reconciliation treats it
// like any other reference. Statements for newly minted dates and
// intervals go into add. Malformed dates and inverted ranges are
// reported per field; nothing is minted for a record with errors.
func (b *Builder) ResolveInterval(rec *source.Record, add *triples.Batch) []error {
	spec := b.table.Interval
	if spec == nil {
		return nil
	}

	var errs []error
	var start, end dates.Date
	if v := rec.Get(spec.StartField); v != "" {
		d, err := dates.Parse(v)
		if err != nil {
			errs = append(errs, &errors.InvalidValueError{
				Key: rec.Key, Field: spec.StartField, Value: v, Message: "malformed date",
			})
		} else {
			start = d
		}
	}
	if v := rec.Get(spec.EndField); v != "" {
		d, err := dates.Parse(v)
		if err != nil {
			errs = append(errs, &errors.InvalidValueError{
				Key: rec.Key, Field: spec.EndField, Value: v, Message: "malformed date",
			})
		} else {
			end = d
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, &errors.InvalidValueError{
			Key: rec.Key, Field: spec.EndField, Value: rec.Get(spec.EndField),
			Message: "end date precedes start date",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	var startID, endID string
	if !start.IsZero() {
		start.Precision = spec.Precision
		startID = b.dates.EnsureDate(start, b.mint, add)
	}
	if !end.IsZero() {
		end.Precision = spec.Precision
		endID = b.dates.EnsureDate(end, b.mint, add)
	}
	if startID == "" && endID == "" {
		return nil
	}
	rec.Set(spec.Field, b.dates.EnsureInterval(startID, endID, b.mint, add))
	return nil
}

// Build emits the full statement set for a new entity from the record
// and returns its identifier. References and the interval field must be
// resolved before Build is called.
func (b *Builder) Build(rec *source.Record, add *triples.Batch) string {
	t := b.table
	id := b.mint()

	add.Add(triples.Resource(id, vocab.RDFType, vocab.OWLThing))
	for _, typeIRI := range t.Types {
		add.Add(triples.Resource(id, vocab.RDFType, typeIRI))
	}
	if t.TypeOf != nil {
		for _, typeIRI := range t.TypeOf(rec) {
			add.Add(triples.Resource(id, vocab.RDFType, typeIRI))
		}
	}
	if t.CurrentMarker != "" {
		add.Add(triples.Resource(id, vocab.RDFType, t.CurrentMarker))
	}
	add.Add(triples.Data(id, t.Key.Predicate, rec.Key))

	for _, p := range t.Properties {
		v := rec.Get(p.Field)
		if v == "" {
			continue
		}
		if p.Resource {
			add.Add(triples.Resource(id, p.Predicate, v))
		} else {
			add.Add(triples.Data(id, p.Predicate, v))
		}
	}

	if t.Contact != nil {
		b.buildCard(id, rec, add)
	}

	ctx := b.context(add)
	for _, c := range t.Collections {
		for _, m := range rec.Members[c.Field] {
			c.Build(ctx, id, m)
		}
	}

	if t.HarvestAgent != "" {
		b.Provenance(id, add)
	}
	return id
}

// Provenance stamps an entity with the harvesting agent and time.
func (b *Builder) Provenance(id string, add *triples.Batch) {
	add.Add(triples.Data(id, vocab.LocalHarvestedBy, b.table.HarvestAgent))
	add.Add(triples.Data(id, vocab.LocalDateHarvested, b.now().Format(time.RFC3339)))
}

// buildCard emits a contact card for the entity when the record carries
// any contact value. An empty card is never created.
func (b *Builder) buildCard(id string, rec *source.Record, add *triples.Batch) {
	spec := b.table.Contact
	hasValue := false
	for _, p := range spec.Name {
		if rec.Get(p.Field) != "" {
			hasValue = true
		}
	}
	for _, e := range spec.Entries {
		if rec.Get(e.Field) != "" {
			hasValue = true
		}
	}
	if !hasValue {
		return
	}

	cardID := b.mint()
	add.Add(triples.Resource(cardID, vocab.RDFType, vocab.VCardIndividual))
	add.Add(triples.Resource(id, vocab.HasContactInfo, cardID))
	add.Add(triples.Resource(cardID, vocab.ContactInfoOf, id))

	b.buildName(cardID, rec, add)
	for _, e := range spec.Entries {
		if v := rec.Get(e.Field); v != "" {
			b.buildDetail(cardID, e, v, add)
		}
	}
}

// buildName emits the card's name entity when any name field is set.
func (b *Builder) buildName(cardID string, rec *source.Record, add *triples.Batch) string {
	spec := b.table.Contact
	hasValue := false
	for _, p := range spec.Name {
		if rec.Get(p.Field) != "" {
			hasValue = true
		}
	}
	if !hasValue {
		return ""
	}
	nameID := b.mint()
	add.Add(triples.Resource(nameID, vocab.RDFType, vocab.VCardName))
	add.Add(triples.Resource(cardID, vocab.VCardHasName, nameID))
	for _, p := range spec.Name {
		if v := rec.Get(p.Field); v != "" {
			add.Add(triples.Data(nameID, p.Predicate, v))
		}
	}
	return nameID
}

// buildDetail emits one single-valued contact entry under the card.
func (b *Builder) buildDetail(cardID string, e ContactEntry, value string, add *triples.Batch) string {
	entryID := b.mint()
	add.Add(triples.Resource(entryID, vocab.RDFType, e.TypeIRI))
	add.Add(triples.Resource(cardID, e.HasPredicate, entryID))
	add.Add(triples.Data(entryID, e.ValuePredicate, value))
	return entryID
}
