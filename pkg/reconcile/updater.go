package reconcile

import (
	"strings"
	"time"

	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// Updater reconciles an existing entity against its source record. It
// shares the table and builder with entity creation so added pieces are
// shaped identically whether the entity is new or updated.
type Updater struct {
	table   *Table
	builder *Builder
}

// NewUpdater creates an updater over the builder's table.
func NewUpdater(b *Builder) *Updater {
	return &Updater{table: b.table, builder: b}
}

// Update computes the additions and retractions that move the snapshot
// to the record's view. Declared properties follow the field outcome
// table, collections are diffed by defining tuple, and contact details
// reconcile value by value. Fields the table does not declare are never
// touched, and a record identical to the graph yields empty batches.
func (u *Updater) Update(snap *Snapshot, rec *source.Record, add, retract *triples.Batch) {
	for _, p := range u.table.Properties {
		out := Reconcile(snap.Values[p.Field], rec.Get(p.Field))
		out.Apply(snap.ID, p.Predicate, p.Resource, add, retract)
	}

	// An entity seen in its source feed is current again, whatever an
	// earlier retirement said.
	if u.table.CurrentMarker != "" && !snap.HasMarker {
		add.Add(triples.Resource(snap.ID, vocab.RDFType, u.table.CurrentMarker))
	}

	if u.table.Contact != nil {
		u.updateContact(snap, rec, add, retract)
	}

	ctx := u.builder.context(add)
	for _, c := range u.table.Collections {
		u.updateCollection(ctx, c, snap, rec, add, retract)
	}

	// Re-stamp provenance only when something actually changed, so a
	// record identical to the graph stays a no-op.
	if u.table.HarvestAgent != "" && (!add.Empty() || !retract.Empty()) {
		Reconcile(snap.HarvestedBy, u.table.HarvestAgent).
			Apply(snap.ID, vocab.LocalHarvestedBy, false, add, retract)
		Reconcile(snap.DateHarvested, u.builder.now().Format(time.RFC3339)).
			Apply(snap.ID, vocab.LocalDateHarvested, false, add, retract)
	}
}

// updateContact reconciles the card's name and single-valued entries.
// A missing card is created outright when the record carries contact
// values; existing entries reconcile their value literal in place.
func (u *Updater) updateContact(snap *Snapshot, rec *source.Record, add, retract *triples.Batch) {
	spec := u.table.Contact
	if snap.CardID == "" {
		u.builder.buildCard(snap.ID, rec, add)
		return
	}

	if snap.NameID == "" {
		u.builder.buildName(snap.CardID, rec, add)
	} else {
		for _, p := range spec.Name {
			out := Reconcile(snap.NameValues[p.Field], rec.Get(p.Field))
			out.Apply(snap.NameID, p.Predicate, false, add, retract)
		}
	}

	for _, e := range spec.Entries {
		detail, exists := snap.Details[e.Field]
		value := rec.Get(e.Field)
		switch {
		case !exists && value == "":
			// nothing on either side
		case !exists:
			u.builder.buildDetail(snap.CardID, e, value, add)
		case value == "":
			retract.Add(detail.Link)
			for _, s := range detail.Statements {
				retract.Add(s)
			}
		default:
			out := Reconcile(detail.Value, value)
			out.Apply(detail.ID, e.ValuePredicate, false, add, retract)
		}
	}
}

// updateCollection diffs graph members against source members by
// defining tuple. Matches are left alone, source-only members are built
// in full, graph-only members are retracted in full. Members are never
// partially updated.
func (u *Updater) updateCollection(ctx *Build, c Collection, snap *Snapshot, rec *source.Record, add, retract *triples.Batch) {
	existing := make(map[string]SubEntity)
	for _, m := range snap.Collections[c.Name] {
		existing[m.TupleKey()] = m
	}

	wanted := make(map[string]bool)
	for _, m := range rec.Members[c.Field] {
		key := memberTupleKey(c, m)
		wanted[key] = true
		if _, ok := existing[key]; !ok {
			c.Build(ctx, snap.ID, m)
		}
	}

	for key, m := range existing {
		if wanted[key] {
			continue
		}
		retract.Add(m.Link)
		for _, s := range m.Statements {
			retract.Add(s)
		}
	}
}

// memberTupleKey renders a source member's defining tuple with the same
// shape SubEntity.TupleKey uses, so the two sides compare directly.
func memberTupleKey(c Collection, m source.Member) string {
	parts := make([]string, 0, len(c.Tuple))
	for _, tp := range c.Tuple {
		parts = append(parts, m.Fields[tp.Field])
	}
	return strings.Join(parts, "|")
}
