package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

func newTestUpdater() (*Updater, *Table) {
	table := testTable()
	builder := NewBuilder(table, &seqMinter{}, NewDateIndex())
	return NewUpdater(builder), table
}

func widgetSnapshot() *Snapshot {
	return &Snapshot{
		ID:          "http://x/w1",
		Values:      map[string]string{"label": "Widget One", "owner": "http://x/owners/7"},
		HasMarker:   true,
		Details:     map[string]ContactDetail{},
		Collections: map[string][]SubEntity{},
	}
}

func TestUpdateIdenticalRecordIsNoOp(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	rec := source.NewRecord("W1")
	rec.Set("label", "Widget One")
	rec.Set("owner", "http://x/owners/7")

	updater.Update(widgetSnapshot(), rec, add, retract)

	assert.True(t, add.Empty())
	assert.True(t, retract.Empty())
}

func TestUpdateReplacesChangedProperty(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	rec := source.NewRecord("W1")
	rec.Set("label", "Widget One Renamed")
	rec.Set("owner", "http://x/owners/7")

	updater.Update(widgetSnapshot(), rec, add, retract)

	assert.Contains(t, add.Statements, triples.Data("http://x/w1", vocab.RDFSLabel, "Widget One Renamed"))
	assert.Contains(t, retract.Statements, triples.Data("http://x/w1", vocab.RDFSLabel, "Widget One"))
}

func TestUpdateRetractsDroppedProperty(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	rec := source.NewRecord("W1")
	rec.Set("label", "Widget One")
	// owner absent in source

	updater.Update(widgetSnapshot(), rec, add, retract)

	assert.Contains(t, retract.Statements, triples.Resource("http://x/w1", "http://x/owner", "http://x/owners/7"))
	assert.True(t, add.Empty())
}

func TestUpdateRestoresCurrentMarker(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	snap := widgetSnapshot()
	snap.HasMarker = false

	rec := source.NewRecord("W1")
	rec.Set("label", "Widget One")
	rec.Set("owner", "http://x/owners/7")

	updater.Update(snap, rec, add, retract)

	assert.Contains(t, add.Statements, triples.Resource("http://x/w1", vocab.RDFType, "http://x/Current"))
	assert.True(t, retract.Empty())
}

func gearMember() SubEntity {
	return SubEntity{
		ID:    "http://x/p1",
		Tuple: []string{"gear"},
		Link:  triples.Resource("http://x/w1", "http://x/hasPart", "http://x/p1"),
		Statements: []triples.Statement{
			triples.Resource("http://x/p1", vocab.RDFType, "http://x/Part"),
			triples.Data("http://x/p1", "http://x/kind", "gear"),
		},
	}
}

func TestUpdateAddsNewCollectionMemberOnly(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	snap := widgetSnapshot()
	snap.Collections = map[string][]SubEntity{"parts": {gearMember()}}

	rec := source.NewRecord("W1")
	rec.Set("label", "Widget One")
	rec.Set("owner", "http://x/owners/7")
	rec.AddMember("parts", source.Member{Fields: map[string]string{"kind": "gear"}})
	rec.AddMember("parts", source.Member{Fields: map[string]string{"kind": "sprocket"}})

	updater.Update(snap, rec, add, retract)

	// The matching gear is untouched; only the sprocket is built.
	assert.True(t, retract.Empty())
	kinds := 0
	for _, s := range add.Statements {
		if s.Predicate == "http://x/kind" {
			kinds++
			assert.Equal(t, "sprocket", s.Object)
		}
	}
	assert.Equal(t, 1, kinds)
}

func TestUpdateRetractsDepartedMemberInFull(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	snap := widgetSnapshot()
	snap.Collections = map[string][]SubEntity{"parts": {gearMember()}}

	rec := source.NewRecord("W1")
	rec.Set("label", "Widget One")
	rec.Set("owner", "http://x/owners/7")

	updater.Update(snap, rec, add, retract)

	assert.True(t, add.Empty())
	assert.Contains(t, retract.Statements, triples.Resource("http://x/w1", "http://x/hasPart", "http://x/p1"))
	assert.Contains(t, retract.Statements, triples.Data("http://x/p1", "http://x/kind", "gear"))
	assert.Contains(t, retract.Statements, triples.Resource("http://x/p1", vocab.RDFType, "http://x/Part"))
}

func TestRetireClosesOpenIntervalsAndRetractsMarker(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	member := gearMember()
	member.IntervalID = "http://x/iv1"
	member.HasEnd = false

	snap := widgetSnapshot()
	snap.Collections = map[string][]SubEntity{"parts": {member}}

	today := dates.NewYear(2026)
	updater.Retire(snap, today, add, retract)

	assert.Contains(t, retract.Statements, triples.Resource("http://x/w1", vocab.RDFType, "http://x/Current"))

	var endDate string
	for _, s := range add.Statements {
		if s.Subject == "http://x/iv1" && s.Predicate == vocab.VivoEnd {
			endDate = s.Object
		}
	}
	require.NotEmpty(t, endDate, "open interval was not closed")
	assert.Contains(t, add.Statements, triples.Data(endDate, vocab.VivoDateTime, "2026-01-01T00:00:00"))
	assert.Contains(t, add.Statements, triples.Resource(endDate, vocab.VivoDateTimePrecision, vocab.YearPrecision))

	// The entity itself stays.
	for _, s := range retract.Statements {
		assert.NotEqual(t, "http://x/id", s.Predicate, "key property must never be retracted")
	}
}

func TestRetireLeavesClosedIntervalsAlone(t *testing.T) {
	updater, _ := newTestUpdater()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	member := gearMember()
	member.IntervalID = "http://x/iv1"
	member.HasEnd = true

	snap := widgetSnapshot()
	snap.HasMarker = false
	snap.Collections = map[string][]SubEntity{"parts": {member}}

	updater.Retire(snap, dates.NewYear(2026), add, retract)

	assert.True(t, add.Empty())
	assert.True(t, retract.Empty())
}

func TestRetireNonePolicyEmitsNothing(t *testing.T) {
	table := testTable()
	table.Retire = RetireNone
	builder := NewBuilder(table, &seqMinter{}, NewDateIndex())
	updater := NewUpdater(builder)

	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)
	updater.Retire(widgetSnapshot(), dates.NewYear(2026), add, retract)

	assert.True(t, add.Empty())
	assert.True(t, retract.Empty())
}

func TestUpdateReconcilesContactDetailValue(t *testing.T) {
	table := testTable()
	table.Contact = &ContactSpec{
		Entries: []ContactEntry{{
			Field:          "email",
			HasPredicate:   vocab.VCardHasEmail,
			TypeIRI:        vocab.VCardEmailType,
			ValuePredicate: vocab.VCardEmail,
		}},
	}
	builder := NewBuilder(table, &seqMinter{}, NewDateIndex())
	updater := NewUpdater(builder)

	snap := widgetSnapshot()
	snap.CardID = "http://x/card1"
	snap.Details = map[string]ContactDetail{
		"email": {
			ID:    "http://x/em1",
			Value: "old@ufl.edu",
			Link:  triples.Resource("http://x/card1", vocab.VCardHasEmail, "http://x/em1"),
			Statements: []triples.Statement{
				triples.Resource("http://x/em1", vocab.RDFType, vocab.VCardEmailType),
				triples.Data("http://x/em1", vocab.VCardEmail, "old@ufl.edu"),
			},
		},
	}

	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	rec := source.NewRecord("W1")
	rec.Set("label", "Widget One")
	rec.Set("owner", "http://x/owners/7")
	rec.Set("email", "new@ufl.edu")

	updater.Update(snap, rec, add, retract)

	assert.Contains(t, add.Statements, triples.Data("http://x/em1", vocab.VCardEmail, "new@ufl.edu"))
	assert.Contains(t, retract.Statements, triples.Data("http://x/em1", vocab.VCardEmail, "old@ufl.edu"))
	// The entry entity is updated in place, not rebuilt.
	for _, s := range retract.Statements {
		assert.NotEqual(t, vocab.RDFType, s.Predicate)
	}
}
