package reconcile

import (
	"time"

	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// Retire computes the changes for an entity present in the graph but
// absent from its source feed, per the table's policy. Under
// RetireClose the current marker and contact details are retracted and
// open member intervals are closed with today's date at year precision.
// The entity itself, its history, and its closed members stay: other
// data may still reference them. RetireNone yields empty batches.
func (u *Updater) Retire(snap *Snapshot, today dates.Date, add, retract *triples.Batch) {
	if u.table.Retire != RetireClose {
		return
	}

	if u.table.CurrentMarker != "" && snap.HasMarker {
		retract.Add(triples.Resource(snap.ID, vocab.RDFType, u.table.CurrentMarker))
	}

	for _, detail := range snap.Details {
		retract.Add(detail.Link)
		for _, s := range detail.Statements {
			retract.Add(s)
		}
	}

	today.Precision = dates.Year
	for _, members := range snap.Collections {
		for _, m := range members {
			if m.IntervalID == "" || m.HasEnd {
				continue
			}
			endID := u.builder.dates.EnsureDate(today, u.builder.mint, add)
			add.Add(triples.Resource(m.IntervalID, vocab.VivoEnd, endID))
		}
	}

	if u.table.HarvestAgent != "" && (!add.Empty() || !retract.Empty()) {
		Reconcile(snap.DateHarvested, u.builder.now().Format(time.RFC3339)).
			Apply(snap.ID, vocab.LocalDateHarvested, false, add, retract)
	}
}
