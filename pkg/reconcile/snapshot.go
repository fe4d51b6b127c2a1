package reconcile

import (
	"context"
	"sort"
	"strings"

	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// SubEntity is a collection member as it stands in the graph: its
// defining tuple, its full statement set, and the parent link that
// owns it. Retraction of a member removes Link plus Statements.
type SubEntity struct {
	ID         string
	Tuple      []string
	Link       triples.Statement
	Statements []triples.Statement
	IntervalID string
	HasEnd     bool
}

// TupleKey joins the defining tuple into a comparable key.
func (s SubEntity) TupleKey() string {
	return strings.Join(s.Tuple, "|")
}

// ContactDetail is one single-valued contact entry as it stands in the
// graph, with the card link that owns it.
type ContactDetail struct {
	ID         string
	Value      string
	Link       triples.Statement
	Statements []triples.Statement
}

// Snapshot is the graph's current view of one entity, shaped by its
// table: only declared properties, contact entries, and collections are
// loaded. Reconciliation compares a snapshot against a source record.
type Snapshot struct {
	ID          string
	Values      map[string]string // property field -> current object
	HasMarker   bool
	CardID      string
	NameID      string
	NameValues  map[string]string // contact name field -> current object
	Details     map[string]ContactDetail
	Collections map[string][]SubEntity

	HarvestedBy   string
	DateHarvested string
}

// Load reads the entity's current statements and assembles a snapshot
// shaped by the table. Missing pieces (no card, no members) are normal:
// the corresponding maps simply stay sparse.
func Load(ctx context.Context, store graph.Store, table *Table, id string) (*Snapshot, error) {
	stmts, err := store.TriplesFor(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:         id,
		Values:     make(map[string]string),
		NameValues: make(map[string]string),
		Details:    make(map[string]ContactDetail),
	}

	byField := make(map[string]string, len(table.Properties))
	for _, p := range table.Properties {
		byField[p.Predicate] = p.Field
	}

	collections := make(map[string][]SubEntity)
	for _, s := range stmts {
		if f, ok := byField[s.Predicate]; ok {
			snap.Values[f] = s.Object
		}
		if s.Predicate == vocab.RDFType && table.CurrentMarker != "" && s.Object == table.CurrentMarker {
			snap.HasMarker = true
		}
		if table.Contact != nil && s.Predicate == vocab.HasContactInfo {
			snap.CardID = s.Object
		}
		if table.HarvestAgent != "" {
			switch s.Predicate {
			case vocab.LocalHarvestedBy:
				snap.HarvestedBy = s.Object
			case vocab.LocalDateHarvested:
				snap.DateHarvested = s.Object
			}
		}
	}

	if table.Contact != nil && snap.CardID != "" {
		if err := loadContact(ctx, store, table.Contact, snap); err != nil {
			return nil, err
		}
	}

	for _, c := range table.Collections {
		members, err := loadCollection(ctx, store, c, id, stmts)
		if err != nil {
			return nil, err
		}
		if len(members) > 0 {
			collections[c.Name] = members
		}
	}
	snap.Collections = collections
	return snap, nil
}

func loadContact(ctx context.Context, store graph.Store, spec *ContactSpec, snap *Snapshot) error {
	cardStmts, err := store.TriplesFor(ctx, snap.CardID)
	if err != nil {
		return err
	}

	nameByField := make(map[string]string, len(spec.Name))
	for _, p := range spec.Name {
		nameByField[p.Predicate] = p.Field
	}

	for _, s := range cardStmts {
		if s.Predicate == vocab.VCardHasName {
			snap.NameID = s.Object
		}
	}
	if snap.NameID != "" {
		nameStmts, err := store.TriplesFor(ctx, snap.NameID)
		if err != nil {
			return err
		}
		for _, s := range nameStmts {
			if f, ok := nameByField[s.Predicate]; ok {
				snap.NameValues[f] = s.Object
			}
		}
	}

	// Several entries can share a link predicate (telephone and fax
	// both hang off hasTelephone); the entry's type disambiguates.
	for _, entry := range spec.Entries {
		for _, s := range cardStmts {
			if s.Predicate != entry.HasPredicate {
				continue
			}
			entryStmts, err := store.TriplesFor(ctx, s.Object)
			if err != nil {
				return err
			}
			if !hasType(entryStmts, entry.TypeIRI) {
				continue
			}
			detail := ContactDetail{ID: s.Object, Link: s, Statements: entryStmts}
			for _, es := range entryStmts {
				if es.Predicate == entry.ValuePredicate {
					detail.Value = es.Object
				}
			}
			snap.Details[entry.Field] = detail
			break
		}
	}
	return nil
}

func loadCollection(ctx context.Context, store graph.Store, c Collection, parentID string, parentStmts []triples.Statement) ([]SubEntity, error) {
	var members []SubEntity
	for _, s := range parentStmts {
		if s.Predicate != c.LinkPredicate {
			continue
		}
		subStmts, err := store.TriplesFor(ctx, s.Object)
		if err != nil {
			return nil, err
		}
		m := SubEntity{ID: s.Object, Link: s, Statements: subStmts}
		for _, tp := range c.Tuple {
			m.Tuple = append(m.Tuple, objectOf(subStmts, tp.Predicate))
		}
		if ivID := objectOf(subStmts, vocab.VivoDateTimeInterval); ivID != "" {
			m.IntervalID = ivID
			ivStmts, err := store.TriplesFor(ctx, ivID)
			if err != nil {
				return nil, err
			}
			m.HasEnd = objectOf(ivStmts, vocab.VivoEnd) != ""
		}
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].TupleKey() < members[j].TupleKey() })
	return members, nil
}

func hasType(stmts []triples.Statement, typeIRI string) bool {
	for _, s := range stmts {
		if s.Predicate == vocab.RDFType && s.Object == typeIRI {
			return true
		}
	}
	return false
}

func objectOf(stmts []triples.Statement, predicate string) string {
	for _, s := range stmts {
		if s.Predicate == predicate {
			return s.Object
		}
	}
	return ""
}
