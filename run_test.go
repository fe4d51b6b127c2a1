package campusgraph_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgraph/campusgraph"
	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/reconcile"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// memStore is an in-memory graph store. Published additions and
// retractions mutate the statement set so a second run sees the first
// run's outcome.
type memStore struct {
	stmts     []triples.Statement
	published []*triples.Batch
}

func (s *memStore) EntitiesWithProperty(_ context.Context, typeIRI, keyPredicate string) ([]graph.Binding, error) {
	typed := make(map[string]bool)
	for _, st := range s.stmts {
		if st.Predicate == vocab.RDFType && st.Object == typeIRI {
			typed[st.Subject] = true
		}
	}
	var out []graph.Binding
	for _, st := range s.stmts {
		if st.Predicate == keyPredicate && typed[st.Subject] {
			out = append(out, graph.Binding{"uri": st.Subject, "value": st.Object})
		}
	}
	return out, nil
}

func (s *memStore) TriplesFor(_ context.Context, entity string) ([]triples.Statement, error) {
	var out []triples.Statement
	for _, st := range s.stmts {
		if st.Subject == entity {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *memStore) Publish(_ context.Context, batch *triples.Batch) error {
	s.published = append(s.published, batch)
	if batch.Kind == triples.Retraction {
		kept := s.stmts[:0]
		drop := make(map[triples.Statement]bool, batch.Len())
		for _, st := range batch.Statements {
			drop[st] = true
		}
		for _, st := range s.stmts {
			if !drop[st] {
				kept = append(kept, st)
			}
		}
		s.stmts = kept
		return nil
	}
	s.stmts = append(s.stmts, batch.Statements...)
	return nil
}

type seqMinter struct{ n int }

func (m *seqMinter) NewID() string {
	m.n++
	return fmt.Sprintf("http://x/n%03d", m.n)
}

func widgetTable() *reconcile.Table {
	return &reconcile.Table{
		Name:          "widgets",
		Types:         []string{"http://x/Widget"},
		CurrentMarker: "http://x/Current",
		Key:           reconcile.Property{Field: "id", Predicate: "http://x/id"},
		Properties: []reconcile.Property{
			{Field: "label", Predicate: vocab.RDFSLabel},
		},
		Retire: reconcile.RetireClose,
	}
}

func widget(id, key, label string, current bool) []triples.Statement {
	stmts := []triples.Statement{
		triples.Resource(id, vocab.RDFType, vocab.OWLThing),
		triples.Resource(id, vocab.RDFType, "http://x/Widget"),
		triples.Data(id, "http://x/id", key),
		triples.Data(id, vocab.RDFSLabel, label),
	}
	if current {
		stmts = append(stmts, triples.Resource(id, vocab.RDFType, "http://x/Current"))
	}
	return stmts
}

func newEngine(t *testing.T, store graph.ReadWriter, opts ...campusgraph.Option) campusgraph.Engine {
	t.Helper()
	logger := zerolog.Nop()
	opts = append([]campusgraph.Option{
		campusgraph.WithStore(store),
		campusgraph.WithMinter(&seqMinter{}),
		campusgraph.WithLogger(&logger),
	}, opts...)
	eng, err := campusgraph.New(opts...)
	require.NoError(t, err)
	return eng
}

func TestRunRoutesAllThreeCases(t *testing.T) {
	store := &memStore{}
	store.stmts = append(store.stmts, widget("http://x/w2", "P2", "Widget Two", true)...)
	store.stmts = append(store.stmts, widget("http://x/w3", "P3", "Old Label", true)...)

	p1 := source.NewRecord("P1")
	p1.Set("label", "Widget One")
	p3 := source.NewRecord("P3")
	p3.Set("label", "New Label")

	eng := newEngine(t, store)
	rep, err := eng.Run(context.Background(), widgetTable(), source.SliceFeed{p1, p3})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Summary.Created)
	assert.Equal(t, 1, rep.Summary.Retired)
	assert.Equal(t, 1, rep.Summary.Reconciled)
	assert.Equal(t, 0, rep.Summary.Skipped)
	assert.Empty(t, rep.Exceptions)

	// P2 lost its currency but kept its identity.
	p2, err := store.TriplesFor(context.Background(), "http://x/w2")
	require.NoError(t, err)
	assert.Contains(t, p2, triples.Data("http://x/w2", "http://x/id", "P2"))
	assert.NotContains(t, p2, triples.Resource("http://x/w2", vocab.RDFType, "http://x/Current"))

	// P3 carries exactly the new label.
	p3Stmts, err := store.TriplesFor(context.Background(), "http://x/w3")
	require.NoError(t, err)
	assert.Contains(t, p3Stmts, triples.Data("http://x/w3", vocab.RDFSLabel, "New Label"))
	assert.NotContains(t, p3Stmts, triples.Data("http://x/w3", vocab.RDFSLabel, "Old Label"))

	// P1 exists with key and label.
	bindings, err := store.EntitiesWithProperty(context.Background(), "http://x/Widget", "http://x/id")
	require.NoError(t, err)
	keys := make(map[string]bool)
	for _, b := range bindings {
		keys[b["value"]] = true
	}
	assert.True(t, keys["P1"])
}

func TestRunIsIdempotent(t *testing.T) {
	store := &memStore{}
	store.stmts = append(store.stmts, widget("http://x/w2", "P2", "Widget Two", true)...)
	store.stmts = append(store.stmts, widget("http://x/w3", "P3", "Old Label", true)...)

	feed := func() source.SliceFeed {
		p1 := source.NewRecord("P1")
		p1.Set("label", "Widget One")
		p3 := source.NewRecord("P3")
		p3.Set("label", "New Label")
		return source.SliceFeed{p1, p3}
	}

	eng := newEngine(t, store)
	_, err := eng.Run(context.Background(), widgetTable(), feed())
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), widgetTable(), feed())
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Summary.Created)
	assert.Equal(t, 0, rep.Summary.Additions)
	assert.Equal(t, 0, rep.Summary.Retractions)
}

func TestRunSkipsUnresolvableRequiredReference(t *testing.T) {
	table := widgetTable()
	table.Properties = append(table.Properties,
		reconcile.Property{Field: "color", Predicate: "http://x/color", Resource: true})
	table.References = []reconcile.Reference{
		{Field: "color", SourceField: "color_id", Dictionary: "colors", Required: true},
	}

	rec := source.NewRecord("P1")
	rec.Set("label", "Widget One")
	rec.Set("color_id", "C9")

	store := &memStore{}
	eng := newEngine(t, store, campusgraph.WithDictionary("colors", campusgraph.DictionarySpec{
		TypeIRI:      "http://x/Color",
		KeyPredicate: "http://x/colorID",
	}))

	rep, err := eng.Run(context.Background(), table, source.SliceFeed{rec})
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Summary.Created)
	assert.Equal(t, 1, rep.Summary.Skipped)
	require.Len(t, rep.Exceptions, 1)
	assert.Equal(t, "P1", rep.Exceptions[0].Key)
	assert.True(t, rep.Exceptions[0].Retryable)
	assert.Empty(t, store.published, "nothing may be published for a skipped record")
}

func TestRunFailsOnUnregisteredDictionary(t *testing.T) {
	table := widgetTable()
	table.References = []reconcile.Reference{
		{Field: "color", Dictionary: "colors", Required: true},
	}

	eng := newEngine(t, &memStore{})
	_, err := eng.Run(context.Background(), table, source.SliceFeed{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colors")
}

func TestRunExcludedKeyIsNeverTouched(t *testing.T) {
	store := &memStore{}
	store.stmts = append(store.stmts, widget("http://x/w2", "P2", "Widget Two", true)...)

	table := widgetTable()
	table.Exclude = func(key string) bool { return key == "P2" }

	eng := newEngine(t, store)
	rep, err := eng.Run(context.Background(), table, source.SliceFeed{})
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Summary.Retired)
	assert.Equal(t, 1, rep.Summary.Skipped)
	p2, _ := store.TriplesFor(context.Background(), "http://x/w2")
	assert.Contains(t, p2, triples.Resource("http://x/w2", vocab.RDFType, "http://x/Current"))
}

func TestRunDryRunPublishesNothing(t *testing.T) {
	store := &memStore{}
	p1 := source.NewRecord("P1")
	p1.Set("label", "Widget One")

	eng := newEngine(t, store, campusgraph.WithDryRun(true))
	rep, err := eng.Run(context.Background(), widgetTable(), source.SliceFeed{p1})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Summary.Created)
	assert.Greater(t, rep.Summary.Additions, 0)
	assert.Empty(t, store.published)
}

func TestNewRequiresStore(t *testing.T) {
	_, err := campusgraph.New()
	require.Error(t, err)
}
