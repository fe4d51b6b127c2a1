// Package graph defines the engine's contract with the external graph
// store and the lookup dictionaries built from it. The engine depends
// on exactly two query shapes ("all entities of type T carrying
// property P" and "all triples for entity E") plus whole-batch
// statement emission; everything else about the store is its own
// concern.
package graph

import (
	"context"

	"github.com/campusgraph/campusgraph/pkg/triples"
)

// Binding is one query result row: variable name to value.
type Binding map[string]string

// Store is the query interface consumed by the engine.
type Store interface {
	// EntitiesWithProperty returns one binding per entity of the given
	// type that carries the given property, with variables "uri" and
	// "value".
	EntitiesWithProperty(ctx context.Context, typeIRI, keyPredicate string) ([]Binding, error)

	// TriplesFor returns every statement whose subject is the given
	// entity.
	TriplesFor(ctx context.Context, entity string) ([]triples.Statement, error)
}

// Publisher is the statement emission interface consumed by the engine.
// Batches are whole-run: a publisher must not be handed per-record
// fragments.
type Publisher interface {
	Publish(ctx context.Context, batch *triples.Batch) error
}

// ReadWriter combines both halves of the store contract.
type ReadWriter interface {
	Store
	Publisher
}
