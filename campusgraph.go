// Package campusgraph reconciles institutional systems of record with
// a knowledge graph store. Each run compares one source feed against
// the graph, classifies every natural key as create, retire, or
// reconcile, and emits whole-run addition and retraction batches so
// the graph converges on the source's view without losing history.
package campusgraph

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/logging"
	"github.com/campusgraph/campusgraph/pkg/minter"
	"github.com/campusgraph/campusgraph/pkg/reconcile"
	"github.com/campusgraph/campusgraph/pkg/report"
	"github.com/campusgraph/campusgraph/pkg/source"
)

// Engine runs reconciliations against a graph store.
type Engine interface {
	// Run reconciles one feed against the graph per the table and
	// returns the run report. The run is whole-batch: either every
	// change is published or none is.
	Run(ctx context.Context, table *reconcile.Table, feed source.Feed) (*report.Report, error)
}

// engine is the internal implementation of the Engine interface.
type engine struct {
	config *config
}

// New creates an Engine with the given options. A store is required.
func New(opts ...Option) (Engine, error) {
	e := &engine{config: defaultConfig()}
	for _, opt := range opts {
		if err := opt(e.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if e.config.store == nil {
		return nil, fmt.Errorf("a graph store is required")
	}
	return e, nil
}

// config holds engine construction state.
type config struct {
	store        graph.ReadWriter
	mint         minter.Minter
	logger       *zerolog.Logger
	dictionaries map[string]DictionarySpec
	dryRun       bool
	transcript   *transcript
}

func defaultConfig() *config {
	return &config{
		mint:         minter.New(),
		logger:       logging.Default(),
		dictionaries: make(map[string]DictionarySpec),
	}
}

// DictionarySpec tells the engine how to build a named lookup
// dictionary: which entity type to enumerate and which predicate
// carries the natural key.
type DictionarySpec struct {
	TypeIRI      string
	KeyPredicate string
}
