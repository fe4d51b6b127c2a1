package campusgraph

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/minter"
)

// Option is a function that configures an Engine.
type Option func(*config) error

// WithStore sets the graph store the engine reconciles against.
func WithStore(store graph.ReadWriter) Option {
	return func(c *config) error {
		c.store = store
		return nil
	}
}

// WithMinter sets the identifier minter for new entities. Tests use a
// sequential minter so emitted statements are predictable.
func WithMinter(m minter.Minter) Option {
	return func(c *config) error {
		if m != nil {
			c.mint = m
		}
		return nil
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithDictionary registers a named lookup dictionary the run builds
// from the graph before processing. Tables reference dictionaries by
// name to resolve cross-references.
func WithDictionary(name string, spec DictionarySpec) Option {
	return func(c *config) error {
		c.dictionaries[name] = spec
		return nil
	}
}

// WithDryRun computes the run without publishing to the store. Used
// with WithTranscript to inspect what a run would change.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithTranscript writes the run's addition and retraction batches as
// N-Triples to the given writers. Either writer may be nil.
func WithTranscript(additions, retractions io.Writer) Option {
	return func(c *config) error {
		c.transcript = &transcript{additions: additions, retractions: retractions}
		return nil
	}
}

// transcript holds the optional N-Triples output destinations.
type transcript struct {
	additions   io.Writer
	retractions io.Writer
}
