package graph

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/campusgraph/campusgraph/pkg/errors"
	"github.com/campusgraph/campusgraph/pkg/logging"
)

// Dictionary maps natural keys to entity identifiers for one entity
// type. It is built once per run, read during classification, and
// appended to as new entities are created so later cross-references in
// the same run resolve to just-created entities. Appends must happen on
// the single processing goroutine; the dictionary is not safe for
// concurrent writers.
type Dictionary struct {
	Name    string
	entries map[string]string
}

// NewDictionary creates an empty dictionary.
func NewDictionary(name string) *Dictionary {
	return &Dictionary{Name: name, entries: make(map[string]string)}
}

// Resolve returns the identifier for a key. Absence is an ordinary data
// case, not an error.
func (d *Dictionary) Resolve(key string) (string, bool) {
	id, ok := d.entries[key]
	return id, ok
}

// Put records a key to identifier mapping, overwriting any earlier
// entry for the key.
func (d *Dictionary) Put(key, id string) {
	d.entries[key] = id
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Keys returns every key in sorted order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DictionaryBuilder builds lookup dictionaries from the graph store.
type DictionaryBuilder struct {
	store  Store
	logger *zerolog.Logger
}

// BuilderOption configures a DictionaryBuilder.
type BuilderOption func(*DictionaryBuilder)

// WithLogger sets the logger used for dictionary diagnostics.
func WithLogger(logger *zerolog.Logger) BuilderOption {
	return func(b *DictionaryBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewDictionaryBuilder creates a builder over the given store.
func NewDictionaryBuilder(store Store, opts ...BuilderOption) *DictionaryBuilder {
	b := &DictionaryBuilder{store: store, logger: logging.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build queries the store for every entity of typeIRI carrying
// keyPredicate and returns the key to identifier mapping. Duplicate
// keys in the store resolve last-write-wins; each collision is logged
// rather than silently folded. A store failure propagates so callers
// can distinguish an empty store from a failed query.
func (b *DictionaryBuilder) Build(ctx context.Context, name, typeIRI, keyPredicate string) (*Dictionary, error) {
	bindings, err := b.store.EntitiesWithProperty(ctx, typeIRI, keyPredicate)
	if err != nil {
		return nil, errors.WrapQuery(name, err)
	}

	dict := NewDictionary(name)
	for _, binding := range bindings {
		key := binding["value"]
		uri := binding["uri"]
		if key == "" || uri == "" {
			continue
		}
		if prev, ok := dict.Resolve(key); ok && prev != uri {
			b.logger.Warn().
				Str("dictionary", name).
				Str("key", key).
				Str("kept", uri).
				Str("replaced", prev).
				Msg("Duplicate natural key in store, last one wins")
		}
		dict.Put(key, uri)
	}

	b.logger.Info().
		Str("dictionary", name).
		Int("entries", dict.Len()).
		Msg("Dictionary built")
	return dict, nil
}
