// Package minter issues globally unique identifiers for newly created
// graph entities. Identifiers are IRIs under a configurable namespace
// with a random UUID local part, so an identifier is never reused
// within or across process lifetimes.
package minter

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultNamespace is the IRI prefix minted identifiers live under when
// no namespace is configured.
const DefaultNamespace = "http://campusgraph.org/individual/"

// Minter allocates entity identifiers.
type Minter interface {
	// NewID returns a fresh identifier IRI, never previously issued.
	NewID() string
}

// minter is the default UUID-backed implementation.
type minter struct {
	namespace string
}

// Option configures a Minter.
type Option func(*minter)

// WithNamespace sets the IRI prefix for minted identifiers.
func WithNamespace(ns string) Option {
	return func(m *minter) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// New creates a Minter with options.
func New(opts ...Option) Minter {
	m := &minter{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(m)
	}
	if !strings.HasSuffix(m.namespace, "/") && !strings.HasSuffix(m.namespace, "#") {
		m.namespace += "/"
	}
	return m
}

// NewID returns a fresh identifier IRI.
func (m *minter) NewID() string {
	return m.namespace + "n" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
