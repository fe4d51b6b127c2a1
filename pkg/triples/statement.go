// Package triples provides the statement batch model the reconciliation
// engine emits: ordered subject-predicate-object assertions tagged as
// additions or retractions, destined for an external graph store.
package triples

import (
	"fmt"
	"strings"
)

// Statement is a single subject-predicate-object assertion. Object is a
// full IRI unless Literal is set, in which case it is an untyped string
// literal.
type Statement struct {
	Subject   string
	Predicate string
	Object    string
	Literal   bool
}

// Resource creates a statement whose object is an entity reference.
func Resource(subject, predicate, object string) Statement {
	return Statement{Subject: subject, Predicate: predicate, Object: object}
}

// Data creates a statement whose object is a literal value.
func Data(subject, predicate, value string) Statement {
	return Statement{Subject: subject, Predicate: predicate, Object: value, Literal: true}
}

// Equal reports whether two statements are identical.
func (s Statement) Equal(o Statement) bool {
	return s == o
}

// NTriple renders the statement as one N-Triples line.
func (s Statement) NTriple() string {
	if s.Literal {
		return fmt.Sprintf("<%s> <%s> %q .", s.Subject, s.Predicate, escapeLiteral(s.Object))
	}
	return fmt.Sprintf("<%s> <%s> <%s> .", s.Subject, s.Predicate, s.Object)
}

// String implements fmt.Stringer.
func (s Statement) String() string {
	return s.NTriple()
}

// escapeLiteral escapes characters that N-Triples literals may not
// carry raw. %q handles quotes and backslashes; newlines and tabs are
// normalized here first.
func escapeLiteral(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	v = strings.ReplaceAll(v, "\r", "\n")
	return v
}
