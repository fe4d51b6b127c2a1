package triples

import (
	"sort"
	"strings"
)

// Kind labels a batch as additions or retractions.
type Kind string

// Batch kinds.
const (
	Addition   Kind = "addition"
	Retraction Kind = "retraction"
)

// Batch is an ordered set of statements destined for the graph store.
type Batch struct {
	Kind       Kind
	Statements []Statement
}

// NewBatch creates an empty batch of the given kind.
func NewBatch(kind Kind) *Batch {
	return &Batch{Kind: kind, Statements: []Statement{}}
}

// Add appends statements to the batch.
func (b *Batch) Add(stmts ...Statement) {
	b.Statements = append(b.Statements, stmts...)
}

// Merge appends every statement of another batch.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	b.Statements = append(b.Statements, other.Statements...)
}

// Len returns the number of statements in the batch.
func (b *Batch) Len() int {
	return len(b.Statements)
}

// Empty reports whether the batch carries no statements.
func (b *Batch) Empty() bool {
	return len(b.Statements) == 0
}

// Sort orders statements by subject, then predicate, then object, so
// batch output is reproducible across runs on identical input.
func (b *Batch) Sort() {
	sort.SliceStable(b.Statements, func(i, j int) bool {
		a, c := b.Statements[i], b.Statements[j]
		if a.Subject != c.Subject {
			return a.Subject < c.Subject
		}
		if a.Predicate != c.Predicate {
			return a.Predicate < c.Predicate
		}
		return a.Object < c.Object
	})
}

// NTriples renders the whole batch in N-Triples form, one statement per
// line. The external store owns richer serialization formats.
func (b *Batch) NTriples() string {
	var sb strings.Builder
	for _, s := range b.Statements {
		sb.WriteString(s.NTriple())
		sb.WriteString("\n")
	}
	return sb.String()
}
