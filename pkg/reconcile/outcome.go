// Package reconcile implements the reconciliation engine core: the
// five-way field outcome table, the three-case record classifier, and
// the entity builder and updater that turn classified records into
// addition and retraction statement batches.
//
// Every ingest (people, grants, courses) drives the same engine with a
// declarative per-entity-type Table; nothing in this package knows
// which entity type it is reconciling.
package reconcile

import (
	"github.com/campusgraph/campusgraph/pkg/triples"
)

// Op is the kind of a field reconciliation outcome.
type Op int

// The four outcome operations.
const (
	OpNoOp Op = iota
	OpAdd
	OpRetract
	OpReplace
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpRetract:
		return "retract"
	case OpReplace:
		return "replace"
	default:
		return "noop"
	}
}

// Outcome is the result of reconciling one property. For OpAdd only New
// is set, for OpRetract only Old, for OpReplace both.
type Outcome struct {
	Op  Op
	Old string
	New string
}

// Reconcile compares an existing value and a source value for a single
// property and decides what to do. Empty string and absent are both
// treated as null before comparison. The function is property-agnostic:
// reference-valued properties are reconciled identically, with the
// caller responsible for resolving references to identifiers first.
//
// The full table, with n = null and x ≠ y:
//
//	(n, n) → NoOp        (n, x) → Add(x)
//	(x, n) → Retract(x)  (x, x) → NoOp
//	(x, y) → Replace(x, y)
func Reconcile(existing, source string) Outcome {
	switch {
	case existing == "" && source == "":
		return Outcome{Op: OpNoOp}
	case existing == "":
		return Outcome{Op: OpAdd, New: source}
	case source == "":
		return Outcome{Op: OpRetract, Old: existing}
	case existing == source:
		return Outcome{Op: OpNoOp}
	default:
		return Outcome{Op: OpReplace, Old: existing, New: source}
	}
}

// Apply converts the outcome into statements for the given subject and
// predicate, appending to the addition and retraction batches. Replace
// is emitted as retract-old plus add-new.
func (o Outcome) Apply(subject, predicate string, resource bool, add, retract *triples.Batch) {
	stmt := func(value string) triples.Statement {
		if resource {
			return triples.Resource(subject, predicate, value)
		}
		return triples.Data(subject, predicate, value)
	}

	switch o.Op {
	case OpAdd:
		add.Add(stmt(o.New))
	case OpRetract:
		retract.Add(stmt(o.Old))
	case OpReplace:
		retract.Add(stmt(o.Old))
		add.Add(stmt(o.New))
	}
}
