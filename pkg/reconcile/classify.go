package reconcile

import (
	"fmt"
	"sort"

	"github.com/campusgraph/campusgraph/pkg/errors"
)

// Case classifies one natural key for a run. The underlying value is
// the presence bitmap: bit 1 for source, bit 2 for graph.
type Case int

// The three reconciliation cases.
const (
	CaseCreateOnly Case = 1 // in source only: build a new entity
	CaseRetireOnly Case = 2 // in graph only: apply the retirement policy
	CaseReconcile  Case = 3 // in both: field-by-field update
)

// String returns the case name.
func (c Case) String() string {
	switch c {
	case CaseCreateOnly:
		return "create-only"
	case CaseRetireOnly:
		return "retire-only"
	case CaseReconcile:
		return "reconcile"
	default:
		return "unclassified"
	}
}

// Classify partitions the union of source and graph keys into the three
// reconciliation cases. The result is deterministic: cases depend only
// on membership, never on iteration order.
func Classify(sourceKeys, graphKeys []string) map[string]Case {
	cases := make(map[string]Case, len(sourceKeys)+len(graphKeys))
	for _, k := range sourceKeys {
		cases[k] |= CaseCreateOnly
	}
	for _, k := range graphKeys {
		cases[k] |= CaseRetireOnly
	}
	return cases
}

// SortedKeys returns the classified keys in stable sorted order, so
// logs and output diffs are reproducible across runs.
func SortedKeys(cases map[string]Case) []string {
	keys := make([]string, 0, len(cases))
	for k := range cases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Check verifies the classifier invariant for a key: every key present
// in either population carries exactly one of the three cases. A key
// outside that range means the key was found in neither source nor
// graph after classification, which should be unreachable, and is
// raised as an invariant violation rather than silently ignored.
func Check(key string, c Case) error {
	if c < CaseCreateOnly || c > CaseReconcile {
		return fmt.Errorf("%w: key %q classified as %d", errors.ErrInvariantViolated, key, int(c))
	}
	return nil
}
