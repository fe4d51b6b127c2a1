package reconcile

import (
	"fmt"

	"github.com/campusgraph/campusgraph/pkg/errors"
)

// State tracks one natural key through a run:
//
//	Unclassified → Classified → Emitted → Committed
//	                         ↘ Skipped
//
// Committed and Skipped are terminal. A key must never reach Emitted
// without passing validation; the engine only moves a key to Emitted
// after its record prepared cleanly.
type State int

// The per-key states.
const (
	StateUnclassified State = iota
	StateClassified
	StateEmitted
	StateCommitted
	StateSkipped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClassified:
		return "classified"
	case StateEmitted:
		return "emitted"
	case StateCommitted:
		return "committed"
	case StateSkipped:
		return "skipped"
	default:
		return "unclassified"
	}
}

// Terminal reports whether the state ends processing for the key.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateSkipped
}

// transitions enumerates the legal moves.
var transitions = map[State][]State{
	StateUnclassified: {StateClassified},
	StateClassified:   {StateEmitted, StateSkipped},
	StateEmitted:      {StateCommitted, StateSkipped},
}

// Transition validates and applies a state change, returning the new
// state. Illegal moves are internal invariant violations.
func Transition(from, to State) (State, error) {
	for _, next := range transitions[from] {
		if next == to {
			return to, nil
		}
	}
	return from, fmt.Errorf("%w: state %s cannot move to %s",
		errors.ErrInvariantViolated, from, to)
}
