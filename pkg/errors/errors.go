// Package errors provides the error taxonomy for the campusgraph system.
// Reconciliation distinguishes errors that skip a single record from
// errors that abort the whole run, and these types enable callers to
// make that distinction programmatically.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
// It's an alias for the standard library errors.Is.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
// It's an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the campusgraph system
var (
	// ErrStoreUnavailable indicates the graph store could not be reached.
	// Fatal: a run must not commit partial output after this error.
	ErrStoreUnavailable = errors.New("graph store unavailable")

	// ErrUnresolvedReference indicates a required cross-reference has no
	// entry in its lookup dictionary. Recovered per record.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrInvalidValue indicates a source field failed type or range
	// validation. Recovered per record.
	ErrInvalidValue = errors.New("invalid field value")

	// ErrInvariantViolated indicates an internal invariant was broken,
	// such as a classified key found in neither source nor graph.
	ErrInvariantViolated = errors.New("internal invariant violated")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// StoreError represents a failure talking to the graph store.
type StoreError struct {
	Operation string // "query", "publish"
	Endpoint  string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("store %s against %s failed: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, endpoint string, err error) *StoreError {
	return &StoreError{Operation: operation, Endpoint: endpoint, Err: err}
}

// UnresolvedReferenceError records a cross-reference that could not be
// resolved against its lookup dictionary. The record carrying it is
// skipped, not the run.
type UnresolvedReferenceError struct {
	Key        string // natural key of the record being processed
	Field      string // source field holding the reference
	Value      string // the unresolvable value
	Dictionary string // which dictionary was consulted
}

// Error implements the error interface
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %q not found in %s", e.Key, e.Field, e.Value, e.Dictionary)
}

// Is implements errors.Is support
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// InvalidValueError records a source field that failed validation.
type InvalidValueError struct {
	Key     string // natural key of the record being processed
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s %q %s", e.Key, e.Field, e.Value, e.Message)
}

// Is implements errors.Is support
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// RecordErrors collects every validation failure for one record so the
// exception report shows the complete picture, not just the first error.
type RecordErrors struct {
	Key    string
	Errors []error
}

// Error implements the error interface
func (e *RecordErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("record %s: %s", e.Key, strings.Join(msgs, "; "))
}

// Append adds an error to the collection. Nil errors are ignored.
func (e *RecordErrors) Append(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if any validation failure was collected.
func (e *RecordErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Unwrap returns the collected errors for errors.Is traversal.
func (e *RecordErrors) Unwrap() []error {
	return e.Errors
}

// Fatal reports whether err must abort the run rather than skip a record.
func Fatal(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrInvariantViolated)
}

// WrapQuery wraps a store query failure as a StoreError.
func WrapQuery(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError("query", endpoint, err)
}

// WrapPublish wraps a statement emission failure as a StoreError.
func WrapPublish(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError("publish", endpoint, err)
}
