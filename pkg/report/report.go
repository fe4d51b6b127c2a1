// Package report collects what a run did: per-case counts, statement
// totals, and the exception list of records the run refused to touch.
// A record with problems lands here instead of half-applied in the
// graph.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/goccy/go-yaml"
)

// Exception records one skipped record or field with the reason and
// whether fixing the source data would let a later run succeed.
type Exception struct {
	Key       string `yaml:"key"`
	Field     string `yaml:"field,omitempty"`
	Value     string `yaml:"value,omitempty"`
	Reason    string `yaml:"reason"`
	Retryable bool   `yaml:"retryable"`
}

// Summary is the per-run tally. Created, Retired, and Reconciled count
// keys routed to each case; Skipped counts records set aside with
// exceptions.
type Summary struct {
	Source      string    `yaml:"source"`
	Started     time.Time `yaml:"started"`
	Finished    time.Time `yaml:"finished"`
	Records     int       `yaml:"records"`
	Created     int       `yaml:"created"`
	Retired     int       `yaml:"retired"`
	Reconciled  int       `yaml:"reconciled"`
	Skipped     int       `yaml:"skipped"`
	Additions   int       `yaml:"additions"`
	Retractions int       `yaml:"retractions"`
}

// Report is the full run outcome.
type Report struct {
	Summary    Summary     `yaml:"summary"`
	Exceptions []Exception `yaml:"exceptions,omitempty"`
}

// Sink accumulates exceptions during a run. It is appended to from the
// single processing goroutine only.
type Sink struct {
	exceptions []Exception
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add records an exception.
func (s *Sink) Add(e Exception) {
	s.exceptions = append(s.exceptions, e)
}

// Addf records a non-retryable exception with a formatted reason.
func (s *Sink) Addf(key, field, format string, args ...any) {
	s.Add(Exception{Key: key, Field: field, Reason: fmt.Sprintf(format, args...)})
}

// Len returns the number of collected exceptions.
func (s *Sink) Len() int {
	return len(s.exceptions)
}

// Exceptions returns the collected exceptions sorted by key then field,
// so reports are stable across runs over the same data.
func (s *Sink) Exceptions() []Exception {
	out := make([]Exception, len(s.exceptions))
	copy(out, s.exceptions)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Write renders the report as YAML.
func (r *Report) Write(w io.Writer) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
