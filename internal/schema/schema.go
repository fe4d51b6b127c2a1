// Package schema holds the table descriptors for each system of
// record the engine reconciles: the HR person feed, the sponsored
// research grant feed, and the registrar course feed. The descriptors
// are data; all reconciliation behavior lives in pkg/reconcile.
package schema

import (
	"github.com/campusgraph/campusgraph"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// Dictionaries returns every lookup dictionary the ingests reference,
// keyed by the name the table descriptors use.
func Dictionaries() map[string]campusgraph.DictionarySpec {
	return map[string]campusgraph.DictionarySpec{
		"orgs":     {TypeIRI: vocab.FOAFOrganization, KeyPredicate: vocab.LocalDeptID},
		"sponsors": {TypeIRI: vocab.FOAFOrganization, KeyPredicate: vocab.LocalSponsorID},
		"people":   {TypeIRI: vocab.FOAFPerson, KeyPredicate: vocab.LocalUFID},
		"courses":  {TypeIRI: vocab.LocalCourse, KeyPredicate: vocab.LocalCourseNum},
		"terms":    {TypeIRI: vocab.VivoAcademicTerm, KeyPredicate: vocab.RDFSLabel},
	}
}

// EngineOptions returns the dictionary options for an engine that runs
// the ingests in this package.
func EngineOptions() []campusgraph.Option {
	opts := make([]campusgraph.Option, 0, 5)
	for name, spec := range Dictionaries() {
		opts = append(opts, campusgraph.WithDictionary(name, spec))
	}
	return opts
}
