package campusgraph

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/errors"
	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/logging"
	"github.com/campusgraph/campusgraph/pkg/reconcile"
	"github.com/campusgraph/campusgraph/pkg/report"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
)

// Run reconciles one feed against the graph. Keys are processed in
// sorted order so two runs over the same data emit identical batches,
// and nothing is published until every key has been routed: a run
// either applies all of its changes or none of them.
func (e *engine) Run(ctx context.Context, table *reconcile.Table, feed source.Feed) (*report.Report, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	logger := e.config.logger.With().
		Str("run", runID[:8]).
		Str("source", table.Name).
		Logger()
	ctx = logging.WithLogger(logging.WithRunID(ctx, runID), &logger)

	records, err := feed.Records()
	if err != nil {
		return nil, fmt.Errorf("reading %s feed: %w", table.Name, err)
	}
	records = source.Dedupe(records)
	logger.Info().Int("records", len(records)).Msg("Feed loaded")

	db := graph.NewDictionaryBuilder(e.config.store, graph.WithLogger(&logger))
	keyDict, err := db.Build(ctx, table.Name, table.Types[0], table.Key.Predicate)
	if err != nil {
		return nil, err
	}
	refDicts, err := e.referenceDictionaries(ctx, db, table)
	if err != nil {
		return nil, err
	}
	idx, err := reconcile.SeedDateIndex(ctx, e.config.store)
	if err != nil {
		return nil, err
	}

	builder := reconcile.NewBuilder(table, e.config.mint, idx)
	updater := reconcile.NewUpdater(builder)
	sink := report.NewSink()
	add := triples.NewBatch(triples.Addition)
	retract := triples.NewBatch(triples.Retraction)

	byKey := make(map[string]*source.Record, len(records))
	sourceKeys := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Key == "" {
			continue
		}
		byKey[rec.Key] = rec
		sourceKeys = append(sourceKeys, rec.Key)
	}

	cases := reconcile.Classify(sourceKeys, keyDict.Keys())
	states := make(map[string]reconcile.State, len(cases))
	summary := report.Summary{Source: table.Name, Started: started, Records: len(records)}
	today := dates.Date{Time: started, Precision: dates.Year}

	for _, key := range reconcile.SortedKeys(cases) {
		c := cases[key]
		if err := reconcile.Check(key, c); err != nil {
			return nil, err
		}
		st, err := reconcile.Transition(reconcile.StateUnclassified, reconcile.StateClassified)
		if err != nil {
			return nil, err
		}
		states[key] = st

		if table.Exclude != nil && table.Exclude(key) {
			states[key], _ = reconcile.Transition(st, reconcile.StateSkipped)
			summary.Skipped++
			logger.Debug().Str("key", key).Msg("Key excluded")
			continue
		}

		switch c {
		case reconcile.CaseCreateOnly:
			rec := byKey[key]
			if !e.prepare(ctx, table, rec, refDicts, builder, add, sink) {
				states[key], _ = reconcile.Transition(st, reconcile.StateSkipped)
				summary.Skipped++
				continue
			}
			id := builder.Build(rec, add)
			keyDict.Put(key, id)
			summary.Created++

		case reconcile.CaseRetireOnly:
			id, _ := keyDict.Resolve(key)
			snap, err := reconcile.Load(ctx, e.config.store, table, id)
			if err != nil {
				return nil, errors.WrapQuery(table.Name, err)
			}
			updater.Retire(snap, today, add, retract)
			summary.Retired++

		case reconcile.CaseReconcile:
			rec := byKey[key]
			if !e.prepare(ctx, table, rec, refDicts, builder, add, sink) {
				states[key], _ = reconcile.Transition(st, reconcile.StateSkipped)
				summary.Skipped++
				continue
			}
			id, _ := keyDict.Resolve(key)
			snap, err := reconcile.Load(ctx, e.config.store, table, id)
			if err != nil {
				return nil, errors.WrapQuery(table.Name, err)
			}
			updater.Update(snap, rec, add, retract)
			summary.Reconciled++
		}

		if states[key], err = reconcile.Transition(states[key], reconcile.StateEmitted); err != nil {
			return nil, err
		}
	}

	add.Sort()
	retract.Sort()
	if err := e.writeTranscript(add, retract); err != nil {
		return nil, err
	}

	if !e.config.dryRun {
		// Retractions apply first so a Replace never leaves the old
		// value behind on a store that deduplicates statements.
		if !retract.Empty() {
			if err := e.config.store.Publish(ctx, retract); err != nil {
				return nil, err
			}
		}
		if !add.Empty() {
			if err := e.config.store.Publish(ctx, add); err != nil {
				return nil, err
			}
		}
	}

	for key, st := range states {
		if st == reconcile.StateEmitted {
			states[key], _ = reconcile.Transition(st, reconcile.StateCommitted)
		}
	}

	summary.Additions = add.Len()
	summary.Retractions = retract.Len()
	summary.Finished = time.Now().UTC()
	logger.Info().
		Int("created", summary.Created).
		Int("retired", summary.Retired).
		Int("reconciled", summary.Reconciled).
		Int("skipped", summary.Skipped).
		Int("additions", summary.Additions).
		Int("retractions", summary.Retractions).
		Msg("Run complete")

	return &report.Report{Summary: summary, Exceptions: sink.Exceptions()}, nil
}

// referenceDictionaries builds every dictionary the table's references
// name. An unregistered dictionary name is a configuration error, not
// a data error.
func (e *engine) referenceDictionaries(ctx context.Context, db *graph.DictionaryBuilder, table *reconcile.Table) (map[string]*graph.Dictionary, error) {
	refs := make([]reconcile.Reference, 0, len(table.References))
	refs = append(refs, table.References...)
	for _, c := range table.Collections {
		refs = append(refs, c.References...)
	}

	dicts := make(map[string]*graph.Dictionary)
	for _, ref := range refs {
		if _, ok := dicts[ref.Dictionary]; ok {
			continue
		}
		spec, ok := e.config.dictionaries[ref.Dictionary]
		if !ok {
			return nil, fmt.Errorf("no dictionary registered as %q for table %s", ref.Dictionary, table.Name)
		}
		dict, err := db.Build(ctx, ref.Dictionary, spec.TypeIRI, spec.KeyPredicate)
		if err != nil {
			return nil, err
		}
		dicts[ref.Dictionary] = dict
	}
	return dicts, nil
}

// prepare validates a record and resolves its references and interval,
// reporting false when the record must be skipped. Optional references
// that fail to resolve leave their field empty and log an exception;
// required ones skip the record. Nothing is minted for a skipped
// record.
func (e *engine) prepare(ctx context.Context, table *reconcile.Table, rec *source.Record, refDicts map[string]*graph.Dictionary, builder *reconcile.Builder, add *triples.Batch, sink *report.Sink) bool {
	recErrs := &errors.RecordErrors{Key: rec.Key}
	if table.Validate != nil {
		for _, err := range table.Validate(rec) {
			recErrs.Append(err)
		}
	}

	for _, ref := range table.References {
		sourceField := ref.SourceField
		if sourceField == "" {
			sourceField = ref.Field
		}
		raw := rec.Get(sourceField)
		if raw == "" {
			if ref.Required {
				recErrs.Append(&errors.UnresolvedReferenceError{
					Key: rec.Key, Field: sourceField, Value: raw, Dictionary: ref.Dictionary,
				})
			}
			continue
		}
		id, ok := refDicts[ref.Dictionary].Resolve(raw)
		if !ok {
			if ref.Required {
				recErrs.Append(&errors.UnresolvedReferenceError{
					Key: rec.Key, Field: sourceField, Value: raw, Dictionary: ref.Dictionary,
				})
			} else {
				sink.Add(report.Exception{
					Key: rec.Key, Field: sourceField, Value: raw,
					Reason:    fmt.Sprintf("not found in %s, field left empty", ref.Dictionary),
					Retryable: true,
				})
			}
			continue
		}
		rec.Set(ref.Field, id)
	}

	// Member references resolve the same way, except an unresolvable
	// required reference drops the member rather than the record.
	for _, c := range table.Collections {
		if len(c.References) == 0 {
			continue
		}
		kept := make([]source.Member, 0, len(rec.Members[c.Field]))
		for _, m := range rec.Members[c.Field] {
			if e.resolveMember(c, m, rec.Key, refDicts, sink) {
				kept = append(kept, m)
			}
		}
		rec.Members[c.Field] = kept
	}

	// Interval resolution mints date entities, so it only runs once the
	// record is otherwise clean.
	if !recErrs.HasErrors() {
		for _, err := range builder.ResolveInterval(rec, add) {
			recErrs.Append(err)
		}
	}

	if !recErrs.HasErrors() {
		return true
	}
	for _, err := range recErrs.Errors {
		sink.Add(exceptionFrom(rec.Key, err))
	}
	logging.Ctx(ctx).Warn().
		Str("key", rec.Key).
		Int("problems", len(recErrs.Errors)).
		Msg("Record skipped")
	return false
}

// resolveMember resolves one collection member's references in place,
// reporting false when a required reference cannot be resolved.
func (e *engine) resolveMember(c reconcile.Collection, m source.Member, key string, refDicts map[string]*graph.Dictionary, sink *report.Sink) bool {
	for _, ref := range c.References {
		sourceField := ref.SourceField
		if sourceField == "" {
			sourceField = ref.Field
		}
		raw := m.Fields[sourceField]
		if raw == "" {
			if ref.Required {
				sink.Add(report.Exception{
					Key: key, Field: c.Name + "." + sourceField,
					Reason: "required reference missing, member dropped",
				})
				return false
			}
			continue
		}
		id, ok := refDicts[ref.Dictionary].Resolve(raw)
		if !ok {
			if ref.Required {
				sink.Add(report.Exception{
					Key: key, Field: c.Name + "." + sourceField, Value: raw,
					Reason:    fmt.Sprintf("not found in %s, member dropped", ref.Dictionary),
					Retryable: true,
				})
				return false
			}
			continue
		}
		m.Fields[ref.Field] = id
	}
	return true
}

// exceptionFrom shapes a validation error into a report exception.
// Unresolved references are retryable: the referenced entity may exist
// by the next run. Bad values need a source-side fix first.
func exceptionFrom(key string, err error) report.Exception {
	var unresolved *errors.UnresolvedReferenceError
	if stderrors.As(err, &unresolved) {
		return report.Exception{
			Key: key, Field: unresolved.Field, Value: unresolved.Value,
			Reason:    fmt.Sprintf("unresolved reference in %s", unresolved.Dictionary),
			Retryable: true,
		}
	}
	var invalid *errors.InvalidValueError
	if stderrors.As(err, &invalid) {
		return report.Exception{
			Key: key, Field: invalid.Field, Value: invalid.Value, Reason: invalid.Message,
		}
	}
	return report.Exception{Key: key, Reason: err.Error()}
}

// writeTranscript renders the sorted batches to the configured writers.
func (e *engine) writeTranscript(add, retract *triples.Batch) error {
	t := e.config.transcript
	if t == nil {
		return nil
	}
	if t.additions != nil {
		if _, err := t.additions.Write([]byte(add.NTriples())); err != nil {
			return fmt.Errorf("writing additions transcript: %w", err)
		}
	}
	if t.retractions != nil {
		if _, err := t.retractions.Write([]byte(retract.NTriples())); err != nil {
			return fmt.Errorf("writing retractions transcript: %w", err)
		}
	}
	return nil
}
