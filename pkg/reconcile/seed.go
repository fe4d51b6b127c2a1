package reconcile

import (
	"context"
	"time"

	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/errors"
	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// SeedDateIndex loads the store's existing date and interval entities
// into a fresh index, so runs reuse them instead of minting duplicates.
// Dates are keyed at their asserted precision; intervals by their
// (start, end) pair. Entities the queries cannot pair up (a date with
// no precision, say) are skipped rather than guessed at.
func SeedDateIndex(ctx context.Context, store graph.Store) (*DateIndex, error) {
	idx := NewDateIndex()

	times, err := store.EntitiesWithProperty(ctx, vocab.VivoDateTimeValue, vocab.VivoDateTime)
	if err != nil {
		return nil, errors.WrapQuery("dates", err)
	}
	precisions, err := store.EntitiesWithProperty(ctx, vocab.VivoDateTimeValue, vocab.VivoDateTimePrecision)
	if err != nil {
		return nil, errors.WrapQuery("dates", err)
	}
	precisionOf := make(map[string]string, len(precisions))
	for _, b := range precisions {
		precisionOf[b["uri"]] = b["value"]
	}
	for _, b := range times {
		p, ok := precisionOf[b["uri"]]
		if !ok {
			continue
		}
		t, err := time.Parse("2006-01-02T15:04:05", b["value"])
		if err != nil {
			continue
		}
		d := dates.Date{Time: t, Precision: dates.PrecisionFromIRI(p)}
		idx.Dates.Put(d.Key(), b["uri"])
	}

	starts, err := store.EntitiesWithProperty(ctx, vocab.VivoIntervalType, vocab.VivoStart)
	if err != nil {
		return nil, errors.WrapQuery("intervals", err)
	}
	ends, err := store.EntitiesWithProperty(ctx, vocab.VivoIntervalType, vocab.VivoEnd)
	if err != nil {
		return nil, errors.WrapQuery("intervals", err)
	}
	startOf := make(map[string]string, len(starts))
	for _, b := range starts {
		startOf[b["uri"]] = b["value"]
	}
	endOf := make(map[string]string, len(ends))
	for _, b := range ends {
		endOf[b["uri"]] = b["value"]
	}
	seen := make(map[string]bool, len(startOf)+len(endOf))
	for uri := range startOf {
		seen[uri] = true
	}
	for uri := range endOf {
		seen[uri] = true
	}
	for uri := range seen {
		idx.Intervals.Put(dates.IntervalKey(startOf[uri], endOf[uri]), uri)
	}
	return idx, nil
}
