package source

// Feed is an iterable of natural-keyed records. Within one run a
// natural key identifies at most one source record; feeds carrying
// duplicates resolve last-one-wins, matching dictionary construction.
type Feed interface {
	// Records returns every record in the feed. The engine reads the
	// feed once per run, whole-batch.
	Records() ([]*Record, error)
}

// SliceFeed is an in-memory feed, used for tests and for callers that
// parse rows themselves.
type SliceFeed []*Record

// Records implements Feed.
func (f SliceFeed) Records() ([]*Record, error) {
	return f, nil
}

// Dedupe folds a record list by natural key, last one wins, preserving
// first-seen order of the surviving keys.
func Dedupe(records []*Record) []*Record {
	index := make(map[string]int, len(records))
	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		if i, ok := index[rec.Key]; ok {
			out[i] = rec
			continue
		}
		index[rec.Key] = len(out)
		out = append(out, rec)
	}
	return out
}
