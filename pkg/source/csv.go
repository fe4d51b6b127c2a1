package source

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// CSVFeed reads delimited rows into records. The first row names the
// fields; the key field supplies each record's natural key. Rows whose
// key field is empty are dropped, and duplicate keys resolve last one
// wins.
type CSVFeed struct {
	reader   io.Reader
	keyField string
	comma    rune
}

// CSVOption configures delimited reading.
type CSVOption func(*csvOptions)

type csvOptions struct {
	comma rune
}

// WithComma sets the field delimiter. The systems of record ship both
// comma- and pipe-delimited extracts.
func WithComma(c rune) CSVOption {
	return func(o *csvOptions) {
		o.comma = c
	}
}

// NewCSVFeed creates a feed over delimited data keyed by one field.
func NewCSVFeed(r io.Reader, keyField string, opts ...CSVOption) *CSVFeed {
	o := &csvOptions{comma: ','}
	for _, opt := range opts {
		opt(o)
	}
	return &CSVFeed{reader: r, keyField: keyField, comma: o.comma}
}

// Records implements Feed.
func (f *CSVFeed) Records() ([]*Record, error) {
	rows, err := readRows(f.reader, f.comma)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(rows))
	for _, rec := range rows {
		rec.Key = rec.Get(f.keyField)
		if rec.Key == "" {
			continue
		}
		records = append(records, rec)
	}
	return Dedupe(records), nil
}

// ReadRows reads every delimited row as its own record, keyed by row
// number. Feeds that fold several rows into one record (a person's
// positions, a section's instructors) start from here.
func ReadRows(r io.Reader, opts ...CSVOption) ([]*Record, error) {
	o := &csvOptions{comma: ','}
	for _, opt := range opts {
		opt(o)
	}
	return readRows(r, o.comma)
}

func readRows(r io.Reader, comma rune) ([]*Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []*Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := NewRecord(strconv.Itoa(len(rows) + 1))
		for i, value := range row {
			if i >= len(header) {
				break
			}
			rec.Set(header[i], strings.TrimSpace(value))
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
