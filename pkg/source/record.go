// Package source defines the natural-keyed record feed consumed by the
// reconciliation engine. How rows were parsed (CSV, fixed width, API)
// is a collaborator concern; the engine only requires normalized field
// names and one deterministic natural key per record.
package source

import "sort"

// Record is one natural-keyed row from a system of record. Fields maps
// normalized field names to scalar values; an empty string and an
// absent key are equivalent. Members holds multi-valued owned
// collections (investigator lists, taught sections) keyed by collection
// field name.
type Record struct {
	Key     string
	Fields  map[string]string
	Members map[string][]Member
}

// Member is one element of an owned collection on a record.
type Member struct {
	Fields map[string]string
}

// NewRecord creates a record with the given natural key.
func NewRecord(key string) *Record {
	return &Record{
		Key:     key,
		Fields:  make(map[string]string),
		Members: make(map[string][]Member),
	}
}

// Get returns the value of a field, with absent normalized to "".
func (r *Record) Get(field string) string {
	return r.Fields[field]
}

// Set assigns a field value.
func (r *Record) Set(field, value string) {
	r.Fields[field] = value
}

// AddMember appends a member to a collection.
func (r *Record) AddMember(collection string, m Member) {
	r.Members[collection] = append(r.Members[collection], m)
}

// FieldNames returns the record's field names in sorted order.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
