package main

import (
	"regexp"
	"strings"
)

var rgxSpaces = regexp.MustCompile(`\s+`)

// cleanValue removes newlines, collapses repeated whitespace and trims
// the result.
func cleanValue(s string) string {
	s = strings.ReplaceAll(s, "\n    ", " ")
	s = strings.ReplaceAll(s, "\n", "")
	s = rgxSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// splitDelimited splits a delimited cell on "; " and drops empty parts.
func splitDelimited(s string) []string {
	var res []string
	for _, p := range strings.Split(cleanValue(s), "; ") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// Record is an open ingest record under assembly; every target field
// accumulates a list of values.
type Record struct {
	values map[string][]string
}

// ClosedRecord maps target field names to their final pipe-joined values.
// Fields without values are absent.
type ClosedRecord map[string]string

func newRecord(schema []SchemaField) *Record {
	r := &Record{values: make(map[string][]string)}
	for _, f := range schema {
		r.values[f.Field] = nil
	}
	return r
}

// Add appends a cleaned value to a field, skipping empty values and
// duplicates.
func (r *Record) Add(field, value string) {
	r.AddPrefixed(field, "", value)
}

// AddPrefixed is Add with a prefix prepended to the value.
func (r *Record) AddPrefixed(field, prefix, value string) {
	value = cleanValue(value)
	if value == "" {
		return
	}
	if prefix != "" {
		value = prefix + value
	}
	for _, v := range r.values[field] {
		if v == value {
			return
		}
	}
	r.values[field] = append(r.values[field], value)
}

// Get returns the accumulated values for a field.
func (r *Record) Get(field string) []string {
	return r.values[field]
}

// PID returns the record identifier, or the empty string if none was added.
func (r *Record) PID() string {
	if ids := r.values["id"]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// RemoveVetted drops the fields excluded at the minimal metadata level.
func (r *Record) RemoveVetted() {
	for _, f := range vettedFields {
		delete(r.values, f)
	}
}

// Close flattens the record: every non-empty list is joined with a pipe,
// empty fields are dropped.
func (r *Record) Close() ClosedRecord {
	res := make(ClosedRecord)
	for field, values := range r.values {
		if len(values) > 0 {
			res[field] = strings.Join(values, "|")
		}
	}
	return res
}

// titleParts holds the title template columns until the record is
// assembled.
type titleParts struct {
	title  string
	volume string
	number string
}

// String builds the display title, appending volume and issue numbers.
func (t titleParts) String() string {
	title := t.title
	if title == "" {
		return ""
	}
	if t.volume != "" {
		title += ", vol. " + t.volume
	}
	if t.number != "" {
		title += ", no. " + t.number
	}
	return title
}
