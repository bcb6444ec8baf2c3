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

// splitAndClean splits a cell on non-escaped commas, unescapes the parts
// and drops empty strings.
func splitAndClean(s string) []string {
	var res []string
	var cur strings.Builder
	cleaned := cleanValue(s)
	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		if c == '\\' && i+1 < len(cleaned) && cleaned[i+1] == ',' {
			cur.WriteByte(',')
			i++
			continue
		}
		if c == ',' {
			if p := strings.TrimSpace(cur.String()); p != "" {
				res = append(res, p)
			}
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	if p := strings.TrimSpace(cur.String()); p != "" {
		res = append(res, p)
	}
	return res
}

// dedup splits a cell on non-escaped commas and rejoins the unique parts,
// keeping first-seen order.
func dedup(s string) string {
	parts := splitAndClean(s)
	seen := make(map[string]bool)
	var res []string
	for _, p := range parts {
		if !seen[p] {
			seen[p] = true
			res = append(res, p)
		}
	}
	return strings.Join(res, ",")
}

// titleParts accumulates the components of a titleInfo element until the
// record is assembled.
type titleParts struct {
	nonSort    string
	title      string
	subTitle   string
	partNumber string
	partName   string
}

func (t titleParts) empty() bool {
	return t == titleParts{}
}

// String concatenates the parts in display order.
func (t titleParts) String() string {
	var b strings.Builder
	if t.nonSort != "" {
		b.WriteString(t.nonSort)
		b.WriteString(" ")
	}
	b.WriteString(t.title)
	if t.subTitle != "" {
		b.WriteString(": ")
		b.WriteString(t.subTitle)
	}
	if t.partNumber != "" {
		b.WriteString(", ")
		b.WriteString(t.partNumber)
	}
	if t.partName != "" {
		b.WriteString(", ")
		b.WriteString(t.partName)
	}
	return b.String()
}

// Record is an open record under assembly: every target field accumulates
// a list of values. Closed (flattened) records are represented by
// ClosedRecord; a Record is never mutated after Close.
type Record struct {
	values map[string][]string
	titles map[string]*titleParts
}

// ClosedRecord maps target field names to their final pipe-joined values.
type ClosedRecord map[string]string

func newRecord(schema []SchemaField) *Record {
	r := &Record{
		values: make(map[string][]string),
		titles: make(map[string]*titleParts),
	}
	for _, f := range schema {
		if inList(f.Field, titleFields) {
			r.titles[f.Field] = &titleParts{}
		} else {
			r.values[f.Field] = nil
		}
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

// AddTitlePart stores a title component, routed on the source column name.
func (r *Record) AddTitlePart(field, solrField, value string) {
	t, ok := r.titles[field]
	if !ok {
		t = &titleParts{}
		r.titles[field] = t
	}
	value = cleanValue(value)
	switch {
	case strings.Contains(solrField, "nonSort"):
		t.nonSort = value
	case strings.Contains(solrField, "subTitle"):
		t.subTitle = value
	case strings.Contains(solrField, "partNumber"):
		t.partNumber = value
	case strings.Contains(solrField, "partName"):
		t.partName = value
	default:
		t.title = value
	}
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

// Close flattens the record: every list value is joined with a pipe.
// Fields without values map to the empty string so that absent fields
// stay explicit.
func (r *Record) Close() ClosedRecord {
	res := make(ClosedRecord, len(r.values))
	for field, values := range r.values {
		res[field] = strings.Join(values, "|")
	}
	return res
}

func inList(s string, list []string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
