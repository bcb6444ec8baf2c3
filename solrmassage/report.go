package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
)

// Exception records a value that could not be mapped or validated. The
// record it belongs to is still written; exceptions only annotate.
type Exception struct {
	File   string
	PID    string
	Field  string
	Value  string
	Reason string
}

// Transformation records a value that was deliberately rewritten or
// dropped by a remediation rule.
type Transformation struct {
	File     string
	PID      string
	Field    string
	OldValue string
	NewValue string
	Note     string
}

// Report collects exceptions and transformations for a whole run. It is
// passed by reference into every processing function; entries are only
// ever appended.
type Report struct {
	file            string
	exceptions      []Exception
	transformations []Transformation
}

// SetFile sets the input file recorded on subsequent entries.
func (r *Report) SetFile(file string) {
	r.file = file
}

func (r *Report) AddException(pid, field, value, reason string) {
	r.exceptions = append(r.exceptions, Exception{
		File:   r.file,
		PID:    pid,
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

func (r *Report) AddTransformation(pid, field, oldValue, newValue, note string) {
	r.transformations = append(r.transformations, Transformation{
		File:     r.file,
		PID:      pid,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		Note:     note,
	})
}

// Exceptions returns the entries collected so far.
func (r *Report) Exceptions() []Exception {
	return r.exceptions
}

// Transformations returns the entries collected so far.
func (r *Report) Transformations() []Transformation {
	return r.transformations
}

// ExceptionsFor returns the exceptions recorded for a given PID.
func (r *Report) ExceptionsFor(pid string) []Exception {
	var res []Exception
	for _, e := range r.exceptions {
		if e.PID == pid {
			res = append(res, e)
		}
	}
	return res
}

// WriteCSV writes the timestamp-qualified exception and transformation
// reports to dir. Prior runs are never overwritten.
func (r *Report) WriteCSV(dir, timestamp string) error {
	exc := [][]string{{"file", "pid", "field", "value", "exception"}}
	if len(r.exceptions) == 0 {
		exc = [][]string{{"msg"}, {"no exceptions were encountered"}}
	}
	for _, e := range r.exceptions {
		exc = append(exc, []string{e.File, e.PID, e.Field, e.Value, e.Reason})
	}
	if err := writeRows(filepath.Join(dir, timestamp+"_exceptions.csv"), exc); err != nil {
		return err
	}

	tra := [][]string{{"file", "pid", "field", "old_value", "new_value", "transformation"}}
	if len(r.transformations) == 0 {
		tra = [][]string{{"msg"}, {"no transformations were applied"}}
	}
	for _, t := range r.transformations {
		tra = append(tra, []string{t.File, t.PID, t.Field, t.OldValue, t.NewValue, t.Note})
	}
	return writeRows(filepath.Join(dir, timestamp+"_transformations.csv"), tra)
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// joinValues renders a multi-value exception value for logging.
func joinValues(values []string) string {
	return strings.Join(values, "|")
}
