package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Exception is one unresolvable value encountered while preparing the
// ingest sheet.
type Exception struct {
	Batch  int
	PID    string
	Field  string
	Value  string
	Reason string
}

// Transformation is one value deliberately changed or dropped, kept for
// review.
type Transformation struct {
	Batch    int
	PID      string
	Field    string
	OldValue string
	NewValue string
	Note     string
}

// Report collects exceptions and transformations across batches.
type Report struct {
	batch           int
	exceptions      []Exception
	transformations []Transformation
}

func (r *Report) SetBatch(n int) {
	r.batch = n
}

func (r *Report) AddException(pid, field, value, reason string) {
	r.exceptions = append(r.exceptions, Exception{
		Batch:  r.batch,
		PID:    pid,
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

func (r *Report) AddTransformation(pid, field, oldValue, newValue, note string) {
	r.transformations = append(r.transformations, Transformation{
		Batch:    r.batch,
		PID:      pid,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		Note:     note,
	})
}

func (r *Report) Exceptions() []Exception { return r.exceptions }

func (r *Report) Transformations() []Transformation { return r.transformations }

// ExceptionsFor returns the exceptions logged for one PID.
func (r *Report) ExceptionsFor(pid string) []Exception {
	var res []Exception
	for _, e := range r.exceptions {
		if e.PID == pid {
			res = append(res, e)
		}
	}
	return res
}

// WriteCSV writes the exception and transformation logs under dir, named
// by the batch prefix.
func (r *Report) WriteCSV(dir, prefix string) error {
	exc := [][]string{{"Batch", "PID", "Field", "Value", "Exception"}}
	if len(r.exceptions) == 0 {
		exc = [][]string{{"no exceptions were encountered"}}
	}
	for _, e := range r.exceptions {
		exc = append(exc, []string{
			strconv.Itoa(e.Batch), e.PID, e.Field, e.Value, e.Reason,
		})
	}
	if err := writeRows(filepath.Join(dir, prefix+"_exceptions.csv"), exc); err != nil {
		return err
	}

	tra := [][]string{{"Batch", "PID", "Field", "Old_Value", "New_Value", "Transformation"}}
	for _, t := range r.transformations {
		tra = append(tra, []string{
			strconv.Itoa(t.Batch), t.PID, t.Field, t.OldValue, t.NewValue, t.Note,
		})
	}
	return writeRows(filepath.Join(dir, prefix+"_transformations.csv"), tra)
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
	return w.Error()
}

func joinValues(values []string) string {
	return strings.Join(values, "|")
}
