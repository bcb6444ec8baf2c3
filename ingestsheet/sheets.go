package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx"
)

// Sheet is a loaded spreadsheet: ordered columns plus one map per row.
type Sheet struct {
	Columns []string
	Rows    []map[string]string
}

// Get returns the cell for a column, or the empty string.
func (s *Sheet) Get(row int, column string) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	return s.Rows[row][column]
}

// ReadSheet loads a spreadsheet from a CSV or XLSX file, keyed by the
// header row. For XLSX files the first worksheet is read.
func ReadSheet(path string) (*Sheet, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet", path)
	}
	s := &Sheet{Columns: rows[0]}
	for _, row := range rows[1:] {
		m := make(map[string]string, len(s.Columns))
		for i, h := range s.Columns {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		s.Rows = append(s.Rows, m)
	}
	return s, nil
}

func readXLSX(path string) (*Sheet, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("%s: no worksheets", path)
	}
	ws := file.Sheets[0]
	if len(ws.Rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet", path)
	}

	s := &Sheet{}
	for _, cell := range ws.Rows[0].Cells {
		v, err := cell.String()
		if err != nil {
			return nil, err
		}
		s.Columns = append(s.Columns, v)
	}
	for _, row := range ws.Rows[1:] {
		m := make(map[string]string, len(s.Columns))
		for i, cell := range row.Cells {
			if i >= len(s.Columns) {
				break
			}
			v, err := cell.String()
			if err != nil {
				return nil, err
			}
			m[s.Columns[i]] = v
		}
		s.Rows = append(s.Rows, m)
	}
	return s, nil
}

// normalizeID prepares an identifier for joining: trimmed, with the usual
// spreadsheet placeholders for missing values mapped to the empty string.
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if inList(strings.ToLower(s), emptyPlaceholders) {
		return ""
	}
	return s
}

// MergeSheets joins the metadata sheet onto the manifest by the
// manifest id and metadata identifier columns. Only the fixed manifest
// columns survive; on overlapping columns the metadata value wins.
// Metadata rows whose identifier matches no manifest row come back as the
// unmatched sheet.
func MergeSheets(manifest, metadata *Sheet, task string) (*Sheet, *Sheet) {
	keep := append([]string{}, manifestColumns...)
	if task == "update" {
		keep = append(keep[:1], append([]string{"node_id"}, keep[1:]...)...)
	}
	for _, c := range optionalManifestColumns {
		if inList(c, manifest.Columns) {
			keep = append(keep, c)
		}
	}

	byID := make(map[string]map[string]string)
	for _, row := range metadata.Rows {
		id := normalizeID(row["identifier"])
		if id == "" {
			continue
		}
		if _, ok := byID[id]; !ok {
			byID[id] = row
		}
	}

	merged := &Sheet{Columns: append([]string{}, keep...)}
	for _, c := range metadata.Columns {
		if c != "identifier" && !inList(c, merged.Columns) {
			merged.Columns = append(merged.Columns, c)
		}
	}

	matched := make(map[string]bool)
	for _, row := range manifest.Rows {
		out := make(map[string]string, len(merged.Columns))
		for _, c := range keep {
			out[c] = row[c]
		}
		if meta, ok := byID[normalizeID(row["id"])]; ok {
			matched[normalizeID(row["id"])] = true
			// metadata wins on overlapping columns
			for _, c := range metadata.Columns {
				if c != "identifier" {
					out[c] = meta[c]
				}
			}
		}
		merged.Rows = append(merged.Rows, out)
	}

	unmatched := &Sheet{Columns: metadata.Columns}
	for _, row := range metadata.Rows {
		id := normalizeID(row["identifier"])
		if id != "" && !matched[id] {
			unmatched.Rows = append(unmatched.Rows, row)
		}
	}
	return merged, unmatched
}

// WriteCSV writes the sheet with its columns in order.
func (s *Sheet) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.Columns); err != nil {
		return err
	}
	for _, row := range s.Rows {
		rec := make([]string, len(s.Columns))
		for i, c := range s.Columns {
			rec[i] = row[c]
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
