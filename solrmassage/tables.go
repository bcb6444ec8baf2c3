package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Curated remediation tables, maintained as CSV files outside the
// repository and loaded once at startup. Lookups match by exact string
// equality; when more than one row matches, the first row wins.

// SchemaField describes one field of the target schema.
type SchemaField struct {
	Field      string
	FieldType  string
	Repeatable bool
}

// FieldMap maps a Solr column to a target field, with an optional value
// prefix (used for linked agents).
type FieldMap struct {
	SolrField   string
	MachineName string
	Prefix      string
}

// NameRow is one name-authority entry.
type NameRow struct {
	SolrField    string
	OriginalName string
	Type         string
	Action       string
	ValidName    string
}

// SubjectRow is one subject-authority entry.
type SubjectRow struct {
	SolrField       string
	OriginalHeading string
	Type            string
	Action          string
	ValidHeading    string
	Authority       string
}

// GenreRow maps a legacy AAT genre heading to a target genre term.
type GenreRow struct {
	Original string
	Genre    string
}

// FormRow maps a physical description form to form, genre and extent
// values (each may hold several pipe-separated terms).
type FormRow struct {
	Original     string
	PhysicalForm string
	Genre        string
	Extent       string
}

// DateRow holds the remediated dates for one PID, pipe-separated.
type DateRow struct {
	EDTF      string
	Date      string
	Copyright string
}

// Tables bundles every loaded lookup table.
type Tables struct {
	Schema        []SchemaField
	FieldMapping  []FieldMap
	Names         []NameRow
	Subjects      []SubjectRow
	Genres        []GenreRow
	GenreTerms    map[string]bool
	Forms         []FormRow
	Sources       []map[string]string
	SourceMissing []map[string]string
	Languages     map[string]string
	Countries     map[string]string
	Dates         map[string]DateRow
}

// FieldFor returns the target field mapped to a Solr column.
func (t *Tables) FieldFor(solrField string) (FieldMap, bool) {
	for _, fm := range t.FieldMapping {
		if fm.SolrField == solrField {
			return fm, fm.MachineName != ""
		}
	}
	return FieldMap{}, false
}

// SchemaFor returns the schema entry for a target field.
func (t *Tables) SchemaFor(field string) (SchemaField, bool) {
	for _, f := range t.Schema {
		if f.Field == field {
			return f, true
		}
	}
	return SchemaField{}, false
}

// LoadTables reads every mapping table from dir. Filenames are fixed.
func LoadTables(dir string) (*Tables, error) {
	t := &Tables{
		GenreTerms: make(map[string]bool),
		Languages:  make(map[string]string),
		Countries:  make(map[string]string),
		Dates:      make(map[string]DateRow),
	}

	rows, err := readTable(filepath.Join(dir, "i2_field_schema.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Schema = append(t.Schema, SchemaField{
			Field:      row["Field"],
			FieldType:  row["Field_Type"],
			Repeatable: row["Repeatable"] != "FALSE",
		})
	}

	rows, err = readTable(filepath.Join(dir, "solr_to_i2_field_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.FieldMapping = append(t.FieldMapping, FieldMap{
			SolrField:   row["solr_field"],
			MachineName: row["machine_name"],
			Prefix:      row["prefix"],
		})
	}

	rows, err = readTable(filepath.Join(dir, "name_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Names = append(t.Names, NameRow{
			SolrField:    row["Solr_Field"],
			OriginalName: row["Original_Name"],
			Type:         row["Type"],
			Action:       row["Action"],
			ValidName:    row["Valid_Name"],
		})
	}

	rows, err = readTable(filepath.Join(dir, "subject_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Subjects = append(t.Subjects, SubjectRow{
			SolrField:       row["Solr_Field"],
			OriginalHeading: row["Original_Heading"],
			Type:            row["Type"],
			Action:          row["Action"],
			ValidHeading:    row["Valid_Heading"],
			Authority:       row["authority"],
		})
	}

	rows, err = readTable(filepath.Join(dir, "genre_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Genres = append(t.Genres, GenreRow{
			Original: row["mods_genre_authority_aat_ms"],
			Genre:    row["field_genre"],
		})
	}

	rows, err = readTable(filepath.Join(dir, "genre_terms.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if term := row["term_name"]; term != "" {
			t.GenreTerms[term] = true
		}
	}

	rows, err = readTable(filepath.Join(dir, "physical_form_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Forms = append(t.Forms, FormRow{
			Original:     row["mods_physicalDescription_form_ms"],
			PhysicalForm: row["field_physical_form"],
			Genre:        row["field_genre"],
			Extent:       row["field_extent"],
		})
	}

	t.Sources, err = readTable(filepath.Join(dir, "source_collection_mapping.csv"))
	if err != nil {
		return nil, err
	}

	t.SourceMissing, err = readTable(filepath.Join(dir, "source_collection_missing.csv"))
	if err != nil {
		return nil, err
	}

	rows, err = readTable(filepath.Join(dir, "language_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Languages[row["field_code"]] = row["term_name"]
	}

	rows, err = readTable(filepath.Join(dir, "country_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Countries[row["field_code_country"]] = row["term_name"]
	}

	rows, err = readTable(filepath.Join(dir, "edtf_dates.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Dates[row["PID"]] = DateRow{
			EDTF:      row["field_edtf_date"],
			Date:      row["field_date"],
			Copyright: row["field_copyright_date"],
		}
	}

	return t, nil
}

// readTable reads a CSV file into one map per row, keyed by header name.
func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
