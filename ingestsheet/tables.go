package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// SchemaField describes one field of the target schema.
type SchemaField struct {
	Field      string
	FieldType  string
	Repeatable bool
}

// FieldMap maps a spreadsheet column to a target field, with the taxonomy
// controlled values must resolve against and an optional value prefix.
type FieldMap struct {
	Field       string
	MachineName string
	Taxonomy    string
	Prefix      string
}

// Tables bundles the curated lookup tables loaded at startup.
type Tables struct {
	Schema          []SchemaField
	TemplateMapping []FieldMap
	ManifestMapping []FieldMap
	Taxonomies      []TaxonomyTerm
	CollectionNodes []CollectionNode
	Languages       map[string]string
}

// TaxonomyTerm is one vocabulary entry of the target site.
type TaxonomyTerm struct {
	Name       string
	Vocabulary string
}

// CollectionNode maps a legacy collection PID to its node ID.
type CollectionNode struct {
	ID     string
	NodeID string
}

// FieldFor resolves a spreadsheet column, template mapping first. The
// first matching row wins.
func (t *Tables) FieldFor(column string) (FieldMap, bool) {
	for _, fm := range t.TemplateMapping {
		if fm.Field == column {
			return fm, fm.MachineName != ""
		}
	}
	for _, fm := range t.ManifestMapping {
		if fm.Field == column {
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

// HasTerm reports whether a term exists in the given vocabulary.
func (t *Tables) HasTerm(name, vocabulary string) bool {
	for _, term := range t.Taxonomies {
		if term.Name == name && term.Vocabulary == vocabulary {
			return true
		}
	}
	return false
}

// NodeFor maps a collection reference to a node ID. Values that already
// are node IDs pass through unchanged.
func (t *Tables) NodeFor(value string) (string, bool) {
	for _, cn := range t.CollectionNodes {
		if cn.NodeID == value {
			return value, true
		}
	}
	for _, cn := range t.CollectionNodes {
		if cn.ID == value {
			return cn.NodeID, true
		}
	}
	return value, false
}

// LoadTables reads every mapping table from dir. Filenames are fixed.
func LoadTables(dir string) (*Tables, error) {
	t := &Tables{Languages: make(map[string]string)}

	rows, err := readTable(filepath.Join(dir, "i2_field_schema.csv"))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		t.Schema = append(t.Schema, SchemaField{
			Field:      r["Field"],
			FieldType:  r["Field_Type"],
			Repeatable: r["Repeatable"] == "TRUE",
		})
	}

	for _, m := range []struct {
		file string
		dst  *[]FieldMap
	}{
		{"template_to_i2_field_mapping.csv", &t.TemplateMapping},
		{"manifest_to_i2_field_mapping.csv", &t.ManifestMapping},
	} {
		rows, err := readTable(filepath.Join(dir, m.file))
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			*m.dst = append(*m.dst, FieldMap{
				Field:       r["field"],
				MachineName: r["machine_name"],
				Taxonomy:    r["taxonomy"],
				Prefix:      r["prefix"],
			})
		}
	}

	rows, err = readTable(filepath.Join(dir, "taxonomies.csv"))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		t.Taxonomies = append(t.Taxonomies, TaxonomyTerm{
			Name:       r["Name"],
			Vocabulary: r["Vocabulary"],
		})
	}

	rows, err = readTable(filepath.Join(dir, "collection_node_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		t.CollectionNodes = append(t.CollectionNodes, CollectionNode{
			ID:     r["id"],
			NodeID: r["node_id"],
		})
	}

	rows, err = readTable(filepath.Join(dir, "language_mapping.csv"))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		t.Languages[r["field_code"]] = r["term_name"]
	}

	return t, nil
}

func readTable(path string) ([]map[string]string, error) {
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
		return nil, fmt.Errorf("%s: empty table", path)
	}
	header := rows[0]
	var res []map[string]string
	for _, row := range rows[1:] {
		m := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		res = append(res, m)
	}
	return res, nil
}
