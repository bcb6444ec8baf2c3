package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func testTables() *Tables {
	return &Tables{
		Schema: []SchemaField{
			{Field: "id", FieldType: "Text (plain)", Repeatable: false},
			{Field: "parent_id", FieldType: "Text (plain)", Repeatable: true},
			{Field: "title", FieldType: "Text (plain)", Repeatable: false},
			{Field: "field_full_title", FieldType: "Text (plain)", Repeatable: false},
			{Field: "field_model", FieldType: "Text (plain)", Repeatable: false},
			{Field: "field_resource_type", FieldType: "Text (plain)", Repeatable: true},
			{Field: "field_linked_agent", FieldType: "Entity Reference", Repeatable: true},
			{Field: "field_language", FieldType: "Entity Reference", Repeatable: true},
			{Field: "field_domain_access", FieldType: "Entity Reference", Repeatable: true},
			{Field: "field_genre", FieldType: "Entity Reference", Repeatable: true},
			{Field: "field_subject", FieldType: "Entity Reference", Repeatable: true},
			{Field: "field_subject_title", FieldType: "Entity Reference", Repeatable: true},
			{Field: "field_geographic_subject", FieldType: "Entity Reference", Repeatable: true},
			{Field: "field_edtf_date", FieldType: "EDTF", Repeatable: true},
			{Field: "field_date_str", FieldType: "Text (plain)", Repeatable: true},
			{Field: "field_copyright_date", FieldType: "EDTF", Repeatable: true},
			{Field: "field_description", FieldType: "Text (plain)", Repeatable: false},
		},
		FieldMapping: []FieldMap{
			{SolrField: "PID", MachineName: "id"},
			{SolrField: "mods_titleInfo_title_ms", MachineName: "field_full_title"},
			{SolrField: "mods_titleInfo_subTitle_ms", MachineName: "field_full_title"},
			{SolrField: "mods_titleInfo_nonSort_ms", MachineName: "field_full_title"},
			{SolrField: "mods_name_personal_namePart_ms", MachineName: "field_linked_agent"},
			{SolrField: "mods_name_personal_namePart_creator_ms", MachineName: "field_linked_agent", Prefix: "relators:cre:"},
			{SolrField: "RELS_EXT_hasModel_uri_ms", MachineName: "field_model"},
			{SolrField: "RELS_EXT_isMemberOf_uri_ms", MachineName: "parent_id"},
			{SolrField: "RELS_EXT_isMemberOfSite_uri_ms", MachineName: "field_domain_access"},
			{SolrField: "mods_language_languageTerm_code_ms", MachineName: "field_language"},
			{SolrField: "mods_subject_topic_ms", MachineName: "mods_subject_topic_ms"},
			{SolrField: "mods_abstract_ms", MachineName: "field_description"},
		},
		Names: []NameRow{
			{
				SolrField:    "mods_name_personal_namePart_ms",
				OriginalName: "Smith, John",
				Type:         "personal",
				ValidName:    "Smith, John",
			},
			{
				SolrField:    "mods_name_personal_namePart_creator_ms",
				OriginalName: "Doe, Jane",
				Type:         "personal",
				ValidName:    "Doe, Jane, 1900-1980",
			},
			{
				SolrField:    "mods_name_personal_namePart_ms",
				OriginalName: "Anonymous",
				Type:         "personal",
				Action:       "remove",
				ValidName:    "",
			},
		},
		Subjects: []SubjectRow{
			{
				SolrField:       "mods_subject_topic_ms",
				OriginalHeading: "Bridges",
				Type:            "topic",
				ValidHeading:    "Bridges",
			},
			{
				SolrField:       "mods_subject_topic_ms",
				OriginalHeading: "Photographs",
				Type:            "topic",
				ValidHeading:    "Photographs",
				Authority:       "aat",
			},
			{
				SolrField:       "mods_subject_topic_ms",
				OriginalHeading: "Obsolete heading",
				Type:            "topic",
				Action:          "remove",
			},
		},
		GenreTerms: map[string]bool{},
		Languages:  map[string]string{"eng": "English"},
		Countries:  map[string]string{},
		Dates: map[string]DateRow{
			"pitt:dated": {
				EDTF: "1999|not-a-date",
				Date: "circa 1999",
			},
		},
	}
}

func testMain(t *testing.T) *Main {
	t.Helper()
	inv := &Inventory{index: make(map[string]*inventoryEntry)}
	return newMain("", "", testTables(), inv, -1, nil)
}

func TestProcessRowClean(t *testing.T) {
	m := testMain(t)
	header := []string{
		"PID",
		"mods_titleInfo_title_ms",
		"mods_name_personal_namePart_ms",
		"RELS_EXT_hasModel_uri_ms",
	}
	row := []string{
		"pitt:123",
		"Letter",
		"Smith\\, John",
		"info:fedora/islandora:sp_large_image_cmodel",
	}

	rec, skipped := m.processRow(header, row)
	if skipped {
		t.Fatal("record skipped; want processed")
	}
	if got, want := rec["title"], "Letter"; got != want {
		t.Errorf("title = %q; want %q", got, want)
	}
	if got, want := rec["field_linked_agent"], "person:Smith, John"; got != want {
		t.Errorf("field_linked_agent = %q; want %q", got, want)
	}
	if got, want := rec["field_model"], "Image"; got != want {
		t.Errorf("field_model = %q; want %q", got, want)
	}
	if got, want := rec["field_resource_type"], "Still Image"; got != want {
		t.Errorf("field_resource_type = %q; want %q", got, want)
	}
	if exc := m.rep.Exceptions(); len(exc) != 0 {
		t.Errorf("got %d exceptions; want 0: %+v", len(exc), exc)
	}
}

func TestProcessRowUnmappedModel(t *testing.T) {
	m := testMain(t)
	header := []string{"PID", "mods_titleInfo_title_ms", "RELS_EXT_hasModel_uri_ms"}
	row := []string{"pitt:999", "Mystery", "info:fedora/islandora:unknownCModel"}

	_, skipped := m.processRow(header, row)
	if !skipped {
		t.Fatal("record not skipped; want skipped for unmapped model")
	}
	tra := m.rep.Transformations()
	if len(tra) != 1 {
		t.Fatalf("got %d transformations; want 1", len(tra))
	}
	if !strings.Contains(tra[0].Note, "skipped object due to model type") {
		t.Errorf("transformation note = %q; want model skip reason", tra[0].Note)
	}
}

func TestProcessRowMissingRequired(t *testing.T) {
	m := testMain(t)
	header := []string{"PID", "mods_titleInfo_title_ms"}
	row := []string{"pitt:5", "No model here"}

	_, skipped := m.processRow(header, row)
	if skipped {
		t.Fatal("record skipped; want processed with exceptions")
	}

	var reasons []string
	for _, e := range m.rep.ExceptionsFor("pitt:5") {
		reasons = append(reasons, e.Reason)
	}
	for _, field := range []string{"field_model", "field_resource_type"} {
		want := "record missing required " + field
		if !inList(want, reasons) {
			t.Errorf("missing exception %q in %v", want, reasons)
		}
	}
}

func TestProcessRowTitleConcatenation(t *testing.T) {
	m := testMain(t)
	header := []string{
		"PID",
		"mods_titleInfo_nonSort_ms",
		"mods_titleInfo_title_ms",
		"mods_titleInfo_subTitle_ms",
		"RELS_EXT_hasModel_uri_ms",
	}
	row := []string{
		"pitt:7",
		"The",
		"Iron City",
		"an industrial history",
		"info:fedora/islandora:sp_pdf",
	}

	rec, _ := m.processRow(header, row)
	want := "The Iron City: an industrial history"
	if rec["title"] != want {
		t.Errorf("title = %q; want %q", rec["title"], want)
	}
	if rec["field_full_title"] != want {
		t.Errorf("field_full_title = %q; want %q", rec["field_full_title"], want)
	}
}

func TestProcessRowDates(t *testing.T) {
	m := testMain(t)
	header := []string{"PID", "RELS_EXT_hasModel_uri_ms", "mods_titleInfo_title_ms"}
	row := []string{"pitt:dated", "info:fedora/islandora:sp_pdf", "Dated thing"}

	rec, _ := m.processRow(header, row)
	if got, want := rec["field_edtf_date"], "1999"; got != want {
		t.Errorf("field_edtf_date = %q; want %q", got, want)
	}
	if got, want := rec["field_date_str"], "circa 1999"; got != want {
		t.Errorf("field_date_str = %q; want %q", got, want)
	}

	var found bool
	for _, e := range m.rep.ExceptionsFor("pitt:dated") {
		if e.Reason == "found invalid dates" && e.Value == "not-a-date" {
			found = true
		}
	}
	if !found {
		t.Errorf("no invalid-dates exception logged: %+v", m.rep.Exceptions())
	}
}

func TestProcessRowUnmappedColumn(t *testing.T) {
	m := testMain(t)
	header := []string{
		"PID",
		"mods_titleInfo_title_ms",
		"RELS_EXT_hasModel_uri_ms",
		"mods_unheard_of_field_ms",
		"fedora_datastream_info_JP2_ID_ms", // allow-listed
	}
	row := []string{"pitt:11", "T", "info:fedora/islandora:sp_pdf", "x", "JP2"}

	m.processRow(header, row)
	exc := m.rep.ExceptionsFor("pitt:11")
	if len(exc) != 1 {
		t.Fatalf("got %d exceptions; want 1: %+v", len(exc), exc)
	}
	if exc[0].Field != "mods_unheard_of_field_ms" ||
		!strings.Contains(exc[0].Reason, "could not find matching destination field") {
		t.Errorf("unexpected exception: %+v", exc[0])
	}
}

func TestProcessRowSourceWholeCell(t *testing.T) {
	m := testMain(t)
	m.tables.FieldMapping = append(m.tables.FieldMapping,
		FieldMap{SolrField: "mods_relatedItem_host_titleInfo_title_ms", MachineName: "field_source_collection"})
	m.tables.Sources = []map[string]string{
		{
			"mods_relatedItem_host_titleInfo_title_ms": "Series I,Series II",
			"field_source_collection":                  "Darlington Family Papers",
			"field_source_repository":                  "repository:darlington",
		},
	}

	header := []string{
		"PID",
		"mods_titleInfo_title_ms",
		"RELS_EXT_hasModel_uri_ms",
		"mods_relatedItem_host_titleInfo_title_ms",
	}
	row := []string{
		"pitt:src",
		"Letter",
		"info:fedora/islandora:sp_large_image_cmodel",
		"Series I, Series II",
	}

	rec, skipped := m.processRow(header, row)
	if skipped {
		t.Fatal("record skipped")
	}

	// the multi-valued cell matches as a whole, not token by token
	if got, want := rec["field_source_collection"], "Darlington Family Papers"; got != want {
		t.Errorf("field_source_collection = %q; want %q", got, want)
	}
	if got, want := rec["field_source_repository"], "repository:darlington"; got != want {
		t.Errorf("field_source_repository = %q; want %q", got, want)
	}
	if exc := m.rep.Exceptions(); len(exc) != 0 {
		t.Errorf("got exceptions %+v; want none", exc)
	}
}

func TestOrderFiles(t *testing.T) {
	files := []string{
		"pitt_collection_100.csv",
		"pitt_collection_131.csv", // ignored
		"pitt_collection_49.csv",  // held
		"pitt_collection_101.csv",
	}
	got := orderFiles(files)
	want := []string{
		"pitt_collection_100.csv",
		"pitt_collection_101.csv",
		"pitt_collection_49.csv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestSortParentsFirst(t *testing.T) {
	records := []ClosedRecord{
		{"id": "pitt:2", "parent_id": "pitt:1", "field_model": "Page"},
		{"id": "pitt:1", "parent_id": "pitt:0", "field_model": "Paged Content"},
		{"id": "pitt:3", "parent_id": "pitt:1", "field_model": "Page"},
	}
	sortParentsFirst(records)
	if records[0]["id"] != "pitt:1" {
		t.Errorf("first record = %s; want parent pitt:1", records[0]["id"])
	}
	if records[0]["parent_id"] != "" {
		t.Errorf("parent model kept parent_id %q; want cleared", records[0]["parent_id"])
	}
	if records[1]["id"] != "pitt:2" || records[2]["id"] != "pitt:3" {
		t.Errorf("children reordered: %v", records)
	}
}

func TestWriteRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	records := []ClosedRecord{
		{"id": "a", "title": "One", "field_custom": "x", "field_empty": ""},
		{"id": "b", "title": "Two", "field_custom": "", "field_empty": ""},
	}
	if err := writeRecords(path, records); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	wantHeader := []string{"id", "title", "field_custom"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v; want %v", rows[0], wantHeader)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows; want 3", len(rows))
	}
	if rows[1][1] != "One" || rows[2][1] != "Two" {
		t.Errorf("unexpected rows: %v", rows[1:])
	}
}

const sampleExport = `PID,mods_titleInfo_title_ms,mods_name_personal_namePart_ms,RELS_EXT_hasModel_uri_ms
pitt:1,Letter,"Smith\, John",info:fedora/islandora:sp_large_image_cmodel
pitt:2,Mystery,,info:fedora/islandora:unknownCModel
pitt:3,Map,,info:fedora/islandora:sp_pdf
`

func TestProcessFile(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inDir, "pitt_collection_1.csv"), []byte(sampleExport), 0644); err != nil {
		t.Fatal(err)
	}

	inv := &Inventory{index: make(map[string]*inventoryEntry)}
	m := newMain(inDir, outDir, testTables(), inv, -1, nil)
	m.rep.SetFile("pitt_collection_1.csv")

	n, err := m.processFile(context.Background(), "pitt_collection_1.csv", "2026-01-01-000000")
	if err != nil {
		t.Fatal(err)
	}
	// pitt:2 is skipped for its unmapped model
	if n != 2 {
		t.Fatalf("got %d records; want 2", n)
	}

	out := filepath.Join(outDir, "pitt_collection_1_2026-01-01-000000.csv")
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output file not written: %v", err)
	}
}

func TestProcessFileCancelled(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inDir, "c.csv"), []byte(sampleExport), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := &Inventory{index: make(map[string]*inventoryEntry)}
	m := newMain(inDir, outDir, testTables(), inv, -1, nil)
	if _, err := m.processFile(ctx, "c.csv", "ts"); err != context.Canceled {
		t.Fatalf("got %v; want context.Canceled", err)
	}
}
