package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/boutros/marc"
)

const sampleMARCXML = `<?xml version="1.0" encoding="UTF-8"?>
<collection xmlns="http://www.loc.gov/MARC21/slim">
<record>
    <leader>     na  a22        4500</leader>
    <controlfield tag="001">pitt00123</controlfield>
    <controlfield tag="008">920916                a          0 eng</controlfield>
    <datafield tag="100" ind1="1" ind2=" ">
        <subfield code="a">Smith, John,</subfield>
        <subfield code="d">1870-1940.</subfield>
        <subfield code="e">photographer.</subfield>
    </datafield>
    <datafield tag="245" ind1="1" ind2="0">
        <subfield code="a">Pittsburgh from Mount Washington :</subfield>
        <subfield code="b">a panoramic view /</subfield>
        <subfield code="c">John Smith.</subfield>
    </datafield>
    <datafield tag="260" ind1=" " ind2=" ">
        <subfield code="a">Pittsburgh :</subfield>
        <subfield code="b">Kaufmann and Baer,</subfield>
        <subfield code="c">1920.</subfield>
    </datafield>
    <datafield tag="300" ind1=" " ind2=" ">
        <subfield code="a">1 photographic print ;</subfield>
    </datafield>
    <datafield tag="650" ind1=" " ind2="0">
        <subfield code="a">Bridges</subfield>
        <subfield code="z">Pennsylvania</subfield>
        <subfield code="z">Pittsburgh.</subfield>
    </datafield>
    <datafield tag="650" ind1=" " ind2="0">
        <subfield code="a">Rivers.</subfield>
    </datafield>
    <datafield tag="655" ind1=" " ind2="7">
        <subfield code="a">Photographs.</subfield>
    </datafield>
    <datafield tag="700" ind1="1" ind2=" ">
        <subfield code="a">Doe, Jane.</subfield>
    </datafield>
</record>
<record>
    <leader>     nt  a22        4500</leader>
    <controlfield tag="008">920916                a          0 ger</controlfield>
    <datafield tag="245" ind1="1" ind2="0">
        <subfield code="a">No identifier here</subfield>
    </datafield>
</record>
<record>
    <leader>     ne  a22        4500</leader>
    <controlfield tag="001">pitt00456</controlfield>
    <datafield tag="245" ind1="1" ind2="0">
        <subfield code="a">Map of Allegheny County.</subfield>
    </datafield>
</record>
</collection>
`

func runSample(t *testing.T) [][]string {
	var out bytes.Buffer
	m := newMain(bytes.NewBufferString(sampleMARCXML), &out, marc.MARCXML)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestRun(t *testing.T) {
	rows := runSample(t)

	// header + 2 records; the record without 001 is skipped
	if len(rows) != 3 {
		t.Fatalf("got %d rows; want 3", len(rows))
	}
	if !reflect.DeepEqual(rows[0], fieldnames) {
		t.Errorf("header: got %v; want %v", rows[0], fieldnames)
	}

	want := []string{
		"pitt00123",
		"text",
		"Pittsburgh from Mount Washington: a panoramic view",
		"Smith, John, 1870-1940 [photographer]",
		"Doe, Jane",
		"Kaufmann and Baer",
		"1920",
		"1 photographic print",
		"Bridges--Pennsylvania--Pittsburgh|Rivers",
		"Photographs",
		"eng",
	}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("got:\n%v\nwant:\n%v", rows[1], want)
	}
}

func TestRunSecondRecord(t *testing.T) {
	rows := runSample(t)

	if got, want := rows[2][0], "pitt00456"; got != want {
		t.Errorf("identifier: got %q; want %q", got, want)
	}
	if got, want := rows[2][1], "cartographic material"; got != want {
		t.Errorf("type_of_record: got %q; want %q", got, want)
	}
	// no 008 field
	if got := rows[2][10]; got != "" {
		t.Errorf("language: got %q; want empty", got)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	m := newMain(bytes.NewBufferString(sampleMARCXML), &out, marc.MARCXML)
	if err := m.Run(ctx); err != context.Canceled {
		t.Errorf("got %v; want %v", err, context.Canceled)
	}
}

func TestPersonalName(t *testing.T) {
	var r marc.Record
	r.DataFields = append(r.DataFields,
		marc.DField{Tag: "700", SubFields: marc.SubFields{
			marc.SubField{Code: "a", Value: "Doe, Jane,"},
			marc.SubField{Code: "d", Value: "1900-1980."},
		}},
		marc.DField{Tag: "700", SubFields: marc.SubFields{
			marc.SubField{Code: "a", Value: "Roe, Richard."},
			marc.SubField{Code: "e", Value: "editor."},
		}},
	)

	got := personalName(&r, "700")
	want := "Doe, Jane, 1900-1980|Roe, Richard [editor]"
	if got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestSubjects(t *testing.T) {
	var r marc.Record
	r.DataFields = append(r.DataFields,
		marc.DField{Tag: "650", SubFields: marc.SubFields{
			marc.SubField{Code: "a", Value: "Steel industry"},
			marc.SubField{Code: "x", Value: "History"},
			marc.SubField{Code: "y", Value: "20th century."},
		}},
		marc.DField{Tag: "651", SubFields: marc.SubFields{
			marc.SubField{Code: "a", Value: "Ignored tag"},
		}},
	)

	got := subjects(&r)
	want := "Steel industry--History--20th century"
	if got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestTrimPunct(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Pittsburgh :", "Pittsburgh"},
		{"a panoramic view /", "a panoramic view"},
		{"1920.", "1920"},
		{"1870-1940.", "1870-1940"},
		{"  plain  ", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := trimPunct(tt.in); got != tt.want {
			t.Errorf("trimPunct(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
