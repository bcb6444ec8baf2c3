package main

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"sort"
	"testing"

	"github.com/knakk/rdf"
)

const sampleExport = `PID,RELS_EXT_isMemberOfCollection_uri_ms,RELS_EXT_hasModel_uri_ms,RELS_EXT_isMemberOf_uri_ms,mods_titleInfo_title_ms
pitt:00001,info:fedora/pitt:collection.100,info:fedora/islandora:sp_basic_image,,Skyline view
pitt:book01,info:fedora/pitt:collection.100,info:fedora/islandora:bookCModel,,Iron City gazette
pitt:book01-0001,,info:fedora/islandora:pageCModel,info:fedora/pitt:book01,Page 1
,info:fedora/pitt:collection.100,info:fedora/islandora:sp_basic_image,,No PID row
`

func parseTriples(t *testing.T, r io.Reader) []rdf.Triple {
	var res []rdf.Triple
	dec := rdf.NewTripleDecoder(r, rdf.NTriples)
	for tr, err := dec.Decode(); err != io.EOF; tr, err = dec.Decode() {
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, tr)
	}
	return res
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	m := newMain(bytes.NewBufferString(sampleExport), &out)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := parseTriples(t, bytes.NewReader(out.Bytes()))

	// 2 triples for the image, 2 for the book, 2 for the page; the
	// row without a PID contributes nothing.
	if len(got) != 6 {
		t.Fatalf("got %d triples; want 6", len(got))
	}

	var serialized []string
	for _, tr := range got {
		serialized = append(serialized, tr.Serialize(rdf.NTriples))
	}
	sort.Strings(serialized)

	want := []string{
		"<info:fedora/pitt:00001> <info:fedora/fedora-system:def/model#hasModel> <info:fedora/islandora:sp_basic_image> .\n",
		"<info:fedora/pitt:00001> <info:fedora/fedora-system:def/relations-external#isMemberOfCollection> <info:fedora/pitt:collection.100> .\n",
		"<info:fedora/pitt:book01-0001> <info:fedora/fedora-system:def/model#hasModel> <info:fedora/islandora:pageCModel> .\n",
		"<info:fedora/pitt:book01-0001> <info:fedora/fedora-system:def/relations-external#isMemberOf> <info:fedora/pitt:book01> .\n",
		"<info:fedora/pitt:book01> <info:fedora/fedora-system:def/model#hasModel> <info:fedora/islandora:bookCModel> .\n",
		"<info:fedora/pitt:book01> <info:fedora/fedora-system:def/relations-external#isMemberOfCollection> <info:fedora/pitt:collection.100> .\n",
	}
	if !reflect.DeepEqual(serialized, want) {
		t.Errorf("got:\n%v\nwant:\n%v", serialized, want)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	m := newMain(bytes.NewBufferString(sampleExport), &out)
	if err := m.Run(ctx); err != context.Canceled {
		t.Errorf("got %v; want %v", err, context.Canceled)
	}
}

func TestRowTriples(t *testing.T) {
	rec := map[string]string{
		"RELS_EXT_isMemberOfCollection_uri_ms": "info:fedora/pitt:collection.1, info:fedora/pitt:collection.2",
		"RELS_EXT_hasModel_uri_ms":             "info:fedora/islandora:sp_basic_image",
	}
	triples, err := rowTriples("pitt:99", rec)
	if err != nil {
		t.Fatal(err)
	}
	if len(triples) != 3 {
		t.Fatalf("got %d triples; want 3", len(triples))
	}
	if got, want := triples[1].Obj.String(), "info:fedora/pitt:collection.2"; got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestSplitURIs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"info:fedora/a", []string{"info:fedora/a"}},
		{"info:fedora/a, info:fedora/b", []string{"info:fedora/a", "info:fedora/b"}},
		{"info:fedora/a,,info:fedora/b", []string{"info:fedora/a", "info:fedora/b"}},
	}
	for _, tt := range tests {
		if got := splitURIs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitURIs(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
