package main

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

var inventoryHeader = []string{
	"File",
	"PID",
	"mods_titleInfo_title_ms",
	"RELS_EXT_isMemberOfCollection_uri_ms",
	"RELS_EXT_hasModel_uri_ms",
	"fedora_datastream_info_HOCR_ID_ms",
	"fedora_datastream_info_JP2_ID_ms",
	"fedora_datastream_info_TRANSCRIPT_ID_ms",
	"Num_Pages",
}

// inventoryEntry is one row of the cross-run object ledger.
type inventoryEntry struct {
	File       string
	PID        string
	Title      string
	Collection string
	Model      string
	HOCR       string
	JP2        string
	Transcript string
	NumPages   int
}

// Inventory is the CSV-backed ledger of objects seen across runs. Pages
// roll up into their parent entry as a page count. A PID first seen under
// one file is skipped when it reappears under another.
type Inventory struct {
	path    string
	entries []*inventoryEntry
	index   map[string]*inventoryEntry
}

// LoadInventory reads the ledger from path, or starts an empty one if the
// file does not exist yet.
func LoadInventory(path string) (*Inventory, error) {
	inv := &Inventory{
		path:  path,
		index: make(map[string]*inventoryEntry),
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return inv, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil && err != io.EOF {
		return nil, err
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for len(rec) < len(inventoryHeader) {
			rec = append(rec, "")
		}
		pages, _ := strconv.Atoi(rec[8])
		e := &inventoryEntry{
			File:       rec[0],
			PID:        rec[1],
			Title:      rec[2],
			Collection: rec[3],
			Model:      rec[4],
			HOCR:       rec[5],
			JP2:        rec[6],
			Transcript: rec[7],
			NumPages:   pages,
		}
		inv.entries = append(inv.entries, e)
		inv.index[e.PID] = e
	}
	return inv, nil
}

// normalizeURIs removes the Fedora prefix from a comma-separated URI cell,
// deduplicates and sorts the values, and joins them with a pipe.
func normalizeURIs(value string) string {
	seen := make(map[string]bool)
	for _, v := range strings.Split(value, ",") {
		seen[v] = true
	}
	uniq := make([]string, 0, len(seen))
	for v := range seen {
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)
	for i, v := range uniq {
		if j := strings.LastIndex(v, "/"); j != -1 {
			v = v[j+1:]
		}
		uniq[i] = v
	}
	return strings.Join(uniq, "|")
}

// Handle records one Solr row in the ledger and reports whether the row
// should be skipped because its object was already migrated under a
// different file. Page rows are counted against their parent object.
func (inv *Inventory) Handle(file string, row map[string]string) bool {
	pid := row["PID"]
	model := row["RELS_EXT_hasModel_uri_ms"]
	page := false
	for _, m := range strings.Split(model, ",") {
		if inList(strings.TrimSpace(m), pageModels) {
			page = true
			break
		}
	}

	if page {
		pid = strings.TrimPrefix(row["RELS_EXT_isMemberOf_uri_ms"], "info:fedora/")
	}

	if e, ok := inv.index[pid]; ok {
		if e.File != file {
			return true
		}
		if page {
			e.NumPages++
		} else if e.Model == "" {
			e.Title = row["mods_titleInfo_title_ms"]
			e.Collection = normalizeURIs(row["RELS_EXT_isMemberOfCollection_uri_ms"])
			e.Model = normalizeURIs(model)
			e.HOCR = row["fedora_datastream_info_HOCR_ID_ms"]
			e.JP2 = row["fedora_datastream_info_JP2_ID_ms"]
			e.Transcript = row["fedora_datastream_info_TRANSCRIPT_ID_ms"]
		}
		return false
	}

	e := &inventoryEntry{File: file, PID: pid}
	if page {
		e.NumPages = 1
	} else {
		e.Title = row["mods_titleInfo_title_ms"]
		e.Collection = normalizeURIs(row["RELS_EXT_isMemberOfCollection_uri_ms"])
		e.Model = normalizeURIs(model)
		e.HOCR = row["fedora_datastream_info_HOCR_ID_ms"]
		e.JP2 = row["fedora_datastream_info_JP2_ID_ms"]
		e.Transcript = row["fedora_datastream_info_TRANSCRIPT_ID_ms"]
	}
	inv.entries = append(inv.entries, e)
	inv.index[pid] = e
	return false
}

// Save persists the ledger back to its CSV file.
func (inv *Inventory) Save() error {
	rows := [][]string{inventoryHeader}
	for _, e := range inv.entries {
		rows = append(rows, []string{
			e.File,
			e.PID,
			e.Title,
			e.Collection,
			e.Model,
			e.HOCR,
			e.JP2,
			e.Transcript,
			strconv.Itoa(e.NumPages),
		})
	}
	return writeRows(inv.path, rows)
}
