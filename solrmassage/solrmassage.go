// solrmassage massages Solr index exports from the legacy repository into
// ingest sheets for the target platform.
//
// input:
//   indir:  directory of Solr export CSVs, one per collection
//   tables: directory of curated mapping tables (field mapping, name and
//           subject authorities, genre/form/source/language/country/date
//           remediation tables, target field schema)
//
// output:
//   one massaged CSV per input file, timestamp-qualified
//   <timestamp>_exceptions.csv and <timestamp>_transformations.csv reports
//   object_inventory.csv, the cross-run ledger of migrated objects
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Progress is a per-file progress update, sent over a channel so a
// consumer on another goroutine can report without touching shared state.
type Progress struct {
	File  string
	Done  int
	Total int
}

// Main represents the main program execution.
type Main struct {
	inDir    string
	outDir   string
	tables   *Tables
	inv      *Inventory
	rep      *Report
	dispatch map[string]fieldFunc
	limit    int
	progress chan<- Progress
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("solrmassage: ")
}

func main() {
	var (
		inDir     = flag.String("indir", "", "directory with Solr export CSV files")
		outDir    = flag.String("outdir", "", "output directory (default to current working directory)")
		tablesDir = flag.String("tables", "tables", "directory with mapping tables")
		invPath   = flag.String("inventory", "object_inventory.csv", "object inventory ledger")
		limit     = flag.Int("limit", -1, "stop after n records")
	)
	flag.Parse()

	if *inDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	tables, err := LoadTables(*tablesDir)
	if err != nil {
		log.Fatal(err)
	}
	inv, err := LoadInventory(*invPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := make(chan Progress)
	m := newMain(*inDir, *outDir, tables, inv, *limit, progress)

	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
		close(progress)
	}()

	// progress updates are consumed here, on the main goroutine
	for p := range progress {
		log.Printf("%s: %d/%d records", p.File, p.Done, p.Total)
	}
	if err := <-done; err != nil {
		log.Fatal(err)
	}
}

func newMain(inDir, outDir string, tables *Tables, inv *Inventory, limit int, progress chan<- Progress) *Main {
	m := &Main{
		inDir:    inDir,
		outDir:   outDir,
		tables:   tables,
		inv:      inv,
		rep:      &Report{},
		limit:    limit,
		progress: progress,
	}
	m.dispatch = m.buildDispatch()
	return m
}

// Run processes every CSV file in the input directory. Cancellation is
// cooperative: the context is checked once per row, and batches already
// flushed to disk stay on disk.
func (m *Main) Run(ctx context.Context) error {
	entries, err := os.ReadDir(m.inDir)
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			files = append(files, e.Name())
		}
	}
	files = orderFiles(files)

	timestamp := time.Now().Format("2006-01-02-150405")
	processed := 0
	for _, file := range files {
		m.rep.SetFile(file)
		n, err := m.processFile(ctx, file, timestamp)
		if err != nil {
			return err
		}
		processed += n
		if m.limit > 0 && processed >= m.limit {
			break
		}
	}

	if err := m.rep.WriteCSV(m.outDir, timestamp); err != nil {
		return err
	}
	return m.inv.Save()
}

// processFile transforms one Solr export CSV and writes the massaged
// records. It returns the number of records written.
func (m *Main) processFile(ctx context.Context, filename, timestamp string) (int, error) {
	f, err := os.Open(filepath.Join(m.inDir, filename))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	header, rows := rows[0], rows[1:]

	var records []ClosedRecord
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return len(records), err
		}
		if m.inv.Handle(filename, rowMap(header, row)) {
			continue
		}
		rec, skipped := m.processRow(header, row)
		if !skipped {
			records = append(records, rec)
		}
		if m.progress != nil && (i%1000 == 999 || i == len(rows)-1) {
			m.progress <- Progress{File: filename, Done: i + 1, Total: len(rows)}
		}
	}

	if len(records) == 0 {
		log.Printf("%s: no records to save, output file not created", filename)
		return 0, nil
	}

	sortParentsFirst(records)

	out := strings.TrimSuffix(filename, ".csv") + "_" + timestamp + ".csv"
	if err := writeRecords(filepath.Join(m.outDir, out), records); err != nil {
		return len(records), err
	}
	return len(records), nil
}

// processRow transforms one input row into a closed record. A panic while
// processing is recovered into an exception entry and a stub record, so
// one bad row never aborts a whole file and downstream counts stay
// consistent.
func (m *Main) processRow(header, row []string) (out ClosedRecord, skipped bool) {
	pid := ""
	for i, h := range header {
		if h == "PID" && i < len(row) {
			pid = row[i]
		}
	}

	defer func() {
		if r := recover(); r != nil {
			m.rep.AddException(pid, "row_error", "", fmt.Sprint(r))
			out = ClosedRecord{"id": pid}
			skipped = false
		}
	}()

	st := &rowState{
		rec:        newRecord(m.tables.Schema),
		pid:        pid,
		noRelator:  make(map[string]bool),
		hasRelator: make(map[string]bool),
		sourceData: make(map[string]string),
	}
	st.rec.Add("id", pid)

	for i, solrField := range header {
		if i >= len(row) {
			break
		}
		data := row[i]

		fm, ok := m.tables.FieldFor(solrField)
		if !ok {
			if !inList(solrField, unmappedFields) {
				m.rep.AddException(pid, solrField, data,
					"could not find matching destination field")
			}
			continue
		}
		field := fm.MachineName

		// source columns are matched whole-cell against the source
		// table, so they must not be split per value
		if inList(field, sourceFields) {
			m.collectSource(st, solrField, field, data)
			continue
		}

		for _, value := range splitAndClean(data) {
			if fn, ok := m.dispatch[field]; ok {
				fn(st, solrField, field, value)
			} else {
				st.rec.AddPrefixed(field, fm.Prefix, value)
			}
			if st.skip {
				return nil, true
			}
		}
	}

	m.processTitle(st)
	m.processDates(st)
	m.processSource(st)
	m.addAttributedNames(st)
	m.validateRecord(st)

	return st.rec.Close(), false
}

// orderFiles drops ignored collection files and moves held collections to
// the end, preserving the hold-list order.
func orderFiles(files []string) []string {
	var rest []string
	present := make(map[string]bool)
	for _, f := range files {
		if inList(f, collectionsToIgnore) {
			continue
		}
		present[f] = true
		if !inList(f, collectionsToHold) {
			rest = append(rest, f)
		}
	}
	for _, f := range collectionsToHold {
		if present[f] {
			rest = append(rest, f)
		}
	}
	return rest
}

// sortParentsFirst clears the parent reference on top-level models and
// stably moves records without a parent to the front, so parents are
// ingested before their children.
func sortParentsFirst(records []ClosedRecord) {
	for _, r := range records {
		if inList(r["field_model"], parentModels) {
			r["parent_id"] = ""
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i]["parent_id"] == "" && records[j]["parent_id"] != ""
	})
}

// writeRecords writes closed records as CSV. Column order follows the
// fieldnames priority list with unrecognized columns appended; columns
// empty across all records are dropped.
func writeRecords(path string, records []ClosedRecord) error {
	nonEmpty := make(map[string]bool)
	for _, r := range records {
		for field, v := range r {
			if v != "" {
				nonEmpty[field] = true
			}
		}
	}

	var columns []string
	for _, f := range fieldnames {
		if nonEmpty[f] {
			columns = append(columns, f)
			delete(nonEmpty, f)
		}
	}
	var extra []string
	for f := range nonEmpty {
		extra = append(extra, f)
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	rows := [][]string{columns}
	for _, r := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = r[c]
		}
		rows = append(rows, row)
	}
	return writeRows(path, rows)
}

func rowMap(header, row []string) map[string]string {
	res := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			res[h] = row[i]
		}
	}
	return res
}
