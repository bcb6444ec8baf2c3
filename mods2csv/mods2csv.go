// mods2csv converts a directory of MODS XML descriptions to one CSV
// sheet for metadata review.
//
// Input: directory of MODS XML files (one object per file)
// Output: CSV with one row per object, multi-values joined with "; "
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
)

// Main converts MODS files to a review sheet.
type Main struct {
	inDir   string
	outFile string
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("mods2csv: ")
}

func main() {
	var (
		inDir   = flag.String("indir", "", "directory with MODS XML files")
		outFile = flag.String("out", "mods.csv", "output CSV file")
	)
	flag.Parse()

	if *inDir == "" {
		log.Fatal("missing required flag -indir")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := newMain(*inDir, *outFile)
	if err := m.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

func newMain(inDir, outFile string) *Main {
	return &Main{inDir: inDir, outFile: outFile}
}

// Run converts every XML file in the input directory and writes the
// combined sheet. Files that fail to parse are logged and skipped.
func (m *Main) Run(ctx context.Context) error {
	entries, err := os.ReadDir(m.inDir)
	if err != nil {
		return err
	}

	var records []map[string]string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xml") {
			continue
		}
		f, err := os.Open(filepath.Join(m.inDir, e.Name()))
		if err != nil {
			return err
		}
		rec, err := ExtractRecord(f, e.Name())
		f.Close()
		if err != nil {
			log.Printf("%s: %v, skipped", e.Name(), err)
			continue
		}
		records = append(records, rec.Flatten())
	}

	if len(records) == 0 {
		log.Print("no records to save, output file not created")
		return nil
	}
	log.Printf("%d records extracted", len(records))
	return writeRecords(m.outFile, records)
}

// writeRecords writes one row per record, columns in the fieldnames
// priority order with unrecognized columns appended sorted.
func writeRecords(path string, records []map[string]string) error {
	present := make(map[string]bool)
	for _, r := range records {
		for column := range r {
			present[column] = true
		}
	}

	var columns []string
	for _, c := range fieldnames {
		if present[c] {
			columns = append(columns, c)
			delete(present, c)
		}
	}
	var extra []string
	for c := range present {
		extra = append(extra, c)
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = r[c]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
