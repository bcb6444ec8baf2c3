// ingestsheet merges a migration manifest with a vetted metadata sheet
// and prepares islandora workbench ingest batches.
//
// Input:
//   - manifest CSV or XLSX (id, file, model, domain columns)
//   - metadata CSV or XLSX keyed by identifier
//   - mapping tables directory
//   - IMPORT_PASSWORD in the environment or a .env file
//
// Output, under the batch directory:
//   - metadata/<batch>_<n>_ingest_<level>.csv   numbered ingest sheets
//   - configs/<batch>_<n>_ingest_<level>.yml    workbench config per sheet
//   - logs/<prefix>_unmatched.csv               metadata rows without a manifest match
//   - logs/<prefix>_exceptions.csv              values that could not be resolved
//   - logs/<prefix>_transformations.csv         values changed or dropped
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Main runs the ingest sheet preparation.
type Main struct {
	userID     string
	batchPath  string
	batchDir   string
	filePrefix string
	task       string
	level      string
	host       string
	publish    bool
	password   string

	tables  *Tables
	rep     *Report
	batcher *Batcher
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("ingestsheet: ")
}

func main() {
	var (
		userID    = flag.String("user", "", "user ID for the workbench config")
		batchPath = flag.String("batch", "", "path to the workbench batch directory")
		batchSize = flag.Int("size", 10000, "maximum records per ingest sheet")
		manifest  = flag.String("manifest", "", "manifest CSV or XLSX file")
		metadata  = flag.String("metadata", "", "metadata CSV or XLSX file")
		tablesDir = flag.String("tables", "tables", "directory with mapping tables")
		task      = flag.String("task", "create", "workbench task (create or update)")
		level     = flag.String("level", "complete", "metadata level (minimal or complete)")
		host      = flag.String("host", "https://digital.library.pitt.edu", "target site")
		publish   = flag.Bool("publish", false, "publish ingested objects")
	)
	flag.Parse()

	for _, req := range []struct{ name, v string }{
		{"-user", *userID},
		{"-batch", *batchPath},
		{"-manifest", *manifest},
		{"-metadata", *metadata},
	} {
		if req.v == "" {
			log.Fatalf("missing required flag %s", req.name)
		}
	}
	if *task != "create" && *task != "update" {
		log.Fatal("-task must be create or update")
	}
	if *level != "minimal" && *level != "complete" {
		log.Fatal("-level must be minimal or complete")
	}

	// .env is optional; the variable may come from the environment
	godotenv.Load()
	password := os.Getenv("IMPORT_PASSWORD")
	if password == "" {
		log.Fatal("IMPORT_PASSWORD is not set")
	}

	tables, err := LoadTables(*tablesDir)
	if err != nil {
		log.Fatal(err)
	}

	m := newMain(*userID, *batchPath, *task, *level, *host, *publish, password, tables, *batchSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := m.Run(ctx, *manifest, *metadata); err != nil {
		log.Fatal(err)
	}
}

func newMain(userID, batchPath, task, level, host string, publish bool, password string, tables *Tables, batchSize int) *Main {
	batchDir := filepath.Base(strings.TrimRight(batchPath, string(os.PathSeparator)))
	m := &Main{
		userID:     userID,
		batchPath:  batchPath,
		batchDir:   batchDir,
		filePrefix: batchDir + "_" + time.Now().Format("2006-01-02-150405"),
		task:       task,
		level:      level,
		host:       host,
		publish:    publish,
		password:   password,
		tables:     tables,
		rep:        &Report{},
	}
	m.batcher = newBatcher(m, batchSize)
	return m
}

// Run merges the input sheets and writes the ingest batches.
func (m *Main) Run(ctx context.Context, manifestPath, metadataPath string) error {
	if err := SetupBatchDir(m.batchPath); err != nil {
		return err
	}
	logDir := filepath.Join(m.batchPath, "logs")

	manifest, err := ReadSheet(manifestPath)
	if err != nil {
		return err
	}
	metadata, err := ReadSheet(metadataPath)
	if err != nil {
		return err
	}

	merged, unmatched := MergeSheets(manifest, metadata, m.task)
	if len(unmatched.Rows) > 0 {
		path := filepath.Join(logDir, m.filePrefix+"_unmatched.csv")
		log.Printf("%d unmatched metadata rows, writing to %s", len(unmatched.Rows), path)
		if err := unmatched.WriteCSV(path); err != nil {
			return err
		}
	}

	published := "0"
	if m.publish {
		published = "1"
	}

	m.rep.SetBatch(1)
	for i, row := range merged.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		row["published"] = published

		rec := m.processRecord(row)
		m.validateRecord(rec, merged)
		if m.level == "minimal" {
			rec.RemoveVetted()
		}
		if err := m.batcher.Add(rec.Close()); err != nil {
			return err
		}
		if (i+1)%1000 == 0 {
			log.Printf("processed %d/%d records", i+1, len(merged.Rows))
		}
	}
	if err := m.batcher.Flush(); err != nil {
		return err
	}

	return m.rep.WriteCSV(logDir, m.filePrefix)
}

// processRecord turns one merged sheet row into an ingest record. A panic
// while processing is recovered into an exception entry so one bad row
// never aborts the run.
func (m *Main) processRecord(row map[string]string) (rec *Record) {
	pid := normalizeID(row["id"])
	rec = newRecord(m.tables.Schema)
	rec.Add("id", pid)

	defer func() {
		if r := recover(); r != nil {
			m.rep.AddException(pid, "row_error", "", fmt.Sprint(r))
		}
	}()

	var title titleParts
	for column, data := range row {
		fm, ok := m.tables.FieldFor(column)
		if !ok {
			if data != "" {
				m.rep.AddException(pid, column, data,
					"could not find matching destination field")
			}
			continue
		}
		field := fm.MachineName

		var values []string
		if inList(field, delimitedFields) {
			values = splitDelimited(data)
		} else if v := cleanValue(data); v != "" {
			values = []string{v}
		}

		for _, value := range values {
			switch {
			case field == "id":
				continue
			case field == "field_full_title":
				switch column {
				case "volume":
					title.volume = value
				case "number":
					title.number = value
				default:
					title.title = value
				}
				continue
			case field == "field_model":
				if !m.processModel(rec, column, value) {
					continue
				}
			case field == "field_member_of":
				value = m.validateCollectionID(pid, value)
			case field == "field_domain_access":
				m.validateDomain(pid, value)
			case field == "field_coordinates":
				m.validateCoordinates(pid, value)
			case inList(field, dateFields):
				m.validateEDTF(pid, value)
			case field == "field_language":
				if term, ok := m.tables.Languages[value]; ok {
					value = term
				}
				m.validateTerm(pid, column, value, fm.Taxonomy)
			case field == "field_mode_of_issuance":
				if term, ok := issuanceMapping[value]; ok {
					value = term
				}
				m.validateTerm(pid, column, value, fm.Taxonomy)
			case field == "field_rights_statement":
				if term, ok := copyrightStatusMapping[strings.ToLower(value)]; ok {
					value = term
				}
				m.validateTerm(pid, column, value, fm.Taxonomy)
			case inList(field, controlledFields):
				m.validateTerm(pid, column, value, fm.Taxonomy)
			}
			rec.AddPrefixed(field, fm.Prefix, value)
		}
	}

	if t := title.String(); t != "" {
		rec.Add("title", t)
		rec.Add("field_full_title", t)
	}
	return rec
}

// processModel validates the model term and derives the resource type and
// display hint from it. An unknown model keeps the record but logs it for
// review.
func (m *Main) processModel(rec *Record, column, value string) bool {
	term, ok := modelMapping[value]
	if !ok {
		m.rep.AddTransformation(rec.PID(), column, value, "",
			"could not find term in model taxonomy")
		return false
	}
	rec.Add("field_resource_type", term.ResourceType)
	if term.DisplayHint != "" {
		rec.Add("field_display_hints", term.DisplayHint)
	}
	return true
}
