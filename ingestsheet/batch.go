package main

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SetupBatchDir creates the batch directory scaffold. Existing
// directories are left alone, so reruns are safe.
func SetupBatchDir(batchPath string) error {
	if err := os.MkdirAll(batchPath, 0755); err != nil {
		return err
	}
	for _, sub := range batchSubdirs {
		if err := os.MkdirAll(filepath.Join(batchPath, sub), 0755); err != nil {
			return err
		}
	}
	return nil
}

// Batcher buffers closed records and flushes them to numbered ingest
// sheets. A flush happens only when an incoming record starts a new
// top-level group, so a parent and its children always land in the same
// file.
type Batcher struct {
	m      *Main
	size   int
	buffer []ClosedRecord
	n      int
}

func newBatcher(m *Main, size int) *Batcher {
	return &Batcher{m: m, size: size, n: 1}
}

// Add appends a record to the current batch, flushing first if the batch
// is full and the record opens a new group.
func (b *Batcher) Add(rec ClosedRecord) error {
	if len(b.buffer) >= b.size && topLevel(rec) {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.buffer = append(b.buffer, rec)
	b.m.rep.SetBatch(b.n)
	return nil
}

// topLevel reports whether a record starts a new parent/child group.
func topLevel(rec ClosedRecord) bool {
	return rec["parent_id"] == "" || inList(rec["field_model"], parentModels)
}

// Flush writes the buffered records as one ingest sheet and its workbench
// config, then starts the next batch.
func (b *Batcher) Flush() error {
	if len(b.buffer) == 0 {
		return nil
	}

	prefix := b.m.filePrefix + "_" + strconv.Itoa(b.n) + "_ingest_" + b.m.level
	path := filepath.Join(b.m.batchPath, "metadata", prefix+".csv")
	if err := b.writeRecords(path); err != nil {
		return err
	}
	log.Printf("batch %d: %d records written to %s", b.n, len(b.buffer), path)

	media := false
	for _, rec := range b.buffer {
		if rec["transcript"] != "" {
			media = true
		}
	}
	if err := b.m.writeConfig(prefix, media); err != nil {
		return err
	}

	b.n++
	b.buffer = b.buffer[:0]
	b.m.rep.SetBatch(b.n)
	return nil
}

// writeRecords writes the buffer, parents first, columns in schema order
// with unrecognized columns appended sorted.
func (b *Batcher) writeRecords(path string) error {
	records := make([]ClosedRecord, len(b.buffer))
	copy(records, b.buffer)

	for _, r := range records {
		if inList(r["field_model"], parentModels) {
			delete(r, "parent_id")
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i]["parent_id"] == "" && records[j]["parent_id"] != ""
	})

	present := make(map[string]bool)
	for _, r := range records {
		for field := range r {
			present[field] = true
		}
	}
	var columns []string
	for _, f := range b.m.tables.Schema {
		if present[f.Field] {
			columns = append(columns, f.Field)
			delete(present, f.Field)
		}
	}
	var extra []string
	for f := range present {
		extra = append(extra, f)
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

// workbenchConfig is the islandora workbench configuration written next
// to each ingest sheet.
type workbenchConfig struct {
	Task            string   `yaml:"task"`
	Host            string   `yaml:"host"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	InputDir        string   `yaml:"input_dir"`
	InputCSV        string   `yaml:"input_csv"`
	IDField         string   `yaml:"id_field"`
	AllowAdoption   bool     `yaml:"allow_adoption_by_collection"`
	Published       bool     `yaml:"published"`
	LogFilePath     string   `yaml:"log_file_path"`
	RollbackDir     string   `yaml:"rollback_dir"`
	TempDir         string   `yaml:"temp_dir"`
	AdditionalFiles []string `yaml:"additional_files,omitempty"`
}

// writeConfig writes the workbench config for one batch into configs/.
func (m *Main) writeConfig(prefix string, withTranscripts bool) error {
	idField := "id"
	if m.task == "update" {
		idField = "node_id"
	}
	cfg := workbenchConfig{
		Task:          m.task,
		Host:          m.host,
		Username:      m.userID,
		Password:      m.password,
		InputDir:      filepath.Join(m.batchPath, "metadata"),
		InputCSV:      prefix + ".csv",
		IDField:       idField,
		AllowAdoption: true,
		Published:     m.publish,
		LogFilePath:   filepath.Join(m.batchPath, "logs", prefix+".log"),
		RollbackDir:   filepath.Join(m.batchPath, "rollback"),
		TempDir:       filepath.Join(m.batchPath, "tmp"),
	}
	if withTranscripts {
		cfg.AdditionalFiles = []string{"transcript"}
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := filepath.Join(m.batchPath, "configs", prefix+".yml")
	return os.WriteFile(path, out, 0644)
}
