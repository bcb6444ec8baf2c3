// marc2csv converts a MARC database export into a CSV file for
// metadata review.
//
// Input is a file in binary MARC or MARCXML (format is detected),
// output is one CSV row per record with a fixed set of columns.
// Records without a 001 control field are logged and skipped.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/boutros/marc"
)

// Main represents the marc2csv program.
type Main struct {
	in     io.Reader
	out    io.Writer
	format marc.Format
}

func newMain(in io.Reader, out io.Writer, format marc.Format) *Main {
	return &Main{
		in:     in,
		out:    out,
		format: format,
	}
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("marc2csv: ")
}

func main() {
	var (
		in  = flag.String("in", "", "MARC database (binary MARC or MARCXML)")
		out = flag.String("out", "records.csv", "output CSV file")
	)
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	// Detect format
	sniff := make([]byte, 64)
	if _, err = f.Read(sniff); err != nil {
		log.Fatal(err)
	}
	format := marc.DetectFormat(sniff)
	switch format {
	case marc.MARC, marc.MARCXML:
		break
	default:
		log.Fatal("unknown MARC format")
	}

	// rewind reader
	if _, err = f.Seek(0, 0); err != nil {
		log.Fatal(err)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer outFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := newMain(f, outFile, format)
	if err := m.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

func (m *Main) Run(ctx context.Context) error {
	dec := marc.NewDecoder(m.in, m.format)
	w := csv.NewWriter(m.out)
	if err := w.Write(fieldnames); err != nil {
		return err
	}

	n, skipped := 0, 0
	for rec, err := dec.Decode(); err != io.EOF; rec, err = dec.Decode() {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		pid := ctrlValue(rec, "001")
		if pid == "" {
			skipped++
			log.Printf("record %d has no 001 control field, skipped", n+skipped)
			continue
		}

		if err := w.Write(recordRow(rec, pid)); err != nil {
			return err
		}
		n++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("done: %d records written, %d skipped", n, skipped)
	return nil
}

// recordRow extracts the output columns from a MARC record, in
// fieldnames order.
func recordRow(r *marc.Record, pid string) []string {
	row := make([]string, len(fieldnames))
	row[0] = pid
	row[1] = recordType(r)
	row[2] = title(r)
	row[3] = personalName(r, "100")
	row[4] = personalName(r, "700")
	row[5] = trimPunct(firstVal(r, "260", "b"))
	row[6] = trimPunct(firstVal(r, "260", "c"))
	row[7] = trimPunct(firstVal(r, "300", "a"))
	row[8] = subjects(r)
	row[9] = genres(r)
	row[10] = language(r)
	return row
}

func recordType(r *marc.Record) string {
	if len(r.Leader) < 7 {
		return ""
	}
	if t, ok := recordTypes[r.Leader[6]]; ok {
		return t
	}
	return r.Leader[6:7]
}

func title(r *marc.Record) string {
	a := trimPunct(firstVal(r, "245", "a"))
	b := trimPunct(firstVal(r, "245", "b"))
	if b == "" {
		return a
	}
	return a + ": " + b
}

// personalName joins all names from the given tag with a pipe. Dates
// from $d are appended to the name, and the relator term from $e is
// appended in brackets.
func personalName(r *marc.Record, tag string) string {
	var names []string
	for _, f := range r.DataFields {
		if f.Tag != tag {
			continue
		}
		name := trimPunct(subVal(f, "a"))
		if name == "" {
			continue
		}
		if d := trimPunct(subVal(f, "d")); d != "" {
			name += ", " + d
		}
		if e := trimPunct(subVal(f, "e")); e != "" {
			name += fmt.Sprintf(" [%s]", e)
		}
		names = append(names, name)
	}
	return strings.Join(names, "|")
}

// subjects joins the subdivisions of each 650 heading with "--", and
// the headings with a pipe.
func subjects(r *marc.Record) string {
	var headings []string
	for _, f := range r.DataFields {
		if f.Tag != "650" {
			continue
		}
		var parts []string
		for _, code := range subjectCodes {
			for _, s := range f.SubFields {
				if s.Code == code {
					if v := trimPunct(s.Value); v != "" {
						parts = append(parts, v)
					}
				}
			}
		}
		if len(parts) > 0 {
			headings = append(headings, strings.Join(parts, "--"))
		}
	}
	return strings.Join(headings, "|")
}

func genres(r *marc.Record) string {
	var terms []string
	for _, f := range r.DataFields {
		if f.Tag == "655" {
			if v := trimPunct(subVal(f, "a")); v != "" {
				terms = append(terms, v)
			}
		}
	}
	return strings.Join(terms, "|")
}

// language returns the language code from 008 positions 35-37.
func language(r *marc.Record) string {
	v := ctrlValue(r, "008")
	if len(v) < 38 {
		return ""
	}
	return strings.TrimSpace(v[35:38])
}

func ctrlValue(r *marc.Record, tag string) string {
	for _, f := range r.CtrlFields {
		if f.Tag == tag {
			return f.Value
		}
	}
	return ""
}

// firstVal returns the first value of a given tag and subfield code
// of a Record, or empty string if not found.
func firstVal(r *marc.Record, tag string, code string) string {
	for _, f := range r.DataFields {
		if f.Tag == tag {
			for _, s := range f.SubFields {
				if s.Code == code {
					return s.Value
				}
			}
		}
	}
	return ""
}

func subVal(f marc.DField, code string) string {
	for _, s := range f.SubFields {
		if s.Code == code {
			return s.Value
		}
	}
	return ""
}

func trimPunct(s string) string {
	return strings.Trim(strings.TrimSpace(s), " /:;,.")
}
