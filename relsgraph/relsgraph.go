// relsgraph extracts the RELS-EXT relations from a Solr export CSV and
// serializes them as N-Triples, for loading into a triple store where
// the collection and paging structure can be queried before and after
// a migration run.
//
// For each row it emits one triple per value of the
// isMemberOfCollection, hasModel and isMemberOf columns, with the
// object PID as subject.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/knakk/rdf"
)

// relation maps a Solr export column to the RELS-EXT predicate its
// values were extracted from.
var relations = []struct {
	Column    string
	Predicate string
}{
	{"RELS_EXT_isMemberOfCollection_uri_ms", "info:fedora/fedora-system:def/relations-external#isMemberOfCollection"},
	{"RELS_EXT_hasModel_uri_ms", "info:fedora/fedora-system:def/model#hasModel"},
	{"RELS_EXT_isMemberOf_uri_ms", "info:fedora/fedora-system:def/relations-external#isMemberOf"},
}

// Main represents the relsgraph program.
type Main struct {
	in  io.Reader
	out io.Writer
}

func newMain(in io.Reader, out io.Writer) *Main {
	return &Main{in: in, out: out}
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("relsgraph: ")
}

func main() {
	var (
		in  = flag.String("in", "", "Solr export CSV file")
		out = flag.String("out", "rels.nt", "output N-Triples file")
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

	outFile, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer outFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := newMain(f, outFile)
	if err := m.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

func (m *Main) Run(ctx context.Context) error {
	r := csv.NewReader(m.in)
	header, err := r.Read()
	if err != nil {
		return err
	}

	enc := rdf.NewTripleEncoder(m.out, rdf.NTriples)
	defer enc.Close()

	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		pid := rec["PID"]
		if pid == "" {
			continue
		}

		triples, err := rowTriples(pid, rec)
		if err != nil {
			return err
		}
		if err := enc.EncodeAll(triples); err != nil {
			return err
		}
		n += len(triples)
	}

	log.Printf("done: %d triples written", n)
	return nil
}

// rowTriples builds the RELS-EXT triples for a single export row.
func rowTriples(pid string, rec map[string]string) ([]rdf.Triple, error) {
	subj, err := rdf.NewIRI("info:fedora/" + pid)
	if err != nil {
		return nil, err
	}

	var triples []rdf.Triple
	for _, rel := range relations {
		pred, err := rdf.NewIRI(rel.Predicate)
		if err != nil {
			return nil, err
		}
		for _, v := range splitURIs(rec[rel.Column]) {
			obj, err := rdf.NewIRI(v)
			if err != nil {
				return nil, err
			}
			triples = append(triples, rdf.Triple{Subj: subj, Pred: pred, Obj: obj})
		}
	}
	return triples, nil
}

// splitURIs splits a multi-valued Solr export cell. URIs contain no
// commas, so a plain split is safe here.
func splitURIs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
