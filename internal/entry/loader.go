package entry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/pgzip"
	"gopkg.in/yaml.v3"

	"github.com/enasequence/sequencetools-sub002/internal/location"
)

// Feature table documents are YAML:
//
//	entries:
//	  - accession: X56734
//	    sequence: atgaaagcgtaa
//	    features:
//	      - key: CDS
//	        location: "1..12"
//	        qualifiers:
//	          - {name: transl_table, value: "11"}
//	          - {name: pseudo}
type featureTableDoc struct {
	Entries []entryDoc `yaml:"entries"`
}

type entryDoc struct {
	Accession   string       `yaml:"accession"`
	Description string       `yaml:"description,omitempty"`
	Sequence    string       `yaml:"sequence,omitempty"`
	Features    []featureDoc `yaml:"features,omitempty"`
}

type featureDoc struct {
	Key        string         `yaml:"key"`
	Location   string         `yaml:"location"`
	Qualifiers []qualifierDoc `yaml:"qualifiers,omitempty"`
}

type qualifierDoc struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
}

// OpenFile opens path for reading, decompressing .gz files.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	return &gzipFile{Reader: gz, file: f}, nil
}

type gzipFile struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}

// ReadFeatureTable parses a YAML feature table into a new set.
func ReadFeatureTable(r io.Reader) (*Set, error) {
	var doc featureTableDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("decode feature table: %w", err)
	}

	set := NewSet()
	for i, ed := range doc.Entries {
		if ed.Accession == "" {
			return nil, fmt.Errorf("entry %d: missing accession", i+1)
		}
		e := &Entry{
			Accession:   ed.Accession,
			Description: ed.Description,
			Sequence:    []byte(strings.Join(strings.Fields(ed.Sequence), "")),
		}
		for j, fd := range ed.Features {
			loc, err := location.Parse(fd.Location)
			if err != nil {
				return nil, fmt.Errorf("entry %s feature %d: %w", ed.Accession, j+1, err)
			}
			f := &Feature{Key: fd.Key, Loc: loc}
			for _, q := range fd.Qualifiers {
				f.AddQualifier(q.Name, q.Value)
			}
			e.Features = append(e.Features, f)
		}
		set.Add(e)
	}
	return set, nil
}

// LoadFeatureTable reads a feature table file, optionally gzipped.
func LoadFeatureTable(path string) (*Set, error) {
	rc, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadFeatureTable(rc)
}

// WriteFeatureTable writes set as a YAML feature table. Sequences are only
// written when withSequence is set.
func WriteFeatureTable(w io.Writer, set *Set, withSequence bool) error {
	doc := featureTableDoc{Entries: make([]entryDoc, 0, set.Len())}
	for _, e := range set.Entries() {
		ed := entryDoc{Accession: e.Accession, Description: e.Description}
		if withSequence {
			ed.Sequence = string(e.Sequence)
		}
		for _, f := range e.Features {
			fd := featureDoc{Key: f.Key, Location: f.Loc.String()}
			for _, q := range f.Qualifiers {
				fd.Qualifiers = append(fd.Qualifiers, qualifierDoc{Name: q.Name, Value: q.Value})
			}
			ed.Features = append(ed.Features, fd)
		}
		doc.Entries = append(doc.Entries, ed)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode feature table: %w", err)
	}
	return enc.Close()
}

// ReadFASTA attaches FASTA sequences to entries in set by accession.
// Sequences for unknown accessions create new entries without features.
// It returns the number of sequences read.
func ReadFASTA(r io.Reader, set *Set) (int, error) {
	fr := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant))
	n := 0
	for {
		s, err := fr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return n, fmt.Errorf("read FASTA: %w", err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return n, fmt.Errorf("read FASTA: unexpected sequence type %T", s)
		}

		bases := make([]byte, len(ls.Seq))
		for i, l := range ls.Seq {
			bases[i] = byte(l)
		}

		acc := parseAccession(ls.Name())
		e := set.Get(acc)
		if e == nil {
			e = &Entry{Accession: acc, Description: ls.Desc}
			set.Add(e)
		}
		e.Sequence = bases
		n++
	}
	return n, nil
}

// LoadFASTA reads a FASTA file, optionally gzipped, into set.
func LoadFASTA(path string, set *Set) (int, error) {
	rc, err := OpenFile(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return ReadFASTA(rc, set)
}

// parseAccession extracts the accession from a FASTA identifier.
// Handles ENA style "ENA|X56734|X56734.1" and plain "X56734.1".
func parseAccession(id string) string {
	if fields := strings.Split(id, "|"); len(fields) >= 2 {
		id = fields[1]
	}
	return stripVersion(id)
}

// stripVersion removes the sequence version suffix (e.g. ".1").
func stripVersion(id string) string {
	if idx := strings.LastIndexByte(id, '.'); idx != -1 {
		return id[:idx]
	}
	return id
}
