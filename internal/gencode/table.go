// Package gencode provides the NCBI genetic code tables used to translate
// codons into amino acids.
package gencode

import (
	"errors"
	"fmt"
	"sort"
)

// Unknown is the residue returned for codons that do not resolve to a
// single amino acid.
const Unknown byte = 'X'

// Stop is the residue for a terminator codon.
const Stop byte = '*'

// ErrUnknownTable is returned for translation table ids with no genetic code.
var ErrUnknownTable = errors.New("unknown translation table")

// Table is an immutable genetic code. Tables are built once at package
// initialisation and shared read-only.
type Table struct {
	ID   int
	Name string

	residues [64]byte
	starts   [64]bool
	stops    [64]bool
	// terminal marks codons that encode an amino acid internally but act as
	// a terminator at the end of a complete coding region.
	terminal [64]bool
}

func newTable(id int, name, ncbieaa, sncbieaa string) *Table {
	if len(ncbieaa) != 64 || len(sncbieaa) != 64 {
		panic(fmt.Sprintf("gencode: malformed table %d", id))
	}
	t := &Table{ID: id, Name: name}
	for i := 0; i < 64; i++ {
		t.residues[i] = ncbieaa[i]
		t.starts[i] = sncbieaa[i] == 'M'
		t.stops[i] = ncbieaa[i] == Stop
		t.terminal[i] = sncbieaa[i] == Stop || ncbieaa[i] == Stop
	}
	return t
}

// Lookup translates a codon to its amino acid. A codon containing
// ambiguity codes resolves to the amino acid shared by every matching
// unambiguous codon, or Unknown if they disagree. Gaps, invalid letters
// and NNN are Unknown.
func (t *Table) Lookup(codon string) byte {
	m, ok := codonMasks(codon)
	if !ok {
		return Unknown
	}
	if m[0] == maskN && m[1] == maskN && m[2] == maskN {
		return Unknown
	}
	if idx, ok := concreteIndex(m); ok {
		return t.residues[idx]
	}

	var aa byte
	agreed := expand(m, func(idx int) bool {
		r := t.residues[idx]
		if aa == 0 {
			aa = r
			return true
		}
		return r == aa
	})
	if !agreed {
		return Unknown
	}
	return aa
}

// IsStart returns true if every codon matching the pattern is a start codon.
func (t *Table) IsStart(codon string) bool {
	return t.all(codon, t.starts[:])
}

// IsStop returns true if every codon matching the pattern is a stop codon.
func (t *Table) IsStop(codon string) bool {
	return t.all(codon, t.stops[:])
}

// IsTerminal returns true if the codon terminates translation when it is
// the last codon of a complete coding region. This includes stop codons and
// codons that are reassigned to an amino acid only in internal positions.
func (t *Table) IsTerminal(codon string) bool {
	return t.all(codon, t.terminal[:])
}

// CompatibleWithStart returns true if at least one codon matching the
// pattern is a start codon.
func (t *Table) CompatibleWithStart(codon string) bool {
	m, ok := codonMasks(codon)
	if !ok {
		return false
	}
	found := false
	expand(m, func(idx int) bool {
		if t.starts[idx] {
			found = true
			return false
		}
		return true
	})
	return found
}

func (t *Table) all(codon string, set []bool) bool {
	m, ok := codonMasks(codon)
	if !ok {
		return false
	}
	return expand(m, func(idx int) bool { return set[idx] })
}

// StartCodons returns the unambiguous start codons in TCAG order.
func (t *Table) StartCodons() []string {
	return codonsWhere(t.starts[:])
}

// StopCodons returns the unambiguous stop codons in TCAG order.
func (t *Table) StopCodons() []string {
	return codonsWhere(t.stops[:])
}

func codonsWhere(set []bool) []string {
	var codons []string
	for idx, ok := range set {
		if ok {
			codons = append(codons, codonAt(idx))
		}
	}
	return codons
}

func codonAt(idx int) string {
	const letters = "TCAG"
	return string([]byte{letters[idx/16], letters[(idx/4)%4], letters[idx%4]})
}

var tables = func() map[int]*Table {
	m := make(map[int]*Table, len(ncbieaaCode))
	for id, aa := range ncbieaaCode {
		m[id] = newTable(id, genCodeNames[id], aa, sncbieaaCode[id])
	}
	return m
}()

// Get returns the genetic code for a translation table id.
func Get(id int) (*Table, error) {
	t, ok := tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTable, id)
	}
	return t, nil
}

// IDs returns the supported translation table ids in ascending order.
func IDs() []int {
	ids := make([]int, 0, len(tables))
	for id := range tables {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
