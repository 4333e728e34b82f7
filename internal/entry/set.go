package entry

import "sort"

// Set holds entries indexed by accession, preserving load order.
type Set struct {
	entries     []*Entry
	byAccession map[string]*Entry
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{
		byAccession: make(map[string]*Entry),
	}
}

// Add adds an entry. An entry with the same accession is replaced in place.
func (s *Set) Add(e *Entry) {
	if old, ok := s.byAccession[e.Accession]; ok {
		for i, cur := range s.entries {
			if cur == old {
				s.entries[i] = e
				break
			}
		}
	} else {
		s.entries = append(s.entries, e)
	}
	s.byAccession[e.Accession] = e
}

// Get returns the entry with the given accession, or nil if not found.
func (s *Set) Get(accession string) *Entry {
	return s.byAccession[accession]
}

// Entries returns the entries in load order.
func (s *Set) Entries() []*Entry {
	return s.entries
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// CodingFeatureCount returns the total number of CDS features.
func (s *Set) CodingFeatureCount() int {
	count := 0
	for _, e := range s.entries {
		count += len(e.CodingFeatures())
	}
	return count
}

// Accessions returns a sorted list of accessions in the set.
func (s *Set) Accessions() []string {
	accs := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		accs = append(accs, e.Accession)
	}
	sort.Strings(accs)
	return accs
}
