// Package location provides feature locations: ordered base ranges on an
// entry sequence, optionally complemented and partial at either end.
package location

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive 1-based span of bases on the entry sequence.
type Range struct {
	Start int
	End   int
}

// Length returns the number of bases in the range.
func (r Range) Length() int {
	return r.End - r.Start + 1
}

// Contains returns true if pos is within the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos <= r.End
}

// Location is a feature location. Ranges are listed in ascending sequence
// order as they appear in the location text; Complement applies to the
// joined ranges as a whole.
type Location struct {
	Ranges     []Range
	Complement bool
	// LowerPartial and UpperPartial are the '<' and '>' markers on the
	// lowest and highest coordinate.
	LowerPartial bool
	UpperPartial bool
}

// New creates a forward-strand location from ranges.
func New(ranges ...Range) *Location {
	return &Location{Ranges: ranges}
}

// Length returns the number of bases covered by the joined ranges.
func (l *Location) Length() int {
	n := 0
	for _, r := range l.Ranges {
		n += r.Length()
	}
	return n
}

// FivePrimePartial returns true if the 5' end of the feature is partial.
func (l *Location) FivePrimePartial() bool {
	if l.Complement {
		return l.UpperPartial
	}
	return l.LowerPartial
}

// ThreePrimePartial returns true if the 3' end of the feature is partial.
func (l *Location) ThreePrimePartial() bool {
	if l.Complement {
		return l.LowerPartial
	}
	return l.UpperPartial
}

// SetFivePrimePartial sets or clears 5' partiality.
func (l *Location) SetFivePrimePartial(partial bool) {
	if l.Complement {
		l.UpperPartial = partial
	} else {
		l.LowerPartial = partial
	}
}

// SetThreePrimePartial sets or clears 3' partiality.
func (l *Location) SetThreePrimePartial(partial bool) {
	if l.Complement {
		l.LowerPartial = partial
	} else {
		l.UpperPartial = partial
	}
}

// Extract returns the bases covered by the location from seq, oriented
// 5' to 3'. Complemented locations are reverse complemented.
func (l *Location) Extract(seq []byte) ([]byte, error) {
	out := make([]byte, 0, l.Length())
	for _, r := range l.Ranges {
		if r.Start < 1 || r.End < r.Start || r.End > len(seq) {
			return nil, fmt.Errorf("range %d..%d outside sequence of length %d", r.Start, r.End, len(seq))
		}
		out = append(out, seq[r.Start-1:r.End]...)
	}
	if l.Complement {
		return ReverseComplement(out), nil
	}
	return out, nil
}

// RelativePosition maps a 1-based entry coordinate to the 1-based
// position within the feature, counted from its 5' end. It returns false
// if pos is not covered by the location.
func (l *Location) RelativePosition(pos int) (int, bool) {
	offset := 0
	for _, r := range l.Ranges {
		if r.Contains(pos) {
			rel := offset + pos - r.Start + 1
			if l.Complement {
				rel = l.Length() - rel + 1
			}
			return rel, true
		}
		offset += r.Length()
	}
	return 0, false
}

// Clone returns a deep copy of the location.
func (l *Location) Clone() *Location {
	c := *l
	c.Ranges = append([]Range(nil), l.Ranges...)
	return &c
}

// String renders the location in feature table syntax, for example
// "<1..>12", "join(1..5,10..20)" or "complement(join(1..5,10..20))".
func (l *Location) String() string {
	parts := make([]string, len(l.Ranges))
	last := len(l.Ranges) - 1
	for i, r := range l.Ranges {
		var b strings.Builder
		if i == 0 && l.LowerPartial {
			b.WriteByte('<')
		}
		b.WriteString(strconv.Itoa(r.Start))
		if r.End != r.Start || (i == last && l.UpperPartial) {
			b.WriteString("..")
			if i == last && l.UpperPartial {
				b.WriteByte('>')
			}
			b.WriteString(strconv.Itoa(r.End))
		}
		parts[i] = b.String()
	}

	s := strings.Join(parts, ",")
	if len(parts) > 1 {
		s = "join(" + s + ")"
	}
	if l.Complement {
		s = "complement(" + s + ")"
	}
	return s
}
