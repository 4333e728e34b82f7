package gencode

// Bases are ncbi4na bit flags: A 1, C 2, G 4, T 8. Ambiguity codes are
// the union of the bases they stand for; gap has no bits set.
const (
	maskA uint8 = 1 << iota
	maskC
	maskG
	maskT

	maskN = maskA | maskC | maskG | maskT
)

var (
	baseMask  [256]uint8
	baseValid [256]bool
)

func init() {
	masks := map[byte]uint8{
		'A': maskA,
		'C': maskC,
		'G': maskG,
		'T': maskT,
		'U': maskT,
		'M': maskA | maskC,
		'R': maskA | maskG,
		'W': maskA | maskT,
		'S': maskC | maskG,
		'Y': maskC | maskT,
		'K': maskG | maskT,
		'V': maskA | maskC | maskG,
		'H': maskA | maskC | maskT,
		'D': maskA | maskG | maskT,
		'B': maskC | maskG | maskT,
		'N': maskN,
		'-': 0,
	}
	for b, m := range masks {
		baseMask[b] = m
		baseValid[b] = true
		if b >= 'A' && b <= 'Z' {
			lower := b + ('a' - 'A')
			baseMask[lower] = m
			baseValid[lower] = true
		}
	}
}

// IsValidBase reports whether b is an IUPAC nucleotide code or a gap.
func IsValidBase(b byte) bool {
	return baseValid[b]
}

// IsAmbiguous reports whether the codon contains any base that is not
// exactly one of A, C, G, T/U.
func IsAmbiguous(codon string) bool {
	for i := 0; i < len(codon); i++ {
		switch baseMask[codon[i]] {
		case maskA, maskC, maskG, maskT:
		default:
			return true
		}
	}
	return false
}

// tcag is the base order of the NCBI ncbieaa strings.
var tcag = [4]uint8{maskT, maskC, maskA, maskG}

// codonMasks converts a codon to its three base masks. It returns false if
// the codon is not three bases long or contains a gap or invalid letter.
func codonMasks(codon string) ([3]uint8, bool) {
	var m [3]uint8
	if len(codon) != 3 {
		return m, false
	}
	for i := 0; i < 3; i++ {
		m[i] = baseMask[codon[i]]
		if m[i] == 0 {
			return m, false
		}
	}
	return m, true
}

// concreteIndex returns the table index of an unambiguous codon.
func concreteIndex(m [3]uint8) (int, bool) {
	idx := 0
	for _, bm := range m {
		k := tcagIndex(bm)
		if k < 0 {
			return 0, false
		}
		idx = idx*4 + k
	}
	return idx, true
}

func tcagIndex(m uint8) int {
	for k, b := range tcag {
		if m == b {
			return k
		}
	}
	return -1
}

// expand calls fn with the table index of every unambiguous codon matching
// the masks. It stops early and returns false when fn returns false.
func expand(m [3]uint8, fn func(idx int) bool) bool {
	for i, b1 := range tcag {
		if m[0]&b1 == 0 {
			continue
		}
		for j, b2 := range tcag {
			if m[1]&b2 == 0 {
				continue
			}
			for k, b3 := range tcag {
				if m[2]&b3 == 0 {
					continue
				}
				if !fn(16*i + 4*j + k) {
					return false
				}
			}
		}
	}
	return true
}
