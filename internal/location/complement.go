package location

// ReverseComplement returns the reverse complement of a nucleotide sequence.
// IUPAC ambiguity codes are complemented to their counterpart.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = Complement(seq[n-1-i])
	}
	return result
}

// Complement returns the complement of a single base, preserving case.
func Complement(base byte) byte {
	if c := complements[base]; c != 0 {
		return c
	}
	return 'N'
}

var complements = func() [256]byte {
	var t [256]byte
	pairs := []string{"AT", "CG", "RY", "KM", "SS", "WW", "BV", "DH", "NN"}
	for _, p := range pairs {
		a, b := p[0], p[1]
		t[a], t[b] = b, a
		t[a+'a'-'A'], t[b+'a'-'A'] = b+'a'-'A', a+'a'-'A'
	}
	t['U'], t['u'] = 'A', 'a'
	t['-'] = '-'
	return t
}()
