package gencode

import "strings"

// AminoAcidSingleToThree converts single letter amino acid to three letter code.
var AminoAcidSingleToThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'U': "Sec", 'O': "Pyl", 'B': "Asx", 'Z': "Glx",
	'J': "Xle", '*': "TERM", 'X': "OTHER",
}

var threeToSingle = func() map[string]byte {
	m := make(map[string]byte, len(AminoAcidSingleToThree)+2)
	for aa, name := range AminoAcidSingleToThree {
		m[strings.ToUpper(name)] = aa
	}
	m["TER"] = Stop
	m["STOP"] = Stop
	return m
}()

// OneLetter resolves an amino acid given as a three letter abbreviation
// (Trp, TERM, Sec, OTHER, case-insensitive) or a single letter code.
func OneLetter(name string) (byte, bool) {
	name = strings.TrimSpace(name)
	if len(name) == 1 {
		aa := name[0]
		if aa >= 'a' && aa <= 'z' {
			aa -= 'a' - 'A'
		}
		_, ok := AminoAcidSingleToThree[aa]
		return aa, ok
	}
	aa, ok := threeToSingle[strings.ToUpper(name)]
	return aa, ok
}

// IsAminoAcid reports whether aa is a known one letter residue code,
// including the stop and unknown residues.
func IsAminoAcid(aa byte) bool {
	_, ok := AminoAcidSingleToThree[aa]
	return ok
}
