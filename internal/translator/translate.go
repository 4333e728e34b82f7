package translator

import (
	"fmt"
	"strings"

	"github.com/enasequence/sequencetools-sub002/internal/diag"
	"github.com/enasequence/sequencetools-sub002/internal/gencode"
)

// Translate translates the coding region described by in. When any check
// fails the error is a *Failure carrying the messages and, when framing
// succeeded, the partial result.
func Translate(in *Input) (*Result, error) {
	table, err := gencode.Get(in.TableID)
	if err != nil {
		return nil, fail(nil, diag.Error(diag.TranslatorInvalidException,
			fmt.Sprintf("translation table %d is not supported", in.TableID)))
	}

	codonStart := in.CodonStart
	if codonStart == 0 {
		codonStart = 1
	}
	if codonStart < 1 || codonStart > 3 {
		return nil, fail(nil, diag.Error(diag.TranslatorInvalidException, fmt.Sprintf("codon start %d is not 1, 2 or 3", codonStart)))
	}

	bases, err := normalize(in.Bases)
	if err != nil {
		return nil, fail(nil, diag.Error(diag.TranslatorAmbiguousBases, err.Error()))
	}

	res := &Result{TableID: table.ID}
	if in.Pseudo {
		return res, nil
	}

	n := len(bases)
	usable := max(n-(codonStart-1), 0)
	if in.NonTranslating && usable < 3 {
		res.TrailingBases = string(bases[n-usable:])
		return res, nil
	}
	if n < 3 && !in.LeftPartial {
		return nil, fail(nil, diag.Error(diag.TranslatorTooShort, n))
	}
	if usable < 3 && !in.RightPartial {
		return nil, fail(nil, diag.Error(diag.TranslatorShorterThanCodon, usable))
	}

	exceptions, msgs := indexExceptions(in.Exceptions, n, codonStart, in.RightPartial)
	if len(msgs) > 0 {
		return nil, fail(nil, msgs...)
	}
	codonExceptions, msgs := indexCodonExceptions(in.CodonExceptions)
	if len(msgs) > 0 {
		return nil, fail(nil, msgs...)
	}

	frame(res, table, bases[n-usable:], codonStart, exceptions, codonExceptions)

	if in.NonTranslating {
		res.StopCodons = trailingStops(res.Codons)
		res.Protein = residues(res.Codons[:len(res.Codons)-res.StopCodons])
		return res, nil
	}

	res.Messages = check(res, table, in, codonStart, usable)
	if res.Messages.HasErrors() {
		return nil, fail(res, res.Messages...)
	}
	return res, nil
}

func fail(res *Result, msgs ...diag.Message) *Failure {
	return &Failure{Messages: msgs, Result: res}
}

// normalize upper-cases bases and reads U as T.
func normalize(in []byte) ([]byte, error) {
	out := make([]byte, len(in))
	for i, b := range in {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if b == 'U' {
			b = 'T'
		}
		if !gencode.IsValidBase(b) {
			return nil, fmt.Errorf("invalid base %q at position %d", b, i+1)
		}
		out[i] = b
	}
	return out, nil
}

// indexExceptions validates translation exceptions and keys them by the
// position of the codon they replace.
func indexExceptions(list []Exception, n, codonStart int, rightPartial bool) (map[int]Exception, diag.List) {
	if len(list) == 0 {
		return nil, nil
	}
	byStart := make(map[int]Exception, len(list))
	for _, e := range list {
		span := e.End - e.Start + 1
		switch {
		case e.Start < 1 || e.End < e.Start || e.End > n:
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("exception %d..%d is outside the sequence of length %d", e.Start, e.End, n))}
		case span > 3:
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("exception %d..%d spans more than one codon", e.Start, e.End))}
		case e.Start < codonStart:
			return nil, diag.List{diag.Error(diag.TranslatorExceptionNearStart, e.Start, e.End, codonStart)}
		case (e.Start-codonStart)%3 != 0:
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("exception %d..%d is not aligned to the reading frame", e.Start, e.End))}
		case !gencode.IsAminoAcid(e.AminoAcid):
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("invalid amino acid %q", e.AminoAcid))}
		case span < 3 && (e.End != n || e.Start+2 <= n || rightPartial):
			return nil, diag.List{diag.Error(diag.TranslatorExceptionPartial, e.Start, e.End)}
		}
		if _, dup := byStart[e.Start]; dup {
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("more than one exception at position %d", e.Start))}
		}
		byStart[e.Start] = e
	}
	return byStart, nil
}

func indexCodonExceptions(list []CodonException) (map[string]byte, diag.List) {
	if len(list) == 0 {
		return nil, nil
	}
	byCodon := make(map[string]byte, len(list))
	for _, ce := range list {
		codon, err := normalize([]byte(ce.Codon))
		if err != nil || len(codon) != 3 || strings.IndexByte(string(codon), '-') >= 0 {
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("invalid codon %q", ce.Codon))}
		}
		if !gencode.IsAminoAcid(ce.AminoAcid) {
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("invalid amino acid %q for codon %q", ce.AminoAcid, ce.Codon))}
		}
		if prev, ok := byCodon[string(codon)]; ok && prev != ce.AminoAcid {
			return nil, diag.List{diag.Error(diag.TranslatorInvalidException,
				fmt.Sprintf("conflicting exceptions for codon %q", ce.Codon))}
		}
		byCodon[string(codon)] = ce.AminoAcid
	}
	return byCodon, nil
}

// frame splits the in-frame bases into codons. A trailing partial codon
// becomes a codon only when an exception covers it.
func frame(res *Result, table *gencode.Table, bases []byte, codonStart int, exceptions map[int]Exception, codonExceptions map[string]byte) {
	count := len(bases) / 3
	res.Codons = make([]Codon, 0, count+1)
	for i := 0; i < count; i++ {
		c := Codon{Bases: string(bases[3*i : 3*i+3]), Position: codonStart + 3*i}
		if e, ok := exceptions[c.Position]; ok {
			c.AminoAcid, c.Exception = e.AminoAcid, true
		} else if aa, ok := codonExceptions[c.Bases]; ok {
			c.AminoAcid, c.Exception = aa, true
		} else {
			c.AminoAcid = table.Lookup(c.Bases)
		}
		res.Codons = append(res.Codons, c)
	}

	rest := bases[3*count:]
	if len(rest) == 0 {
		return
	}
	pos := codonStart + 3*count
	if e, ok := exceptions[pos]; ok {
		res.Codons = append(res.Codons, Codon{Bases: string(rest), Position: pos, AminoAcid: e.AminoAcid, Exception: true})
		return
	}
	res.TrailingBases = string(rest)
}

// check applies the start, stop and framing rules and fills in the
// protein. Only-stop regions short-circuit the remaining checks.
func check(res *Result, table *gencode.Table, in *Input, codonStart, usable int) diag.List {
	var msgs diag.List
	if codonStart != 1 && !in.LeftPartial {
		msgs = append(msgs, diag.Error(diag.TranslatorCodonStartNotOne, codonStart))
	}

	codons := res.Codons
	if len(codons) > 0 && allStops(codons) {
		return append(msgs, diag.Error(diag.TranslatorOnlyStopCodon))
	}

	if len(codons) > 0 {
		if !in.LeftPartial && codonStart == 1 {
			first := &codons[0]
			switch {
			case first.Exception:
				if first.AminoAcid != 'M' {
					msgs = append(msgs, diag.Error(diag.TranslatorNoStartCodon, first.Bases, table.ID))
				}
			case table.IsStart(first.Bases):
				first.AminoAcid = 'M'
			case in.FixDegenerateStartCodon && gencode.IsAmbiguous(first.Bases) && table.CompatibleWithStart(first.Bases):
				first.AminoAcid = 'M'
			default:
				msgs = append(msgs, diag.Error(diag.TranslatorNoStartCodon, first.Bases, table.ID))
			}
		}

		// Codons reassigned to an amino acid internally still terminate a
		// complete coding region.
		last := &codons[len(codons)-1]
		if !in.RightPartial && res.TrailingBases == "" && !last.Exception &&
			last.AminoAcid != gencode.Stop && table.IsTerminal(last.Bases) {
			last.AminoAcid = gencode.Stop
		}
	}

	res.StopCodons = trailingStops(codons)
	for _, c := range codons[:len(codons)-res.StopCodons] {
		if c.AminoAcid == gencode.Stop && !c.Exception {
			msgs = append(msgs, diag.Error(diag.TranslatorInternalStopCodon, c.Position))
			break
		}
	}

	switch {
	case res.StopCodons > 0 && in.RightPartial:
		msgs = append(msgs, diag.Error(diag.TranslatorStopCodon3Partial))
	case res.StopCodons > 1:
		msgs = append(msgs, diag.Error(diag.TranslatorMultipleStopCodons, res.StopCodons))
	case res.StopCodons == 0 && !in.RightPartial:
		msgs = append(msgs, diag.Error(diag.TranslatorNoStopCodon))
	}

	if res.TrailingBases != "" {
		switch {
		case !in.RightPartial:
			msgs = append(msgs, diag.Error(diag.TranslatorNonMultipleOfThree, usable))
		case !in.LeftPartial && !in.FixRightPartialCodon:
			msgs = append(msgs, diag.Error(diag.TranslatorRightPartialCodon, res.TrailingBases))
		}
	}

	res.Protein = residues(codons[:len(codons)-res.StopCodons])
	res.ConceptualTranslation = res.Protein
	if res.Protein != "" && strings.Trim(res.Protein, string(gencode.Unknown)) == "" {
		msgs = append(msgs, diag.Error(diag.TranslatorAmbiguousBases, "every codon translates to X"))
	}
	return msgs
}

func allStops(codons []Codon) bool {
	for _, c := range codons {
		if c.AminoAcid != gencode.Stop {
			return false
		}
	}
	return true
}

// trailingStops counts the run of stop codons at the 3' end.
func trailingStops(codons []Codon) int {
	k := 0
	for i := len(codons) - 1; i >= 0 && codons[i].AminoAcid == gencode.Stop; i-- {
		k++
	}
	return k
}

func residues(codons []Codon) string {
	b := make([]byte, len(codons))
	for i, c := range codons {
		b[i] = c.AminoAcid
	}
	return string(b)
}
