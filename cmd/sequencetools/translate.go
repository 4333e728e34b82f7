package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enasequence/sequencetools-sub002/internal/cds"
	"github.com/enasequence/sequencetools-sub002/internal/entry"
	"github.com/enasequence/sequencetools-sub002/internal/location"
)

var errTranslationFailed = errors.New("translation failed")

type translateFlags struct {
	codonStart     int
	leftPartial    bool
	rightPartial   bool
	nonTranslating bool
	excepts        []string
	codons         []string
}

func newTranslateCmd() *cobra.Command {
	var tf translateFlags

	cmd := &cobra.Command{
		Use:   "translate [options] <sequence>",
		Short: "Translate a nucleotide sequence as a single CDS",
		Long: `Translate a literal nucleotide sequence as a CDS spanning the whole sequence
and print the conceptual translation followed by any messages.`,
		Example: `  sequencetools translate atgaaagcgtaa
  sequencetools translate --table 11 --right-partial atgaaa
  sequencetools translate --except 4..6:Sec atgtgaaaataa
  sequencetools translate --fix atgaaa`,
		Args: usageArgs(cobra.ExactArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, translationFlagKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.OutOrStdout(), args[0], tf)
		},
	}

	fs := cmd.Flags()
	fs.Int("table", 1, "Translation table")
	fs.IntVar(&tf.codonStart, "codon-start", 1, "Reading frame offset (1, 2 or 3)")
	fs.BoolVar(&tf.leftPartial, "left-partial", false, "The 5' end is incomplete")
	fs.BoolVar(&tf.rightPartial, "right-partial", false, "The 3' end is incomplete")
	fs.BoolVar(&tf.nonTranslating, "non-translating", false, "Do not require a translatable sequence")
	fs.StringArrayVar(&tf.excepts, "except", nil, "Positional exception START..END:AA (repeatable)")
	fs.StringArrayVar(&tf.codons, "codon", nil, "Codon exception CODON:AA (repeatable)")
	fs.Bool("fix", false, "Repair the feature where possible")
	fs.Bool("fix-degenerate-start", true, "Accept a degenerate start codon in fix mode")
	fs.Bool("fix-right-partial-codon", true, "Accept a trailing partial codon in fix mode")

	return cmd
}

func runTranslate(out io.Writer, seq string, tf translateFlags) error {
	e, f, err := literalFeature(seq, tf)
	if err != nil {
		return &usageError{err}
	}

	t := cds.New(translatorOptions())
	t.SetLogger(logger)
	report := t.Translate(f, e)
	report.Fix.Apply(f)

	fmt.Fprintln(out, report.Protein())
	for _, m := range report.Messages {
		fmt.Fprintf(out, "%s\t%s\t%s\n", m.Severity, m.Code, m.Text)
	}
	if !report.Fix.Empty() {
		fmt.Fprintf(out, "Fixed location: %s\n", f.Loc)
	}

	if report.HasErrors() {
		return errTranslationFailed
	}
	return nil
}

// literalFeature wraps seq in an entry with one CDS covering it.
func literalFeature(seq string, tf translateFlags) (*entry.Entry, *entry.Feature, error) {
	seq = strings.TrimSpace(seq)
	if seq == "" {
		return nil, nil, errors.New("empty sequence")
	}

	loc := location.New(location.Range{Start: 1, End: len(seq)})
	loc.SetFivePrimePartial(tf.leftPartial)
	loc.SetThreePrimePartial(tf.rightPartial)
	f := &entry.Feature{Key: entry.FeatureKeyCDS, Loc: loc}

	if tf.codonStart != 1 {
		f.AddQualifier(cds.QualifierCodonStart, strconv.Itoa(tf.codonStart))
	}
	if tf.nonTranslating {
		f.AddQualifier(cds.QualifierException, "non-translating")
	}
	for _, ex := range tf.excepts {
		pos, aa, ok := cutLast(ex, ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid --except %q: want START..END:AA", ex)
		}
		f.AddQualifier(cds.QualifierTranslExcept, fmt.Sprintf("(pos:%s,aa:%s)", pos, aa))
	}
	for _, c := range tf.codons {
		codon, aa, ok := cutLast(c, ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid --codon %q: want CODON:AA", c)
		}
		f.AddQualifier(cds.QualifierCodon, fmt.Sprintf(`(seq:"%s",aa:%s)`, codon, aa))
	}

	e := &entry.Entry{Accession: "input", Sequence: []byte(seq), Features: []*entry.Feature{f}}
	return e, f, nil
}

func cutLast(s, sep string) (before, after string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i <= 0 || i == len(s)-len(sep) {
		return "", "", false
	}
	return s[:i], s[i+len(sep):], true
}
