// Package output provides translation report formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/enasequence/sequencetools-sub002/internal/validate"
)

// TabWriter writes one tab-delimited row per coding feature.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Entry",
			"Location",
			"Fixed_location",
			"Table",
			"Status",
			"Protein",
			"Messages",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// WriteResult writes a single feature result.
func (tw *TabWriter) WriteResult(r *validate.Result) error {
	fixed := "-"
	if !r.Report.Fix.Empty() {
		fixed = r.Feature.Loc.String()
	}

	protein := r.Report.Protein()
	if protein == "" {
		protein = "-"
	}

	messages := "-"
	if len(r.Report.Messages) > 0 {
		parts := make([]string, len(r.Report.Messages))
		for i, m := range r.Report.Messages {
			parts[i] = string(m.Severity) + ":" + string(m.Code)
		}
		messages = strings.Join(parts, ",")
	}

	values := []string{
		r.Accession,
		r.Location,
		fixed,
		strconv.Itoa(r.Report.TableID),
		r.Status(),
		protein,
		messages,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
