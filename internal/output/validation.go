package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/enasequence/sequencetools-sub002/internal/diag"
	"github.com/enasequence/sequencetools-sub002/internal/validate"
)

// SummaryWriter writes one line per message of the features that did not
// translate cleanly, followed by a summary of counts.
type SummaryWriter struct {
	w        *tabwriter.Writer
	showAll  bool // if false, only features with messages are listed
	features int
	fixed    int
	failed   int
	messages diag.List
	colors   map[diag.Severity]*color.Color
}

// NewSummaryWriter creates a summary writer. Severities are coloured when
// colored is set.
func NewSummaryWriter(w io.Writer, showAll, colored bool) *SummaryWriter {
	colors := map[diag.Severity]*color.Color{
		diag.SeverityError:   color.New(color.FgRed, color.Bold),
		diag.SeverityWarning: color.New(color.FgYellow),
		diag.SeverityFix:     color.New(color.FgGreen),
	}
	for _, c := range colors {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &SummaryWriter{
		w:       tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		showAll: showAll,
		colors:  colors,
	}
}

// WriteHeader writes the column header.
func (s *SummaryWriter) WriteHeader() error {
	_, err := fmt.Fprintln(s.w, "Entry\tLocation\tSeverity\tCode\tMessage")
	return err
}

// WriteResult records a feature result and lists its messages.
func (s *SummaryWriter) WriteResult(r *validate.Result) error {
	s.features++
	if !r.Report.Fix.Empty() {
		s.fixed++
	}
	if r.Report.HasErrors() {
		s.failed++
	}
	s.messages = append(s.messages, r.Report.Messages...)

	if len(r.Report.Messages) == 0 {
		if !s.showAll {
			return nil
		}
		_, err := fmt.Fprintf(s.w, "%s\t%s\t%s\t-\t%s\n", r.Accession, r.Location, "OK", r.Report.Protein())
		return err
	}

	for _, m := range r.Report.Messages {
		if _, err := fmt.Fprintf(s.w, "%s\t%s\t%s\t%s\t%s\n",
			r.Accession,
			r.Location,
			s.severity(m.Severity),
			m.Code,
			m.Text,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *SummaryWriter) severity(sev diag.Severity) string {
	if c, ok := s.colors[sev]; ok {
		return c.Sprint(string(sev))
	}
	return string(sev)
}

// Flush flushes the writer.
func (s *SummaryWriter) Flush() error {
	return s.w.Flush()
}

// Summary returns feature counts.
func (s *SummaryWriter) Summary() (features, fixed, failed int) {
	return s.features, s.fixed, s.failed
}

// WriteSummary writes totals and per-code message counts.
func (s *SummaryWriter) WriteSummary(w io.Writer) {
	failRate := float64(0)
	if s.features > 0 {
		failRate = float64(s.failed) / float64(s.features) * 100
	}
	fmt.Fprintf(w, "\nTranslation Summary:\n")
	fmt.Fprintf(w, "  Coding features: %d\n", s.features)
	fmt.Fprintf(w, "  Fixed:           %d\n", s.fixed)
	fmt.Fprintf(w, "  Failed:          %d (%.1f%%)\n", s.failed, failRate)
	fmt.Fprintf(w, "  %s %d  %s %d  %s %d\n",
		s.severity(diag.SeverityError), s.messages.Count(diag.SeverityError),
		s.severity(diag.SeverityWarning), s.messages.Count(diag.SeverityWarning),
		s.severity(diag.SeverityFix), s.messages.Count(diag.SeverityFix))

	codes, counts := diag.CountByCode(s.messages)
	if len(codes) == 0 {
		return
	}
	fmt.Fprintf(w, "\nMessages by code:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range codes {
		fmt.Fprintf(tw, "  %s\t%d\n", c, counts[c])
	}
	tw.Flush()
}
