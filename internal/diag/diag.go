// Package diag provides the validation messages raised by translation checks.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Severity levels for validation messages.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityFix     Severity = "FIX"
)

// Rank returns numeric rank for severity comparison (higher = more severe).
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Message is a single validation message attached to a feature.
type Message struct {
	Severity Severity
	Code     Code
	Text     string
}

// New creates a message, formatting the code's template with args.
func New(sev Severity, code Code, args ...any) Message {
	return Message{Severity: sev, Code: code, Text: Format(code, args...)}
}

// Error creates an ERROR message.
func Error(code Code, args ...any) Message { return New(SeverityError, code, args...) }

// Warning creates a WARNING message.
func Warning(code Code, args ...any) Message { return New(SeverityWarning, code, args...) }

// Fix creates a FIX message.
func Fix(code Code, args ...any) Message { return New(SeverityFix, code, args...) }

func (m Message) String() string {
	return string(m.Severity) + " " + string(m.Code) + ": " + m.Text
}

// List is an ordered collection of messages.
type List []Message

// HasErrors returns true if any message has ERROR severity.
func (l List) HasErrors() bool {
	for _, m := range l {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Has returns true if a message with the given code is present.
func (l List) Has(code Code) bool {
	for _, m := range l {
		if m.Code == code {
			return true
		}
	}
	return false
}

// Count returns the number of messages with the given severity.
func (l List) Count(sev Severity) int {
	n := 0
	for _, m := range l {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// Filter returns the messages with the given severity.
func (l List) Filter(sev Severity) List {
	var out List
	for _, m := range l {
		if m.Severity == sev {
			out = append(out, m)
		}
	}
	return out
}

// Codes returns the distinct codes in first-seen order.
func (l List) Codes() []Code {
	seen := make(map[Code]bool, len(l))
	var codes []Code
	for _, m := range l {
		if !seen[m.Code] {
			seen[m.Code] = true
			codes = append(codes, m.Code)
		}
	}
	return codes
}

// Worst returns the most severe severity in the list, or "" if empty.
func (l List) Worst() Severity {
	var worst Severity
	for _, m := range l {
		if worst == "" || m.Severity.Rank() > worst.Rank() {
			worst = m.Severity
		}
	}
	return worst
}

// String joins the messages with "; ".
func (l List) String() string {
	parts := make([]string, len(l))
	for i, m := range l {
		parts[i] = m.String()
	}
	return strings.Join(parts, "; ")
}

// CountByCode returns message counts keyed by code, with codes sorted.
func CountByCode(l List) ([]Code, map[Code]int) {
	counts := make(map[Code]int)
	for _, m := range l {
		counts[m.Code]++
	}
	codes := make([]Code, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, counts
}

// Format renders the template registered for code. Unknown codes render
// their arguments verbatim.
func Format(code Code, args ...any) string {
	tmpl, ok := templates[code]
	if !ok {
		return fmt.Sprint(args...)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
