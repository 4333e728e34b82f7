package location

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the location subset used for coding features: a single base
// or range, a join of ranges, either optionally wrapped in complement(),
// with '<' and '>' partial markers on the outermost coordinates.
func Parse(text string) (*Location, error) {
	s := strings.Join(strings.Fields(text), "")
	if s == "" {
		return nil, fmt.Errorf("empty location")
	}

	loc := &Location{}
	if inner, ok := unwrap(s, "complement"); ok {
		loc.Complement = true
		s = inner
	}
	if inner, ok := unwrap(s, "join"); ok {
		s = inner
	}
	if strings.ContainsAny(s, "()") {
		return nil, fmt.Errorf("unsupported location %q", text)
	}

	parts := strings.Split(s, ",")
	last := len(parts) - 1
	for i, p := range parts {
		r, lower, upper, err := parseRange(p)
		if err != nil {
			return nil, fmt.Errorf("parse location %q: %w", text, err)
		}
		if lower {
			if i != 0 {
				return nil, fmt.Errorf("parse location %q: '<' only allowed on the first range", text)
			}
			loc.LowerPartial = true
		}
		if upper {
			if i != last {
				return nil, fmt.Errorf("parse location %q: '>' only allowed on the last range", text)
			}
			loc.UpperPartial = true
		}
		loc.Ranges = append(loc.Ranges, r)
	}
	return loc, nil
}

func unwrap(s, op string) (string, bool) {
	if strings.HasPrefix(s, op+"(") && strings.HasSuffix(s, ")") {
		return s[len(op)+1 : len(s)-1], true
	}
	return s, false
}

func parseRange(p string) (r Range, lower, upper bool, err error) {
	startText, endText, isSpan := strings.Cut(p, "..")
	if strings.HasPrefix(startText, "<") {
		lower = true
		startText = startText[1:]
	}
	if !isSpan {
		endText = startText
	} else if strings.HasPrefix(endText, ">") {
		upper = true
		endText = endText[1:]
	}

	r.Start, err = strconv.Atoi(startText)
	if err != nil {
		return r, false, false, fmt.Errorf("invalid start %q", startText)
	}
	r.End, err = strconv.Atoi(endText)
	if err != nil {
		return r, false, false, fmt.Errorf("invalid end %q", endText)
	}
	if r.Start < 1 || r.End < r.Start {
		return r, false, false, fmt.Errorf("invalid range %d..%d", r.Start, r.End)
	}
	return r, lower, upper, nil
}
