// Package dates parses the free-form date strings the language model puts
// in the Start Date / End Date template fields. The model is instructed to
// answer "Month, Year" but in practice emits anything from "Jan 2020" to
// "2020-03" to "since March of 2019 present". Parsing is therefore fuzzy:
// recognizable tokens are consumed as date components and everything else
// is reported back as leftover, so callers can react to stray markers such
// as "present" that the model folded into the wrong field.
package dates

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// DefaultEpoch is substituted for missing date components. Year 1 keeps
// "absent" distinguishable from the Unix epoch.
var DefaultEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// Parsed is the result of a fuzzy parse: the assembled time plus any
// tokens that did not contribute a date component.
type Parsed struct {
	Time     time.Time
	Leftover []string
}

// HasLeftover reports whether any token matches the given substring,
// case-insensitively. Used to spot "present" hiding in a start field.
func (p Parsed) HasLeftover(substr string) bool {
	for _, tok := range p.Leftover {
		if strings.Contains(strings.ToLower(tok), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// ParseError reports a string with no recognizable date content.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no date components found in %q", e.Input)
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// connectors are filler words that are silently dropped rather than
// reported as leftover.
var connectors = map[string]bool{
	"of": true, "in": true, "the": true, "on": true, "at": true,
	"de": true, "del": true, "a": true, "to": true, "since": true, "from": true,
}

// Parse fuzzily extracts a date from s. Month/year granularity is the
// common case; a day is accepted when one is present. Missing components
// fall back to DefaultEpoch. When token scanning finds no component at
// all, the whole string is handed to dateparse as a last resort before
// giving up with a ParseError.
func Parse(s string) (Parsed, error) {
	tokens := tokenize(s)

	var (
		month    time.Month
		year     int
		day      int
		gotMonth bool
		gotYear  bool
		gotDay   bool
		leftover []string
	)

	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if !gotMonth {
			if m, ok := monthNames[lower]; ok {
				month, gotMonth = m, true
				continue
			}
		}
		if n, ok := parseNumber(tok); ok {
			switch {
			case !gotYear && n >= 1000 && n <= 9999:
				year, gotYear = n, true
				continue
			case !gotMonth && n >= 1 && n <= 12:
				// A small number before the year is read as a month
				// ("03/2020", "2020-03").
				month, gotMonth = time.Month(n), true
				continue
			case !gotDay && n >= 1 && n <= 31:
				day, gotDay = n, true
				continue
			case !gotYear && n < 100:
				// Two-digit year, pivoted the way résumés use them.
				if n < 50 {
					year = 2000 + n
				} else {
					year = 1900 + n
				}
				gotYear = true
				continue
			}
		}
		if connectors[lower] {
			continue
		}
		leftover = append(leftover, tok)
	}

	if !gotMonth && !gotYear {
		// Nothing recognizable token-wise; the string may still be a
		// machine-formatted timestamp dateparse understands.
		if t, err := dateparse.ParseAny(strings.TrimSpace(s)); err == nil {
			return Parsed{Time: t}, nil
		}
		return Parsed{}, &ParseError{Input: s}
	}

	t := DefaultEpoch
	if gotYear {
		t = time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if gotMonth {
		t = time.Date(t.Year(), month, t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if gotDay {
		t = time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, time.UTC)
	}
	return Parsed{Time: t, Leftover: leftover}, nil
}

// FirstOfMonth resolves a "Present" end date: the first day of ref's
// month with the time of day zeroed.
func FirstOfMonth(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
}

// tokenize splits on whitespace and the separators the model mixes into
// dates (commas, slashes, dashes, dots, parentheses).
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		if unicode.IsSpace(r) {
			return true
		}
		switch r {
		case ',', '/', '-', '.', '(', ')', ';', ':':
			return true
		}
		return false
	})
}

// parseNumber parses a bare integer token, tolerating ordinal suffixes
// ("1st", "2nd").
func parseNumber(tok string) (int, bool) {
	digits := tok
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(strings.ToLower(digits), suffix) && len(digits) > 2 {
			digits = digits[:len(digits)-2]
			break
		}
	}
	if digits == "" {
		return 0, false
	}
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
