package extraction

import (
	"regexp"
	"strings"
	"time"
)

// DateLayoutsVersion identifies the order of dateLayouts. Bump it whenever the order
// changes, since the order alone decides how ambiguous dates like 03/04/2023 resolve.
const DateLayoutsVersion = "2"

// dateLayouts is tried top to bottom; the first layout that parses with a plausible
// year wins. Day-first layouts precede the month-first two digit year ones.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006/1/2",
	"2006-1-2",
	"2006.1.2",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2-January-2006",
	"1/2/06",
	"1-2-06",
	"Jan 2 2006",
	"January 2 2006",
}

const (
	isoDate     = "2006-01-02"
	minDateYear = 2000
	monthNames  = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*`
)

// dateShapes locate date-looking substrings in lower-cased text
var dateShapes = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})\b`),
	regexp.MustCompile(`\b(\d{1,2}\s+` + monthNames + `\s+\d{2,4})\b`),
	regexp.MustCompile(`\b(` + monthNames + `\s+\d{1,2},?\s+\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{1,2}-` + monthNames + `-\d{2,4})\b`),
}

// ParseDate normalizes a date string to YYYY-MM-DD, rejecting years outside
// [2000, current year + 1].
func ParseDate(raw string) (string, bool) {
	return ParseDateAt(raw, time.Now())
}

// ParseDateAt is ParseDate with an explicit reference time for the year window
func ParseDateAt(raw string, now time.Time) (string, bool) {
	value := strings.Join(strings.Fields(raw), " ")
	if value == "" {
		return "", false
	}

	maxYear := now.Year() + 1
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if parsed.Year() >= minDateYear && parsed.Year() <= maxYear {
			return parsed.Format(isoDate), true
		}
	}
	return "", false
}

// FindDate returns the first date-shaped substring of text that ParseDate accepts
func FindDate(text string) (string, bool) {
	return findDateAt(text, time.Now())
}

func findDateAt(text string, now time.Time) (string, bool) {
	lower := strings.ToLower(text)
	for _, shape := range dateShapes {
		for _, match := range shape.FindAllStringSubmatch(lower, -1) {
			if date, ok := ParseDateAt(match[1], now); ok {
				return date, true
			}
		}
	}
	return "", false
}
