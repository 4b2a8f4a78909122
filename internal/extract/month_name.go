package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/datenorm/internal/edtf"
)

// monthNameLayout is one word order for dates written with a month name
type monthNameLayout struct {
	re               *regexp.Regexp
	year, month, day int // submatch indices, 0 when absent
}

const monthWord = `(\p{L}+\.?)`

var monthNameLayouts = []monthNameLayout{
	// 1 November 1989, 1. November 1989, 1 de noviembre de 1989
	{re: regexp.MustCompile(`(?i)^(\d{1,2})\.?\s+(?:de\s+)?` + monthWord + `\s+(?:de\s+)?(\d{4})$`), day: 1, month: 2, year: 3},
	// November 1, 1989
	{re: regexp.MustCompile(`(?i)^` + monthWord + `\s+(\d{1,2}),?\s+(\d{4})$`), month: 1, day: 2, year: 3},
	// November 1989, noviembre de 1989
	{re: regexp.MustCompile(`(?i)^` + monthWord + `\s+(?:de\s+)?(\d{4})$`), month: 1, year: 2},
	// 1989 November 1
	{re: regexp.MustCompile(`(?i)^(\d{4})\s+` + monthWord + `\s+(\d{1,2})$`), year: 1, month: 2, day: 3},
}

// MonthNameExtractor reads dates whose month is written out in one of the supported languages
type MonthNameExtractor struct{}

// Name implements Extractor
func (MonthNameExtractor) Name() string { return "month_name" }

// Extract implements Extractor
func (MonthNameExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	s := cleanSpaces(input)
	detected := questionWrapped(s)
	s = strings.TrimSpace(strings.Trim(s, "?"))

	for _, layout := range monthNameLayouts {
		m := layout.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		month, ok := lookupMonth(m[layout.month])
		if !ok {
			continue
		}

		parts := edtf.InstantParts{Month: month, Qualification: qualify(requested, detected)}
		parts.Year, _ = strconv.Atoi(m[layout.year])
		if layout.day > 0 {
			parts.Day, _ = strconv.Atoi(m[layout.day])
		}
		inst, err := edtf.NewInstant(parts, flexible)
		if err != nil {
			return NoMatchResult(input), err
		}
		return matched(MatchMonthName, input, inst), nil
	}
	return NoMatchResult(input), nil
}
