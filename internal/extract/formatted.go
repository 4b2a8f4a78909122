package extract

import (
	"regexp"
	"strconv"
	"time"

	"github.com/ppiankov/datenorm/internal/edtf"
)

// Timestamp layouts as emitted by common export tools
var formattedLayouts = []string{
	"Mon Jan 02 15:04:05 MST 2006",
	"Mon Jan 2 15:04:05 MST 2006",
	"2006-01-02 15:04:05 MST-07",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05 -07:00",
}

// Localized variants of the same shapes, where time.Parse only knows English names
var (
	localizedTimestampRe = regexp.MustCompile(`^\p{L}+\.?\s+(\p{L}+\.?)\s+(\d{1,2})\s+\d{1,2}:\d{2}:\d{2}\s+\S+\s+(\d{4})$`)
	isoTimestampRe       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\s+\d{1,2}:\d{2}:\d{2}\s+\S+$`)
)

// FormattedFullDateExtractor reads full timestamps and keeps only their date
type FormattedFullDateExtractor struct{}

// Name implements Extractor
func (FormattedFullDateExtractor) Name() string { return "formatted_full_date" }

// Extract implements Extractor
func (FormattedFullDateExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	s := cleanSpaces(input)

	parts, ok := parseTimestamp(s)
	if !ok {
		return NoMatchResult(input), nil
	}
	parts.Qualification = requested

	inst, err := edtf.NewInstant(parts, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchFormattedFullDate, input, inst), nil
}

func parseTimestamp(s string) (edtf.InstantParts, bool) {
	for _, layout := range formattedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return edtf.InstantParts{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true
		}
	}

	if m := localizedTimestampRe.FindStringSubmatch(s); m != nil {
		month, ok := lookupMonth(m[1])
		if !ok {
			return edtf.InstantParts{}, false
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return edtf.InstantParts{Year: year, Month: month, Day: day}, true
	}

	if m := isoTimestampRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return edtf.InstantParts{Year: year, Month: month, Day: day}, true
	}
	return edtf.InstantParts{}, false
}
