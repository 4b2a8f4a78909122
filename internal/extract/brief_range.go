package extract

import (
	"regexp"
	"strconv"

	"github.com/ppiankov/datenorm/internal/edtf"
)

var briefYearRe = regexp.MustCompile(`^\??(-?\d{2,4})\??$`)

// BriefRangeExtractor reads "1900/50": a start year followed by the last two digits
// of the end year. The end must exceed 12, so "1989/11" stays a year and month.
type BriefRangeExtractor struct{}

// Name implements Extractor
func (BriefRangeExtractor) Name() string { return "brief_date_range" }

// Extract implements Extractor
func (BriefRangeExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	left, right, ok := splitRange(input, "/")
	if !ok {
		return NoMatchResult(input), nil
	}

	startYear, startQ, ok := briefYear(left)
	if !ok || digits(startYear) <= 2 {
		return NoMatchResult(input), nil
	}
	endYear, endQ, ok := briefYear(right)
	if !ok || digits(endYear) != 2 || abs(endYear) <= 12 || startYear%100 >= endYear {
		return NoMatchResult(input), nil
	}

	start, err := edtf.NewInstant(edtf.InstantParts{Year: startYear, Qualification: qualify(requested, startQ)}, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	end, err := edtf.NewInstant(edtf.InstantParts{
		Year:          (startYear/100)*100 + endYear,
		Qualification: qualify(requested, endQ),
	}, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}

	iv, err := edtf.NewInterval(start, end, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchBriefDateRange, input, iv), nil
}

func briefYear(s string) (int, edtf.Qualification, bool) {
	s = cleanSpaces(s)
	m := briefYearRe.FindStringSubmatch(s)
	if m == nil {
		return 0, edtf.NoQualification, false
	}
	year, _ := strconv.Atoi(m[1])
	return year, questionWrapped(s), true
}

// digits counts the decimal digits of |n|
func digits(n int) int {
	return len(strconv.Itoa(abs(n)))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
