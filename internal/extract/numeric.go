package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/ppiankov/datenorm/internal/edtf"
)

// Numeric date grammars. They need look-around, so they are compiled with regexp2.
const (
	optionalQuery = `\??`

	// A three digit year may not be followed by "?" (that reads as "198?", not a year)
	numYear = `(\d{3}(?!\?)|\d{4})`

	// Years with unknown trailing digits: 19XX, 19UU, 19--, 19??, 198X, 198U
	numYearXX = `(\d{2}(?:XX|UU|--|\?\?)|\d{3}(?!\?)[XU]|\d{4})`

	partsDelimiters = `[\-./]`
)

func delimDigits(d string) string { return `(?:` + d + `(\d{1,2}))?` }
func digitsDelim(d string) string { return `(?:(\d{1,2})` + d + `)?` }

// With "-" as delimiter, "--" must not touch a third dash
func delimDigitsXX(d string) string { return `(?:` + d + `(\d{2}|XX|UU|(?<!-)--|\?\?))?` }
func digitsDelimXX(d string) string { return `(?:(\d{2}|XX|UU|--(?!-)|\?\?)` + d + `)?` }

func compileNumeric(expr string) *regexp2.Regexp {
	return regexp2.MustCompile(`^`+optionalQuery+expr+optionalQuery+`$`, regexp2.IgnoreCase)
}

// numericLayout is one field order of a numeric date, with the group index of each field
type numericLayout struct {
	re               *regexp2.Regexp
	year, month, day int
	id               MatchID
}

func numericLayouts(d string) []numericLayout {
	return []numericLayout{
		{compileNumeric(numYear + delimDigits(d) + delimDigits(d)), 1, 2, 3, MatchNumericAllVariants},
		{compileNumeric(digitsDelim(d) + digitsDelim(d) + numYear), 3, 2, 1, MatchNumericAllVariants},
		{compileNumeric(numYearXX + delimDigitsXX(d) + delimDigitsXX(d)), 1, 2, 3, MatchNumericAllVariantsXX},
		{compileNumeric(digitsDelimXX(d) + digitsDelimXX(d) + numYearXX), 3, 2, 1, MatchNumericAllVariantsXX},
	}
}

var spaceLayouts = []numericLayout{
	{compileNumeric(`(\d{4}) (\d{1,2}) (\d{1,2})`), 1, 2, 3, MatchNumericSpacesVariant},
	{compileNumeric(`(\d{1,2}) (\d{1,2}) (\d{4})`), 3, 2, 1, MatchNumericSpacesVariant},
}

var (
	singleLayouts = append(numericLayouts(partsDelimiters), spaceLayouts...)

	// Range sides, keyed by the delimiter class their separator leaves available
	sideLayouts = map[string][]numericLayout{
		`[\-./]`: numericLayouts(`[\-./]`),
		`[./]`:   numericLayouts(`[./]`),
		`[\-.]`:  numericLayouts(`[\-.]`),
	}

	unknownCharsRe = regexp.MustCompile(`[XU?-]`)
)

func group(m *regexp2.Match, i int) string {
	g := m.GroupByNumber(i)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// parse matches s against the layout. ok is false when the layout does not apply.
func (l numericLayout) parse(s string, q edtf.Qualification, flexible bool) (edtf.Instant, bool, error) {
	m, err := l.re.FindStringMatch(s)
	if err != nil || m == nil {
		return edtf.Instant{}, false, err
	}

	// A lone non-year field is the month ("11-1989")
	year := group(m, l.year)
	month, day := group(m, l.month), group(m, l.day)
	if month == "" {
		month, day = day, ""
	}

	yearValue, withheld := numericField(year)
	monthValue, _ := numericField(month)
	dayValue, _ := numericField(day)
	if monthValue == 0 {
		dayValue = 0
	}

	inst, err := edtf.NewInstant(edtf.InstantParts{
		Year:          yearValue,
		Precision:     edtf.YearPrecision(withheld),
		Month:         monthValue,
		Day:           dayValue,
		Qualification: q,
	}, flexible)
	if err != nil {
		return edtf.Instant{}, false, err
	}
	return inst, true, nil
}

// numericField drops unknown-digit markers. It returns the remaining number (0 when
// nothing is left) and how many characters were dropped.
func numericField(s string) (int, int) {
	upper := strings.ToUpper(s)
	cleaned := unknownCharsRe.ReplaceAllString(upper, "")
	n, _ := strconv.Atoi(cleaned)
	return n, len(upper) - len(cleaned)
}

// numericQualification marks a value uncertain when it starts or ends with exactly
// one, or at least three, question marks. Two are an unknown field ("1989-??").
func numericQualification(s string) edtf.Qualification {
	lead := len(s) - len(strings.TrimLeft(s, "?"))
	trail := len(s) - len(strings.TrimRight(s, "?"))
	if lead == 1 || lead >= 3 || trail == 1 || trail >= 3 {
		return edtf.Uncertain
	}
	return edtf.NoQualification
}

// parseNumeric tries each layout in order. The first layout that matches decides.
func parseNumeric(layouts []numericLayout, s string, requested edtf.Qualification, flexible bool) (edtf.Instant, MatchID, bool, error) {
	q := qualify(requested, numericQualification(s))
	for _, l := range layouts {
		inst, ok, err := l.parse(s, q, flexible)
		if err != nil {
			return edtf.Instant{}, MatchNone, false, err
		}
		if ok {
			return inst, l.id, true, nil
		}
	}
	return edtf.Instant{}, MatchNone, false, nil
}

// NumericExtractor reads year-month-day and day-month-year dates in digits, with
// "-", "." or "/" delimiters or single spaces, and unknown-digit markers
type NumericExtractor struct{}

// Name implements Extractor
func (NumericExtractor) Name() string { return "numeric" }

// Extract implements Extractor
func (NumericExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	inst, id, ok, err := parseNumeric(singleLayouts, cleanSpaces(input), requested, flexible)
	if err != nil || !ok {
		return NoMatchResult(input), err
	}
	return matched(id, input, inst), nil
}
