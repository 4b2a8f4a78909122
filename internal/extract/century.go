package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/datenorm/internal/edtf"
)

const (
	romanCentury  = `(X?(?:IX|IV|VI{0,3}|I{1,3})|X|XXI?)`
	centuryPrefix = `(?:(?:s|sec|saec)\s|(?:s|sec|saec)\.\s?)?`
)

var (
	centuryDotsRe    = regexp.MustCompile(`(?i)^\??(1\d|2[0-1])\.{2}\??$`)
	centuryOrdinalRe = regexp.MustCompile(`(?i)^\??(2?1st|2nd|3rd|(?:1\d|[4-9]|20)th)\scentury\??$`)
	centuryRomanRe   = regexp.MustCompile(`(?i)^\??` + centuryPrefix + romanCentury + `\??$`)
	centuryRangeRe   = regexp.MustCompile(`(?i)^\??` + centuryPrefix + romanCentury + `\s?-\s?` + romanCentury + `\??$`)
)

func centuryInstant(prefix int, q edtf.Qualification, flexible bool) (edtf.Instant, error) {
	return edtf.NewInstant(edtf.InstantParts{Year: prefix, Precision: edtf.Century, Qualification: q}, flexible)
}

// CenturyNumericExtractor reads "18.." and English ordinals such as "11th century"
type CenturyNumericExtractor struct{}

// Name implements Extractor
func (CenturyNumericExtractor) Name() string { return "century_numeric" }

// Extract implements Extractor
func (CenturyNumericExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	s := cleanSpaces(input)

	var prefix int
	if m := centuryDotsRe.FindStringSubmatch(s); m != nil {
		prefix, _ = strconv.Atoi(m[1])
	} else if m := centuryOrdinalRe.FindStringSubmatch(s); m != nil {
		// "11th" is the century starting at 1000
		n, _ := strconv.Atoi(m[1][:len(m[1])-2])
		prefix = n - 1
	} else {
		return NoMatchResult(input), nil
	}

	inst, err := centuryInstant(prefix, qualify(requested, questionWrapped(s)), flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchCenturyNumeric, input, inst), nil
}

// CenturyRomanExtractor reads Roman numeral centuries I to XXI, optionally introduced
// by "s", "sec" or "saec"
type CenturyRomanExtractor struct{}

// Name implements Extractor
func (CenturyRomanExtractor) Name() string { return "century_roman" }

// Extract implements Extractor
func (CenturyRomanExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	s := cleanSpaces(input)
	m := centuryRomanRe.FindStringSubmatch(s)
	if m == nil {
		return NoMatchResult(input), nil
	}

	inst, err := centuryInstant(romanToInt(m[1])-1, qualify(requested, questionWrapped(s)), flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchCenturyRoman, input, inst), nil
}

// CenturyRomanRangeExtractor reads two Roman numeral centuries joined by "-"
type CenturyRomanRangeExtractor struct{}

// Name implements Extractor
func (CenturyRomanRangeExtractor) Name() string { return "century_range_roman" }

// Extract implements Extractor
func (CenturyRomanRangeExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	s := cleanSpaces(input)
	m := centuryRangeRe.FindStringSubmatch(s)
	if m == nil {
		return NoMatchResult(input), nil
	}

	q := qualify(requested, questionWrapped(s))
	start, err := centuryInstant(romanToInt(m[1])-1, q, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	end, err := centuryInstant(romanToInt(m[2])-1, q, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	iv, err := edtf.NewInterval(start, end, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchCenturyRangeRoman, input, iv), nil
}

var romanValues = map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

// romanToInt decodes a Roman numeral, case-insensitively
func romanToInt(s string) int {
	s = strings.ToUpper(s)
	total := 0
	for i := 0; i < len(s); i++ {
		v := romanValues[s[i]]
		if i+1 < len(s) && v < romanValues[s[i+1]] {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
