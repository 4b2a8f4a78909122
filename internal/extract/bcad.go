package extract

import (
	"regexp"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/datenorm/internal/edtf"
)

var (
	eraSuffixRe = regexp.MustCompile(`(?i)^(\d{1,4})\s*(` + eraAlternation() + `)$`)
	eraPrefixRe = regexp.MustCompile(`(?i)^(` + eraAlternation() + `)\s*(\d{1,4})$`)
)

// parseEraYear reads "300 BC", "44 v. Chr." or "AD 1066". Era years count from 1,
// so 1 BC becomes astronomical year 0.
func parseEraYear(s string, requested edtf.Qualification, flexible bool) (edtf.Instant, bool, error) {
	s = cleanSpaces(s)

	var digits, era string
	if m := eraSuffixRe.FindStringSubmatch(s); m != nil {
		digits, era = m[1], m[2]
	} else if m := eraPrefixRe.FindStringSubmatch(s); m != nil {
		era, digits = m[1], m[2]
	} else {
		return edtf.Instant{}, false, nil
	}

	before, ok := eraTable[foldKey(era)]
	if !ok {
		return edtf.Instant{}, false, nil
	}
	year, _ := strconv.Atoi(digits)
	if year == 0 {
		return edtf.Instant{}, false, errors.Wrapf(ErrYearZero, "%q", s)
	}
	if before {
		year = -(year - 1)
	}

	inst, err := edtf.NewInstant(edtf.InstantParts{Year: year, Qualification: requested}, flexible)
	if err != nil {
		return edtf.Instant{}, false, err
	}
	return inst, true, nil
}

// BcAdExtractor reads a year followed or preceded by an era designation
type BcAdExtractor struct{}

// Name implements Extractor
func (BcAdExtractor) Name() string { return "bc_ad" }

// Extract implements Extractor
func (BcAdExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	inst, ok, err := parseEraYear(input, requested, flexible)
	if err != nil || !ok {
		return NoMatchResult(input), err
	}
	return matched(MatchBcAd, input, inst), nil
}

var bcAdRange = rangeExtractor{
	separators: []rangeSeparator{{token: " - "}, {token: "-"}, {token: "/"}},
	parse: func(s string, _ rangeSeparator, requested edtf.Qualification, flexible bool) (side, bool, error) {
		inst, ok, err := parseEraYear(s, requested, flexible)
		if err != nil || !ok {
			return side{}, false, err
		}
		return side{instant: inst, id: MatchBcAd}, true, nil
	},
	id: sameID(MatchBcAd),
}

// BcAdRangeExtractor reads two era years such as "300 BC - 200 AD"
type BcAdRangeExtractor struct{}

// Name implements Extractor
func (BcAdRangeExtractor) Name() string { return "bc_ad_range" }

// Extract implements Extractor
func (BcAdRangeExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	return bcAdRange.extract(input, requested, flexible)
}
