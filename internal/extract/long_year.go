package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/datenorm/internal/edtf"
)

var longNegativeYearRe = regexp.MustCompile(`^-(\d{5,9})(\?)?$`)

// parseLongNegativeYear reads prehistoric years such as "-35000", written as EDTF long years
func parseLongNegativeYear(s string, requested edtf.Qualification, flexible bool) (edtf.Instant, bool, error) {
	m := longNegativeYearRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return edtf.Instant{}, false, nil
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return edtf.Instant{}, false, errors.Wrapf(edtf.ErrYearOutOfRange, "year -%s", m[1])
	}

	detected := edtf.NoQualification
	if m[2] != "" {
		detected = edtf.Uncertain
	}
	inst, err := edtf.NewInstant(edtf.InstantParts{
		Year:          -year,
		LongYear:      true,
		Qualification: qualify(requested, detected),
	}, flexible)
	if err != nil {
		return edtf.Instant{}, false, err
	}
	return inst, true, nil
}

// LongNegativeYearExtractor reads a negative year of five to nine digits
type LongNegativeYearExtractor struct{}

// Name implements Extractor
func (LongNegativeYearExtractor) Name() string { return "long_negative_year" }

// Extract implements Extractor
func (LongNegativeYearExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	inst, ok, err := parseLongNegativeYear(input, requested, flexible)
	if err != nil || !ok {
		return NoMatchResult(input), err
	}
	return matched(MatchLongNegativeYear, input, inst), nil
}

var longNegativeYearRange = rangeExtractor{
	separators: []rangeSeparator{{token: "/", unspecified: openOrEmpty}},
	parse: func(s string, _ rangeSeparator, requested edtf.Qualification, flexible bool) (side, bool, error) {
		inst, ok, err := parseLongNegativeYear(s, requested, flexible)
		if err != nil || !ok {
			return side{}, false, err
		}
		return side{instant: inst, id: MatchLongNegativeYear}, true, nil
	},
	id: sameID(MatchLongNegativeYear),
}

// LongNegativeYearRangeExtractor reads two long negative years joined by "/"
type LongNegativeYearRangeExtractor struct{}

// Name implements Extractor
func (LongNegativeYearRangeExtractor) Name() string { return "long_negative_year_range" }

// Extract implements Extractor
func (LongNegativeYearRangeExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	return longNegativeYearRange.extract(input, requested, flexible)
}
