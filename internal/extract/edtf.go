package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/datenorm/internal/edtf"
)

// Level 0/1 instant: year (signed four digits, YYXX, YYYX or Y-prefixed long year),
// optional month and day, an optional discarded time of day with zone, then a qualifier
var edtfInstantRe = regexp.MustCompile(`^(Y-?\d+|-?\d{4}|\d{2}XX|\d{3}X)` +
	`(?:-(\d{2})(?:-(\d{2})(?:T(?:` + clockRe + `)?(?:Z|[+-]\d{2}(?::?\d{2})?)?)?)?)?` +
	`([?~%])?$`)

// Hour 0-23, then optional minute and second 0-59 and a fraction
const clockRe = `(?:[01]?\d|2[0-3])(?::[0-5]?\d(?::[0-5]?\d(?:\.\d+)?)?)?`

// parseEDTFInstant parses a single EDTF instant. ok is false when s is not EDTF.
func parseEDTFInstant(s string, flexible bool) (edtf.Instant, bool, error) {
	m := edtfInstantRe.FindStringSubmatch(s)
	if m == nil {
		return edtf.Instant{}, false, nil
	}

	parts := edtf.InstantParts{Qualification: edtf.QualificationFromSuffix(m[4])}
	year := m[1]
	switch {
	case year == "-0000":
		// EDTF has no negative zero year
		return edtf.Instant{}, false, nil
	case strings.HasPrefix(year, "Y"):
		n, err := strconv.Atoi(year[1:])
		if err != nil {
			return edtf.Instant{}, false, errors.Wrapf(edtf.ErrYearOutOfRange, "long year %s", year)
		}
		parts.Year = n
		parts.LongYear = true
	case strings.HasSuffix(year, "XX"):
		parts.Year, _ = strconv.Atoi(year[:2])
		parts.Precision = edtf.Century
	case strings.HasSuffix(year, "X"):
		parts.Year, _ = strconv.Atoi(year[:3])
		parts.Precision = edtf.Decade
	default:
		parts.Year, _ = strconv.Atoi(year)
	}

	// "00" is not an EDTF month or day
	if m[2] != "" {
		if parts.Month, _ = strconv.Atoi(m[2]); parts.Month == 0 {
			return edtf.Instant{}, false, nil
		}
	}
	if m[3] != "" {
		if parts.Day, _ = strconv.Atoi(m[3]); parts.Day == 0 {
			return edtf.Instant{}, false, nil
		}
	}

	inst, err := edtf.NewInstant(parts, flexible)
	if err != nil {
		return edtf.Instant{}, false, err
	}
	return inst, true, nil
}

// EDTFExtractor reads values already written in EDTF level 0 or 1
type EDTFExtractor struct{}

// Name implements Extractor
func (EDTFExtractor) Name() string { return "edtf" }

// Extract implements Extractor
func (EDTFExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	if !strings.Contains(input, "/") {
		inst, ok, err := parseEDTFInstant(input, flexible)
		if err != nil || !ok {
			return NoMatchResult(input), err
		}
		return matched(MatchEDTF, input, inst.WithQualification(qualify(requested, inst.Qualification()))), nil
	}

	parts := strings.Split(input, "/")
	if len(parts) != 2 {
		return NoMatchResult(input), nil
	}

	var bounds [2]edtf.Instant
	for i, p := range parts {
		switch p {
		case "":
			bounds[i] = edtf.UnknownInstant()
		case "..":
			bounds[i] = edtf.OpenInstant()
		default:
			inst, ok, err := parseEDTFInstant(p, flexible)
			if err != nil || !ok {
				return NoMatchResult(input), err
			}
			bounds[i] = inst.WithQualification(qualify(requested, inst.Qualification()))
		}
	}

	iv, err := edtf.NewInterval(bounds[0], bounds[1], flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchEDTF, input, iv), nil
}

// EDTFRangeExtractor accepts EDTF intervals whose sides are padded with spaces
type EDTFRangeExtractor struct{}

// Name implements Extractor
func (EDTFRangeExtractor) Name() string { return "edtf_range" }

var edtfRange = rangeExtractor{
	separators: []rangeSeparator{{token: "/", unspecified: openOrEmpty}},
	parse: func(s string, _ rangeSeparator, requested edtf.Qualification, flexible bool) (side, bool, error) {
		inst, ok, err := parseEDTFInstant(s, flexible)
		if err != nil || !ok {
			return side{}, false, err
		}
		return side{instant: inst.WithQualification(qualify(requested, inst.Qualification())), id: MatchEDTF}, true, nil
	},
	id: sameID(MatchEDTF),
}

// Extract implements Extractor
func (EDTFRangeExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	return edtfRange.extract(input, requested, flexible)
}
