package extract

import (
	"github.com/cockroachdb/errors"
	"github.com/ppiankov/datenorm/internal/edtf"
)

// Separator families in evaluation order. A separator removes its own character
// from the delimiters a side may use.
var numericRangeSeparators = []rangeSeparator{
	{token: " - ", unspecified: openOrUnknown, delimiters: `[\-./]`},
	{token: "|", unspecified: openOrUnknown, delimiters: `[\-./]`},
	{token: " ", delimiters: `[\-./]`},
	{token: "-", unspecified: openOrQuery, delimiters: `[./]`},
	{token: "/", unspecified: openOrUnknown, delimiters: `[\-.]`},
}

var numericRange = rangeExtractor{
	separators: numericRangeSeparators,
	parse: func(s string, sep rangeSeparator, requested edtf.Qualification, flexible bool) (side, bool, error) {
		inst, id, ok, err := parseNumeric(sideLayouts[sep.delimiters], s, requested, flexible)
		if err != nil || !ok {
			return side{}, false, err
		}
		return side{instant: inst, id: id}, true, nil
	},
	accept: rejectShortYearBeforeMissingEnd,
	id: func(start, end side) MatchID {
		if start.id == MatchNumericAllVariantsXX || end.id == MatchNumericAllVariantsXX {
			return MatchNumericRangeAllVariantsXX
		}
		return MatchNumericRangeAllVariants
	},
}

// rejectShortYearBeforeMissingEnd refuses "187-?": a year below 1000 followed by a
// missing end may equally be a decade written with a dash
func rejectShortYearBeforeMissingEnd(start, end side) error {
	if !start.instant.IsDeclared() || end.instant.IsDeclared() {
		return nil
	}
	if first := start.instant.Year() * start.instant.Precision().Duration(); first < 1000 {
		return errors.Wrapf(ErrAmbiguousRange, "%s followed by a missing end", start.instant)
	}
	return nil
}

// NumericRangeExtractor reads two numeric dates joined by " - ", "|", " ", "-" or "/"
type NumericRangeExtractor struct{}

// Name implements Extractor
func (NumericRangeExtractor) Name() string { return "numeric_range" }

// Extract implements Extractor
func (NumericRangeExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	return numericRange.extract(input, requested, flexible)
}
