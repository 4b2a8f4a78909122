package extract

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ppiankov/datenorm/internal/edtf"
	"github.com/ppiankov/datenorm/internal/sanitize"
)

// Status is the outcome of an extraction attempt
type Status string

const (
	Matched Status = "matched"
	NoMatch Status = "no_match"
)

// MatchID identifies the grammar that produced a date
type MatchID string

const (
	MatchNone                      MatchID = ""
	MatchEDTF                      MatchID = "edtf"
	MatchBriefDateRange            MatchID = "brief_date_range"
	MatchCenturyNumeric            MatchID = "century_numeric"
	MatchCenturyRoman              MatchID = "century_roman"
	MatchCenturyRangeRoman         MatchID = "century_range_roman"
	MatchDecade                    MatchID = "decade"
	MatchNumericAllVariants        MatchID = "numeric_all_variants"
	MatchNumericAllVariantsXX      MatchID = "numeric_all_variants_xx"
	MatchNumericSpacesVariant      MatchID = "numeric_spaces_variant"
	MatchNumericRangeAllVariants   MatchID = "numeric_range_all_variants"
	MatchNumericRangeAllVariantsXX MatchID = "numeric_range_all_variants_xx"
	MatchDcmiPeriod                MatchID = "dcmi_period"
	MatchMonthName                 MatchID = "month_name"
	MatchFormattedFullDate         MatchID = "formatted_full_date"
	MatchBcAd                      MatchID = "bc_ad"
	MatchLongNegativeYear          MatchID = "long_negative_year"
)

// Grammar-level rejections, in addition to the edtf builder errors
var (
	ErrYearZero       = errors.New("year zero does not exist in era notation")
	ErrAmbiguousRange = errors.New("range is ambiguous")
)

// Result is the outcome of running one extractor, or a whole chain, over an input
type Result struct {
	Status    Status
	MatchID   MatchID
	Input     string
	Date      edtf.Date
	Operation sanitize.Operation
}

// Matched reports whether a date was produced
func (r Result) Matched() bool {
	return r.Status == Matched
}

// NoMatchResult returns a no-match carrying input verbatim
func NoMatchResult(input string) Result {
	return Result{Status: NoMatch, Input: input}
}

func matched(id MatchID, input string, date edtf.Date) Result {
	return Result{Status: Matched, MatchID: id, Input: input, Date: date}
}

// Extractor recognises one textual date grammar.
// A grammar that does not apply yields a no-match Result and a nil error;
// an error means the grammar applied but the date it describes is invalid.
type Extractor interface {
	Name() string
	Extract(input string, requested edtf.Qualification, flexible bool) (Result, error)
}

// qualify prefers the caller's qualification over what the text itself declares
func qualify(requested, detected edtf.Qualification) edtf.Qualification {
	if requested != edtf.NoQualification {
		return requested
	}
	return detected
}

// questionWrapped reports uncertainty for values starting or ending with "?"
func questionWrapped(s string) edtf.Qualification {
	if strings.HasPrefix(s, "?") || strings.HasSuffix(s, "?") {
		return edtf.Uncertain
	}
	return edtf.NoQualification
}

// cleanSpaces collapses whitespace runs into one space and trims the ends
func cleanSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
