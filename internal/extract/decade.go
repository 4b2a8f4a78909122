package extract

import (
	"regexp"
	"strconv"

	"github.com/ppiankov/datenorm/internal/edtf"
)

var decadeRe = regexp.MustCompile(`(?i)^\??(\d{3})[XU]\??$`)

// DecadeExtractor reads three digits followed by an unknown-digit marker ("198u")
type DecadeExtractor struct{}

// Name implements Extractor
func (DecadeExtractor) Name() string { return "decade" }

// Extract implements Extractor
func (DecadeExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	s := cleanSpaces(input)
	m := decadeRe.FindStringSubmatch(s)
	if m == nil {
		return NoMatchResult(input), nil
	}

	prefix, _ := strconv.Atoi(m[1])
	inst, err := edtf.NewInstant(edtf.InstantParts{
		Year:          prefix,
		Precision:     edtf.Decade,
		Qualification: qualify(requested, questionWrapped(s)),
	}, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchDecade, input, inst), nil
}
