package extract

import (
	"strings"

	"github.com/ppiankov/datenorm/internal/edtf"
)

// boundaryTokens maps the texts that may stand in for a missing range side
type boundaryTokens map[string]edtf.BoundaryType

var (
	openOrUnknown = boundaryTokens{"..": edtf.Open, "?": edtf.Unknown, "-": edtf.Unknown}
	openOrQuery   = boundaryTokens{"..": edtf.Open, "?": edtf.Unknown}
	openOrEmpty   = boundaryTokens{"..": edtf.Open, "": edtf.Unknown}
)

// rangeSeparator describes one way of splitting a range into two sides
type rangeSeparator struct {
	token       string
	unspecified boundaryTokens
	delimiters  string // date part delimiters allowed inside each side
}

// side is one parsed half of a range
type side struct {
	instant edtf.Instant
	id      MatchID
}

// sideParser parses one half. ok is false when the half's grammar does not apply.
type sideParser func(s string, sep rangeSeparator, requested edtf.Qualification, flexible bool) (side, bool, error)

// rangeExtractor splits its input on each separator in turn and builds an interval
// from the first pair of sides that both parse
type rangeExtractor struct {
	separators []rangeSeparator
	parse      sideParser
	accept     func(start, end side) error
	id         func(start, end side) MatchID
}

// splitRange splits s on sep and requires exactly two parts. Trailing empty parts
// are discarded first, so "1989-" is a single part for the "-" separator.
func splitRange(s, sep string) (string, string, bool) {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (r rangeExtractor) extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	var lastErr error
	for _, sep := range r.separators {
		left, right, ok := splitRange(input, sep.token)
		if !ok {
			continue
		}

		start, ok, err := r.side(strings.TrimSpace(left), sep, requested, flexible)
		if err != nil {
			lastErr = err
			continue
		}
		if !ok {
			continue
		}
		end, ok, err := r.side(strings.TrimSpace(right), sep, requested, flexible)
		if err != nil {
			lastErr = err
			continue
		}
		if !ok {
			continue
		}

		if r.accept != nil {
			if err := r.accept(start, end); err != nil {
				lastErr = err
				continue
			}
		}

		iv, err := edtf.NewInterval(start.instant, end.instant, flexible)
		if err != nil {
			lastErr = err
			continue
		}
		return matched(r.id(start, end), input, iv), nil
	}
	return NoMatchResult(input), lastErr
}

func (r rangeExtractor) side(s string, sep rangeSeparator, requested edtf.Qualification, flexible bool) (side, bool, error) {
	if b, ok := sep.unspecified[s]; ok {
		if b == edtf.Open {
			return side{instant: edtf.OpenInstant()}, true, nil
		}
		return side{instant: edtf.UnknownInstant()}, true, nil
	}
	return r.parse(s, sep, requested, flexible)
}

// sameID tags a range with a fixed match id
func sameID(id MatchID) func(start, end side) MatchID {
	return func(side, side) MatchID { return id }
}
