package extract

import (
	"strings"

	"github.com/ppiankov/datenorm/internal/edtf"
)

const dcmiScheme = "W3C-DTF"

// DcmiPeriodExtractor reads DCMI period encodings: "name=Iron Age; start=-0800; end=-0050; scheme=W3C-DTF"
type DcmiPeriodExtractor struct{}

// Name implements Extractor
func (DcmiPeriodExtractor) Name() string { return "dcmi_period" }

// Extract implements Extractor
func (DcmiPeriodExtractor) Extract(input string, requested edtf.Qualification, flexible bool) (Result, error) {
	fields, ok := dcmiFields(input)
	if !ok {
		return NoMatchResult(input), nil
	}
	if scheme, ok := fields["scheme"]; ok && !strings.EqualFold(scheme, dcmiScheme) {
		return NoMatchResult(input), nil
	}

	startText, hasStart := fields["start"]
	endText, hasEnd := fields["end"]
	if !hasStart && !hasEnd {
		return NoMatchResult(input), nil
	}

	start, ok, err := dcmiBoundary(startText, hasStart, requested, flexible)
	if err != nil || !ok {
		return NoMatchResult(input), err
	}
	end, ok, err := dcmiBoundary(endText, hasEnd, requested, flexible)
	if err != nil || !ok {
		return NoMatchResult(input), err
	}

	iv, err := edtf.NewInterval(start, end, flexible)
	if err != nil {
		return NoMatchResult(input), err
	}
	return matched(MatchDcmiPeriod, input, iv.WithLabel(fields["name"])), nil
}

// dcmiFields splits "key=value" components. A repeated key or an input without any
// component makes the value unusable.
func dcmiFields(input string) (map[string]string, bool) {
	fields := make(map[string]string)
	for _, component := range strings.Split(input, ";") {
		component = strings.TrimSpace(component)
		key, value, found := strings.Cut(component, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if _, dup := fields[key]; dup {
			return nil, false
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields, len(fields) > 0
}

func dcmiBoundary(text string, present bool, requested edtf.Qualification, flexible bool) (edtf.Instant, bool, error) {
	if !present {
		return edtf.OpenInstant(), true, nil
	}
	inst, ok, err := parseEDTFInstant(text, flexible)
	if err != nil || !ok {
		return edtf.Instant{}, false, err
	}
	return inst.WithQualification(qualify(requested, inst.Qualification())), true, nil
}
