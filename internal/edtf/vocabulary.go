package edtf

import (
	"fmt"
	"strings"
)

// Qualification marks a date as uncertain, approximate, or both
type Qualification int

const (
	NoQualification      Qualification = iota // No qualifier
	Uncertain                                 // "?"
	Approximate                               // "~"
	UncertainApproximate                      // "%"
)

// String returns the qualification name
func (q Qualification) String() string {
	switch q {
	case Uncertain:
		return "uncertain"
	case Approximate:
		return "approximate"
	case UncertainApproximate:
		return "uncertain_approximate"
	default:
		return "none"
	}
}

// Suffix returns the EDTF qualifier character
func (q Qualification) Suffix() string {
	switch q {
	case Uncertain:
		return "?"
	case Approximate:
		return "~"
	case UncertainApproximate:
		return "%"
	default:
		return ""
	}
}

// QualificationFromSuffix maps an EDTF qualifier character to a Qualification.
// Unsupported characters are treated as absent.
func QualificationFromSuffix(s string) Qualification {
	switch s {
	case "?":
		return Uncertain
	case "~":
		return Approximate
	case "%":
		return UncertainApproximate
	default:
		return NoQualification
	}
}

// ParseQualification parses a qualification name as accepted on the command line
func ParseQualification(s string) (Qualification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoQualification, nil
	case "uncertain", "?":
		return Uncertain, nil
	case "approximate", "~":
		return Approximate, nil
	case "both", "uncertain_approximate", "%":
		return UncertainApproximate, nil
	default:
		return NoQualification, fmt.Errorf("unknown qualification %q", s)
	}
}

// YearPrecision is the number of rightmost year digits left unspecified
type YearPrecision int

const (
	Exact   YearPrecision = iota // All digits declared
	Decade                       // One digit withheld (198X)
	Century                      // Two digits withheld (19XX)
)

// Digits returns how many year digits are withheld
func (p YearPrecision) Digits() int {
	return int(p)
}

// Duration returns the number of years a single declared prefix value spans
func (p YearPrecision) Duration() int {
	switch p {
	case Decade:
		return 10
	case Century:
		return 100
	default:
		return 1
	}
}

func (p YearPrecision) String() string {
	switch p {
	case Decade:
		return "decade"
	case Century:
		return "century"
	default:
		return "exact"
	}
}

// BoundaryType describes an interval endpoint
type BoundaryType int

const (
	Declared BoundaryType = iota // Carries a date
	Open                         // Open end ("..")
	Unknown                      // Unknown end
)

func (b BoundaryType) String() string {
	switch b {
	case Open:
		return "open"
	case Unknown:
		return "unknown"
	default:
		return "declared"
	}
}
