package sanitize

import (
	"regexp"
	"strings"
)

// Operation identifies the textual cleanup that produced a sanitized value
type Operation string

const (
	None                              Operation = ""
	StartingTextUntilFirstColon       Operation = "starting_text_until_first_colon"
	StartingParentheses               Operation = "starting_parentheses"
	EndingParentheses                 Operation = "ending_parentheses"
	CaptureValueInSquareBracketsCirca Operation = "capture_value_in_square_brackets_with_circa"
	CaptureValueInSquareBrackets      Operation = "capture_value_in_square_brackets"
	StartingCirca                     Operation = "starting_circa"
	EndingClosingSquareBracket        Operation = "ending_closing_square_bracket"
	EndingDot                         Operation = "ending_dot"
	EndingSquareBrackets              Operation = "ending_square_brackets"
	CaptureValueInParenthesesCirca    Operation = "capture_value_in_parentheses_with_circa"
	CaptureValueInParentheses         Operation = "capture_value_in_parentheses"
)

// approximateOperations lists the operations whose removed text marked the date as approximate
var approximateOperations = map[Operation]bool{
	StartingCirca:                     true,
	CaptureValueInSquareBracketsCirca: true,
	CaptureValueInParenthesesCirca:    true,
}

// ImpliesApproximate reports whether a match reached through o is approximate
func (o Operation) ImpliesApproximate() bool {
	return approximateOperations[o]
}

// Pass selects an ordered set of operations
type Pass string

const (
	FirstPass   Pass = "first"
	SecondPass  Pass = "second"
	GenericPass Pass = "generic"
)

const circa = `(?:circa\s+|ca\.\s*|ca\s+|c\.\s*|c\s+)`

var (
	startingTextUntilColonRe = regexp.MustCompile(`^[^:]*:\s*(.*)$`)
	startingParenthesesRe    = regexp.MustCompile(`^(?:\s*\([^()]*\))+\s*(.*)$`)
	endingParenthesesRe      = regexp.MustCompile(`^(.*?)\s*\(.*\)\s*$`)
	squareBracketsCircaRe    = regexp.MustCompile(`(?i)\[\s*` + circa + `([^\]]*)\]`)
	squareBracketsRe         = regexp.MustCompile(`\[(.*?)\]`)
	startingCircaRe          = regexp.MustCompile(`(?i)^\s*` + circa + `(.*)$`)
	endingClosingBracketRe   = regexp.MustCompile(`^(.*?)\s*\]$`)
	endingDotRe              = regexp.MustCompile(`^(.*?)\s*\.$`)
	endingSquareBracketsRe   = regexp.MustCompile(`^(.*?)\s*\[.*\]\s*$`)
	parenthesesCircaRe       = regexp.MustCompile(`(?i)^\s*\(\s*` + circa + `(.*)\)$`)
	parenthesesRe            = regexp.MustCompile(`^\s*\((.*)\)\s*$`)
)

// transform applies one operation; ok is false when the operation does not apply
type transform struct {
	op    Operation
	apply func(string) (string, bool)
}

// capture keeps the first group of a full match
func capture(re *regexp.Regexp) func(string) (string, bool) {
	return func(s string) (string, bool) {
		m := re.FindStringSubmatch(s)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// replaceAll substitutes every match with its first group
func replaceAll(re *regexp.Regexp) func(string) (string, bool) {
	return func(s string) (string, bool) {
		if !re.MatchString(s) {
			return "", false
		}
		return re.ReplaceAllString(s, "$1"), true
	}
}

var (
	startingTextUntilFirstColon = transform{StartingTextUntilFirstColon, capture(startingTextUntilColonRe)}
	startingParentheses         = transform{StartingParentheses, capture(startingParenthesesRe)}
	endingParentheses           = transform{EndingParentheses, capture(endingParenthesesRe)}
	squareBracketsCirca         = transform{CaptureValueInSquareBracketsCirca, replaceAll(squareBracketsCircaRe)}
	squareBrackets              = transform{CaptureValueInSquareBrackets, replaceAll(squareBracketsRe)}
	startingCirca               = transform{StartingCirca, capture(startingCircaRe)}
	endingClosingSquareBracket  = transform{EndingClosingSquareBracket, capture(endingClosingBracketRe)}
	endingDot                   = transform{EndingDot, capture(endingDotRe)}
	endingSquareBrackets        = transform{EndingSquareBrackets, capture(endingSquareBracketsRe)}
	parenthesesCirca            = transform{CaptureValueInParenthesesCirca, capture(parenthesesCircaRe)}
	parentheses                 = transform{CaptureValueInParentheses, capture(parenthesesRe)}
)

var passes = map[Pass][]transform{
	FirstPass: {
		startingTextUntilFirstColon,
		startingParentheses,
		endingParentheses,
		squareBracketsCirca,
		squareBrackets,
		startingCirca,
		endingClosingSquareBracket,
		endingDot,
	},
	SecondPass: {
		endingSquareBrackets,
		parenthesesCirca,
		parentheses,
	},
	GenericPass: {
		squareBracketsCirca,
		squareBrackets,
		startingCirca,
		endingParentheses,
	},
}

// Sanitized is the outcome of a pass
type Sanitized struct {
	Operation Operation
	Value     string
}

// Apply runs the operations of pass over the trimmed value and returns the first
// one that applies with a non-empty, trimmed result. ok is false when none does.
func Apply(pass Pass, value string) (Sanitized, bool) {
	value = strings.TrimSpace(value)
	for _, t := range passes[pass] {
		out, ok := t.apply(value)
		if out = strings.TrimSpace(out); ok && out != "" {
			return Sanitized{Operation: t.op, Value: out}, true
		}
	}
	return Sanitized{}, false
}

var byOperation = func() map[Operation]transform {
	m := make(map[Operation]transform)
	for _, ts := range passes {
		for _, t := range ts {
			m[t.op] = t
		}
	}
	return m
}()

// Only runs a single operation over the trimmed value
func Only(op Operation, value string) (string, bool) {
	t, ok := byOperation[op]
	if !ok {
		return "", false
	}
	out, ok := t.apply(strings.TrimSpace(value))
	return out, ok && out != ""
}

// Operations lists the operations of pass in evaluation order
func Operations(pass Pass) []Operation {
	ops := make([]Operation, 0, len(passes[pass]))
	for _, t := range passes[pass] {
		ops = append(ops, t.op)
	}
	return ops
}
