package normalize

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/ppiankov/datenorm/internal/edtf"
	"github.com/ppiankov/datenorm/internal/extract"
	"github.com/ppiankov/datenorm/internal/sanitize"
)

// Mode selects the extractor chain and sanitization passes for a value
type Mode string

const (
	DateProperty    Mode = "date"
	GenericProperty Mode = "generic"
)

// ErrUnknownMode is returned by ParseMode
var ErrUnknownMode = errors.New("unknown property mode")

// ParseMode accepts "date" or "generic"
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case DateProperty:
		return DateProperty, nil
	case GenericProperty:
		return GenericProperty, nil
	}
	return "", errors.Wrapf(ErrUnknownMode, "%q", s)
}

// DateChain returns the extractors for date-typed properties, in precedence order
func DateChain() []extract.Extractor {
	return append([]extract.Extractor{extract.BriefRangeExtractor{}}, GenericChain()...)
}

// GenericChain returns the extractors for free-text properties. The brief range
// grammar is left out: "1900/50" in a subject is too often something else.
func GenericChain() []extract.Extractor {
	return []extract.Extractor{
		extract.EDTFExtractor{},
		extract.EDTFRangeExtractor{},
		extract.CenturyNumericExtractor{},
		extract.CenturyRomanExtractor{},
		extract.CenturyRomanRangeExtractor{},
		extract.DecadeExtractor{},
		extract.NumericRangeExtractor{},
		extract.NumericExtractor{},
		extract.DcmiPeriodExtractor{},
		extract.MonthNameExtractor{},
		extract.FormattedFullDateExtractor{},
		extract.BcAdExtractor{},
		extract.BcAdRangeExtractor{},
		extract.LongNegativeYearExtractor{},
		extract.LongNegativeYearRangeExtractor{},
	}
}

// Options controls the builders' repair heuristics per mode
type Options struct {
	FlexibleDate    bool
	FlexibleGeneric bool
}

// DefaultOptions repairs date properties and keeps generic properties strict
func DefaultOptions() Options {
	return Options{FlexibleDate: true, FlexibleGeneric: false}
}

// Normalizer turns free-text date values into EDTF dates.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	dateChain    []extract.Extractor
	genericChain []extract.Extractor
	opts         Options
	logger       *zap.SugaredLogger
	metrics      *Metrics
}

// New creates a Normalizer. metrics may be nil.
func New(opts Options, logger *zap.SugaredLogger, metrics *Metrics) *Normalizer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Normalizer{
		dateChain:    DateChain(),
		genericChain: GenericChain(),
		opts:         opts,
		logger:       logger,
		metrics:      metrics,
	}
}

// Normalize extracts a date from input using the chain for mode
func (n *Normalizer) Normalize(input string, mode Mode) extract.Result {
	return n.NormalizeWithQualification(input, mode, edtf.NoQualification)
}

// NormalizeWithQualification is Normalize with a qualification override. A
// non-empty override replaces whatever qualification the matched text carried.
func (n *Normalizer) NormalizeWithQualification(input string, mode Mode, override edtf.Qualification) extract.Result {
	res := n.normalize(input, mode, override)
	n.metrics.observe(mode, res)
	return res
}

func (n *Normalizer) normalize(input string, mode Mode, override edtf.Qualification) extract.Result {
	cleaned := PreClean(input)
	if cleaned == "" {
		return extract.NoMatchResult(input)
	}

	chain, flexible, passes := n.dateChain, n.opts.FlexibleDate, []sanitize.Pass{sanitize.FirstPass, sanitize.SecondPass}
	if mode == GenericProperty {
		chain, flexible, passes = n.genericChain, n.opts.FlexibleGeneric, []sanitize.Pass{sanitize.GenericPass}
	}

	res, ok := n.run(chain, cleaned, override, flexible)
	for i := 0; !ok && i < len(passes); i++ {
		sanitized, applied := sanitize.Apply(passes[i], cleaned)
		if !applied {
			continue
		}

		q := override
		if q == edtf.NoQualification && sanitized.Operation.ImpliesApproximate() {
			q = edtf.Approximate
		}
		if res, ok = n.run(chain, sanitized.Value, q, flexible); ok {
			res.Operation = sanitized.Operation
		}
	}

	if !ok {
		return extract.NoMatchResult(input)
	}
	if mode == GenericProperty && !isComplete(res) {
		n.logger.Debugw("generic match dropped, not a full date", "input", input, "edtf", res.Date.String())
		return extract.NoMatchResult(input)
	}

	res.Input = input
	return res
}

// run tries each extractor in order and returns the first match, requalified
// when a qualification was requested
func (n *Normalizer) run(chain []extract.Extractor, value string, q edtf.Qualification, flexible bool) (extract.Result, bool) {
	for _, e := range chain {
		res, err := e.Extract(value, q, flexible)
		if err != nil {
			n.logger.Debugw("extraction rejected", "extractor", e.Name(), "value", value, "error", err)
			n.metrics.extractionError(e.Name())
			continue
		}
		if !res.Matched() {
			continue
		}
		if q != edtf.NoQualification {
			res.Date = edtf.Requalify(res.Date, q)
		}
		return res, true
	}
	return extract.Result{}, false
}

// isComplete keeps generic property matches that name a full day, a century or a named period
func isComplete(res extract.Result) bool {
	switch res.MatchID {
	case extract.MatchCenturyRoman, extract.MatchCenturyRangeRoman, extract.MatchDcmiPeriod:
		return true
	}
	return res.Date.HasDayPrecision()
}

var preCleanReplacer = strings.NewReplacer("\u00a0", " ", "\u2013", "-")

// PreClean trims the value, replaces non-breaking spaces and en dashes, and applies NFC
func PreClean(s string) string {
	return strings.TrimSpace(norm.NFC.String(preCleanReplacer.Replace(s)))
}
