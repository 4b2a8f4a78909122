package normalize

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/datenorm/internal/edtf"
	"github.com/ppiankov/datenorm/internal/extract"
	"github.com/ppiankov/datenorm/internal/sanitize"
)

func newTestNormalizer() *Normalizer {
	return New(DefaultOptions(), zap.NewNop().Sugar(), nil)
}

func TestNormalize_DateProperty(t *testing.T) {
	tests := []struct {
		input string
		want  string
		id    extract.MatchID
		op    sanitize.Operation
	}{
		{"1989-11-01", "1989-11-01", extract.MatchEDTF, sanitize.None},
		{"1900/50", "1900/1950", extract.MatchBriefDateRange, sanitize.None},
		{"1907/?", "1907/..", extract.MatchNumericRangeAllVariants, sanitize.None},
		{"XIV", "13XX", extract.MatchCenturyRoman, sanitize.None},
		{"1989–1990", "1989/1990", extract.MatchNumericRangeAllVariants, sanitize.None},
		{"1989 - 1990", "1989/1990", extract.MatchNumericRangeAllVariants, sanitize.None},
		{"[ca. 1920-1930]", "1920~/1930~", extract.MatchNumericRangeAllVariants, sanitize.CaptureValueInSquareBracketsCirca},
		{"circa 1920", "1920~", extract.MatchEDTF, sanitize.StartingCirca},
		{"23.02.[18--]", "18XX-02-23", extract.MatchNumericAllVariantsXX, sanitize.CaptureValueInSquareBrackets},
		{"(17--?)", "17XX?", extract.MatchNumericAllVariantsXX, sanitize.CaptureValueInParentheses},
		{"1997-07-18T00:00:00 [text in brackets]", "1997-07-18", extract.MatchEDTF, sanitize.EndingSquareBrackets},
		{"Période: 1989", "1989", extract.MatchEDTF, sanitize.StartingTextUntilFirstColon},
		{"name=Prehistoric Period; end=-5300", "../-5300", extract.MatchDcmiPeriod, sanitize.None},
		{"300 BC", "-0299", extract.MatchBcAd, sanitize.None},
		{"-35000", "Y-35000", extract.MatchLongNegativeYear, sanitize.None},
		{"1 November 1989", "1989-11-01", extract.MatchMonthName, sanitize.None},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := n.Normalize(tt.input, DateProperty)
			require.True(t, res.Matched())
			assert.Equal(t, tt.want, res.Date.String())
			assert.Equal(t, tt.id, res.MatchID)
			assert.Equal(t, tt.op, res.Operation)
			assert.Equal(t, tt.input, res.Input)
		})
	}
}

func TestNormalize_NoMatch(t *testing.T) {
	n := newTestNormalizer()
	for _, input := range []string{"", "   ", "192?", "unknown", "31 April 1989"} {
		res := n.Normalize(input, DateProperty)
		assert.False(t, res.Matched(), input)
		assert.Equal(t, extract.NoMatch, res.Status)
		assert.Equal(t, input, res.Input, "original input is kept")
		assert.Nil(t, res.Date)
	}
}

func TestNormalize_DcmiLabel(t *testing.T) {
	res := newTestNormalizer().Normalize("name=Prehistoric Period; end=-5300", DateProperty)
	require.True(t, res.Matched())
	iv, ok := res.Date.(edtf.Interval)
	require.True(t, ok)
	assert.Equal(t, "Prehistoric Period", iv.Label())
}

func TestNormalize_GenericProperty(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		input string
		want  string
	}{
		{"1989-11-01", "1989-11-01"},
		{"XIV", "13XX"},
		{"XVI-XVIII", "15XX/17XX"},
		{"name=Iron Age; start=-0800; end=-0050", "-0800/-0050"},
		{"[ca. 1989-11-01]", "1989-11-01~"},
		{"1989", ""},
		{"1989-11", ""},
		{"1900/50", ""},
		{"19..", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := n.Normalize(tt.input, GenericProperty)
			if tt.want == "" {
				assert.False(t, res.Matched())
				return
			}
			require.True(t, res.Matched())
			assert.Equal(t, tt.want, res.Date.String())
		})
	}
}

func TestNormalize_GenericIsStrict(t *testing.T) {
	n := newTestNormalizer()
	assert.True(t, n.Normalize("1990-11-01/1989-11-01", DateProperty).Matched())
	assert.False(t, n.Normalize("1990-11-01/1989-11-01", GenericProperty).Matched())
}

func TestNormalize_QualificationOverride(t *testing.T) {
	n := newTestNormalizer()

	res := n.NormalizeWithQualification("1989", DateProperty, edtf.Uncertain)
	require.True(t, res.Matched())
	assert.Equal(t, "1989?", res.Date.String())

	res = n.NormalizeWithQualification("circa 1920", DateProperty, edtf.Uncertain)
	require.True(t, res.Matched())
	assert.Equal(t, "1920?", res.Date.String())

	res = n.NormalizeWithQualification("1989?/1990", DateProperty, edtf.Approximate)
	require.True(t, res.Matched())
	assert.Equal(t, "1989~/1990~", res.Date.String())
	assert.Equal(t, edtf.Approximate, res.Date.Qualification())
}

func chainNames(chain []extract.Extractor) []string {
	names := make([]string, len(chain))
	for i, e := range chain {
		names[i] = e.Name()
	}
	return names
}

func TestChains(t *testing.T) {
	generic := []string{
		"edtf",
		"edtf_range",
		"century_numeric",
		"century_roman",
		"century_range_roman",
		"decade",
		"numeric_range",
		"numeric",
		"dcmi_period",
		"month_name",
		"formatted_full_date",
		"bc_ad",
		"bc_ad_range",
		"long_negative_year",
		"long_negative_year_range",
	}

	assert.Equal(t, generic, chainNames(GenericChain()))
	assert.Equal(t, append([]string{"brief_date_range"}, generic...), chainNames(DateChain()))
}

func TestNormalize_ChainPrecedence(t *testing.T) {
	tests := []struct {
		input string
		mode  Mode
		want  string
		id    extract.MatchID
	}{
		// a two digit end of 12 or less is a month, not a brief range
		{"1900/05", DateProperty, "1900-05", extract.MatchNumericAllVariants},
		{"1900/50", DateProperty, "1900/1950", extract.MatchBriefDateRange},
		// EDTF reads "1989-11" before the numeric range grammar can split it on "-"
		{"1989-11", DateProperty, "1989-11", extract.MatchEDTF},
		// the numeric range grammar wins over the single date grammar
		{"1989.11/1990.02", DateProperty, "1989-11/1990-02", extract.MatchNumericRangeAllVariants},
		{"XIV", GenericProperty, "13XX", extract.MatchCenturyRoman},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := n.Normalize(tt.input, tt.mode)
			require.True(t, res.Matched())
			assert.Equal(t, tt.want, res.Date.String())
			assert.Equal(t, tt.id, res.MatchID)
		})
	}
}

// sanitizedValue replays the pass that applied op to input and returns the value the
// chain matched
func sanitizedValue(t *testing.T, input string, mode Mode, op sanitize.Operation) string {
	t.Helper()
	passes := []sanitize.Pass{sanitize.FirstPass, sanitize.SecondPass}
	if mode == GenericProperty {
		passes = []sanitize.Pass{sanitize.GenericPass}
	}
	for _, pass := range passes {
		if got, ok := sanitize.Apply(pass, PreClean(input)); ok && got.Operation == op {
			return got.Value
		}
	}
	t.Fatalf("no pass of %q applies %s", input, op)
	return ""
}

func TestNormalize_SanitizedValueIsStable(t *testing.T) {
	tests := []struct {
		input string
		mode  Mode
	}{
		{"[ca. 1920-1930]", DateProperty},
		{"circa 1920", DateProperty},
		{"23.02.[18--]", DateProperty},
		{"(17--?)", DateProperty},
		{"1997-07-18T00:00:00 [text in brackets]", DateProperty},
		{"Période: 1989", DateProperty},
		{"(circa 1850)", DateProperty},
		{"1909.", DateProperty},
		{"[ 1850 ]", DateProperty},
		{"[circa 1989-11-01]", GenericProperty},
		{"[1989-11-01]", GenericProperty},
		{"1989-11-01(printed)", GenericProperty},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			first := n.Normalize(tt.input, tt.mode)
			require.True(t, first.Matched())
			require.NotEqual(t, sanitize.None, first.Operation)

			value := sanitizedValue(t, tt.input, tt.mode, first.Operation)
			override := edtf.NoQualification
			if first.Operation.ImpliesApproximate() {
				override = edtf.Approximate
			}

			again := n.NormalizeWithQualification(value, tt.mode, override)
			require.True(t, again.Matched(), "%q", value)
			assert.Equal(t, first.Date.String(), again.Date.String())
			assert.Equal(t, first.MatchID, again.MatchID)
			assert.Equal(t, sanitize.None, again.Operation, "%q needs no further cleanup", value)
		})
	}
}

func TestNormalize_TrimmedSanitizedValue(t *testing.T) {
	res := newTestNormalizer().Normalize("[ 1850 ]", DateProperty)
	require.True(t, res.Matched())
	assert.Equal(t, "1850", res.Date.String())
	assert.Equal(t, extract.MatchEDTF, res.MatchID)
	assert.Equal(t, sanitize.CaptureValueInSquareBrackets, res.Operation)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Date ")
	require.NoError(t, err)
	assert.Equal(t, DateProperty, m)

	m, err = ParseMode("generic")
	require.NoError(t, err)
	assert.Equal(t, GenericProperty, m)

	_, err = ParseMode("subject")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestPreClean(t *testing.T) {
	assert.Equal(t, "1989-1990", PreClean("  1989–1990 "))
	assert.Equal(t, "", PreClean(" "))
	assert.Equal(t, "Période", PreClean("Période"))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	n := New(DefaultOptions(), zap.NewNop().Sugar(), m)
	n.Normalize("1989-11-01", DateProperty)
	n.Normalize("1989-11-01", DateProperty)
	n.Normalize("31 April 1989", DateProperty)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			key := f.GetName()
			for _, l := range metric.GetLabel() {
				key += "," + l.GetName() + "=" + l.GetValue()
			}
			values[key] = metric.GetCounter().GetValue()
		}
	}

	assert.Equal(t, 2.0, values["datenorm_normalizations_total,match_id=edtf,mode=date,sanitize=,status=matched"])
	assert.Equal(t, 1.0, values["datenorm_normalizations_total,match_id=,mode=date,sanitize=,status=no_match"])
	assert.Equal(t, 1.0, values["datenorm_extraction_errors_total,extractor=month_name"])

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice fails")
}
