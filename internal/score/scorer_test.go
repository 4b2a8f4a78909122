package score

import (
	"testing"

	"github.com/ppiankov/datenorm/internal/model"
)

func field(property, edtf, begin, end, sanitize string, dayPrecision bool) model.FieldReport {
	return model.FieldReport{
		Property: property,
		Mode:     "date",
		Result: model.NormalizedDate{
			Status:       "matched",
			EDTF:         edtf,
			Begin:        begin,
			End:          end,
			Sanitize:     sanitize,
			DayPrecision: dayPrecision,
		},
	}
}

func unmatched(property string) model.FieldReport {
	return model.FieldReport{Property: property, Mode: "date", Result: model.NormalizedDate{Status: "no_match"}}
}

func findSignal(signals []model.Signal, typ model.SignalType) *model.Signal {
	for i := range signals {
		if signals[i].Type == typ {
			return &signals[i]
		}
	}
	return nil
}

func TestScorer_Calculate_AllDayPrecision(t *testing.T) {
	scorer := NewScorer()

	fields := []model.FieldReport{
		field("dcterms:created", "1920-03-01", "1920-03-01", "1920-03-01", "", true),
		field("dcterms:issued", "1921-05-02", "1921-05-02", "1921-05-02", "", true),
	}
	result := scorer.Calculate(fields)

	if result.Index != 100 {
		t.Errorf("Expected index 100, got %d", result.Index)
	}
	if result.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
	if result.Conflict {
		t.Error("Expected no conflict")
	}
}

func TestScorer_Calculate_Empty(t *testing.T) {
	scorer := NewScorer()
	result := scorer.Calculate(nil)

	if result.Index != 0 {
		t.Errorf("Expected index 0 for no fields, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}
	s := findSignal(result.Signals, model.SignalNormalizationCoverage)
	if s == nil || s.Severity != model.SeverityCritical {
		t.Errorf("Expected critical coverage signal, got %+v", s)
	}
}

func TestScorer_Calculate_PartialCoverage(t *testing.T) {
	scorer := NewScorer()

	// Half matched at year precision, one of them sanitized
	fields := []model.FieldReport{
		field("dc:date", "1920", "1920-01-01", "1920-12-31", "", false),
		field("dc:date", "1930~", "1930-01-01", "1930-12-31", "CIRCA", false),
		unmatched("dc:date"),
		unmatched("dc:subject"),
	}
	result := scorer.Calculate(fields)

	// 35 for coverage, 0 for precision, 5 for direct share
	if result.Index != 40 {
		t.Errorf("Expected index 40, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}

	coverage := findSignal(result.Signals, model.SignalNormalizationCoverage)
	if coverage == nil || coverage.Severity != model.SeverityWarning {
		t.Errorf("Expected warning coverage signal, got %+v", coverage)
	}

	reliance := findSignal(result.Signals, model.SignalSanitizationReliance)
	if reliance == nil {
		t.Fatal("Expected sanitization reliance signal")
	}
	if reliance.Data["sanitized"] != 1 {
		t.Errorf("Expected 1 sanitized match, got %v", reliance.Data["sanitized"])
	}
}

func TestScorer_Calculate_PrecisionDistribution(t *testing.T) {
	scorer := NewScorer()

	fields := []model.FieldReport{
		field("dc:date", "1920-03-01", "1920-03-01", "1920-03-01", "", true),
		field("dc:date", "1920-03", "1920-03-01", "1920-03-31", "", false),
		field("dc:date", "19XX", "1901-01-01", "2000-12-31", "", false),
		field("dc:date", "192X?", "1920-01-01", "1929-12-31", "", false),
		field("dc:date", "../1950", "", "1950-12-31", "", false),
	}
	result := scorer.Calculate(fields)

	s := findSignal(result.Signals, model.SignalPrecisionDistribution)
	if s == nil {
		t.Fatal("Expected precision distribution signal")
	}
	dist, ok := s.Data["distribution"].(map[string]int)
	if !ok {
		t.Fatalf("Expected distribution map, got %T", s.Data["distribution"])
	}
	want := map[string]int{"day": 1, "month": 1, "century": 1, "decade": 1, "year": 1}
	for k, v := range want {
		if dist[k] != v {
			t.Errorf("Expected %d %s, got %d", v, k, dist[k])
		}
	}
}

func TestScorer_Calculate_ChronologyConflict(t *testing.T) {
	scorer := NewScorer()

	fields := []model.FieldReport{
		field("dcterms:created", "1950", "1950-01-01", "1950-12-31", "", false),
		field("dcterms:issued", "1920", "1920-01-01", "1920-12-31", "", false),
	}
	result := scorer.Calculate(fields)

	if !result.Conflict {
		t.Fatal("Expected chronology conflict")
	}
	if result.Confidence != "low-medium" {
		t.Errorf("Expected low-medium confidence, got %s", result.Confidence)
	}
	// 70 + 0 + 10 minus the penalty
	if result.Index != 70 {
		t.Errorf("Expected index 70, got %d", result.Index)
	}
	if findSignal(result.Signals, model.SignalChronologyConflict) == nil {
		t.Error("Expected chronology conflict signal")
	}
}

func TestScorer_Calculate_NoConflictForOverlap(t *testing.T) {
	scorer := NewScorer()

	fields := []model.FieldReport{
		field("dcterms:created", "1920", "1920-01-01", "1920-12-31", "", false),
		field("dcterms:issued", "1920-06", "1920-06-01", "1920-06-30", "", false),
		field("dcterms:created", "-0299", "-0299-01-01", "-0299-12-31", "", false),
	}
	result := scorer.Calculate(fields)

	if result.Conflict {
		t.Error("Expected no conflict when creation begins before the issue ends")
	}
}

func TestPrecisionOf(t *testing.T) {
	tests := []struct {
		edtf string
		want string
	}{
		{"1920-03-01", "day"},
		{"-0299-03-01", "day"},
		{"1920-03", "month"},
		{"1920", "year"},
		{"-0299", "year"},
		{"192X", "decade"},
		{"19XX~", "century"},
		{"Y-12000", "long_year"},
		{"1920/1930", "year"},
		{"../1930-05", "month"},
		{"../..", "open"},
	}
	for _, tt := range tests {
		if got := precisionOf(tt.edtf); got != tt.want {
			t.Errorf("precisionOf(%q) = %s, want %s", tt.edtf, got, tt.want)
		}
	}
}

func TestParseDay(t *testing.T) {
	d, ok := parseDay("-0299-12-31")
	if !ok || d.year != -299 || d.month != 12 || d.dayOfMonth != 31 {
		t.Errorf("Unexpected parse: %+v %v", d, ok)
	}
	d, ok = parseDay("Y-12000")
	if !ok || d.year != -12000 {
		t.Errorf("Unexpected long year parse: %+v %v", d, ok)
	}
	if _, ok := parseDay(""); ok {
		t.Error("Expected empty bound to fail")
	}
	if _, ok := parseDay("19XX"); ok {
		t.Error("Expected non-numeric bound to fail")
	}
}
