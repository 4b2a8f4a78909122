package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/datenorm/internal/model"
)

// Properties compared for chronology conflicts
const (
	createdProperty = "dcterms:created"
	issuedProperty  = "dcterms:issued"
)

// Scorer calculates the coverage index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores how well a record's candidate fields normalized
func (s *Scorer) Calculate(fields []model.FieldReport) model.Coverage {
	var signals []model.Signal

	// 1. Normalization coverage (0-70 points)
	coverageScore, coverageSignal := s.calculateCoverage(fields)
	signals = append(signals, coverageSignal)

	// 2. Day precision (0-20 points)
	precisionScore, precisionSignal := s.calculatePrecision(fields)
	signals = append(signals, precisionSignal)

	// 3. Direct matches (0-10 points)
	directScore, relianceSignal := s.calculateReliance(fields)
	signals = append(signals, relianceSignal)

	// 4. Chronology conflict (penalty)
	conflictDetected, conflictSignal := s.detectConflict(fields)
	if conflictDetected {
		signals = append(signals, conflictSignal)
	}

	totalScore := coverageScore + precisionScore + directScore
	if conflictDetected {
		totalScore -= 10
		if totalScore < 0 {
			totalScore = 0
		}
	}

	return model.Coverage{
		Index:      totalScore,
		Confidence: s.determineConfidence(totalScore, len(fields), conflictDetected),
		Conflict:   conflictDetected,
		Signals:    signals,
	}
}

func matchedFields(fields []model.FieldReport) []model.FieldReport {
	var out []model.FieldReport
	for _, f := range fields {
		if f.Result.Matched() {
			out = append(out, f)
		}
	}
	return out
}

// calculateCoverage scores the matched share of candidate fields (0-70 points)
func (s *Scorer) calculateCoverage(fields []model.FieldReport) (int, model.Signal) {
	if len(fields) == 0 {
		return 0, model.Signal{
			Type:        model.SignalNormalizationCoverage,
			Severity:    model.SeverityCritical,
			Description: "No candidate date fields",
			Data:        map[string]any{"fields": 0, "matched": 0},
		}
	}

	matched := len(matchedFields(fields))
	ratio := float64(matched) / float64(len(fields))
	score := int(math.Round(ratio * 70))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 1.0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalNormalizationCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Normalized %d/%d candidate fields", matched, len(fields)),
		Data: map[string]any{
			"fields":  len(fields),
			"matched": matched,
			"ratio":   ratio,
			"score":   score,
			"formula": "matched / fields * 70",
		},
	}
}

// calculatePrecision scores the day-precision share of matches (0-20 points) and
// reports how matches spread over precisions
func (s *Scorer) calculatePrecision(fields []model.FieldReport) (int, model.Signal) {
	matched := matchedFields(fields)
	distribution := map[string]int{}
	dayCount := 0
	for _, f := range matched {
		distribution[precisionOf(f.Result.EDTF)]++
		if f.Result.DayPrecision {
			dayCount++
		}
	}

	if len(matched) == 0 {
		return 0, model.Signal{
			Type:        model.SignalPrecisionDistribution,
			Severity:    model.SeverityInfo,
			Description: "No normalized dates",
			Data:        map[string]any{"matched": 0},
		}
	}

	ratio := float64(dayCount) / float64(len(matched))
	score := int(math.Round(ratio * 20))

	data := map[string]any{
		"matched": len(matched),
		"day":     dayCount,
		"score":   score,
		"formula": "day_precision / matched * 20",
	}
	parts := make([]string, 0, len(precisionOrder))
	for _, p := range precisionOrder {
		if n := distribution[p]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, p))
		}
	}
	data["distribution"] = distribution

	return score, model.Signal{
		Type:        model.SignalPrecisionDistribution,
		Severity:    model.SeverityInfo,
		Description: "Precision: " + strings.Join(parts, ", "),
		Data:        data,
	}
}

// calculateReliance scores the share of matches that needed no text cleanup (0-10 points)
func (s *Scorer) calculateReliance(fields []model.FieldReport) (int, model.Signal) {
	matched := matchedFields(fields)
	if len(matched) == 0 {
		return 0, model.Signal{
			Type:        model.SignalSanitizationReliance,
			Severity:    model.SeverityInfo,
			Description: "No normalized dates",
			Data:        map[string]any{"matched": 0},
		}
	}

	operations := map[string]int{}
	sanitized := 0
	for _, f := range matched {
		if f.Result.Sanitize != "" {
			sanitized++
			operations[f.Result.Sanitize]++
		}
	}

	direct := len(matched) - sanitized
	ratio := float64(direct) / float64(len(matched))
	score := int(math.Round(ratio * 10))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalSanitizationReliance,
		Severity:    severity,
		Description: fmt.Sprintf("%d/%d dates needed text cleanup", sanitized, len(matched)),
		Data: map[string]any{
			"matched":    len(matched),
			"sanitized":  sanitized,
			"operations": operations,
			"score":      score,
			"formula":    "direct / matched * 10",
		},
	}
}

// detectConflict reports a creation date that begins after the record's issue date
func (s *Scorer) detectConflict(fields []model.FieldReport) (bool, model.Signal) {
	var created, issued []model.NormalizedDate
	for _, f := range matchedFields(fields) {
		switch strings.ToLower(f.Property) {
		case createdProperty:
			created = append(created, f.Result)
		case issuedProperty:
			issued = append(issued, f.Result)
		}
	}

	for _, c := range created {
		cBegin, ok := parseDay(c.Begin)
		if !ok {
			continue
		}
		for _, i := range issued {
			iEnd, ok := parseDay(i.End)
			if !ok || !cBegin.after(iEnd) {
				continue
			}
			return true, model.Signal{
				Type:        model.SignalChronologyConflict,
				Severity:    model.SeverityWarning,
				Description: fmt.Sprintf("Created %s after issued %s", c.EDTF, i.EDTF),
				Data: map[string]any{
					"created": c.EDTF,
					"issued":  i.EDTF,
					"penalty": 10,
				},
			}
		}
	}
	return false, model.Signal{}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, fieldCount int, conflict bool) string {
	if conflict {
		return "low-medium"
	}

	if fieldCount == 0 {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	}
	return "low"
}

var precisionOrder = []string{"day", "month", "year", "decade", "century", "long_year", "open"}

// precisionOf classifies an EDTF value by its first declared side
func precisionOf(edtf string) string {
	side := edtf
	if start, end, ok := strings.Cut(edtf, "/"); ok {
		side = start
		if start == ".." || start == "" {
			side = end
		}
	}
	side = strings.TrimRight(side, "?~%")

	switch {
	case side == ".." || side == "":
		return "open"
	case strings.HasPrefix(side, "Y"):
		return "long_year"
	case strings.HasSuffix(side, "XX"):
		return "century"
	case strings.HasSuffix(side, "X"):
		return "decade"
	}

	switch strings.Count(strings.TrimPrefix(side, "-"), "-") {
	case 2:
		return "day"
	case 1:
		return "month"
	}
	return "year"
}

type day struct {
	year, month, dayOfMonth int
}

func (d day) after(o day) bool {
	if d.year != o.year {
		return d.year > o.year
	}
	if d.month != o.month {
		return d.month > o.month
	}
	return d.dayOfMonth > o.dayOfMonth
}

// parseDay reads a bound such as "1920-01-01", "-0299-12-31" or "Y-12000"
func parseDay(s string) (day, bool) {
	s = strings.TrimPrefix(s, "Y")
	if s == "" {
		return day{}, false
	}

	negative := strings.HasPrefix(s, "-")
	parts := strings.Split(strings.TrimPrefix(s, "-"), "-")
	var nums [3]int
	for i, p := range parts {
		if i >= len(nums) {
			return day{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return day{}, false
		}
		nums[i] = n
	}
	if negative {
		nums[0] = -nums[0]
	}
	return day{year: nums[0], month: nums[1], dayOfMonth: nums[2]}, true
}
