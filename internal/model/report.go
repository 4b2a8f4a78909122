package model

import "time"

// RecordReport is the normalization report for one metadata record. Subject is the
// edm:ProvidedCHO identifier (or the file name) and Skipped lists properties no rule classified.
type RecordReport struct {
	RunID       string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Subject     string        `json:"subject" yaml:"subject"`
	Source      string        `json:"source" yaml:"source"`
	ProcessedAt time.Time     `json:"processed_at" yaml:"processed_at"`
	Meta        FileMeta      `json:"meta" yaml:"meta"`
	Fields      []FieldReport `json:"fields" yaml:"fields"`
	Skipped     []string      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Coverage    Coverage      `json:"coverage" yaml:"coverage"`
}

// FileMeta describes the record file as read
type FileMeta struct {
	Size      int64     `json:"size" yaml:"size"`
	Truncated bool      `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	ModTime   time.Time `json:"mod_time" yaml:"mod_time"`
}

// FieldReport is one normalized field of a record
type FieldReport struct {
	Property string         `json:"property" yaml:"property"`
	Lang     string         `json:"lang,omitempty" yaml:"lang,omitempty"`
	Mode     string         `json:"mode" yaml:"mode"`
	Result   NormalizedDate `json:"result" yaml:"result"`
}

// NormalizedDate is the serialisable outcome of normalizing one value
type NormalizedDate struct {
	Status        string    `json:"status" yaml:"status"` // matched or no_match
	Input         string    `json:"input" yaml:"input"`
	MatchID       string    `json:"match_id,omitempty" yaml:"match_id,omitempty"`
	EDTF          string    `json:"edtf,omitempty" yaml:"edtf,omitempty"`
	Label         string    `json:"label,omitempty" yaml:"label,omitempty"`
	Qualification string    `json:"qualification,omitempty" yaml:"qualification,omitempty"`
	Sanitize      string    `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
	DayPrecision  bool      `json:"day_precision,omitempty" yaml:"day_precision,omitempty"`
	Begin         string    `json:"begin,omitempty" yaml:"begin,omitempty"`
	End           string    `json:"end,omitempty" yaml:"end,omitempty"`
	TimeSpan      *TimeSpan `json:"time_span,omitempty" yaml:"time_span,omitempty"`
}

// Matched reports whether a date was found
func (d NormalizedDate) Matched() bool {
	return d.Status == "matched"
}

// TimeSpan summarises a matched date as an EDM time-span entity
type TimeSpan struct {
	ID               string      `json:"id" yaml:"id"`
	PrefLabel        LangLiteral `json:"pref_label" yaml:"pref_label"`
	Notes            []string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	IsPartOf         []string    `json:"is_part_of,omitempty" yaml:"is_part_of,omitempty"`
	Begin            string      `json:"begin,omitempty" yaml:"begin,omitempty"`
	End              string      `json:"end,omitempty" yaml:"end,omitempty"`
	Notation         string      `json:"notation" yaml:"notation"`
	NotationDatatype string      `json:"notation_datatype" yaml:"notation_datatype"`
}

// LangLiteral is a literal with a language tag
type LangLiteral struct {
	Value string `json:"value" yaml:"value"`
	Lang  string `json:"lang" yaml:"lang"`
}

// Coverage is the transparent scoring of how well a record's dates normalized
type Coverage struct {
	Index      int      `json:"index" yaml:"index"`           // 0-100
	Confidence string   `json:"confidence" yaml:"confidence"` // "low", "medium", "high"
	Conflict   bool     `json:"conflict" yaml:"conflict"`     // Chronology conflict between fields
	Signals    []Signal `json:"signals" yaml:"signals"`
}

// Signal is a diagnostic signal with the data behind it
type Signal struct {
	Type        SignalType     `json:"type" yaml:"type"`
	Severity    SignalSeverity `json:"severity" yaml:"severity"`
	Description string         `json:"description" yaml:"description"`
	Data        map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// SignalType classifies a signal
type SignalType string

const (
	SignalNormalizationCoverage SignalType = "normalization_coverage" // Matched share of candidate fields
	SignalSanitizationReliance  SignalType = "sanitization_reliance"  // Matches that needed text cleanup
	SignalPrecisionDistribution SignalType = "precision_distribution" // Day, month, year, decade, century counts
	SignalChronologyConflict    SignalType = "chronology_conflict"    // Created after issued
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// BatchSummary totals a batch run
type BatchSummary struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	StartedAt time.Time      `json:"started_at" yaml:"started_at"`
	Duration  string         `json:"duration" yaml:"duration"`
	Records   int            `json:"records" yaml:"records"`
	Succeeded int            `json:"succeeded" yaml:"succeeded"`
	Failed    int            `json:"failed" yaml:"failed"`
	Fields    int            `json:"fields" yaml:"fields"`
	Matched   int            `json:"matched" yaml:"matched"`
	MatchIDs  map[string]int `json:"match_ids,omitempty" yaml:"match_ids,omitempty"`
	Failures  []BatchFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// BatchFailure records a record file that could not be processed
type BatchFailure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}
