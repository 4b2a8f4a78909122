package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/datenorm/internal/model"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Renderer writes reports as JSON or YAML
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Encode writes v to w in format
func (r *Renderer) Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

// RenderJSON writes v as indented JSON to path
func (r *Renderer) RenderJSON(v any, path string) error {
	return r.renderFile(v, path, FormatJSON)
}

// RenderYAML writes v as YAML to path
func (r *Renderer) RenderYAML(v any, path string) error {
	return r.renderFile(v, path, FormatYAML)
}

// RenderFormat writes v to path in format ("json" or "yaml")
func (r *Renderer) RenderFormat(v any, path, format string) error {
	return r.renderFile(v, path, format)
}

func (r *Renderer) renderFile(v any, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := r.Encode(f, format, v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable summary of a record report
func (r *Renderer) RenderSummary(w io.Writer, report *model.RecordReport) {
	matched := 0
	for _, f := range report.Fields {
		if f.Result.Matched() {
			matched++
		}
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", report.Subject)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Coverage index:  %d/100 (%s confidence)\n", report.Coverage.Index, report.Coverage.Confidence)
	fmt.Fprintf(w, "  Fields:          %d normalized of %d candidates\n", matched, len(report.Fields))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "  Skipped:         %s\n", strings.Join(report.Skipped, ", "))
	}
	fmt.Fprintf(w, "\n")

	for _, f := range report.Fields {
		if f.Result.Matched() {
			fmt.Fprintf(w, "  ✓ %-18s %q → %s (%s)\n", f.Property, f.Result.Input, f.Result.EDTF, f.Result.MatchID)
		} else {
			fmt.Fprintf(w, "  ✗ %-18s %q\n", f.Property, f.Result.Input)
		}
	}

	if report.Coverage.Conflict {
		fmt.Fprintf(w, "\n  ⚠️  Chronology conflict between creation and issue dates\n")
	}
	fmt.Fprintf(w, "\n")
}
