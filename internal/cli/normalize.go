package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ppiankov/datenorm/internal/edtf"
	"github.com/ppiankov/datenorm/internal/logger"
	"github.com/ppiankov/datenorm/internal/model"
	"github.com/ppiankov/datenorm/internal/normalize"
	"github.com/ppiankov/datenorm/internal/pipeline"
)

var (
	normalizeMode          string
	normalizeQualification string
	normalizeFormat        string
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize <value>...",
	Short: "Normalize one or more date values to EDTF",
	Long: `Normalize reads each value as a date or date range and prints its EDTF form:
- Date mode uses every grammar and both cleanup passes
- Generic mode only accepts full dates, centuries and named periods
- A qualification overrides whatever the value itself declares

Example:
  datenorm normalize "1 November 1989" "[ca. 1920-1930]"
  datenorm normalize XIV --mode generic
  datenorm normalize 1989 --qualification uncertain --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVar(&normalizeMode, "mode", string(normalize.DateProperty), "property mode (date, generic)")
	normalizeCmd.Flags().StringVar(&normalizeQualification, "qualification", "", "qualification override (approximate, uncertain, both)")
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", "text", "output format (text, json, yaml)")
}

// parseNormalizeFlags validates --mode, --qualification and --format
func parseNormalizeFlags(mode, qualification, format string) (normalize.Mode, edtf.Qualification, error) {
	m, err := normalize.ParseMode(mode)
	if err != nil {
		return "", edtf.NoQualification, errors.WithHint(err, "--mode accepts date or generic")
	}
	override, err := edtf.ParseQualification(qualification)
	if err != nil {
		return "", edtf.NoQualification, errors.WithHint(err, "--qualification accepts approximate, uncertain or both")
	}
	switch strings.ToLower(format) {
	case "text", pipeline.FormatJSON, pipeline.FormatYAML:
	default:
		return "", edtf.NoQualification, errors.WithHint(
			errors.Newf("unsupported format %q", format), "--format accepts text, json or yaml")
	}
	return m, override, nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	mode, override, err := parseNormalizeFlags(normalizeMode, normalizeQualification, normalizeFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Single values are cheap; skip the disk layer
	cfg.Cache.Enabled = false

	p, err := pipeline.NewPipeline(cfg, logger.Logger, nil)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	results := make([]model.NormalizedDate, len(args))
	for i, value := range args {
		results[i] = p.NormalizeValue(value, mode, override)
	}

	if strings.EqualFold(normalizeFormat, "text") {
		for _, r := range results {
			printNormalized(r)
		}
		return nil
	}
	return p.Renderer().Encode(os.Stdout, strings.ToLower(normalizeFormat), results)
}

func printNormalized(r model.NormalizedDate) {
	if !r.Matched() {
		fmt.Printf("✗ %q: no match\n", r.Input)
		return
	}

	fmt.Printf("✓ %q → %s (%s", r.Input, r.EDTF, r.MatchID)
	if r.Sanitize != "" {
		fmt.Printf(", %s", r.Sanitize)
	}
	fmt.Printf(")\n")
	if verbose && r.Label != r.EDTF {
		fmt.Printf("    label: %s\n", r.Label)
	}
	if verbose && (r.Begin != "" || r.End != "") {
		fmt.Printf("    begin: %s  end: %s\n", orOpen(r.Begin), orOpen(r.End))
	}
}

func orOpen(s string) string {
	if s == "" {
		return ".."
	}
	return s
}
