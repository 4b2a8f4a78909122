package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/datenorm/internal/logger"
	"github.com/ppiankov/datenorm/internal/pipeline"
)

var (
	outJSON       string
	outYAML       string
	recordTimeout time.Duration
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record <file>",
	Short: "Normalize the date fields of one EDM record",
	Long: `Record reads one EDM RDF/XML record and:
- Selects date and free-text fields from the provider proxies
- Normalizes each selected value to EDTF
- Scores how well the record's dates normalized
- Writes a JSON or YAML report

Example:
  datenorm record item_42.xml
  datenorm record item_42.xml --json report.json --yaml report.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	recordCmd.Flags().StringVar(&outYAML, "yaml", "", "output YAML path")
	recordCmd.Flags().DurationVar(&recordTimeout, "timeout", time.Minute, "processing timeout")
}

func runRecord(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, logger.Logger, nil)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	logger.Logger.Debugw("processing record", "path", path)
	result, err := p.ProcessFile(ctx, path)
	if err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	renderer := p.Renderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(result.Report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outYAML != "" {
		if err := renderer.RenderYAML(result.Report, outYAML); err != nil {
			return fmt.Errorf("render YAML: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote YAML: %s\n", outYAML)
		}
	}

	// Without output files the report goes to stdout
	if outJSON == "" && outYAML == "" {
		return renderer.Encode(os.Stdout, cfg.Output.Format, result.Report)
	}

	renderer.RenderSummary(os.Stdout, result.Report)
	return nil
}
