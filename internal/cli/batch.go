package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ppiankov/datenorm/internal/logger"
	"github.com/ppiankov/datenorm/internal/model"
	"github.com/ppiankov/datenorm/internal/normalize"
	"github.com/ppiankov/datenorm/internal/pipeline"
	"github.com/ppiankov/datenorm/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	metricsFile  string
	batchTimeout time.Duration
	noCache      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-or-glob>...",
	Short: "Normalize many EDM records in parallel",
	Long: `Batch processes many record files concurrently:
- Inputs are list files (one path per line) or glob patterns such as "data/**/*.xml"
- Records are processed in parallel with a configurable worker count
- Each dataset directory is rate limited separately
- Writes one report per record and a summary for the run

Example:
  datenorm batch records.txt
  datenorm batch "datasets/**/*.xml" --concurrency 8 --output-dir ./reports
  datenorm batch records.txt --metrics-file batch.prom --timeout 30m`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default: output.dir)")
	batchCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the normalization cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	runID := uuid.NewString()
	log := logger.Logger.With("run_id", runID)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Datenorm Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run:          %s\n", runID)
	fmt.Fprintf(os.Stderr, "  Inputs:       %s\n", strings.Join(args, ", "))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := normalize.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, log, metrics)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.RateLimiting.RecordsPerSecond, cfg.RateLimiting.BurstSize)

	// Resolve inputs
	fmt.Fprintf(os.Stderr, "⚙️  Resolving record files...\n")
	paths, err := worker.ResolveInputs(args)
	if err != nil {
		return fmt.Errorf("resolve inputs: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Found %d records\n", len(paths))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Processing records with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	started := time.Now()
	results := processor.ProcessPaths(ctx, paths)

	summary := model.BatchSummary{
		RunID:     runID,
		StartedAt: started.UTC(),
		Records:   len(paths),
		MatchIDs:  make(map[string]int),
	}

	renderer := p.Renderer()
	ext := "." + strings.ToLower(cfg.Output.Format)
	for _, result := range results {
		if result.Error != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, model.BatchFailure{Path: result.Path, Error: result.Error.Error()})
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		report := result.Report
		report.RunID = runID

		reportPath := filepath.Join(cfg.Output.Dir, sanitizeFilename(report.Subject)+ext)
		if err := renderer.RenderFormat(report, reportPath, cfg.Output.Format); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, model.BatchFailure{Path: result.Path, Error: err.Error()})
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Path, err)
			continue
		}

		summary.Succeeded++
		for _, f := range report.Fields {
			summary.Fields++
			if f.Result.Matched() {
				summary.Matched++
				summary.MatchIDs[f.Result.MatchID]++
			}
		}

		fmt.Fprintf(os.Stderr, "✓ %s (coverage: %d/100)\n", report.Subject, report.Coverage.Index)
	}

	// Records never started because the batch was cancelled
	if missing := len(paths) - len(results); missing > 0 {
		summary.Failed += missing
		log.Warnw("batch stopped early", "unprocessed", missing, "error", ctx.Err())
	}
	summary.Duration = time.Since(started).Round(time.Millisecond).String()

	summaryPath := filepath.Join(cfg.Output.Dir, "batch-"+runID+ext)
	if err := renderer.RenderFormat(summary, summaryPath, cfg.Output.Format); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	hits, misses := p.MemoStats()
	log.Debugw("memo statistics", "hits", hits, "misses", misses)

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d records\n", summary.Records)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", summary.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Dates:     %d/%d fields normalized\n", summary.Matched, summary.Fields)
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", summary.Duration)
	fmt.Fprintf(os.Stderr, "  Summary:   %s\n", summaryPath)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a record subject into a file name
func sanitizeFilename(s string) string {
	s = strings.Trim(filenameReplacer.Replace(s), "_.-")
	if s == "" {
		s = "record"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
