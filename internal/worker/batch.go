package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ppiankov/datenorm/internal/model"
	"github.com/ppiankov/datenorm/internal/pipeline"
)

// Processor defines the interface for processing a record file
type Processor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.ProcessResult, error)
}

// RecordJob represents a record file processing job
type RecordJob struct {
	Path      string
	Processor Processor
	Limiter   *Limiter
}

// Execute executes the record job
func (j *RecordJob) Execute(ctx context.Context) Result {
	start := time.Now()

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Path); err != nil {
			return &RecordResult{Path: j.Path, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	result, err := j.Processor.ProcessFile(ctx, j.Path)
	if err != nil {
		return &RecordResult{
			Path:     j.Path,
			Error:    err,
			Duration: time.Since(start),
		}
	}
	return &RecordResult{
		Path:     j.Path,
		Report:   result.Report,
		Duration: time.Since(start),
	}
}

// RecordResult represents the result of a record job
type RecordResult struct {
	Path     string
	Report   *model.RecordReport
	Error    error
	Duration time.Duration
}

// GetError returns the error from the record result
func (r *RecordResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple record files concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int, recordsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		limiter:     NewLimiter(recordsPerSecond, burst),
	}
}

// ProcessPaths processes record files concurrently. Results follow the order of paths.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*RecordResult {
	if len(paths) == 0 {
		return []*RecordResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		job := &RecordJob{
			Path:      path,
			Processor: b.processor,
			Limiter:   b.limiter,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	recordResults := make([]*RecordResult, len(results))
	for i, result := range results {
		recordResults[i] = result.(*RecordResult)
	}

	return recordResults
}

// ProcessInputs resolves list files and glob patterns, then processes the records
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) ([]*RecordResult, error) {
	paths, err := ResolveInputs(inputs)
	if err != nil {
		return nil, fmt.Errorf("resolve inputs: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ResolveInputs expands each input into record paths. Inputs with glob
// metacharacters are doublestar patterns, .xml and .rdf files are records, and
// anything else is a list file. The result is deduplicated.
func ResolveInputs(inputs []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, input := range inputs {
		switch {
		case strings.ContainsAny(input, "*?[{"):
			matches, err := globFiles(input)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		case isRecordFile(input):
			add(input)
		default:
			listed, err := ReadPathsFromFile(input)
			if err != nil {
				return nil, err
			}
			for _, p := range listed {
				add(p)
			}
		}
	}

	return paths, nil
}

// globFiles expands a doublestar pattern into regular files, sorted
func globFiles(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("pattern %q matched no files", pattern)
	}

	sort.Strings(files)
	return files, nil
}

func isRecordFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".rdf":
		return true
	}
	return false
}

// ReadPathsFromFile reads record paths from a file (one per line). Relative
// paths are resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
