package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/datenorm/internal/cache"
	"github.com/ppiankov/datenorm/internal/edm"
	"github.com/ppiankov/datenorm/internal/edtf"
	"github.com/ppiankov/datenorm/internal/model"
	"github.com/ppiankov/datenorm/internal/normalize"
	"github.com/ppiankov/datenorm/internal/score"
)

// Pipeline orchestrates record processing: load, read, classify, normalize, score
type Pipeline struct {
	loader     *Loader
	reader     *edm.Reader
	classifier *edm.Classifier
	normalizer *normalize.Normalizer
	scorer     *score.Scorer
	renderer   *Renderer
	memo       *cache.Memo // nil when caching is disabled
	config     *model.Config
	logger     *zap.SugaredLogger
}

// NewPipeline creates a new pipeline with the given configuration. logger and
// metrics may be nil.
func NewPipeline(cfg *model.Config, logger *zap.SugaredLogger, metrics *normalize.Metrics) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	classifier, err := edm.NewClassifier(cfg.Properties)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	opts := normalize.Options{
		FlexibleDate:    cfg.Normalize.FlexibleDateProperties,
		FlexibleGeneric: cfg.Normalize.FlexibleGenericProperties,
	}

	var memo *cache.Memo
	if cfg.Cache.Enabled {
		var c cache.Cache
		if cfg.Cache.Dir != "" {
			c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			c = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
		memo = cache.NewMemo(c, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		loader:     NewLoader(cfg.Input.MaxBytes),
		reader:     edm.NewReader(),
		classifier: classifier,
		normalizer: normalize.New(opts, logger, metrics),
		scorer:     score.NewScorer(),
		renderer:   NewRenderer(),
		memo:       memo,
		config:     cfg,
		logger:     logger,
	}, nil
}

// ProcessResult contains the complete record result
type ProcessResult struct {
	Report *model.RecordReport
	Path   string
}

// candidate is a record field selected for normalization
type candidate struct {
	field edm.Field
	mode  normalize.Mode
}

// ProcessFile normalizes the candidate fields of one record file and scores the outcome
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*ProcessResult, error) {
	// 1. Load file
	loaded, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if loaded.Meta.Truncated {
		p.logger.Warnw("record truncated", "path", path, "size", loaded.Meta.Size, "max_bytes", p.config.Input.MaxBytes)
	}

	// 2. Read record
	rec, err := p.reader.Read(bytes.NewReader(loaded.Content))
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	// 3. Classify fields
	candidates, skipped := p.classify(rec.Fields)
	p.logger.Debugw("record classified", "path", path, "fields", len(rec.Fields), "candidates", len(candidates))

	// 4. Normalize candidates concurrently
	fields, err := p.normalizeFields(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	// 5. Calculate coverage
	coverage := p.scorer.Calculate(fields)

	subject := rec.About
	if subject == "" {
		subject = loaded.Subject
	}

	return &ProcessResult{
		Report: &model.RecordReport{
			Subject:     subject,
			Source:      path,
			ProcessedAt: time.Now().UTC(),
			Meta:        loaded.Meta,
			Fields:      fields,
			Skipped:     skipped,
			Coverage:    coverage,
		},
		Path: path,
	}, nil
}

// classify splits fields into normalization candidates and the distinct names of
// properties no rule selected
func (p *Pipeline) classify(fields []edm.Field) ([]candidate, []string) {
	var candidates []candidate
	var skipped []string
	seen := make(map[string]bool)

	for _, f := range fields {
		if mode, ok := p.classifier.Classify(f.Property); ok {
			candidates = append(candidates, candidate{field: f, mode: mode})
			continue
		}
		if !seen[f.Property] {
			seen[f.Property] = true
			skipped = append(skipped, f.Property)
		}
	}
	return candidates, skipped
}

// normalizeFields runs candidates through the normalizer with at most
// field_workers in flight. Output order follows input order.
func (p *Pipeline) normalizeFields(ctx context.Context, candidates []candidate) ([]model.FieldReport, error) {
	results := make([]model.FieldReport, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	workers := p.config.Concurrency.FieldWorkers
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, c := range candidates {
		wg.Add(1)
		go func(idx int, c candidate) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = model.FieldReport{
				Property: c.field.Property,
				Lang:     c.field.Lang,
				Mode:     string(c.mode),
				Result:   p.NormalizeValue(c.field.Value, c.mode, edtf.NoQualification),
			}
		}(i, c)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// NormalizeValue normalizes a single value, consulting the memo when caching is enabled
func (p *Pipeline) NormalizeValue(value string, mode normalize.Mode, override edtf.Qualification) model.NormalizedDate {
	variant := p.variant(mode, override)
	if p.memo != nil {
		if d, ok := p.memo.Lookup(variant, value); ok {
			return d
		}
	}

	res := p.normalizer.NormalizeWithQualification(value, mode, override)
	d := normalize.Describe(res, p.config.Output.IncludeTimeSpans)

	if p.memo != nil {
		if err := p.memo.Store(variant, value, d); err != nil {
			p.logger.Debugw("memo store failed", "value", value, "error", err)
		}
	}
	return d
}

// variant encodes every setting besides the value that changes a normalization outcome
func (p *Pipeline) variant(mode normalize.Mode, override edtf.Qualification) string {
	return fmt.Sprintf("%s|%d|%t|%t|%t", mode, override,
		p.config.Normalize.FlexibleDateProperties,
		p.config.Normalize.FlexibleGenericProperties,
		p.config.Output.IncludeTimeSpans)
}

// MemoStats returns memo hits and misses; zero when caching is disabled
func (p *Pipeline) MemoStats() (hits, misses int64) {
	if p.memo == nil {
		return 0, 0
	}
	return p.memo.Stats()
}

// Renderer returns the pipeline's report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
