package worker

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-dataset rate limiting. A record's dataset is the
// directory that holds it.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables limiting.
func NewLimiter(recordsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(recordsPerSecond)
	if recordsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait waits for rate limit clearance for the record at path
func (l *Limiter) Wait(ctx context.Context, path string) error {
	return l.getLimiter(datasetOf(path)).Wait(ctx)
}

// Allow checks if a record is allowed without waiting
func (l *Limiter) Allow(path string) bool {
	return l.getLimiter(datasetOf(path)).Allow()
}

// getLimiter returns the rate limiter for a dataset
func (l *Limiter) getLimiter(dataset string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[dataset]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[dataset]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[dataset] = limiter

	return limiter
}

// SetDatasetRate sets a custom rate limit for the records under dir
func (l *Limiter) SetDatasetRate(dir string, recordsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[filepath.Clean(dir)] = rate.NewLimiter(rate.Limit(recordsPerSecond), burst)
}

// datasetOf returns the dataset key for a record path
func datasetOf(path string) string {
	return filepath.Dir(filepath.Clean(path))
}
