package cache

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/ppiankov/datenorm/internal/model"
)

// Memo remembers normalized values so that repeated field values across records
// are normalized once
type Memo struct {
	cache  Cache
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo wraps c. A zero ttl defers to the cache's own default.
func NewMemo(c Cache, ttl time.Duration) *Memo {
	return &Memo{cache: c, ttl: ttl}
}

// Lookup returns the remembered outcome for value under variant, which must
// encode everything besides the value that affects the outcome
func (m *Memo) Lookup(variant, value string) (model.NormalizedDate, bool) {
	data, ok := m.cache.Get(Key(variant, value))
	if !ok {
		m.misses.Add(1)
		return model.NormalizedDate{}, false
	}

	var d model.NormalizedDate
	if err := json.Unmarshal(data, &d); err != nil {
		m.misses.Add(1)
		return model.NormalizedDate{}, false
	}
	m.hits.Add(1)
	return d, true
}

// Store remembers an outcome
func (m *Memo) Store(variant, value string, d model.NormalizedDate) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return m.cache.Set(Key(variant, value), data, m.ttl)
}

// Stats returns the hit and miss counts
func (m *Memo) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}
