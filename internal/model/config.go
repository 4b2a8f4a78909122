package model

import (
	"runtime"
	"time"
)

// Config is the complete datenorm configuration
type Config struct {
	Properties   PropertiesConfig   `yaml:"properties" toml:"properties" mapstructure:"properties"`
	Normalize    NormalizeConfig    `yaml:"normalize" toml:"normalize" mapstructure:"normalize"`
	Cache        CacheConfig        `yaml:"cache" toml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" toml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" toml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" toml:"output" mapstructure:"output"`
	Input        InputConfig        `yaml:"input" toml:"input" mapstructure:"input"`
}

// PropertiesConfig decides which record fields are normalized, and how
type PropertiesConfig struct {
	Date     []string      `yaml:"date" toml:"date" mapstructure:"date"`             // Date-typed properties
	Generic  []string      `yaml:"generic" toml:"generic" mapstructure:"generic"`    // Free-text properties
	Patterns []PatternRule `yaml:"patterns" toml:"patterns" mapstructure:"patterns"` // Checked after the lists
}

// PatternRule maps property names matching Pattern to Mode ("date" or "generic")
type PatternRule struct {
	Pattern string `yaml:"pattern" toml:"pattern" mapstructure:"pattern"`
	Mode    string `yaml:"mode" toml:"mode" mapstructure:"mode"`
}

// NormalizeConfig controls builder repairs (day/month and start/end swaps)
type NormalizeConfig struct {
	FlexibleDateProperties    bool `yaml:"flexible_date_properties" toml:"flexible_date_properties" mapstructure:"flexible_date_properties"`
	FlexibleGenericProperties bool `yaml:"flexible_generic_properties" toml:"flexible_generic_properties" mapstructure:"flexible_generic_properties"`
}

// CacheConfig configures the memo of normalized values
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" toml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" toml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" toml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds record-level and field-level parallelism
type ConcurrencyConfig struct {
	Workers      int `yaml:"workers" toml:"workers" mapstructure:"workers"`
	FieldWorkers int `yaml:"field_workers" toml:"field_workers" mapstructure:"field_workers"`
}

// RateLimitingConfig throttles record processing per dataset
type RateLimitingConfig struct {
	RecordsPerSecond float64 `yaml:"records_per_second" toml:"records_per_second" mapstructure:"records_per_second"`
	BurstSize        int     `yaml:"burst_size" toml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Format           string `yaml:"format" toml:"format" mapstructure:"format"` // json or yaml
	Dir              string `yaml:"dir" toml:"dir" mapstructure:"dir"`
	IncludeTimeSpans bool   `yaml:"include_time_spans" toml:"include_time_spans" mapstructure:"include_time_spans"`
	Verbose          bool   `yaml:"-" toml:"-" mapstructure:"verbose"`
}

// InputConfig limits what is read from record files
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" toml:"max_bytes" mapstructure:"max_bytes"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Properties: PropertiesConfig{
			Date:    []string{"dcterms:created", "dcterms:issued", "dcterms:temporal", "dc:date"},
			Generic: []string{"dc:coverage", "dc:subject"},
			Patterns: []PatternRule{
				{Pattern: `^edm:(year|begin|end)$`, Mode: "date"},
				{Pattern: `^dcterms:(date|modified|valid|available)$`, Mode: "date"},
				{Pattern: `^dcterms:(spatial|medium)$`, Mode: "generic"},
			},
		},
		Normalize: NormalizeConfig{
			FlexibleDateProperties:    true,
			FlexibleGenericProperties: false,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".datenorm-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:      runtime.NumCPU(),
			FieldWorkers: 8,
		},
		RateLimiting: RateLimitingConfig{
			RecordsPerSecond: 50,
			BurstSize:        10,
		},
		Output: OutputConfig{
			Format:           "json",
			Dir:              "./datenorm-reports",
			IncludeTimeSpans: true,
		},
		Input: InputConfig{
			MaxBytes: 10 * 1024 * 1024,
		},
	}
}
