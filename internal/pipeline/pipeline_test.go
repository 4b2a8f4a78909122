package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/datenorm/internal/edtf"
	"github.com/ppiankov/datenorm/internal/model"
	"github.com/ppiankov/datenorm/internal/normalize"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = ""
	cfg.Concurrency.FieldWorkers = 2
	return cfg
}

func newTestPipeline(t *testing.T, cfg *model.Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, nil, nil)
	require.NoError(t, err)
	return p
}

func TestProcessFile(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	result, err := p.ProcessFile(context.Background(), filepath.Join("testdata", "harbour_at_dusk.xml"))
	require.NoError(t, err)

	report := result.Report
	assert.Equal(t, "/2021/item_42", report.Subject)
	assert.Equal(t, []string{"dc:title", "dc:type"}, report.Skipped)
	assert.False(t, report.Meta.Truncated)

	got := make([]string, len(report.Fields))
	for i, f := range report.Fields {
		got[i] = f.Property + "=" + f.Result.EDTF
	}
	assert.Equal(t, []string{
		"dc:date=1920~/1930~",
		"dcterms:created=1989-11-01",
		"dcterms:issued=1926",
		"dc:subject=13XX",
		"dc:subject=",
	}, got)

	assert.Equal(t, "date", report.Fields[0].Mode)
	assert.Equal(t, "generic", report.Fields[3].Mode)
	require.NotNil(t, report.Fields[0].Result.TimeSpan)

	// Created after issued
	assert.True(t, report.Coverage.Conflict)
}

func TestProcessFile_SubjectFromFileName(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	result, err := p.ProcessFile(context.Background(), filepath.Join("testdata", "no_about.xml"))
	require.NoError(t, err)
	assert.Equal(t, "no about", result.Report.Subject)
	require.Len(t, result.Report.Fields, 1)
	assert.False(t, result.Report.Fields[0].Result.Matched())
}

func TestProcessFile_Errors(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	_, err := p.ProcessFile(context.Background(), filepath.Join("testdata", "missing.xml"))
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a record"), 0644))
	_, err = p.ProcessFile(context.Background(), path)
	assert.ErrorContains(t, err, "read record")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ProcessFile(ctx, filepath.Join("testdata", "harbour_at_dusk.xml"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPipeline_InvalidRule(t *testing.T) {
	cfg := testConfig()
	cfg.Properties.Patterns = []model.PatternRule{{Pattern: "(", Mode: "date"}}
	_, err := NewPipeline(cfg, nil, nil)
	assert.Error(t, err)
}

func TestNormalizeValue_Memo(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	first := p.NormalizeValue("circa 1920", normalize.DateProperty, edtf.NoQualification)
	second := p.NormalizeValue("circa 1920", normalize.DateProperty, edtf.NoQualification)
	assert.Equal(t, "1920~", first.EDTF)
	assert.Equal(t, first.EDTF, second.EDTF)
	assert.Equal(t, first.Sanitize, second.Sanitize)

	// A different qualification is a different memo entry
	uncertain := p.NormalizeValue("circa 1920", normalize.DateProperty, edtf.Uncertain)
	assert.Equal(t, "1920?", uncertain.EDTF)

	hits, misses := p.MemoStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestNormalizeValue_NoCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = false
	p := newTestPipeline(t, cfg)

	d := p.NormalizeValue("XIV", normalize.GenericProperty, edtf.NoQualification)
	assert.Equal(t, "13XX", d.EDTF)
	hits, misses := p.MemoStats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestLoader_Truncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big_record-1.xml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0644))

	res, err := NewLoader(10).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, res.Content, 10)
	assert.True(t, res.Meta.Truncated)
	assert.Equal(t, int64(100), res.Meta.Size)
	assert.Equal(t, "big record 1", res.Subject)

	_, err = NewLoader(0).Load(context.Background(), dir)
	assert.Error(t, err)
}

func TestRenderer(t *testing.T) {
	r := NewRenderer()
	report := &model.RecordReport{Subject: "item", Coverage: model.Coverage{Index: 42, Confidence: "low"}}

	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf, FormatJSON, report))
	assert.Contains(t, buf.String(), `"subject": "item"`)

	buf.Reset()
	require.NoError(t, r.Encode(&buf, FormatYAML, report))
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "item", decoded["subject"])

	assert.Error(t, r.Encode(&buf, "xml", report))

	dir := t.TempDir()
	require.NoError(t, r.RenderJSON(report, filepath.Join(dir, "item.json")))
	require.NoError(t, r.RenderYAML(report, filepath.Join(dir, "item.yaml")))
	assert.FileExists(t, filepath.Join(dir, "item.yaml"))

	buf.Reset()
	r.RenderSummary(&buf, report)
	assert.Contains(t, buf.String(), "42/100")
}
