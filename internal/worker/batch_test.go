package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/datenorm/internal/model"
	"github.com/ppiankov/datenorm/internal/pipeline"
)

// MockProcessor implements Processor interface
type MockProcessor struct {
	ShouldError bool
}

func (m *MockProcessor) ProcessFile(ctx context.Context, path string) (*pipeline.ProcessResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("process error")
	}
	return &pipeline.ProcessResult{
		Report: &model.RecordReport{
			Subject: "Test Subject",
			Source:  path,
		},
		Path: path,
	}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)

	paths := []string{"a/1.xml", "a/2.xml", "b/1.xml"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
			continue
		}
		if res.Report == nil {
			t.Error("expected report for successful record")
		}
		if res.Path != paths[i] {
			t.Errorf("expected %s at index %d, got %s", paths[i], i, res.Path)
		}
	}
}

func TestBatchProcessor_ProcessPaths_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{ShouldError: true}, 2, 0, 0)

	results := processor.ProcessPaths(context.Background(), []string{"a/1.xml"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)

	results := processor.ProcessPaths(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "records.txt")
	abs := filepath.Join(dir, "elsewhere", "c.xml")
	writeFile(t, list, "a.xml\n# comment\nsub/b.xml\n   \n"+abs+"\na.xml   \n")

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{filepath.Join(dir, "a.xml"), filepath.Join(dir, "sub", "b.xml"), abs}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i, p := range paths {
		if p != expected[i] {
			t.Errorf("expected path %s at index %d, got %s", expected[i], i, p)
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPathsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "set1", "a.xml"), "")
	writeFile(t, filepath.Join(dir, "set1", "nested", "b.xml"), "")
	writeFile(t, filepath.Join(dir, "set2", "c.rdf"), "")
	writeFile(t, filepath.Join(dir, "list.txt"), "set2/c.rdf\n")
	if err := os.MkdirAll(filepath.Join(dir, "set1", "dir.xml"), 0755); err != nil {
		t.Fatal(err)
	}

	paths, err := ResolveInputs([]string{
		filepath.Join(dir, "set1", "**", "*.xml"),
		filepath.Join(dir, "list.txt"),
		filepath.Join(dir, "set1", "a.xml"), // duplicate of a glob match
	})
	if err != nil {
		t.Fatalf("ResolveInputs failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "set1", "a.xml"),
		filepath.Join(dir, "set1", "nested", "b.xml"),
		filepath.Join(dir, "set2", "c.rdf"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i, p := range paths {
		if p != expected[i] {
			t.Errorf("expected path %s at index %d, got %s", expected[i], i, p)
		}
	}
}

func TestResolveInputs_NoMatches(t *testing.T) {
	_, err := ResolveInputs([]string{filepath.Join(t.TempDir(), "*.xml")})
	if err == nil {
		t.Error("expected error for pattern without matches")
	}
}

func TestRecordResult_GetError(t *testing.T) {
	r1 := &RecordResult{Path: "a.xml", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("process failed")
	r2 := &RecordResult{Path: "a.xml", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessInputs(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "records.txt")
	writeFile(t, list, "a.xml\nb.xml\n# comment\n\nc.xml\n")

	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)

	results, err := processor.ProcessInputs(context.Background(), []string{list})
	if err != nil {
		t.Fatalf("ProcessInputs failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessInputs_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)

	_, err := processor.ProcessInputs(context.Background(), []string{"no_such_file.txt"})
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&MockProcessor{}, 2, 0, 0)
	results := processor.ProcessPaths(ctx, []string{"a.xml", "b.xml"})
	if len(results) != 0 {
		t.Errorf("expected no results for a cancelled batch, got %d", len(results))
	}
}
