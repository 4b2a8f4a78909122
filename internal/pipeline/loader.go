package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/datenorm/internal/model"
)

// Loader reads record files from disk
type Loader struct {
	maxBytes int64
}

// NewLoader creates a Loader that reads at most maxBytes per file. Zero means no limit.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// LoadResult contains the file content and metadata
type LoadResult struct {
	Content []byte
	Meta    model.FileMeta
	Subject string
	Path    string
}

// Load reads the record file at path
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	var r io.Reader = f
	if l.maxBytes > 0 {
		r = io.LimitReader(f, l.maxBytes)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return &LoadResult{
		Content: body,
		Meta: model.FileMeta{
			Size:      info.Size(),
			Truncated: l.maxBytes > 0 && info.Size() > l.maxBytes,
			ModTime:   info.ModTime().UTC(),
		},
		Subject: subjectFromPath(path),
		Path:    path,
	}, nil
}

// subjectFromPath derives a human-readable subject from the file name
func subjectFromPath(path string) string {
	last := filepath.Base(path)

	// Remove file extensions
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	// De-slugify: replace underscores and hyphens with spaces
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	return last
}
