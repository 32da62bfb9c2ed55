package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"LyricRec/model"
)

// FileSink writes the document to a local file. The write goes to a
// temporary file in the same directory that is then renamed over path.
type FileSink struct {
	path   string
	indent string
}

// NewFileSink 创建文件输出
func NewFileSink(path, indent string) *FileSink {
	return &FileSink{path: path, indent: indent}
}

func (s *FileSink) Name() string { return "file" }

// Path returns the destination path.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Write(ctx context.Context, runID string, doc *model.RecommendationDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeDocument(doc, s.indent)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".lyricrec-*.json")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", s.path, err)
	}
	return nil
}
