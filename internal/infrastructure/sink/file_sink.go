// Package sink delivers rendered documents to disk and to receipt printers.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/repository"
)

// FileSink archives documents under a directory, one file per invoice.
// Re-delivering the same invoice overwrites the previous file.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

var _ repository.DocumentSink = (*FileSink)(nil)

func (s *FileSink) Deliver(ctx context.Context, doc *entity.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(doc.FileName)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return fmt.Errorf("sink: invalid file name %q", doc.FileName)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("sink: create %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("sink: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Content); err != nil {
		tmp.Close()
		return fmt.Errorf("sink: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sink: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("sink: rename %s: %w", name, err)
	}
	return nil
}

// Path returns where a document with the given file name is stored.
func (s *FileSink) Path(fileName string) string {
	return filepath.Join(s.dir, filepath.Base(fileName))
}
