package zipfile

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ArchiveWriter = (*Writer)(nil)

// Writer creates zip archives.
type Writer struct{}

// NewWriter creates a zip archive writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Create creates a new archive at path. An existing file is never overwritten.
func (w *Writer) Create(path string) (driven.ArchiveBuilder, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating archive %s: %w", path, err)
	}
	return &Builder{file: file, zw: zip.NewWriter(file)}, nil
}

// Builder adds deflated files to an archive being written.
type Builder struct {
	file *os.File
	zw   *zip.Writer
}

// AddFile reads src and stores it under name.
func (b *Builder) AddFile(src, name string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	fw, err := b.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Close writes the central directory and closes the file.
func (b *Builder) Close() error {
	return errors.Join(b.zw.Close(), b.file.Close())
}
