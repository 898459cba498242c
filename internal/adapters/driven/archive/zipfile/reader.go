// Package zipfile reads and writes zip archives on the local filesystem.
package zipfile

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.ArchiveReader = (*Reader)(nil)

// Reader opens zip archives.
type Reader struct{}

// NewReader creates a zip archive reader.
func NewReader() *Reader {
	return &Reader{}
}

// List returns every entry of dir, sorted by name.
// Entries are not filtered: anything that is not a zip fails later in Open.
func (r *Reader) List(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Open opens the zip archive at path.
// Directory entries are not members.
func (r *Reader) Open(path string) (driven.Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrArchiveOpen, err)
	}

	a := &Archive{
		path:  path,
		rc:    zr,
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if _, dup := a.files[f.Name]; dup {
			continue
		}
		a.files[f.Name] = f
		a.names = append(a.names, f.Name)
	}
	return a, nil
}

// Archive is an open zip archive. ReadMember is safe for concurrent use.
type Archive struct {
	path  string
	rc    *zip.ReadCloser
	names []string
	files map[string]*zip.File
}

// Path returns the archive file path.
func (a *Archive) Path() string {
	return a.path
}

// Members returns member names in archive order.
func (a *Archive) Members() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// ReadMember returns the decompressed payload of the named member.
func (a *Archive) ReadMember(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", name, domain.ErrNotFound)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening member %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading member %s: %w", name, err)
	}
	return data, nil
}

// Close closes the underlying file.
func (a *Archive) Close() error {
	return a.rc.Close()
}
