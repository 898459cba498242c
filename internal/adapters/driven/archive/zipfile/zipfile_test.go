package zipfile

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

func writeLoose(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWriterAndReader_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "a.zip")

	var w driven.ArchiveWriter = NewWriter()
	b, err := w.Create(archivePath)
	require.NoError(t, err)
	require.NoError(t, b.AddFile(writeLoose(t, dir, "one.xml", "<root>1</root>"), "one.xml"))
	require.NoError(t, b.AddFile(writeLoose(t, dir, "two.xml", "<root>2</root>"), "two.xml"))
	require.NoError(t, b.Close())

	var r driven.ArchiveReader = NewReader()
	a, err := r.Open(archivePath)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, archivePath, a.Path())
	assert.Equal(t, []string{"one.xml", "two.xml"}, a.Members())

	data, err := a.ReadMember("two.xml")
	require.NoError(t, err)
	assert.Equal(t, "<root>2</root>", string(data))
}

func TestWriter_CreateRefusesExisting(t *testing.T) {
	path := writeLoose(t, t.TempDir(), "exists.zip", "x")

	_, err := NewWriter().Create(path)

	assert.Error(t, err)
}

func TestBuilder_AddFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	b, err := NewWriter().Create(filepath.Join(dir, "a.zip"))
	require.NoError(t, err)
	defer b.Close()

	err = b.AddFile(filepath.Join(dir, "gone.xml"), "gone.xml")

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_OpenNotAZip(t *testing.T) {
	path := writeLoose(t, t.TempDir(), "notes.txt", "plain text")

	_, err := NewReader().Open(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArchiveOpen)
}

func TestReader_OpenDirectory(t *testing.T) {
	_, err := NewReader().Open(t.TempDir())

	assert.ErrorIs(t, err, domain.ErrArchiveOpen)
}

func TestReader_SkipsDirectoryEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirs.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("folder/")
	require.NoError(t, err)
	fw, err := zw.Create("folder/doc.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte("<root/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	a, err := NewReader().Open(path)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"folder/doc.xml"}, a.Members())
}

func TestArchive_ReadMemberUnknown(t *testing.T) {
	dir := t.TempDir()
	b, err := NewWriter().Create(filepath.Join(dir, "a.zip"))
	require.NoError(t, err)
	require.NoError(t, b.Close())

	a, err := NewReader().Open(filepath.Join(dir, "a.zip"))
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Members())
	_, err = a.ReadMember("nope.xml")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArchive_ConcurrentReads(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "a.zip")
	b, err := NewWriter().Create(archivePath)
	require.NoError(t, err)
	names := []string{"a.xml", "b.xml", "c.xml", "d.xml"}
	for _, n := range names {
		require.NoError(t, b.AddFile(writeLoose(t, dir, n, "<root>"+n+"</root>"), n))
	}
	require.NoError(t, b.Close())

	a, err := NewReader().Open(archivePath)
	require.NoError(t, err)
	defer a.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, n := range names {
			wg.Add(1)
			go func(n string) {
				defer wg.Done()
				data, err := a.ReadMember(n)
				assert.NoError(t, err)
				assert.Equal(t, "<root>"+n+"</root>", string(data))
			}(n)
		}
	}
	wg.Wait()
}

func TestReader_List(t *testing.T) {
	dir := t.TempDir()
	writeLoose(t, dir, "b.zip", "")
	writeLoose(t, dir, "a.zip", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	paths, err := NewReader().List(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.zip"),
		filepath.Join(dir, "b.zip"),
		filepath.Join(dir, "sub"),
	}, paths)
}

func TestReader_ListEmpty(t *testing.T) {
	paths, err := NewReader().List(t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestReader_ListMissing(t *testing.T) {
	_, err := NewReader().List(filepath.Join(t.TempDir(), "missing"))

	assert.ErrorIs(t, err, domain.ErrDirectoryNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReader_ListFile(t *testing.T) {
	path := writeLoose(t, t.TempDir(), "file", "x")

	_, err := NewReader().List(path)

	assert.ErrorIs(t, err, domain.ErrDirectoryNotFound)
}
