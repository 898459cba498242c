package driven

// ArchiveReader lists and opens archive files for reading.
type ArchiveReader interface {
	// List returns the path of every entry in dir, without filtering.
	// Returns domain.ErrDirectoryNotFound if dir does not exist or is not a directory.
	List(dir string) ([]string, error)

	// Open opens the archive at path. Errors are reported as archive open failures.
	Open(path string) (Archive, error)
}

// Archive is an open, read-only archive.
// ReadMember must be safe for concurrent use.
type Archive interface {
	// Path returns the archive file path.
	Path() string

	// Members returns member names in archive order.
	Members() []string

	// ReadMember returns the full payload of the named member.
	ReadMember(name string) ([]byte, error)

	// Close releases the archive.
	Close() error
}

// ArchiveWriter creates new archives.
type ArchiveWriter interface {
	// Create creates a new archive at path. It fails if path already exists.
	Create(path string) (ArchiveBuilder, error)
}

// ArchiveBuilder packs files into an archive being written.
type ArchiveBuilder interface {
	// AddFile reads the file at src and stores it under name.
	AddFile(src, name string) error

	// Close finalises the archive.
	Close() error
}
