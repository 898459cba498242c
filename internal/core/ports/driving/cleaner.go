package driving

// Cleaner removes the artifacts of a run.
type Cleaner interface {
	// Clean removes the archive directory and the given output files.
	// Paths that do not exist are ignored.
	Clean(dir string, outputs ...string) error
}
