package driven

// RecordSink is an append-only tabular output.
// Append must be safe for concurrent use and must never interleave the
// bytes of rows from different calls.
type RecordSink interface {
	// Append writes rows as one unit. Values are strings or integers.
	Append(rows ...[]any) error

	// Path returns where the sink writes.
	Path() string

	// Close flushes buffered rows and releases the sink.
	Close() error
}

// SinkFactory opens record sinks.
type SinkFactory interface {
	// Open opens a sink at path, truncating it unless appendMode is set.
	Open(path string, appendMode bool) (RecordSink, error)
}
