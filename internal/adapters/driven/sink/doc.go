// Package sink provides implementations of the RecordSink port.
//
// Adapters:
//   - tsv: Tab-delimited files, strings quoted and integers bare
//   - memory: In-memory rows, for tests
package sink
