// Package memory provides an in-memory RecordSink for tests.
package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Ensure Sink and Factory implement the interfaces.
var (
	_ driven.RecordSink  = (*Sink)(nil)
	_ driven.SinkFactory = (*Factory)(nil)
)

// Sink keeps appended rows in memory.
type Sink struct {
	path string

	mu      sync.Mutex
	rows    [][]any
	batches int
	closed  bool
	// failAfter makes Append fail once this many calls succeeded. Zero disables.
	failAfter int
}

// NewSink creates an in-memory sink identified by path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// FailAfter makes every Append after the first n successful calls fail.
func (s *Sink) FailAfter(n int) *Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	return s
}

// Path returns the identifying path.
func (s *Sink) Path() string {
	return s.path
}

// Append stores rows as one batch.
func (s *Sink) Append(rows ...[]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: %s is closed", domain.ErrSinkWrite, s.path)
	}
	if s.failAfter > 0 && s.batches >= s.failAfter {
		return fmt.Errorf("%w: %s: injected failure", domain.ErrSinkWrite, s.path)
	}
	s.batches++
	for _, row := range rows {
		s.rows = append(s.rows, append([]any(nil), row...))
	}
	return nil
}

// Close marks the sink closed.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Rows returns a copy of every stored row.
func (s *Sink) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	copy(out, s.rows)
	return out
}

// Batches returns the number of successful Append calls.
func (s *Sink) Batches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

// Closed reports whether Close was called.
func (s *Sink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Factory hands out memory sinks keyed by path and remembers them.
type Factory struct {
	mu      sync.Mutex
	sinks   map[string]*Sink
	presets map[string]*Sink
	// OpenErr, when set, is returned by Open for every path.
	OpenErr error
}

// NewFactory creates a memory sink factory.
func NewFactory() *Factory {
	return &Factory{
		sinks:   make(map[string]*Sink),
		presets: make(map[string]*Sink),
	}
}

// Open returns the sink for path, creating it if needed.
// Without appendMode a previously opened sink is replaced.
func (f *Factory) Open(path string, appendMode bool) (driven.RecordSink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	if s, ok := f.presets[path]; ok {
		delete(f.presets, path)
		f.sinks[path] = s
		return s, nil
	}
	if s, ok := f.sinks[path]; ok && appendMode {
		s.mu.Lock()
		s.closed = false
		s.mu.Unlock()
		return s, nil
	}
	s := NewSink(path)
	f.sinks[path] = s
	return s, nil
}

// Preset registers s to be returned by the next Open of its path.
func (f *Factory) Preset(s *Sink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presets[s.path] = s
}

// Sink returns the sink opened for path, or nil.
func (f *Factory) Sink(path string) *Sink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sinks[path]
}
