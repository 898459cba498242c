// Package tsv writes records as tab-delimited text.
//
// Strings are always quoted with '"' (embedded quotes doubled) and integers
// are written bare, so every row reads back with encoding/csv using a tab
// delimiter. Rows end with "\r\n".
package tsv

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

const (
	delimiter  = '\t'
	terminator = "\r\n"
)

// Ensure Sink and Factory implement the interfaces.
var (
	_ driven.RecordSink  = (*Sink)(nil)
	_ driven.SinkFactory = (*Factory)(nil)
)

// Factory opens tab-delimited sinks.
type Factory struct{}

// NewFactory creates a sink factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open opens a sink at path.
func (f *Factory) Open(path string, appendMode bool) (driven.RecordSink, error) {
	return Open(path, appendMode)
}

// Sink is a tab-delimited file sink.
// Each Append is written under the sink's own mutex, so rows from
// concurrent callers never interleave.
type Sink struct {
	path string

	mu     sync.Mutex
	file   *os.File
	w      *bufio.Writer
	err    error
	closed bool
}

// Open creates or truncates path, or appends to it when appendMode is set.
// Parent directories are created as needed.
func Open(path string, appendMode bool) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating directory for %s: %w", domain.ErrSinkWrite, path, err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", domain.ErrSinkWrite, path, err)
	}

	return &Sink{
		path: path,
		file: file,
		w:    bufio.NewWriter(file),
	}, nil
}

// Path returns the file path.
func (s *Sink) Path() string {
	return s.path
}

// Append encodes rows and writes them as one unit.
// The first write error is sticky; later calls return it again.
func (s *Sink) Append(rows ...[]any) error {
	if len(rows) == 0 {
		return nil
	}
	// Encode outside the lock; only the byte copy is serialised.
	data := EncodeRows(rows...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: %s is closed", domain.ErrSinkWrite, s.path)
	}
	if s.err != nil {
		return s.err
	}
	if _, err := s.w.Write(data); err != nil {
		s.err = fmt.Errorf("%w: writing %s: %w", domain.ErrSinkWrite, s.path, err)
		return s.err
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.err != nil {
		errs = append(errs, s.err)
	}
	if err := s.w.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("%w: flushing %s: %w", domain.ErrSinkWrite, s.path, err))
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: closing %s: %w", domain.ErrSinkWrite, s.path, err))
	}
	return errors.Join(errs...)
}

// EncodeRows returns the encoded form of rows.
func EncodeRows(rows ...[]any) []byte {
	var sb strings.Builder
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				sb.WriteByte(delimiter)
			}
			encodeField(&sb, field)
		}
		sb.WriteString(terminator)
	}
	return []byte(sb.String())
}

// encodeField writes numbers bare and everything else quoted.
func encodeField(sb *strings.Builder, field any) {
	switch v := field.(type) {
	case int:
		sb.WriteString(strconv.Itoa(v))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case uint:
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(v, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		quote(sb, v)
	default:
		quote(sb, fmt.Sprint(v))
	}
}

func quote(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	sb.WriteString(strings.ReplaceAll(s, `"`, `""`))
	sb.WriteByte('"')
}
