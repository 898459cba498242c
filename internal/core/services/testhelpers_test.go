package services

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
	xmlextract "github.com/custodia-labs/xmlzip/internal/extractors/xmldoc"
	xmlgen "github.com/custodia-labs/xmlzip/internal/generators/xmldoc"
)

// member is one named entry of a test archive.
type member struct {
	name string
	data []byte
}

// docMember renders a well-formed document as an archive member.
func docMember(id string, level int, objects ...string) member {
	doc := &domain.Document{ID: id, Level: level, Objects: objects}
	return member{
		name: id + strconv.Itoa(level) + ".xml",
		data: xmlgen.Render(doc),
	}
}

// writeZip writes an archive with the given members in order.
func writeZip(t *testing.T, dir, name string, members ...member) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write(m.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// countingExtractor tracks how many extractions run at once.
type countingExtractor struct {
	driven.Extractor
	delay    time.Duration
	inflight atomic.Int64
	peak     atomic.Int64
	calls    atomic.Int64
}

func newCountingExtractor(delay time.Duration) *countingExtractor {
	return &countingExtractor{Extractor: xmlextract.NewTagged(), delay: delay}
}

func (e *countingExtractor) Extract(ctx context.Context, payload []byte) (*domain.Document, error) {
	e.calls.Add(1)
	n := e.inflight.Add(1)
	defer e.inflight.Add(-1)
	for {
		p := e.peak.Load()
		if n <= p || e.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(e.delay)
	return e.Extractor.Extract(ctx, payload)
}

// blockingExtractor hangs on payloads containing marker until release is closed.
// It ignores ctx to model a parse that cannot be interrupted.
type blockingExtractor struct {
	driven.Extractor
	marker  []byte
	release chan struct{}
	entered chan struct{}
}

func newBlockingExtractor(marker string) *blockingExtractor {
	return &blockingExtractor{
		Extractor: xmlextract.NewTagged(),
		marker:    []byte(marker),
		release:   make(chan struct{}),
		entered:   make(chan struct{}, 16),
	}
}

func (e *blockingExtractor) Extract(ctx context.Context, payload []byte) (*domain.Document, error) {
	if bytes.Contains(payload, e.marker) {
		e.entered <- struct{}{}
		<-e.release
	}
	return e.Extractor.Extract(ctx, payload)
}
