package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
	"github.com/custodia-labs/xmlzip/internal/logger"
)

// Ensure ArchiveProducer implements the interface.
var _ driving.ArchiveProducer = (*ArchiveProducer)(nil)

// stampLayout names archives by creation time.
const stampLayout = "20060102T150405.000000000"

// ArchiveProducer writes archives of generated documents.
// Each document is written loose, packed, then removed, so only archives remain.
type ArchiveProducer struct {
	generator driven.DocumentGenerator
	writer    driven.ArchiveWriter
	now       func() time.Time
}

// NewArchiveProducer creates a producer.
func NewArchiveProducer(generator driven.DocumentGenerator, writer driven.ArchiveWriter) *ArchiveProducer {
	return &ArchiveProducer{
		generator: generator,
		writer:    writer,
		now:       time.Now,
	}
}

// Produce writes archives archives of documents documents each into dir.
// A document that cannot be read back for packing is lost and logged;
// every other failure is returned.
func (p *ArchiveProducer) Produce(ctx context.Context, dir string, archives, documents int) ([]string, error) {
	if archives < 0 || documents < 0 {
		return nil, fmt.Errorf("%w: archives and documents must not be negative", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDirectoryCreate, dir, err)
	}

	logger.Section("Generate")
	logger.Info("Producing archives", "dir", dir, "archives", archives, "documents", documents)

	batch := uuid.NewString()[:8]
	paths := make([]string, 0, archives)
	for i := 0; i < archives; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		name := fmt.Sprintf("%s-%s-%04d.zip", p.now().Format(stampLayout), batch, i)
		path := filepath.Join(dir, name)
		if err := p.produceArchive(ctx, dir, path, documents); err != nil {
			return paths, fmt.Errorf("archive %s: %w", name, err)
		}
		paths = append(paths, path)
	}

	logger.Info("Archives produced", "count", len(paths))
	return paths, nil
}

// produceArchive writes one archive holding documents generated documents.
func (p *ArchiveProducer) produceArchive(ctx context.Context, dir, path string, documents int) (err error) {
	builder, err := p.writer.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := builder.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing archive: %w", cerr)
		}
	}()

	lost := 0
	for j := 0; j < documents; j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, level := p.generator.NewID(), p.generator.NewLevel()
		payload, err := p.generator.Generate(id, level)
		if err != nil {
			return fmt.Errorf("generating document %s: %w", id, err)
		}

		name := id + strconv.Itoa(level) + ".xml"
		loose := filepath.Join(dir, name)
		if err := os.WriteFile(loose, payload, 0o644); err != nil {
			return fmt.Errorf("writing document %s: %w", name, err)
		}

		if err := builder.AddFile(loose, name); err != nil {
			lost++
			logger.Warn("Document lost", "archive", path, "document", name, "error", err)
		}
		if err := os.Remove(loose); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to remove loose document", "document", loose, "error", err)
		}
	}

	logger.Debug("Archive written", "archive", path, "documents", documents-lost, "lost", lost)
	return nil
}
