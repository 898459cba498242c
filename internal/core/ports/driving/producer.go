package driving

import "context"

// ArchiveProducer generates archives of synthetic documents.
type ArchiveProducer interface {
	// Produce writes archives archives into dir, each holding documents
	// documents, and returns the paths written.
	Produce(ctx context.Context, dir string, archives, documents int) ([]string, error)
}
