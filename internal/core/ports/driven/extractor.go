package driven

import (
	"context"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

// Extractor recovers the identifier, level and object names from one member payload.
// Implementations must be safe for concurrent use.
type Extractor interface {
	// Mode returns the extraction strategy implemented.
	Mode() domain.ExtractionMode

	// Extract parses payload. Malformed content or missing identifier/level
	// fields return an error wrapping domain.ErrMemberParse.
	Extract(ctx context.Context, payload []byte) (*domain.Document, error)
}
