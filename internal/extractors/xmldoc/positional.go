package xmldoc

import (
	"context"
	"encoding/xml"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Element indexes in document order, the root being 0.
const (
	posID          = 1
	posLevel       = 2
	posFirstObject = 4 // index 3 is the objects container
)

// Ensure Positional implements the interface.
var _ driven.Extractor = (*Positional)(nil)

// Positional reads fields by element index in document order.
// The identifier comes from the value of element 1, the level from element 2,
// and every element from index 4 on is one object. An object element without
// a name still yields a row, with an empty name. This couples the extractor
// to the generator's exact layout.
type Positional struct{}

// NewPositional creates a positional extractor.
func NewPositional() *Positional {
	return &Positional{}
}

// Mode returns domain.ExtractionPositional.
func (p *Positional) Mode() domain.ExtractionMode {
	return domain.ExtractionPositional
}

// Extract parses payload.
func (p *Positional) Extract(ctx context.Context, payload []byte) (*domain.Document, error) {
	var id, level string
	var objects []string
	idx := 0

	err := walk(ctx, payload, func(se xml.StartElement) error {
		switch {
		case idx == posID:
			id, _ = attr(se, attrValue)
		case idx == posLevel:
			level, _ = attr(se, attrValue)
		case idx >= posFirstObject:
			// A missing name is kept as an empty object name.
			name, _ := attr(se, attrName)
			objects = append(objects, name)
		}
		idx++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if idx <= posLevel {
		return nil, parseErr("expected at least %d elements, got %d", posLevel+1, idx)
	}

	return build(id, level, objects)
}
