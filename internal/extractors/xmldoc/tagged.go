package xmldoc

import (
	"context"
	"encoding/xml"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Ensure Tagged implements the interface.
var _ driven.Extractor = (*Tagged)(nil)

// Tagged looks fields up by element and attribute name.
// Field order and nesting do not matter.
type Tagged struct{}

// NewTagged creates a tag lookup extractor.
func NewTagged() *Tagged {
	return &Tagged{}
}

// Mode returns domain.ExtractionTagged.
func (t *Tagged) Mode() domain.ExtractionMode {
	return domain.ExtractionTagged
}

// Extract parses payload.
func (t *Tagged) Extract(ctx context.Context, payload []byte) (*domain.Document, error) {
	var id, level string
	var objects []string

	err := walk(ctx, payload, func(se xml.StartElement) error {
		switch se.Name.Local {
		case elemVar:
			name, _ := attr(se, attrName)
			value, _ := attr(se, attrValue)
			switch name {
			case varID:
				if id == "" {
					id = value
				}
			case varLevel:
				if level == "" {
					level = value
				}
			}
		case elemObject:
			name, ok := attr(se, attrName)
			if !ok {
				return parseErr("object without name")
			}
			objects = append(objects, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return build(id, level, objects)
}
