// Package xmldoc extracts Documents from the XML form written by the generator:
//
//	<root>
//		<var name='id' value='ID'/>
//		<var name='level' value='LEVEL'/>
//		<objects>
//			<object name='NAME'/>
//		</objects>
//	</root>
package xmldoc

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Element and attribute names of the document form.
const (
	elemVar    = "var"
	elemObject = "object"
	attrName   = "name"
	attrValue  = "value"
	varID      = "id"
	varLevel   = "level"
)

// New returns the extractor for mode.
func New(mode domain.ExtractionMode) (driven.Extractor, error) {
	switch mode {
	case domain.ExtractionTagged:
		return NewTagged(), nil
	case domain.ExtractionPositional:
		return NewPositional(), nil
	default:
		return nil, fmt.Errorf("%w: extraction mode %q", domain.ErrInvalidInput, mode)
	}
}

// walk calls fn for every start element in document order.
// It reads to EOF so that unbalanced or truncated payloads are rejected.
func walk(ctx context.Context, payload []byte, fn func(xml.StartElement) error) error {
	dec := xml.NewDecoder(bytes.NewReader(payload))
	seen := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return parseErr("malformed xml: %v", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		seen = true
		if err := fn(se); err != nil {
			return err
		}
	}
	if !seen {
		return parseErr("no root element")
	}
	return nil
}

// attr returns the value of the named attribute of se.
func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// build validates the recovered fields and assembles the document.
func build(id, level string, objects []string) (*domain.Document, error) {
	if id == "" {
		return nil, parseErr("missing identifier")
	}
	if level == "" {
		return nil, parseErr("missing level")
	}
	n, err := strconv.Atoi(strings.TrimSpace(level))
	if err != nil {
		return nil, parseErr("level %q is not an integer", level)
	}
	return &domain.Document{ID: id, Level: n, Objects: objects}, nil
}

func parseErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMemberParse, fmt.Sprintf(format, args...))
}
