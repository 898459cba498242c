// Package xmldoc generates synthetic XML documents with random identifiers,
// levels and object names.
package xmldoc

import (
	"encoding/xml"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Ensure Generator implements the interface.
var _ driven.DocumentGenerator = (*Generator)(nil)

// Options configures generated content.
type Options struct {
	// IDLength is the length of document identifiers.
	IDLength int

	// NameLength is the length of object names.
	NameLength int

	// MinLevel and MaxLevel bound generated levels, inclusive.
	MinLevel int
	MaxLevel int

	// MinObjects and MaxObjects bound the random object count, inclusive.
	MinObjects int
	MaxObjects int

	// ObjectCount fixes the object count when positive.
	ObjectCount int
}

// DefaultOptions returns 24-character ids, 12-character names,
// levels in [1, 100] and 1 to 10 objects per document.
func DefaultOptions() Options {
	return Options{
		IDLength:   24,
		NameLength: 12,
		MinLevel:   1,
		MaxLevel:   100,
		MinObjects: 1,
		MaxObjects: 10,
	}
}

// Generator produces documents. It is safe for concurrent use.
type Generator struct {
	opts Options

	mu   sync.Mutex
	rng  *rand.Rand
	seen map[string]struct{}
}

// New creates a generator. A nil rng seeds one from the clock.
func New(opts Options, rng *rand.Rand) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Generator{
		opts: opts,
		rng:  rng,
		seen: make(map[string]struct{}),
	}
}

// NewID returns an identifier this generator has not returned before.
func (g *Generator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		id := g.randomString(g.opts.IDLength)
		if _, dup := g.seen[id]; dup {
			continue
		}
		g.seen[id] = struct{}{}
		return id
	}
}

// NewLevel returns a level in [MinLevel, MaxLevel].
func (g *Generator) NewLevel() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.between(g.opts.MinLevel, g.opts.MaxLevel)
}

// Generate serialises a document with a random set of uniquely named objects.
func (g *Generator) Generate(id string, level int) ([]byte, error) {
	doc := &domain.Document{ID: id, Level: level, Objects: g.objectNames()}
	return Render(doc), nil
}

// objectNames returns unique names for one document.
func (g *Generator) objectNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	count := g.opts.ObjectCount
	if count <= 0 {
		count = g.between(g.opts.MinObjects, g.opts.MaxObjects)
	}

	names := make([]string, 0, count)
	used := make(map[string]struct{}, count)
	for len(names) < count {
		name := g.randomString(g.opts.NameLength)
		if _, dup := used[name]; dup {
			continue
		}
		used[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// between returns a value in [lo, hi] (caller must hold lock).
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// randomString returns n characters from alphabet (caller must hold lock).
func (g *Generator) randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[g.rng.IntN(len(alphabet))]
	}
	return string(b)
}

// Render serialises doc in the document form.
func Render(doc *domain.Document) []byte {
	var sb strings.Builder
	sb.WriteString("<root>\n")
	sb.WriteString("\t<var name='id' value='")
	escape(&sb, doc.ID)
	sb.WriteString("'/>\n")
	sb.WriteString("\t<var name='level' value='")
	sb.WriteString(strconv.Itoa(doc.Level))
	sb.WriteString("'/>\n")
	sb.WriteString("\t<objects>\n")
	for _, name := range doc.Objects {
		sb.WriteString("\t\t<object name='")
		escape(&sb, name)
		sb.WriteString("'/>\n")
	}
	sb.WriteString("\t</objects>\n")
	sb.WriteString("</root>\n")
	return []byte(sb.String())
}

func escape(sb *strings.Builder, s string) {
	// strings.Builder writes never fail
	_ = xml.EscapeText(sb, []byte(s))
}
