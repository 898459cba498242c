package driven

// DocumentGenerator produces the synthetic inputs packed by the producer.
type DocumentGenerator interface {
	// NewID returns an identifier not returned before by this generator.
	NewID() string

	// NewLevel returns a level in the generator's configured range.
	NewLevel() int

	// Generate serialises a document with the given identifier and level
	// and a randomised set of uniquely named objects.
	Generate(id string, level int) ([]byte, error)
}
