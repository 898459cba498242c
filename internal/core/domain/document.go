package domain

// Document is a single generated unit of input data.
// Once generated it is immutable and holds no references to other documents.
type Document struct {
	// ID is the opaque identifier, unique across one producer run.
	ID string

	// Level is the numeric level attribute.
	Level int

	// Objects holds the names of the document's child objects in document order.
	// Names are unique within a document but not across documents.
	Objects []string
}

// LevelRecord is one row of the Levels sink.
type LevelRecord struct {
	ID    string
	Level int
}

// ObjectRecord is one row of the Objects sink.
type ObjectRecord struct {
	ID         string
	ObjectName string
}

// LevelRecord returns the single level row derived from the document.
func (d *Document) LevelRecord() LevelRecord {
	return LevelRecord{ID: d.ID, Level: d.Level}
}

// ObjectRecords returns one row per object, all sharing the document ID.
func (d *Document) ObjectRecords() []ObjectRecord {
	records := make([]ObjectRecord, 0, len(d.Objects))
	for _, name := range d.Objects {
		records = append(records, ObjectRecord{ID: d.ID, ObjectName: name})
	}
	return records
}

// Fields returns the row values written to the Levels sink.
func (r LevelRecord) Fields() []any {
	return []any{r.ID, r.Level}
}

// Fields returns the row values written to the Objects sink.
func (r ObjectRecord) Fields() []any {
	return []any{r.ID, r.ObjectName}
}
