package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocument_LevelRecord tests the single level row of a document
func TestDocument_LevelRecord(t *testing.T) {
	doc := Document{ID: "abc", Level: 42, Objects: []string{"a", "b"}}

	rec := doc.LevelRecord()

	assert.Equal(t, LevelRecord{ID: "abc", Level: 42}, rec)
	assert.Equal(t, []any{"abc", 42}, rec.Fields())
}

// TestDocument_ObjectRecords tests one object row per object sharing the ID
func TestDocument_ObjectRecords(t *testing.T) {
	doc := Document{ID: "abc", Level: 7, Objects: []string{"first", "second", "third"}}

	recs := doc.ObjectRecords()

	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, "abc", rec.ID)
		assert.Equal(t, doc.Objects[i], rec.ObjectName)
	}
	assert.Equal(t, []any{"abc", "first"}, recs[0].Fields())
}

// TestDocument_NoObjects tests a document without objects yields no object rows
func TestDocument_NoObjects(t *testing.T) {
	doc := Document{ID: "lonely", Level: 1}

	assert.Empty(t, doc.ObjectRecords())
}
